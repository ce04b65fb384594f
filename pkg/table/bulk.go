package table

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/censuskit/censuskit/pkg/clients"
	"github.com/censuskit/censuskit/pkg/config"
	"github.com/censuskit/censuskit/pkg/dictionary"
	"github.com/censuskit/censuskit/pkg/errors"
	"github.com/censuskit/censuskit/pkg/metrics"
)

// BulkMapVariables applies variable mapping to a batch of named tables
// sharing one dictionary source. The dictionary is resolved exactly once
// and the section located once; each table is then mapped independently.
//
// A per-table failure is wrapped with the table's name. By default the
// remaining tables are still processed and the failures are returned
// joined; with cfg.FailFast the first failure aborts the batch. Either
// way, tables that failed are absent from the result rather than
// silently carried over unmapped.
func BulkMapVariables(ctx context.Context, tables map[string]*Table, cfg *config.MapperConfig, client *clients.HTTPClient) (map[string]*Table, error) {
	dict, err := dictionary.Resolve(ctx, cfg, client)
	if err != nil {
		return nil, err
	}
	level, err := dictionary.ParseSurveyLevel(cfg.SurveyLevel)
	if err != nil {
		return nil, err
	}

	mapper := NewVariableMapper(dict, level, cfg.SkipSet())

	// Deterministic processing order keeps logs and fail-fast behavior
	// reproducible across runs.
	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)

	processed := make(map[string]*Table, len(tables))
	var errs error

	for _, name := range names {
		timer := metrics.NewTimer()
		mapped, err := mapper.Apply(tables[name])
		if err != nil {
			wrapped := errors.Wrap(err, errors.ErrorTypeData, fmt.Sprintf("failed to map table %q", name)).
				WithDetail("table", name)
			if cfg.FailFast {
				return nil, wrapped
			}
			mapper.logger.Error("table mapping failed",
				zap.String("table", name),
				zap.Error(wrapped))
			errs = multierr.Append(errs, wrapped)
			continue
		}
		metrics.MappingLatency.WithLabelValues(name).Observe(timer.Stop().Seconds())
		processed[name] = mapped
	}

	return processed, errs
}
