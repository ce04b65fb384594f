package table

import (
	"context"
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/censuskit/censuskit/pkg/clients"
	"github.com/censuskit/censuskit/pkg/config"
	"github.com/censuskit/censuskit/pkg/dictionary"
	"github.com/censuskit/censuskit/pkg/errors"
	"github.com/censuskit/censuskit/pkg/logger"
	"github.com/censuskit/censuskit/pkg/metrics"
)

// VariableMapper applies a dictionary section's code-to-label mappings
// to the eligible columns of a table. The section is located once when
// the mapper is built and reused for every column and every table.
type VariableMapper struct {
	section []string
	skip    map[string]struct{}
	logger  *zap.Logger
}

// NewVariableMapper builds a mapper over the section for the given
// survey level. Skip lists column names excluded from mapping; nil
// means none.
func NewVariableMapper(dict *dictionary.Dictionary, level dictionary.SurveyLevel, skip map[string]struct{}) *VariableMapper {
	section := dict.Section(level)
	if len(section) == 0 {
		// Marker drift in the published document disables mapping for
		// the whole level. Degrade silently per the mapping contract,
		// but leave a trace for operators.
		logger.Warn("dictionary section not found, no columns will be mapped",
			zap.String("survey_level", string(level)))
	}
	return &VariableMapper{
		section: section,
		skip:    skip,
		logger:  logger.With(zap.String("survey_level", string(level))),
	}
}

// Apply maps every eligible column of the table and returns a new
// table. Eligibility requires a fully upper-case column name (digits
// and underscores permitted, no lower-case letters) that is not in the
// skip set. Columns with an empty mapping are left untouched. Within a
// mapped column, a cell whose code is absent from the mapping becomes
// nil. The caller's table is never modified.
func (m *VariableMapper) Apply(tbl *Table) (*Table, error) {
	if tbl == nil {
		return nil, errors.New(errors.ErrorTypeData, "table is nil")
	}

	out := tbl.Clone()

	for idx, column := range out.columns {
		if !isUpperName(column) {
			continue
		}
		if _, skipped := m.skip[column]; skipped {
			continue
		}

		mappings := dictionary.ExtractMappings(m.section, column)
		if len(mappings) == 0 {
			continue
		}

		values := make([]interface{}, len(out.rows))
		replaced := 0
		for i, row := range out.rows {
			code, ok := cellCode(row[idx])
			if !ok {
				// Unparseable or missing cell maps to the null marker,
				// same as a code absent from the mapping.
				values[i] = nil
				continue
			}
			label, found := mappings[code]
			if !found {
				values[i] = nil
				continue
			}
			values[i] = label
			replaced++
		}
		out.setColumn(idx, values)

		metrics.VariablesMapped.Inc()
		metrics.CellsReplaced.Add(float64(replaced))

		m.logger.Debug("mapped column",
			zap.String("column", column),
			zap.Int("codes", len(mappings)),
			zap.Int("cells_replaced", replaced))
	}

	return out, nil
}

// MapVariables resolves the dictionary named by the configuration and
// maps one table. It is the single-table entry point; bulk callers use
// BulkMapVariables so the dictionary is fetched once.
func MapVariables(ctx context.Context, tbl *Table, cfg *config.MapperConfig, client *clients.HTTPClient) (*Table, error) {
	dict, err := dictionary.Resolve(ctx, cfg, client)
	if err != nil {
		return nil, err
	}
	level, err := dictionary.ParseSurveyLevel(cfg.SurveyLevel)
	if err != nil {
		return nil, err
	}
	return NewVariableMapper(dict, level, cfg.SkipSet()).Apply(tbl)
}

// isUpperName reports whether a column name counts as upper-case: at
// least one upper-case letter and no lower-case letters. Digits and
// underscores do not disqualify a name, so AGE_2 is eligible.
func isUpperName(name string) bool {
	hasUpper := false
	for _, r := range name {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasUpper = true
		}
	}
	return hasUpper
}

// cellCode converts a cell value to an integer dictionary code.
func cellCode(v interface{}) (int, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint:
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		return int(n), true
	case float32:
		return floatCode(float64(n))
	case float64:
		return floatCode(n)
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		code, err := strconv.Atoi(s)
		if err != nil {
			return 0, false
		}
		return code, true
	default:
		return 0, false
	}
}

// floatCode accepts only integral floats as codes.
func floatCode(f float64) (int, bool) {
	n := int(f)
	if float64(n) != f {
		return 0, false
	}
	return n, true
}
