package dictionary

import (
	"context"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/censuskit/censuskit/pkg/clients"
	"github.com/censuskit/censuskit/pkg/config"
	"github.com/censuskit/censuskit/pkg/errors"
	"github.com/censuskit/censuskit/pkg/logger"
	"github.com/censuskit/censuskit/pkg/metrics"
)

// dataDictionaryURLFormat is the Census Bureau's well-known location for
// per-year PUMS data dictionary documents.
const dataDictionaryURLFormat = "https://www2.census.gov/programs-surveys/acs/tech_docs/pums/data_dict/PUMS_Data_Dictionary_%d.txt"

// DocumentURL returns the published dictionary URL for a survey year.
// The table group selects the document variant by survey period length;
// the Bureau currently serves all groups from the same per-year file, so
// the group does not alter the URL.
func DocumentURL(year int, tableGroup string) string {
	return fmt.Sprintf(dataDictionaryURLFormat, year)
}

// Resolve loads the data dictionary named by the configuration.
//
// Exactly one source must be supplied; when several are set, precedence
// is local path, then URL, then survey year. The configuration is
// validated before any I/O, so a missing source fails fast with a config
// error. Remote fetches use a fixed timeout with certificate
// verification enabled and require a UTF-8 body.
func Resolve(ctx context.Context, cfg *config.MapperConfig, client *clients.HTTPClient) (*Dictionary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch {
	case cfg.DataDictionaryPath != "":
		return fromFile(cfg.DataDictionaryPath)
	case cfg.DataDictionaryURL != "":
		return fromURL(ctx, cfg.DataDictionaryURL, client)
	default:
		return fromURL(ctx, DocumentURL(cfg.Year, cfg.TableGroup), client)
	}
}

// fromFile reads a local dictionary file as UTF-8 text.
func fromFile(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from caller configuration
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to read data dictionary").
			WithDetail("path", path)
	}
	if !utf8.Valid(data) {
		return nil, errors.New(errors.ErrorTypeDecode, "data dictionary is not valid UTF-8").
			WithDetail("path", path)
	}

	logger.Debug("loaded data dictionary from file",
		zap.String("path", path),
		zap.Int("bytes", len(data)))

	return FromText(string(data)), nil
}

// fromURL fetches a dictionary document over HTTP.
func fromURL(ctx context.Context, url string, client *clients.HTTPClient) (*Dictionary, error) {
	if client == nil {
		client = clients.NewHTTPClient(nil, logger.Get())
	}

	timer := metrics.NewTimer()
	resp, err := client.Get(ctx, url, nil)
	if err != nil {
		metrics.DictionaryFetches.WithLabelValues("error").Inc()
		return nil, errors.Wrap(err, errors.ErrorTypeFetch, "failed to fetch data dictionary").
			WithDetail("url", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.DictionaryFetches.WithLabelValues("error").Inc()
		return nil, errors.New(errors.ErrorTypeFetch,
			fmt.Sprintf("data dictionary fetch returned status %d", resp.StatusCode)).
			WithDetail("status", resp.StatusCode).
			WithDetail("url", url)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.DictionaryFetches.WithLabelValues("error").Inc()
		return nil, errors.Wrap(err, errors.ErrorTypeFetch, "failed to read data dictionary body").
			WithDetail("url", url)
	}
	if !utf8.Valid(data) {
		metrics.DictionaryFetches.WithLabelValues("error").Inc()
		return nil, errors.New(errors.ErrorTypeDecode, "data dictionary is not valid UTF-8").
			WithDetail("url", url)
	}

	metrics.DictionaryFetches.WithLabelValues("success").Inc()
	metrics.FetchLatency.WithLabelValues("dictionary").Observe(timer.Stop().Seconds())

	logger.Debug("fetched data dictionary",
		zap.String("url", url),
		zap.Int("bytes", len(data)))

	return FromText(string(data)), nil
}

// FetchForYear fetches the published dictionary for a survey year.
func FetchForYear(ctx context.Context, year int, tableGroup string, client *clients.HTTPClient) (*Dictionary, error) {
	if tableGroup == "" {
		tableGroup = config.DefaultTableGroup
	}
	return fromURL(ctx, DocumentURL(year, tableGroup), client)
}
