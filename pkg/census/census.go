// Package census is the Census Bureau collaborator: it retrieves
// tabular data from the Data API and bulk ZIP archives from the file
// servers. It is glue around HTTP fetches; the mapping core in
// pkg/dictionary and pkg/table never depends on it.
package census

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"

	gojson "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/censuskit/censuskit/pkg/clients"
	"github.com/censuskit/censuskit/pkg/errors"
	"github.com/censuskit/censuskit/pkg/logger"
	"github.com/censuskit/censuskit/pkg/metrics"
	"github.com/censuskit/censuskit/pkg/table"
)

// DefaultBaseURL is the Census Data API root.
const DefaultBaseURL = "https://api.census.gov/data"

// APIKeyEnv names the environment variable consulted when no API key is
// configured.
const APIKeyEnv = "CENSUS_API_KEY"

// Config configures the Data API client.
type Config struct {
	// BaseURL overrides the API root, mainly for tests
	BaseURL string `yaml:"base_url" json:"base_url"`
	// APIKey authenticates requests; empty falls back to CENSUS_API_KEY
	APIKey string `yaml:"api_key" json:"api_key"`
}

// Client fetches tables from the Census Data API.
type Client struct {
	config *Config
	http   *clients.HTTPClient
	logger *zap.Logger
}

// NewClient creates a Data API client. A nil config or http client gets
// defaults.
func NewClient(config *Config, httpClient *clients.HTTPClient) *Client {
	if config == nil {
		config = &Config{}
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.APIKey == "" {
		config.APIKey = os.Getenv(APIKeyEnv)
	}
	if httpClient == nil {
		httpClient = clients.NewHTTPClient(nil, logger.Get())
	}
	return &Client{
		config: config,
		http:   httpClient,
		logger: logger.With(zap.String("component", "census_client")),
	}
}

// group is one entry of the dataset's groups.json listing.
type group struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// groupsResponse is the envelope of the groups.json endpoint.
type groupsResponse struct {
	Groups []group `json:"groups"`
}

// FetchTableNames lists the table groups available for a dataset, e.g.
// dataset "acs/acs5" for year 2023.
func (c *Client) FetchTableNames(ctx context.Context, year int, dataset string) ([]string, error) {
	u := fmt.Sprintf("%s/%d/%s/groups.json", c.config.BaseURL, year, dataset)
	body, err := c.get(ctx, u, nil)
	if err != nil {
		return nil, err
	}

	var parsed groupsResponse
	if err := gojson.Unmarshal(body, &parsed); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeDecode, "failed to decode groups listing").
			WithDetail("url", u)
	}

	names := make([]string, 0, len(parsed.Groups))
	for _, g := range parsed.Groups {
		names = append(names, g.Name)
	}
	return names, nil
}

// FetchTable downloads one table group for a geography and returns it as
// a Table. The API responds with a JSON array of arrays whose first row
// is the header.
func (c *Client) FetchTable(ctx context.Context, year int, dataset, geography, groupName string) (*table.Table, error) {
	u := fmt.Sprintf("%s/%d/%s", c.config.BaseURL, year, dataset)
	params := url.Values{
		"get":   {"NAME"},
		"for":   {geography},
		"group": {groupName},
	}

	body, err := c.get(ctx, u, params)
	if err != nil {
		metrics.TableFetches.WithLabelValues("error").Inc()
		return nil, err
	}

	var rows [][]string
	if err := gojson.Unmarshal(body, &rows); err != nil {
		metrics.TableFetches.WithLabelValues("error").Inc()
		return nil, errors.Wrap(err, errors.ErrorTypeDecode, "failed to decode table response").
			WithDetail("url", u).
			WithDetail("group", groupName)
	}
	if len(rows) == 0 {
		metrics.TableFetches.WithLabelValues("error").Inc()
		return nil, errors.New(errors.ErrorTypeData, "table response has no header row").
			WithDetail("group", groupName)
	}

	metrics.TableFetches.WithLabelValues("success").Inc()

	return table.FromStrings(rows[0], rows[1:])
}

// DownloadOptions configures DownloadTables.
type DownloadOptions struct {
	Year      int
	Dataset   string
	Geography string
	OutputDir string
}

// DefaultDownloadOptions matches the documented defaults: the 2023
// ACS 5-year dataset at national geography, written to the current
// directory.
func DefaultDownloadOptions() DownloadOptions {
	return DownloadOptions{
		Year:      2023,
		Dataset:   "acs/acs5",
		Geography: "us:*",
		OutputDir: ".",
	}
}

// DownloadTables downloads every table group of a dataset and writes one
// CSV file per table under the output directory. A failed table does not
// stop the remaining downloads; failures are logged and the first error
// is returned after the pass completes.
func (c *Client) DownloadTables(ctx context.Context, opts DownloadOptions) error {
	names, err := c.FetchTableNames(ctx, opts.Year, opts.Dataset)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to create output directory").
			WithDetail("directory", opts.OutputDir)
	}

	var firstErr error
	for _, name := range names {
		tbl, err := c.FetchTable(ctx, opts.Year, opts.Dataset, opts.Geography, name)
		if err != nil {
			c.logger.Warn("failed to download table",
				zap.String("table", name),
				zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		path := filepath.Join(opts.OutputDir, name+".csv")
		if err := tbl.WriteCSVFile(path); err != nil {
			c.logger.Warn("failed to write table",
				zap.String("table", name),
				zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		c.logger.Info("downloaded table",
			zap.String("table", name),
			zap.String("path", path),
			zap.Int("rows", tbl.NumRows()))
	}

	return firstErr
}

// get fetches a URL and returns its body, enforcing a 2xx status.
func (c *Client) get(ctx context.Context, rawURL string, params url.Values) ([]byte, error) {
	if params == nil {
		params = url.Values{}
	}
	if c.config.APIKey != "" {
		params.Set("key", c.config.APIKey)
	}
	full := rawURL
	if len(params) > 0 {
		full = rawURL + "?" + params.Encode()
	}

	resp, err := c.http.Get(ctx, full, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFetch, "census API request failed").
			WithDetail("url", rawURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.New(errors.ErrorTypeFetch,
			fmt.Sprintf("census API returned status %d", resp.StatusCode)).
			WithDetail("status", resp.StatusCode).
			WithDetail("url", rawURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFetch, "failed to read census API response").
			WithDetail("url", rawURL)
	}
	return body, nil
}
