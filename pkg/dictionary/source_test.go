package dictionary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/censuskit/censuskit/pkg/clients"
	"github.com/censuskit/censuskit/pkg/config"
	"github.com/censuskit/censuskit/pkg/errors"
	"github.com/censuskit/censuskit/pkg/logger"
)

const sampleDictionary = "PERSON RECORD-BASIC VARIABLES\nSEX Character 1\n  1 .Male\n  2 .Female\n"

func testClient() *clients.HTTPClient {
	return clients.NewHTTPClient(nil, logger.Get())
}

func writeTempDictionary(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dict.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestResolveRequiresSource(t *testing.T) {
	cfg := config.NewMapperConfig()

	_, err := Resolve(context.Background(), cfg, testClient())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestResolveFromFile(t *testing.T) {
	cfg := config.NewMapperConfig()
	cfg.DataDictionaryPath = writeTempDictionary(t, sampleDictionary)

	dict, err := Resolve(context.Background(), cfg, testClient())
	require.NoError(t, err)
	assert.Len(t, dict.Section(PersonLevel), 5)
}

func TestResolveFromFileMissing(t *testing.T) {
	cfg := config.NewMapperConfig()
	cfg.DataDictionaryPath = filepath.Join(t.TempDir(), "missing.txt")

	_, err := Resolve(context.Background(), cfg, testClient())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeFile))
}

func TestResolveFromFileInvalidUTF8(t *testing.T) {
	cfg := config.NewMapperConfig()
	cfg.DataDictionaryPath = writeTempDictionary(t, string([]byte{0xff, 0xfe, 0x00}))

	_, err := Resolve(context.Background(), cfg, testClient())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeDecode))
}

func TestResolveFromURL(t *testing.T) {
	var gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(sampleDictionary))
	}))
	defer server.Close()

	cfg := config.NewMapperConfig()
	cfg.DataDictionaryURL = server.URL

	dict, err := Resolve(context.Background(), cfg, testClient())
	require.NoError(t, err)
	assert.Equal(t, clients.DefaultUserAgent, gotUserAgent)
	assert.NotEmpty(t, dict.Section(PersonLevel))
}

func TestResolveFromURLNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	cfg := config.NewMapperConfig()
	cfg.DataDictionaryURL = server.URL

	_, err := Resolve(context.Background(), cfg, testClient())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeFetch))

	var structured *errors.Error
	require.ErrorAs(t, err, &structured)
	assert.Equal(t, http.StatusNotFound, structured.Details["status"])
}

func TestResolveFromURLInvalidUTF8(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte{0xff, 0xfe, 0x00})
	}))
	defer server.Close()

	cfg := config.NewMapperConfig()
	cfg.DataDictionaryURL = server.URL

	_, err := Resolve(context.Background(), cfg, testClient())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeDecode))
}

func TestResolvePrecedence(t *testing.T) {
	// When both a path and a URL are supplied, the path wins and the
	// URL is never fetched.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("URL fetched despite local path being configured")
	}))
	defer server.Close()

	cfg := config.NewMapperConfig()
	cfg.DataDictionaryPath = writeTempDictionary(t, sampleDictionary)
	cfg.DataDictionaryURL = server.URL
	cfg.Year = 2023

	dict, err := Resolve(context.Background(), cfg, testClient())
	require.NoError(t, err)
	assert.NotEmpty(t, dict.Section(PersonLevel))
}

func TestDocumentURL(t *testing.T) {
	url := DocumentURL(2023, config.DefaultTableGroup)
	assert.Equal(t,
		"https://www2.census.gov/programs-surveys/acs/tech_docs/pums/data_dict/PUMS_Data_Dictionary_2023.txt",
		url)
}
