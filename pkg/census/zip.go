package census

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/flate"
	"go.uber.org/zap"

	"github.com/censuskit/censuskit/pkg/clients"
	"github.com/censuskit/censuskit/pkg/errors"
	"github.com/censuskit/censuskit/pkg/logger"
)

// DownloadZip fetches a ZIP archive and extracts every entry into the
// target directory. PUMS microdata is published as one ZIP per state.
// Entries are decompressed with klauspost's deflate implementation.
func DownloadZip(ctx context.Context, rawURL, directory string, httpClient *clients.HTTPClient) error {
	if httpClient == nil {
		httpClient = clients.NewHTTPClient(nil, logger.Get())
	}

	resp, err := httpClient.Get(ctx, rawURL, nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFetch, "failed to download archive").
			WithDetail("url", rawURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.New(errors.ErrorTypeFetch,
			fmt.Sprintf("archive download returned status %d", resp.StatusCode)).
			WithDetail("status", resp.StatusCode).
			WithDetail("url", rawURL)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFetch, "failed to read archive body").
			WithDetail("url", rawURL)
	}

	if err := ExtractZip(data, directory); err != nil {
		return err
	}

	logger.Info("extracted archive",
		zap.String("url", rawURL),
		zap.String("directory", directory))
	return nil
}

// ExtractZip extracts an in-memory ZIP archive into a directory.
func ExtractZip(data []byte, directory string) error {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeDecode, "failed to open archive")
	}
	reader.RegisterDecompressor(zip.Deflate, func(r io.Reader) io.ReadCloser {
		return flate.NewReader(r)
	})

	if err := os.MkdirAll(directory, 0o755); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to create target directory").
			WithDetail("directory", directory)
	}

	for _, entry := range reader.File {
		if err := extractEntry(entry, directory); err != nil {
			return err
		}
	}
	return nil
}

// extractEntry writes one archive entry under the target directory,
// rejecting paths that would escape it.
func extractEntry(entry *zip.File, directory string) error {
	target := filepath.Join(directory, filepath.Clean(entry.Name))
	if !strings.HasPrefix(target, filepath.Clean(directory)+string(os.PathSeparator)) {
		return errors.New(errors.ErrorTypeData, "archive entry escapes target directory").
			WithDetail("entry", entry.Name)
	}

	if entry.FileInfo().IsDir() {
		if err := os.MkdirAll(target, 0o755); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "failed to create directory").
				WithDetail("entry", entry.Name)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to create parent directory").
			WithDetail("entry", entry.Name)
	}

	src, err := entry.Open()
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeDecode, "failed to open archive entry").
			WithDetail("entry", entry.Name)
	}
	defer src.Close()

	dst, err := os.Create(target) //nolint:gosec // G304: target is validated against the directory above
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to create file").
			WithDetail("entry", entry.Name)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil { //nolint:gosec // G110: trusted government archives
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to extract entry").
			WithDetail("entry", entry.Name)
	}
	return nil
}
