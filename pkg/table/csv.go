package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/censuskit/censuskit/pkg/compression"
	"github.com/censuskit/censuskit/pkg/errors"
)

// ReadCSV reads a table from comma-separated text. The first row is the
// header. Cell values are converted to int64 or float64 when they parse
// as such, otherwise kept as strings; empty cells become nil. That keeps
// numeric survey codes comparable against dictionary mappings.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, errors.New(errors.ErrorTypeData, "CSV input is empty")
		}
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to read CSV header")
	}

	var rows [][]interface{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to read CSV row")
		}
		row := make([]interface{}, len(header))
		for i := range header {
			if i < len(record) {
				row[i] = convertValue(record[i])
			}
		}
		rows = append(rows, row)
	}

	return New(header, rows)
}

// ReadCSVFile reads a table from a file, decompressing by extension
// (.gz, .zst, .lz4).
func ReadCSVFile(path string) (*Table, error) {
	file, err := os.Open(path) //nolint:gosec // G304: path comes from caller configuration
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open CSV file").
			WithDetail("path", path)
	}
	defer file.Close()

	reader, err := compression.NewReader(file, compression.DetectFromPath(path))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open compressed CSV").
			WithDetail("path", path)
	}
	defer reader.Close()

	return ReadCSV(reader)
}

// WriteCSV writes the table as comma-separated UTF-8 text with a header
// row. Nil cells are written as empty fields.
func (t *Table) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(t.columns); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write CSV header")
	}

	record := make([]string, len(t.columns))
	for _, row := range t.rows {
		for i, cell := range row {
			record[i] = formatValue(cell)
		}
		if err := writer.Write(record); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "failed to write CSV row")
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to flush CSV output")
	}
	return nil
}

// WriteCSVFile writes the table to a file, compressing by extension
// (.gz, .zst, .lz4).
func (t *Table) WriteCSVFile(path string) (err error) {
	file, err := os.Create(path) //nolint:gosec // G304: path comes from caller configuration
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to create CSV file").
			WithDetail("path", path)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = errors.Wrap(closeErr, errors.ErrorTypeFile, "failed to close CSV file").
				WithDetail("path", path)
		}
	}()

	writer, err := compression.NewWriter(file, compression.DetectFromPath(path))
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to create compressed CSV").
			WithDetail("path", path)
	}

	if err := t.WriteCSV(writer); err != nil {
		writer.Close()
		return err
	}
	if err := writer.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to finish compressed CSV").
			WithDetail("path", path)
	}
	return nil
}

// convertValue parses a CSV cell into a typed value.
func convertValue(value string) interface{} {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	if intVal, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return intVal
	}
	if floatVal, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return floatVal
	}
	return value
}

// formatValue renders a cell for CSV output.
func formatValue(v interface{}) string {
	switch n := v.(type) {
	case nil:
		return ""
	case string:
		return n
	case int64:
		return strconv.FormatInt(n, 10)
	case int:
		return strconv.Itoa(n)
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", n)
	}
}
