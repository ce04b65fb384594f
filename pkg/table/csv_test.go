package table

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	input := "SEX,AGEP,NAME\n1,34,Alice\n2,40.5,Bob\n,,\n"

	tbl, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, []string{"SEX", "AGEP", "NAME"}, tbl.Columns())
	require.Equal(t, 3, tbl.NumRows())

	cell, _ := tbl.Cell(0, "SEX")
	assert.Equal(t, int64(1), cell)
	cell, _ = tbl.Cell(1, "AGEP")
	assert.Equal(t, 40.5, cell)
	cell, _ = tbl.Cell(0, "NAME")
	assert.Equal(t, "Alice", cell)
	cell, _ = tbl.Cell(2, "SEX")
	assert.Nil(t, cell)
}

func TestReadCSVEmpty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	tbl, err := New([]string{"SEX", "NOTE"}, [][]interface{}{
		{"Male", "has, comma"},
		{nil, int64(3)},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tbl.WriteCSV(&buf))

	assert.Equal(t, "SEX,NOTE\nMale,\"has, comma\"\n,3\n", buf.String())
}

func TestCSVFileRoundTrip(t *testing.T) {
	tbl, err := New([]string{"SEX", "AGEP"}, [][]interface{}{
		{int64(1), int64(34)},
		{int64(2), int64(40)},
	})
	require.NoError(t, err)

	for _, name := range []string{"plain.csv", "compressed.csv.gz", "compressed.csv.zst", "compressed.csv.lz4"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, tbl.WriteCSVFile(path))

			reloaded, err := ReadCSVFile(path)
			require.NoError(t, err)
			assert.Equal(t, tbl.Columns(), reloaded.Columns())

			cell, _ := reloaded.Cell(1, "AGEP")
			assert.Equal(t, int64(40), cell)
		})
	}
}
