package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/censuskit/censuskit/pkg/errors"
)

func TestNewValidatesRowWidth(t *testing.T) {
	_, err := New([]string{"A", "B"}, [][]interface{}{{1}})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))

	tbl, err := New([]string{"A", "B"}, [][]interface{}{{1, 2}, {3, 4}})
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, 2, tbl.NumColumns())
}

func TestFromStrings(t *testing.T) {
	tbl, err := FromStrings([]string{"NAME", "SEX"}, [][]string{{"Alabama", "1"}})
	require.NoError(t, err)

	cell, ok := tbl.Cell(0, "SEX")
	require.True(t, ok)
	assert.Equal(t, "1", cell)
}

func TestColumn(t *testing.T) {
	tbl, err := New([]string{"A", "B"}, [][]interface{}{{1, "x"}, {2, "y"}})
	require.NoError(t, err)

	col, ok := tbl.Column("B")
	require.True(t, ok)
	assert.Equal(t, []interface{}{"x", "y"}, col)

	_, ok = tbl.Column("missing")
	assert.False(t, ok)
}

func TestColumnsReturnsCopy(t *testing.T) {
	tbl, err := New([]string{"A", "B"}, nil)
	require.NoError(t, err)

	cols := tbl.Columns()
	cols[0] = "mutated"

	fresh := tbl.Columns()
	assert.Equal(t, "A", fresh[0])
}

func TestCloneIsIndependent(t *testing.T) {
	tbl, err := New([]string{"A"}, [][]interface{}{{1}, {2}})
	require.NoError(t, err)

	clone := tbl.Clone()
	require.NotSame(t, tbl, clone)

	clone.rows[0][0] = 99

	cell, _ := tbl.Cell(0, "A")
	assert.Equal(t, 1, cell)
}
