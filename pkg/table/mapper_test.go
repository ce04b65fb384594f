package table

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/censuskit/censuskit/pkg/config"
	"github.com/censuskit/censuskit/pkg/dictionary"
)

const sexDictionary = "PERSON RECORD-BASIC VARIABLES\n" +
	"SEX Character 1\n" +
	"  1 .Male\n" +
	"  2 .Female\n" +
	"\n" +
	"AGEP Character 2\n" +
	"  0 .Under 1 year\n"

func personMapper(t *testing.T, text string, skip map[string]struct{}) *VariableMapper {
	t.Helper()
	return NewVariableMapper(dictionary.FromText(text), dictionary.PersonLevel, skip)
}

func TestApplyMapsCodesToLabels(t *testing.T) {
	tbl, err := New([]string{"SEX"}, [][]interface{}{{1}, {2}, {1}})
	require.NoError(t, err)

	mapped, err := personMapper(t, sexDictionary, nil).Apply(tbl)
	require.NoError(t, err)

	col, ok := mapped.Column("SEX")
	require.True(t, ok)
	assert.Equal(t, []interface{}{"Male", "Female", "Male"}, col)
}

func TestApplyNeverMutatesInput(t *testing.T) {
	tbl, err := New([]string{"SEX"}, [][]interface{}{{1}, {2}})
	require.NoError(t, err)

	mapped, err := personMapper(t, sexDictionary, nil).Apply(tbl)
	require.NoError(t, err)
	require.NotSame(t, tbl, mapped)

	original, _ := tbl.Column("SEX")
	assert.Equal(t, []interface{}{1, 2}, original)
}

func TestApplySkipsLowerCaseColumns(t *testing.T) {
	tbl, err := New([]string{"sex"}, [][]interface{}{{1}})
	require.NoError(t, err)

	mapped, err := personMapper(t, sexDictionary, nil).Apply(tbl)
	require.NoError(t, err)

	cell, _ := mapped.Cell(0, "sex")
	assert.Equal(t, 1, cell)
}

func TestApplyRespectsSkipSet(t *testing.T) {
	tbl, err := New([]string{"SEX"}, [][]interface{}{{1}})
	require.NoError(t, err)

	skip := map[string]struct{}{"SEX": {}}
	mapped, err := personMapper(t, sexDictionary, skip).Apply(tbl)
	require.NoError(t, err)

	cell, _ := mapped.Cell(0, "SEX")
	assert.Equal(t, 1, cell)
}

func TestApplyLeavesColumnsWithoutMappings(t *testing.T) {
	tbl, err := New([]string{"PUMA"}, [][]interface{}{{100}, {200}})
	require.NoError(t, err)

	mapped, err := personMapper(t, sexDictionary, nil).Apply(tbl)
	require.NoError(t, err)

	col, _ := mapped.Column("PUMA")
	assert.Equal(t, []interface{}{100, 200}, col)
}

func TestApplyUnmappedCodeBecomesNil(t *testing.T) {
	tbl, err := New([]string{"SEX"}, [][]interface{}{{1}, {9}})
	require.NoError(t, err)

	mapped, err := personMapper(t, sexDictionary, nil).Apply(tbl)
	require.NoError(t, err)

	col, _ := mapped.Column("SEX")
	assert.Equal(t, []interface{}{"Male", nil}, col)
}

func TestApplyMissingSectionMapsNothing(t *testing.T) {
	tbl, err := New([]string{"SEX"}, [][]interface{}{{1}})
	require.NoError(t, err)

	// A dictionary without the person marker yields an empty section;
	// the table passes through unchanged.
	mapper := personMapper(t, "UNRELATED TEXT\n", nil)
	mapped, err := mapper.Apply(tbl)
	require.NoError(t, err)

	cell, _ := mapped.Cell(0, "SEX")
	assert.Equal(t, 1, cell)
}

func TestApplyStringAndFloatCodes(t *testing.T) {
	tbl, err := New([]string{"SEX"}, [][]interface{}{{"1"}, {2.0}, {int64(1)}, {nil}, {"abc"}})
	require.NoError(t, err)

	mapped, err := personMapper(t, sexDictionary, nil).Apply(tbl)
	require.NoError(t, err)

	col, _ := mapped.Column("SEX")
	assert.Equal(t, []interface{}{"Male", "Female", "Male", nil, nil}, col)
}

func TestApplyNilTable(t *testing.T) {
	_, err := personMapper(t, sexDictionary, nil).Apply(nil)
	assert.Error(t, err)
}

func TestMapVariables(t *testing.T) {
	dictPath := t.TempDir() + "/dict.txt"
	require.NoError(t, dictionary.FromText(sexDictionary).WriteFile(dictPath))

	cfg := config.NewMapperConfig()
	cfg.DataDictionaryPath = dictPath

	tbl, err := New([]string{"SEX", "name"}, [][]interface{}{{1, "a"}, {2, "b"}})
	require.NoError(t, err)

	mapped, err := MapVariables(context.Background(), tbl, cfg, nil)
	require.NoError(t, err)

	col, _ := mapped.Column("SEX")
	assert.Equal(t, []interface{}{"Male", "Female"}, col)

	names, _ := mapped.Column("name")
	assert.Equal(t, []interface{}{"a", "b"}, names)
}

func TestIsUpperName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"SEX", true},
		{"AGE_2", true},
		{"AGEP", true},
		{"sex", false},
		{"Sex", false},
		{"123", false},
		{"_", false},
		{"", false},
		{"ST2", true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, isUpperName(test.name))
		})
	}
}

func TestCellCode(t *testing.T) {
	tests := []struct {
		name   string
		value  interface{}
		want   int
		wantOK bool
	}{
		{"int", 7, 7, true},
		{"int64", int64(7), 7, true},
		{"uint16", uint16(7), 7, true},
		{"integral float", 7.0, 7, true},
		{"fractional float", 7.5, 0, false},
		{"numeric string", " 7 ", 7, true},
		{"text string", "seven", 0, false},
		{"empty string", "", 0, false},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			code, ok := cellCode(test.value)
			assert.Equal(t, test.wantOK, ok)
			assert.Equal(t, test.want, code)
		})
	}
}
