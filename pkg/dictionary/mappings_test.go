package dictionary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMappings(t *testing.T) {
	section := []string{
		"PERSON RECORD-BASIC VARIABLES",
		"COLX Character 1",
		"  1 .Label One",
		"  2 .Label Two",
		"",
		"AGEP Character 2",
		"  3 .Three",
	}

	mappings := ExtractMappings(section, "COLX")
	require.Len(t, mappings, 2)
	assert.Equal(t, "Label One", mappings[1])
	assert.Equal(t, "Label Two", mappings[2])
}

func TestExtractMappingsStopsAtBlankLine(t *testing.T) {
	section := []string{
		"COLX",
		"  1 .One",
		"",
		"  2 .Two",
	}

	mappings := ExtractMappings(section, "COLX")
	assert.Equal(t, Mapping{1: "One"}, mappings)
}

func TestExtractMappingsStopsAtNewVariableHeader(t *testing.T) {
	section := []string{
		"COLX",
		"  1 .One",
		"AGEP Character 2",
		"  2 .Two",
	}

	mappings := ExtractMappings(section, "COLX")
	assert.Equal(t, Mapping{1: "One"}, mappings)
}

func TestExtractMappingsSkipsContinuationText(t *testing.T) {
	section := []string{
		"COLX",
		"continuation of the variable description",
		"  1 .One",
		"more notes between code lines",
		"  2 .Two",
		"",
	}

	mappings := ExtractMappings(section, "COLX")
	assert.Equal(t, Mapping{1: "One", 2: "Two"}, mappings)
}

func TestExtractMappingsColumnNotFound(t *testing.T) {
	section := []string{
		"SEX",
		"  1 .Male",
	}

	mappings := ExtractMappings(section, "COLX")
	assert.Empty(t, mappings)
}

func TestExtractMappingsDuplicateKeysLastWins(t *testing.T) {
	section := []string{
		"COLX",
		"  1 .First",
		"  1 .Second",
		"",
	}

	mappings := ExtractMappings(section, "COLX")
	assert.Equal(t, Mapping{1: "Second"}, mappings)
}

func TestExtractMappingsLabelTrimming(t *testing.T) {
	section := []string{
		"ST",
		"  1 .Alabama/AL  ",
		"  2 .   Alaska/AK",
		"",
	}

	mappings := ExtractMappings(section, "ST")
	assert.Equal(t, "Alabama/AL", mappings[1])
	assert.Equal(t, "Alaska/AK", mappings[2])
}

func TestExtractMappingsEmptySection(t *testing.T) {
	assert.Empty(t, ExtractMappings(nil, "COLX"))
}

func TestExtractMappingsIgnoresLaterNumericBlocks(t *testing.T) {
	// Once COLX's block terminates, code lines belonging to a different
	// variable must not leak into COLX's mapping.
	section := []string{
		"COLX",
		"  1 .One",
		"",
		"OTHER Character 1",
		"  9 .Nine",
	}

	mappings := ExtractMappings(section, "COLX")
	assert.Equal(t, Mapping{1: "One"}, mappings)
	assert.NotContains(t, mappings, 9)
}

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantKind  LineKind
		wantCode  int
		wantLabel string
	}{
		{"code line", "1 .Male", LineCode, 1, "Male"},
		{"code line wide gap", "15   .Fifteen", LineCode, 15, "Fifteen"},
		{"blank", "", LineBlank, 0, ""},
		{"variable header", "AGEP Character 2", LineVariableHeader, 0, ""},
		{"lower case text", "continuation text", LineOther, 0, ""},
		{"digits without period", "12345 no period", LineOther, 0, ""},
		{"label keeps interior periods", "1 .U.S. citizen", LineCode, 1, "U.S. citizen"},
		{"header needs trailing whitespace", "AGEP", LineOther, 0, ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			kind, code, label := classifyLine(test.line)
			assert.Equal(t, test.wantKind, kind)
			assert.Equal(t, test.wantCode, code)
			assert.Equal(t, test.wantLabel, label)
		})
	}
}
