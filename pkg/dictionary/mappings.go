package dictionary

import "strings"

// Mapping is a variable's code-to-label table, scoped to one column name.
type Mapping map[int]string

// ExtractMappings scans a section for the named variable and returns its
// code-to-label mapping.
//
// The scan skips lines until one starts with the variable name, then
// collects code lines until the block terminates at the first blank line
// or the first new top-level variable entry. Interior lines that match
// neither pattern (continuation text, universe notes) are skipped without
// terminating the block. Duplicate codes keep the last label seen. A
// variable that never appears yields an empty mapping, not an error.
func ExtractMappings(section []string, columnName string) Mapping {
	mappings := make(Mapping)
	columnFound := false

	for _, line := range section {
		// The variable name sits at column zero in the published layout,
		// so a raw prefix check is deliberate here.
		if strings.HasPrefix(line, columnName) {
			columnFound = true
			continue
		}
		if !columnFound {
			continue
		}

		kind, code, label := classifyLine(strings.TrimSpace(line))
		switch kind {
		case LineCode:
			mappings[code] = label
		case LineBlank, LineVariableHeader:
			return mappings
		case LineOther:
			// continuation text, keep scanning
		}
	}

	return mappings
}
