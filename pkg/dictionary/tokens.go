package dictionary

import (
	"regexp"
	"strconv"
	"strings"
)

// Line patterns of the published PUMS data dictionary layout. The
// document is plain text; each variable entry starts with an upper-case
// variable name at column zero, followed by indented code lines of the
// form "1 .Label". The patterns below drive both mapping extraction and
// its termination policy, so they are named rather than inlined.
var (
	// codeLinePattern matches a value line: an integer code, whitespace,
	// a literal period, then the label text.
	codeLinePattern = regexp.MustCompile(`^(\d+)\s+\.(.+)`)

	// variableHeaderPattern matches the start of a new top-level variable
	// entry: a run of upper-case letters followed by whitespace.
	variableHeaderPattern = regexp.MustCompile(`^[A-Z]+\s+`)
)

// LineKind classifies a single dictionary line within a variable's block.
type LineKind int

const (
	// LineOther is descriptive or continuation text; extraction skips it.
	LineOther LineKind = iota
	// LineBlank terminates the current variable's code block.
	LineBlank
	// LineCode carries a code and its label.
	LineCode
	// LineVariableHeader starts a new top-level variable entry,
	// terminating the current block.
	LineVariableHeader
)

// classifyLine tokenizes one whitespace-trimmed dictionary line. For
// LineCode the parsed code and trimmed label are returned; for every
// other kind they are zero values. Precedence matters: a code line is
// recognized before the blank/header terminators are considered.
func classifyLine(trimmed string) (kind LineKind, code int, label string) {
	if m := codeLinePattern.FindStringSubmatch(trimmed); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			// Digit run too long to represent; treat as free text.
			return LineOther, 0, ""
		}
		return LineCode, n, strings.TrimSpace(m[2])
	}
	if trimmed == "" {
		return LineBlank, 0, ""
	}
	if variableHeaderPattern.MatchString(trimmed) {
		return LineVariableHeader, 0, ""
	}
	return LineOther, 0, ""
}
