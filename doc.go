// Package censuskit provides tooling for U.S. Census Bureau American
// Community Survey (ACS) Public Use Microdata Sample (PUMS) data: it
// fetches survey tables and rewrites numeric-coded columns into
// human-readable labels using the official PUMS data dictionary.
//
// # Architecture
//
// Two independent pipelines share no runtime state:
//
// 1. Dictionary parsing (pkg/dictionary): the published plain-text data
// dictionary is split into lines, the subsection for a survey level is
// located by marker lines, and per-variable code-to-label mappings are
// extracted by line-pattern matching. Parse failures degrade silently
// to empty sections or mappings; callers receive partial results rather
// than fatal parse errors.
//
// 2. Table mapping (pkg/table): every fully upper-case column of a
// table is replaced cell-by-cell using the extracted mapping. Input
// tables are never mutated; codes missing from the mapping become nil.
//
// The Census Bureau collaborators (pkg/census) fetch tables from the
// Data API and bulk ZIP archives; they are glue around HTTP and never
// participate in parsing.
//
// # Quick Start
//
// Map a PUMS table using the 2023 data dictionary:
//
//	cfg := config.NewMapperConfig()
//	cfg.Year = 2023
//	cfg.SkipVariables = []string{"SERIALNO"}
//
//	tbl, err := table.ReadCSVFile("psam_p01.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	mapped, err := table.MapVariables(ctx, tbl, cfg, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := mapped.WriteCSVFile("psam_p01_labeled.csv"); err != nil {
//	    log.Fatal(err)
//	}
package censuskit
