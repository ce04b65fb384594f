// Package config provides the configuration surface for censuskit.
// It defines a single MapperConfig structure used by the variable mapper,
// the bulk processor, and the CLI, ensuring consistent configuration
// across the entire system.
//
// Example usage:
//
//	cfg := config.NewMapperConfig()
//	cfg.Year = 2023
//	cfg.SkipVariables = []string{"SERIALNO"}
//
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"github.com/censuskit/censuskit/pkg/errors"
)

// Survey level values accepted by MapperConfig.SurveyLevel.
const (
	SurveyLevelPerson  = "Person-Level"
	SurveyLevelHousing = "Housing-Level"
)

// DefaultTableGroup is the dictionary document variant used when none is given.
const DefaultTableGroup = "1-Year"

// MapperConfig configures dictionary resolution and variable mapping.
// Exactly one of DataDictionaryPath, DataDictionaryURL, or Year must be
// supplied; when more than one is set, precedence is path, then URL,
// then year.
type MapperConfig struct {
	// DataDictionaryPath is a local path to a PUMS data dictionary text file
	DataDictionaryPath string `yaml:"acs_pums_data_dictionary_path" json:"acs_pums_data_dictionary_path"`

	// DataDictionaryURL is a remote URL serving the dictionary as plain text
	DataDictionaryURL string `yaml:"acs_pums_data_dictionary_url" json:"acs_pums_data_dictionary_url"`

	// Year selects the dictionary published for an ACS survey year
	Year int `yaml:"acs_year" json:"acs_year"`

	// TableGroup is the survey period variant (e.g. "1-Year", "5-Year")
	TableGroup string `yaml:"table_group" json:"table_group"`

	// SurveyLevel selects the dictionary subsection ("Person-Level" or "Housing-Level")
	SurveyLevel string `yaml:"survey_level" json:"survey_level"`

	// SkipVariables lists column names excluded from mapping
	SkipVariables []string `yaml:"skip_variables" json:"skip_variables"`

	// FailFast aborts bulk processing on the first table failure instead
	// of continuing with the remaining tables
	FailFast bool `yaml:"fail_fast" json:"fail_fast"`
}

// NewMapperConfig creates a MapperConfig with the documented defaults.
// A dictionary source still has to be supplied before the config passes
// validation.
func NewMapperConfig() *MapperConfig {
	return &MapperConfig{
		TableGroup:  DefaultTableGroup,
		SurveyLevel: SurveyLevelPerson,
	}
}

// Validate validates the configuration for correctness. It fails fast,
// before any I/O, when no dictionary source is supplied or the survey
// level is unknown.
func (c *MapperConfig) Validate() error {
	if c.DataDictionaryPath == "" && c.DataDictionaryURL == "" && c.Year == 0 {
		return errors.New(errors.ErrorTypeConfig,
			"either acs_pums_data_dictionary_path, acs_pums_data_dictionary_url, or acs_year needs to be defined")
	}
	if c.Year < 0 {
		return errors.New(errors.ErrorTypeConfig, "acs_year cannot be negative")
	}
	switch c.SurveyLevel {
	case SurveyLevelPerson, SurveyLevelHousing:
	default:
		return errors.New(errors.ErrorTypeConfig, "survey_level must be Person-Level or Housing-Level").
			WithDetail("survey_level", c.SurveyLevel)
	}
	return nil
}

// SkipSet returns the skip variables as a lookup set.
func (c *MapperConfig) SkipSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.SkipVariables))
	for _, name := range c.SkipVariables {
		set[name] = struct{}{}
	}
	return set
}
