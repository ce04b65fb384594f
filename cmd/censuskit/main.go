package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/censuskit/censuskit/internal/pipeline"
	"github.com/censuskit/censuskit/pkg/census"
	"github.com/censuskit/censuskit/pkg/clients"
	"github.com/censuskit/censuskit/pkg/config"
	"github.com/censuskit/censuskit/pkg/dictionary"
	"github.com/censuskit/censuskit/pkg/logger"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	var logLevel string

	root := &cobra.Command{
		Use:   "censuskit",
		Short: "censuskit - ACS PUMS data tooling",
		Long: `censuskit fetches U.S. Census Bureau American Community Survey (ACS)
Public Use Microdata Sample (PUMS) data and rewrites numeric survey codes
into human-readable labels using the official PUMS data dictionary.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logger.Init(logger.Config{
				Level:    logLevel,
				Encoding: "console",
			})
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("censuskit v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	root.AddCommand(newMapCommand())
	root.AddCommand(newDictCommand())
	root.AddCommand(newDownloadCommand())
	root.AddCommand(newUnzipCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// mapperConfigFlags binds the MapperConfig surface to a command.
func mapperConfigFlags(cmd *cobra.Command, cfg *config.MapperConfig, configFile *string) {
	cmd.Flags().StringVar(configFile, "config", "", "Path to YAML mapper configuration file")
	cmd.Flags().StringVar(&cfg.DataDictionaryPath, "dictionary-path", "", "Local path to a PUMS data dictionary text file")
	cmd.Flags().StringVar(&cfg.DataDictionaryURL, "dictionary-url", "", "URL of a PUMS data dictionary text file")
	cmd.Flags().IntVar(&cfg.Year, "year", 0, "ACS survey year used to derive the dictionary URL")
	cmd.Flags().StringVar(&cfg.TableGroup, "table-group", config.DefaultTableGroup, "Dictionary table group (1-Year, 5-Year)")
	cmd.Flags().StringVar(&cfg.SurveyLevel, "survey-level", config.SurveyLevelPerson, "Survey level (Person-Level, Housing-Level)")
	cmd.Flags().StringSliceVar(&cfg.SkipVariables, "skip", nil, "Column names excluded from mapping")
	cmd.Flags().BoolVar(&cfg.FailFast, "fail-fast", false, "Abort on the first table failure instead of continuing")
}

// loadMapperConfig merges a config file, when given, with flag values.
// Flags changed on the command line win over file values.
func loadMapperConfig(cmd *cobra.Command, flagCfg *config.MapperConfig, configFile string) (*config.MapperConfig, error) {
	if configFile == "" {
		return flagCfg, nil
	}

	cfg := config.NewMapperConfig()
	if err := config.Load(configFile, cfg); err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("dictionary-path") {
		cfg.DataDictionaryPath = flagCfg.DataDictionaryPath
	}
	if cmd.Flags().Changed("dictionary-url") {
		cfg.DataDictionaryURL = flagCfg.DataDictionaryURL
	}
	if cmd.Flags().Changed("year") {
		cfg.Year = flagCfg.Year
	}
	if cmd.Flags().Changed("table-group") {
		cfg.TableGroup = flagCfg.TableGroup
	}
	if cmd.Flags().Changed("survey-level") {
		cfg.SurveyLevel = flagCfg.SurveyLevel
	}
	if cmd.Flags().Changed("skip") {
		cfg.SkipVariables = flagCfg.SkipVariables
	}
	if cmd.Flags().Changed("fail-fast") {
		cfg.FailFast = flagCfg.FailFast
	}
	if cfg.TableGroup == "" {
		cfg.TableGroup = config.DefaultTableGroup
	}
	if cfg.SurveyLevel == "" {
		cfg.SurveyLevel = config.SurveyLevelPerson
	}
	return cfg, nil
}

func newMapCommand() *cobra.Command {
	flagCfg := config.NewMapperConfig()
	var configFile, outputDir string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "map [csv files...]",
		Short: "Map PUMS variable codes to labels",
		Long: `Map reads PUMS CSV tables, replaces coded values in upper-case columns
with labels from the data dictionary, and writes one mapped CSV per input
into the output directory. Outputs keep the input file names, so an
input ending in .gz, .zst, or .lz4 is decompressed on read and the
mapped output is compressed the same way.

Example:
  censuskit map --year 2023 --skip SERIALNO -o mapped/ psam_p01.csv psam_p02.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadMapperConfig(cmd, flagCfg, configFile)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			httpClient := clients.NewHTTPClient(nil, logger.Get())
			defer httpClient.Close()

			// Partial failures surface after the successful tables are
			// written out.
			return pipeline.NewMapPipeline(cfg, httpClient).Run(ctx, args, outputDir)
		},
	}

	mapperConfigFlags(cmd, flagCfg, &configFile)
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", ".", "Directory for mapped CSV files")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "Overall command timeout")

	return cmd
}

func newDictCommand() *cobra.Command {
	flagCfg := config.NewMapperConfig()
	var configFile, output string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "dict",
		Short: "Fetch a PUMS data dictionary",
		Long: `Dict resolves the data dictionary from a local path, a URL, or a survey
year and writes the raw text to the output file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadMapperConfig(cmd, flagCfg, configFile)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			httpClient := clients.NewHTTPClient(nil, logger.Get())
			defer httpClient.Close()

			dict, err := dictionary.Resolve(ctx, cfg, httpClient)
			if err != nil {
				return err
			}

			logger.Info("dictionary resolved", zap.Int("lines", dict.Len()))
			return dict.WriteFile(output)
		},
	}

	mapperConfigFlags(cmd, flagCfg, &configFile)
	cmd.Flags().StringVarP(&output, "output", "o", "PUMS_Data_Dictionary.txt", "Output file for the dictionary text")
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "Overall command timeout")

	return cmd
}

func newDownloadCommand() *cobra.Command {
	opts := census.DefaultDownloadOptions()
	var apiKey string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download ACS tables from the Census Data API",
		Long: `Download lists every table group of an ACS dataset and writes one CSV
file per table into the output directory. An API key is read from the
--api-key flag or the CENSUS_API_KEY environment variable.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			httpClient := clients.NewHTTPClient(nil, logger.Get())
			defer httpClient.Close()

			client := census.NewClient(&census.Config{APIKey: apiKey}, httpClient)
			return client.DownloadTables(ctx, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Year, "year", opts.Year, "ACS dataset year")
	cmd.Flags().StringVar(&opts.Dataset, "dataset", opts.Dataset, "Dataset path (e.g. acs/acs5)")
	cmd.Flags().StringVar(&opts.Geography, "geography", opts.Geography, "Geography clause (e.g. us:*, state:*)")
	cmd.Flags().StringVarP(&opts.OutputDir, "output-dir", "o", opts.OutputDir, "Directory for downloaded CSV files")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "Census Data API key")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Minute, "Overall command timeout")

	return cmd
}

func newUnzipCommand() *cobra.Command {
	var directory string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "unzip [url]",
		Short: "Download and extract a PUMS ZIP archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			httpClient := clients.NewHTTPClient(nil, logger.Get())
			defer httpClient.Close()

			return census.DownloadZip(ctx, args[0], directory, httpClient)
		},
	}

	cmd.Flags().StringVarP(&directory, "directory", "d", ".", "Directory to extract into")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Minute, "Overall command timeout")

	return cmd
}
