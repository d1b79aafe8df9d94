package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"cardfetch/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage cardfetch configuration files.

Configuration is loaded from, in order of priority:
  - Command line flags
  - Environment variables (CARDFETCH_*)
  - .env files (./.env, ~/.cardfetch.env)
  - Configuration file
  - Default values`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file is created as '.cardfetch.yaml' in the current directory unless a
different path is given with --config.`,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE:  runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Long: `Load the configuration from all sources and check it for invalid values.
The output folder and log file directory are created if they do not exist.`,
	RunE: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

const exampleConfig = `# cardfetch configuration
#
# Every option can also be set with an environment variable prefixed with
# CARDFETCH_, for example CARDFETCH_OUTPUT_DIR or CARDFETCH_BATCH_SIZE.

catalog:
  # Catalog API returning {"data": [{"id": ..., "card_images": [{"image_url": ...}]}]}
  endpoint: "https://db.ygoprodeck.com/api/v7/cardinfo.php"
  user_agent: "cardfetch/1.0"
  # The full catalog is a large document
  timeout: 2m

rate_limit:
  # At most batch_size requests per batch_delay
  batch_size: 20
  batch_delay: 1s
  # batch: pause between batches
  # token_bucket: wait for a token before every request
  strategy: batch

output:
  directory: "./CardImages"
  # Blob bucket URL used instead of directory when set (file://, mem://)
  bucket_url: ""

download:
  timeout: 30s
  # atomic: a failed download keeps the previous image
  # delete_first: the previous image is removed before downloading
  replace_mode: atomic
  # Maximum image size in bytes, 0 for no limit
  max_file_size: 0

logging:
  # debug, info, warn, error
  level: info
  # Optional JSON log file
  file: ""
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := configFile
	if configPath == "" {
		configPath = ".cardfetch.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists: %s", configPath)
	}

	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		return fmt.Errorf("failed to create configuration file: %w", err)
	}

	console.PrintSuccess("Configuration file created: " + configPath)
	fmt.Fprintln(cmd.OutOrStdout(), "\nNext steps:")
	fmt.Fprintln(cmd.OutOrStdout(), "1. Adjust the output folder and pacing if needed")
	fmt.Fprintln(cmd.OutOrStdout(), "2. Run 'cardfetch config validate' to check the configuration")
	fmt.Fprintln(cmd.OutOrStdout(), "3. Start downloading with 'cardfetch fetch'")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, collectFlags(cmd))
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	out := cmd.OutOrStdout()
	console.PrintHighlight("Current Configuration")
	fmt.Fprintln(out)
	fmt.Fprint(out, string(data))

	fmt.Fprintln(out, "\nConfiguration sources (in order of priority):")
	fmt.Fprintln(out, "1. Command line flags")
	fmt.Fprintf(out, "2. Environment variables (%s*)\n", config.EnvPrefix)
	fmt.Fprintln(out, "3. .env files")
	if configFile != "" {
		fmt.Fprintf(out, "4. Configuration file: %s\n", configFile)
	} else {
		fmt.Fprintln(out, "4. Configuration file: (default locations)")
	}
	fmt.Fprintln(out, "5. Default values")
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, collectFlags(cmd))
	if err != nil {
		return err
	}

	var problems []error
	if cfg.Output.BucketURL == "" {
		if err := os.MkdirAll(cfg.Output.Directory, 0755); err != nil {
			problems = append(problems, fmt.Errorf("cannot create output directory: %w", err))
		}
	}
	if cfg.Logging.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Logging.File), 0755); err != nil {
			problems = append(problems, fmt.Errorf("cannot create log directory: %w", err))
		}
	}
	if err := errors.Join(problems...); err != nil {
		return err
	}

	if cfg.RateLimit.BatchDelay > 0 {
		rate := float64(cfg.RateLimit.BatchSize) / cfg.RateLimit.BatchDelay.Seconds()
		if rate > 20 {
			console.PrintWarning(fmt.Sprintf("Pacing allows %.1f requests/second, above the 20/second the default catalog host accepts", rate))
		}
	} else {
		console.PrintWarning("batch_delay is 0, requests are not paced")
	}

	console.PrintSuccess("Configuration is valid")

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "\nConfiguration summary:")
	fmt.Fprintf(out, "  Catalog:      %s\n", cfg.Catalog.Endpoint)
	if cfg.Output.BucketURL != "" {
		fmt.Fprintf(out, "  Output:       %s\n", cfg.Output.BucketURL)
	} else {
		fmt.Fprintf(out, "  Output:       %s\n", cfg.Output.Directory)
	}
	fmt.Fprintf(out, "  Pacing:       %d per %s (%s)\n", cfg.RateLimit.BatchSize, cfg.RateLimit.BatchDelay, cfg.RateLimit.Strategy)
	fmt.Fprintf(out, "  Replace mode: %s\n", cfg.Download.ReplaceMode)
	fmt.Fprintf(out, "  Log level:    %s\n", cfg.Logging.Level)
	return nil
}
