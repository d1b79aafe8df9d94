package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"cardfetch/pkg/catalog"
	"cardfetch/pkg/config"
	"cardfetch/pkg/harvester"
	"cardfetch/pkg/logger"
	"cardfetch/pkg/storage"
	"cardfetch/pkg/ui"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download every card image listed by the catalog",
	Long: `Fetch the card catalog once, then download the image of every card into the
output folder as <id>.jpg, replacing any earlier copy.

Downloads run one at a time in batches (20 per batch by default) with a pause
between batches (1s by default). A card whose image cannot be downloaded is
reported at the end; the remaining cards are still downloaded.

Exit status is 0 when the run completed or was cancelled with Ctrl+C, and 1
when the catalog could not be fetched.`,
	Example: `  # Download everything into ./CardImages
  cardfetch fetch

  # Use a different folder and a slower pace
  cardfetch fetch --output ./images --batch-size 10 --batch-delay 2s

  # Write into a bucket instead of a local folder
  cardfetch fetch --bucket "file:///srv/cards"

  # Pace every request with a token bucket instead of batch pauses
  cardfetch fetch --strategy token_bucket`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	addFetchFlags(fetchCmd)
}

// addFetchFlags registers the fetch flags on cmd. The root command carries
// them too so that a bare 'cardfetch --output x' works.
func addFetchFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("endpoint", "", "catalog API URL")
	f.StringP("output", "o", "", "output folder for images (default ./CardImages)")
	f.String("bucket", "", "blob bucket URL to write images to instead of the output folder")
	f.Int("batch-size", 0, "number of downloads per batch (default 20)")
	f.Duration("batch-delay", 0, "pause between batches (default 1s)")
	f.String("strategy", "", "pacing strategy: batch or token_bucket")
	f.String("replace-mode", "", "how existing images are replaced: atomic or delete_first")
	f.Duration("timeout", 0, "timeout for a single image download (default 30s)")
	f.Bool("notify", false, "send a desktop notification when the run finishes")
}

// collectFlags returns the flags the user actually set, keyed by name
func collectFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	f := cmd.Flags()

	for _, name := range []string{"endpoint", "output", "bucket", "strategy", "replace-mode"} {
		if f.Lookup(name) != nil && f.Changed(name) {
			v, _ := f.GetString(name)
			flags[name] = v
		}
	}
	if f.Lookup("batch-size") != nil && f.Changed("batch-size") {
		v, _ := f.GetInt("batch-size")
		flags["batch-size"] = v
	}
	for _, name := range []string{"batch-delay", "timeout"} {
		if f.Lookup(name) != nil && f.Changed(name) {
			v, _ := f.GetDuration(name)
			flags[name] = v
		}
	}
	if logLevel != "" {
		flags["log-level"] = logLevel
	}

	return flags
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, collectFlags(cmd))
	if err != nil {
		return err
	}

	// Progress lines replace routine logs unless asked otherwise
	if !verbose && logLevel == "" {
		cfg.Logging.Level = "error"
	}
	if err := logger.Initialize(&cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.GetLogger()
	log.WithField("version", version).Info("cardfetch starting")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var extra []harvester.Observer
	if notify, _ := cmd.Flags().GetBool("notify"); notify {
		extra = append(extra, ui.NewNotifier())
	}

	console.PrintBanner()
	report, err := fetch(ctx, cfg, console, log, extra...)
	if report != nil {
		ui.NewReportView(console).Print(console.Writer(), report)
	}
	if err != nil {
		return fmt.Errorf("run aborted: %w", err)
	}
	if report.State == harvester.Cancelled {
		console.PrintWarning("Run cancelled")
	}
	return nil
}

// fetch performs one run with cfg. The report is nil only when the output
// could not be opened.
func fetch(ctx context.Context, cfg *config.Config, console *ui.Console, log logger.Logger, observers ...harvester.Observer) (*harvester.Report, error) {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	client := catalog.NewClient(catalog.Options{
		Endpoint:       cfg.Catalog.Endpoint,
		UserAgent:      cfg.Catalog.UserAgent,
		CatalogTimeout: cfg.Catalog.Timeout,
		AssetTimeout:   cfg.Download.Timeout,
		MaxAssetSize:   cfg.Download.MaxFileSize,
	}, log)

	console.PrintInfo("Catalog", cfg.Catalog.Endpoint)
	console.PrintInfo("Output", store.Location())
	console.PrintInfo("Pacing", fmt.Sprintf("%d per batch, %s (%s)",
		cfg.RateLimit.BatchSize, cfg.RateLimit.BatchDelay.Round(time.Millisecond), cfg.RateLimit.Strategy))

	h := harvester.New(client, store, harvester.OptionsFromConfig(cfg, store.Location()), log)
	h.AddObserver(ui.NewProgress(console))
	for _, o := range observers {
		h.AddObserver(o)
	}

	return h.Run(ctx)
}

func openStore(ctx context.Context, cfg *config.Config) (*storage.Manager, error) {
	if cfg.Output.BucketURL != "" {
		return storage.OpenManager(ctx, cfg.Output.BucketURL)
	}
	return storage.NewManager(ctx, cfg.Output.Directory)
}
