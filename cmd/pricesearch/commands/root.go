package commands

import (
	"cdpricesearch/lib/configutil"
	"cdpricesearch/lib/platforms/cd"
	"cdpricesearch/lib/restyutil"
	"cdpricesearch/lib/telemetry"
	"cdpricesearch/services/pricesearch"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"dario.cat/mergo"
	"github.com/spf13/cobra"
)

type options struct {
	configPath string
	config     pricesearch.Config
	fixture    string
	dumpDir    string
	format     string
	timeout    time.Duration
	verbose    bool
}

var opts options

var rootCmd = &cobra.Command{
	Use:   "pricesearch",
	Short: "pricesearch queries cd.cz for the cheapest fares of a journey and emails a summary.",
	Long: `pricesearch looks up the lowest fare in both directions of a journey for a
number of days starting today and emails the results as CSV.

Settings can come from a json5 file (--config), flags override the file.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), cmd.OutOrStdout(), opts)
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "Path to a json5 config file, <name>.local.json5 is merged over it.")
	flags.StringVar(&opts.config.AwsRegion, "aws-region", "", "AWS region used to send the email through SES.")
	flags.StringVar(&opts.config.EmailFrom, "email-from", "", "Sender address of the report email.")
	flags.StringVar(&opts.config.EmailTo, "email-to", "", "Recipient address of the report email.")
	flags.StringVar(&opts.config.JourneyOrigin, "journey-origin", "", "Origin station name.")
	flags.StringVar(&opts.config.Via, "via", "", "Station the journey must pass through.")
	flags.StringVar(&opts.config.JourneyDestination, "journey-destination", "", "Destination station name.")
	flags.IntVar(&opts.config.DatesToQuery, "dates-to-query", 0, "Number of days to query, starting today.")
	flags.StringVar(&opts.config.Smtp.Server, "smtp-server", "", "Send through this SMTP relay instead of SES.")
	flags.IntVar(&opts.config.Smtp.Port, "smtp-port", 0, "Port of the SMTP relay (default 587).")
	flags.BoolVar(&opts.config.DryRun, "dry-run", false, "Print the email instead of sending it.")
	flags.StringVar(&opts.fixture, "fixture", "", "Answer every search with this saved result page instead of querying cd.cz.")
	flags.StringVar(&opts.dumpDir, "dump-dir", "", "Write every raw HTTP exchange with cd.cz into this directory.")
	flags.StringVar(&opts.format, "format", "csv", "Format of the report printed to stdout: csv, table or none.")
	flags.DurationVar(&opts.timeout, "timeout", time.Minute, "Timeout of a single HTTP request to cd.cz.")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logs.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config file at `path` (if any) and overlays every
// non zero field of `flags` on top of it.
func loadConfig(path string, flags pricesearch.Config) (pricesearch.Config, error) {
	var config pricesearch.Config
	if path != "" {
		var err error
		config, err = configutil.ReadConfig[pricesearch.Config](path)
		if err != nil {
			return config, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	err := mergo.Merge(&config, flags, mergo.WithOverride)
	if err != nil {
		return config, err
	}
	return config, nil
}

func newSearcher(o options) (pricesearch.Searcher, error) {
	if o.fixture != "" {
		slog.Info("answering searches from fixture", "path", o.fixture)
		return cd.NewFixtureSearcher(o.fixture)
	}
	if o.dumpDir != "" {
		out, err := restyutil.NewFilesystemOutput(o.dumpDir)
		if err != nil {
			return nil, err
		}
		cd.SetRestyInstrumentOutput(out)
	}
	return cd.NewClient(cd.ClientOptions{Timeout: o.timeout})
}

func printReport(w io.Writer, format string, res pricesearch.Response) error {
	switch format {
	case "csv":
		_, err := io.WriteString(w, res.Report)
		return err
	case "table":
		_, err := fmt.Fprintln(w, res.Rows.RenderTable())
		return err
	case "none":
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func run(ctx context.Context, stdout io.Writer, o options) error {
	telemetry.InitSlog(o.verbose, telemetry.LogFormatText)

	tel, err := telemetry.SetupFromEnv(ctx, "pricesearch")
	if err != nil {
		return fmt.Errorf("setup telemetry: %w", err)
	}
	defer func() {
		err := tel.Shutdown(context.Background())
		if err != nil {
			slog.Warn("failed to shutdown telemetry", "err", err)
		}
	}()

	config, err := loadConfig(o.configPath, o.config)
	if err != nil {
		return err
	}
	// fail before any sink or client is built
	err = config.Validate()
	if err != nil {
		return err
	}

	searcher, err := newSearcher(o)
	if err != nil {
		return err
	}
	sink, err := pricesearch.NewSink(ctx, config)
	if err != nil {
		return err
	}

	service := pricesearch.NewService(pricesearch.Options{
		Searcher: searcher,
		Sink:     sink,
	})
	res, invokeErr := service.Invoke(ctx, config)
	if res.Rows.Len() > 0 {
		err = printReport(stdout, o.format, res)
		if err != nil {
			return err
		}
	}
	return invokeErr
}
