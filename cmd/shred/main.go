package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"fileshred/internal/app"
	"fileshred/internal/config"
	"fileshred/internal/logging"
	"fileshred/internal/progress"
	"fileshred/internal/reporting"
	"fileshred/internal/shred"
)

const (
	Version = "1.0.0"

	// Exit codes
	EXIT_SUCCESS = 0
	EXIT_ERROR   = 1
)

var (
	configPath  string
	profile     string
	reportPath  string
	reportFmt   string
	writeConfig string
	verbose     bool

	passes int
	quiet  bool
	remove string
	force  bool
	zero   bool
	verify bool
)

var rootCmd = &cobra.Command{
	Use:     "shred [flags] FILE...",
	Short:   "Securely overwrite files to hide their contents",
	Long:    "Overwrite regular files with random data, optionally finish with zeros, then optionally rename and remove them.",
	Version: Version,
	Args: func(cmd *cobra.Command, args []string) error {
		if writeConfig != "" {
			return nil
		}
		return cobra.MinimumNArgs(1)(cmd, args)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runShred,
}

func init() {
	flags := rootCmd.Flags()
	// --report_format and --report-format are the same flag.
	flags.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	flags.IntVarP(&passes, "iterations", "n", 3, "Number of overwrite passes")
	flags.BoolVarP(&quiet, "quiet", "q", false, "Suppress progress information")
	flags.StringVarP(&remove, "remove", "u", "", "Remove the file after shredding; use --remove[=HOW] with HOW one of unlink, wipe, wipesync (the = is required)")
	flags.Lookup("remove").NoOptDefVal = string(shred.RemoveUnlink)
	flags.BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")
	flags.BoolVarP(&zero, "zero", "z", false, "Add a final pass with zeroes to hide shredding")
	flags.BoolVar(&verify, "verify", false, "Read the file back after the zero pass and check it")

	flags.StringVarP(&configPath, "config", "c", "", "Path to YAML configuration")
	flags.StringVar(&profile, "profile", "", "Preset (quick/standard/paranoid)")
	flags.StringVar(&reportPath, "report", "", "Write a run report to this file")
	flags.StringVar(&reportFmt, "report-format", "", "Report format (json/csv)")
	flags.StringVar(&writeConfig, "write-config", "", "Write the effective configuration to this file and exit")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")
}

// loadConfig layers the config file, the profile and explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load configuration")
	}

	if profile != "" {
		if err := config.ApplyProfile(cfg, profile); err != nil {
			return nil, errors.WithHintf(err, "available profiles: %v", config.Profiles)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("iterations") {
		cfg.Shred.Passes = passes
	}
	if flags.Changed("quiet") {
		cfg.Shred.Quiet = quiet
	}
	if flags.Changed("remove") {
		cfg.Shred.Remove = remove
	}
	if flags.Changed("force") {
		cfg.Shred.Force = force
	}
	if flags.Changed("zero") {
		cfg.Shred.Zero = zero
	}
	if flags.Changed("verify") {
		cfg.Shred.Verify = verify
	}
	if flags.Changed("report-format") {
		cfg.Reporting.Format = reportFmt
	}

	if err := config.Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

func runShred(cmd *cobra.Command, args []string) error {
	startTime := time.Now()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if writeConfig != "" {
		if err := config.Save(cfg, writeConfig); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", writeConfig)
		return nil
	}

	logger, err := logging.NewLogger(cfg, verbose)
	if err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	defer logger.Close()

	logger.Log("DEBUG", "Starting shred", "version", Version, "files", len(args), "passes", cfg.Shred.Passes)

	ctx, cancel := cancelOnSignal(context.Background(), logger, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	deps := app.Deps{
		Logger:  logger,
		Out:     cmd.OutOrStdout(),
		Confirm: app.StdinConfirmer(),
		Warn:    app.WriterWarner(os.Stderr),
	}
	if progress.IsTerminal(os.Stderr) {
		deps.Progress = progress.NewBar(os.Stderr)
	}

	shredder := app.NewShredder(cfg, deps)
	operations, runErr := shredder.Run(ctx, args)

	exitCode := EXIT_SUCCESS
	if runErr != nil {
		exitCode = EXIT_ERROR
	}

	if reportPath != "" || cfg.Reporting.Enabled {
		report := reporting.GenerateReport(operations, cfg, Version, profile, startTime, time.Now(), exitCode)
		written, err := reporting.SaveReport(report, cfg, reportPath)
		if err != nil {
			logger.Log("WARN", "Failed to save report", "error", err.Error())
		} else {
			logger.Log("INFO", "Report saved", "run_id", report.RunID, "file", written)
		}
	}

	return withHint(runErr)
}

// stopSignals is replaced in tests.
var stopSignals = signal.Stop

// cancelOnSignal returns a context cancelled by the first of sigs. Delivery is
// then handed back to the runtime, so a second interrupt kills the process.
func cancelOnSignal(parent context.Context, logger *logging.Logger, sigs ...os.Signal) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, sigs...)
	go func() {
		select {
		case sig := <-sigChan:
			stopSignals(sigChan)
			logger.Log("WARN", "Signal received, stopping after the current pass", "signal", sig.String())
			cancel()
		case <-ctx.Done():
			stopSignals(sigChan)
		}
	}()

	return ctx, cancel
}

// withHint attaches operator guidance for the error kinds that have an obvious fix.
func withHint(err error) error {
	if err == nil {
		return nil
	}
	switch shred.KindOf(err) {
	case shred.KindReadOnly:
		return errors.WithHint(err, "make the file writable (chmod u+w) to shred it")
	case shred.KindRefusedSymlink:
		return errors.WithHint(err, "pass the link target's path instead of the link")
	case shred.KindAbortedByUser:
		return errors.WithHint(err, "answer 'y' to confirm, or use --force")
	case shred.KindProtected:
		return errors.WithHint(err, "adjust security.protected_paths in the configuration")
	}
	var se *shred.Error
	if errors.As(err, &se) && se.Residual != "" {
		return errors.WithHintf(err, "content was destroyed but the entry remains as %s", se.Residual)
	}
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "shred: %v\n", err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintf(os.Stderr, "hint: %s\n", hint)
		}
		os.Exit(EXIT_ERROR)
	}
	os.Exit(EXIT_SUCCESS)
}
