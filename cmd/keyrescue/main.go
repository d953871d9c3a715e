package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/Amr-9/KeyRescue/internal/config"
	"github.com/Amr-9/KeyRescue/internal/ui"
	"github.com/Amr-9/KeyRescue/pkg/checker"
	"github.com/Amr-9/KeyRescue/pkg/classifier"
	"github.com/Amr-9/KeyRescue/pkg/keys"
	"github.com/Amr-9/KeyRescue/pkg/progress"
	"github.com/Amr-9/KeyRescue/pkg/validator"
)

const (
	version    = "1.0"
	updateRate = 33 * time.Millisecond
)

var (
	errInvalidInput = errors.New("one or more inputs are invalid")
	errPlaceholder  = errors.New("--missing must be a single character")
)

var (
	cfg          = config.NewConfig()
	missing      string
	placeholders string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "keyrescue",
		Short: "Bitcoin key and address validation for key recovery",
		Long: `A command line utility for recovering damaged Bitcoin keys.
It validates WIF private keys, mini keys, BIP-38 keys and addresses,
classifies partially known keys and checks candidate lists in parallel.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			setLogLevels(cfg.LogLevel())
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfg.Network, "network", "n", cfg.Network, "Bitcoin network (mainnet, testnet3, regtest, signet)")
	rootCmd.PersistentFlags().StringVarP(&cfg.DebugLevel, "debuglevel", "d", cfg.DebugLevel, "Logging level (trace, debug, info, warn, error, critical, off)")

	validateCmd := &cobra.Command{
		Use:   "validate <key-or-address>...",
		Short: "Detect and validate keys and addresses",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runValidate,
	}

	classifyCmd := &cobra.Command{
		Use:   "classify <partial-key>",
		Short: "Check whether a partial WIF key can still be completed",
		Args:  cobra.ExactArgs(1),
		RunE:  runClassify,
	}
	classifyCmd.Flags().StringVarP(&missing, "missing", "m", "*", "Placeholder marking unknown characters")
	classifyCmd.Flags().StringVar(&placeholders, "placeholders", classifier.DefaultPlaceholders, "Accepted placeholder symbols")

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Check a file of candidate keys in parallel",
		Args:  cobra.NoArgs,
		RunE:  runCheck,
	}
	checkCmd.Flags().StringVarP(&cfg.File, "file", "f", "", "File with one candidate per line (required)")
	checkCmd.Flags().StringVarP(&cfg.Target, "target", "t", "", "Address the recovered key must control")
	checkCmd.Flags().IntVarP(&cfg.Partitions, "partitions", "p", 0, "Number of progress shares (default: one per worker)")
	checkCmd.Flags().IntVarP(&cfg.Workers, "workers", "w", cfg.Workers, "Number of worker goroutines")
	checkCmd.Flags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "File the recovered keys are saved to")
	checkCmd.Flags().BoolVar(&cfg.HighPriority, "high-priority", false, "Raise the process priority while checking")

	rootCmd.AddCommand(validateCmd, classifyCmd, checkCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	v := validator.New(cfg.Params())

	var invalid int
	for _, arg := range args {
		kind, outcome := v.Detect(arg)
		ui.PrintOutcome(arg, kind, outcome)

		if !outcome.IsValid() {
			invalid++
		}
	}

	if invalid > 0 {
		return fmt.Errorf("%w: %d of %d", errInvalidInput, invalid,
			len(args))
	}
	return nil
}

func runClassify(cmd *cobra.Command, args []string) error {
	if utf8.RuneCountInString(missing) != 1 {
		return errPlaceholder
	}
	placeholder, _ := utf8.DecodeRuneInString(missing)

	c, err := classifier.New(placeholders)
	if err != nil {
		return err
	}

	accept, err := c.ClassifyPartial(args[0], placeholder)
	if err != nil {
		ui.PrintOutcome(args[0], keys.Unknown, validator.OutcomeFromError(err))
		return errInvalidInput
	}

	fmt.Println("    " + ui.FormatAccept(args[0], accept))
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	if err := cfg.ValidateCheck(); err != nil {
		return err
	}

	candidates, err := cfg.ReadCandidates()
	if err != nil {
		return err
	}

	if cfg.HighPriority {
		if err := SetHighPriority(); err != nil {
			krscLog.Warnf("Unable to raise process priority: %v", err)
		}
	}

	network, _ := keys.ParseNetwork(cfg.Network)

	ui.PrintBanner(version)
	ui.PrintCheckInfo(cfg.File, len(candidates), cfg.Target, network,
		cfg.Workers)

	coord := progress.New(progress.Config{})
	defer coord.Stop()

	sub, err := coord.Subscribe()
	if err != nil {
		return err
	}
	defer sub.Cancel()

	chk := checker.New(checker.Config{
		Params:     cfg.Params(),
		Target:     cfg.Target,
		Partitions: cfg.Partitions,
		Workers:    cfg.Workers,
	}, coord)

	// Cancel the run on interrupt signals.
	ctx, stop := signal.NotifyContext(
		context.Background(), syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	type runResult struct {
		results []keys.Result
		err     error
	}
	done := make(chan runResult, 1)
	go func() {
		results, err := chk.Run(ctx, candidates)
		done <- runResult{results, err}
	}()

	ticker := time.NewTicker(updateRate)
	defer ticker.Stop()

	var (
		latest progress.State
		frame  int
		run    runResult
	)

loop:
	for {
		select {
		case state := <-sub.Updates():
			latest = state

		case <-ticker.C:
			// Elapsed time only moves in snapshots.
			latest.Elapsed = coord.Snapshot().Elapsed
			ui.PrintProgress(latest, chk.Stats(), frame)
			frame++

		case run = <-done:
			break loop
		}
	}

	ui.ClearLine()
	stats := chk.Stats()

	if errors.Is(run.err, context.Canceled) {
		fmt.Printf("\n    %s⚠ Cancelled%s │ %s checked │ %s\n",
			ui.ColorYellow+ui.ColorBold, ui.ColorReset,
			ui.FormatNumber(stats.Checked),
			ui.FormatDuration(time.Duration(stats.ElapsedSecs*float64(time.Second))))
		return nil
	}
	if run.err != nil {
		return run.err
	}

	state := coord.Snapshot()
	ui.PrintSummary(state, run.results)

	if !state.Found {
		return nil
	}

	err = ui.SaveResults(cfg.Output, run.results, stats, network, cfg.Target)
	if err != nil {
		fmt.Printf("    %s⚠ Save failed: %v%s\n", ui.ColorYellow, err,
			ui.ColorReset)
		return nil
	}
	fmt.Printf("    %s💾 Saved to %s%s\n", ui.ColorDim, cfg.Output,
		ui.ColorReset)

	return nil
}
