package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	dupfind "github.com/mattkeenan/dupfind/pkg"
)

// version is replaced at build time with -ldflags "-X main.version=..."
var version = "dev"

type options struct {
	directory  string
	configPath string
	overrides  []string
	workers    int
	format     string
	color      string
	ignoreFile string
	progress   bool
	verbose    int
	debug      string
}

func main() {
	cmd := newRootCommand(os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "dupfind: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "dupfind",
		Short: "Find groups of likely duplicate files below a directory",
		Long: `dupfind fingerprints every regular file below a directory and prints the
groups of files that share a fingerprint.

A fingerprint is an xxh3-128 digest of a sparse read of the file plus its
size. The byte at offset 4096 is never read, so files that differ only there
are reported as duplicates. Verify content before deleting anything.`,
		Args:          cobra.NoArgs,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, stdout, stderr)
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate("dupfind {{.Version}}\n")

	flags := cmd.Flags()
	flags.StringVarP(&opts.directory, "directory", "d", ".", "Root directory to scan")
	flags.StringVarP(&opts.configPath, "config", "c", "", "Config file (default $XDG_CONFIG_HOME/dupfind/config)")
	flags.StringArrayVarP(&opts.overrides, "option", "o", nil, "Config override as key:value (repeatable)")
	flags.IntVarP(&opts.workers, "workers", "w", 0, "Number of concurrent fingerprint workers (default: number of CPUs)")
	flags.StringVarP(&opts.format, "format", "f", dupfind.FormatHuman, "Output format: human, json, fdupes")
	flags.StringVar(&opts.color, "color", dupfind.ColorAuto, "Colour group headers: auto, always, never")
	flags.StringVar(&opts.ignoreFile, "ignore-file", "", "File of regular expressions for paths to skip")
	flags.BoolVar(&opts.progress, "progress", false, "Show a progress spinner on stderr")
	flags.CountVarP(&opts.verbose, "verbose", "v", "Increase verbosity (repeatable, up to -vvv)")
	flags.StringVar(&opts.debug, "debug", "", "Debug flags, comma separated: walk, hash, group")

	return cmd
}

// flagOverrides turns explicitly set flags into config overrides so they win
// over both the config file and -o options
func flagOverrides(cmd *cobra.Command, opts *options) []string {
	var overrides []string
	flags := cmd.Flags()

	if flags.Changed("workers") {
		overrides = append(overrides, "hash_workers:"+strconv.Itoa(opts.workers))
	}
	if flags.Changed("format") {
		overrides = append(overrides, "format:"+opts.format)
	}
	if flags.Changed("color") {
		overrides = append(overrides, "color:"+opts.color)
	}
	if flags.Changed("ignore-file") {
		overrides = append(overrides, "ignore_file:"+opts.ignoreFile)
	}
	if flags.Changed("progress") {
		overrides = append(overrides, "progress:"+strconv.FormatBool(opts.progress))
	}
	if flags.Changed("verbose") {
		overrides = append(overrides, "level:"+strconv.Itoa(opts.verbose))
	}
	if flags.Changed("debug") {
		overrides = append(overrides, "debug:"+opts.debug)
	}

	return overrides
}

func loadSettings(cmd *cobra.Command, opts *options) (*dupfind.AllConfig, error) {
	configPath := opts.configPath
	if configPath == "" {
		configPath = dupfind.DefaultConfigPath()
	}

	cfg, err := dupfind.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyOverrides(opts.overrides); err != nil {
		return nil, err
	}
	if err := cfg.ApplyOverrides(flagOverrides(cmd, opts)); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg.GetAllConfig(), nil
}

func run(cmd *cobra.Command, opts *options, stdout, stderr io.Writer) error {
	settings, err := loadSettings(cmd, opts)
	if err != nil {
		return err
	}

	dupfind.SetVerboseOutput(stderr)
	dupfind.SetVerboseLevel(settings.Verbose.Level)
	dupfind.SetDebugFlags(settings.Verbose.Debug)
	defer dupfind.VerboseEnter()()

	printer, err := dupfind.NewPrinter(settings.Output.Format, settings.Output.Color)
	if err != nil {
		return err
	}

	scanner := dupfind.NewScanner(opts.directory)
	scanner.Workers = settings.Performance.HashWorkers

	if printer.Format() == dupfind.FormatJSON {
		zapSink := dupfind.NewJSONZapSink(stderr)
		defer zapSink.Sync()
		scanner.Sink = zapSink
	} else {
		scanner.Sink = dupfind.NewStderrSink(stderr)
	}

	if settings.Scan.IgnoreFile != "" {
		scanner.Ignore = dupfind.NewIgnoreManager(scanner.Fs, settings.Scan.IgnoreFile)
	}

	finishProgress := func() {}
	if settings.Scan.Progress {
		bar := dupfind.NewProgressBar(stderr)
		scanner.Progress = bar
		finishProgress = func() { bar.Finish() }
	}

	ctx, cancel := setupSignalContext(cmd.Context(), stderr)
	defer cancel()

	dupes, err := scanner.FindDuplicates(ctx)
	finishProgress()
	if err != nil {
		return err
	}

	return printer.Print(stdout, dupes)
}
