package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	defaultOutputFile = "cotometer_project_concatenated.txt"
	defaultTitle      = "COTOMETER PROJECT"
)

// errNoFiles aborts a run whose scan matched nothing.
var errNoFiles = errors.New("no files found to process")

// version is the application version, set via ldflags.
var version string = "dev"

// newRootCommand wires the CLI. Each command gets its own viper instance so
// flag values never leak between invocations.
func newRootCommand(stdout, stderr io.Writer, clock func() time.Time) *cobra.Command {
	cfg := viper.New()

	cmd := &cobra.Command{
		Use:   "projcat <project_directory> [output_file]",
		Short: "Concatenate a firmware project's sources into one annotated report",
		Long: `projcat walks a PlatformIO-style project (platformio.ini, include/ and src/),
selects source, header, config and documentation files, and writes them into a
single text report with a project tree and one boxed section per file.`,
		Example: `  projcat ./CoToMeter-Firmware
  projcat ./CoToMeter-Firmware my_project.txt`,
		Version:       version,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newStatusLogger(stdout, stderr)
			if cfg.GetBool("no_color") {
				log.disableColor()
			}
			return runConcat(cfg, args, log, clock)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	// --- Flag Definitions & Viper Binding ---
	flags := cmd.Flags()

	flags.String("title", defaultTitle, "Banner title written at the top of the report")
	cfg.BindPFlag("title", flags.Lookup("title"))
	flags.Bool("gitignore", false, "Also skip files matched by the project's .gitignore")
	cfg.BindPFlag("gitignore", flags.Lookup("gitignore"))
	flags.Bool("git-rev", false, "Record the Git branch and commit in the report banner")
	cfg.BindPFlag("git_rev", flags.Lookup("git-rev"))

	flags.Bool("tokens", false, "Count tokens per file and in total")
	cfg.BindPFlag("tokens", flags.Lookup("tokens"))
	flags.String("model", defaultTiktokenModel, "Model name used to pick the tiktoken encoding")
	cfg.BindPFlag("model", flags.Lookup("model"))

	flags.String("pdf", "", "Also save the report as PDF")
	cfg.BindPFlag("pdf", flags.Lookup("pdf"))
	flags.String("manifest", "", "Also write a YAML manifest of the included files")
	cfg.BindPFlag("manifest", flags.Lookup("manifest"))
	flags.BoolP("clipboard", "c", false, "Copy the report to the clipboard")
	cfg.BindPFlag("clipboard", flags.Lookup("clipboard"))

	flags.Bool("interactive", false, "Pick the files to include with a fuzzy finder")
	cfg.BindPFlag("interactive", flags.Lookup("interactive"))
	flags.Bool("no-color", false, "Disable coloured status output")
	cfg.BindPFlag("no_color", flags.Lookup("no-color"))

	cfg.SetDefault("output", defaultOutputFile)

	return cmd
}

// runConcat is one complete batch run: scan, sort, read, render, write.
func runConcat(cfg *viper.Viper, args []string, log *statusLogger, clock func() time.Time) error {
	projectDir := args[0]
	outputFile := cfg.GetString("output")
	if len(args) > 1 {
		outputFile = args[1]
	}

	// --- Scan ---
	log.Infof("🔍 Scanning project files...")
	files, err := scanProject(projectDir, scanOptions{UseGitignore: cfg.GetBool("gitignore")}, log)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errNoFiles
	}
	log.Infof("📄 Found %d files to process", len(files))

	// Category first, then path
	sortEntries(files)

	if cfg.GetBool("interactive") {
		files, err = selectInteractively(files)
		if errors.Is(err, errSelectionAborted) {
			log.Plainf("Interactive selection aborted.")
			return nil
		}
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return errNoFiles
		}
	}

	absRoot, err := filepath.Abs(projectDir)
	if err != nil {
		return fmt.Errorf("resolving project root %s: %w", projectDir, err)
	}

	// --- Main Logic ---
	opts := reportOptions{
		Title:     cfg.GetString("title"),
		AbsRoot:   absRoot,
		Generated: clock(),
	}

	if cfg.GetBool("git_rev") {
		rev, err := gitRevision(absRoot)
		if err != nil {
			log.Warnf("could not read Git revision: %v", err)
		}
		opts.GitRevision = rev
	}

	// Contents are read once and shared by every output
	loadContents(files)

	if cfg.GetBool("tokens") {
		tk, err := loadTiktoken(cfg.GetString("model"), log)
		if err != nil {
			log.Warnf("token counting disabled: %v", err)
		} else {
			countTokens(tk, files)
			opts.ShowTokens = true
		}
	}

	// --- Output Generation ---
	report := renderReport(files, opts)
	if err := writeReport(outputFile, report); err != nil {
		return fmt.Errorf("error writing output file: %w", err)
	}

	log.Successf("✅ Successfully created '%s'", outputFile)
	if info, err := os.Stat(outputFile); err == nil {
		log.Plainf("📊 File size: %s bytes", formatThousands(info.Size()))
	}
	log.Infof("📄 Files processed: %d", len(files))

	// --- Extra Outputs (if requested) ---
	if manifestPath := cfg.GetString("manifest"); manifestPath != "" {
		if err := writeManifest(manifestPath, buildManifest(files, opts)); err != nil {
			log.Warnf("%v", err)
		} else {
			log.Plainf("Manifest saved to %s", manifestPath)
		}
	}

	if pdfPath := cfg.GetString("pdf"); pdfPath != "" {
		if err := generatePDF(files, opts, pdfPath); err != nil {
			log.Warnf("%v", err)
		} else {
			log.Plainf("PDF saved to %s", pdfPath)
		}
	}

	if cfg.GetBool("clipboard") {
		if err := clipboard.WriteAll(report); err != nil {
			log.Warnf("could not copy report to clipboard: %v", err)
		} else {
			log.Plainf("Report copied to clipboard.")
		}
	}

	return nil
}

func main() {
	status := newStatusLogger(os.Stdout, os.Stderr)
	if err := newRootCommand(os.Stdout, os.Stderr, time.Now).Execute(); err != nil {
		status.Errorf("%v", err)
		os.Exit(1)
	}
}
