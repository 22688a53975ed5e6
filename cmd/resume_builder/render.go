package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
	rootschemas "github.com/jonathan/resume-builder/schemas"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a resume JSON file to HTML",
	Long: `Render a resume document offline with one of the built-in templates.
The document is checked against the resume schema first. Output goes to --out,
or to stdout when --out is not set.`,
	RunE: runRender,
}

var (
	renderConfigPath string
	renderInput      string
	renderOutput     string
	renderTemplate   string
	renderWidth      int
	renderVerbose    bool
)

func init() {
	// Config file flag (processed first)
	renderCmd.Flags().StringVar(&renderConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	renderCmd.Flags().StringVarP(&renderInput, "in", "i", "", "Path to resume JSON file")
	renderCmd.Flags().StringVarP(&renderOutput, "out", "o", "", "Path to output HTML file (default stdout)")
	renderCmd.Flags().StringVarP(&renderTemplate, "template", "t", "", "Template id: 01, 02 or 03 (default: the document's templateId)")
	renderCmd.Flags().IntVarP(&renderWidth, "width", "w", 0, "Container width in pixels")
	renderCmd.Flags().BoolVarP(&renderVerbose, "verbose", "v", false, "Print the resume summary and computed layout")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	var cfg config.Config
	if renderConfigPath != "" {
		loaded, err := config.LoadConfig(renderConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		cfg = *loaded
	}

	// Only override if the flag was explicitly set
	flags := cmd.Flags()
	if flags.Changed("in") {
		cfg.Input = renderInput
	}
	if flags.Changed("out") {
		cfg.Output = renderOutput
	}
	if flags.Changed("template") {
		cfg.Template = renderTemplate
	}
	if flags.Changed("width") {
		cfg.Width = renderWidth
	}
	if flags.Changed("verbose") {
		cfg.Verbose = renderVerbose
	}

	// Template is left empty here so the document's own templateId applies.
	cfg = cfg.MergeWithDefaults(config.Config{Width: rendering.BaseWidth})
	if cfg.Input == "" {
		return fmt.Errorf("--in is required (via flag or config)")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	return renderFile(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

var resumeSchema = schemas.MustCompile("resume", rootschemas.ResumePatch)

// renderFile renders cfg.Input and writes the HTML to cfg.Output, or to stdout
// when no output path is set. Diagnostics go to stderr.
func renderFile(cfg config.Config, stdout, stderr io.Writer) error {
	data, err := os.ReadFile(cfg.Input)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	printer := observability.NewPrinter(stderr)
	if err := resumeSchema.Validate(data); err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			printer.PrintFieldErrors(validationErr.Errors)
			return fmt.Errorf("input does not match the resume schema: %w", err)
		}
		return fmt.Errorf("failed to validate input: %w", err)
	}

	var resume types.Resume
	if err := json.Unmarshal(data, &resume); err != nil {
		return fmt.Errorf("failed to parse resume JSON: %w", err)
	}
	resume.Normalize()

	templateID := cfg.Template
	if templateID == "" {
		templateID = resume.TemplateID
	}
	out, err := rendering.Render(&resume, templateID, cfg.Width)
	if err != nil {
		return err
	}

	if cfg.Verbose {
		printer.PrintResumeSummary(&resume)
		printer.PrintLayout(out)
	}

	if cfg.Output == "" {
		_, err := io.WriteString(stdout, out.HTML)
		return err
	}
	if err := os.WriteFile(cfg.Output, []byte(out.HTML), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	_, _ = fmt.Fprintf(stderr, "Rendered template %s at %dpx to %s\n", out.TemplateID, out.Width, cfg.Output)
	return nil
}
