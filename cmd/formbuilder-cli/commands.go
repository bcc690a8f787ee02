package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"

	"go.uber.org/multierr"

	"github.com/goliatone/go-formbuilder/pkg/console"
	"github.com/goliatone/go-formbuilder/pkg/document"
	"github.com/goliatone/go-formbuilder/pkg/formschema"
	"github.com/goliatone/go-formbuilder/pkg/openapi"
	"github.com/goliatone/go-formbuilder/pkg/preview"
	"github.com/goliatone/go-formbuilder/pkg/studio"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

type violation struct {
	file     string
	location string
	severity validation.Severity
	message  string
}

// parseArgs lets flags follow positional arguments.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

func newFlagSet(name string, logger *log.Logger) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(logger.Writer())
	return fs
}

func validateCmd(_ context.Context, args []string, stdout io.Writer, logger *log.Logger) int {
	fs := newFlagSet("validate", logger)
	strict := fs.Bool("strict", false, "treat warnings as failures")
	paths, err := parseArgs(fs, args)
	if err != nil {
		return 2
	}
	if len(paths) == 0 {
		logger.Printf("validate: at least one file is required")
		return 2
	}

	var (
		violations []violation
		failed     bool
		readErrs   error
	)
	for _, path := range paths {
		diagnostics, err := validateFile(path)
		if err != nil {
			readErrs = multierr.Append(readErrs, fmt.Errorf("validate %s: %w", path, err))
			continue
		}
		for _, diagnostic := range diagnostics {
			if diagnostic.Severity == validation.SeverityError ||
				(*strict && diagnostic.Severity == validation.SeverityWarning) {
				failed = true
			}
			violations = append(violations, violation{
				file:     path,
				location: formatLocation(diagnostic),
				severity: diagnostic.Severity,
				message:  diagnostic.Message,
			})
		}
	}

	sort.SliceStable(violations, func(i, j int) bool {
		if violations[i].file == violations[j].file {
			return violations[i].location < violations[j].location
		}
		return violations[i].file < violations[j].file
	})
	for _, v := range violations {
		fmt.Fprintf(stdout, "%s: %s -> %s: %s\n", v.file, v.location, v.severity, v.message)
	}
	for _, err := range multierr.Errors(readErrs) {
		logger.Print(err)
	}
	if failed || readErrs != nil {
		return 1
	}
	if len(violations) == 0 {
		fmt.Fprintf(stdout, "%d file(s) valid\n", len(paths))
	}
	return 0
}

// validateFile parses JSON through the text validator so malformed input is
// reported as a diagnostic; YAML is decoded first.
func validateFile(path string) ([]validation.Diagnostic, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if document.FormatFromPath(path) == document.FormatJSON {
		return validation.ValidateSchemaText(string(raw)).Diagnostics, nil
	}
	schema, err := document.DecodeSchema(raw, document.FormatYAML)
	if err != nil {
		return nil, err
	}
	return validation.ValidateSchema(schema).Diagnostics, nil
}

func formatLocation(diagnostic validation.Diagnostic) string {
	parts := []string{string(diagnostic.Kind)}
	if diagnostic.ControlID != "" {
		parts = append(parts, diagnostic.ControlID)
	}
	if diagnostic.Field != "" {
		parts = append(parts, diagnostic.Field)
	}
	return strings.Join(parts, " > ")
}

func renderCmd(ctx context.Context, args []string, stdout io.Writer, logger *log.Logger) int {
	fs := newFlagSet("render", logger)
	output := fs.String("output", "", "output file (stdout if empty)")
	themeName := fs.String("theme", "", "theme name passed to the renderer")
	variant := fs.String("variant", "", "theme variant")
	templates := fs.String("templates", "", "directory overriding the embedded templates")
	hideWarnings := fs.Bool("hide-warnings", false, "only show error diagnostics")
	rendererName := fs.String("renderer", "html", "preview to produce: html or json")
	paths, err := parseArgs(fs, args)
	if err != nil {
		return 2
	}
	if len(paths) != 1 {
		logger.Printf("render: exactly one file is required")
		return 2
	}

	doc, err := document.Open(paths[0])
	if err != nil {
		logger.Printf("render: %v", err)
		return 1
	}
	registry, err := preview.NewDefaultRegistry(preview.WithTemplatesDir(*templates))
	if err != nil {
		logger.Printf("render: %v", err)
		return 1
	}
	renderer, err := registry.Resolve(*rendererName)
	if err != nil {
		logger.Printf("render: %v", err)
		return 2
	}
	result := validation.ValidateSchema(doc.Schema)
	out, err := renderer.Render(ctx, doc.Schema, result.Diagnostics, preview.RenderOptions{
		ThemeName:    *themeName,
		ThemeVariant: *variant,
		HideWarnings: *hideWarnings,
	})
	if err != nil {
		logger.Printf("render: %v", err)
		return 1
	}
	return writeOutput(stdout, logger, *output, out, "Form written to %s\n")
}

func importCmd(ctx context.Context, args []string, stdout io.Writer, logger *log.Logger) int {
	fs := newFlagSet("import", logger)
	source := fs.String("source", "", "OpenAPI document path")
	operation := fs.String("operation", "", "operation ID to import")
	output := fs.String("output", "", "output file (stdout if empty)")
	submit := fs.String("submit", "Submit", "submit button label (empty to omit)")
	layout := fs.String("layout", string(formschema.DefaultLayout), "form layout")
	author := fs.String("author", "", "author recorded in the document metadata")
	list := fs.Bool("list", false, "list operation IDs and exit")
	if _, err := parseArgs(fs, args); err != nil {
		return 2
	}
	if strings.TrimSpace(*source) == "" {
		logger.Printf("import: -source is required")
		return 2
	}

	raw, err := openapi.Load(ctx, openapi.SourceFromFile(*source), nil)
	if err != nil {
		logger.Printf("import: %v", err)
		return 1
	}

	if *list {
		ids, err := openapi.Operations(ctx, raw)
		if err != nil {
			logger.Printf("import: %v", err)
			return 1
		}
		for _, id := range ids {
			fmt.Fprintln(stdout, id)
		}
		return 0
	}
	if strings.TrimSpace(*operation) == "" {
		logger.Printf("import: -operation is required (use -list to see the available ones)")
		return 2
	}

	schema, err := openapi.Import(ctx, raw, *operation,
		openapi.WithSubmitButton(*submit),
		openapi.WithLayout(formschema.Layout(*layout)),
	)
	if err != nil {
		logger.Printf("import: %v", err)
		return 1
	}
	doc := document.New(schema, document.WithAuthor(*author))

	format := document.FormatJSON
	if *output != "" {
		format = document.FormatFromPath(*output)
	}
	payload, err := document.Encode(doc, format)
	if err != nil {
		logger.Printf("import: %v", err)
		return 1
	}
	return writeOutput(stdout, logger, *output, payload, "Form imported to %s\n")
}

func editCmd(ctx context.Context, args []string, stdout io.Writer, logger *log.Logger) int {
	fs := newFlagSet("edit", logger)
	configPath := fs.String("config", "", "studio configuration file (YAML or JSON)")
	author := fs.String("author", "", "author recorded in new documents")
	paths, err := parseArgs(fs, args)
	if err != nil {
		return 2
	}
	if len(paths) != 1 {
		logger.Printf("edit: exactly one file is required")
		return 2
	}
	path := paths[0]

	var cfg studio.Config
	if *configPath != "" {
		if cfg, err = studio.LoadConfig(*configPath); err != nil {
			logger.Printf("edit: %v", err)
			return 1
		}
	}
	if *author != "" {
		cfg.Author = *author
	}

	session, err := studio.New(studio.WithConfig(cfg))
	if err != nil {
		logger.Printf("edit: %v", err)
		return 1
	}
	if _, statErr := os.Stat(path); statErr == nil {
		doc, err := document.Open(path, document.WithAuthor(cfg.Author))
		if err != nil {
			logger.Printf("edit: %v", err)
			return 1
		}
		session.Open(doc)
	}

	ui, err := console.New(session,
		console.WithPromptDriver(console.NewSurveyDriver(stdout)),
		console.WithSavePath(path),
	)
	if err != nil {
		logger.Printf("edit: %v", err)
		return 1
	}
	if err := ui.Run(ctx); err != nil {
		if errors.Is(err, console.ErrAborted) {
			return 130
		}
		logger.Printf("edit: %v", err)
		return 1
	}
	return 0
}

func fmtCmd(_ context.Context, args []string, stdout io.Writer, logger *log.Logger) int {
	fs := newFlagSet("fmt", logger)
	formatName := fs.String("format", "", "output format: json or yaml (defaults to the input format)")
	output := fs.String("output", "", "output file (stdout if empty)")
	write := fs.Bool("w", false, "rewrite the input file in place")
	paths, err := parseArgs(fs, args)
	if err != nil {
		return 2
	}
	if len(paths) != 1 {
		logger.Printf("fmt: exactly one file is required")
		return 2
	}
	path := paths[0]

	format := document.FormatFromPath(path)
	if *formatName != "" {
		if format, err = document.ParseFormat(*formatName); err != nil {
			logger.Printf("fmt: %v", err)
			return 2
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		logger.Printf("fmt: %v", err)
		return 1
	}
	payload, err := reformat(raw, document.FormatFromPath(path), format)
	if err != nil {
		logger.Printf("fmt: %s: %v", path, err)
		return 1
	}

	target := *output
	if *write {
		target = path
	}
	return writeOutput(stdout, logger, target, payload, "")
}

// reformat keeps envelopes as envelopes and bare schemas as bare schemas.
func reformat(raw []byte, in, out document.Format) ([]byte, error) {
	doc, err := document.Decode(raw, in)
	if err == nil {
		return document.Encode(doc, out)
	}
	if !errors.Is(err, document.ErrMissingVersion) {
		return nil, err
	}
	schema, err := document.DecodeSchema(raw, in)
	if err != nil {
		return nil, err
	}
	return document.EncodeSchema(schema, out)
}

func writeOutput(stdout io.Writer, logger *log.Logger, path string, payload []byte, notice string) int {
	if path == "" {
		if _, err := stdout.Write(payload); err != nil {
			logger.Printf("write output: %v", err)
			return 1
		}
		return 0
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		logger.Printf("write output: %v", err)
		return 1
	}
	if notice != "" {
		fmt.Fprintf(stdout, notice, path)
	}
	return 0
}
