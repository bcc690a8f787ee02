package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

const usage = `Usage: %s <command> [flags] [args]

Commands:
  validate <files...>   report diagnostics for schema or document files
  render <file>         write the HTML preview of a form
  import                seed a form from an OpenAPI operation
  edit <file>           open the interactive editor
  fmt <file>            re-encode a form as JSON or YAML
`

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	logger := log.New(stderr, "", 0)
	name := filepath.Base(os.Args[0])

	if len(args) == 0 {
		fmt.Fprintf(stderr, usage, name)
		return 2
	}

	var cmd func(context.Context, []string, io.Writer, *log.Logger) int
	switch args[0] {
	case "validate":
		cmd = validateCmd
	case "render":
		cmd = renderCmd
	case "import":
		cmd = importCmd
	case "edit":
		cmd = editCmd
	case "fmt":
		cmd = fmtCmd
	case "help", "-h", "-help", "--help":
		fmt.Fprintf(stdout, usage, name)
		return 0
	default:
		logger.Printf("unknown command %q", args[0])
		fmt.Fprintf(stderr, usage, name)
		return 2
	}
	return cmd(ctx, args[1:], stdout, logger)
}
