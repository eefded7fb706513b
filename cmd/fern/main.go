package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌─┐┌─┐┬─┐┌┐┌
  ├┤ ├┤ ├┬┘│││
  └  └─┘┴└─┘└┘
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "fern",
		Short: "Directive-driven markup rendering for small sites",
		Long: `Fern renders directive-annotated markup fragments against a
reactive data store.

Fragments use four attributes (if, for, model, click) and
{{ expression }} interpolation. A JSON payload feeds the store;
clicks and edits write back into it.

Commands:
  serve    run the HTTP server, with hot reload in dev mode
  render   render one fragment to stdout and exit`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		renderCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

// printBanner prints the ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
