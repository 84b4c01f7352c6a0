package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gitlisted/tracing-framework/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "wtfindex",
	Short:         "Index zone scopes of a recorded trace",
	Long:          `wtfindex loads a recorded event stream, reconstructs the per-zone scope trees and reports on them`,
	SilenceUsage: true,
}

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(versionCmd)

	addPersistentFlags(rootCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addPersistentFlags(root *cobra.Command) {
	root.PersistentFlags().String("config", "", "path to wtfindex.toml (default: nearest one upwards)")
	root.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	root.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error), overrides [log].level")
	root.PersistentFlags().Bool("timings", false, "show phase timings on stderr")
	root.PersistentFlags().String("trace", "", "self-diagnostic trace output (- for stderr, *.ndjson for NDJSON)")
	root.PersistentFlags().String("trace-level", "off", "self-diagnostic trace level (off|phase|detail|debug)")
	root.PersistentFlags().String("cpu-profile", "", "write a CPU profile to this file")
	root.PersistentFlags().String("mem-profile", "", "write a heap profile to this file on exit")
	root.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to this file")
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves auto|on|off against the terminal state of out.
func useColor(mode string, out io.Writer) bool {
	switch mode {
	case "on":
		return true
	case "off":
		return false
	default:
		f, ok := out.(*os.File)
		return ok && isTerminal(f)
	}
}
