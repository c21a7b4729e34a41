// Package cli implements the inkverify command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"inkverify/internal/config"
	"inkverify/internal/metrics"
)

// Version is filled when building with make, but *not* when installing via "go
// install".
var Version string

// app carries state shared by every command of one invocation.
type app struct {
	cfg        config.Config
	configPath string
	verbose    bool
	quiet      bool

	metrics *metrics.Metrics
	stdin   *os.File
	getenv  func(string) string
}

func newApp() *app {
	return &app{
		cfg:     config.DefaultConfig(),
		metrics: metrics.New(),
		stdin:   os.Stdin,
		getenv:  os.Getenv,
	}
}

// newRootCmd builds the command tree for a.
func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "inkverify",
		Short: "Derive and verify Game of Life proof-of-work digests.",
		Long: `inkverify expands a username/password pair into a grid, runs Conway's Game
of Life on it for a fixed number of steps and hashes the result. Producing the
digest costs a fixed amount of work; anyone holding the same inputs can
recompute it to verify a claim.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			configureLogging(cmd.ErrOrStderr(), a.verbose, a.quiet)
			if a.configPath == "" {
				return a.cfg.Validate()
			}
			log.WithField("path", a.configPath).Debug("loading configuration")
			return config.Resolve(a.configPath, &a.cfg, cmd.Flags())
		},
	}
	pf := root.PersistentFlags()
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "increase logging verbosity")
	pf.BoolVarP(&a.quiet, "quiet", "q", false, "print only results")
	pf.StringVarP(&a.configPath, "config", "c", "", "YAML file with run defaults")
	a.cfg.Bind(pf)

	root.AddCommand(
		newProveCmd(a),
		newVerifyCmd(a),
		newSweepCmd(a),
		newLedgerCmd(a),
		newVersionCmd(),
	)
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string) int {
	a := newApp()
	root := newRootCmd(a)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if a.cfg.MetricsFile != "" {
		if merr := a.metrics.WriteFile(a.cfg.MetricsFile); merr != nil {
			log.WithError(merr).Warn("could not write metrics")
		}
	}
	if err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
		return 1
	}
	return 0
}

func configureLogging(w io.Writer, verbose, quiet bool) {
	log.SetOutput(w)
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	switch {
	case verbose:
		log.SetLevel(log.DebugLevel)
	case quiet:
		log.SetLevel(log.WarnLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Report version of this executable.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprint(out, "inkverify ")
			if Version != "" {
				// Built via "make"
				fmt.Fprintf(out, "%s", Version)
			} else if info, ok := debug.ReadBuildInfo(); ok {
				// Built via "go install"
				fmt.Fprintf(out, "%s", info.Main.Version)
			} else {
				// Unknown, perhaps "go run"
				fmt.Fprintf(out, "(unknown version)")
			}
			fmt.Fprintln(out)
		},
	}
}
