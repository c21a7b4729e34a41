package cli

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"inkverify/internal/credentials"
	"inkverify/internal/ledger"
	"inkverify/internal/metrics"
	"inkverify/internal/progress"
	"inkverify/pkg/core"
	"inkverify/pkg/proof"
)

// secret resolves the password for username, preferring an explicit argument.
func (a *app) secret(cmd *cobra.Command, username string, password *string) (*credentials.Secret, error) {
	return credentials.Resolve(username, credentials.Source{
		Arg:    password,
		Getenv: a.getenv,
		In:     a.stdin,
		Out:    cmd.ErrOrStderr(),
	})
}

// splitCredentialArgs returns the username, the optional password and the
// remaining positional arguments.
func splitCredentialArgs(args []string) (string, *string, []string) {
	if len(args) == 0 {
		return "", nil, nil
	}
	if len(args) == 1 {
		return args[0], nil, nil
	}
	pw := args[1]
	return args[0], &pw, args[2:]
}

// generate runs one proof with progress reporting and metrics.
func (a *app) generate(ctx context.Context, rep *progress.Reporter, creds proof.Credentials, p proof.Params) (proof.Result, error) {
	rep.Stage(1, "Generating Initial Seed...")
	rep.Stage(2, "Running Simulation...")
	rep.Start(p.Steps)
	cells := p.Width * p.Height
	observe := func(step int, g *core.Grid) {
		a.metrics.ObserveStep(cells)
		rep.Observe(step, g)
	}
	res, err := proof.Generate(ctx, creds, p, proof.WithObserver(observe))
	if err != nil {
		a.metrics.ObserveRun(metrics.OutcomeError, rep.Elapsed())
		return res, err
	}
	a.metrics.ObservePopulation(res.Grid.Population())
	log.WithFields(log.Fields{
		"width":   p.Width,
		"height":  p.Height,
		"steps":   p.Steps,
		"elapsed": res.Elapsed,
	}).Debug("simulation finished")
	rep.Done(res.Elapsed)
	return res, nil
}

func (a *app) openLedger() (*ledger.Store, error) {
	if a.cfg.Ledger == "" {
		return nil, errors.New("no ledger configured (use --ledger DIR)")
	}
	return ledger.Open(ledger.Config{Path: a.cfg.Ledger, SyncWrites: true})
}
