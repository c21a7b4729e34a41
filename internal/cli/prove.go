package cli

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"inkverify/internal/ledger"
	"inkverify/internal/metrics"
	"inkverify/internal/progress"
	"inkverify/internal/render"
)

func newProveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "prove <username> [password] [width] [height] [steps]",
		Short: "Compute the proof digest for a credential pair.",
		Long: `Compute the proof digest for a credential pair and save the final grid as an
image. Without a password argument the password is taken from
$INKVERIFY_PASSWORD or read from stdin (without echo on a terminal).`,
		Example: "  inkverify prove Alice MySecretPass 500 500 1000",
		Args:    cobra.RangeArgs(1, 5),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.prove(cmd, args)
		},
	}
}

func (a *app) prove(cmd *cobra.Command, args []string) error {
	username, password, rest := splitCredentialArgs(args)
	if err := a.cfg.ApplyPositional(rest); err != nil {
		return err
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	var format render.Format
	if a.cfg.Format != "" {
		f, err := render.ParseFormat(a.cfg.Format)
		if err != nil {
			return err
		}
		format = f
	} else if a.cfg.Output != "" {
		f, err := render.FormatFromPath(a.cfg.Output)
		if err != nil {
			return fmt.Errorf("%w (set --format)", err)
		}
		format = f
	}

	secret, err := a.secret(cmd, username, password)
	if err != nil {
		return err
	}
	defer secret.Destroy()

	p := a.cfg.Params()
	rep := progress.New(cmd.ErrOrStderr(), a.quiet)
	rep.Banner(username, p.Width, p.Height, p.Steps)
	res, err := a.generate(cmd.Context(), rep, secret.Credentials(), p)
	if err != nil {
		return err
	}
	a.metrics.ObserveRun(metrics.OutcomeOK, res.Elapsed)

	rep.Digest(3, res.Digest)

	if a.cfg.Output != "" {
		rep.Stage(4, fmt.Sprintf("Saving visual proof to '%s'...", a.cfg.Output))
		if err := render.WriteFile(a.cfg.Output, res.Grid, format); err != nil {
			return err
		}
	}

	if a.cfg.Ledger != "" {
		store, err := a.openLedger()
		if err != nil {
			return err
		}
		defer store.Close()
		rec, err := store.Put(cmd.Context(), ledger.Record{
			Username: username,
			Width:    p.Width,
			Height:   p.Height,
			Steps:    p.Steps,
			Digest:   res.Digest,
			Elapsed:  res.Elapsed,
		})
		if err != nil {
			return err
		}
		log.WithField("id", rec.ID).Info("proof recorded in ledger")
	}

	// Only a fully completed proof puts its digest on stdout.
	if a.quiet || !progress.IsTerminal(cmd.OutOrStdout()) {
		fmt.Fprintln(cmd.OutOrStdout(), res.Digest)
	}
	rep.Footer()
	return nil
}
