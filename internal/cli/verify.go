package cli

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"inkverify/internal/metrics"
	"inkverify/internal/progress"
	"inkverify/pkg/proof"
)

func newVerifyCmd(a *app) *cobra.Command {
	var claimed, id string
	cmd := &cobra.Command{
		Use:   "verify [username] [password] [width] [height] [steps]",
		Short: "Recompute a proof and compare it with a claimed digest.",
		Long: `Recompute the digest for a credential pair and compare it with a claim.
The claim comes from --digest, or from a ledger record selected with --id, in
which case the record also supplies the grid size, step count and username.`,
		Args: cobra.MaximumNArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.verify(cmd, args, claimed, id)
		},
	}
	cmd.Flags().StringVarP(&claimed, "digest", "d", "", "claimed hex digest")
	cmd.Flags().StringVar(&id, "id", "", "verify the ledger record with this id")
	cmd.MarkFlagsMutuallyExclusive("digest", "id")
	return cmd
}

func (a *app) verify(cmd *cobra.Command, args []string, claimed, id string) error {
	username, password, rest := splitCredentialArgs(args)
	if err := a.cfg.ApplyPositional(rest); err != nil {
		return err
	}
	p := a.cfg.Params()

	if id != "" {
		store, err := a.openLedger()
		if err != nil {
			return err
		}
		rec, err := store.Get(cmd.Context(), id)
		store.Close()
		if err != nil {
			return err
		}
		if username == "" {
			username = rec.Username
		} else if username != rec.Username {
			log.WithFields(log.Fields{"record": rec.Username, "given": username}).Warn("username differs from ledger record")
		}
		p.Width, p.Height, p.Steps = rec.Width, rec.Height, rec.Steps
		claimed = rec.Digest
	}
	if claimed == "" {
		return errors.New("nothing to verify against (use --digest or --id)")
	}
	if username == "" {
		return errors.New("username required")
	}
	if _, err := proof.ParseDigest(claimed); err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}

	secret, err := a.secret(cmd, username, password)
	if err != nil {
		return err
	}
	defer secret.Destroy()

	rep := progress.New(cmd.ErrOrStderr(), a.quiet)
	rep.Banner(username, p.Width, p.Height, p.Steps)
	res, err := a.generate(cmd.Context(), rep, secret.Credentials(), p)
	if err != nil {
		return err
	}
	rep.Digest(3, res.Digest)

	if err := proof.Match(claimed, res.Digest); err != nil {
		a.metrics.ObserveRun(metrics.OutcomeMismatch, res.Elapsed)
		rep.Verdict(false)
		fmt.Fprintln(cmd.OutOrStdout(), "MISMATCH")
		return err
	}
	a.metrics.ObserveRun(metrics.OutcomeOK, res.Elapsed)
	rep.Verdict(true)
	fmt.Fprintln(cmd.OutOrStdout(), "OK")
	rep.Footer()
	return nil
}
