package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"inkverify/internal/ledger"
	"inkverify/pkg/proof"
)

func newLedgerCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect the proof ledger.",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List recorded proofs, oldest first.",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := a.openLedger()
				if err != nil {
					return err
				}
				defer store.Close()
				recs, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), recordTable(recs))
				return nil
			},
		},
		&cobra.Command{
			Use:   "find <digest>",
			Short: "List the records that claim a digest.",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				digest := strings.TrimSpace(args[0])
				if _, err := proof.ParseDigest(digest); err != nil {
					return err
				}
				store, err := a.openLedger()
				if err != nil {
					return err
				}
				defer store.Close()
				recs, err := store.FindByDigest(cmd.Context(), digest)
				if err != nil {
					return err
				}
				if len(recs) == 0 {
					return fmt.Errorf("%w: no record with digest %s", ledger.ErrNotFound, digest)
				}
				fmt.Fprintln(cmd.OutOrStdout(), recordTable(recs))
				return nil
			},
		},
		&cobra.Command{
			Use:   "show <id>",
			Short: "Print a single record.",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := a.openLedger()
				if err != nil {
					return err
				}
				defer store.Close()
				r, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "id:       %s\n", r.ID)
				fmt.Fprintf(out, "username: %s\n", r.Username)
				fmt.Fprintf(out, "grid:     %dx%d\n", r.Width, r.Height)
				fmt.Fprintf(out, "steps:    %d\n", r.Steps)
				fmt.Fprintf(out, "digest:   %s\n", r.Digest)
				fmt.Fprintf(out, "created:  %s\n", r.CreatedAt.Format(time.RFC3339))
				fmt.Fprintf(out, "elapsed:  %s\n", r.Elapsed)
				return nil
			},
		},
		&cobra.Command{
			Use:   "rm <id>",
			Short: "Delete a record.",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := a.openLedger()
				if err != nil {
					return err
				}
				defer store.Close()
				return store.Delete(cmd.Context(), args[0])
			},
		},
	)
	return cmd
}

func recordTable(recs []ledger.Record) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "USER", "GRID", "STEPS", "DIGEST", "CREATED")
	for _, r := range recs {
		t.Row(r.ID, r.Username, fmt.Sprintf("%dx%d", r.Width, r.Height), fmt.Sprint(r.Steps),
			r.Digest, r.CreatedAt.Format(time.RFC3339))
	}
	return t.String()
}
