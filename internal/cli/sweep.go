package cli

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"inkverify/internal/metrics"
	"inkverify/pkg/proof"
)

type sweepCase struct {
	size  int
	steps int
}

func (c sweepCase) String() string {
	return fmt.Sprintf("%dx%d/%d", c.size, c.size, c.steps)
}

type sweepResult struct {
	sweepCase
	digest  string
	elapsed time.Duration
	err     error
}

// cellUpdates is the amount of work the case performs.
func (r sweepResult) cellUpdates() int64 {
	return int64(r.size) * int64(r.size) * int64(r.steps)
}

func newSweepCmd(a *app) *cobra.Command {
	var sizes, stepCounts []int
	var parallel int
	cmd := &cobra.Command{
		Use:   "sweep <username> [password]",
		Short: "Measure proof cost across grid sizes and step counts.",
		Long: `Run the proof for every combination of square grid size and step count and
report how long each took. Use it to pick parameters that cost a prover the
intended amount of time on given hardware.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.sweep(cmd, args, sizes, stepCounts, parallel)
		},
	}
	cmd.Flags().IntSliceVar(&sizes, "sizes", []int{50, 100, 200}, "square grid sizes to try")
	cmd.Flags().IntSliceVar(&stepCounts, "step-counts", []int{100, 500}, "step counts to try")
	cmd.Flags().IntVarP(&parallel, "parallel", "p", runtime.NumCPU(), "number of cases run at once")
	return cmd
}

func (a *app) sweep(cmd *cobra.Command, args []string, sizes, stepCounts []int, parallel int) error {
	username, password, _ := splitCredentialArgs(args)
	secret, err := a.secret(cmd, username, password)
	if err != nil {
		return err
	}
	defer secret.Destroy()
	creds := secret.Credentials()

	var cases []sweepCase
	for _, size := range sizes {
		for _, steps := range stepCounts {
			cases = append(cases, sweepCase{size: size, steps: steps})
		}
	}
	if parallel < 1 {
		parallel = 1
	}
	log.WithFields(log.Fields{"cases": len(cases), "parallel": parallel}).Info("starting sweep")

	start := time.Now()
	results := a.runSweep(cmd.Context(), creds, cases, parallel)
	sort.Slice(results, func(i, j int) bool { return results[i].cellUpdates() < results[j].cellUpdates() })

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("CASE", "CELL UPDATES", "ELAPSED", "MCELLS/S", "DIGEST")
	var failed error
	for _, res := range results {
		if res.err != nil {
			if failed == nil {
				failed = fmt.Errorf("case %s: %w", res.sweepCase, res.err)
			}
			t.Row(res.String(), fmt.Sprint(res.cellUpdates()), "-", "-", "error: "+res.err.Error())
			continue
		}
		rate := "-"
		if secs := res.elapsed.Seconds(); secs > 0 {
			rate = fmt.Sprintf("%.1f", float64(res.cellUpdates())/secs/1e6)
		}
		t.Row(res.String(), fmt.Sprint(res.cellUpdates()), res.elapsed.Round(time.Millisecond).String(), rate, res.digest[:16])
	}
	fmt.Fprintln(cmd.OutOrStdout(), t.String())
	log.WithField("elapsed", time.Since(start).Round(time.Millisecond)).Info("sweep finished")
	return failed
}

// runSweep fans cases out to parallel workers. Each case runs its own
// sequential steps; only whole cases run concurrently.
func (a *app) runSweep(ctx context.Context, creds proof.Credentials, cases []sweepCase, parallel int) []sweepResult {
	jobs := make(chan sweepCase)
	results := make(chan sweepResult)
	var wg sync.WaitGroup

	for i := 0; i < parallel; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range jobs {
				p := proof.Params{Width: c.size, Height: c.size, Steps: c.steps, Workers: a.cfg.Workers}
				res, err := proof.Generate(ctx, creds, p)
				out := sweepResult{sweepCase: c, err: err}
				if err == nil {
					out.digest = res.Digest
					out.elapsed = res.Elapsed
					a.metrics.ObserveRun(metrics.OutcomeOK, res.Elapsed)
				} else {
					a.metrics.ObserveRun(metrics.OutcomeError, 0)
				}
				results <- out
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		defer close(jobs)
		for _, c := range cases {
			select {
			case jobs <- c:
			case <-ctx.Done():
				return
			}
		}
	}()

	var all []sweepResult
	for res := range results {
		log.WithFields(log.Fields{"case": res.String(), "elapsed": res.elapsed}).Debug("case finished")
		all = append(all, res)
	}
	return all
}
