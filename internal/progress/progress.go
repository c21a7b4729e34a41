// Package progress prints the human-facing side of a proof run: a banner,
// throttled per-step progress and a closing summary.
package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	log "github.com/sirupsen/logrus"

	"inkverify/pkg/core"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	keyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	hashStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	failStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// Reporter writes progress for one run. It is not safe for concurrent use;
// the simulation driver calls Observe from a single goroutine.
type Reporter struct {
	out      io.Writer
	live     bool
	quiet    bool
	total    int
	throttle *Throttle
	start    time.Time
	lastLen  int
}

// New returns a Reporter writing to out. Live in-place updates are used only
// when out is a terminal; otherwise progress goes to the logger.
func New(out io.Writer, quiet bool) *Reporter {
	return &Reporter{
		out:      out,
		live:     IsTerminal(out),
		quiet:    quiet,
		throttle: NewThrottle(0),
	}
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Banner prints the run header.
func (r *Reporter) Banner(user string, w, h, steps int) {
	if r.quiet {
		return
	}
	fmt.Fprintln(r.out, titleStyle.Render("--- InkVerify Protocol ---"))
	r.line("User", user)
	r.line("Grid", fmt.Sprintf("%dx%d", w, h))
	r.line("Steps", fmt.Sprint(steps))
}

func (r *Reporter) line(key, val string) {
	fmt.Fprintf(r.out, "%s %s\n", keyStyle.Render("[*] "+key+":"), val)
}

// Stage announces a numbered phase of the run.
func (r *Reporter) Stage(n int, msg string) {
	if r.quiet {
		return
	}
	fmt.Fprintf(r.out, "[%d] %s\n", n, msg)
}

// Start resets the clock and expected step count.
func (r *Reporter) Start(total int) {
	r.total = total
	r.start = time.Now()
	r.lastLen = 0
}

// Observe is a life.Observer.
func (r *Reporter) Observe(step int, g *core.Grid) {
	final := step == r.total
	if !final && !r.throttle.Ready() {
		return
	}
	pct := 100.0
	if r.total > 0 {
		pct = 100 * float64(step) / float64(r.total)
	}
	if !r.live || r.quiet {
		log.WithFields(log.Fields{
			"step":       step,
			"total":      r.total,
			"population": g.Population(),
		}).Debug("simulation progress")
		return
	}
	msg := fmt.Sprintf("    step %d/%d (%3.0f%%) population %d", step, r.total, pct, g.Population())
	pad := r.lastLen - len(msg)
	r.lastLen = len(msg)
	if pad < 0 {
		pad = 0
	}
	fmt.Fprintf(r.out, "\r%s%*s", msg, pad, "")
	if final {
		fmt.Fprintln(r.out)
	}
}

// Elapsed returns the time since Start.
func (r *Reporter) Elapsed() time.Duration { return time.Since(r.start) }

// Done prints the completion time.
func (r *Reporter) Done(elapsed time.Duration) {
	if r.quiet {
		return
	}
	r.line("Completed in", elapsed.Round(time.Millisecond).String())
}

// Digest prints the final hash line.
func (r *Reporter) Digest(n int, digest string) {
	if r.quiet {
		return
	}
	fmt.Fprintf(r.out, "[%d] Final Grid Hash: %s\n", n, hashStyle.Render(digest))
}

// Verdict prints the outcome of a verification.
func (r *Reporter) Verdict(ok bool) {
	if r.quiet {
		return
	}
	if ok {
		fmt.Fprintln(r.out, hashStyle.Render("VERIFIED"))
		return
	}
	fmt.Fprintln(r.out, failStyle.Render("MISMATCH"))
}

// Footer closes the report.
func (r *Reporter) Footer() {
	if r.quiet {
		return
	}
	fmt.Fprintln(r.out, "--- Done ---")
}
