package report

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"e2eharness/pkg/models"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	passStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Reporter writes the user-facing progress and tally lines. Structured logs
// go through zap; this is the terminal surface a developer actually watches.
type Reporter struct {
	out io.Writer
}

func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

// StartJob prints the per-suite progress line before the entrypoint runs.
func (r *Reporter) StartJob(index, total int, job models.Job) {
	fmt.Fprintf(r.out, "%s %s\n",
		dimStyle.Render(fmt.Sprintf("[%d/%d]", index, total)),
		headerStyle.Render(job.String()))
}

// FinishJob prints the job verdict.
func (r *Reporter) FinishJob(o models.RunOutcome) {
	verdict := passStyle.Render("PASS")
	if !o.Passed() {
		verdict = failStyle.Render(fmt.Sprintf("FAIL (exit %d)", o.ExitCode))
	}
	fmt.Fprintf(r.out, "  %s %s %s\n",
		verdict,
		o.Job.String(),
		dimStyle.Render(o.Duration.Round(10*time.Millisecond).String()))
}

// Summary prints the single pass/fail tally line.
func (r *Reporter) Summary(sum models.Summary) {
	line := fmt.Sprintf("%d/%d passed", sum.PassedCount(), sum.Total)
	if sum.AllPassed() {
		fmt.Fprintln(r.out, passStyle.Render("✓ "+line))
	} else {
		fmt.Fprintln(r.out, failStyle.Render("✗ "+line))
	}
}
