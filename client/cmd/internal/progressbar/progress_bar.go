package progressbar

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

const (
	barWidth     = 20
	spinInterval = 100 * time.Millisecond

	// set to false to keep stderr free of progress output on a terminal
	indicatorEnv = "CHRONOSCTL_PROGRESS_INDICATOR"
)

// Indicator shows a spinner while chronosctl waits on chronos and a
// counting bar while it works through a list of jobs
type Indicator struct {
	mu  sync.Mutex
	out io.Writer

	spin *spinner.Spinner
	bar  *progressbar.ProgressBar
}

// New draws on stderr if it is a terminal, otherwise nothing is drawn
func New() *Indicator {
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		return NewWithWriter(io.Discard)
	}
	if strings.EqualFold(os.Getenv(indicatorEnv), "false") {
		return NewWithWriter(io.Discard)
	}
	return NewWithWriter(os.Stderr)
}

func NewWithWriter(out io.Writer) *Indicator {
	return &Indicator{out: out}
}

// Spin shows label next to a spinner. Calling it again only swaps the label.
func (i *Indicator) Spin(label string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	suffix := ""
	if label != "" {
		suffix = " " + label
	}
	if i.spin == nil {
		i.spin = spinner.New(spinner.CharSets[14], spinInterval,
			spinner.WithWriter(i.out), spinner.WithColor("fgHiBlue"))
		i.spin.Suffix = suffix
		i.spin.Start()
		return
	}
	i.spin.Suffix = suffix
}

// Count replaces any running bar with one counting up to total jobs
func (i *Indicator) Count(total int, label string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(i.out),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSetWidth(barWidth),
		progressbar.OptionShowCount(),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "#",
			SaucerPadding: ".",
			BarStart:      "|",
			BarEnd:        "|",
		}),
	)
}

// Done moves the bar to n finished jobs, it is a noop before Count
func (i *Indicator) Done(n int) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.bar == nil {
		return nil
	}
	return i.bar.Set(n)
}

// Stop clears the spinner and completes the bar
func (i *Indicator) Stop() {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.spin != nil {
		i.spin.Stop()
		i.spin = nil
	}
	if i.bar != nil {
		_ = i.bar.Finish()
		fmt.Fprintln(i.out)
		i.bar = nil
	}
}
