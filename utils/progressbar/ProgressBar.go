// Package progressbar implements functionality of printing a progress
// bar to the terminal window
package progressbar

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// ProgressBar implements a progress bar that must be manually managed.
// That is, Display must be called whenever an updated progress bar
// should be printed.
type ProgressBar struct {
	w     io.Writer
	width int

	maxProgress     int
	currentProgress int
	startTime       time.Time
}

// New returns a new ProgressBar that is width characters wide, prints to
// w, and reaches 100% after max calls to Increment
func New(w io.Writer, width, max int) *ProgressBar {
	return &ProgressBar{
		w:           w,
		width:       width,
		maxProgress: max,
		startTime:   time.Now(),
	}
}

// Increment increments the internal progress counter. Each time an
// iteration is performed, Increment should be called.
func (p *ProgressBar) Increment() {
	if p.currentProgress < p.maxProgress {
		p.currentProgress++
	}
}

// Fraction returns the fraction of progress made
func (p *ProgressBar) Fraction() float64 {
	if p.maxProgress <= 0 {
		return 1
	}
	return float64(p.currentProgress) / float64(p.maxProgress)
}

// Display overwrites the current terminal line with the progress bar
func (p *ProgressBar) Display() {
	fmt.Fprintf(p.w, "\r\033[K%v", p)
}

// Done displays the progress bar a final time and ends its line
func (p *ProgressBar) Done() {
	p.Display()
	fmt.Fprintln(p.w)
}

func (p *ProgressBar) String() string {
	var bar strings.Builder
	filled := int(p.Fraction() * float64(p.width))

	bar.WriteString("|")
	bar.WriteString(strings.Repeat("█", filled))
	bar.WriteString(strings.Repeat(" ", p.width-filled))
	bar.WriteString(fmt.Sprintf("| [%.2f%% | elapsed: %v]",
		p.Fraction()*100, time.Since(p.startTime).Truncate(time.Second)))

	return bar.String()
}
