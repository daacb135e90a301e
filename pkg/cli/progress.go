package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// ProgressReporter receives progress of a batch of prompts.
type ProgressReporter interface {
	Start(total int64)
	Update(current int64)
	Finish()
	Error(err error)
}

const barWidth = 40

// SimpleProgress redraws a single status line with a bar, a percentage
// and the prompt rate.
type SimpleProgress struct {
	w io.Writer

	mu      sync.Mutex
	total   int64
	current int64
	started time.Time
}

// NewProgressReporter returns a SimpleProgress writing to w, or to
// os.Stderr when w is nil.
func NewProgressReporter(w io.Writer) ProgressReporter {
	if w == nil {
		w = os.Stderr
	}
	return &SimpleProgress{w: w}
}

func (p *SimpleProgress) Start(total int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total, p.current, p.started = total, 0, time.Now()
	p.draw()
}

// Update moves progress to current, clamped to the total. Smaller values
// are ignored.
func (p *SimpleProgress) Update(current int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if current >= p.current {
		p.current = min(current, p.total)
		p.draw()
	}
}

// Finish draws the complete bar and ends the line.
func (p *SimpleProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = p.total
	p.draw()
	fmt.Fprintln(p.w)
}

func (p *SimpleProgress) Error(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "\n✗ Error: %v\n", err)
}

func (p *SimpleProgress) draw() {
	if p.total <= 0 {
		return
	}

	ratio := float64(p.current) / float64(p.total)
	done := int(ratio * barWidth)

	var rate float64
	if secs := time.Since(p.started).Seconds(); secs > 0 {
		rate = float64(p.current) / secs
	}

	fmt.Fprintf(p.w, "\r[%s%s] %.1f%% (%d/%d) %.1f prompts/s",
		strings.Repeat("█", done), strings.Repeat("░", barWidth-done),
		ratio*100, p.current, p.total, rate)
}

// NopProgress discards progress.
type NopProgress struct{}

func (NopProgress) Start(int64)  {}
func (NopProgress) Update(int64) {}
func (NopProgress) Finish()      {}
func (NopProgress) Error(error)  {}
