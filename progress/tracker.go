package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/ge0mant1s/soacframe-community/util"
)

// Tracker shows a single progress line while rule files are scanned.
type Tracker struct {
	out        io.Writer
	total      int
	completed  int
	parsed     int
	failed     int
	startTime  time.Time
	lastUpdate time.Time
	enabled    bool
	color      *util.Colorizer
}

// NewTracker creates a tracker for total files. A quiet tracker records counts
// but prints nothing.
func NewTracker(out io.Writer, total int, quiet, colorize bool) *Tracker {
	return &Tracker{
		out:       out,
		total:     total,
		startTime: time.Now(),
		enabled:   !quiet && total > 0,
		color:     &util.Colorizer{Enabled: colorize},
	}
}

// Record counts one finished file; err marks it as failed.
func (t *Tracker) Record(path string, err error) {
	t.completed++
	if err != nil {
		t.failed++
	} else {
		t.parsed++
	}
	t.printProgress(t.completed == t.total)
}

// Counts returns the parsed and failed totals so far.
func (t *Tracker) Counts() (parsed, failed int) {
	return t.parsed, t.failed
}

// Done clears the progress line and prints the summary.
func (t *Tracker) Done() {
	if !t.enabled {
		return
	}
	t.Clear()
	elapsed := time.Since(t.startTime).Round(time.Millisecond)
	fmt.Fprintf(t.out, "[+] Scan Finished: Processed %d rule files in %s (Parsed: %d, Errors: %d)\n",
		t.completed, elapsed, t.parsed, t.failed)
}

// Clear clears the progress line.
func (t *Tracker) Clear() {
	if t.enabled {
		fmt.Fprint(t.out, "\033[2K\r")
	}
}

// printProgress prints the current progress on the same line with throttling.
func (t *Tracker) printProgress(force bool) {
	if !t.enabled {
		return
	}

	// Throttle to 15 updates per second
	if !force && time.Since(t.lastUpdate) < (time.Second/15) {
		return
	}
	t.lastUpdate = time.Now()

	percent := float64(t.completed) / float64(t.total) * 100
	line := fmt.Sprintf("[+] %s | Scanned: %d/%d | Parsed: %s | Errors: %s",
		t.color.Cyan(fmt.Sprintf("%.1f%%", percent)),
		t.completed, t.total,
		t.color.Green(fmt.Sprintf("%d", t.parsed)),
		t.color.Red(fmt.Sprintf("%d", t.failed)))

	fmt.Fprintf(t.out, "\033[2K\r%s", line)
}
