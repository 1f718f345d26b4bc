package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// spinnerFrames is the animation cycle drawn while a scan runs.
var spinnerFrames = [...]string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates scan progress on stderr while the pipeline runs. It
// stops on demand or when the scan's context is cancelled, and always
// clears its line so the JSON report is never interleaved with
// animation frames.
type Spinner struct {
	text     string
	out      io.Writer
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	finished chan struct{}
	stop     sync.Once
}

// newSpinnerWithContext creates a spinner tied to the scan's context, so
// a Ctrl-C that aborts probing also stops the animation.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	spinCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		text:     message,
		out:      os.Stderr,
		interval: 100 * time.Millisecond,
		ctx:      spinCtx,
		cancel:   cancel,
		finished: make(chan struct{}),
	}
}

// Start begins the animation. Stop must be called afterwards.
func (s *Spinner) Start() {
	go s.run()
}

func (s *Spinner) run() {
	defer close(s.finished)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for frame := 0; ; frame++ {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			glyph := spinnerFrames[frame%len(spinnerFrames)]
			fmt.Fprintf(s.out, "\r%s %s", styleIconSpinner.Render(glyph), StyleDim.Render(s.text))
		}
	}
}

// Stop halts the animation and clears the line. Safe to call more than
// once; later calls do nothing.
func (s *Spinner) Stop() {
	s.stop.Do(func() {
		s.cancel()
		<-s.finished
		fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", len(s.text)+4))
	})
}

// StopWithSuccess stops the spinner and prints a success line.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops the spinner and prints an error line.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}
