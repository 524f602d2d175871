package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger that timestamps each line as "HH:MM:SS.ms"
// (e.g., "14:32:01.45") and drops messages below level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs the completion of one report run with its elapsed time.
type progress struct {
	logger *log.Logger
	input  string
	start  time.Time
}

func newProgress(l *log.Logger, input string) *progress {
	return &progress{logger: l, input: input, start: time.Now()}
}

// done logs msg with the input and the elapsed time, rounded to the
// millisecond. Extra keyvals are appended as structured fields.
func (p *progress) done(msg string, keyvals ...any) {
	kv := append([]any{"input", p.input, "elapsed", time.Since(p.start).Round(time.Millisecond)}, keyvals...)
	p.logger.Info(msg, kv...)
}
