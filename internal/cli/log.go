package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// Timestamps look like "14:32:01.45".
const logTimeFormat = "15:04:05.00"

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      logTimeFormat,
		Level:           level,
	})
}

// componentLogger tags every line with the subsystem that wrote it, so
// server and watcher output can be told apart in `serve -v`.
func componentLogger(l *log.Logger, name string) *log.Logger {
	return l.With("component", name)
}

// progress times one command and reports it once, with the elapsed time
// appended to the structured fields.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

func (p *progress) elapsed() time.Duration {
	return time.Since(p.start).Round(time.Millisecond)
}

// done logs "Rendered 12 of 40 employees (8ms)" plus any key/value pairs.
func (p *progress) done(msg string, keyvals ...any) {
	p.logger.Info(msg+" ("+p.elapsed().String()+")", keyvals...)
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
