package download

import (
	"log/slog"
	"math"
	"time"
)

// Progress is a snapshot of one transfer. Total is negative when the server
// did not announce a length.
type Progress struct {
	Path        string
	Transferred int64
	Total       int64
	Elapsed     time.Duration
	Done        bool
}

// Percent returns the completed share in [0, 100], or -1 when Total is unknown.
func (p Progress) Percent() float64 {
	if p.Total <= 0 {
		return -1
	}
	return float64(p.Transferred) / float64(p.Total) * 100
}

// KBps is the mean transfer rate so far.
func (p Progress) KBps() float64 {
	secs := p.Elapsed.Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(p.Transferred) / secs / 1024
}

// LogProgress returns a reporter that writes each snapshot to logger.
func LogProgress(logger *slog.Logger) func(Progress) {
	return func(p Progress) {
		msg := "downloading"
		if p.Done {
			msg = "download complete"
		}

		attrs := []any{
			"path", p.Path,
			"elapsed", p.Elapsed.Round(time.Millisecond),
			"transferred", p.Transferred,
		}
		if pct := p.Percent(); pct >= 0 {
			attrs = append(attrs, "progress", math.Round(pct*10)/10, "total", p.Total)
		}
		attrs = append(attrs, "kbps", int64(p.KBps()))

		logger.Info(msg, attrs...)
	}
}

// progressWriter counts bytes and reports at most once per interval, plus
// once more when the announced total is reached.
type progressWriter struct {
	report   func(Progress)
	interval time.Duration
	snap     Progress
	start    time.Time
	last     time.Time
}

func newProgressWriter(path string, total int64, interval time.Duration, report func(Progress)) *progressWriter {
	now := time.Now()
	return &progressWriter{
		report:   report,
		interval: interval,
		snap:     Progress{Path: path, Total: total},
		start:    now,
		last:     now,
	}
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	pw.snap.Transferred += int64(len(p))

	now := time.Now()
	pw.snap.Elapsed = now.Sub(pw.start)

	switch {
	case pw.snap.Total >= 0 && pw.snap.Transferred == pw.snap.Total:
		pw.finish()
	case now.Sub(pw.last) >= pw.interval:
		pw.last = now
		pw.report(pw.snap)
	}

	return len(p), nil
}

// finish reports the final snapshot once.
func (pw *progressWriter) finish() {
	if pw.snap.Done {
		return
	}
	pw.snap.Elapsed = time.Since(pw.start)
	pw.snap.Done = true
	pw.report(pw.snap)
}
