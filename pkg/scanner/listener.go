package scanner

import "time"

// ScanListener observes a scan. All hooks are invoked synchronously from the
// scanner's call stack.
//
// Only one listener is attached at a time; use Multi to fan out to several
// sinks.
type ScanListener interface {
	// FileScanned fires for every path examined, before any skip decision.
	FileScanned(path string, stats Stats)
	// ScanComplete fires once per Flush with final counters and duration.
	ScanComplete(stats Stats, elapsed time.Duration)
	// Hardlinked fires once per successful live merge operation.
	Hardlinked(dst, src string)
	// DuplicateFound fires once per simulated merge in dry-run mode.
	DuplicateFound(dst, src string)
}

// NoopListener is the default listener.
type NoopListener struct{}

func (NoopListener) FileScanned(string, Stats)         {}
func (NoopListener) ScanComplete(Stats, time.Duration) {}
func (NoopListener) Hardlinked(string, string)         {}
func (NoopListener) DuplicateFound(string, string)     {}

// MultiListener forwards every event to each inner listener in order.
type MultiListener []ScanListener

// Multi combines several listeners into one.
func Multi(listeners ...ScanListener) MultiListener {
	return MultiListener(listeners)
}

func (m MultiListener) FileScanned(path string, stats Stats) {
	for _, l := range m {
		l.FileScanned(path, stats)
	}
}

func (m MultiListener) ScanComplete(stats Stats, elapsed time.Duration) {
	for _, l := range m {
		l.ScanComplete(stats, elapsed)
	}
}

func (m MultiListener) Hardlinked(dst, src string) {
	for _, l := range m {
		l.Hardlinked(dst, src)
	}
}

func (m MultiListener) DuplicateFound(dst, src string) {
	for _, l := range m {
		l.DuplicateFound(dst, src)
	}
}
