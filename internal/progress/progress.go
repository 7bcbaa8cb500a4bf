// Package progress decouples long-running operations from whatever the
// host uses to display them. A sink receives an indeterminate start
// signal, periodic ticks while the operation is in flight and a done
// signal; headless callers plug in the Void sink.
package progress

import "github.com/rs/zerolog/log"

// Sink accepts progress signals for one operation at a time.
type Sink interface {
	// Start signals the beginning of an indeterminate operation.
	Start(label string)
	// Tick is pumped periodically while the operation runs, keeping the
	// host's indicator responsive.
	Tick()
	// Done signals completion, successful or not.
	Done()
}

// Void is the no-op sink for headless operation.
type Void struct{}

// NewVoid creates a sink that ignores all signals.
func NewVoid() *Void {
	return &Void{}
}

func (v *Void) Start(string) {}

func (v *Void) Tick() {}

func (v *Void) Done() {}

// Log is a sink reporting progress through the package logger.
type Log struct {
	label string
}

// NewLog creates a logging sink.
func NewLog() *Log {
	return &Log{}
}

func (l *Log) Start(label string) {
	l.label = label
	log.Info().Str("operation", label).Msg("started")
}

func (l *Log) Tick() {
	log.Debug().Str("operation", l.label).Msg("in progress")
}

func (l *Log) Done() {
	log.Info().Str("operation", l.label).Msg("finished")
}
