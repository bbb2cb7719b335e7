package notification

import "time"

type Action int

const (
	ActionHardlink Action = iota + 1
	ActionDuplicate
)

type Sender interface {
	CanSend() bool
	Send(title string, description string, runTime time.Duration, fields []Field, dryRun bool) error
	BuildField(action Action, options BuildOptions) Field
	Name() string
}

type Field struct {
	Name  string
	Value string
}

type BuildOptions struct {
	// Dupe is the path that was (or would be) replaced with a hardlink.
	Dupe string
	// Source is the anchor path the duplicate now links to.
	Source string
	// Size of the file; one merged duplicate reclaims this much.
	Size int64
}
