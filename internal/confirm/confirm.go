// Package confirm abstracts the yes/no confirmation step required
// before destructive operations. Two variants exist: a synchronous
// prompt that answers immediately, and an asynchronous host surface
// (the in-terminal dialog) that delivers its answer via callback.
// Callers treat both uniformly as "eventually yields a boolean".
package confirm

// Answer receives the user's choice exactly once.
type Answer func(confirmed bool)

// Confirmer eventually yields a boolean for a yes/no question.
type Confirmer interface {
	Confirm(prompt string, deliver Answer)
}

// SyncFunc adapts a blocking yes/no prompt into a Confirmer.
type SyncFunc func(prompt string) bool

// Confirm answers immediately from the wrapped prompt.
func (f SyncFunc) Confirm(prompt string, deliver Answer) {
	deliver(f(prompt))
}

// AsyncFunc adapts a host surface that calls back later.
type AsyncFunc func(prompt string, deliver Answer)

// Confirm forwards to the host surface.
func (f AsyncFunc) Confirm(prompt string, deliver Answer) {
	f(prompt, deliver)
}
