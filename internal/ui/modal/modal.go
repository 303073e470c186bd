// Package modal implements the life cycle shared by every create/edit
// dialog: Closed → Opening → Open(Add|Edit) → Closed, with Submitting
// as a sub-state of Open. Views drive their rendering and key handling
// from this state instead of scattering visibility flags.
package modal

import "errors"

// Phase is the coarse dialog state.
type Phase int

const (
	Closed Phase = iota
	// Opening covers the fetch-or-locate step before an edit dialog
	// may show; a vanished target aborts back to Closed.
	Opening
	Open
)

// Mode distinguishes create from edit dialogs.
type Mode int

const (
	ModeAdd Mode = iota
	ModeEdit
)

// Transition errors. Views treat them as programming mistakes and
// surface them through the toast line rather than crashing.
var (
	ErrNotClosed     = errors.New("modal: dialog already open")
	ErrNotOpening    = errors.New("modal: no pending open")
	ErrNotOpen       = errors.New("modal: dialog not open")
	ErrSubmitPending = errors.New("modal: a submission is already in flight")
	ErrNotSubmitting = errors.New("modal: no submission in flight")
)

// State is the dialog state machine. The zero value is Closed.
type State struct {
	phase      Phase
	mode       Mode
	submitting bool
	targetID   string
}

// Phase returns the coarse state.
func (s *State) Phase() Phase { return s.phase }

// Mode returns Add or Edit; meaningful only while not Closed.
func (s *State) Mode() Mode { return s.mode }

// TargetID returns the entity under edit, empty in Add mode.
func (s *State) TargetID() string { return s.targetID }

// IsSubmitting reports an in-flight mutation.
func (s *State) IsSubmitting() bool { return s.submitting }

// CanSubmit reports whether the submit control is enabled: the dialog
// is open and no mutation is in flight. At most one mutation per open
// dialog instance.
func (s *State) CanSubmit() bool {
	return s.phase == Open && !s.submitting
}

// BeginOpen starts opening a dialog. Edit mode records the target to
// fetch-or-locate before the dialog may show.
func (s *State) BeginOpen(mode Mode, targetID string) error {
	if s.phase != Closed {
		return ErrNotClosed
	}
	s.phase = Opening
	s.mode = mode
	s.targetID = targetID
	s.submitting = false
	return nil
}

// CompleteOpen transitions Opening → Open once the target is in hand
// (or immediately for Add mode).
func (s *State) CompleteOpen() error {
	if s.phase != Opening {
		return ErrNotOpening
	}
	s.phase = Open
	return nil
}

// AbortOpen cancels a pending open: the edit target could not be
// found. The dialog returns to Closed without ever showing.
func (s *State) AbortOpen() {
	if s.phase == Opening {
		s.reset()
	}
}

// BeginSubmit marks a mutation in flight, disabling the submit
// control.
func (s *State) BeginSubmit() error {
	if s.phase != Open {
		return ErrNotOpen
	}
	if s.submitting {
		return ErrSubmitPending
	}
	s.submitting = true
	return nil
}

// SettleSubmit ends the in-flight mutation exactly once. Success
// closes the dialog; failure re-enables submit and keeps it open so
// the error can be shown inline.
func (s *State) SettleSubmit(success bool) error {
	if !s.submitting {
		return ErrNotSubmitting
	}
	s.submitting = false
	if success {
		s.reset()
	}
	return nil
}

// Close dismisses the dialog with no side effects.
func (s *State) Close() {
	s.reset()
}

func (s *State) reset() {
	s.phase = Closed
	s.mode = ModeAdd
	s.submitting = false
	s.targetID = ""
}
