package modal

import (
	"errors"
	"testing"
)

func TestZeroValueIsClosed(t *testing.T) {
	var s State
	if s.Phase() != Closed {
		t.Fatalf("zero value phase = %v, want Closed", s.Phase())
	}
	if s.CanSubmit() {
		t.Fatalf("closed dialog should not accept submits")
	}
}

func TestAddFlow(t *testing.T) {
	var s State

	if err := s.BeginOpen(ModeAdd, ""); err != nil {
		t.Fatalf("BeginOpen: %v", err)
	}
	if s.Phase() != Opening {
		t.Fatalf("phase = %v, want Opening", s.Phase())
	}
	if err := s.CompleteOpen(); err != nil {
		t.Fatalf("CompleteOpen: %v", err)
	}
	if s.Phase() != Open || s.Mode() != ModeAdd {
		t.Fatalf("unexpected state after open: phase=%v mode=%v", s.Phase(), s.Mode())
	}
	if !s.CanSubmit() {
		t.Fatalf("open dialog should accept a submit")
	}
}

func TestEditFlowCarriesTarget(t *testing.T) {
	var s State
	if err := s.BeginOpen(ModeEdit, "entity-7"); err != nil {
		t.Fatalf("BeginOpen: %v", err)
	}
	if s.TargetID() != "entity-7" {
		t.Fatalf("TargetID = %q", s.TargetID())
	}
	if err := s.CompleteOpen(); err != nil {
		t.Fatalf("CompleteOpen: %v", err)
	}
	if s.Mode() != ModeEdit || s.TargetID() != "entity-7" {
		t.Fatalf("edit state lost: mode=%v target=%q", s.Mode(), s.TargetID())
	}
}

func TestAbortOpenReturnsToClosed(t *testing.T) {
	var s State
	_ = s.BeginOpen(ModeEdit, "vanished")
	s.AbortOpen()

	if s.Phase() != Closed {
		t.Fatalf("phase after abort = %v, want Closed", s.Phase())
	}
	if s.TargetID() != "" {
		t.Fatalf("target survived abort: %q", s.TargetID())
	}
	// The dialog must be reusable afterwards.
	if err := s.BeginOpen(ModeAdd, ""); err != nil {
		t.Fatalf("reopen after abort: %v", err)
	}
}

func TestDoubleOpenRejected(t *testing.T) {
	var s State
	_ = s.BeginOpen(ModeAdd, "")
	if err := s.BeginOpen(ModeAdd, ""); !errors.Is(err, ErrNotClosed) {
		t.Fatalf("second BeginOpen err = %v, want ErrNotClosed", err)
	}
	_ = s.CompleteOpen()
	if err := s.BeginOpen(ModeEdit, "x"); !errors.Is(err, ErrNotClosed) {
		t.Fatalf("BeginOpen while open err = %v, want ErrNotClosed", err)
	}
}

func TestSubmitDisabledWhileInFlight(t *testing.T) {
	var s State
	_ = s.BeginOpen(ModeAdd, "")
	_ = s.CompleteOpen()

	if err := s.BeginSubmit(); err != nil {
		t.Fatalf("BeginSubmit: %v", err)
	}
	if s.CanSubmit() {
		t.Fatalf("submit control should be disabled in flight")
	}
	if err := s.BeginSubmit(); !errors.Is(err, ErrSubmitPending) {
		t.Fatalf("second BeginSubmit err = %v, want ErrSubmitPending", err)
	}
}

func TestSettleFailureReopensSubmit(t *testing.T) {
	var s State
	_ = s.BeginOpen(ModeEdit, "entity-3")
	_ = s.CompleteOpen()
	_ = s.BeginSubmit()

	if err := s.SettleSubmit(false); err != nil {
		t.Fatalf("SettleSubmit(false): %v", err)
	}
	// Failure keeps the dialog open with its target so the user can
	// correct and retry.
	if s.Phase() != Open || s.TargetID() != "entity-3" {
		t.Fatalf("failed submit should keep the dialog open: phase=%v target=%q", s.Phase(), s.TargetID())
	}
	if !s.CanSubmit() {
		t.Fatalf("submit control not re-enabled after failure")
	}
}

func TestSettleSuccessClosesDialog(t *testing.T) {
	var s State
	_ = s.BeginOpen(ModeAdd, "")
	_ = s.CompleteOpen()
	_ = s.BeginSubmit()

	if err := s.SettleSubmit(true); err != nil {
		t.Fatalf("SettleSubmit(true): %v", err)
	}
	if s.Phase() != Closed {
		t.Fatalf("phase after success = %v, want Closed", s.Phase())
	}
}

func TestSettleIsExactlyOnce(t *testing.T) {
	var s State
	_ = s.BeginOpen(ModeAdd, "")
	_ = s.CompleteOpen()
	_ = s.BeginSubmit()
	_ = s.SettleSubmit(false)

	if err := s.SettleSubmit(false); !errors.Is(err, ErrNotSubmitting) {
		t.Fatalf("second settle err = %v, want ErrNotSubmitting", err)
	}
}

func TestCloseHasNoSideEffects(t *testing.T) {
	var s State
	_ = s.BeginOpen(ModeEdit, "entity-9")
	_ = s.CompleteOpen()
	s.Close()

	if s.Phase() != Closed || s.TargetID() != "" {
		t.Fatalf("close did not reset: phase=%v target=%q", s.Phase(), s.TargetID())
	}
}

func TestCompleteOpenRequiresPendingOpen(t *testing.T) {
	var s State
	if err := s.CompleteOpen(); !errors.Is(err, ErrNotOpening) {
		t.Fatalf("CompleteOpen on closed err = %v, want ErrNotOpening", err)
	}
}

func TestBeginSubmitRequiresOpen(t *testing.T) {
	var s State
	if err := s.BeginSubmit(); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("BeginSubmit on closed err = %v, want ErrNotOpen", err)
	}
	_ = s.BeginOpen(ModeAdd, "")
	if err := s.BeginSubmit(); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("BeginSubmit while opening err = %v, want ErrNotOpen", err)
	}
}
