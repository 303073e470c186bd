package confirm

import (
	"testing"

	"github.com/charmbracelet/huh"
)

func TestSyncFuncDeliversImmediately(t *testing.T) {
	var asked string
	c := SyncFunc(func(prompt string) bool {
		asked = prompt
		return true
	})

	delivered := false
	answer := false
	c.Confirm("Delete it?", func(confirmed bool) {
		delivered = true
		answer = confirmed
	})

	if !delivered {
		t.Fatalf("sync confirmer did not deliver")
	}
	if !answer {
		t.Fatalf("answer lost in delivery")
	}
	if asked != "Delete it?" {
		t.Fatalf("prompt not forwarded: %q", asked)
	}
}

func TestSyncFuncDeliversNo(t *testing.T) {
	c := SyncFunc(func(string) bool { return false })

	got := true
	c.Confirm("Sure?", func(confirmed bool) { got = confirmed })
	if got {
		t.Fatalf("negative answer lost")
	}
}

func TestAsyncFuncDefersDelivery(t *testing.T) {
	var pending Answer
	c := AsyncFunc(func(prompt string, deliver Answer) {
		// The host surface holds the callback until the user decides.
		pending = deliver
	})

	delivered := false
	c.Confirm("Delete it?", func(confirmed bool) { delivered = confirmed })

	if delivered {
		t.Fatalf("async confirmer delivered before the host answered")
	}
	pending(true)
	if !delivered {
		t.Fatalf("host answer was not delivered")
	}
}

func TestDialogDeliversFalseWhenDismissed(t *testing.T) {
	answered := false
	got := true
	d := NewDialog("Delete category \"Music\"?", "", func(confirmed bool) {
		answered = true
		got = confirmed
	})
	if d == nil {
		t.Fatalf("NewDialog returned nil")
	}

	// Simulate the host tearing the dialog down without an answer:
	// aborting the form must still deliver exactly once, and deliver
	// "no".
	d.form.State = huh.StateAborted
	done, _ := d.Update(nil)
	if !done {
		t.Fatalf("aborted dialog did not settle")
	}
	if !answered || got {
		t.Fatalf("dismissal should deliver false: answered=%v got=%v", answered, got)
	}
}
