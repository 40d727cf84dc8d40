package status

import (
	"errors"
	"fmt"
	"testing"
)

func TestCodeOfNilIsOk(t *testing.T) {
	if got := CodeOf(nil); got != Ok {
		t.Fatalf("CodeOf(nil) = %v, want Ok", got)
	}
}

func TestCodeOfPlainErrorIsNok(t *testing.T) {
	if got := CodeOf(errors.New("boom")); got != Nok {
		t.Fatalf("CodeOf(plain error) = %v, want Nok", got)
	}
}

func TestCodeOfDirectStatusError(t *testing.T) {
	err := New("dict.Insert", InvalidParameters)
	if got := CodeOf(err); got != InvalidParameters {
		t.Fatalf("CodeOf = %v, want InvalidParameters", got)
	}
}

func TestCodeOfWrappedStatusError(t *testing.T) {
	inner := New("queue.DequeueNonblocking", WouldBlock)
	wrapped := fmt.Errorf("caller context: %w", inner)
	if got := CodeOf(wrapped); got != WouldBlock {
		t.Fatalf("CodeOf(wrapped) = %v, want WouldBlock", got)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap("addrspace.Load", OutOfMemory, cause)
	if !errors.Is(err, cause) {
		t.Fatal("Wrap must preserve the cause for errors.Is")
	}
	if err.Code != OutOfMemory {
		t.Fatalf("got code %v, want OutOfMemory", err.Code)
	}
}
