package injector

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
)

func TestKindOf(t *testing.T) {
	base := newError(KindAccess, "open app.exe", 42, errors.New("access is denied"))
	tests := []struct {
		err  error
		want Kind
	}{
		{nil, KindUnknown},
		{errors.New("plain"), KindUnknown},
		{base, KindAccess},
		{errors.Wrap(base, "inject"), KindAccess},
		{fmt.Errorf("inject: %w", base), KindAccess},
	}
	for _, tt := range tests {
		if got := KindOf(tt.err); got != tt.want {
			t.Errorf("KindOf(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestErrorCause(t *testing.T) {
	err := newError(KindLookup, "find app.exe", 0, ErrNotFound)
	if errors.Cause(err) != ErrNotFound {
		t.Errorf("Cause = %v, want ErrNotFound", errors.Cause(err))
	}
	if err.Error() != "find app.exe: process not found" {
		t.Errorf("Error() = %q", err.Error())
	}
	noCause := newError(KindRemoteLoad, "load x.dll", 7, nil)
	if want := "load x.dll (pid 7): remote loader failed to load the library"; noCause.Error() != want {
		t.Errorf("Error() = %q, want %q", noCause.Error(), want)
	}
}

func TestKindString(t *testing.T) {
	if KindLookup.String() != "process is not running" {
		t.Errorf("KindLookup = %q", KindLookup.String())
	}
	if Kind(99).String() != "kind(99)" {
		t.Errorf("Kind(99) = %q", Kind(99).String())
	}
}
