package switcher

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
)

func TestError_Is(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", backupMissing("switch", "abc"))

	if !errors.Is(err, ErrBackupMissing) {
		t.Error("errors.Is(err, ErrBackupMissing) = false")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("errors.Is(err, ErrNotFound) = true for a different kind")
	}
	if !IsKind(err, KindBackupMissing) {
		t.Error("IsKind(err, KindBackupMissing) = false")
	}
	if IsKind(errors.New("plain"), KindIOFailure) {
		t.Error("IsKind() = true for a plain error")
	}
}

func TestError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "kind only",
			err:  &Error{Kind: KindNotFound},
			want: "not found",
		},
		{
			name: "op msg path",
			err:  NotFound("resolve", "/data", "no sdk directory"),
			want: "resolve: no sdk directory (/data)",
		},
		{
			name: "with cause",
			err:  ParseFailure("accounts.json", io.ErrUnexpectedEOF),
			want: "load index: malformed account index (accounts.json): unexpected EOF",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIOFailure(t *testing.T) {
	cause := errors.New("disk full")
	err := IOFailure("capture", "/tmp/x", cause)

	if !IsKind(err, KindIOFailure) {
		t.Errorf("IOFailure() kind mismatch: %v", err)
	}
	if !errors.Is(err, cause) {
		t.Error("IOFailure() does not unwrap to its cause")
	}

	kinded := gameRunning("switch", DefaultProcessName)
	if got := IOFailure("switch", "", kinded); got != error(kinded) {
		t.Errorf("IOFailure() rewrapped an error that already has a kind: %v", got)
	}
}

func TestDuplicateAccountNamesExisting(t *testing.T) {
	err := duplicateAccount("capture", AccountRecord{DisplayName: "Main"})
	if !strings.Contains(err.Error(), `"Main"`) {
		t.Errorf("Error() = %q, want it to name the existing account", err.Error())
	}
}
