package switcher

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure so callers can react to it without parsing messages.
type Kind string

const (
	KindGameRunning      Kind = "GAME_RUNNING"
	KindDuplicateAccount Kind = "DUPLICATE_ACCOUNT"
	KindBackupMissing    Kind = "BACKUP_MISSING"
	KindNotFound         Kind = "NOT_FOUND"
	KindIOFailure        Kind = "IO_FAILURE"
	KindParseFailure     Kind = "PARSE_FAILURE"
)

// Error is the failure type returned by account operations.
type Error struct {
	Kind Kind
	Op   string // operation that failed, e.g. "capture"
	Path string // file or folder involved, if any
	Msg  string // human-readable description
	Err  error  // underlying cause, if any
}

// Sentinels for errors.Is. Only the Kind is compared.
var (
	ErrGameRunning      = &Error{Kind: KindGameRunning}
	ErrDuplicateAccount = &Error{Kind: KindDuplicateAccount}
	ErrBackupMissing    = &Error{Kind: KindBackupMissing}
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrIOFailure        = &Error{Kind: KindIOFailure}
	ErrParseFailure     = &Error{Kind: KindParseFailure}
)

// ErrAmbiguousSelector is returned when a selector matches more than one account.
var ErrAmbiguousSelector = errors.New("selector matches more than one account")

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	if e.Msg != "" {
		b.WriteString(e.Msg)
	} else {
		b.WriteString(strings.ToLower(strings.ReplaceAll(string(e.Kind), "_", " ")))
	}
	if e.Path != "" {
		fmt.Fprintf(&b, " (%s)", e.Path)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// IsKind reports whether any error in err's chain is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == k
	}
	return false
}

// NotFound builds a KindNotFound error.
func NotFound(op, path, msg string) *Error {
	return &Error{Kind: KindNotFound, Op: op, Path: path, Msg: msg}
}

// IOFailure builds a KindIOFailure error wrapping err.
// If err already carries a Kind it is returned unchanged.
func IOFailure(op, path string, err error) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: KindIOFailure, Op: op, Path: path, Msg: "i/o failure", Err: err}
}

// ParseFailure builds a KindParseFailure error for a malformed document.
func ParseFailure(path string, err error) *Error {
	return &Error{Kind: KindParseFailure, Op: "load index", Path: path, Msg: "malformed account index", Err: err}
}

func gameRunning(op, process string) *Error {
	return &Error{
		Kind: KindGameRunning,
		Op:   op,
		Msg:  fmt.Sprintf("the game is running (%s); exit it first so its credential files are not read or replaced mid-write", process),
	}
}

func duplicateAccount(op string, existing AccountRecord) *Error {
	return &Error{
		Kind: KindDuplicateAccount,
		Op:   op,
		Msg:  fmt.Sprintf("the current session is already saved as %q", existing.DisplayName),
	}
}

func backupMissing(op, storageKey string) *Error {
	return &Error{
		Kind: KindBackupMissing,
		Op:   op,
		Path: storageKey,
		Msg:  "backup folder is missing; the account entry is stale and can be deleted",
	}
}
