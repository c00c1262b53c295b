package switcher

import (
	"regexp"
	"testing"
)

func TestMatchFingerprint(t *testing.T) {
	records := []AccountRecord{
		{ID: "a", Fingerprint: "fp-a"},
		{ID: "b", Fingerprint: ""},
		{ID: "c", Fingerprint: "fp-c"},
	}

	tests := []struct {
		fp     string
		wantID string
	}{
		{fp: "fp-a", wantID: "a"},
		{fp: "fp-c", wantID: "c"},
		{fp: "fp-x", wantID: ""},
		{fp: "", wantID: ""},
	}
	for _, tt := range tests {
		got := MatchFingerprint(records, tt.fp)
		switch {
		case tt.wantID == "" && got != nil:
			t.Errorf("MatchFingerprint(%q) = %+v, want nil", tt.fp, got)
		case tt.wantID != "" && (got == nil || got.ID != tt.wantID):
			t.Errorf("MatchFingerprint(%q) = %+v, want ID %q", tt.fp, got, tt.wantID)
		}
	}
}

func TestGenerators(t *testing.T) {
	ulids := NewULIDGenerator()
	a, b := ulids.New(), ulids.New()
	if len(a) != 26 || a >= b {
		t.Errorf("ULIDs %q, %q are not 26 chars and increasing", a, b)
	}

	key := StorageKeyGenerator{}.New()
	if !regexp.MustCompile(`^[0-9a-f]{32}$`).MatchString(key) {
		t.Errorf("storage key %q is not 32 lowercase hex digits", key)
	}
	if key == (StorageKeyGenerator{}).New() {
		t.Error("two storage keys are equal")
	}
}
