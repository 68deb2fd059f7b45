package common

import (
	"encoding/hex"
	"testing"
)

func TestMakeRandHexString_Length(t *testing.T) {
	t.Parallel()

	s, err := MakeRandHexString(32)
	if err != nil {
		t.Fatalf("MakeRandHexString error: %v", err)
	}
	if len(s) != 64 {
		t.Fatalf("length mismatch: got %d want 64", len(s))
	}
	if _, err := hex.DecodeString(s); err != nil {
		t.Fatalf("not valid hex: %v", err)
	}
}

func TestMakeRandHexString_Unique(t *testing.T) {
	t.Parallel()

	a, err := MakeRandHexString(32)
	if err != nil {
		t.Fatalf("MakeRandHexString error: %v", err)
	}
	b, err := MakeRandHexString(32)
	if err != nil {
		t.Fatalf("MakeRandHexString error: %v", err)
	}
	if a == b {
		t.Fatalf("two random strings are equal: %q", a)
	}
}
