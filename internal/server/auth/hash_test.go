package auth

import "testing"

func TestHashRefreshSecret_Deterministic(t *testing.T) {
	t.Parallel()

	a := HashRefreshSecret("secret-1")
	b := HashRefreshSecret("secret-1")
	if a != b {
		t.Fatalf("same secret produced different digests: %q vs %q", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("unexpected digest length: %d", len(a))
	}
}

func TestHashRefreshSecret_DistinctInputs(t *testing.T) {
	t.Parallel()

	if HashRefreshSecret("secret-1") == HashRefreshSecret("secret-2") {
		t.Fatalf("different secrets produced the same digest")
	}
}
