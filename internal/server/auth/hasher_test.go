package auth

import "testing"

func TestHashPassword_VerifyRoundTrip(t *testing.T) {
	t.Parallel()

	digest, err := HashPassword("mysecretpassword")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if digest == "mysecretpassword" {
		t.Fatalf("digest equals plaintext")
	}
	if !VerifyPassword("mysecretpassword", digest) {
		t.Fatalf("correct password did not verify")
	}
	if VerifyPassword("wrongpassword", digest) {
		t.Fatalf("wrong password verified")
	}
}

func TestHashPassword_FreshSaltEachCall(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("mysecretpassword")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	h2, err := HashPassword("mysecretpassword")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("two hashes of the same input are identical")
	}
	if !VerifyPassword("mysecretpassword", h1) || !VerifyPassword("mysecretpassword", h2) {
		t.Fatalf("both digests should verify against the original password")
	}
}

func TestVerifyPassword_MalformedDigest(t *testing.T) {
	t.Parallel()

	if VerifyPassword("anything", "not-a-bcrypt-digest") {
		t.Fatalf("malformed digest verified")
	}
	if VerifyPassword("anything", "") {
		t.Fatalf("empty digest verified")
	}
}
