package security

import "testing"

func TestHashPasswordRequiresMinimumLength(t *testing.T) {
	if _, err := HashPassword("short"); err == nil {
		t.Fatalf("expected error for short password")
	}
}

func TestHashPasswordAndVerify(t *testing.T) {
	password := "admin123-rotated"
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if !VerifyPassword(password, hash) {
		t.Fatalf("expected password verification to succeed")
	}
	if VerifyPassword("wrong-password", hash) {
		t.Fatalf("expected wrong password verification to fail")
	}
}

func TestVerifyPasswordRejectsMalformedEncodings(t *testing.T) {
	for _, encoded := range []string{
		"",
		"v1$notanumber$c2FsdA$ZGlnZXN0",
		"v0$180000$c2FsdA$ZGlnZXN0",
		"v1$180000$c2FsdA",
	} {
		if VerifyPassword("whatever", encoded) {
			t.Fatalf("expected verification to fail for %q", encoded)
		}
	}
}

func TestFingerprintIsStable(t *testing.T) {
	a := Fingerprint("admin123")
	b := Fingerprint("admin123")
	if a != b {
		t.Fatalf("fingerprint not stable: %q vs %q", a, b)
	}
	if a == Fingerprint("admin124") {
		t.Fatalf("distinct passwords produced identical fingerprints")
	}
}
