package crypto

import "testing"

func TestHashDeterministic(t *testing.T) {
	first, err := Hash("secret123", "key")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}
	second, err := Hash("secret123", "key")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}
	if first != second {
		t.Errorf("Hash() not deterministic: %q vs %q", first, second)
	}
	if first == "secret123" {
		t.Error("Hash() returned the plaintext password")
	}
}

func TestHashDependsOnSecret(t *testing.T) {
	a, err := Hash("secret123", "key-a")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}
	b, err := Hash("secret123", "key-b")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}
	if a == b {
		t.Error("Hash() ignored the secret")
	}
}

func TestHashMinLengthExclusive(t *testing.T) {
	// Exactly six characters is too short; seven is the minimum.
	if _, err := Hash("sixsix", "key"); err != ErrPasswordTooShort {
		t.Errorf("Hash(6 chars) error = %v, want ErrPasswordTooShort", err)
	}
	if _, err := Hash("seven77", "key"); err != nil {
		t.Errorf("Hash(7 chars) unexpected error: %v", err)
	}
}

func TestVerifyPassword(t *testing.T) {
	digest, err := Hash("secret123", "key")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	if !VerifyPassword("secret123", "key", digest) {
		t.Error("VerifyPassword() returned false for correct password")
	}
	if VerifyPassword("secret124", "key", digest) {
		t.Error("VerifyPassword() returned true for wrong password")
	}
	if VerifyPassword("secret123", "other", digest) {
		t.Error("VerifyPassword() returned true for wrong secret")
	}
	if VerifyPassword("short", "key", digest) {
		t.Error("VerifyPassword() returned true for unhashable password")
	}
}
