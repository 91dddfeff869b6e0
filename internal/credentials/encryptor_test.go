package credentials

import (
	"errors"
	"strings"
	"testing"
)

func newTestEncryptor(t *testing.T, secret string) *Encryptor {
	t.Helper()
	e, err := NewEncryptor(secret)
	if err != nil {
		t.Fatalf("NewEncryptor failed: %v", err)
	}
	return e
}

func TestRoundTrip(t *testing.T) {
	e := newTestEncryptor(t, "test-secret")

	for _, plain := range []string{"alice@example.com", "p@ssw0rd!", "ćčžšđ", strings.Repeat("x", 1024)} {
		ct, err := e.Encrypt(plain)
		if err != nil {
			t.Fatalf("Encrypt failed: %v", err)
		}
		if ct == plain {
			t.Errorf("ciphertext equals plaintext for %q", plain)
		}
		got, err := e.Decrypt(ct)
		if err != nil {
			t.Fatalf("Decrypt failed: %v", err)
		}
		if got != plain {
			t.Errorf("round trip = %q, want %q", got, plain)
		}
	}
}

func TestEmptyStrings(t *testing.T) {
	e := newTestEncryptor(t, "test-secret")

	ct, err := e.Encrypt("")
	if err != nil || ct != "" {
		t.Errorf("Encrypt(\"\") = %q, %v; want empty, nil", ct, err)
	}

	// A nil AEAD would panic if the cipher were used.
	var bare Encryptor
	got, err := bare.Decrypt("")
	if err != nil || got != "" {
		t.Errorf("Decrypt(\"\") = %q, %v; want empty, nil", got, err)
	}
}

func TestNonceIsRandom(t *testing.T) {
	e := newTestEncryptor(t, "test-secret")
	a, _ := e.Encrypt("same")
	b, _ := e.Encrypt("same")
	if a == b {
		t.Error("expected different ciphertexts for repeated encryption")
	}
}

func TestDecryptErrors(t *testing.T) {
	e := newTestEncryptor(t, "test-secret")
	other := newTestEncryptor(t, "other-secret")

	ct, _ := e.Encrypt("secret")

	if _, err := other.Decrypt(ct); !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("decrypt with wrong key: got %v, want ErrDecryptionFailed", err)
	}
	if _, err := e.Decrypt("not base64!"); !errors.Is(err, ErrInvalidCiphertext) {
		t.Errorf("decrypt garbage: got %v, want ErrInvalidCiphertext", err)
	}
	if _, err := e.Decrypt("c2hvcnQ="); !errors.Is(err, ErrInvalidCiphertext) {
		t.Errorf("decrypt short input: got %v, want ErrInvalidCiphertext", err)
	}
}

func TestEmptySecret(t *testing.T) {
	if _, err := NewEncryptor(""); !errors.Is(err, ErrEmptySecret) {
		t.Errorf("got %v, want ErrEmptySecret", err)
	}
}
