package util

import (
	"strings"
	"testing"
)

// ============ password hashing ============

func TestHashPassword(t *testing.T) {
	password := "MyPassword123"

	hashed, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	salt, hash, ok := strings.Cut(hashed, ":")
	if !ok {
		t.Fatalf("digest %q should contain ':'", hashed)
	}
	if len(salt) != saltSize*2 {
		t.Errorf("salt length = %d, want %d hex chars", len(salt), saltSize*2)
	}
	if len(hash) != keySize*2 {
		t.Errorf("hash length = %d, want %d hex chars", len(hash), keySize*2)
	}
	if strings.Contains(hashed, password) {
		t.Error("digest must not contain the plaintext")
	}

	// empty password
	if _, err := HashPassword(""); err != ErrEmptyPassword {
		t.Errorf("HashPassword(\"\") error = %v, want ErrEmptyPassword", err)
	}

	// same password, different salt
	hashed2, _ := HashPassword(password)
	if hashed == hashed2 {
		t.Error("same password should produce different digests (random salt)")
	}
}

func TestCheckPassword(t *testing.T) {
	password := "TestPass456"
	hashed, _ := HashPassword(password)

	if !CheckPassword(password, hashed) {
		t.Error("correct password rejected")
	}
	if CheckPassword("WrongPass", hashed) {
		t.Error("wrong password accepted")
	}
	if CheckPassword("", hashed) {
		t.Error("empty password accepted")
	}
	if CheckPassword(password, "") {
		t.Error("empty digest accepted")
	}
}

func TestCheckPassword_MalformedDigest(t *testing.T) {
	hashed, _ := HashPassword("secret123")
	salt, hash, _ := strings.Cut(hashed, ":")

	cases := map[string]string{
		"no separator":  "invalid-format",
		"empty salt":    ":" + hash,
		"empty hash":    salt + ":",
		"non-hex salt":  "zz" + salt[2:] + ":" + hash,
		"non-hex hash":  salt + ":" + "zz" + hash[2:],
		"dollar format": salt + "$" + hash,
	}
	for name, digest := range cases {
		t.Run(name, func(t *testing.T) {
			if CheckPassword("secret123", digest) {
				t.Errorf("malformed digest %q should not match", digest)
			}
		})
	}
}

func TestCheckPassword_DistinctPasswords(t *testing.T) {
	passwords := []string{"password123", "password124", "Password123", "password123 ", "пароль123"}
	for i, p := range passwords {
		hashed, err := HashPassword(p)
		if err != nil {
			t.Fatalf("HashPassword(%q): %v", p, err)
		}
		for j, q := range passwords {
			if got := CheckPassword(q, hashed); got != (i == j) {
				t.Errorf("CheckPassword(%q, hash(%q)) = %v", q, p, got)
			}
		}
	}
}

// ============ AES-256-GCM ============

func TestEncryptDecryptAES(t *testing.T) {
	key := "test-encryption-key"
	plaintext := []byte("account details")

	ciphertext, err := EncryptAES(key, plaintext)
	if err != nil {
		t.Fatalf("EncryptAES failed: %v", err)
	}
	if string(ciphertext) == string(plaintext) {
		t.Error("ciphertext equals plaintext")
	}

	decrypted, err := DecryptAES(key, ciphertext)
	if err != nil {
		t.Fatalf("DecryptAES failed: %v", err)
	}
	if string(decrypted) != string(plaintext) {
		t.Errorf("decrypted = %q, want %q", decrypted, plaintext)
	}

	if _, err := DecryptAES("other-key", ciphertext); err == nil {
		t.Error("decrypting with the wrong key should fail")
	}
	if _, err := DecryptAES(key, []byte("short")); err == nil {
		t.Error("truncated ciphertext should fail")
	}
}

func TestEncryptField(t *testing.T) {
	enc, err := EncryptField("k", `{"a":1}`)
	if err != nil {
		t.Fatalf("EncryptField failed: %v", err)
	}
	if enc == `{"a":1}` {
		t.Error("value was not encrypted")
	}
	if got := DecryptField("k", enc); got != `{"a":1}` {
		t.Errorf("DecryptField = %q", got)
	}

	// no key: stored as is
	plain, _ := EncryptField("", "hello")
	if plain != "hello" {
		t.Errorf("EncryptField without key = %q, want hello", plain)
	}
	if got := DecryptField("k", "not base64!"); got != "not base64!" {
		t.Errorf("DecryptField on garbage = %q, want input back", got)
	}
}
