package identity

import "testing"

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword() failed: %v", err)
	}

	if err := VerifyPassword("correct horse battery staple", hash); err != nil {
		t.Errorf("VerifyPassword() with correct password failed: %v", err)
	}

	if err := VerifyPassword("wrong password", hash); err == nil {
		t.Error("VerifyPassword() should fail for wrong password")
	}
}

func TestVerifyPasswordBadHash(t *testing.T) {
	if err := VerifyPassword("anything", "not-a-bcrypt-hash"); err == nil {
		t.Error("VerifyPassword() should fail for malformed hash")
	}
}

func TestDummyDigestNeverMatches(t *testing.T) {
	for _, password := range []string{"", "password", "dummy"} {
		if err := VerifyPassword(password, dummyDigest); err == nil {
			t.Errorf("dummy digest matched %q", password)
		}
	}
}
