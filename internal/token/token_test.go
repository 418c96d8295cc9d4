package token

import (
	"testing"
	"time"

	"tasktracker/internal/model"
)

func TestIssueAndVerify_Success(t *testing.T) {
	t.Parallel()

	secret := "super-secret"
	id := model.Identity{UserID: "user-123", Name: "Ada"}

	st, err := Issue(secret, id, time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if !st.Exp.After(time.Now()) {
		t.Fatalf("expected future expiry, got %v", st.Exp)
	}

	got, err := Verify(st.Token, secret)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if got != id {
		t.Fatalf("identity mismatch: got %+v want %+v", got, id)
	}
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	st, err := Issue("secret", model.Identity{UserID: "u1", Name: "n"}, -time.Minute)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if _, err := Verify(st.Token, "secret"); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	st, err := Issue("right-secret", model.Identity{UserID: "u2", Name: "n"}, time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if _, err := Verify(st.Token, "wrong-secret"); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "garbage", "a.b.c", "eyJ.eyJ.sig"} {
		if _, err := Verify(raw, "secret"); err != ErrInvalidToken {
			t.Fatalf("Verify(%q): expected ErrInvalidToken, got %v", raw, err)
		}
	}
}
