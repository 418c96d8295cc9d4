package utils

import (
	"testing"

	"tasktracker/internal/model"
)

func TestCheckOwnership(t *testing.T) {
	t.Parallel()

	owner := model.Identity{UserID: "u-1", Name: "Ada"}
	if err := CheckOwnership(owner, "u-1"); err != nil {
		t.Fatalf("owner rejected: %v", err)
	}
	if err := CheckOwnership(owner, "u-2"); err != ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
