package services_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/samukelok/harvviie-backend/internal/domain"
	"github.com/samukelok/harvviie-backend/internal/repos"
	"github.com/samukelok/harvviie-backend/internal/services"
)

func TestRegisterLoginLogout(t *testing.T) {
	db := memdb(t)
	auth := services.NewAuthService(repos.NewUserRepo(db), 720)

	u, token, err := auth.Register("Sipho", "sipho@example.com", "Str0ngpass")
	if err != nil {
		t.Fatal(err)
	}
	if u.Role != domain.RoleCustomer {
		t.Fatalf("new accounts must be customers, got %s", u.Role)
	}
	if token == "" {
		t.Fatal("no token issued")
	}

	got, err := auth.UserForToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != u.ID {
		t.Fatalf("token resolved to %s, want %s", got.ID, u.ID)
	}

	if _, _, err := auth.Register("Sipho", "sipho@example.com", "Str0ngpass"); !errors.Is(err, services.ErrEmailTaken) {
		t.Fatalf("want ErrEmailTaken, got %v", err)
	}

	if _, _, err := auth.Login("sipho@example.com", "wrongpass1A"); !errors.Is(err, services.ErrBadCreds) {
		t.Fatalf("want ErrBadCreds, got %v", err)
	}
	if _, _, err := auth.Login("nobody@example.com", "Str0ngpass"); !errors.Is(err, services.ErrBadCreds) {
		t.Fatalf("unknown email: want ErrBadCreds, got %v", err)
	}
	if _, tok2, err := auth.Login("sipho@example.com", "Str0ngpass"); err != nil || tok2 == "" {
		t.Fatalf("login failed: %v", err)
	}

	if err := auth.Logout(token); err != nil {
		t.Fatal(err)
	}
	if _, err := auth.UserForToken(token); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("revoked token should be not found, got %v", err)
	}
}

func TestSeededStaffCanLogin(t *testing.T) {
	db := memdb(t)
	auth := services.NewAuthService(repos.NewUserRepo(db), 720)

	u, _, err := auth.Login("admin@harvviie.test", "Passw0rd!")
	if err != nil {
		t.Fatal(err)
	}
	if !u.IsAdmin() || !u.IsStaff() {
		t.Fatalf("seeded admin has role %s", u.Role)
	}
}

func TestTokensStoredHashed(t *testing.T) {
	db := memdb(t)
	auth := services.NewAuthService(repos.NewUserRepo(db), 720)

	_, token, err := auth.Register("Sipho", "sipho@example.com", "Str0ngpass")
	if err != nil {
		t.Fatal(err)
	}
	var stored []string
	if err := db.Select(&stored, `SELECT token_hash FROM api_tokens`); err != nil {
		t.Fatal(err)
	}
	for _, h := range stored {
		if h == token || strings.Contains(h, token) {
			t.Fatal("token stored in plaintext")
		}
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	db := memdb(t)
	auth := services.NewAuthService(repos.NewUserRepo(db), 720)

	_, token, err := auth.Register("Sipho", "sipho@example.com", "Str0ngpass")
	if err != nil {
		t.Fatal(err)
	}
	db.MustExec(`UPDATE api_tokens SET created_at = datetime('now', '-1000 hours')`)

	if _, err := auth.UserForToken(token); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expired token should be not found, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	db := memdb(t)
	auth := services.NewAuthService(repos.NewUserRepo(db), 720)

	u, _, err := auth.Register("Sipho", "sipho@example.com", "Str0ngpass")
	if err != nil {
		t.Fatal(err)
	}
	updated, err := auth.UpdateProfile(u.ID, "Sipho M", "+27821234567", &domain.Address{City: "Cape Town"})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Name != "Sipho M" || updated.Phone != "+27821234567" {
		t.Fatalf("profile not updated: %+v", updated)
	}
	if !strings.Contains(updated.AddressJSON, "Cape Town") {
		t.Fatalf("address not stored: %q", updated.AddressJSON)
	}
}
