package staff

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/schoolclinic/cms/internal/platform/auth"
)

type mockStaffRepo struct {
	store map[string]*Account
}

func newMockStaffRepo() *mockStaffRepo {
	return &mockStaffRepo{store: map[string]*Account{}}
}

func (m *mockStaffRepo) Create(_ context.Context, a *Account) error {
	if _, ok := m.store[a.Username]; ok {
		return ErrDuplicateUsername
	}
	m.store[a.Username] = a
	return nil
}

func (m *mockStaffRepo) GetByUsername(_ context.Context, username string) (*Account, error) {
	a, ok := m.store[username]
	if !ok {
		return nil, ErrNotFound
	}
	return a, nil
}

func newTestService() (*Service, *mockStaffRepo) {
	repo := newMockStaffRepo()
	signer := auth.NewSigner([]byte("test-secret"), time.Hour)
	svc := NewService(repo, signer)
	svc.SetClock(func() time.Time {
		return time.Date(2024, 3, 7, 10, 0, 0, 0, time.UTC)
	})
	return svc, repo
}

func TestSignupHashesPassword(t *testing.T) {
	svc, repo := newTestService()
	a, err := svc.Signup(context.Background(), " nurse.joy ", "sekret", "sekret")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if a.Username != "nurse.joy" {
		t.Errorf("username = %q", a.Username)
	}
	if a.PasswordHash == "sekret" || !strings.HasPrefix(a.PasswordHash, "$2") {
		t.Errorf("password stored without hashing: %q", a.PasswordHash)
	}
	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte("sekret")) != nil {
		t.Error("stored hash does not match password")
	}
	if _, ok := repo.store["nurse.joy"]; !ok {
		t.Error("account not persisted")
	}
}

func TestSignupValidation(t *testing.T) {
	svc, _ := newTestService()
	cases := []struct {
		name                        string
		username, password, confirm string
	}{
		{"empty username", "", "a", "a"},
		{"blank username", "   ", "a", "a"},
		{"empty password", "nurse.joy", "", ""},
		{"mismatched confirmation", "nurse.joy", "a", "b"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), tc.username, tc.password, tc.confirm)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want validation error", err)
			}
		})
	}
}

func TestSignupDuplicateUsername(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.Signup(context.Background(), "nurse.joy", "a", "a"); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	_, err := svc.Signup(context.Background(), "nurse.joy", "b", "b")
	if !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("err = %v, want ErrDuplicateUsername", err)
	}
}

func TestLoginIssuesToken(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.Signup(context.Background(), "nurse.joy", "sekret", "sekret"); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	token, err := svc.Login(context.Background(), "nurse.joy", "sekret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}

	signer := auth.NewSigner([]byte("test-secret"), time.Hour)
	username, err := signer.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if username != "nurse.joy" {
		t.Fatalf("token subject = %q", username)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.Signup(context.Background(), "nurse.joy", "sekret", "sekret"); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	_, unknownErr := svc.Login(context.Background(), "no.such.user", "sekret")
	_, wrongPassErr := svc.Login(context.Background(), "nurse.joy", "wrong")

	if !errors.Is(unknownErr, ErrInvalidCredentials) || !errors.Is(wrongPassErr, ErrInvalidCredentials) {
		t.Fatalf("errs = %v / %v, want ErrInvalidCredentials for both", unknownErr, wrongPassErr)
	}
	if unknownErr.Error() != wrongPassErr.Error() {
		t.Fatal("login failures leak which credential was wrong")
	}
}
