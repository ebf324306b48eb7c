package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/skillbridge/session-gateway/internal/core/domain"
	"github.com/skillbridge/session-gateway/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubDirectory struct {
	accounts  map[string]*domain.Account
	findErr   error
	deleteErr error
	created   []string
	deleted   []string
}

func newStubDirectory() *stubDirectory {
	return &stubDirectory{accounts: make(map[string]*domain.Account)}
}

func (d *stubDirectory) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	if d.findErr != nil {
		return nil, d.findErr
	}
	acc, ok := d.accounts[email]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	clone := *acc
	clone.Identity = acc.Identity.Clone()
	return &clone, nil
}

func (d *stubDirectory) Create(_ context.Context, acc *domain.Account) error {
	if _, ok := d.accounts[acc.Email]; ok {
		return domain.ErrDuplicateEmail
	}
	clone := *acc
	d.accounts[acc.Email] = &clone
	d.created = append(d.created, acc.Email)
	return nil
}

func (d *stubDirectory) Delete(_ context.Context, email string) error {
	if d.deleteErr != nil {
		return d.deleteErr
	}
	delete(d.accounts, email)
	d.deleted = append(d.deleted, email)
	return nil
}

type stubStorage struct {
	data    map[string][]byte
	getErr  error
	setErr  error
	delErr  error
	sets    int
	deletes int
}

func newStubStorage() *stubStorage {
	return &stubStorage{data: make(map[string][]byte)}
}

func (s *stubStorage) Get(_ context.Context, key string) ([]byte, bool, error) {
	if s.getErr != nil {
		return nil, false, s.getErr
	}
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *stubStorage) Set(_ context.Context, key string, value []byte) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.sets++
	s.data[key] = append([]byte(nil), value...)
	return nil
}

func (s *stubStorage) Delete(_ context.Context, key string) error {
	if s.delErr != nil {
		return s.delErr
	}
	s.deletes++
	delete(s.data, key)
	return nil
}

type stubScoper struct {
	scopes map[string]*stubStorage
}

func newStubScoper() *stubScoper {
	return &stubScoper{scopes: make(map[string]*stubStorage)}
}

func (s *stubScoper) Scope(sessionID string) ports.SessionStorage {
	st, ok := s.scopes[sessionID]
	if !ok {
		st = newStubStorage()
		s.scopes[sessionID] = st
	}
	return st
}

type stubNotifier struct {
	emails []string
	err    error
}

func (n *stubNotifier) NotifyPasswordReset(_ context.Context, email string) error {
	if n.err != nil {
		return n.err
	}
	n.emails = append(n.emails, email)
	return nil
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func hashPassword(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return string(h)
}

func seededDirectory(t *testing.T) *stubDirectory {
	t.Helper()
	d := newStubDirectory()
	for _, acc := range []domain.Account{
		{Identity: domain.Identity{
			ID: "1", Role: domain.RoleStudent, Name: "John Student", Email: "student@example.com",
			Bio: "Computer Science student", Skills: []string{"React", "JavaScript"},
			Location: "New York, USA", JoinedAt: time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC),
		}},
		{Identity: domain.Identity{
			ID: "2", Role: domain.RoleEmployer, Name: "Jane Employer", Email: "employer@example.com",
			JoinedAt: time.Date(2022, 11, 5, 0, 0, 0, 0, time.UTC),
		}},
		{Identity: domain.Identity{
			ID: "3", Role: domain.RoleAdmin, Name: "Admin User", Email: "admin@example.com",
			JoinedAt: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
		}},
	} {
		acc.PasswordHash = hashPassword(t, "password123")
		d.accounts[acc.Email] = &acc
	}
	return d
}

func newTestStore(t *testing.T, dir *stubDirectory, st *stubStorage, n *stubNotifier) *SessionStore {
	t.Helper()
	s := NewSessionStore(dir, st, n, 0, zerolog.Nop())
	s.hashCost = bcrypt.MinCost
	s.now = func() time.Time { return fixedNow }
	s.newID = func() string { return "new-id" }
	return s
}

// ctxCheckingStorage fails reads made with a cancelled context, like a
// network-backed store would.
type ctxCheckingStorage struct {
	*stubStorage
}

func (s *ctxCheckingStorage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	return s.stubStorage.Get(ctx, key)
}
