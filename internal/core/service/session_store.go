package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/skillbridge/session-gateway/internal/core/domain"
	"github.com/skillbridge/session-gateway/internal/core/ports"
)

// SessionKey is the storage key the session record lives under.
const SessionKey = "skillbridge_user"

// SessionStore is the single authority for who is logged in on one client.
//
// Operations are serialized; the loading flag is raised when one starts and
// lowered when it settles, on success and failure alike.
type SessionStore struct {
	directory ports.Directory
	storage   ports.SessionStorage
	notifier  ports.ResetNotifier
	latency   time.Duration
	log       zerolog.Logger

	sleep    func(time.Duration)
	now      func() time.Time
	newID    func() string
	hashCost int

	initDone atomic.Bool
	opMu     sync.Mutex

	mu       sync.RWMutex
	state    domain.SessionState
	identity *domain.Identity
	loading  bool
	returnTo string
}

// NewSessionStore returns a store in the Initializing state. Call Init before
// relying on Snapshot; operations call it implicitly.
func NewSessionStore(
	directory ports.Directory,
	storage ports.SessionStorage,
	notifier ports.ResetNotifier,
	latency time.Duration,
	log zerolog.Logger,
) *SessionStore {
	return &SessionStore{
		directory: directory,
		storage:   storage,
		notifier:  notifier,
		latency:   latency,
		log:       log,
		sleep:     time.Sleep,
		now:       time.Now,
		newID:     uuid.NewString,
		hashCost:  bcrypt.DefaultCost,
		state:     domain.StateInitializing,
		loading:   true,
	}
}

// Init recovers the persisted session. Once a read has succeeded later calls
// do nothing; after a read error the store reports Anonymous and the next
// call reads again.
func (s *SessionStore) Init(ctx context.Context) {
	if s.initDone.Load() {
		return
	}
	s.opMu.Lock()
	defer s.opMu.Unlock()
	if s.initDone.Load() {
		return
	}

	id, ok := s.restore(context.WithoutCancel(ctx))

	s.mu.Lock()
	if id != nil {
		s.state = domain.StateAuthenticated
		s.identity = id
	} else {
		s.state = domain.StateAnonymous
	}
	s.loading = false
	s.mu.Unlock()

	if ok {
		s.initDone.Store(true)
	}
}

// restore reads the persisted record. ok is false only when storage could
// not be read.
func (s *SessionStore) restore(ctx context.Context) (id *domain.Identity, ok bool) {
	raw, found, err := s.storage.Get(ctx, SessionKey)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to read persisted session")
		return nil, false
	}
	if !found {
		return nil, true
	}

	decoded, err := decodeIdentity(raw)
	if err != nil {
		s.log.Warn().Err(err).Msg("discarding corrupt persisted session")
		if delErr := s.storage.Delete(ctx, SessionKey); delErr != nil {
			s.log.Warn().Err(delErr).Msg("failed to remove corrupt persisted session")
		}
		return nil, true
	}
	return &decoded, true
}

// Snapshot returns a copy of the current state.
func (s *SessionStore) Snapshot() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := domain.Session{State: s.state, Loading: s.loading}
	if s.identity != nil {
		id := s.identity.Clone()
		snap.Identity = &id
	}
	return snap
}

// Login authenticates against the directory and persists the resulting identity.
// A failed attempt leaves any existing session in place.
func (s *SessionStore) Login(ctx context.Context, email, password string) (domain.Identity, error) {
	s.Init(ctx)
	done := s.begin()
	defer done()

	s.simulateLatency()

	acc, err := s.directory.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return domain.Identity{}, domain.ErrInvalidCredentials
		}
		return domain.Identity{}, fmt.Errorf("login: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)) != nil {
		return domain.Identity{}, domain.ErrInvalidCredentials
	}

	id := acc.Identity.Clone()
	if err := s.commit(ctx, id); err != nil {
		return domain.Identity{}, fmt.Errorf("login: %w", err)
	}

	s.log.Info().Str("user_id", id.ID).Str("role", string(id.Role)).Msg("user logged in")
	return id.Clone(), nil
}

// Signup registers a new account and logs it in. Password policy is the
// caller's concern.
func (s *SessionStore) Signup(ctx context.Context, name, email, password string, role domain.Role) (domain.Identity, error) {
	s.Init(ctx)
	done := s.begin()
	defer done()

	s.simulateLatency()

	if !role.Valid() {
		return domain.Identity{}, domain.ErrInvalidRole
	}

	_, err := s.directory.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return domain.Identity{}, domain.ErrDuplicateEmail
	case !errors.Is(err, domain.ErrAccountNotFound):
		return domain.Identity{}, fmt.Errorf("signup: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("signup: hash password: %w", err)
	}

	id := domain.Identity{
		ID:       s.newID(),
		Role:     role,
		Name:     name,
		Email:    email,
		JoinedAt: s.now().UTC(),
	}
	if err := s.directory.Create(ctx, &domain.Account{Identity: id, PasswordHash: string(hash)}); err != nil {
		return domain.Identity{}, fmt.Errorf("signup: %w", err)
	}
	if err := s.commit(ctx, id); err != nil {
		if delErr := s.directory.Delete(context.WithoutCancel(ctx), id.Email); delErr != nil {
			s.log.Error().Err(delErr).Str("email", id.Email).Msg("failed to roll back signup")
		}
		return domain.Identity{}, fmt.Errorf("signup: %w", err)
	}

	s.log.Info().Str("user_id", id.ID).Str("role", string(id.Role)).Msg("user signed up")
	return id.Clone(), nil
}

// Logout clears the persisted record and the in-memory identity together.
// It is a no-op for an anonymous session. If the record cannot be removed
// the session is left as it was.
func (s *SessionStore) Logout(ctx context.Context) error {
	s.Init(ctx)
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != domain.StateAuthenticated {
		return nil
	}
	if err := s.storage.Delete(ctx, SessionKey); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	userID := s.identity.ID
	s.state = domain.StateAnonymous
	s.identity = nil

	s.log.Info().Str("user_id", userID).Msg("user logged out")
	return nil
}

// ForgotPassword hands the email to the reset notifier when an account exists.
func (s *SessionStore) ForgotPassword(ctx context.Context, email string) error {
	s.Init(ctx)
	done := s.begin()
	defer done()

	s.simulateLatency()

	if _, err := s.directory.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return domain.ErrUnknownEmail
		}
		return fmt.Errorf("forgot password: %w", err)
	}
	if err := s.notifier.NotifyPasswordReset(ctx, email); err != nil {
		return fmt.Errorf("forgot password: %w", err)
	}
	return nil
}

// UpdateProfile merges patch over the current identity and persists the result.
func (s *SessionStore) UpdateProfile(ctx context.Context, patch domain.ProfilePatch) (domain.Identity, error) {
	s.Init(ctx)
	done := s.begin()
	defer done()

	current := s.current()
	if current == nil {
		return domain.Identity{}, domain.ErrNotAuthenticated
	}

	s.simulateLatency()

	merged := patch.Apply(*current)
	if err := s.commit(ctx, merged); err != nil {
		return domain.Identity{}, fmt.Errorf("update profile: %w", err)
	}

	s.log.Info().Str("user_id", merged.ID).Msg("profile updated")
	return merged.Clone(), nil
}

// RememberReturnTo records where the client was going before being sent to
// login. Non-local locations are ignored.
func (s *SessionStore) RememberReturnTo(location string) {
	if !domain.IsLocalPath(location) {
		return
	}
	s.mu.Lock()
	s.returnTo = location
	s.mu.Unlock()
}

// TakeReturnTo returns the remembered location exactly once.
func (s *SessionStore) TakeReturnTo() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loc := s.returnTo
	s.returnTo = ""
	return loc, loc != ""
}

// begin marks an operation as in flight and returns the matching settle func.
func (s *SessionStore) begin() func() {
	s.opMu.Lock()
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		s.loading = s.state == domain.StateInitializing
		s.mu.Unlock()
		s.opMu.Unlock()
	}
}

// busy reports whether an operation is in flight.
func (s *SessionStore) busy() bool {
	if !s.opMu.TryLock() {
		return true
	}
	s.opMu.Unlock()
	return false
}

func (s *SessionStore) current() *domain.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return nil
	}
	id := s.identity.Clone()
	return &id
}

// commit persists id and then makes it the current identity.
func (s *SessionStore) commit(ctx context.Context, id domain.Identity) error {
	raw, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.storage.Set(ctx, SessionKey, raw); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	s.mu.Lock()
	s.state = domain.StateAuthenticated
	s.identity = &id
	s.mu.Unlock()
	return nil
}

func (s *SessionStore) simulateLatency() {
	if s.latency > 0 {
		s.sleep(s.latency)
	}
}

func decodeIdentity(raw []byte) (domain.Identity, error) {
	var id domain.Identity
	if err := json.Unmarshal(raw, &id); err != nil {
		return domain.Identity{}, fmt.Errorf("decode session: %w", err)
	}
	if id.ID == "" {
		return domain.Identity{}, errors.New("decode session: missing id")
	}
	if !id.Role.Valid() {
		return domain.Identity{}, fmt.Errorf("decode session: %w %q", domain.ErrInvalidRole, id.Role)
	}
	return id, nil
}
