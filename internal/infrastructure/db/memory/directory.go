// Package memory provides in-process adapters for the directory and session
// storage ports.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/skillbridge/session-gateway/internal/core/domain"
)

// Directory is a mutex-guarded account list keyed by normalized email.
type Directory struct {
	mu       sync.RWMutex
	accounts map[string]domain.Account
}

// NewDirectory returns a directory holding seed.
func NewDirectory(seed []domain.Account) *Directory {
	d := &Directory{accounts: make(map[string]domain.Account, len(seed))}
	for _, a := range seed {
		d.accounts[emailKey(a.Email)] = cloneAccount(a)
	}
	return d
}

func (d *Directory) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	a, ok := d.accounts[emailKey(email)]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	out := cloneAccount(a)
	return &out, nil
}

func (d *Directory) Create(_ context.Context, account *domain.Account) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := emailKey(account.Email)
	if _, exists := d.accounts[key]; exists {
		return domain.ErrDuplicateEmail
	}
	d.accounts[key] = cloneAccount(*account)
	return nil
}

func (d *Directory) Delete(_ context.Context, email string) error {
	d.mu.Lock()
	delete(d.accounts, emailKey(email))
	d.mu.Unlock()
	return nil
}

// Len returns the number of accounts.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.accounts)
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func cloneAccount(a domain.Account) domain.Account {
	a.Identity = a.Identity.Clone()
	return a
}
