// Package seed holds the fixed demo accounts every directory backend starts with.
package seed

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/skillbridge/session-gateway/internal/core/domain"
)

// Account is a demo account with its plain-text password.
type Account struct {
	domain.Identity
	Password string
}

// Accounts returns the demo student, employer and admin.
func Accounts() []Account {
	return []Account{
		{
			Identity: domain.Identity{
				ID:       "1",
				Name:     "John Student",
				Email:    "student@example.com",
				Role:     domain.RoleStudent,
				Avatar:   "https://randomuser.me/api/portraits/men/1.jpg",
				Bio:      "Computer Science student with a passion for web development",
				Skills:   []string{"React", "JavaScript", "Node.js", "UI/UX Design"},
				Location: "New York, USA",
				Website:  "https://johnstudent.com",
				JoinedAt: time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC),
			},
			Password: "password123",
		},
		{
			Identity: domain.Identity{
				ID:       "2",
				Name:     "Jane Employer",
				Email:    "employer@example.com",
				Role:     domain.RoleEmployer,
				Avatar:   "https://randomuser.me/api/portraits/women/1.jpg",
				Bio:      "Tech startup founder looking for talented students",
				Location: "San Francisco, USA",
				Website:  "https://techstartup.com",
				JoinedAt: time.Date(2022, 11, 5, 0, 0, 0, 0, time.UTC),
			},
			Password: "password123",
		},
		{
			Identity: domain.Identity{
				ID:       "3",
				Name:     "Admin User",
				Email:    "admin@example.com",
				Role:     domain.RoleAdmin,
				Avatar:   "https://randomuser.me/api/portraits/men/10.jpg",
				JoinedAt: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
			},
			Password: "password123",
		},
	}
}

// DirectoryAccounts hashes the demo passwords with the given bcrypt cost.
func DirectoryAccounts(cost int) ([]domain.Account, error) {
	src := Accounts()
	out := make([]domain.Account, 0, len(src))
	for _, a := range src {
		hash, err := bcrypt.GenerateFromPassword([]byte(a.Password), cost)
		if err != nil {
			return nil, fmt.Errorf("seed %s: %w", a.Email, err)
		}
		out = append(out, domain.Account{Identity: a.Identity.Clone(), PasswordHash: string(hash)})
	}
	return out, nil
}
