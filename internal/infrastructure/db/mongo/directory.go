package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/skillbridge/session-gateway/internal/core/domain"
)

const accountsCollection = "accounts"

// Directory implements ports.Directory on a MongoDB collection.
type Directory struct {
	coll *mongo.Collection
}

func NewDirectory(db *mongo.Database) *Directory {
	return &Directory{coll: db.Collection(accountsCollection)}
}

type accountDoc struct {
	ID           string    `bson:"_id"`
	EmailKey     string    `bson:"email_key"`
	Email        string    `bson:"email"`
	Name         string    `bson:"name"`
	Role         string    `bson:"role"`
	PasswordHash string    `bson:"password_hash"`
	Avatar       string    `bson:"avatar,omitempty"`
	Bio          string    `bson:"bio,omitempty"`
	Skills       []string  `bson:"skills,omitempty"`
	Location     string    `bson:"location,omitempty"`
	Website      string    `bson:"website,omitempty"`
	JoinedAt     time.Time `bson:"joined_at"`
}

func toDoc(a *domain.Account) accountDoc {
	return accountDoc{
		ID:           a.ID,
		EmailKey:     emailKey(a.Email),
		Email:        a.Email,
		Name:         a.Name,
		Role:         string(a.Role),
		PasswordHash: a.PasswordHash,
		Avatar:       a.Avatar,
		Bio:          a.Bio,
		Skills:       a.Skills,
		Location:     a.Location,
		Website:      a.Website,
		JoinedAt:     a.JoinedAt.UTC(),
	}
}

func (d accountDoc) toAccount() *domain.Account {
	return &domain.Account{
		Identity: domain.Identity{
			ID:       d.ID,
			Role:     domain.Role(d.Role),
			Name:     d.Name,
			Email:    d.Email,
			Avatar:   d.Avatar,
			Bio:      d.Bio,
			Skills:   d.Skills,
			Location: d.Location,
			Website:  d.Website,
			JoinedAt: d.JoinedAt.UTC(),
		},
		PasswordHash: d.PasswordHash,
	}
}

func (r *Directory) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc accountDoc
	if err := r.coll.FindOne(ctx, bson.M{"email_key": emailKey(email)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return doc.toAccount(), nil
}

func (r *Directory) Create(ctx context.Context, account *domain.Account) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, toDoc(account)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (r *Directory) Delete(ctx context.Context, email string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.DeleteOne(ctx, bson.M{"email_key": emailKey(email)}); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}

// EnsureIndexes makes the normalized email unique.
func (r *Directory) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email_key", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_key_unique"),
	})
	if err != nil {
		return fmt.Errorf("ensure account indexes: %w", err)
	}
	return nil
}

// Seed inserts accounts that are not present yet. Existing documents are
// never overwritten.
func (r *Directory) Seed(ctx context.Context, accounts []domain.Account) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	for i := range accounts {
		doc := toDoc(&accounts[i])
		_, err := r.coll.UpdateOne(ctx,
			bson.M{"email_key": doc.EmailKey},
			bson.M{"$setOnInsert": doc},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("seed account %s: %w", doc.Email, err)
		}
	}
	return nil
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
