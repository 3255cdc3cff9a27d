// The `store` package is the single content-store boundary: everything the
// operator edits in the backoffice loads and saves through ContentStore.
// Exactly one backend exists; swapping storage means swapping the
// implementation at deployment time, not stacking adapters.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"solmar/src-server/model"
)

// Everything the backoffice edits, loaded and saved as one unit.
type Content struct {
	Apartments []model.Apartment    `json:"apartments"`
	Entries    []model.ContentEntry `json:"entries"`
}

type ContentStore interface {
	Load(ctx context.Context) (*Content, error)
	Save(ctx context.Context, content *Content) error
}

type BunStore struct {
	db *bun.DB
}

var _ ContentStore = (*BunStore)(nil)

func NewBunStore(db *bun.DB) *BunStore {
	return &BunStore{db: db}
}

func (s *BunStore) Load(ctx context.Context) (*Content, error) {
	content := &Content{
		Apartments: make([]model.Apartment, 0),
		Entries:    make([]model.ContentEntry, 0),
	}

	if err := s.db.NewSelect().
		Model(&content.Apartments).
		Order("slug ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("(*BunStore).Load: can't load apartments: %w", err)
	}
	if err := s.db.NewSelect().
		Model(&content.Entries).
		Order("key ASC", "locale ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("(*BunStore).Load: can't load content entries: %w", err)
	}

	return content, nil
}

func (s *BunStore) Save(ctx context.Context, content *Content) error {
	if content == nil {
		return fmt.Errorf("(*BunStore).Save: content is nil")
	}

	if err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		for i := range content.Apartments {
			apartment := &content.Apartments[i]
			if apartment.ID == "" {
				apartment.ID = uuid.NewString()
			}
			if err := apartment.Upsert(ctx, tx); err != nil {
				return err
			}
		}
		for i := range content.Entries {
			entry := &content.Entries[i]
			if entry.ID == "" {
				entry.ID = uuid.NewString()
			}
			if err := entry.Upsert(ctx, tx); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("(*BunStore).Save: %w", err)
	}

	return nil
}
