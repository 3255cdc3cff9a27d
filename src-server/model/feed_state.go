package model

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// Bookkeeping for one apartment's calendar feed: when it last fetched, what
// the body hashed to, and the last failure if the most recent attempt broke.
// LastError being non-empty while FetchedAtUnix is set means the availability
// data is stale but still served (stale-while-revalidate).
type FeedState struct {
	bun.BaseModel `bun:"table:feed_states"`

	ApartmentID   string `bun:"apartment_id,pk"` // required
	URL           string `bun:"url,notnull"`     // required
	Hash          string `bun:"hash"`
	FetchedAtUnix int64  `bun:"fetched_at"`
	LastError     string `bun:"last_error"`
}

func (f *FeedState) Upsert(ctx context.Context, db bun.IDB) error {
	if db == nil {
		return fmt.Errorf("(*FeedState).Upsert: db is nil")
	}

	switch {
	case f.ApartmentID == "":
		return fmt.Errorf("(*FeedState).Upsert: apartment id is blank")
	case f.URL == "":
		return fmt.Errorf("(*FeedState).Upsert: feed url is blank")
	}

	if _, err := db.NewInsert().
		Model(f).
		On("CONFLICT (apartment_id) DO UPDATE").
		Set("url = EXCLUDED.url").
		Set("hash = EXCLUDED.hash").
		Set("fetched_at = EXCLUDED.fetched_at").
		Set("last_error = EXCLUDED.last_error").
		Exec(ctx); err != nil {
		return fmt.Errorf("(*FeedState).Upsert: can't upsert feed state: %w", err)
	}

	return nil
}
