package model

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// One operator-edited localized string: a stable enumerated key plus a
// locale, never a normalized feature name. The key values come from
// localize.Key.
type ContentEntry struct {
	bun.BaseModel `bun:"table:content_entries"`

	ID     string `bun:"id,pk"`                            // required
	Key    string `bun:"key,notnull,unique:key_locale"`    // required
	Locale string `bun:"locale,notnull,unique:key_locale"` // required
	Value  string `bun:"value"`
}

func (c *ContentEntry) Upsert(ctx context.Context, db bun.IDB) error {
	if db == nil {
		return fmt.Errorf("(*ContentEntry).Upsert: db is nil")
	}

	switch {
	case c.ID == "":
		return fmt.Errorf("(*ContentEntry).Upsert: id is blank")
	case c.Key == "":
		return fmt.Errorf("(*ContentEntry).Upsert: key is blank")
	case c.Locale == "":
		return fmt.Errorf("(*ContentEntry).Upsert: locale is blank")
	}

	if _, err := db.NewInsert().
		Model(c).
		On("CONFLICT (key, locale) DO UPDATE").
		Set("value = EXCLUDED.value").
		Exec(ctx); err != nil {
		return fmt.Errorf("(*ContentEntry).Upsert: can't upsert content entry: %w", err)
	}

	return nil
}
