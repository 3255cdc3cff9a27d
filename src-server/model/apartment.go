package model

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

type Apartment struct {
	bun.BaseModel `bun:"table:apartments"`

	ID          string `bun:"id,pk"`               // required
	Slug        string `bun:"slug,unique,notnull"` // required, used in URLs
	Name        string `bun:"name,notnull"`        // required
	Description string `bun:"description"`
	IcalURL     string `bun:"ical_url"`
	MinNights   int    `bun:"min_nights,notnull"`
	BookingURL  string `bun:"booking_url"`

	Intervals []*BusyInterval `bun:"rel:has-many,join:id=apartment_id"`
}

func (a *Apartment) Upsert(ctx context.Context, db bun.IDB) error {
	if db == nil {
		return fmt.Errorf("(*Apartment).Upsert: db is nil")
	}

	// validate
	switch {
	case a.ID == "":
		return fmt.Errorf("(*Apartment).Upsert: apartment id is blank")
	case a.Slug == "":
		return fmt.Errorf("(*Apartment).Upsert: apartment slug is blank")
	case a.Name == "":
		return fmt.Errorf("(*Apartment).Upsert: apartment name is blank")
	}
	if a.MinNights < 1 {
		a.MinNights = 1
	}

	// upsert
	if _, err := db.NewInsert().
		Model(a).
		On("CONFLICT (id) DO UPDATE").
		Set("slug = EXCLUDED.slug").
		Set("name = EXCLUDED.name").
		Set("description = EXCLUDED.description").
		Set("ical_url = EXCLUDED.ical_url").
		Set("min_nights = EXCLUDED.min_nights").
		Set("booking_url = EXCLUDED.booking_url").
		Exec(ctx); err != nil {
		return fmt.Errorf("(*Apartment).Upsert: can't upsert apartment: %w", err)
	}

	return nil
}
