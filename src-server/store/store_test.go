package store_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"solmar/src-server/model"
	"solmar/src-server/store"
)

func newTestStore(t *testing.T) *store.BunStore {
	t.Helper()
	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	bundb := bun.NewDB(db, sqlitedialect.New())
	if err := model.CreateSchema(context.Background(), bundb); err != nil {
		t.Fatal(err)
	}
	return store.NewBunStore(bundb)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	contentStore := newTestStore(t)

	content := &store.Content{
		Apartments: []model.Apartment{
			{Slug: "sea-view", Name: "Sea View", MinNights: 2},
			{Slug: "garden", Name: "Garden Studio", MinNights: 3},
		},
		Entries: []model.ContentEntry{
			{Key: "contact_us", Locale: "pt", Value: "Contacte-nos"},
		},
	}
	if err := contentStore.Save(context.Background(), content); err != nil {
		t.Fatal(err)
	}

	// ids are assigned on save
	for _, apartment := range content.Apartments {
		if apartment.ID == "" {
			t.Error("save should assign apartment ids")
		}
	}

	loaded, err := contentStore.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Apartments) != 2 || len(loaded.Entries) != 1 {
		t.Fatalf("wrong counts: %d apartments, %d entries", len(loaded.Apartments), len(loaded.Entries))
	}
	// load orders by slug
	if loaded.Apartments[0].Slug != "garden" {
		t.Errorf("want slug order, got %q first", loaded.Apartments[0].Slug)
	}
}

func TestSaveIsTransactional(t *testing.T) {
	contentStore := newTestStore(t)

	content := &store.Content{
		Apartments: []model.Apartment{
			{Slug: "ok", Name: "OK", MinNights: 1},
			{Slug: "", Name: "broken"}, // fails validation
		},
	}
	if err := contentStore.Save(context.Background(), content); err == nil {
		t.Fatal("save with invalid apartment should fail")
	}

	loaded, err := contentStore.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Apartments) != 0 {
		t.Error("failed save must not leave partial rows")
	}
}

func TestSaveNil(t *testing.T) {
	contentStore := newTestStore(t)
	if err := contentStore.Save(context.Background(), nil); err == nil {
		t.Error("nil content should be rejected")
	}
}
