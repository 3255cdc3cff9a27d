package localize

import (
	"strings"
	"testing"
)

func TestTranslate(t *testing.T) {
	service := NewService("en")

	if got := service.Translate("pt", KeyBookNow); got != "Reservar" {
		t.Errorf("pt book_now: got %q", got)
	}
	if got := service.Translate("de", KeyBookNow); got != "Jetzt buchen" {
		t.Errorf("de book_now: got %q", got)
	}
	// Accept-Language style values resolve too
	if got := service.Translate("fr-FR,fr;q=0.9,en;q=0.8", KeyBookNow); got != "Réserver" {
		t.Errorf("accept-language: got %q", got)
	}
}

func TestTranslateArgs(t *testing.T) {
	service := NewService("en")
	got := service.Translate("en", KeyMinNights, 3)
	if !strings.Contains(got, "3") {
		t.Errorf("args not applied: %q", got)
	}
}

func TestTranslateFallback(t *testing.T) {
	service := NewService("en")
	// unserved language falls back to the default
	if got := service.Translate("ja", KeyBookNow); got != "Book now" {
		t.Errorf("fallback: got %q", got)
	}
	// unknown key falls back to the key itself
	if got := service.Translate("en", Key("no_such_key")); got != "no_such_key" {
		t.Errorf("unknown key: got %q", got)
	}
}

func TestApplyOverride(t *testing.T) {
	service := NewService("en")
	service.Apply("pt", KeyContactUs, "Fale connosco")
	if got := service.Translate("pt", KeyContactUs); got != "Fale connosco" {
		t.Errorf("override not applied: %q", got)
	}
	// bogus locales are ignored, not fatal
	service.Apply("not a locale!!", KeyContactUs, "x")
}

func TestTable(t *testing.T) {
	service := NewService("en")
	table := service.Table("de")
	if table[KeyBookNow] != "Jetzt buchen" {
		t.Errorf("table lookup: got %q", table[KeyBookNow])
	}
	// every key present in the fallback shows up in every table
	enTable := service.Table("en")
	if len(table) != len(enTable) {
		t.Errorf("table sizes differ: %d vs %d", len(table), len(enTable))
	}
}

func TestDefaultLocale(t *testing.T) {
	service := NewService("pt")
	if got := service.Translate("ja", KeyBookNow); got != "Reservar" {
		t.Errorf("pt default: got %q", got)
	}
	// invalid default falls back to English without blowing up
	service = NewService("!!")
	if got := service.Translate("ja", KeyBookNow); got != "Book now" {
		t.Errorf("invalid default: got %q", got)
	}
}
