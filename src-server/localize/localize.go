// The `localize` package provides the site's localization service: a mapping
// from stable enumerated keys to per-language strings. The service is
// constructed once at startup and injected wherever text is rendered; there
// is no package-level instance.
package localize

import (
	"fmt"
	"log/slog"

	"golang.org/x/text/language"
)

// A stable translation key. Keys are enumerated here, never derived from
// feature names at runtime.
type Key string

const (
	KeyBookNow             Key = "book_now"
	KeyCheckIn             Key = "check_in"
	KeyCheckOut            Key = "check_out"
	KeyMinNights           Key = "min_nights"
	KeyNights              Key = "nights"
	KeySelectDates         Key = "select_dates"
	KeyAvailabilityUnknown Key = "availability_unknown"
	KeyContactUs           Key = "contact_us"
	KeyPerNight            Key = "per_night"
)

type Service struct {
	tags     []language.Tag
	matcher  language.Matcher
	fallback language.Tag
	tables   map[language.Tag]map[Key]string
}

// Build the service with the built-in string tables. defaultLocale decides
// the fallback language when matching fails; an unknown value falls back to
// English.
func NewService(defaultLocale string) *Service {
	tables := builtinTables()

	tags := make([]language.Tag, 0, len(tables))
	fallback := language.English
	for tag := range tables {
		tags = append(tags, tag)
	}

	if parsed, err := language.Parse(defaultLocale); err == nil {
		if _, ok := tables[parsed]; ok {
			fallback = parsed
		}
	} else {
		slog.Warn("invalid default locale, falling back to English", "locale", defaultLocale)
	}

	// the fallback tag must be first so the matcher prefers it on no-match
	ordered := make([]language.Tag, 0, len(tags))
	ordered = append(ordered, fallback)
	for _, tag := range tags {
		if tag != fallback {
			ordered = append(ordered, tag)
		}
	}

	return &Service{
		tags:     ordered,
		matcher:  language.NewMatcher(ordered),
		fallback: fallback,
		tables:   tables,
	}
}

// Override one entry, e.g. from an operator-edited content row. Unknown
// locales are ignored with a warning rather than growing the language set at
// runtime.
func (s *Service) Apply(locale string, key Key, value string) {
	tag, err := language.Parse(locale)
	if err != nil {
		slog.Warn("can't parse content locale", "locale", locale, "error", err)
		return
	}
	table, ok := s.tables[tag]
	if !ok {
		slog.Warn("content locale not served by this site", "locale", locale)
		return
	}
	table[key] = value
}

// Resolve lang (an Accept-Language value or plain code) to the best served
// language and look the key up, falling back to the default language, then
// to the key itself. args are applied with Sprintf when present.
func (s *Service) Translate(lang string, key Key, args ...any) string {
	// index into the served tags; the matched tag itself may carry
	// requested-locale extensions that aren't table keys
	_, index := language.MatchStrings(s.matcher, lang)
	tag := s.tags[index]

	value, ok := s.tables[tag][key]
	if !ok {
		value, ok = s.tables[s.fallback][key]
	}
	if !ok {
		return string(key)
	}
	if len(args) > 0 {
		return fmt.Sprintf(value, args...)
	}
	return value
}

// The whole table for one language, for handing to the client in one shot.
func (s *Service) Table(lang string) map[Key]string {
	_, index := language.MatchStrings(s.matcher, lang)
	table, ok := s.tables[s.tags[index]]
	if !ok {
		table = s.tables[s.fallback]
	}

	out := make(map[Key]string, len(table))
	for k, v := range s.tables[s.fallback] {
		out[k] = v
	}
	for k, v := range table {
		out[k] = v
	}
	return out
}

// Languages the site serves, fallback first.
func (s *Service) Languages() []language.Tag {
	out := make([]language.Tag, len(s.tags))
	copy(out, s.tags)
	return out
}

func builtinTables() map[language.Tag]map[Key]string {
	return map[language.Tag]map[Key]string{
		language.English: {
			KeyBookNow:             "Book now",
			KeyCheckIn:             "Check-in",
			KeyCheckOut:            "Check-out",
			KeyMinNights:           "Minimum stay: %d nights",
			KeyNights:              "%d nights",
			KeySelectDates:         "Select your dates",
			KeyAvailabilityUnknown: "We can't verify availability right now — please confirm when booking.",
			KeyContactUs:           "Contact us",
			KeyPerNight:            "per night",
		},
		language.Portuguese: {
			KeyBookNow:             "Reservar",
			KeyCheckIn:             "Check-in",
			KeyCheckOut:            "Check-out",
			KeyMinNights:           "Estadia mínima: %d noites",
			KeyNights:              "%d noites",
			KeySelectDates:         "Escolha as suas datas",
			KeyAvailabilityUnknown: "Não conseguimos verificar a disponibilidade — confirme ao reservar.",
			KeyContactUs:           "Contacte-nos",
			KeyPerNight:            "por noite",
		},
		language.German: {
			KeyBookNow:             "Jetzt buchen",
			KeyCheckIn:             "Anreise",
			KeyCheckOut:            "Abreise",
			KeyMinNights:           "Mindestaufenthalt: %d Nächte",
			KeyNights:              "%d Nächte",
			KeySelectDates:         "Reisedaten wählen",
			KeyAvailabilityUnknown: "Verfügbarkeit derzeit nicht prüfbar — bitte bei Buchung bestätigen.",
			KeyContactUs:           "Kontakt",
			KeyPerNight:            "pro Nacht",
		},
		language.French: {
			KeyBookNow:             "Réserver",
			KeyCheckIn:             "Arrivée",
			KeyCheckOut:            "Départ",
			KeyMinNights:           "Séjour minimum : %d nuits",
			KeyNights:              "%d nuits",
			KeySelectDates:         "Choisissez vos dates",
			KeyAvailabilityUnknown: "Impossible de vérifier la disponibilité — confirmez lors de la réservation.",
			KeyContactUs:           "Contactez-nous",
			KeyPerNight:            "par nuit",
		},
	}
}
