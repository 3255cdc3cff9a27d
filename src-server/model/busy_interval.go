package model

import (
	"time"

	"github.com/uptrace/bun"

	"solmar/src-server/ical"
)

// One reserved range of an apartment, the persisted form of an
// ical.BusyInterval. Days are stored as unix seconds of midnight UTC.
type BusyInterval struct {
	bun.BaseModel `bun:"table:busy_intervals"`

	ID              int64  `bun:"id,pk,autoincrement"`
	ApartmentID     string `bun:"apartment_id,notnull"` // required
	StartDayUnixUTC int64  `bun:"start_day,notnull"`    // required
	EndDayUnixUTC   int64  `bun:"end_day,notnull"`      // required, exclusive
}

func (b *BusyInterval) ToInterval() ical.BusyInterval {
	return ical.BusyInterval{
		Start: time.Unix(b.StartDayUnixUTC, 0).UTC(),
		End:   time.Unix(b.EndDayUnixUTC, 0).UTC(),
	}
}

// Map parsed intervals to insertable rows for one apartment.
func IntervalRows(apartmentID string, set ical.BusyIntervalSet) []BusyInterval {
	rows := make([]BusyInterval, 0, len(set))
	for _, iv := range set {
		rows = append(rows, BusyInterval{
			ApartmentID:     apartmentID,
			StartDayUnixUTC: iv.Start.Unix(),
			EndDayUnixUTC:   iv.End.Unix(),
		})
	}
	return rows
}

// Reassemble a BusyIntervalSet from rows loaded for one apartment.
func IntervalSet(rows []BusyInterval) ical.BusyIntervalSet {
	set := make(ical.BusyIntervalSet, 0, len(rows))
	for _, row := range rows {
		set = append(set, row.ToInterval())
	}
	return set
}
