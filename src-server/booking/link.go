// The `booking` package assembles the outbound booking-provider URL from a
// completed date selection.
package booking

import (
	"fmt"
	"net/url"

	"solmar/src-server/availability"
)

// Append the selected dates to the apartment's configured booking URL as
// plain YYYY-MM-DD query parameters. Refuses snapshots that are not a
// completed, validated selection.
func BuildURL(base string, snap availability.Snapshot) (string, error) {
	if !snap.IsValid {
		return "", fmt.Errorf("BuildURL: selection is not complete")
	}
	if base == "" {
		return "", fmt.Errorf("BuildURL: no booking URL configured")
	}

	parsed, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("BuildURL: can't parse base URL: %w", err)
	}

	query := parsed.Query()
	query.Set("checkin", snap.CheckInISO())
	query.Set("checkout", snap.CheckOutISO())
	parsed.RawQuery = query.Encode()

	return parsed.String(), nil
}
