package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"event-hub-backend/cmd/event-hub/model"

	"github.com/gocarina/gocsv"
)

func RSVPFilename(now time.Time) string {
	return fmt.Sprintf("rsvps_%s.csv", now.UTC().Format("2006-01-02"))
}

// WriteRSVPs writes one row per RSVP across the given events.
func WriteRSVPs(w io.Writer, events []model.Event) error {
	rows := make([]*model.RSVPCSV, 0)
	for _, e := range events {
		for _, r := range e.RSVPs {
			row := model.NewRSVPCSV(e, r)
			rows = append(rows, &row)
		}
	}

	return gocsv.Marshal(rows, w)
}

// ReadRSVPs parses an uploaded sheet. Rows without a name or email are
// rejected with their line number; a blank registration date becomes today.
func ReadRSVPs(r io.Reader, today string) ([]model.RSVP, error) {
	var rows []*model.RSVPCSV
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("parse rsvp csv: %w", err)
	}

	rsvps := make([]model.RSVP, 0, len(rows))
	for i, row := range rows {
		rsvp := row.RSVP()
		rsvp.Name = strings.TrimSpace(rsvp.Name)
		rsvp.Email = strings.TrimSpace(rsvp.Email)

		if rsvp.Name == "" || rsvp.Email == "" {
			// header is line 1
			return nil, fmt.Errorf("%w: name and email on line %d", model.ErrMissingFields, i+2)
		}
		if rsvp.RegistrationDate == "" {
			rsvp.RegistrationDate = today
		}

		rsvps = append(rsvps, rsvp)
	}

	return rsvps, nil
}
