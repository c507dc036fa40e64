package model

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
)

func TestRSVPCSV_CSVTags(t *testing.T) {
	row := NewRSVPCSV(
		Event{ID: 1, Name: "Tech Conference 2025"},
		RSVP{Name: "Dwight Schrute", Email: "dwight@company.com", Department: "Sales", DietaryPreferences: "Beets only", RegistrationDate: "2025-05-04"},
	)

	var buf bytes.Buffer
	err := gocsv.Marshal([]*RSVPCSV{&row}, &buf)
	assert.NoError(t, err)

	csvContent := buf.String()
	assert.Contains(t, csvContent, "event_id,event_name,name,email,department,dietary_preferences,registration_date")
	assert.Contains(t, csvContent, "1,Tech Conference 2025,Dwight Schrute,dwight@company.com,Sales,Beets only,2025-05-04")
}

func TestRSVPCSV_CSVUnmarshaling(t *testing.T) {
	csvContent := `name,email,department,dietary_preferences,registration_date
Michael Scott,michael@company.com,Engineering,,2025-05-01
Kevin Malone,kevin@company.com,Accounting,Extra snacks,2025-07-28`

	var rows []*RSVPCSV
	err := gocsv.Unmarshal(strings.NewReader(csvContent), &rows)
	assert.NoError(t, err)
	assert.Len(t, rows, 2)

	rsvp := rows[1].RSVP()
	assert.Equal(t, "Kevin Malone", rsvp.Name)
	assert.Equal(t, "Accounting", rsvp.Department)
	assert.Equal(t, "Extra snacks", rsvp.DietaryPreferences)
	assert.Zero(t, rsvp.EventID)
}

func TestRSVPCSV_QuotedFields(t *testing.T) {
	csvContent := `name,email,department
"Halpert, Jim",jim@company.com,Sales`

	var rows []*RSVPCSV
	err := gocsv.Unmarshal(strings.NewReader(csvContent), &rows)
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "Halpert, Jim", rows[0].Name)
}

func TestRSVPCSV_InvalidCSV(t *testing.T) {
	csvContent := `name,email
"Unclosed quote,oops@company.com`

	var rows []*RSVPCSV
	err := gocsv.Unmarshal(strings.NewReader(csvContent), &rows)
	assert.Error(t, err)
}
