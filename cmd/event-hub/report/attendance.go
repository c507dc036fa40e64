// Package report renders the downloadable documents of the participation
// tracker and the RSVP spreadsheet exchange.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"event-hub-backend/cmd/event-hub/model"

	"github.com/mattn/go-runewidth"
)

type AttendanceSummary struct {
	Enrolled     int `json:"enrolled"`
	Upcoming     int `json:"upcoming"`
	Past         int `json:"past"`
	Attended     int `json:"attended"`
	Missed       int `json:"missed"`
	Certificates int `json:"certificates"`
}

// Summarize counts the tracker figures. Past is anything no longer
// upcoming; certificates only count attended enrollments that carry one.
func Summarize(events []model.EnrolledEvent) AttendanceSummary {
	s := AttendanceSummary{Enrolled: len(events)}

	for _, e := range events {
		switch e.Status {
		case model.Upcoming:
			s.Upcoming++
		case model.Attended:
			s.Past++
			s.Attended++
			if e.CertificateURL != "" {
				s.Certificates++
			}
		default:
			s.Past++
			if e.Status == model.Missed {
				s.Missed++
			}
		}
	}

	return s
}

// Filename is the download name for a report generated at now.
func Filename(now time.Time) string {
	return fmt.Sprintf("attendance_report_%s.txt", now.UTC().Format("2006-01-02"))
}

// WriteAttendance writes the plain text report. The event table is padded
// by display width so names in wide scripts stay aligned.
func WriteAttendance(w io.Writer, events []model.EnrolledEvent, now time.Time) error {
	s := Summarize(events)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Attendance Report - Generated on %s\n\n", now.UTC().Format("2006-01-02"))

	summary := [][2]string{
		{"Total Events Enrolled", fmt.Sprint(s.Enrolled)},
		{"Upcoming Events", fmt.Sprint(s.Upcoming)},
		{"Past Events", fmt.Sprint(s.Past)},
		{"Attended Events", fmt.Sprint(s.Attended)},
		{"Missed Events", fmt.Sprint(s.Missed)},
		{"Certificates Earned", fmt.Sprint(s.Certificates)},
	}
	labelWidth := 0
	for _, row := range summary {
		labelWidth = max(labelWidth, runewidth.StringWidth(row[0]))
	}
	for _, row := range summary {
		fmt.Fprintf(&sb, "%s : %s\n", runewidth.FillRight(row[0], labelWidth), row[1])
	}

	sb.WriteString("\nEvent Details:\n")
	if len(events) == 0 {
		sb.WriteString("(no enrollments)\n")
	} else {
		rows := [][]string{{"Event", "Date", "Time", "Location", "Status", "Feedback"}}
		for _, e := range events {
			feedback := "-"
			if e.UserFeedback != nil {
				feedback = fmt.Sprintf("%d/5 stars", e.UserFeedback.Rating)
			}
			rows = append(rows, []string{e.Name, e.Date, e.Time, e.Location, titleCase(string(e.Status)), feedback})
		}
		writeTable(&sb, rows)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeTable(sb *strings.Builder, rows [][]string) {
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	for r, row := range rows {
		for i, cell := range row {
			if i == len(row)-1 {
				sb.WriteString(cell)
				continue
			}
			sb.WriteString(runewidth.FillRight(cell, widths[i]))
			sb.WriteString("  ")
		}
		sb.WriteString("\n")

		if r == 0 {
			total := 0
			for _, w := range widths {
				total += w + 2
			}
			sb.WriteString(strings.Repeat("-", total-2))
			sb.WriteString("\n")
		}
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
