// Package stats derives read-only figures from the event catalog. Nothing
// here touches the store; callers load events and pass them in.
package stats

import (
	"math"
	"sort"

	"event-hub-backend/cmd/event-hub/model"
)

const (
	maxStars          = 5
	UnknownDepartment = "Unknown"
)

type Stars struct {
	Full  int `json:"full"`
	Half  int `json:"half"`
	Empty int `json:"empty"`
}

// AverageRating is the plain mean of the ratings, 0 for no feedback.
func AverageRating(feedbacks []model.Feedback) float64 {
	if len(feedbacks) == 0 {
		return 0
	}

	sum := 0
	for _, f := range feedbacks {
		sum += f.Rating
	}

	return float64(sum) / float64(len(feedbacks))
}

// StarsFor renders a rating as five stars. Out of range ratings are clamped
// so the total is always five.
func StarsFor(rating float64) Stars {
	if math.IsNaN(rating) || rating < 0 {
		rating = 0
	}
	if rating > maxStars {
		rating = maxStars
	}

	full := int(math.Floor(rating))
	half := 0
	if rating-float64(full) >= 0.5 {
		half = 1
	}

	return Stars{
		Full:  full,
		Half:  half,
		Empty: maxStars - full - half,
	}
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

type EventFeedback struct {
	EventID   uint             `json:"event_id"`
	EventName string           `json:"event_name"`
	Date      string           `json:"date"`
	Average   float64          `json:"average"`
	Stars     Stars            `json:"stars"`
	Feedbacks []model.Feedback `json:"feedbacks"`
}

func FeedbackFor(e model.Event) EventFeedback {
	avg := AverageRating(e.Feedbacks)
	feedbacks := e.Feedbacks
	if feedbacks == nil {
		feedbacks = []model.Feedback{}
	}

	return EventFeedback{
		EventID:   e.ID,
		EventName: e.Name,
		Date:      e.Date,
		Average:   Round1(avg),
		Stars:     StarsFor(avg),
		Feedbacks: feedbacks,
	}
}

type DepartmentCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type EventRating struct {
	ID     uint    `json:"id"`
	Name   string  `json:"name"`
	Rating float64 `json:"rating"`
	RSVPs  int     `json:"rsvps"`
}

type Analytics struct {
	TotalEvents      int               `json:"total_events"`
	TotalRSVPs       int               `json:"total_rsvps"`
	TotalFeedback    int               `json:"total_feedback"`
	AverageRating    float64           `json:"average_rating"`
	RSVPsByDept      []DepartmentCount `json:"rsvps_by_department"`
	EventPerformance []EventRating     `json:"event_performance"`
}

// Summarize computes the analytics dashboard. The overall average is taken
// over every individual rating, not over per-event averages.
func Summarize(events []model.Event) Analytics {
	out := Analytics{
		TotalEvents:      len(events),
		RSVPsByDept:      []DepartmentCount{},
		EventPerformance: make([]EventRating, 0, len(events)),
	}

	byDept := map[string]int{}
	ratingSum := 0

	for _, e := range events {
		out.TotalRSVPs += len(e.RSVPs)
		out.TotalFeedback += len(e.Feedbacks)

		for _, r := range e.RSVPs {
			byDept[DepartmentName(r.Department)]++
		}
		for _, f := range e.Feedbacks {
			ratingSum += f.Rating
		}

		out.EventPerformance = append(out.EventPerformance, EventRating{
			ID:     e.ID,
			Name:   e.Name,
			Rating: Round1(AverageRating(e.Feedbacks)),
			RSVPs:  len(e.RSVPs),
		})
	}

	if out.TotalFeedback > 0 {
		out.AverageRating = Round1(float64(ratingSum) / float64(out.TotalFeedback))
	}

	for name, n := range byDept {
		out.RSVPsByDept = append(out.RSVPsByDept, DepartmentCount{Name: name, Value: n})
	}
	sort.Slice(out.RSVPsByDept, func(i, j int) bool {
		if out.RSVPsByDept[i].Value != out.RSVPsByDept[j].Value {
			return out.RSVPsByDept[i].Value > out.RSVPsByDept[j].Value
		}
		return out.RSVPsByDept[i].Name < out.RSVPsByDept[j].Name
	})

	return out
}

func DepartmentName(d string) string {
	if d == "" {
		return UnknownDepartment
	}
	return d
}
