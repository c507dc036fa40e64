package stats

import (
	"testing"

	"event-hub-backend/cmd/event-hub/model"

	"github.com/stretchr/testify/assert"
)

func feedbacks(ratings ...int) []model.Feedback {
	out := make([]model.Feedback, 0, len(ratings))
	for i, r := range ratings {
		out = append(out, model.Feedback{ID: uint(i + 1), Rating: r})
	}
	return out
}

func TestAverageRating(t *testing.T) {
	assert.Equal(t, 0.0, AverageRating(nil))
	assert.Equal(t, 0.0, AverageRating([]model.Feedback{}))
	assert.Equal(t, 4.0, AverageRating(feedbacks(5, 3)))
	assert.InDelta(t, 4.3333, AverageRating(feedbacks(5, 4, 4)), 0.0001)
}

func TestStarsFor(t *testing.T) {
	tests := []struct {
		name     string
		rating   float64
		expected Stars
	}{
		{"three and a half", 3.5, Stars{Full: 3, Half: 1, Empty: 1}},
		{"five", 5, Stars{Full: 5, Half: 0, Empty: 0}},
		{"zero", 0, Stars{Full: 0, Half: 0, Empty: 5}},
		{"just under half", 4.49, Stars{Full: 4, Half: 0, Empty: 1}},
		{"above five clamps", 7.2, Stars{Full: 5, Half: 0, Empty: 0}},
		{"negative clamps", -1, Stars{Full: 0, Half: 0, Empty: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StarsFor(tt.rating)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, 5, got.Full+got.Half+got.Empty)
		})
	}
}

func TestSummarize(t *testing.T) {
	events := []model.Event{
		{
			ID:   1,
			Name: "Tech Conference 2025",
			RSVPs: []model.RSVP{
				{Department: "Engineering"},
				{Department: "Sales"},
				{Department: "Sales"},
			},
			Feedbacks: feedbacks(5, 3),
		},
		{
			ID:        2,
			Name:      "Marketing Summit",
			RSVPs:     []model.RSVP{{Department: ""}},
			Feedbacks: feedbacks(4),
		},
		{
			ID:   3,
			Name: "Quiet Event",
		},
	}

	a := Summarize(events)

	assert.Equal(t, 3, a.TotalEvents)
	assert.Equal(t, 4, a.TotalRSVPs)
	assert.Equal(t, 3, a.TotalFeedback)
	assert.Equal(t, 4.0, a.AverageRating)
	assert.Equal(t, []DepartmentCount{
		{Name: "Sales", Value: 2},
		{Name: "Engineering", Value: 1},
		{Name: UnknownDepartment, Value: 1},
	}, a.RSVPsByDept)
	assert.Equal(t, []EventRating{
		{ID: 1, Name: "Tech Conference 2025", Rating: 4.0, RSVPs: 3},
		{ID: 2, Name: "Marketing Summit", Rating: 4.0, RSVPs: 1},
		{ID: 3, Name: "Quiet Event", Rating: 0, RSVPs: 0},
	}, a.EventPerformance)
}

func TestSummarize_Empty(t *testing.T) {
	a := Summarize(nil)

	assert.Zero(t, a.TotalEvents)
	assert.Zero(t, a.AverageRating)
	assert.NotNil(t, a.RSVPsByDept)
	assert.NotNil(t, a.EventPerformance)
}

func TestFeedbackFor(t *testing.T) {
	fb := FeedbackFor(model.Event{ID: 9, Name: "Bootcamp", Feedbacks: feedbacks(4, 3)})

	assert.Equal(t, uint(9), fb.EventID)
	assert.Equal(t, 3.5, fb.Average)
	assert.Equal(t, Stars{Full: 3, Half: 1, Empty: 1}, fb.Stars)
	assert.Len(t, fb.Feedbacks, 2)

	empty := FeedbackFor(model.Event{ID: 10})
	assert.NotNil(t, empty.Feedbacks)
	assert.Equal(t, Stars{Empty: 5}, empty.Stars)
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 4.3, Round1(4.3333))
	assert.Equal(t, 3.7, Round1(3.66))
	assert.Equal(t, 0.0, Round1(0))
}
