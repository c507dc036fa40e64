package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"event-hub-backend/cmd/event-hub/apis"
	"event-hub-backend/cmd/event-hub/logger"
	"event-hub-backend/cmd/event-hub/model"
	"event-hub-backend/cmd/event-hub/notify"
	"event-hub-backend/cmd/event-hub/seed"
	"event-hub-backend/cmd/event-hub/stats"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "integration-secret"

type testApp struct {
	srv *httptest.Server
	db  *gorm.DB
	hub *notify.Hub
}

type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func testConfig() EnvCfg {
	return EnvCfg{
		DBDriver:    "sqlite",
		SQLitePath:  ":memory:",
		JWTSecret:   testJWTSecret,
		TokenTTL:    time.Hour,
		CORSOrigins: []string{"http://localhost:3000"},
	}
}

// newTestApp serves the full router over a seeded in-memory database.
func newTestApp(t testing.TB) *testApp {
	t.Helper()

	cfg := testConfig()

	db, err := openDB(cfg)
	require.NoError(t, err)

	fx, err := seed.Default()
	require.NoError(t, err)
	applied, err := seed.Apply(context.Background(), db, fx, logger.Nop())
	require.NoError(t, err)
	require.True(t, applied)

	hub := notify.NewHub()
	srv := httptest.NewServer(newServer(db, cfg, hub, nil, logger.Nop()))

	t.Cleanup(func() {
		hub.Close()
		srv.Close()
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return &testApp{srv: srv, db: db, hub: hub}
}

func (a *testApp) do(t testing.TB, method, path, token string, body any) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, a.srv.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return a.send(t, req)
}

func (a *testApp) send(t testing.TB, req *http.Request) (int, envelope) {
	t.Helper()

	resp, err := a.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	}

	return resp.StatusCode, env
}

func (a *testApp) login(t testing.TB, email, password string) string {
	t.Helper()

	status, env := a.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, status, env.Message)

	var login model.LoginResponse
	require.NoError(t, json.Unmarshal(env.Data, &login))

	return login.Token
}

func (a *testApp) register(t testing.TB, name, email string) string {
	t.Helper()

	status, env := a.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name":             name,
		"email":            email,
		"password":         "secret",
		"confirm_password": "secret",
	})
	require.Equal(t, http.StatusCreated, status, env.Message)

	return a.login(t, email, "secret")
}

func decodeInto(t testing.TB, env envelope, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func TestIntegration_HealthCheckEndpoint(t *testing.T) {
	app := newTestApp(t)

	status, env := app.do(t, http.MethodGet, "/healthz", "", nil)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", env.Message)

	var health apis.HealthStatus
	decodeInto(t, env, &health)
	assert.Equal(t, "up", health.Database)
}

func TestIntegration_RouteGates(t *testing.T) {
	app := newTestApp(t)
	admin := app.login(t, "admin@example.com", "admin123")
	user := app.login(t, "user@example.com", "user123")

	tests := []struct {
		name         string
		path         string
		token        string
		wantStatus   int
		wantRedirect string
	}{
		{"anonymous admin page", "/api/v1/admin/events", "", http.StatusUnauthorized, "/login"},
		{"anonymous user page", "/api/v1/user/enrollments", "", http.StatusUnauthorized, "/login"},
		{"user on admin page", "/api/v1/admin/analytics", user, http.StatusForbidden, "/user"},
		{"admin on user page", "/api/v1/user/events", admin, http.StatusForbidden, "/admin"},
		{"admin on admin page", "/api/v1/admin/events", admin, http.StatusOK, ""},
		{"user on user page", "/api/v1/user/events", user, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := app.do(t, http.MethodGet, tt.path, tt.token, nil)

			assert.Equal(t, tt.wantStatus, status)
			if tt.wantRedirect != "" {
				var data map[string]string
				decodeInto(t, env, &data)
				assert.Equal(t, tt.wantRedirect, data["redirect"])
			}
		})
	}

	status, env := app.do(t, http.MethodGet, "/api/v1/nowhere", admin, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.NotEmpty(t, env.Message)
}

func TestIntegration_LoginWithWrongRole(t *testing.T) {
	app := newTestApp(t)

	status, _ := app.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "user@example.com",
		"password": "user123",
		"role":     "admin",
	})

	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestIntegration_EnrollmentLifecycle(t *testing.T) {
	app := newTestApp(t)
	admin := app.login(t, "admin@example.com", "admin123")
	user := app.login(t, "user@example.com", "user123")

	// The catalog marks what the user already holds.
	status, env := app.do(t, http.MethodGet, "/api/v1/user/events", user, nil)
	require.Equal(t, http.StatusOK, status)

	var catalog []model.CatalogEvent
	decodeInto(t, env, &catalog)
	require.Len(t, catalog, 5)

	enrolled := map[uint]bool{}
	for _, e := range catalog {
		enrolled[e.ID] = e.Enrolled
	}
	assert.Equal(t, map[uint]bool{1: true, 2: true, 3: false, 4: true, 5: true}, enrolled)

	// Enroll in the workshop.
	status, env = app.do(t, http.MethodPost, "/api/v1/user/enrollments", user, map[string]uint{"event_id": 3})
	require.Equal(t, http.StatusCreated, status, env.Message)

	var enrollment model.EnrolledEvent
	decodeInto(t, env, &enrollment)
	assert.Equal(t, model.Upcoming, enrollment.Status)
	assert.Equal(t, 5, enrollment.Attendees)
	assert.NotEmpty(t, enrollment.EnrollmentID)

	status, _ = app.do(t, http.MethodPost, "/api/v1/user/enrollments", user, map[string]uint{"event_id": 3})
	assert.Equal(t, http.StatusConflict, status)

	// The mirrored RSVP carries the profile.
	status, env = app.do(t, http.MethodGet, "/api/v1/admin/rsvps?department=Engineering", admin, nil)
	require.Equal(t, http.StatusOK, status)

	var byDept []model.Event
	decodeInto(t, env, &byDept)
	names := []string{}
	for _, e := range byDept {
		if e.ID == 3 {
			for _, r := range e.RSVPs {
				names = append(names, r.Name)
			}
		}
	}
	assert.Equal(t, []string{"Jane Smith"}, names)

	// Feedback is refused until the admin marks attendance.
	status, _ = app.do(t, http.MethodPost, "/api/v1/user/enrollments/"+enrollment.EnrollmentID+"/feedback", user,
		map[string]any{"rating": 5, "comment": "Loved it"})
	assert.Equal(t, http.StatusConflict, status)

	status, env = app.do(t, http.MethodPut, "/api/v1/admin/enrollments/"+enrollment.EnrollmentID+"/attendance", admin,
		map[string]string{"status": "attended"})
	require.Equal(t, http.StatusOK, status, env.Message)

	status, env = app.do(t, http.MethodPost, "/api/v1/user/enrollments/"+enrollment.EnrollmentID+"/feedback", user,
		map[string]any{"rating": 5, "comment": "Loved it"})
	require.Equal(t, http.StatusOK, status, env.Message)

	// The admin feedback view picks it up.
	status, env = app.do(t, http.MethodGet, "/api/v1/admin/feedback", admin, nil)
	require.Equal(t, http.StatusOK, status)

	var feedback []stats.EventFeedback
	decodeInto(t, env, &feedback)
	for _, f := range feedback {
		if f.EventID == 3 {
			assert.Len(t, f.Feedbacks, 3)
			assert.Equal(t, 4.7, f.Average)
		}
	}

	// Attended enrollments come with a certificate.
	req, err := http.NewRequest(http.MethodGet, app.srv.URL+"/api/v1/user/enrollments/"+enrollment.EnrollmentID+"/certificate", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+user)

	resp, err := app.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Jane Smith")
	assert.Contains(t, string(body), "Sales Training Workshop")

	// Unenrolling frees the seat.
	status, _ = app.do(t, http.MethodDelete, "/api/v1/user/enrollments/"+enrollment.EnrollmentID, user, nil)
	require.Equal(t, http.StatusOK, status)

	status, env = app.do(t, http.MethodGet, "/api/v1/user/events/3", user, nil)
	require.Equal(t, http.StatusOK, status)

	var workshop model.CatalogEvent
	decodeInto(t, env, &workshop)
	assert.False(t, workshop.Enrolled)
	assert.Equal(t, 4, workshop.Attendees)
}

func TestIntegration_BroadcastReachesEnrolledUsers(t *testing.T) {
	app := newTestApp(t)
	admin := app.login(t, "admin@example.com", "admin123")
	user := app.login(t, "user@example.com", "user123")

	status, env := app.do(t, http.MethodPost, "/api/v1/admin/updates", admin, map[string]any{
		"event_id": 1,
		"message":  "Keynote moved to Hall B",
	})
	require.Equal(t, http.StatusCreated, status, env.Message)

	var update model.EventUpdate
	decodeInto(t, env, &update)
	assert.Equal(t, 6, update.SentToCount)
	assert.Equal(t, "Tech Conference 2025", update.EventName)

	status, env = app.do(t, http.MethodGet, "/api/v1/user/notifications", user, nil)
	require.Equal(t, http.StatusOK, status)

	var inbox []model.Notification
	decodeInto(t, env, &inbox)
	require.NotEmpty(t, inbox)
	assert.Equal(t, "Keynote moved to Hall B", inbox[0].Message)
	assert.False(t, inbox[0].IsRead)

	unread := 0
	for _, n := range inbox {
		if !n.IsRead {
			unread++
		}
	}

	status, env = app.do(t, http.MethodGet, "/api/v1/user/notifications/unread-count", user, nil)
	require.Equal(t, http.StatusOK, status)

	var count map[string]int
	decodeInto(t, env, &count)
	assert.Equal(t, unread, count["count"])

	status, env = app.do(t, http.MethodPut, "/api/v1/user/notifications/read-all", user, nil)
	require.Equal(t, http.StatusOK, status)

	var updated map[string]int
	decodeInto(t, env, &updated)
	assert.Equal(t, unread, updated["updated"])

	status, env = app.do(t, http.MethodGet, "/api/v1/user/notifications/unread-count", user, nil)
	require.Equal(t, http.StatusOK, status)

	decodeInto(t, env, &count)
	assert.Equal(t, 0, count["count"])

	status, _ = app.do(t, http.MethodPost, "/api/v1/admin/updates", admin, map[string]any{
		"event_id": 1,
		"message":  "   ",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = app.do(t, http.MethodPost, "/api/v1/admin/updates", admin, map[string]any{
		"event_id": 99,
		"message":  "Anyone there?",
	})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestIntegration_DeletedEventBroadcastsDoNotReachReusedID(t *testing.T) {
	app := newTestApp(t)
	admin := app.login(t, "admin@example.com", "admin123")
	user := app.login(t, "user@example.com", "user123")

	createEvent := func(name string) model.Event {
		status, env := app.do(t, http.MethodPost, "/api/v1/admin/events", admin, map[string]any{
			"name":          name,
			"date":          "2025-10-01",
			"time":          "09:00 AM",
			"location":      "Annex",
			"description":   name,
			"speakers":      "Events Team",
			"max_attendees": 20,
		})
		require.Equal(t, http.StatusCreated, status, env.Message)

		var event model.Event
		decodeInto(t, env, &event)
		return event
	}

	offsite := createEvent("Old Offsite")

	status, env := app.do(t, http.MethodPost, "/api/v1/admin/updates", admin, map[string]any{
		"event_id": offsite.ID,
		"message":  "Offsite cancelled, stay home",
	})
	require.Equal(t, http.StatusCreated, status, env.Message)

	status, _ = app.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/admin/events/%d", offsite.ID), admin, nil)
	require.Equal(t, http.StatusOK, status)

	hackathon := createEvent("Brand New Hackathon")
	require.Equal(t, offsite.ID, hackathon.ID, "The freed max id is reused")

	status, env = app.do(t, http.MethodPost, "/api/v1/user/enrollments", user, map[string]uint{"event_id": hackathon.ID})
	require.Equal(t, http.StatusCreated, status, env.Message)

	status, env = app.do(t, http.MethodGet, "/api/v1/user/notifications", user, nil)
	require.Equal(t, http.StatusOK, status)

	var inbox []model.Notification
	decodeInto(t, env, &inbox)
	for _, n := range inbox {
		assert.NotEqual(t, "Offsite cancelled, stay home", n.Message)
		assert.NotEqual(t, "Old Offsite", n.EventName)
	}

	status, env = app.do(t, http.MethodGet, "/api/v1/admin/updates", admin, nil)
	require.Equal(t, http.StatusOK, status)

	var log []model.EventUpdate
	decodeInto(t, env, &log)
	for _, u := range log {
		assert.NotEqual(t, hackathon.ID, u.EventID)
	}
}

func TestIntegration_NotificationStream(t *testing.T) {
	app := newTestApp(t)
	admin := app.login(t, "admin@example.com", "admin123")
	user := app.login(t, "user@example.com", "user123")

	url := "ws" + strings.TrimPrefix(app.srv.URL, "http") + "/api/v1/user/notifications/ws?token=" + user
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var hello struct {
		Type string `json:"type"`
	}
	require.NoError(t, conn.ReadJSON(&hello))
	require.Equal(t, "connected", hello.Type)

	status, _ := app.do(t, http.MethodPost, "/api/v1/admin/updates", admin, map[string]any{
		"event_id": 2,
		"message":  "Lunch is served at noon",
	})
	require.Equal(t, http.StatusCreated, status)

	var pushed struct {
		Type string             `json:"type"`
		Data model.Notification `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&pushed))
	assert.Equal(t, "notification", pushed.Type)
	assert.Equal(t, "Marketing Summit 2025", pushed.Data.EventName)
	assert.Equal(t, "Lunch is served at noon", pushed.Data.Message)
}

func TestIntegration_SuggestionReview(t *testing.T) {
	app := newTestApp(t)
	admin := app.login(t, "admin@example.com", "admin123")
	user := app.login(t, "user@example.com", "user123")

	status, env := app.do(t, http.MethodPost, "/api/v1/user/suggestions", user, map[string]any{
		"title":              "Go Study Group",
		"event_type":         "Meetup",
		"description":        "Weekly sessions on idiomatic Go.",
		"expected_attendees": 15,
	})
	require.Equal(t, http.StatusCreated, status, env.Message)

	var created model.EventSuggestion
	decodeInto(t, env, &created)
	assert.Equal(t, model.Pending, created.Status)
	assert.Equal(t, "Jane Smith", created.UserName)

	id := created.ID
	path := "/api/v1/admin/suggestions/" + jsonNumber(id)

	status, _ = app.do(t, http.MethodPut, path+"/approve", admin, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = app.do(t, http.MethodPut, path+"/reject", admin, nil)
	assert.Equal(t, http.StatusConflict, status)

	status, env = app.do(t, http.MethodGet, "/api/v1/user/suggestions", user, nil)
	require.Equal(t, http.StatusOK, status)

	var mine []model.EventSuggestion
	decodeInto(t, env, &mine)
	require.Len(t, mine, 1)
	assert.Equal(t, model.Approved, mine[0].Status)
	assert.NotNil(t, mine[0].ReviewedAt)

	status, env = app.do(t, http.MethodGet, "/api/v1/admin/suggestions?status=pending", admin, nil)
	require.Equal(t, http.StatusOK, status)

	var pending []model.EventSuggestion
	decodeInto(t, env, &pending)
	assert.Len(t, pending, 1)
}

func TestIntegration_RSVPImportAndExport(t *testing.T) {
	app := newTestApp(t)
	admin := app.login(t, "admin@example.com", "admin123")

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("csvfile", "bootcamp.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("name,email,department,dietary_preferences,registration_date\n" +
		"Toby Flenderson,toby@company.com,HR,,2025-03-01\n" +
		"\"Holly Flax\",holly@company.com,HR,\"Vegan, no nuts\",\n"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, app.srv.URL+"/api/v1/admin/events/4/rsvps/import", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+admin)

	status, env := app.send(t, req)
	require.Equal(t, http.StatusOK, status, env.Message)

	var added []model.RSVP
	decodeInto(t, env, &added)
	require.Len(t, added, 2)
	assert.Equal(t, "Vegan, no nuts", added[1].DietaryPreferences)

	status, env = app.do(t, http.MethodGet, "/api/v1/admin/rsvps/departments", admin, nil)
	require.Equal(t, http.StatusOK, status)

	var departments []string
	decodeInto(t, env, &departments)
	assert.Contains(t, departments, "HR")

	req, err = http.NewRequest(http.MethodGet, app.srv.URL+"/api/v1/admin/rsvps/export", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+admin)

	resp, err := app.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "rsvps_")
	assert.Contains(t, string(body), "Toby Flenderson")
	assert.Contains(t, string(body), "\"Vegan, no nuts\"")
}

func TestIntegration_AnalyticsOverSeedData(t *testing.T) {
	app := newTestApp(t)
	admin := app.login(t, "admin@example.com", "admin123")

	status, env := app.do(t, http.MethodGet, "/api/v1/admin/analytics", admin, nil)
	require.Equal(t, http.StatusOK, status)

	var summary stats.Analytics
	decodeInto(t, env, &summary)
	assert.Equal(t, 5, summary.TotalEvents)
	assert.Equal(t, 16, summary.TotalRSVPs)
	assert.Equal(t, 7, summary.TotalFeedback)
	assert.Len(t, summary.EventPerformance, 5)
}

func jsonNumber(id uint) string {
	raw, _ := json.Marshal(id)
	return string(raw)
}
