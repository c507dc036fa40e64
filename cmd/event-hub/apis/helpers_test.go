package apis

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"event-hub-backend/cmd/event-hub/auth"
	"event-hub-backend/cmd/event-hub/model"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func signIn(c echo.Context, userID uint, role model.Role) {
	c.Set(identityKey, auth.Identity{
		UserID: userID,
		Email:  "user@example.com",
		Role:   role,
	})
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) model.BaseResponse {
	t.Helper()

	var response model.BaseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))

	return response
}

// decodeData re-decodes the envelope's data into out.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}
