package apis

import (
	"net/http"
	"testing"

	"event-hub-backend/cmd/event-hub/auth"
	"event-hub-backend/cmd/event-hub/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProfileAPI_Get(t *testing.T) {
	c, rec := newJSONContext(http.MethodGet, "/api/v1/user/profile", "")
	signIn(c, 2, model.RoleUser)

	users := new(MockUserRepo)
	api := NewProfileAPI(users)

	users.On("GetUser", mock.Anything, uint(2)).Return(janeSmith, nil)

	err := api.getProfile(c)

	assert.NoError(t, err)

	var user model.User
	decodeData(t, rec, &user)
	assert.Equal(t, "Engineering", user.Department)
}

func TestProfileAPI_Update(t *testing.T) {
	c, rec := newJSONContext(http.MethodPut, "/api/v1/user/profile", `{
		"full_name": "Jane Smith",
		"department": "Data",
		"notification_preferences": {"email": false, "in_app": true}
	}`)
	signIn(c, 2, model.RoleUser)

	users := new(MockUserRepo)
	api := NewProfileAPI(users)

	users.On("UpdateProfile", mock.Anything, uint(2), mock.MatchedBy(func(req model.ProfileUpdateRequest) bool {
		return req.Department == "Data" && req.Preferences.InApp && !req.Preferences.Email
	})).Return(model.User{ID: 2, FullName: "Jane Smith", Department: "Data"}, nil)

	err := api.updateProfile(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	users.AssertExpectations(t)
}

func TestProfileAPI_Update_MissingName(t *testing.T) {
	c, rec := newJSONContext(http.MethodPut, "/api/v1/user/profile", `{"department": "Data"}`)
	signIn(c, 2, model.RoleUser)

	users := new(MockUserRepo)
	api := NewProfileAPI(users)

	err := api.updateProfile(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	users.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything)
}

func TestProfileAPI_ChangePassword(t *testing.T) {
	hash, err := auth.HashPassword("user123")
	require.NoError(t, err)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantUpdate bool
	}{
		{
			name:       "changed",
			body:       `{"current_password": "user123", "new_password": "n3w", "confirm_password": "n3w"}`,
			wantStatus: http.StatusOK,
			wantUpdate: true,
		},
		{
			name:       "wrong current password",
			body:       `{"current_password": "guess", "new_password": "n3w", "confirm_password": "n3w"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "confirmation mismatch",
			body:       `{"current_password": "user123", "new_password": "n3w", "confirm_password": "new"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newJSONContext(http.MethodPut, "/api/v1/user/profile/password", tt.body)
			signIn(c, 2, model.RoleUser)

			users := new(MockUserRepo)
			api := NewProfileAPI(users)

			users.On("GetUser", mock.Anything, uint(2)).Return(model.User{ID: 2, PasswordHash: hash}, nil).Maybe()
			users.On("UpdatePassword", mock.Anything, uint(2), mock.MatchedBy(func(h string) bool {
				return auth.CheckPassword(h, "n3w") == nil
			})).Return(nil).Maybe()

			err := api.changePassword(c)

			assert.NoError(t, err)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantUpdate {
				users.AssertCalled(t, "UpdatePassword", mock.Anything, uint(2), mock.Anything)
			} else {
				users.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}
