package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"event-hub-backend/cmd/event-hub/model"

	"gorm.io/gorm"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{
		db: db,
	}
}

func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (model.User, error) {

	var user model.User

	result := r.db.
		WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user)

	if result.Error != nil {
		return model.User{}, notFound(result.Error)
	}

	return user, nil
}

func (r *UserRepo) GetUser(ctx context.Context, id uint) (model.User, error) {

	var user model.User

	result := r.db.
		WithContext(ctx).
		First(&user, "id = ?", id)

	if result.Error != nil {
		return model.User{}, notFound(result.Error)
	}

	return user, nil
}

// CreateUser stores a new account. Emails are compared lower-cased.
func (r *UserRepo) CreateUser(ctx context.Context, user model.User) (model.User, error) {

	now := time.Now().UTC()
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.CreateDate = now
	user.UpdateDate = now

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return model.ErrEmailTaken
		}

		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return model.ErrEmailTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		return model.User{}, err
	}

	return user, nil
}

func (r *UserRepo) UpdateProfile(ctx context.Context, id uint, req model.ProfileUpdateRequest) (model.User, error) {

	result := r.db.
		WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"full_name":              strings.TrimSpace(req.FullName),
			"phone":                  req.Phone,
			"department":             req.Department,
			"designation":            req.Designation,
			"dietary_preferences":    req.DietaryPreferences,
			"bio":                    req.Bio,
			"profile_image":          req.ProfileImage,
			"pref_email":             req.Preferences.Email,
			"pref_in_app":            req.Preferences.InApp,
			"pref_event_reminders":   req.Preferences.EventReminders,
			"pref_feedback_requests": req.Preferences.FeedbackRequests,
			"pref_newsletter":        req.Preferences.Newsletter,
			"update_date":            time.Now().UTC(),
		})

	if result.Error != nil {
		return model.User{}, result.Error
	}
	if result.RowsAffected == 0 {
		return model.User{}, model.ErrNotFound
	}

	return r.GetUser(ctx, id)
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id uint, hash string) error {

	result := r.db.
		WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"password_hash": hash,
			"update_date":   time.Now().UTC(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}

	return nil
}
