package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"event-hub-backend/cmd/event-hub/logger"
	"event-hub-backend/cmd/event-hub/model"
)

type IUpdateRepo interface {
	RecordUpdate(ctx context.Context, eventID uint, message string, at time.Time) (model.EventUpdate, error)
	Deliver(ctx context.Context, update model.EventUpdate, userIDs []uint) ([]model.Notification, error)
	UpdatesForEvents(ctx context.Context, eventIDs []uint) ([]model.EventUpdate, error)
	ListNotifications(ctx context.Context, userID uint, eventIDs []uint) ([]model.Notification, error)
	CountUnread(ctx context.Context, userID uint, eventIDs []uint) (int64, error)
	MarkAllRead(ctx context.Context, userID uint, eventIDs []uint) (int64, error)
}

type IEnrollmentIndex interface {
	EnrolledUserIDs(ctx context.Context, eventID uint) ([]uint, error)
	EnrolledEventIDs(ctx context.Context, userID uint) ([]uint, error)
}

type Publisher interface {
	Publish(n model.Notification) int
}

// Relay records admin broadcasts and materializes them as notifications
// for the users enrolled in the event.
type Relay struct {
	updates     IUpdateRepo
	enrollments IEnrollmentIndex
	publisher   Publisher
	log         *logger.Logger
	now         func() time.Time
}

func NewRelay(updates IUpdateRepo, enrollments IEnrollmentIndex, publisher Publisher, log *logger.Logger) *Relay {
	return &Relay{
		updates:     updates,
		enrollments: enrollments,
		publisher:   publisher,
		log:         log.With("component", "relay"),
		now:         time.Now,
	}
}

// SendUpdate records the broadcast, hands one notification to each
// enrolled user and pushes it to anyone connected. An unknown event
// records nothing.
func (r *Relay) SendUpdate(ctx context.Context, eventID uint, message string) (model.EventUpdate, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return model.EventUpdate{}, model.ErrEmptyMessage
	}

	update, err := r.updates.RecordUpdate(ctx, eventID, message, r.now().UTC())
	if err != nil {
		return model.EventUpdate{}, err
	}

	userIDs, err := r.enrollments.EnrolledUserIDs(ctx, eventID)
	if err != nil {
		return update, fmt.Errorf("list recipients: %w", err)
	}

	created, err := r.updates.Deliver(ctx, update, userIDs)
	if err != nil {
		return update, fmt.Errorf("deliver update %d: %w", update.ID, err)
	}

	pushed := 0
	for _, n := range created {
		pushed += r.publisher.Publish(n)
	}

	r.log.Info("update sent",
		"event_id", eventID,
		"update_id", update.ID,
		"sent_to_count", update.SentToCount,
		"notified", len(created),
		"pushed", pushed,
	)

	return update, nil
}

// Notifications returns the user's inbox for the events they are enrolled
// in now, newest first.
func (r *Relay) Notifications(ctx context.Context, userID uint) ([]model.Notification, error) {
	eventIDs, err := r.sync(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(eventIDs) == 0 {
		return []model.Notification{}, nil
	}

	return r.updates.ListNotifications(ctx, userID, eventIDs)
}

// UnreadCount counts what Notifications would show as unread.
func (r *Relay) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	eventIDs, err := r.sync(ctx, userID)
	if err != nil || len(eventIDs) == 0 {
		return 0, err
	}

	return r.updates.CountUnread(ctx, userID, eventIDs)
}

// MarkAllRead marks read everything Notifications would show.
func (r *Relay) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	eventIDs, err := r.sync(ctx, userID)
	if err != nil || len(eventIDs) == 0 {
		return 0, err
	}

	return r.updates.MarkAllRead(ctx, userID, eventIDs)
}

// sync materializes updates sent before the user enrolled and returns the
// events whose notifications the user may see.
func (r *Relay) sync(ctx context.Context, userID uint) ([]uint, error) {
	eventIDs, err := r.enrollments.EnrolledEventIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(eventIDs) == 0 {
		return nil, nil
	}

	updates, err := r.updates.UpdatesForEvents(ctx, eventIDs)
	if err != nil {
		return nil, err
	}

	for _, u := range updates {
		created, err := r.updates.Deliver(ctx, u, []uint{userID})
		if err != nil {
			return nil, fmt.Errorf("sync update %d: %w", u.ID, err)
		}
		if len(created) > 0 {
			r.log.Debug("synced update", "user_id", userID, "update_id", u.ID)
		}
	}

	return eventIDs, nil
}
