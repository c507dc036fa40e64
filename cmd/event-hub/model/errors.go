package model

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrMissingFields        = errors.New("please fill out all required fields")
	ErrEmptyMessage         = errors.New("update message cannot be empty")
	ErrInvalidRating        = errors.New("rating must be between 1 and 5")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrAlreadyEnrolled      = errors.New("you are already enrolled in this event")
	ErrEventFull            = errors.New("event is fully booked")
	ErrNotAttended          = errors.New("feedback is only accepted for attended events")
	ErrNoCertificate        = errors.New("certificates are only issued for attended events")
	ErrInvalidTransition    = errors.New("enrollment is no longer upcoming")
	ErrSuggestionNotPending = errors.New("suggestion has already been reviewed")
	ErrPasswordMismatch     = errors.New("passwords do not match")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrEmailTaken           = errors.New("email is already registered")
)
