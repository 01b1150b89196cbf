package utils

import "errors"

var (
	// form
	ErrUnknownField      = errors.New("unknown form field")
	ErrInvalidFieldValue = errors.New("invalid form field value")
	ErrUnknownSubject    = errors.New("unknown preferred subject")
	ErrInvalidForm       = errors.New("invalid form state")

	// submission
	ErrSubmissionInFlight     = errors.New("a submission is already in progress")
	ErrRecommenderUnavailable = errors.New("recommender unavailable")
	ErrUndecodableResponse    = errors.New("recommender response could not be decoded")

	// export
	ErrNoSchedule        = errors.New("no schedule to export")
	ErrUnsupportedFormat = errors.New("unsupported export format")

	// listing / storage
	ErrInvalidPage     = errors.New("invalid page parameter")
	ErrInvalidPageSize = errors.New("invalid page size parameter")
	ErrDatabaseError   = errors.New("database error")
	ErrSessionStore    = errors.New("session store error")
)
