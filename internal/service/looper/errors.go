package looper

import "errors"

var (
	ErrValidation     = errors.New("validation error")
	ErrNotReady       = errors.New("player not ready")
	ErrClosed         = errors.New("controller closed")
	ErrAlreadyStarted = errors.New("controller already started")
)

// Error is a rejection shown to the user as is.
type Error struct {
	kind    error
	message string
}

func (e *Error) Error() string {
	return e.message
}

func (e *Error) Unwrap() error {
	return e.kind
}

var (
	ErrEmptyURL          = &Error{ErrValidation, "Please enter a YouTube URL"}
	ErrInvalidURL        = &Error{ErrValidation, "Invalid YouTube URL. Please enter a valid YouTube video URL."}
	ErrInvalidNumbers    = &Error{ErrValidation, "Please enter valid numbers for start and end times"}
	ErrNegativeTimes     = &Error{ErrValidation, "Times cannot be negative"}
	ErrStartNotBeforeEnd = &Error{ErrValidation, "Start time must be less than end time"}
	ErrInvalidLoopPoints = &Error{ErrValidation, "Please set valid loop points first"}
	ErrPlayerNotReady    = &Error{ErrNotReady, "Player not ready yet. Please wait a moment and try again."}
)
