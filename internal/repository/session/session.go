package session

import "errors"

var (
	ErrNotFound      = errors.New("session not found")
	ErrAlreadyExists = errors.New("session already exists")
)

// Conn is a live page connection.
type Conn interface {
	Close() error
}
