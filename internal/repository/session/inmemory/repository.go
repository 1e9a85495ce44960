package inmemory

import (
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/ytlooper/server/internal/repository/session"
	"golang.org/x/exp/maps"
)

type repo struct {
	connList map[session.Conn]string
	idList   map[string]session.Conn
	mu       sync.RWMutex
	logger   *slog.Logger
}

func NewRepo(logger *slog.Logger) *repo {
	return &repo{
		connList: make(map[session.Conn]string),
		idList:   make(map[string]session.Conn),
		logger:   logger,
	}
}

func (r *repo) Add(conn session.Conn, sessionID string) error {
	funcName := "session.inmemory.Add"
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Debug(funcName, "session_id", sessionID)
	if _, ok := r.connList[conn]; ok {
		r.logger.Info(funcName, "error", session.ErrAlreadyExists)
		return session.ErrAlreadyExists
	}
	if _, ok := r.idList[sessionID]; ok {
		r.logger.Info(funcName, "error", session.ErrAlreadyExists)
		return session.ErrAlreadyExists
	}

	r.connList[conn] = sessionID
	r.idList[sessionID] = conn

	r.logger.Debug(funcName, "result", "OK")
	return nil
}

// RemoveByConn forgets conn without closing it.
func (r *repo) RemoveByConn(conn session.Conn) error {
	funcName := "session.inmemory.RemoveByConn"
	r.mu.Lock()
	defer r.mu.Unlock()

	sessionID, ok := r.connList[conn]
	if !ok {
		r.logger.Info(funcName, "error", session.ErrNotFound)
		return session.ErrNotFound
	}

	delete(r.connList, conn)
	delete(r.idList, sessionID)

	r.logger.Debug(funcName, "result", sessionID)
	return nil
}

// List returns the live session ids in sorted order.
func (r *repo) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := maps.Keys(r.idList)
	slices.Sort(ids)

	return ids
}

// CloseAll closes and forgets every registered conn.
func (r *repo) CloseAll() error {
	funcName := "session.inmemory.CloseAll"
	r.mu.Lock()
	conns := maps.Keys(r.connList)
	maps.Clear(r.connList)
	maps.Clear(r.idList)
	r.mu.Unlock()

	r.logger.Debug(funcName, "count", len(conns))

	var errs []error
	for _, conn := range conns {
		if err := conn.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
