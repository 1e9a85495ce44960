package controller

import "context"

type contextKey int

const (
	sessionCtxKey contextKey = iota
)

func withSession(ctx context.Context, s *session) context.Context {
	return context.WithValue(ctx, sessionCtxKey, s)
}

func (c controller) getSessionFromCtx(ctx context.Context) *session {
	s, ok := ctx.Value(sessionCtxKey).(*session)
	if !ok {
		return nil
	}

	return s
}
