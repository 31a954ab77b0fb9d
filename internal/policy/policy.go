// Package policy answers "may this actor control this session?". It is the
// single implementation of the AuthorizationPolicy capability check consumed
// by the session and admission modules, so neither carries a hidden
// dependency on how controllers are resolved.
package policy

import (
	"context"
	"errors"

	"livegate/internal/session/models"
	id "livegate/pkg/domain"
	"livegate/pkg/platform/sentinel"
)

// SessionReader is the slice of the session store the policy needs.
type SessionReader interface {
	FindByID(ctx context.Context, sessionID id.SessionID) (models.LiveSession, error)
}

// HostPolicy grants control to the session's host plus a fixed set of
// operator accounts.
type HostPolicy struct {
	sessions  SessionReader
	operators map[id.UserID]struct{}
}

// NewHostPolicy builds the default policy. Operators may control any session.
func NewHostPolicy(sessions SessionReader, operators ...id.UserID) *HostPolicy {
	ops := make(map[id.UserID]struct{}, len(operators))
	for _, op := range operators {
		ops[op] = struct{}{}
	}
	return &HostPolicy{sessions: sessions, operators: ops}
}

// IsSessionController reports whether actor may control the session. Unknown
// sessions and anonymous actors are never controllers.
func (p *HostPolicy) IsSessionController(ctx context.Context, actor id.UserID, sessionID id.SessionID) (bool, error) {
	if actor.IsNil() {
		return false, nil
	}
	if _, ok := p.operators[actor]; ok {
		return true, nil
	}
	session, err := p.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return session.HostID == actor, nil
}
