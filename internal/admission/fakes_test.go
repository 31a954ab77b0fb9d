package admission

import (
	"context"
	"sync"

	"livegate/internal/admission/ports"
	"livegate/internal/attendance"
	"livegate/internal/session/models"
	id "livegate/pkg/domain"
	"livegate/pkg/platform/sentinel"
)

type fakeSessionReader struct {
	sessions map[id.SessionID]models.LiveSession
	err      error
}

func newFakeSessionReader(sessions ...models.LiveSession) *fakeSessionReader {
	r := &fakeSessionReader{sessions: make(map[id.SessionID]models.LiveSession)}
	for _, s := range sessions {
		r.sessions[s.ID] = s
	}
	return r
}

func (r *fakeSessionReader) FindByID(_ context.Context, sessionID id.SessionID) (models.LiveSession, error) {
	if r.err != nil {
		return models.LiveSession{}, r.err
	}
	sess, ok := r.sessions[sessionID]
	if !ok {
		return models.LiveSession{}, sentinel.ErrNotFound
	}
	return sess, nil
}

type fakePolicy struct {
	controllers map[id.UserID]bool
	err         error
}

func (p *fakePolicy) IsSessionController(_ context.Context, actor id.UserID, _ id.SessionID) (bool, error) {
	if p.err != nil {
		return false, p.err
	}
	return p.controllers[actor], nil
}

type fakeMembership struct {
	active map[id.UserID]bool
	err    error
	calls  int
}

func (m *fakeMembership) HasActiveSubscription(_ context.Context, user id.UserID) (bool, error) {
	m.calls++
	if m.err != nil {
		return false, m.err
	}
	return m.active[user], nil
}

type fakeProvider struct {
	token string
	err   error

	mu    sync.Mutex
	last  ports.MintJoinRequest
	calls int
}

func (p *fakeProvider) MintJoinToken(_ context.Context, req ports.MintJoinRequest) (string, error) {
	p.mu.Lock()
	p.last = req
	p.calls++
	p.mu.Unlock()
	if p.err != nil {
		return "", p.err
	}
	return p.token, nil
}

func (p *fakeProvider) lastRequest() ports.MintJoinRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

func (p *fakeProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type fakeRecorder struct {
	mu      sync.Mutex
	records []attendance.Record
	err     error
}

func (r *fakeRecorder) RecordJoin(_ context.Context, record attendance.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.records = append(r.records, record)
	return nil
}

func (r *fakeRecorder) recorded() []attendance.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]attendance.Record(nil), r.records...)
}
