package attendance

import (
	"context"
	"log/slog"

	"livegate/internal/platform/kafka"
	id "livegate/pkg/domain"
	dErrors "livegate/pkg/domain-errors"
	"livegate/pkg/requestcontext"
)

// Service appends attendance records and fans them out to the event
// pipeline. The store write is the critical path; publishing is best-effort
// and a publish failure never fails the admission that produced it.
type Service struct {
	store     Store
	publisher kafka.Publisher
	topic     string
	logger    *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithPublisher attaches the Kafka event publisher.
func WithPublisher(p kafka.Publisher, topic string) Option {
	return func(s *Service) {
		s.publisher = p
		s.topic = topic
	}
}

// NewService constructs the attendance service.
func NewService(store Store, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{store: store, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecordJoin appends one attendance record. Written exactly once per
// successful admission; the caller guarantees it is never invoked for a
// failed mint.
func (s *Service) RecordJoin(ctx context.Context, record Record) error {
	if record.JoinedAt.IsZero() {
		record.JoinedAt = requestcontext.Now(ctx)
	}
	if err := s.store.Append(ctx, record); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record attendance")
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, s.topic, record.SessionID.String(), record); err != nil {
			s.logger.WarnContext(ctx, "attendance event publish failed",
				"session_id", record.SessionID,
				"role", record.Role,
				"error", err,
			)
		}
	}
	return nil
}

// ListBySession returns the attendance log for a session in join order.
func (s *Service) ListBySession(ctx context.Context, sessionID id.SessionID) ([]Record, error) {
	records, err := s.store.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list attendance")
	}
	return records, nil
}
