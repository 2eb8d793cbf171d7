package activity

import (
	"context"

	"github.com/goliatone/go-page-composer/internal/logging"
	"github.com/goliatone/go-page-composer/pkg/interfaces"
)

// LogSink writes activity records to a logger. It is the default sink when no
// activity store is configured.
type LogSink struct {
	logger interfaces.Logger
}

var _ interfaces.ActivitySink = (*LogSink)(nil)

func NewLogSink(logger interfaces.Logger) *LogSink {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Log(_ context.Context, record interfaces.ActivityRecord) error {
	s.logger.Info("activity.recorded",
		"verb", record.Verb,
		"object_type", record.ObjectType,
		"object_id", record.ObjectID,
		"actor_id", record.ActorID.String(),
		"tenant_id", record.TenantID.String(),
		"channel", record.Channel,
		"data", record.Data,
	)
	return nil
}
