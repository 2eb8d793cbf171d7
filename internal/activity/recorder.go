// Package activity turns definition writes into go-users activity records.
package activity

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-page-composer/internal/logging"
	"github.com/goliatone/go-page-composer/pkg/interfaces"
)

// Channel tags every record emitted by the composer.
const Channel = "composer"

const (
	VerbSave = "save"

	ObjectPage    = "page_definition"
	ObjectSection = "section_definition"
)

// Event describes one change to a definition. Actor and tenant are free-form;
// values that parse as UUIDs land in the typed record fields.
type Event struct {
	Verb       string
	Actor      string
	Tenant     string
	ObjectType string
	ObjectID   string
	Metadata   map[string]any
	OccurredAt time.Time
}

// Recorder forwards events to a sink. A nil Recorder or sink records nothing.
type Recorder struct {
	sink   interfaces.ActivitySink
	logger interfaces.Logger
	now    func() time.Time
}

// Option configures a Recorder.
type Option func(*Recorder)

func WithLogger(logger interfaces.Logger) Option {
	return func(r *Recorder) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithClock overrides the timestamp source used when an event has none.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) {
		if now != nil {
			r.now = now
		}
	}
}

func NewRecorder(sink interfaces.ActivitySink, opts ...Option) *Recorder {
	r := &Recorder{
		sink:   sink,
		logger: logging.NoOp(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record hands the event to the sink. Sink failures are logged, never returned.
func (r *Recorder) Record(ctx context.Context, event Event) {
	if r == nil || r.sink == nil || strings.TrimSpace(event.Verb) == "" {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = r.now().UTC()
	}
	record := ToRecord(event)
	if err := r.sink.Log(ctx, record); err != nil {
		r.logger.Warn("activity.record.failed",
			"verb", record.Verb,
			"object_type", record.ObjectType,
			"object_id", record.ObjectID,
			"error", err,
		)
	}
}

// ToRecord maps an event onto the go-users record shape.
func ToRecord(event Event) interfaces.ActivityRecord {
	data := make(map[string]any, len(event.Metadata)+2)
	for key, value := range event.Metadata {
		data[key] = value
	}
	record := interfaces.ActivityRecord{
		Verb:       strings.TrimSpace(event.Verb),
		ObjectType: event.ObjectType,
		ObjectID:   event.ObjectID,
		Channel:    Channel,
		OccurredAt: event.OccurredAt,
	}
	if id, ok := parseID(event.Actor); ok {
		record.ActorID = id
	} else if actor := strings.TrimSpace(event.Actor); actor != "" {
		data["actor"] = actor
	}
	if id, ok := parseID(event.Tenant); ok {
		record.TenantID = id
	} else if tenant := strings.TrimSpace(event.Tenant); tenant != "" {
		data["organization_scope"] = tenant
	}
	record.Data = data
	return record
}

func parseID(value string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}
