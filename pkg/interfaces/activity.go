package interfaces

import (
	"context"

	usertypes "github.com/goliatone/go-users/pkg/types"
)

// ActivityRecord is the go-users activity record emitted for definition writes.
type ActivityRecord = usertypes.ActivityRecord

// ActivitySink receives activity records. A go-users activity store satisfies it.
type ActivitySink interface {
	Log(ctx context.Context, record ActivityRecord) error
}
