package driven

import "context"

// SchemaInspector reports the applied schema migration state.
type SchemaInspector interface {
	SchemaVersion(ctx context.Context) (version uint, dirty bool, err error)
}
