package telemetry

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.masonbuild.dev/mason/internal/adapters/telemetry/progrock"
	"go.masonbuild.dev/mason/internal/core/ports"
)

// TracerNodeID is the unique identifier for the tracer adapter Graft node.
const TracerNodeID graft.ID = "adapter.telemetry"

// envTelemetry selects the tracer backend. Unset or "none" disables
// tracing; "progrock" records spans as vertices on a tape.
const envTelemetry = "MASON_TELEMETRY"

func init() {
	graft.Register(graft.Node[ports.Tracer]{
		ID:        TracerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Tracer, error) {
			return NewTracer(os.Getenv(envTelemetry)), nil
		},
	})
}

// NewTracer creates the tracer for the given backend kind.
func NewTracer(kind string) ports.Tracer {
	switch kind {
	case "progrock":
		return progrock.New()
	default:
		return NewNoOpTracer()
	}
}
