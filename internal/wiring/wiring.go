// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.masonbuild.dev/mason/internal/adapters/logger"
	_ "go.masonbuild.dev/mason/internal/adapters/registry"
	_ "go.masonbuild.dev/mason/internal/adapters/telemetry"
	_ "go.masonbuild.dev/mason/internal/adapters/workspace"
	// Register app and engine nodes.
	_ "go.masonbuild.dev/mason/internal/app"
	_ "go.masonbuild.dev/mason/internal/engine/lock"
	_ "go.masonbuild.dev/mason/internal/engine/solver"
)
