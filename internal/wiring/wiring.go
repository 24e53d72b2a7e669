// Package wiring registers all Graft nodes for the cache subsystem.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/mirror/internal/adapters/config"
	_ "go.trai.ch/mirror/internal/adapters/logger"
	_ "go.trai.ch/mirror/internal/adapters/platform"
	_ "go.trai.ch/mirror/internal/adapters/sqlite"
	_ "go.trai.ch/mirror/internal/adapters/telemetry"
	// Register app and engine nodes.
	_ "go.trai.ch/mirror/internal/app"
	_ "go.trai.ch/mirror/internal/engine/scheduler"
)
