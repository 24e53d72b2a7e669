package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mirror/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/mirror/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/mirror/internal/adapters/platform"  //nolint:depguard // Wired in app layer
	"go.trai.ch/mirror/internal/adapters/sqlite"    //nolint:depguard // Wired in app layer
	"go.trai.ch/mirror/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/mirror/internal/core/ports"
	"go.trai.ch/mirror/internal/engine/accessor"
	"go.trai.ch/mirror/internal/engine/scheduler"
)

// NodeID is the unique identifier for the Cache Graft node.
const NodeID graft.ID = "app.cache"

type jsonSwitch interface {
	SetJSON(enable bool)
}

func init() {
	graft.Register(graft.Node[*Cache]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			config.PreferencesNodeID,
			logger.NodeID,
			sqlite.NodeID,
			platform.NodeID,
			telemetry.TracerNodeID,
			telemetry.MetricsNodeID,
			scheduler.NodeID,
		},
		Run: runCacheNode,
	})
}

func runCacheNode(ctx context.Context) (*Cache, error) {
	cfg, err := graft.Dep[*config.Config](ctx)
	if err != nil {
		return nil, err
	}

	prefs, err := graft.Dep[ports.DisplayPreferences](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	if sw, ok := log.(jsonSwitch); ok {
		sw.SetJSON(cfg.Log.JSON)
	}

	store, err := graft.Dep[ports.EntityStore](ctx)
	if err != nil {
		return nil, err
	}

	retrievers, err := graft.Dep[ports.Retrievers](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	metrics, err := graft.Dep[ports.Metrics](ctx)
	if err != nil {
		return nil, err
	}

	sched, err := graft.Dep[*scheduler.Scheduler](ctx)
	if err != nil {
		return nil, err
	}

	catalog, err := cfg.Catalog()
	if err != nil {
		return nil, err
	}

	rt := accessor.NewRuntime(accessor.Deps{
		Store:     store,
		Prefs:     prefs,
		Logger:    log,
		Tracer:    tracer,
		Metrics:   metrics,
		Scheduler: sched,
	})

	cache, err := New(catalog, retrievers, rt, log)
	if err != nil {
		return nil, err
	}
	if err := cache.Open(ctx); err != nil {
		return nil, err
	}
	return cache, nil
}
