package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mirror/internal/adapters/logger"
	"go.trai.ch/mirror/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the configuration Graft node.
	NodeID graft.ID = "adapter.config"
	// PreferencesNodeID is the unique identifier for the display preferences Graft node.
	PreferencesNodeID graft.ID = "adapter.display_preferences"
)

func init() {
	graft.Register(graft.Node[*Config]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (*Config, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(log).Load(Path())
		},
	})

	graft.Register(graft.Node[ports.DisplayPreferences]{
		ID:        PreferencesNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{NodeID},
		Run: func(ctx context.Context) (ports.DisplayPreferences, error) {
			cfg, err := graft.Dep[*Config](ctx)
			if err != nil {
				return nil, err
			}
			return NewPreferences(cfg), nil
		},
	})
}
