package sqlite

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mirror/internal/adapters/config"
	"go.trai.ch/mirror/internal/adapters/memstore"
	"go.trai.ch/mirror/internal/core/ports"
)

// NodeID is the unique identifier for the entity store Graft node.
const NodeID graft.ID = "adapter.entity_store"

func init() {
	graft.Register(graft.Node[ports.EntityStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (ports.EntityStore, error) {
			cfg, err := graft.Dep[*config.Config](ctx)
			if err != nil {
				return nil, err
			}
			if cfg.Ephemeral {
				return memstore.New(), nil
			}
			return NewStore(cfg.StorePath), nil
		},
	})
}
