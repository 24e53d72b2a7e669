package platform

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mirror/internal/adapters/config"
	"go.trai.ch/mirror/internal/core/ports"
)

// NodeID provides the retrievers backed by the platform API.
const NodeID graft.ID = "adapter.platform"

func init() {
	graft.Register(graft.Node[ports.Retrievers]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (ports.Retrievers, error) {
			cfg, err := graft.Dep[*config.Config](ctx)
			if err != nil {
				return ports.Retrievers{}, err
			}

			var creds ports.CredentialSource
			if cfg.Platform.Token != "" {
				creds = StaticCredentials(cfg.Platform.Token)
			}

			client, err := NewClient(creds, cfg.Platform.BaseURL)
			if err != nil {
				return ports.Retrievers{}, err
			}
			return New(client).Retrievers(), nil
		},
	})
}
