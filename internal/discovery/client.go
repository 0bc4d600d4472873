package discovery

import (
	"fmt"

	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/relaymesh/relaycoord/internal/config"
)

// NewClient creates an etcd client from configuration
func NewClient(cfg config.EtcdConfig) (*clientv3.Client, error) {
	client, err := clientv3.New(clientv3.Config{
		Endpoints:   cfg.Endpoints,
		DialTimeout: cfg.DialTimeout,
		Username:    cfg.Username,
		Password:    cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to etcd: %w", err)
	}
	return client, nil
}
