// Package discovery advertises the coordinator itself in etcd so relay
// node operators and peer tooling can find it. The coordinator is a single
// logical service; discovery is presence, not leader election.
package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/relaymesh/relaycoord/internal/logging"
	"github.com/relaymesh/relaycoord/internal/models"
)

const keyPrefix = "/relaymesh/coordinators/"

// StatusFunc supplies the metrics snapshot embedded in the advertised record
type StatusFunc func() models.NetworkMetrics

// Record is the JSON value stored under the coordinator's etcd key
type Record struct {
	ID           string                `json:"id"`
	AdvertiseURL string                `json:"advertise_url"`
	StartedAt    time.Time             `json:"started_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
	Metrics      models.NetworkMetrics `json:"metrics"`
}

// Registration keeps one coordinator record alive in etcd under a lease
type Registration struct {
	client   *clientv3.Client
	leaseID  clientv3.LeaseID
	record   Record
	leaseTTL int64
	status   StatusFunc
	logger   *logging.Logger
}

// NewRegistration creates a registration for this coordinator instance
func NewRegistration(
	client *clientv3.Client,
	id, advertiseURL string,
	leaseTTL int64,
	status StatusFunc,
	logger *logging.Logger,
) *Registration {
	if leaseTTL <= 0 {
		leaseTTL = 10
	}

	return &Registration{
		client: client,
		record: Record{
			ID:           id,
			AdvertiseURL: advertiseURL,
			StartedAt:    time.Now().UTC(),
		},
		leaseTTL: leaseTTL,
		status:   status,
		logger:   logger,
	}
}

// Register writes the coordinator record under a lease and starts the
// keep-alive loop
func (r *Registration) Register(ctx context.Context) error {
	lease, err := r.client.Grant(ctx, r.leaseTTL)
	if err != nil {
		return fmt.Errorf("failed to create lease: %w", err)
	}
	r.leaseID = lease.ID

	if err := r.put(ctx); err != nil {
		return err
	}

	r.logger.Info("Coordinator registered in etcd",
		"key", r.key(),
		"lease_id", int64(r.leaseID),
		"ttl", r.leaseTTL)

	go r.keepAlive(ctx)

	return nil
}

// keepAlive maintains the lease and periodically refreshes the advertised
// metrics snapshot
func (r *Registration) keepAlive(ctx context.Context) {
	ch, err := r.client.KeepAlive(ctx, r.leaseID)
	if err != nil {
		r.logger.Error("Failed to start discovery keep-alive", "error", err)
		return
	}

	refresh := time.NewTicker(time.Duration(r.leaseTTL) * 3 * time.Second)
	defer refresh.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Discovery keep-alive stopped (context done)")
			return

		case ka, ok := <-ch:
			if !ok {
				r.logger.Warn("Discovery keep-alive channel closed, attempting re-registration")
				time.Sleep(2 * time.Second)
				if err := r.Register(ctx); err != nil {
					r.logger.Error("Failed to re-register coordinator", "error", err)
				}
				return
			}
			if ka == nil {
				continue
			}

		case <-refresh.C:
			if err := r.put(ctx); err != nil {
				r.logger.Error("Failed to refresh coordinator record", "error", err)
			}
		}
	}
}

// put writes the current record (with a fresh metrics snapshot) under the
// active lease
func (r *Registration) put(ctx context.Context) error {
	if r.status != nil {
		r.record.Metrics = r.status()
	}
	r.record.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(r.record)
	if err != nil {
		return fmt.Errorf("failed to marshal coordinator record: %w", err)
	}

	_, err = r.client.Put(ctx, r.key(), string(data), clientv3.WithLease(r.leaseID))
	if err != nil {
		return fmt.Errorf("failed to write coordinator record: %w", err)
	}

	return nil
}

// Deregister deletes the coordinator record and revokes the lease
func (r *Registration) Deregister(ctx context.Context) error {
	r.logger.Info("Deregistering coordinator from etcd", "key", r.key())

	_, err := r.client.Delete(ctx, r.key())
	if err != nil {
		r.logger.Error("Failed to delete coordinator key", "error", err)
	}

	if r.leaseID != 0 {
		if _, revokeErr := r.client.Revoke(ctx, r.leaseID); revokeErr != nil {
			r.logger.Error("Failed to revoke discovery lease", "error", revokeErr)
		}
	}

	return err
}

// List returns every registered coordinator record
func List(ctx context.Context, client *clientv3.Client) ([]Record, error) {
	resp, err := client.Get(ctx, keyPrefix, clientv3.WithPrefix())
	if err != nil {
		return nil, fmt.Errorf("failed to list coordinators: %w", err)
	}

	records := make([]Record, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		var rec Record
		if err := json.Unmarshal(kv.Value, &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func (r *Registration) key() string {
	return keyPrefix + r.record.ID
}
