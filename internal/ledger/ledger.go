// Package ledger defines the adapter for the external staking/reward ledger:
// the collaborator that actually moves value. The coordinator only consults
// it; it never owns the record of value transfer.
package ledger

import (
	"context"
	"errors"

	"github.com/relaymesh/relaycoord/internal/models"
)

// ErrLedgerUnavailable wraps any transport or remote failure of the ledger.
// Callers map it to their own LEDGER_FAILURE surface.
var ErrLedgerUnavailable = errors.New("ledger unavailable")

// TxResult is the reference of an executed ledger transaction
type TxResult struct {
	TxRef string `json:"tx_ref"`
}

// ReleaseResult is the outcome of an unstake operation
type ReleaseResult struct {
	TxRef         string  `json:"tx_ref"`
	StakeReturned float64 `json:"stake_returned"`
}

// Ledger executes stake-lock, unstake, reward-payout and slash transactions.
// Every call may fail; callers decide whether a failure propagates
// (registration/deregistration) or is logged and skipped (per-node reward
// and slash batches).
type Ledger interface {
	// LockStake locks the node's stake as collateral
	LockStake(ctx context.Context, node models.RelayNode) (TxResult, error)

	// ReleaseStake releases the stake and pays out the final reward amount
	ReleaseStake(ctx context.Context, node models.RelayNode, rewardAmount float64) (ReleaseResult, error)

	// PayReward pays a periodic reward to the node's operator
	PayReward(ctx context.Context, node models.RelayNode, amount float64) (TxResult, error)

	// Slash removes the given amount from the node's locked stake
	Slash(ctx context.Context, node models.RelayNode, amount float64) (TxResult, error)

	// Close releases any underlying connections
	Close() error
}
