package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/relaymesh/relaycoord/internal/models"
)

// MemoryLedger is an in-process ledger for testing and development.
// It records every transaction and can be primed to fail.
type MemoryLedger struct {
	mu      sync.Mutex
	txs     []RecordedTx
	failOps map[string]error // op name -> error to return
}

// RecordedTx is one transaction seen by the memory ledger
type RecordedTx struct {
	Op     string
	NodeID string
	Amount float64
	TxRef  string
}

// NewMemoryLedger creates an in-process ledger
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		failOps: make(map[string]error),
	}
}

// FailOp makes all subsequent calls of the given op ("stake_lock",
// "stake_release", "reward_pay", "slash") return err. A nil err clears it.
func (l *MemoryLedger) FailOp(op string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err == nil {
		delete(l.failOps, op)
		return
	}
	l.failOps[op] = err
}

// Transactions returns a copy of all recorded transactions
func (l *MemoryLedger) Transactions() []RecordedTx {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]RecordedTx(nil), l.txs...)
}

func (l *MemoryLedger) execute(op, nodeID string, amount float64) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.failOps[op]; err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrLedgerUnavailable, op, err)
	}

	txRef := uuid.New().String()
	l.txs = append(l.txs, RecordedTx{Op: op, NodeID: nodeID, Amount: amount, TxRef: txRef})
	return txRef, nil
}

// LockStake locks the node's stake
func (l *MemoryLedger) LockStake(ctx context.Context, node models.RelayNode) (TxResult, error) {
	txRef, err := l.execute("stake_lock", node.ID, node.StakeAmount)
	if err != nil {
		return TxResult{}, err
	}
	return TxResult{TxRef: txRef}, nil
}

// ReleaseStake returns the full remaining stake plus the final reward
func (l *MemoryLedger) ReleaseStake(ctx context.Context, node models.RelayNode, rewardAmount float64) (ReleaseResult, error) {
	txRef, err := l.execute("stake_release", node.ID, rewardAmount)
	if err != nil {
		return ReleaseResult{}, err
	}
	return ReleaseResult{TxRef: txRef, StakeReturned: node.StakeAmount}, nil
}

// PayReward pays a periodic reward
func (l *MemoryLedger) PayReward(ctx context.Context, node models.RelayNode, amount float64) (TxResult, error) {
	txRef, err := l.execute("reward_pay", node.ID, amount)
	if err != nil {
		return TxResult{}, err
	}
	return TxResult{TxRef: txRef}, nil
}

// Slash removes the given amount from the node's stake
func (l *MemoryLedger) Slash(ctx context.Context, node models.RelayNode, amount float64) (TxResult, error) {
	txRef, err := l.execute("slash", node.ID, amount)
	if err != nil {
		return TxResult{}, err
	}
	return TxResult{TxRef: txRef}, nil
}

// Close is a no-op for the memory ledger
func (l *MemoryLedger) Close() error {
	return nil
}
