package ledger

import (
	"fmt"
	"strings"

	"github.com/relaymesh/relaycoord/internal/config"
)

// NewLedger creates a Ledger instance based on configuration.
// Default is NATS if type is not specified.
func NewLedger(cfg config.LedgerConfig) (Ledger, error) {
	switch strings.ToLower(cfg.Type) {
	case "", "nats":
		return NewNATSLedger(cfg.URL, cfg.SubjectPrefix, cfg.Timeout)

	case "memory":
		return NewMemoryLedger(), nil

	default:
		return nil, fmt.Errorf("unsupported ledger type: %s (supported: nats, memory)", cfg.Type)
	}
}
