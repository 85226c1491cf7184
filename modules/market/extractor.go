package market

import (
	"strings"

	"github.com/gaze-network/near-indexer/core/types"
	"github.com/gaze-network/near-indexer/modules/market/internal/entity"
	"github.com/mr-tron/base58"
	"github.com/samber/lo"
)

// ReceiptLogs is one successful receipt with the data the state machine needs from it.
type ReceiptLogs struct {
	Context entity.ReceiptContext
	Logs    []string
	// Actions holds the tracked account actions of the receipt, only filled when tracking is on.
	Actions []types.ActionView
}

// ExtractOptions narrows extraction.
type ExtractOptions struct {
	// Allowlist drops receipts executed on any other account when not empty.
	Allowlist map[string]struct{}
	// TrackAccounts keeps receipts carrying key or account actions even when they have no logs.
	TrackAccounts bool
}

// NewAllowlist builds the receiver set used by ExtractOptions.
func NewAllowlist(accounts []string) map[string]struct{} {
	if len(accounts) == 0 {
		return nil
	}
	return lo.SliceToMap(accounts, func(a string) (string, struct{}) {
		return a, struct{}{}
	})
}

// Extract returns the successful receipts of the block that have something to index.
// Shards without a chunk carry nothing new and are skipped.
func Extract(msg *types.StreamerMessage, opts ExtractOptions) []ReceiptLogs {
	timestamp := msg.Block.Header.Time()
	height := msg.Height()

	var receipts []ReceiptLogs
	for _, shard := range msg.Shards {
		if shard.Chunk == nil {
			continue
		}
		for _, outcome := range shard.ReceiptExecutionOutcomes {
			if !outcome.ExecutionOutcome.Outcome.Status.IsSuccess() {
				continue
			}
			receipt := outcome.Receipt
			if opts.Allowlist != nil {
				if _, ok := opts.Allowlist[receipt.ReceiverID]; !ok {
					continue
				}
			}

			logs := outcome.ExecutionOutcome.Outcome.Logs
			var actions []types.ActionView
			if opts.TrackAccounts {
				actions = trackedActions(receipt)
			}
			if len(logs) == 0 && len(actions) == 0 {
				continue
			}

			receipts = append(receipts, ReceiptLogs{
				Context: entity.ReceiptContext{
					ID:        receipt.ReceiptID,
					Sender:    receipt.PredecessorID,
					SenderPK:  signerPublicKey(receipt),
					Receiver:  receipt.ReceiverID,
					Timestamp: timestamp,
					Height:    height,
				},
				Logs:    logs,
				Actions: actions,
			})
		}
	}
	return receipts
}

func trackedActions(receipt types.ReceiptView) []types.ActionView {
	if receipt.Receipt.Action == nil {
		return nil
	}
	return lo.Filter(receipt.Receipt.Action.Actions, func(a types.ActionView, _ int) bool {
		switch a.Kind {
		case types.ActionAddKey:
			return a.AddKey != nil && a.AddKey.AccessKey.Permission.FullAccess
		case types.ActionDeleteKey:
			return a.DeleteKey != nil
		case types.ActionCreateAccount:
			return true
		case types.ActionDeleteAccount:
			return a.DeleteAccount != nil
		default:
			return false
		}
	})
}

// signerPublicKey returns the action receipt's signer key if it is a well-formed
// "<curve>:<base58>" NEAR public key.
func signerPublicKey(receipt types.ReceiptView) *string {
	if receipt.Receipt.Action == nil {
		return nil
	}
	key := receipt.Receipt.Action.SignerPublicKey
	if !IsPublicKey(key) {
		return nil
	}
	return &key
}

// IsPublicKey reports whether key is an ed25519 or secp256k1 NEAR public key.
func IsPublicKey(key string) bool {
	curve, encoded, ok := strings.Cut(key, ":")
	if !ok {
		return false
	}
	raw, err := base58.Decode(encoded)
	if err != nil {
		return false
	}
	switch curve {
	case "ed25519":
		return len(raw) == 32
	case "secp256k1":
		return len(raw) == 64
	default:
		return false
	}
}
