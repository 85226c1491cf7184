package market

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-indexer/modules/market/internal/entity"
	"github.com/gaze-network/near-indexer/pkg/enrichment"
)

type ftMintLog struct {
	OwnerID string  `json:"owner_id"`
	Amount  U128    `json:"amount"`
	Memo    *string `json:"memo"`
}

type ftTransferLog struct {
	OldOwnerID string  `json:"old_owner_id"`
	NewOwnerID string  `json:"new_owner_id"`
	Amount     U128    `json:"amount"`
	Memo       *string `json:"memo"`
}

type ftBurnLog struct {
	OwnerID string  `json:"owner_id"`
	Amount  U128    `json:"amount"`
	Memo    *string `json:"memo"`
}

func (sm *StateMachine) FtMint(ctx context.Context, rc entity.ReceiptContext, data json.RawMessage) error {
	var logs []ftMintLog
	if err := decodePayload(data, &logs); err != nil {
		return errors.WithStack(err)
	}
	movements := make([]entity.FtMovement, 0, len(logs))
	for _, log := range logs {
		movements = append(movements, entity.FtMovement{
			Kind:       entity.FtActivityKindMint,
			NewOwnerID: log.OwnerID,
			Amount:     log.Amount.Uint128,
			Memo:       log.Memo,
		})
	}
	return errors.WithStack(sm.applyFtMovements(ctx, rc, movements))
}

func (sm *StateMachine) FtTransfer(ctx context.Context, rc entity.ReceiptContext, data json.RawMessage) error {
	var logs []ftTransferLog
	if err := decodePayload(data, &logs); err != nil {
		return errors.WithStack(err)
	}
	movements := make([]entity.FtMovement, 0, len(logs))
	for _, log := range logs {
		movements = append(movements, entity.FtMovement{
			Kind:       entity.FtActivityKindTransfer,
			OldOwnerID: log.OldOwnerID,
			NewOwnerID: log.NewOwnerID,
			Amount:     log.Amount.Uint128,
			Memo:       log.Memo,
		})
	}
	return errors.WithStack(sm.applyFtMovements(ctx, rc, movements))
}

func (sm *StateMachine) FtBurn(ctx context.Context, rc entity.ReceiptContext, data json.RawMessage) error {
	var logs []ftBurnLog
	if err := decodePayload(data, &logs); err != nil {
		return errors.WithStack(err)
	}
	movements := make([]entity.FtMovement, 0, len(logs))
	for _, log := range logs {
		movements = append(movements, entity.FtMovement{
			Kind:       entity.FtActivityKindBurn,
			OldOwnerID: log.OwnerID,
			Amount:     log.Amount.Uint128,
			Memo:       log.Memo,
		})
	}
	return errors.WithStack(sm.applyFtMovements(ctx, rc, movements))
}

// applyFtMovements books each movement once: the store only moves balances when the movement's
// activity row is new, so a redelivered receipt doesn't count twice.
func (sm *StateMachine) applyFtMovements(ctx context.Context, rc entity.ReceiptContext, movements []entity.FtMovement) error {
	sm.notifier.Notify(ctx, enrichment.ContractPayload{ContractID: rc.Receiver})

	for i, m := range movements {
		m.ReceiptID = rc.ID
		m.LogIndex = rc.LogIndex
		m.ItemIndex = i
		m.Timestamp = rc.Timestamp
		m.FtContract = rc.Receiver
		if err := sm.dg.ApplyFtMovement(ctx, m); err != nil {
			return errors.Wrapf(err, "failed to apply ft %s", m.Kind)
		}
	}
	return nil
}
