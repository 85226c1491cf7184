package market

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-indexer/core/types"
	"github.com/gaze-network/near-indexer/modules/market/datagateway"
	"github.com/gaze-network/near-indexer/modules/market/internal/entity"
)

// TrackAction records a full-access key or account lifecycle action on the receipt's receiver.
func (sm *StateMachine) TrackAction(ctx context.Context, rc entity.ReceiptContext, action types.ActionView) error {
	switch action.Kind {
	case types.ActionAddKey:
		if action.AddKey == nil || !action.AddKey.AccessKey.Permission.FullAccess {
			return nil
		}
		if err := sm.dg.InsertAccessKey(ctx, entity.AccessKey{
			AccountID:        rc.Receiver,
			PublicKey:        action.AddKey.PublicKey,
			CreatedAt:        rc.Timestamp,
			CreatedReceiptID: rc.ID,
		}); err != nil {
			return errors.Wrap(err, "failed to insert access key")
		}
	case types.ActionDeleteKey:
		if action.DeleteKey == nil {
			return nil
		}
		if err := sm.dg.RemoveAccessKey(ctx, datagateway.RemoveAccessKeyParams{
			AccountID: rc.Receiver,
			PublicKey: action.DeleteKey.PublicKey,
			ReceiptID: rc.ID,
			Timestamp: rc.Timestamp,
		}); err != nil {
			return errors.Wrap(err, "failed to remove access key")
		}
	case types.ActionCreateAccount:
		if err := sm.dg.InsertAccount(ctx, entity.Account{
			AccountID:        rc.Receiver,
			CreatedAt:        rc.Timestamp,
			CreatedReceiptID: rc.ID,
		}); err != nil {
			return errors.Wrap(err, "failed to insert account")
		}
	case types.ActionDeleteAccount:
		if action.DeleteAccount == nil {
			return nil
		}
		if err := sm.dg.RemoveAccount(ctx, datagateway.RemoveAccountParams{
			AccountID:     rc.Receiver,
			BeneficiaryID: action.DeleteAccount.BeneficiaryID,
			ReceiptID:     rc.ID,
			Timestamp:     rc.Timestamp,
		}); err != nil {
			return errors.Wrap(err, "failed to remove account")
		}
	}
	return nil
}
