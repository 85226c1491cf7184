package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-indexer/modules/market/datagateway"
	"github.com/gaze-network/near-indexer/modules/market/internal/entity"
	"github.com/gaze-network/near-indexer/modules/market/repository/postgres/gen"
)

// ApplyFtMovement records the movement and moves balances in one transaction. Balances only
// move when the activity row is new, so a redelivered log is a no-op.
func (r *Repository) ApplyFtMovement(ctx context.Context, movement entity.FtMovement) (err error) {
	params, err := mapFtActivityTypeToParams(movement)
	if err != nil {
		return errors.Wrap(err, "failed to map ft movement to params")
	}

	tx, err := r.begin(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
			err = errors.Join(err, rollbackErr)
		}
	}()

	inserted, err := tx.queries.InsertFtActivity(ctx, params)
	if err != nil {
		return errors.Wrap(err, "error during exec")
	}
	if inserted == 0 {
		return nil
	}

	if movement.OldOwnerID != "" {
		if err := tx.queries.DebitFtBalance(ctx, gen.DebitFtBalanceParams{
			FtContractID: movement.FtContract,
			OwnerID:      movement.OldOwnerID,
			Amount:       params.Amount,
		}); err != nil {
			return errors.Wrap(err, "failed to debit balance")
		}
	}
	if movement.NewOwnerID != "" {
		if err := tx.queries.CreditFtBalance(ctx, gen.CreditFtBalanceParams{
			FtContractID: movement.FtContract,
			OwnerID:      movement.NewOwnerID,
			Amount:       params.Amount,
		}); err != nil {
			return errors.Wrap(err, "failed to credit balance")
		}
	}
	return errors.WithStack(tx.Commit(ctx))
}

func (r *Repository) InsertAccessKey(ctx context.Context, key entity.AccessKey) error {
	if err := r.queries.InsertAccessKey(ctx, gen.InsertAccessKeyParams{
		AccountID:        key.AccountID,
		PublicKey:        key.PublicKey,
		CreatedAt:        timestamptz(key.CreatedAt),
		CreatedReceiptID: key.CreatedReceiptID,
	}); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) RemoveAccessKey(ctx context.Context, arg datagateway.RemoveAccessKeyParams) error {
	if err := r.queries.RemoveAccessKey(ctx, gen.RemoveAccessKeyParams{
		Timestamp: timestamptz(arg.Timestamp),
		ReceiptID: text(arg.ReceiptID),
		AccountID: arg.AccountID,
		PublicKey: arg.PublicKey,
	}); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) InsertAccount(ctx context.Context, account entity.Account) error {
	if err := r.queries.InsertAccount(ctx, gen.InsertAccountParams{
		AccountID:        account.AccountID,
		CreatedAt:        timestamptz(account.CreatedAt),
		CreatedReceiptID: account.CreatedReceiptID,
	}); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) RemoveAccount(ctx context.Context, arg datagateway.RemoveAccountParams) error {
	if err := r.queries.RemoveAccount(ctx, gen.RemoveAccountParams{
		Timestamp:     timestamptz(arg.Timestamp),
		ReceiptID:     text(arg.ReceiptID),
		BeneficiaryID: text(arg.BeneficiaryID),
		AccountID:     arg.AccountID,
	}); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}
