package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-indexer/modules/market/datagateway"
	"github.com/gaze-network/near-indexer/modules/market/internal/entity"
	"github.com/gaze-network/near-indexer/modules/market/repository/postgres/gen"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/samber/lo"
)

// UpsertMintedTokens deduplicates token ids: an upsert must not touch the same row twice in one statement.
func (r *Repository) UpsertMintedTokens(ctx context.Context, arg datagateway.UpsertMintedTokensParams) error {
	var percent pgtype.Int4
	if arg.RoyaltiesPercent != nil {
		percent = pgtype.Int4{Int32: *arg.RoyaltiesPercent, Valid: true}
	}
	if err := r.queries.UpsertMintedTokens(ctx, gen.UpsertMintedTokensParams{
		NftContractID:    arg.NftContractID,
		TokenIds:         lo.Uniq(arg.TokenIDs),
		Owner:            arg.Owner,
		Minter:           arg.Minter,
		MintMemo:         textFromPtr(arg.Memo),
		Royalties:        jsonb(arg.Royalties),
		RoyaltiesPercent: percent,
		Splits:           jsonb(arg.Splits),
		ReceiptID:        arg.ReceiptID,
		Timestamp:        timestamptz(arg.Timestamp),
	}); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) TransferTokens(ctx context.Context, arg datagateway.TransferTokensParams) error {
	if err := r.queries.TransferTokens(ctx, gen.TransferTokensParams{
		NftContractID: arg.NftContractID,
		TokenIds:      lo.Uniq(arg.TokenIDs),
		NewOwner:      arg.NewOwner,
		ReceiptID:     arg.ReceiptID,
		Timestamp:     timestamptz(arg.Timestamp),
	}); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) BurnTokens(ctx context.Context, arg datagateway.BurnTokensParams) error {
	if err := r.queries.BurnTokens(ctx, gen.BurnTokensParams{
		NftContractID: arg.NftContractID,
		TokenIds:      lo.Uniq(arg.TokenIDs),
		Owner:         arg.Owner,
		ReceiptID:     arg.ReceiptID,
		Timestamp:     timestamptz(arg.Timestamp),
	}); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) SetTokenSplits(ctx context.Context, arg datagateway.SetTokenSplitsParams) error {
	if err := r.queries.SetTokenSplits(ctx, gen.SetTokenSplitsParams{
		Splits:        jsonb(arg.Splits),
		NftContractID: arg.NftContractID,
		TokenIds:      arg.TokenIDs,
	}); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) InsertActivities(ctx context.Context, activities []entity.Activity) error {
	if len(activities) == 0 {
		return nil
	}
	params, err := mapActivitiesTypeToParams(activities)
	if err != nil {
		return errors.Wrap(err, "failed to map activities to params")
	}
	if err := r.queries.InsertActivitiesPatched(ctx, params); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) UpsertApproval(ctx context.Context, approval entity.Approval) error {
	if err := r.queries.UpsertApproval(ctx, gen.UpsertApprovalParams{
		NftContractID:     approval.NftContractID,
		TokenID:           approval.TokenID,
		ApprovedAccountID: approval.ApprovedAccountID,
		ApprovalID:        int64(approval.ApprovalID),
		ReceiptID:         approval.ReceiptID,
		Timestamp:         timestamptz(approval.Timestamp),
	}); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) DeleteApproval(ctx context.Context, arg datagateway.DeleteApprovalParams) error {
	if err := r.queries.DeleteApproval(ctx, gen.DeleteApprovalParams{
		NftContractID:     arg.NftContractID,
		TokenID:           arg.TokenID,
		ApprovedAccountID: arg.ApprovedAccountID,
	}); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) DeleteTokenApprovals(ctx context.Context, nftContractID string, tokenID string) error {
	if err := r.queries.DeleteTokenApprovals(ctx, gen.DeleteTokenApprovalsParams{
		NftContractID: nftContractID,
		TokenID:       tokenID,
	}); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) UpsertContract(ctx context.Context, contract entity.Contract) error {
	if err := r.queries.UpsertContract(ctx, gen.UpsertContractParams{
		ID:               contract.ID,
		Spec:             contract.Spec,
		Name:             contract.Name,
		Symbol:           textFromPtr(contract.Symbol),
		Icon:             textFromPtr(contract.Icon),
		BaseUri:          textFromPtr(contract.BaseURI),
		Reference:        textFromPtr(contract.Reference),
		ReferenceHash:    textFromPtr(contract.ReferenceHash),
		CreatedAt:        timestamptz(contract.CreatedAt),
		CreatedReceiptID: text(contract.CreatedReceiptID),
		OwnerID:          text(contract.OwnerID),
		IsMintbase:       contract.IsMintbase,
	}); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) UpdateContract(ctx context.Context, arg datagateway.UpdateContractParams) error {
	if err := r.queries.UpdateContract(ctx, gen.UpdateContractParams{
		OwnerID: textFromPtr(arg.OwnerID),
		Icon:    textFromPtr(arg.Icon),
		BaseUri: textFromPtr(arg.BaseURI),
		ID:      arg.ID,
	}); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) InsertStoreMinter(ctx context.Context, minter entity.StoreMinter) error {
	if err := r.queries.InsertStoreMinter(ctx, gen.InsertStoreMinterParams{
		NftContractID: minter.NftContractID,
		MinterID:      minter.MinterID,
		ReceiptID:     minter.ReceiptID,
		Timestamp:     timestamptz(minter.Timestamp),
	}); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) DeleteStoreMinter(ctx context.Context, nftContractID string, minterID string) error {
	if err := r.queries.DeleteStoreMinter(ctx, gen.DeleteStoreMinterParams{
		NftContractID: nftContractID,
		MinterID:      minterID,
	}); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}
