package postgres

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-indexer/modules/market/datagateway"
	"github.com/gaze-network/near-indexer/modules/market/internal/entity"
	"github.com/gaze-network/near-indexer/modules/market/repository/postgres/gen"
	"github.com/jackc/pgx/v5/pgtype"
)

func (r *Repository) InsertListing(ctx context.Context, arg datagateway.InsertListingParams) error {
	params, err := mapListingTypeToParams(arg.Listing)
	if err != nil {
		return errors.Wrap(err, "failed to map listing to params")
	}
	params.MarketScope = textFromPtr(arg.MarketScope)
	if err := r.queries.InsertListing(ctx, params); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) UpdateListing(ctx context.Context, arg datagateway.UpdateListingParams) error {
	price, err := numericFromUint128(arg.Price)
	if err != nil {
		return errors.Wrap(err, "failed to parse price")
	}
	var kind pgtype.Text
	if arg.Kind != nil {
		kind = text(string(*arg.Kind))
	}
	if err := r.queries.UpdateListing(ctx, gen.UpdateListingParams{
		Price:         price,
		Kind:          kind,
		NftContractID: arg.NftContractID,
		TokenID:       arg.TokenID,
		MarketID:      arg.MarketID,
		ApprovalID:    int64(arg.ApprovalID),
	}); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) UnlistListing(ctx context.Context, arg datagateway.UnlistListingParams) error {
	if err := r.queries.UnlistListing(ctx, gen.UnlistListingParams{
		Timestamp:     timestamptz(arg.Timestamp),
		ReceiptID:     text(arg.ReceiptID),
		NftContractID: arg.NftContractID,
		TokenID:       arg.TokenID,
		MarketID:      arg.MarketID,
		ApprovalID:    int64(arg.ApprovalID),
	}); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) AcceptListing(ctx context.Context, arg datagateway.AcceptListingParams) error {
	if err := r.queries.AcceptListing(ctx, gen.AcceptListingParams{
		Timestamp:     timestamptz(arg.Timestamp),
		ReceiptID:     text(arg.ReceiptID),
		OfferID:       int8FromPtr(&arg.OfferID),
		NftContractID: arg.NftContractID,
		TokenID:       arg.TokenID,
		MarketID:      arg.MarketID,
		ApprovalID:    int64(arg.ApprovalID),
	}); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) InvalidateListing(ctx context.Context, key entity.ListingKey, timestamp time.Time) error {
	if err := r.queries.InvalidateListing(ctx, gen.InvalidateListingParams{
		Timestamp:     timestamptz(timestamp),
		NftContractID: key.NftContractID,
		TokenID:       key.TokenID,
		MarketID:      key.MarketID,
		ApprovalID:    int64(key.ApprovalID),
	}); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) InvalidateTokenListings(ctx context.Context, arg datagateway.InvalidateTokenParams) error {
	if err := r.queries.InvalidateTokenListings(ctx, gen.InvalidateTokenListingsParams{
		Timestamp:       timestamptz(arg.Timestamp),
		NftContractID:   arg.NftContractID,
		TokenIds:        arg.TokenIDs,
		MarketID:        textFromPtr(arg.MarketID),
		BelowApprovalID: int8FromPtr(arg.BelowApprovalID),
	}); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) InsertOffer(ctx context.Context, offer entity.Offer) error {
	params, err := mapOfferTypeToParams(offer)
	if err != nil {
		return errors.Wrap(err, "failed to map offer to params")
	}
	if err := r.queries.InsertOffer(ctx, params); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) OutbidOffers(ctx context.Context, arg datagateway.OutbidOffersParams) error {
	if err := r.queries.OutbidOffers(ctx, gen.OutbidOffersParams{
		Timestamp:     timestamptz(arg.Timestamp),
		NftContractID: arg.NftContractID,
		TokenID:       arg.TokenID,
		MarketID:      arg.MarketID,
		ApprovalID:    int64(arg.ApprovalID),
		OfferID:       int64(arg.OfferID),
	}); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) WithdrawOffer(ctx context.Context, key entity.OfferKey, timestamp time.Time) error {
	if err := r.queries.WithdrawOffer(ctx, gen.WithdrawOfferParams{
		Timestamp:     timestamptz(timestamp),
		NftContractID: key.NftContractID,
		TokenID:       key.TokenID,
		MarketID:      key.MarketID,
		ApprovalID:    int64(key.ApprovalID),
		OfferID:       int64(key.OfferID),
	}); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) AcceptOffer(ctx context.Context, key entity.OfferKey, timestamp time.Time) error {
	if err := r.queries.AcceptOffer(ctx, gen.AcceptOfferParams{
		Timestamp:     timestamptz(timestamp),
		NftContractID: key.NftContractID,
		TokenID:       key.TokenID,
		MarketID:      key.MarketID,
		ApprovalID:    int64(key.ApprovalID),
		OfferID:       int64(key.OfferID),
	}); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) InvalidateListingOffers(ctx context.Context, key entity.ListingKey, timestamp time.Time) error {
	if err := r.queries.InvalidateListingOffers(ctx, gen.InvalidateListingOffersParams{
		Timestamp:     timestamptz(timestamp),
		NftContractID: key.NftContractID,
		TokenID:       key.TokenID,
		MarketID:      key.MarketID,
		ApprovalID:    int64(key.ApprovalID),
	}); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) InvalidateTokenOffers(ctx context.Context, arg datagateway.InvalidateTokenParams) error {
	if err := r.queries.InvalidateTokenOffers(ctx, gen.InvalidateTokenOffersParams{
		Timestamp:       timestamptz(arg.Timestamp),
		NftContractID:   arg.NftContractID,
		TokenIds:        arg.TokenIDs,
		MarketID:        textFromPtr(arg.MarketID),
		BelowApprovalID: int8FromPtr(arg.BelowApprovalID),
	}); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) InsertEarnings(ctx context.Context, earnings []entity.Earning) error {
	if len(earnings) == 0 {
		return nil
	}
	params, err := mapEarningsTypeToParams(earnings)
	if err != nil {
		return errors.Wrap(err, "failed to map earnings to params")
	}
	if err := r.queries.InsertEarnings(ctx, params); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) UpsertExternalListing(ctx context.Context, listing entity.ExternalListing) error {
	price, err := numericFromUint128(&listing.Price)
	if err != nil {
		return errors.Wrap(err, "failed to parse price")
	}
	if err := r.queries.UpsertExternalListing(ctx, gen.UpsertExternalListingParams{
		NftContractID: listing.NftContractID,
		TokenID:       listing.TokenID,
		MarketID:      listing.MarketID,
		ListerID:      listing.ListerID,
		ApprovalID:    int64(listing.ApprovalID),
		Price:         price,
		Currency:      listing.Currency,
		ListedAt:      timestamptz(listing.ListedAt),
		ListReceiptID: listing.ListReceiptID,
	}); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) DeleteExternalListing(ctx context.Context, arg datagateway.ExternalListingUpdateParams) error {
	if err := r.queries.DeleteExternalListing(ctx, gen.DeleteExternalListingParams{
		Timestamp:     timestamptz(arg.Timestamp),
		ReceiptID:     text(arg.ReceiptID),
		NftContractID: arg.NftContractID,
		TokenID:       arg.TokenID,
		MarketID:      arg.MarketID,
		ListerID:      arg.ListerID,
	}); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) SellExternalListing(ctx context.Context, arg datagateway.SellExternalListingParams) error {
	price, err := numericFromUint128(&arg.Price)
	if err != nil {
		return errors.Wrap(err, "failed to parse price")
	}
	if err := r.queries.SellExternalListing(ctx, gen.SellExternalListingParams{
		BuyerID:       text(arg.BuyerID),
		SalePrice:     price,
		Timestamp:     timestamptz(arg.Timestamp),
		ReceiptID:     text(arg.ReceiptID),
		NftContractID: arg.NftContractID,
		TokenID:       arg.TokenID,
		MarketID:      arg.MarketID,
		ListerID:      arg.ListerID,
	}); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) FailExternalListing(ctx context.Context, arg datagateway.ExternalListingUpdateParams) error {
	if err := r.queries.FailExternalListing(ctx, gen.FailExternalListingParams{
		Timestamp:     timestamptz(arg.Timestamp),
		ReceiptID:     text(arg.ReceiptID),
		NftContractID: arg.NftContractID,
		TokenID:       arg.TokenID,
		MarketID:      arg.MarketID,
		ListerID:      arg.ListerID,
	}); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}
