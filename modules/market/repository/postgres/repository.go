package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-indexer/common/errs"
	"github.com/gaze-network/near-indexer/internal/postgres"
	"github.com/gaze-network/near-indexer/modules/market/datagateway"
	"github.com/gaze-network/near-indexer/modules/market/internal/entity"
	"github.com/gaze-network/near-indexer/modules/market/repository/postgres/gen"
	"github.com/gaze-network/uint128"
	"github.com/jackc/pgx/v5"
)

var _ datagateway.MarketDataGateway = (*Repository)(nil)

type Repository struct {
	db      postgres.DB
	queries *gen.Queries
	tx      pgx.Tx
}

func NewRepository(db postgres.DB) *Repository {
	return &Repository{
		db:      db,
		queries: gen.New(db),
	}
}

func (r *Repository) GetSyncedHeight(ctx context.Context) (int64, error) {
	height, err := r.queries.GetSyncedHeight(ctx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, errors.WithStack(errs.NotFound)
		}
		return 0, errors.Wrap(err, "error during query")
	}
	return height, nil
}

func (r *Repository) SetSyncedHeight(ctx context.Context, height int64) error {
	if err := r.queries.SetSyncedHeight(ctx, height); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) GetTokenMetadataID(ctx context.Context, nftContractID string, tokenID string) (string, error) {
	metadataID, err := r.queries.GetTokenMetadataID(ctx, gen.GetTokenMetadataIDParams{
		NftContractID: nftContractID,
		TokenID:       tokenID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", errors.WithStack(errs.NotFound)
		}
		return "", errors.Wrap(err, "error during query")
	}
	if !metadataID.Valid {
		return "", errors.Wrap(errs.NotFound, "token has no metadata id")
	}
	return metadataID.String, nil
}

func (r *Repository) GetToken(ctx context.Context, nftContractID string, tokenID string) (*entity.Token, error) {
	token, err := r.queries.GetToken(ctx, gen.GetTokenParams{
		NftContractID: nftContractID,
		TokenID:       tokenID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "error during query")
	}
	result := mapTokenModelToType(token)
	return &result, nil
}

func (r *Repository) GetListing(ctx context.Context, key entity.ListingKey) (*entity.Listing, error) {
	listing, err := r.queries.GetListing(ctx, gen.GetListingParams{
		NftContractID: key.NftContractID,
		TokenID:       key.TokenID,
		MarketID:      key.MarketID,
		ApprovalID:    int64(key.ApprovalID),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "error during query")
	}
	result, err := mapListingModelToType(listing)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse listing model")
	}
	return &result, nil
}

func (r *Repository) GetOffer(ctx context.Context, key entity.OfferKey) (*entity.Offer, error) {
	offer, err := r.queries.GetOffer(ctx, gen.GetOfferParams{
		NftContractID: key.NftContractID,
		TokenID:       key.TokenID,
		MarketID:      key.MarketID,
		ApprovalID:    int64(key.ApprovalID),
		OfferID:       int64(key.OfferID),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "error during query")
	}
	result, err := mapOfferModelToType(offer)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse offer model")
	}
	return &result, nil
}

// GetFtBalance returns zero for owners that never held the token.
func (r *Repository) GetFtBalance(ctx context.Context, ftContract string, ownerID string) (uint128.Uint128, error) {
	amount, err := r.queries.GetFtBalance(ctx, gen.GetFtBalanceParams{
		FtContractID: ftContract,
		OwnerID:      ownerID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uint128.Zero, nil
		}
		return uint128.Uint128{}, errors.Wrap(err, "error during query")
	}
	balance, err := uint128FromNumeric(amount)
	if err != nil {
		return uint128.Uint128{}, errors.Wrap(err, "failed to parse balance")
	}
	if balance == nil {
		return uint128.Zero, nil
	}
	return *balance, nil
}
