package datagateway

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gaze-network/near-indexer/modules/market/internal/entity"
	"github.com/gaze-network/uint128"
)

// MarketDataGateway is the store behind the market indexer. Every write is a single idempotent
// statement so that receipts of the same block can run in any order.
type MarketDataGateway interface {
	MarketReaderDataGateway
	MarketWriterDataGateway
}

type MarketDataGatewayWithTx interface {
	MarketDataGateway
	Tx
}

type MarketReaderDataGateway interface {
	// GetSyncedHeight returns errs.NotFound if no block has been processed yet.
	GetSyncedHeight(ctx context.Context) (int64, error)
	// GetTokenMetadataID returns errs.NotFound if the token or its metadata id is unknown.
	GetTokenMetadataID(ctx context.Context, nftContractID string, tokenID string) (string, error)
	GetListing(ctx context.Context, key entity.ListingKey) (*entity.Listing, error)
	GetOffer(ctx context.Context, key entity.OfferKey) (*entity.Offer, error)
	GetToken(ctx context.Context, nftContractID string, tokenID string) (*entity.Token, error)
	GetFtBalance(ctx context.Context, ftContract string, ownerID string) (uint128.Uint128, error)
}

type MarketWriterDataGateway interface {
	BeginMarketTx(ctx context.Context) (MarketDataGatewayWithTx, error)

	SetSyncedHeight(ctx context.Context, height int64) error

	// tokens
	UpsertMintedTokens(ctx context.Context, arg UpsertMintedTokensParams) error
	TransferTokens(ctx context.Context, arg TransferTokensParams) error
	BurnTokens(ctx context.Context, arg BurnTokensParams) error
	SetTokenSplits(ctx context.Context, arg SetTokenSplitsParams) error
	InsertActivities(ctx context.Context, activities []entity.Activity) error

	// approvals, contracts and minters
	UpsertApproval(ctx context.Context, approval entity.Approval) error
	DeleteApproval(ctx context.Context, arg DeleteApprovalParams) error
	DeleteTokenApprovals(ctx context.Context, nftContractID string, tokenID string) error
	UpsertContract(ctx context.Context, contract entity.Contract) error
	UpdateContract(ctx context.Context, arg UpdateContractParams) error
	InsertStoreMinter(ctx context.Context, minter entity.StoreMinter) error
	DeleteStoreMinter(ctx context.Context, nftContractID string, minterID string) error

	// listings
	InsertListing(ctx context.Context, arg InsertListingParams) error
	UpdateListing(ctx context.Context, arg UpdateListingParams) error
	UnlistListing(ctx context.Context, arg UnlistListingParams) error
	AcceptListing(ctx context.Context, arg AcceptListingParams) error
	// InvalidateListing marks a single listing invalid unless it was already accepted.
	InvalidateListing(ctx context.Context, key entity.ListingKey, timestamp time.Time) error
	InvalidateTokenListings(ctx context.Context, arg InvalidateTokenParams) error

	// offers and earnings
	InsertOffer(ctx context.Context, offer entity.Offer) error
	OutbidOffers(ctx context.Context, arg OutbidOffersParams) error
	WithdrawOffer(ctx context.Context, key entity.OfferKey, timestamp time.Time) error
	AcceptOffer(ctx context.Context, key entity.OfferKey, timestamp time.Time) error
	InvalidateListingOffers(ctx context.Context, key entity.ListingKey, timestamp time.Time) error
	InvalidateTokenOffers(ctx context.Context, arg InvalidateTokenParams) error
	InsertEarnings(ctx context.Context, earnings []entity.Earning) error

	// third-party markets
	UpsertExternalListing(ctx context.Context, listing entity.ExternalListing) error
	DeleteExternalListing(ctx context.Context, arg ExternalListingUpdateParams) error
	SellExternalListing(ctx context.Context, arg SellExternalListingParams) error
	FailExternalListing(ctx context.Context, arg ExternalListingUpdateParams) error

	// fungible tokens
	ApplyFtMovement(ctx context.Context, movement entity.FtMovement) error

	// accounts
	InsertAccessKey(ctx context.Context, key entity.AccessKey) error
	RemoveAccessKey(ctx context.Context, arg RemoveAccessKeyParams) error
	InsertAccount(ctx context.Context, account entity.Account) error
	RemoveAccount(ctx context.Context, arg RemoveAccountParams) error
}

// UpsertMintedTokensParams overwrites the mint columns of every token, so redelivery converges
// to the latest event.
type UpsertMintedTokensParams struct {
	NftContractID    string
	TokenIDs         []string
	Owner            string
	Minter           string
	Memo             *string
	Royalties        json.RawMessage
	RoyaltiesPercent *int32
	Splits           json.RawMessage
	ReceiptID        string
	Timestamp        time.Time
}

type TransferTokensParams struct {
	NftContractID string
	TokenIDs      []string
	NewOwner      string
	ReceiptID     string
	Timestamp     time.Time
}

type BurnTokensParams struct {
	NftContractID string
	TokenIDs      []string
	// Owner is only written when the token was never seen before.
	Owner     string
	ReceiptID string
	Timestamp time.Time
}

type SetTokenSplitsParams struct {
	NftContractID string
	TokenIDs      []string
	Splits        json.RawMessage
}

type DeleteApprovalParams struct {
	NftContractID     string
	TokenID           string
	ApprovedAccountID string
}

// InsertListingParams stores the listing already invalidated when a higher approval of the same
// token exists within MarketScope. A nil MarketScope matches every market.
type InsertListingParams struct {
	entity.Listing
	MarketScope *string
}

// UpdateContractParams leaves nil fields untouched.
type UpdateContractParams struct {
	ID      string
	OwnerID *string
	Icon    *string
	BaseURI *string
}

// UpdateListingParams leaves nil fields untouched. Only live listings are updated.
type UpdateListingParams struct {
	entity.ListingKey
	Price *uint128.Uint128
	Kind  *entity.ListingKind
}

type UnlistListingParams struct {
	entity.ListingKey
	ReceiptID string
	Timestamp time.Time
}

// AcceptListingParams settles a listing. It also clears InvalidatedAt.
type AcceptListingParams struct {
	entity.ListingKey
	OfferID   uint64
	ReceiptID string
	Timestamp time.Time
}

// InvalidateTokenParams selects the live listings or offers of a set of tokens. MarketID and
// BelowApprovalID narrow the selection when set.
type InvalidateTokenParams struct {
	NftContractID   string
	TokenIDs        []string
	MarketID        *string
	BelowApprovalID *uint64
	Timestamp       time.Time
}

// OutbidOffersParams marks every live offer on the listing with an id below OfferID as outbid.
type OutbidOffersParams struct {
	entity.ListingKey
	OfferID   uint64
	Timestamp time.Time
}

type ExternalListingUpdateParams struct {
	entity.ExternalListingKey
	ReceiptID string
	Timestamp time.Time
}

type SellExternalListingParams struct {
	entity.ExternalListingKey
	BuyerID   string
	Price     uint128.Uint128
	ReceiptID string
	Timestamp time.Time
}

type RemoveAccessKeyParams struct {
	AccountID string
	PublicKey string
	ReceiptID string
	Timestamp time.Time
}

type RemoveAccountParams struct {
	AccountID     string
	BeneficiaryID string
	ReceiptID     string
	Timestamp     time.Time
}
