package entity

import (
	"encoding/json"
	"time"

	"github.com/gaze-network/uint128"
)

// ReceiptContext is the per-receipt metadata attached to every row derived from the receipt's logs.
type ReceiptContext struct {
	ID        string
	Sender    string
	SenderPK  *string
	Receiver  string
	Timestamp time.Time
	Height    int64
	// LogIndex is the position of the log being handled within the receipt.
	LogIndex int
}

const CurrencyNear = "near"

type Token struct {
	NftContractID         string
	TokenID               string
	Owner                 string
	MintMemo              *string
	MintedTimestamp       *time.Time
	MintedReceiptID       *string
	Minter                *string
	BurnedTimestamp       *time.Time
	BurnedReceiptID       *string
	LastTransferTimestamp *time.Time
	LastTransferReceiptID *string
	Royalties             json.RawMessage
	RoyaltiesPercent      *int32
	Splits                json.RawMessage
	MetadataID            *string
}

type Contract struct {
	ID               string
	Spec             string
	Name             string
	Symbol           *string
	Icon             *string
	BaseURI          *string
	Reference        *string
	ReferenceHash    *string
	CreatedAt        time.Time
	CreatedReceiptID string
	OwnerID          string
	IsMintbase       bool
}

type StoreMinter struct {
	NftContractID string
	MinterID      string
	ReceiptID     string
	Timestamp     time.Time
}

type Approval struct {
	NftContractID     string
	TokenID           string
	ApprovedAccountID string
	ApprovalID        uint64
	ReceiptID         string
	Timestamp         time.Time
}

type ListingKind string

const (
	ListingKindSimple  ListingKind = "simple"
	ListingKindAuction ListingKind = "auction"
)

// ListingKey identifies a listing: a token offered on one market under one approval grant.
type ListingKey struct {
	NftContractID string
	TokenID       string
	MarketID      string
	ApprovalID    uint64
}

// Listing is an offer-to-sell. UnlistedAt and AcceptedAt are mutually exclusive terminal markers;
// InvalidatedAt is reversible and cleared when a sale proves the listing was live.
type Listing struct {
	ListingKey
	CreatedAt         time.Time
	ReceiptID         string
	Kind              ListingKind
	Price             *uint128.Uint128
	Currency          string
	ListedBy          string
	MetadataID        *string
	UnlistedAt        *time.Time
	UnlistedReceiptID *string
	AcceptedAt        *time.Time
	AcceptedReceiptID *string
	AcceptedOfferID   *uint64
	InvalidatedAt     *time.Time
}

// IsLive reports whether no terminal marker is set.
func (l Listing) IsLive() bool {
	return l.UnlistedAt == nil && l.AcceptedAt == nil && l.InvalidatedAt == nil
}

type OfferKey struct {
	ListingKey
	OfferID uint64
}

// Offer is a bid against a listing. It reaches exactly one of withdrawn, outbid, accepted or
// invalidated; invalidation is reversible the same way it is for listings.
type Offer struct {
	OfferKey
	OfferedBy       string
	ReceiptID       string
	OfferedAt       time.Time
	Price           uint128.Uint128
	Currency        string
	ReferrerID      *string
	ReferralAmount  *uint128.Uint128
	AffiliateID     *string
	AffiliateAmount *uint128.Uint128
	ExpiresAt       *time.Time
	WithdrawnAt     *time.Time
	AcceptedAt      *time.Time
	OutbidAt        *time.Time
	InvalidatedAt   *time.Time
}

func (o Offer) IsLive() bool {
	return o.WithdrawnAt == nil && o.AcceptedAt == nil && o.OutbidAt == nil && o.InvalidatedAt == nil
}

// Earning is one payout share of an accepted sale. Rows are never updated.
type Earning struct {
	OfferKey
	ReceiverID    string
	ReceiptID     string
	Timestamp     time.Time
	Currency      string
	Amount        uint128.Uint128
	IsReferral    bool
	IsAffiliate   bool
	IsMintbaseCut bool
}

type ActivityKind string

const (
	ActivityKindMint          ActivityKind = "mint"
	ActivityKindTransfer      ActivityKind = "transfer"
	ActivityKindBurn          ActivityKind = "burn"
	ActivityKindList          ActivityKind = "list"
	ActivityKindUnlist        ActivityKind = "unlist"
	ActivityKindMakeOffer     ActivityKind = "make_offer"
	ActivityKindWithdrawOffer ActivityKind = "withdraw_offer"
	ActivityKindSold          ActivityKind = "sale"
	ActivityKindApprove       ActivityKind = "approve"
	ActivityKindRevoke        ActivityKind = "revoke"
	ActivityKindRevokeAll     ActivityKind = "revoke_all"
)

// Activity is a write-once feed row for a state transition.
type Activity struct {
	ReceiptID      string
	TxSender       string
	SenderPK       *string
	Timestamp      time.Time
	NftContractID  string
	TokenID        string
	Kind           ActivityKind
	ActionSender   *string
	ActionReceiver *string
	Memo           *string
	Price          *uint128.Uint128
	Currency       *string
}

// ExternalListingKey identifies a listing on a third-party market, which exposes no approval id.
type ExternalListingKey struct {
	NftContractID string
	TokenID       string
	MarketID      string
	ListerID      string
}

type ExternalListing struct {
	ExternalListingKey
	ApprovalID        uint64
	Price             uint128.Uint128
	Currency          string
	ListedAt          time.Time
	ListReceiptID     string
	DeletedAt         *time.Time
	DeletionReceiptID *string
	BuyerID           *string
	SalePrice         *uint128.Uint128
	SoldAt            *time.Time
	SaleReceiptID     *string
	FailedAt          *time.Time
	FailureReceiptID  *string
}
