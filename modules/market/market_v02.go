package market

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-indexer/modules/market/internal/entity"
	"github.com/gaze-network/uint128"
	"github.com/samber/lo"
)

// Events of the v0.2 mintbase market. Listings are addressed by explicit fields and may be
// priced in any currency the market accepts.

type listV02Log struct {
	Kind          entity.ListingKind `json:"kind"`
	NftContractID string             `json:"nft_contract_id"`
	NftTokenID    string             `json:"nft_token_id"`
	NftApprovalID uint64             `json:"nft_approval_id"`
	NftOwnerID    string             `json:"nft_owner_id"`
	Currency      string             `json:"currency"`
	Price         U128               `json:"price"`
}

type listingRefV02 struct {
	NftContractID string `json:"nft_contract_id"`
	NftTokenID    string `json:"nft_token_id"`
	NftApprovalID uint64 `json:"nft_approval_id"`
}

func (r listingRefV02) key(rc entity.ReceiptContext) entity.ListingKey {
	return entity.ListingKey{
		NftContractID: r.NftContractID,
		TokenID:       r.NftTokenID,
		MarketID:      rc.Receiver,
		ApprovalID:    r.NftApprovalID,
	}
}

type makeOfferV02Log struct {
	listingRefV02
	OfferID         uint64  `json:"offer_id"`
	OffererID       *string `json:"offerer_id"`
	Currency        string  `json:"currency"`
	Price           U128    `json:"price"`
	AffiliateID     *string `json:"affiliate_id"`
	AffiliateAmount *U128   `json:"affiliate_amount"`
}

type saleV02Log struct {
	listingRefV02
	AcceptedOfferID uint64          `json:"accepted_offer_id"`
	Payout          map[string]U128 `json:"payout"`
	Currency        string          `json:"currency"`
	Price           *U128           `json:"price"`
	AffiliateID     *string         `json:"affiliate_id"`
	AffiliateAmount *U128           `json:"affiliate_amount"`
	MintbaseAmount  *U128           `json:"mintbase_amount"`
	// added in 0.2.2
	ReferrerID     *string `json:"referrer_id"`
	ReferralAmount *U128   `json:"referral_amount"`
}

type failedListingV02Log struct {
	listingRefV02
	OfferID uint64 `json:"offer_id"`
}

func amountOf(v *U128) *uint128.Uint128 {
	if v == nil {
		return nil
	}
	return &v.Uint128
}

func (sm *StateMachine) ListV02(ctx context.Context, rc entity.ReceiptContext, data json.RawMessage) error {
	var log listV02Log
	if err := decodePayload(data, &log); err != nil {
		return errors.WithStack(err)
	}

	ref := listingRefV02{
		NftContractID: log.NftContractID,
		NftTokenID:    log.NftTokenID,
		NftApprovalID: log.NftApprovalID,
	}
	return errors.WithStack(sm.list(ctx, rc, entity.Listing{
		ListingKey: ref.key(rc),
		CreatedAt:  rc.Timestamp,
		ReceiptID:  rc.ID,
		Kind:       log.Kind,
		Price:      &log.Price.Uint128,
		Currency:   log.Currency,
		ListedBy:   log.NftOwnerID,
	}, &rc.Receiver))
}

func (sm *StateMachine) UnlistV02(ctx context.Context, rc entity.ReceiptContext, data json.RawMessage) error {
	var log listingRefV02
	if err := decodePayload(data, &log); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(sm.unlist(ctx, rc, log.key(rc)))
}

func (sm *StateMachine) MakeOfferV02(ctx context.Context, rc entity.ReceiptContext, data json.RawMessage) error {
	var log makeOfferV02Log
	if err := decodePayload(data, &log); err != nil {
		return errors.WithStack(err)
	}

	// the market reports the affiliate in both the referral and the affiliate columns
	return errors.WithStack(sm.makeOffer(ctx, rc, entity.Offer{
		OfferKey:        entity.OfferKey{ListingKey: log.key(rc), OfferID: log.OfferID},
		OfferedBy:       lo.FromPtrOr(log.OffererID, rc.Sender),
		ReceiptID:       rc.ID,
		OfferedAt:       rc.Timestamp,
		Price:           log.Price.Uint128,
		Currency:        log.Currency,
		ReferrerID:      log.AffiliateID,
		ReferralAmount:  amountOf(log.AffiliateAmount),
		AffiliateID:     log.AffiliateID,
		AffiliateAmount: amountOf(log.AffiliateAmount),
	}))
}

// SaleV02 handles both 0.2.1 and 0.2.2 sales.
func (sm *StateMachine) SaleV02(ctx context.Context, rc entity.ReceiptContext, data json.RawMessage) error {
	var log saleV02Log
	if err := decodePayload(data, &log); err != nil {
		return errors.WithStack(err)
	}
	offerKey := entity.OfferKey{ListingKey: log.key(rc), OfferID: log.AcceptedOfferID}

	var price uint128.Uint128
	if log.Price != nil {
		price = log.Price.Uint128
	} else {
		// early 0.2.1 sales carry no price, take it from the accepted offer
		offer, err := sm.lookupOffer(ctx, offerKey)
		if err != nil {
			return errors.WithStack(err)
		}
		if offer != nil {
			price = offer.Price
		}
	}

	return errors.WithStack(sm.settle(ctx, rc, sale{
		OfferKey:        offerKey,
		Currency:        log.Currency,
		Price:           price,
		Payouts:         lo.MapValues(log.Payout, func(v U128, _ string) uint128.Uint128 { return v.Uint128 }),
		MintbaseAmount:  amountOf(log.MintbaseAmount),
		ReferrerID:      log.ReferrerID,
		ReferralAmount:  amountOf(log.ReferralAmount),
		AffiliateID:     log.AffiliateID,
		AffiliateAmount: amountOf(log.AffiliateAmount),
	}))
}

// FailedListingV02 is emitted when the market could not transfer the token to the buyer. Only the
// listing is marked; offers and earnings are left alone.
func (sm *StateMachine) FailedListingV02(ctx context.Context, rc entity.ReceiptContext, data json.RawMessage) error {
	var log failedListingV02Log
	if err := decodePayload(data, &log); err != nil {
		return errors.WithStack(err)
	}
	if err := sm.dg.InvalidateListing(ctx, log.key(rc), rc.Timestamp); err != nil {
		return errors.Wrap(err, "failed to invalidate failed listing")
	}
	return nil
}
