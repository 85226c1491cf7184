package market

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-indexer/common/errs"
	"github.com/gaze-network/near-indexer/modules/market/datagateway"
	"github.com/gaze-network/near-indexer/modules/market/internal/entity"
	"github.com/gaze-network/near-indexer/pkg/enrichment"
	"github.com/gaze-network/uint128"
	"github.com/samber/lo"
)

// Events of the v0.1 mintbase market. Listings are addressed by a composite list id and every
// amount is in NEAR.

type listV01Log struct {
	ListID       string `json:"list_id"`
	Price        U128   `json:"price"`
	TokenKey     string `json:"token_key"`
	OwnerID      string `json:"owner_id"`
	Autotransfer bool   `json:"autotransfer"`
	ApprovalID   string `json:"approval_id"`
	TokenID      string `json:"token_id"`
	StoreID      string `json:"store_id"`
}

type updateListV01Log struct {
	ListID       string `json:"list_id"`
	AutoTransfer *bool  `json:"auto_transfer"`
	Price        *U128  `json:"price"`
}

type unlistV01Log struct {
	ListID string `json:"list_id"`
}

type makeOfferV01Log struct {
	Offer struct {
		ID      uint64 `json:"id"`
		Price   U128   `json:"price"`
		From    string `json:"from"`
		Timeout U64    `json:"timeout"`
	} `json:"offer"`
	ListID   string `json:"list_id"`
	TokenKey string `json:"token_key"`
	OfferNum uint64 `json:"offer_num"`
}

type withdrawOfferV01Log struct {
	ListID   string `json:"list_id"`
	OfferNum uint64 `json:"offer_num"`
}

type soldV01Log struct {
	ListID         string          `json:"list_id"`
	OfferNum       uint64          `json:"offer_num"`
	TokenKey       string          `json:"token_key"`
	Payout         map[string]U128 `json:"payout"`
	MintbaseAmount *U128           `json:"mintbase_amount"`
}

// listingKeyV01 resolves a list id to the listing on the market that emitted the event.
func listingKeyV01(rc entity.ReceiptContext, listID string) (entity.ListingKey, error) {
	tokenID, approvalID, contractID, err := parseListID(listID)
	if err != nil {
		return entity.ListingKey{}, errors.WithStack(err)
	}
	return entity.ListingKey{
		NftContractID: contractID,
		TokenID:       tokenID,
		MarketID:      rc.Receiver,
		ApprovalID:    approvalID,
	}, nil
}

func (sm *StateMachine) ListV01(ctx context.Context, rc entity.ReceiptContext, data json.RawMessage) error {
	var logs []listV01Log
	if err := decodePayload(data, &logs); err != nil {
		return errors.WithStack(err)
	}

	for _, log := range logs {
		approvalID, err := parseU64(log.ApprovalID)
		if err != nil {
			return errors.WithStack(err)
		}
		kind := entity.ListingKindAuction
		if log.Autotransfer {
			kind = entity.ListingKindSimple
		}

		key := entity.ListingKey{
			NftContractID: log.StoreID,
			TokenID:       log.TokenID,
			MarketID:      rc.Receiver,
			ApprovalID:    approvalID,
		}
		if err := sm.list(ctx, rc, entity.Listing{
			ListingKey: key,
			CreatedAt:  rc.Timestamp,
			ReceiptID:  rc.ID,
			Kind:       kind,
			Price:      &log.Price.Uint128,
			Currency:   entity.CurrencyNear,
			ListedBy:   log.OwnerID,
		}, nil); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

// list stores a new listing and supersedes the live listings of the token with a lower approval
// id. A nil market scope supersedes listings on every market. A listing that is itself already
// superseded is stored invalidated, so relists commute.
func (sm *StateMachine) list(ctx context.Context, rc entity.ReceiptContext, listing entity.Listing, marketScope *string) error {
	metadataID, err := sm.lookupMetadataID(ctx, listing.NftContractID, listing.TokenID)
	if err != nil {
		return errors.WithStack(err)
	}
	listing.MetadataID = metadataID

	if err := sm.dg.InsertListing(ctx, datagateway.InsertListingParams{Listing: listing, MarketScope: marketScope}); err != nil {
		return errors.Wrap(err, "failed to insert listing")
	}

	a := newActivity(rc, listing.NftContractID, listing.TokenID, entity.ActivityKindList)
	a.ActionSender = &listing.ListedBy
	a.Price = listing.Price
	a.Currency = &listing.Currency
	if err := sm.dg.InsertActivities(ctx, []entity.Activity{a}); err != nil {
		return errors.Wrap(err, "failed to insert list activity")
	}

	params := datagateway.InvalidateTokenParams{
		NftContractID:   listing.NftContractID,
		TokenIDs:        []string{listing.TokenID},
		MarketID:        marketScope,
		BelowApprovalID: &listing.ApprovalID,
		Timestamp:       rc.Timestamp,
	}
	if err := sm.dg.InvalidateTokenListings(ctx, params); err != nil {
		return errors.Wrap(err, "failed to invalidate superseded listings")
	}
	if err := sm.dg.InvalidateTokenOffers(ctx, params); err != nil {
		return errors.Wrap(err, "failed to invalidate offers of superseded listings")
	}
	return nil
}

func (sm *StateMachine) UpdateListV01(ctx context.Context, rc entity.ReceiptContext, data json.RawMessage) error {
	var log updateListV01Log
	if err := decodePayload(data, &log); err != nil {
		return errors.WithStack(err)
	}
	key, err := listingKeyV01(rc, log.ListID)
	if err != nil {
		return errors.WithStack(err)
	}

	params := datagateway.UpdateListingParams{ListingKey: key}
	switch {
	case log.Price != nil:
		params.Price = &log.Price.Uint128
	case log.AutoTransfer != nil && *log.AutoTransfer:
		params.Kind = ptr(entity.ListingKindSimple)
	case log.AutoTransfer != nil:
		params.Kind = ptr(entity.ListingKindAuction)
	default:
		return errors.Wrap(errs.Malformed, "listing update carries neither price nor auto_transfer")
	}
	if err := sm.dg.UpdateListing(ctx, params); err != nil {
		return errors.Wrap(err, "failed to update listing")
	}
	return nil
}

func (sm *StateMachine) UnlistV01(ctx context.Context, rc entity.ReceiptContext, data json.RawMessage) error {
	var logs []unlistV01Log
	if err := decodePayload(data, &logs); err != nil {
		return errors.WithStack(err)
	}
	for _, log := range logs {
		key, err := listingKeyV01(rc, log.ListID)
		if err != nil {
			return errors.WithStack(err)
		}
		if err := sm.unlist(ctx, rc, key); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

// unlist closes the listing and invalidates the offers still open against it.
func (sm *StateMachine) unlist(ctx context.Context, rc entity.ReceiptContext, key entity.ListingKey) error {
	if err := sm.dg.UnlistListing(ctx, datagateway.UnlistListingParams{
		ListingKey: key,
		ReceiptID:  rc.ID,
		Timestamp:  rc.Timestamp,
	}); err != nil {
		return errors.Wrap(err, "failed to unlist listing")
	}
	if err := sm.dg.InvalidateListingOffers(ctx, key, rc.Timestamp); err != nil {
		return errors.Wrap(err, "failed to invalidate listing offers")
	}

	a := newActivity(rc, key.NftContractID, key.TokenID, entity.ActivityKindUnlist)
	a.ActionSender = &rc.Sender
	a.ActionReceiver = &rc.Receiver
	if err := sm.dg.InsertActivities(ctx, []entity.Activity{a}); err != nil {
		return errors.Wrap(err, "failed to insert unlist activity")
	}
	return nil
}

func (sm *StateMachine) MakeOfferV01(ctx context.Context, rc entity.ReceiptContext, data json.RawMessage) error {
	var logs []makeOfferV01Log
	if err := decodePayload(data, &logs); err != nil {
		return errors.WithStack(err)
	}

	for _, log := range logs {
		key, err := listingKeyV01(rc, log.ListID)
		if err != nil {
			return errors.WithStack(err)
		}
		timeout := uint64(log.Offer.Timeout)
		if timeout > uint64(maxUnixNano) {
			return errors.Wrapf(errs.Malformed, "offer timeout %d is out of range", timeout)
		}
		expiresAt := time.Unix(0, int64(timeout)).UTC().Truncate(time.Microsecond)

		if err := sm.makeOffer(ctx, rc, entity.Offer{
			OfferKey:  entity.OfferKey{ListingKey: key, OfferID: log.OfferNum},
			OfferedBy: rc.Sender,
			ReceiptID: rc.ID,
			OfferedAt: rc.Timestamp,
			Price:     log.Offer.Price.Uint128,
			Currency:  entity.CurrencyNear,
			ExpiresAt: &expiresAt,
		}); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

const maxUnixNano = 1<<63 - 1

// makeOffer stores the offer and outbids the older live offers on the same listing. Both
// statements compare offer ids, so sibling offers of a block converge in any order.
func (sm *StateMachine) makeOffer(ctx context.Context, rc entity.ReceiptContext, offer entity.Offer) error {
	if err := sm.dg.InsertOffer(ctx, offer); err != nil {
		return errors.Wrap(err, "failed to insert offer")
	}
	if err := sm.dg.OutbidOffers(ctx, datagateway.OutbidOffersParams{
		ListingKey: offer.ListingKey,
		OfferID:    offer.OfferID,
		Timestamp:  rc.Timestamp,
	}); err != nil {
		return errors.Wrap(err, "failed to outbid offers")
	}

	listing, err := sm.lookupLister(ctx, offer.ListingKey)
	if err != nil {
		return errors.WithStack(err)
	}
	a := newActivity(rc, offer.NftContractID, offer.TokenID, entity.ActivityKindMakeOffer)
	a.ActionSender = &offer.OfferedBy
	a.ActionReceiver = lister(listing)
	a.Price = &offer.Price
	a.Currency = &offer.Currency
	if err := sm.dg.InsertActivities(ctx, []entity.Activity{a}); err != nil {
		return errors.Wrap(err, "failed to insert make_offer activity")
	}
	return nil
}

func (sm *StateMachine) WithdrawOfferV01(ctx context.Context, rc entity.ReceiptContext, data json.RawMessage) error {
	var log withdrawOfferV01Log
	if err := decodePayload(data, &log); err != nil {
		return errors.WithStack(err)
	}
	key, err := listingKeyV01(rc, log.ListID)
	if err != nil {
		return errors.WithStack(err)
	}
	offerKey := entity.OfferKey{ListingKey: key, OfferID: log.OfferNum}

	if err := sm.dg.WithdrawOffer(ctx, offerKey, rc.Timestamp); err != nil {
		return errors.Wrap(err, "failed to withdraw offer")
	}

	listing, err := sm.lookupLister(ctx, key)
	if err != nil {
		return errors.WithStack(err)
	}
	a := newActivity(rc, key.NftContractID, key.TokenID, entity.ActivityKindWithdrawOffer)
	a.ActionSender = &rc.Sender
	a.ActionReceiver = lister(listing)
	if err := sm.dg.InsertActivities(ctx, []entity.Activity{a}); err != nil {
		return errors.Wrap(err, "failed to insert withdraw_offer activity")
	}
	return nil
}

func (sm *StateMachine) SoldV01(ctx context.Context, rc entity.ReceiptContext, data json.RawMessage) error {
	var log soldV01Log
	if err := decodePayload(data, &log); err != nil {
		return errors.WithStack(err)
	}
	key, err := listingKeyV01(rc, log.ListID)
	if err != nil {
		return errors.WithStack(err)
	}
	offerKey := entity.OfferKey{ListingKey: key, OfferID: log.OfferNum}

	payouts := lo.MapValues(log.Payout, func(v U128, _ string) uint128.Uint128 { return v.Uint128 })
	net, err := sumAmounts(lo.Values(payouts)...)
	if err != nil {
		return errors.Wrap(err, "invalid payout")
	}
	price, err := sm.v01Fees.Gross(net)
	if err != nil {
		return errors.Wrap(err, "can't derive sale price")
	}

	sale := sale{
		OfferKey: offerKey,
		Currency: entity.CurrencyNear,
		Price:    price,
		Payouts:  payouts,
	}
	if log.MintbaseAmount != nil {
		sale.MintbaseAmount = &log.MintbaseAmount.Uint128
	}
	return errors.WithStack(sm.settle(ctx, rc, sale))
}

// sale is a settlement in the shape shared by every market version.
type sale struct {
	entity.OfferKey
	Currency        string
	Price           uint128.Uint128
	Payouts         map[string]uint128.Uint128
	MintbaseAmount  *uint128.Uint128
	ReferrerID      *string
	ReferralAmount  *uint128.Uint128
	AffiliateID     *string
	AffiliateAmount *uint128.Uint128
}

func (s sale) earnings(rc entity.ReceiptContext) []entity.Earning {
	base := entity.Earning{
		OfferKey:  s.OfferKey,
		ReceiptID: rc.ID,
		Timestamp: rc.Timestamp,
		Currency:  s.Currency,
	}

	earnings := make([]entity.Earning, 0, len(s.Payouts)+3)
	for receiver, amount := range s.Payouts {
		e := base
		e.ReceiverID, e.Amount = receiver, amount
		earnings = append(earnings, e)
	}

	sameAffiliate := s.ReferrerID != nil && s.AffiliateID != nil && *s.ReferrerID == *s.AffiliateID &&
		s.ReferralAmount != nil && s.AffiliateAmount != nil && s.ReferralAmount.Cmp(*s.AffiliateAmount) == 0
	if s.ReferrerID != nil && s.ReferralAmount != nil {
		e := base
		e.ReceiverID, e.Amount, e.IsReferral, e.IsAffiliate = *s.ReferrerID, *s.ReferralAmount, true, sameAffiliate
		earnings = append(earnings, e)
	}
	if s.AffiliateID != nil && s.AffiliateAmount != nil && !sameAffiliate {
		e := base
		e.ReceiverID, e.Amount, e.IsAffiliate = *s.AffiliateID, *s.AffiliateAmount, true
		earnings = append(earnings, e)
	}
	if s.MintbaseAmount != nil {
		e := base
		e.ReceiverID, e.Amount, e.IsMintbaseCut = rc.Receiver, *s.MintbaseAmount, true
		earnings = append(earnings, e)
	}
	return earnings
}

// settle accepts the listing and the offer, clearing any invalidation an out-of-order relist
// left on them, and books the earnings. All of it commits together; the sale activity and the
// enrichment notification follow.
func (sm *StateMachine) settle(ctx context.Context, rc entity.ReceiptContext, s sale) (err error) {
	tx, err := sm.dg.BeginMarketTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin sale transaction")
	}
	defer func() {
		if rerr := tx.Rollback(ctx); rerr != nil {
			err = errors.Join(err, errors.Wrap(rerr, "failed to rollback sale transaction"))
		}
	}()

	if err := tx.AcceptListing(ctx, datagateway.AcceptListingParams{
		ListingKey: s.ListingKey,
		OfferID:    s.OfferID,
		ReceiptID:  rc.ID,
		Timestamp:  rc.Timestamp,
	}); err != nil {
		return errors.Wrap(err, "failed to accept listing")
	}
	if err := tx.AcceptOffer(ctx, s.OfferKey, rc.Timestamp); err != nil {
		return errors.Wrap(err, "failed to accept offer")
	}
	if err := tx.InsertEarnings(ctx, s.earnings(rc)); err != nil {
		return errors.Wrap(err, "failed to insert earnings")
	}
	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit sale transaction")
	}

	listing, err := sm.lookupLister(ctx, s.ListingKey)
	if err != nil {
		return errors.WithStack(err)
	}
	offer, err := sm.lookupOffer(ctx, s.OfferKey)
	if err != nil {
		return errors.WithStack(err)
	}

	a := newActivity(rc, s.NftContractID, s.TokenID, entity.ActivityKindSold)
	a.ActionSender = offerer(offer)
	a.ActionReceiver = lister(listing)
	a.Price = &s.Price
	a.Currency = &s.Currency
	if err := sm.dg.InsertActivities(ctx, []entity.Activity{a}); err != nil {
		return errors.Wrap(err, "failed to insert sale activity")
	}

	if s.Currency == entity.CurrencyNear {
		sm.metrics.AddSaleVolume(s.Price)
	}
	if offer != nil {
		sm.notifier.Notify(ctx, enrichment.SalePayload{
			ContractID: s.NftContractID,
			TokenID:    s.TokenID,
			NewOwnerID: offer.OfferedBy,
			ReceiptID:  rc.ID,
		})
	}
	return nil
}
