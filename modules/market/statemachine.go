package market

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-indexer/common/errs"
	"github.com/gaze-network/near-indexer/modules/market/config"
	"github.com/gaze-network/near-indexer/modules/market/datagateway"
	"github.com/gaze-network/near-indexer/modules/market/internal/entity"
	"github.com/gaze-network/near-indexer/pkg/enrichment"
	"github.com/gaze-network/near-indexer/pkg/logger"
	"github.com/gaze-network/near-indexer/pkg/logger/slogx"
	"github.com/gaze-network/near-indexer/pkg/metrics"
	"github.com/gaze-network/uint128"
)

// StateMachine turns event payloads into store commands. It keeps no entity state between
// receipts: every transition is a self-contained statement, so sibling receipts of a block
// may run in any order.
type StateMachine struct {
	dg            datagateway.MarketDataGateway
	notifier      enrichment.Notifier
	metrics       *metrics.IndexerMetrics
	mintbaseRoot  string
	parasMarketID string
	v01Fees       FeeSchedule
}

func NewStateMachine(dg datagateway.MarketDataGateway, notifier enrichment.Notifier, conf config.Config, m *metrics.IndexerMetrics) *StateMachine {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &StateMachine{
		dg:            dg,
		notifier:      notifier,
		metrics:       m,
		mintbaseRoot:  conf.MintbaseRoot,
		parasMarketID: conf.ParasMarketID,
		v01Fees:       MintbaseV01Fees,
	}
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, ...enrichment.Message) {}

func newActivity(rc entity.ReceiptContext, contractID, tokenID string, kind entity.ActivityKind) entity.Activity {
	return entity.Activity{
		ReceiptID:     rc.ID,
		TxSender:      rc.Sender,
		SenderPK:      rc.SenderPK,
		Timestamp:     rc.Timestamp,
		NftContractID: contractID,
		TokenID:       tokenID,
		Kind:          kind,
	}
}

// lookupLister resolves the account that created the listing. A missing listing is expected
// under eventual consistency and only logged.
func (sm *StateMachine) lookupLister(ctx context.Context, key entity.ListingKey) (*entity.Listing, error) {
	listing, err := sm.dg.GetListing(ctx, key)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			logger.WarnContext(ctx, "Listing not found",
				slogx.String("nft_contract_id", key.NftContractID),
				slogx.String("token_id", key.TokenID),
				slogx.String("market_id", key.MarketID),
				slogx.Uint64("approval_id", key.ApprovalID),
			)
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to get listing")
	}
	return listing, nil
}

func (sm *StateMachine) lookupOffer(ctx context.Context, key entity.OfferKey) (*entity.Offer, error) {
	offer, err := sm.dg.GetOffer(ctx, key)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			logger.WarnContext(ctx, "Offer not found",
				slogx.String("nft_contract_id", key.NftContractID),
				slogx.String("token_id", key.TokenID),
				slogx.String("market_id", key.MarketID),
				slogx.Uint64("approval_id", key.ApprovalID),
				slogx.Uint64("offer_id", key.OfferID),
			)
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to get offer")
	}
	return offer, nil
}

// lookupMetadataID is best effort: the mint may not be indexed yet.
func (sm *StateMachine) lookupMetadataID(ctx context.Context, contractID, tokenID string) (*string, error) {
	metadataID, err := sm.dg.GetTokenMetadataID(ctx, contractID, tokenID)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			logger.WarnContext(ctx, "Token metadata id not found",
				slogx.String("nft_contract_id", contractID),
				slogx.String("token_id", tokenID),
			)
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to get token metadata id")
	}
	return &metadataID, nil
}

// sumAmounts adds up payout shares, failing on overflow.
func sumAmounts(amounts ...uint128.Uint128) (uint128.Uint128, error) {
	total := uint128.Zero
	for _, amount := range amounts {
		var overflow bool
		total, overflow = total.AddOverflow(amount)
		if overflow {
			return uint128.Zero, errors.WithStack(errs.OverflowUint128)
		}
	}
	return total, nil
}

func lister(listing *entity.Listing) *string {
	if listing == nil {
		return nil
	}
	return &listing.ListedBy
}

func offerer(offer *entity.Offer) *string {
	if offer == nil {
		return nil
	}
	return &offer.OfferedBy
}
