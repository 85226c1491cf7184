package market

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-indexer/common/errs"
	"github.com/gaze-network/near-indexer/modules/market/datagateway"
	"github.com/gaze-network/near-indexer/modules/market/internal/entity"
	"github.com/gaze-network/near-indexer/pkg/logger"
	"github.com/gaze-network/near-indexer/pkg/logger/slogx"
)

// Paras logs plain JSON without the event prefix: {"type": ..., "params": {...}}.

// parasPlainLogPrefixes are human readable lines the Paras market logs next to its events.
var parasPlainLogPrefixes = []string{
	"Paras: Offer does not exist",
	"Paras: seller's nft failed to trade, rollback buyer's nft",
	"Insufficient storage paid: ",
}

// parasIgnoredTypes are Paras events that don't affect listings.
var parasIgnoredTypes = map[string]struct{}{
	"add_offer":      {},
	"delete_offer":   {},
	"add_trade":      {},
	"delete_trade":   {},
	"accept_trade":   {},
	"extend_auction": {},
	"add_bid":        {},
	"cancel_bid":     {},
}

type parasLog struct {
	Type   string          `json:"type"`
	Params json.RawMessage `json:"params"`
}

type parasAddMarketData struct {
	OwnerID       string  `json:"owner_id"`
	ApprovalID    uint64  `json:"approval_id"`
	NftContractID string  `json:"nft_contract_id"`
	TokenID       string  `json:"token_id"`
	FtTokenID     string  `json:"ft_token_id"`
	Price         U128    `json:"price"`
	StartedAt     *uint64 `json:"started_at"`
	EndedAt       *U64    `json:"ended_at"`
	EndPrice      *U128   `json:"end_price"`
	IsAuction     *bool   `json:"is_auction"`
}

type parasMarketDataRef struct {
	OwnerID       string `json:"owner_id"`
	NftContractID string `json:"nft_contract_id"`
	TokenID       string `json:"token_id"`
}

func (r parasMarketDataRef) key(rc entity.ReceiptContext) entity.ExternalListingKey {
	return entity.ExternalListingKey{
		NftContractID: r.NftContractID,
		TokenID:       r.TokenID,
		MarketID:      rc.Receiver,
		ListerID:      r.OwnerID,
	}
}

type parasResolvePurchase struct {
	parasMarketDataRef
	TokenSeriesID *string `json:"token_series_id"`
	FtTokenID     string  `json:"ft_token_id"`
	Price         U128    `json:"price"`
	BuyerID       string  `json:"buyer_id"`
	IsOffer       *bool   `json:"is_offer"`
}

func isParasPlainLog(line string) bool {
	for _, prefix := range parasPlainLogPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// parasCurrency maps a Paras ft_token_id to the currency column.
func parasCurrency(ftTokenID string) string {
	if ftTokenID == entity.CurrencyNear {
		return ftTokenID
	}
	return "ft::" + ftTokenID
}

// ParasLog handles one log line of the Paras market. Known plain-text lines are skipped.
func (sm *StateMachine) ParasLog(ctx context.Context, rc entity.ReceiptContext, line string) error {
	var log parasLog
	if err := json.Unmarshal([]byte(line), &log); err != nil {
		if isParasPlainLog(line) {
			return nil
		}
		return errors.Wrapf(errs.Malformed, "invalid paras log: %v", err)
	}

	switch log.Type {
	case "add_market_data":
		return errors.WithStack(sm.parasAddMarketData(ctx, rc, log.Params))
	case "delete_market_data":
		return errors.WithStack(sm.parasDeleteMarketData(ctx, rc, log.Params))
	case "resolve_purchase":
		return errors.WithStack(sm.parasResolvePurchase(ctx, rc, log.Params))
	case "resolve_purchase_fail":
		return errors.WithStack(sm.parasResolvePurchaseFail(ctx, rc, log.Params))
	}
	if _, ok := parasIgnoredTypes[log.Type]; ok {
		return nil
	}
	logger.WarnContext(ctx, "Unknown paras market event", slogx.String("type", log.Type))
	return nil
}

func (sm *StateMachine) parasAddMarketData(ctx context.Context, rc entity.ReceiptContext, params json.RawMessage) error {
	var data parasAddMarketData
	if err := decodePayload(params, &data); err != nil {
		return errors.WithStack(err)
	}

	if err := sm.dg.UpsertExternalListing(ctx, entity.ExternalListing{
		ExternalListingKey: entity.ExternalListingKey{
			NftContractID: data.NftContractID,
			TokenID:       data.TokenID,
			MarketID:      rc.Receiver,
			ListerID:      data.OwnerID,
		},
		ApprovalID:    data.ApprovalID,
		Price:         data.Price.Uint128,
		Currency:      parasCurrency(data.FtTokenID),
		ListedAt:      rc.Timestamp,
		ListReceiptID: rc.ID,
	}); err != nil {
		return errors.Wrap(err, "failed to upsert external listing")
	}
	return nil
}

func (sm *StateMachine) parasDeleteMarketData(ctx context.Context, rc entity.ReceiptContext, params json.RawMessage) error {
	var data parasMarketDataRef
	if err := decodePayload(params, &data); err != nil {
		return errors.WithStack(err)
	}
	if err := sm.dg.DeleteExternalListing(ctx, datagateway.ExternalListingUpdateParams{
		ExternalListingKey: data.key(rc),
		ReceiptID:          rc.ID,
		Timestamp:          rc.Timestamp,
	}); err != nil {
		return errors.Wrap(err, "failed to delete external listing")
	}
	return nil
}

func (sm *StateMachine) parasResolvePurchase(ctx context.Context, rc entity.ReceiptContext, params json.RawMessage) error {
	var data parasResolvePurchase
	if err := decodePayload(params, &data); err != nil {
		return errors.WithStack(err)
	}
	if err := sm.dg.SellExternalListing(ctx, datagateway.SellExternalListingParams{
		ExternalListingKey: data.key(rc),
		BuyerID:            data.BuyerID,
		Price:              data.Price.Uint128,
		ReceiptID:          rc.ID,
		Timestamp:          rc.Timestamp,
	}); err != nil {
		return errors.Wrap(err, "failed to mark external listing as sold")
	}
	return nil
}

func (sm *StateMachine) parasResolvePurchaseFail(ctx context.Context, rc entity.ReceiptContext, params json.RawMessage) error {
	var data parasResolvePurchase
	if err := decodePayload(params, &data); err != nil {
		return errors.WithStack(err)
	}
	if err := sm.dg.FailExternalListing(ctx, datagateway.ExternalListingUpdateParams{
		ExternalListingKey: data.key(rc),
		ReceiptID:          rc.ID,
		Timestamp:          rc.Timestamp,
	}); err != nil {
		return errors.Wrap(err, "failed to mark external listing as failed")
	}
	return nil
}
