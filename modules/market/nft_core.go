package market

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-indexer/common/errs"
	"github.com/gaze-network/near-indexer/modules/market/datagateway"
	"github.com/gaze-network/near-indexer/modules/market/internal/entity"
	"github.com/gaze-network/near-indexer/pkg/enrichment"
	"github.com/gaze-network/near-indexer/pkg/logger"
	"github.com/gaze-network/near-indexer/pkg/logger/slogx"
	"github.com/gowebpki/jcs"
	"github.com/samber/lo"
)

type nftMintLog struct {
	OwnerID  string   `json:"owner_id"`
	TokenIDs []string `json:"token_ids"`
	Memo     *string  `json:"memo"`
}

type nftTransferLog struct {
	AuthorizedID *string  `json:"authorized_id"`
	OldOwnerID   string   `json:"old_owner_id"`
	NewOwnerID   string   `json:"new_owner_id"`
	TokenIDs     []string `json:"token_ids"`
	Memo         *string  `json:"memo"`
}

type nftBurnLog struct {
	OwnerID      string   `json:"owner_id"`
	AuthorizedID *string  `json:"authorized_id"`
	TokenIDs     []string `json:"token_ids"`
	Memo         *string  `json:"memo"`
}

type nftMetadataUpdateLog struct {
	TokenIDs []string `json:"token_ids"`
}

// fractionDenominator is the basis every mintbase fraction numerator is measured against.
const fractionDenominator = 10_000

type fraction struct {
	Numerator uint32 `json:"numerator"`
}

func (f fraction) validate() error {
	if f.Numerator > fractionDenominator {
		return errors.Wrapf(errs.InvalidArgument, "fraction numerator %d exceeds %d", f.Numerator, fractionDenominator)
	}
	return nil
}

// mintMemo is the memo mintbase stores attach to their mints.
type mintMemo struct {
	Royalty *struct {
		SplitBetween map[string]fraction `json:"split_between"`
		Percentage   fraction            `json:"percentage"`
	} `json:"royalty"`
	SplitOwners *struct {
		SplitBetween map[string]fraction `json:"split_between"`
	} `json:"split_owners"`
}

func (sm *StateMachine) NftMint(ctx context.Context, rc entity.ReceiptContext, data json.RawMessage) error {
	// the contract must be known before its tokens can be resolved
	sm.notifier.Notify(ctx, enrichment.ContractPayload{ContractID: rc.Receiver})

	var logs []nftMintLog
	if err := decodePayload(data, &logs); err != nil {
		return errors.WithStack(err)
	}

	for _, log := range logs {
		params := datagateway.UpsertMintedTokensParams{
			NftContractID: rc.Receiver,
			TokenIDs:      log.TokenIDs,
			Owner:         log.OwnerID,
			Minter:        rc.Sender,
			Memo:          log.Memo,
			ReceiptID:     rc.ID,
			Timestamp:     rc.Timestamp,
		}
		if log.Memo != nil && sm.isMintbaseStore(rc.Receiver) {
			sm.applyMintMemo(ctx, *log.Memo, &params)
		}
		if err := sm.dg.UpsertMintedTokens(ctx, params); err != nil {
			return errors.Wrap(err, "failed to upsert minted tokens")
		}

		activities := lo.Map(log.TokenIDs, func(tokenID string, _ int) entity.Activity {
			a := newActivity(rc, rc.Receiver, tokenID, entity.ActivityKindMint)
			a.ActionSender = &rc.Sender
			a.ActionReceiver = &log.OwnerID
			a.Memo = log.Memo
			return a
		})
		if err := sm.dg.InsertActivities(ctx, activities); err != nil {
			return errors.Wrap(err, "failed to insert mint activities")
		}

		sm.notifier.Notify(ctx, enrichment.TokenPayload{
			ContractID: rc.Receiver,
			TokenIDs:   log.TokenIDs,
			Minter:     &rc.Sender,
		})
	}
	return nil
}

// isMintbaseStore reports whether contractID is a store deployed under the mintbase root.
func (sm *StateMachine) isMintbaseStore(contractID string) bool {
	return sm.mintbaseRoot != "" && strings.HasSuffix(contractID, "."+sm.mintbaseRoot)
}

// applyMintMemo fills royalties and splits from a mintbase mint memo. An unreadable memo is
// logged and the token is stored without them.
func (sm *StateMachine) applyMintMemo(ctx context.Context, memo string, params *datagateway.UpsertMintedTokensParams) {
	var m mintMemo
	if err := json.Unmarshal([]byte(memo), &m); err != nil {
		logger.ErrorContext(ctx, "Invalid mint memo", err, slogx.String("memo", memo))
		return
	}

	if m.Royalty != nil {
		royalties, err := canonicalFractions(m.Royalty.SplitBetween)
		if err == nil {
			err = m.Royalty.Percentage.validate()
		}
		if err != nil {
			logger.ErrorContext(ctx, "Can't encode mint memo royalties", err, slogx.String("memo", memo))
		} else {
			percent := int32(m.Royalty.Percentage.Numerator)
			params.RoyaltiesPercent = &percent
			params.Royalties = royalties
		}
	}
	if m.SplitOwners != nil {
		splits, err := canonicalFractions(m.SplitOwners.SplitBetween)
		if err != nil {
			logger.ErrorContext(ctx, "Can't encode mint memo splits", err, slogx.String("memo", memo))
		} else {
			params.Splits = splits
		}
	}
}

// canonicalFractions flattens {account: {numerator}} into {account: numerator} as canonical JSON,
// so equal maps are stored byte-equal.
func canonicalFractions(fractions map[string]fraction) (json.RawMessage, error) {
	numerators := make(map[string]uint32, len(fractions))
	for account, f := range fractions {
		if err := f.validate(); err != nil {
			return nil, errors.Wrapf(err, "invalid fraction for %s", account)
		}
		numerators[account] = f.Numerator
	}
	return canonicalJSON(numerators)
}

func canonicalJSON(v any) (json.RawMessage, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return nil, errors.Wrap(err, "can't canonicalize json")
	}
	return canonical, nil
}

func (sm *StateMachine) NftTransfer(ctx context.Context, rc entity.ReceiptContext, data json.RawMessage) error {
	sm.notifier.Notify(ctx, enrichment.ContractPayload{ContractID: rc.Receiver})

	var logs []nftTransferLog
	if err := decodePayload(data, &logs); err != nil {
		return errors.WithStack(err)
	}

	for _, log := range logs {
		if err := sm.dg.TransferTokens(ctx, datagateway.TransferTokensParams{
			NftContractID: rc.Receiver,
			TokenIDs:      log.TokenIDs,
			NewOwner:      log.NewOwnerID,
			ReceiptID:     rc.ID,
			Timestamp:     rc.Timestamp,
		}); err != nil {
			return errors.Wrap(err, "failed to transfer tokens")
		}

		activities := lo.Map(log.TokenIDs, func(tokenID string, _ int) entity.Activity {
			a := newActivity(rc, rc.Receiver, tokenID, entity.ActivityKindTransfer)
			a.ActionSender = &log.OldOwnerID
			a.ActionReceiver = &log.NewOwnerID
			a.Memo = log.Memo
			return a
		})
		if err := sm.dg.InsertActivities(ctx, activities); err != nil {
			return errors.Wrap(err, "failed to insert transfer activities")
		}

		if err := sm.invalidateTokens(ctx, rc, log.TokenIDs); err != nil {
			return errors.WithStack(err)
		}

		sm.notifier.Notify(ctx, enrichment.TokenPayload{
			ContractID: rc.Receiver,
			TokenIDs:   log.TokenIDs,
		})
	}
	return nil
}

func (sm *StateMachine) NftBurn(ctx context.Context, rc entity.ReceiptContext, data json.RawMessage) error {
	var logs []nftBurnLog
	if err := decodePayload(data, &logs); err != nil {
		return errors.WithStack(err)
	}

	for _, log := range logs {
		if err := sm.dg.BurnTokens(ctx, datagateway.BurnTokensParams{
			NftContractID: rc.Receiver,
			TokenIDs:      log.TokenIDs,
			Owner:         log.OwnerID,
			ReceiptID:     rc.ID,
			Timestamp:     rc.Timestamp,
		}); err != nil {
			return errors.Wrap(err, "failed to burn tokens")
		}

		activities := lo.Map(log.TokenIDs, func(tokenID string, _ int) entity.Activity {
			a := newActivity(rc, rc.Receiver, tokenID, entity.ActivityKindBurn)
			a.ActionSender = &rc.Sender
			a.Memo = log.Memo
			return a
		})
		if err := sm.dg.InsertActivities(ctx, activities); err != nil {
			return errors.Wrap(err, "failed to insert burn activities")
		}

		if err := sm.invalidateTokens(ctx, rc, log.TokenIDs); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

// invalidateTokens invalidates every live listing and offer of the tokens on any market.
// The owner changed, so none of them can settle anymore.
func (sm *StateMachine) invalidateTokens(ctx context.Context, rc entity.ReceiptContext, tokenIDs []string) error {
	params := datagateway.InvalidateTokenParams{
		NftContractID: rc.Receiver,
		TokenIDs:      tokenIDs,
		Timestamp:     rc.Timestamp,
	}
	if err := sm.dg.InvalidateTokenListings(ctx, params); err != nil {
		return errors.Wrap(err, "failed to invalidate token listings")
	}
	if err := sm.dg.InvalidateTokenOffers(ctx, params); err != nil {
		return errors.Wrap(err, "failed to invalidate token offers")
	}
	return nil
}

func (sm *StateMachine) NftMetadataUpdate(ctx context.Context, rc entity.ReceiptContext, data json.RawMessage) error {
	var logs []nftMetadataUpdateLog
	if err := decodePayload(data, &logs); err != nil {
		return errors.WithStack(err)
	}
	for _, log := range logs {
		sm.notifier.Notify(ctx, enrichment.TokenPayload{
			ContractID: rc.Receiver,
			TokenIDs:   log.TokenIDs,
			Refresh:    ptr(true),
		})
	}
	return nil
}

func (sm *StateMachine) ContractMetadataUpdate(ctx context.Context, rc entity.ReceiptContext, _ json.RawMessage) error {
	sm.notifier.Notify(ctx, enrichment.ContractPayload{ContractID: rc.Receiver, Refresh: ptr(true)})
	return nil
}
