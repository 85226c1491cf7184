package market

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-indexer/common/errs"
	"github.com/gaze-network/near-indexer/modules/market/datagateway"
	"github.com/gaze-network/near-indexer/modules/market/internal/entity"
	"github.com/gaze-network/near-indexer/pkg/enrichment"
)

type nftApproveLog struct {
	TokenID    string `json:"token_id"`
	ApprovalID uint64 `json:"approval_id"`
	AccountID  string `json:"account_id"`
}

type nftRevokeLog struct {
	TokenID   string `json:"token_id"`
	AccountID string `json:"account_id"`
}

type nftRevokeAllLog struct {
	TokenID string `json:"token_id"`
}

type nftSetSplitOwnersLog struct {
	TokenIDs    []string        `json:"token_ids"`
	SplitOwners json.RawMessage `json:"split_owners"`
}

type storeDeployLog struct {
	ContractMetadata struct {
		Spec          string          `json:"spec"`
		Name          string          `json:"name"`
		Symbol        *string         `json:"symbol"`
		Icon          *string         `json:"icon"`
		BaseURI       *string         `json:"base_uri"`
		Reference     *string         `json:"reference"`
		ReferenceHash json.RawMessage `json:"reference_hash"`
	} `json:"contract_metadata"`
	OwnerID string `json:"owner_id"`
	StoreID string `json:"store_id"`
}

type storeChangeSettingLog struct {
	GrantedMinter *string `json:"granted_minter"`
	RevokedMinter *string `json:"revoked_minter"`
	NewOwner      *string `json:"new_owner"`
	NewIconBase64 *string `json:"new_icon_base64"`
	NewBaseURI    *string `json:"new_base_uri"`
}

type createMetadataLog struct {
	MetadataID       U64      `json:"metadata_id"`
	Creator          string   `json:"creator"`
	MintersAllowlist []string `json:"minters_allowlist"`
	Price            U128     `json:"price"`
	FtContractID     *string  `json:"ft_contract_id"`
	Royalty          *struct {
		SplitBetween map[string]fraction `json:"split_between"`
		Percentage   fraction            `json:"percentage"`
	} `json:"royalty"`
	MaxSupply        *uint32 `json:"max_supply"`
	LastPossibleMint *U64    `json:"last_possible_mint"`
	IsLocked         bool    `json:"is_locked"`
}

func (sm *StateMachine) NftApprove(ctx context.Context, rc entity.ReceiptContext, data json.RawMessage) error {
	var logs []nftApproveLog
	if err := decodePayload(data, &logs); err != nil {
		return errors.WithStack(err)
	}

	for _, log := range logs {
		if err := sm.dg.UpsertApproval(ctx, entity.Approval{
			NftContractID:     rc.Receiver,
			TokenID:           log.TokenID,
			ApprovedAccountID: log.AccountID,
			ApprovalID:        log.ApprovalID,
			ReceiptID:         rc.ID,
			Timestamp:         rc.Timestamp,
		}); err != nil {
			return errors.Wrap(err, "failed to upsert approval")
		}

		a := newActivity(rc, rc.Receiver, log.TokenID, entity.ActivityKindApprove)
		a.ActionSender = &rc.Sender
		a.ActionReceiver = &log.AccountID
		if err := sm.dg.InsertActivities(ctx, []entity.Activity{a}); err != nil {
			return errors.Wrap(err, "failed to insert approve activity")
		}
	}
	return nil
}

func (sm *StateMachine) NftRevoke(ctx context.Context, rc entity.ReceiptContext, data json.RawMessage) error {
	var log nftRevokeLog
	if err := decodePayload(data, &log); err != nil {
		return errors.WithStack(err)
	}

	if err := sm.dg.DeleteApproval(ctx, datagateway.DeleteApprovalParams{
		NftContractID:     rc.Receiver,
		TokenID:           log.TokenID,
		ApprovedAccountID: log.AccountID,
	}); err != nil {
		return errors.Wrap(err, "failed to delete approval")
	}

	a := newActivity(rc, rc.Receiver, log.TokenID, entity.ActivityKindRevoke)
	a.ActionSender = &rc.Sender
	a.ActionReceiver = &log.AccountID
	if err := sm.dg.InsertActivities(ctx, []entity.Activity{a}); err != nil {
		return errors.Wrap(err, "failed to insert revoke activity")
	}
	return nil
}

func (sm *StateMachine) NftRevokeAll(ctx context.Context, rc entity.ReceiptContext, data json.RawMessage) error {
	var log nftRevokeAllLog
	if err := decodePayload(data, &log); err != nil {
		return errors.WithStack(err)
	}

	if err := sm.dg.DeleteTokenApprovals(ctx, rc.Receiver, log.TokenID); err != nil {
		return errors.Wrap(err, "failed to delete token approvals")
	}

	a := newActivity(rc, rc.Receiver, log.TokenID, entity.ActivityKindRevokeAll)
	a.ActionSender = &rc.Sender
	if err := sm.dg.InsertActivities(ctx, []entity.Activity{a}); err != nil {
		return errors.Wrap(err, "failed to insert revoke_all activity")
	}
	return nil
}

func (sm *StateMachine) NftSetSplitOwners(ctx context.Context, rc entity.ReceiptContext, data json.RawMessage) error {
	var log nftSetSplitOwnersLog
	if err := decodePayload(data, &log); err != nil {
		return errors.WithStack(err)
	}

	if len(log.SplitOwners) == 0 {
		return errors.Wrap(errs.Malformed, "missing split_owners")
	}
	splits, err := canonicalJSON(log.SplitOwners)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := sm.dg.SetTokenSplits(ctx, datagateway.SetTokenSplitsParams{
		NftContractID: rc.Receiver,
		TokenIDs:      log.TokenIDs,
		Splits:        splits,
	}); err != nil {
		return errors.Wrap(err, "failed to set token splits")
	}
	return nil
}

// StoreDeploy is emitted by the mintbase factory when it creates a store. The store id, not the
// receipt receiver, is the new contract.
func (sm *StateMachine) StoreDeploy(ctx context.Context, rc entity.ReceiptContext, data json.RawMessage) error {
	var log storeDeployLog
	if err := decodePayload(data, &log); err != nil {
		return errors.WithStack(err)
	}

	var referenceHash *string
	if len(log.ContractMetadata.ReferenceHash) > 0 && string(log.ContractMetadata.ReferenceHash) != "null" {
		referenceHash = ptr(string(log.ContractMetadata.ReferenceHash))
	}

	meta := log.ContractMetadata
	if err := sm.dg.UpsertContract(ctx, entity.Contract{
		ID:               log.StoreID,
		Spec:             meta.Spec,
		Name:             meta.Name,
		Symbol:           meta.Symbol,
		Icon:             meta.Icon,
		BaseURI:          meta.BaseURI,
		Reference:        meta.Reference,
		ReferenceHash:    referenceHash,
		CreatedAt:        rc.Timestamp,
		CreatedReceiptID: rc.ID,
		OwnerID:          log.OwnerID,
		IsMintbase:       true,
	}); err != nil {
		return errors.Wrap(err, "failed to upsert contract")
	}

	if err := sm.dg.InsertStoreMinter(ctx, entity.StoreMinter{
		NftContractID: log.StoreID,
		MinterID:      log.OwnerID,
		ReceiptID:     rc.ID,
		Timestamp:     rc.Timestamp,
	}); err != nil {
		return errors.Wrap(err, "failed to insert store owner as minter")
	}
	return nil
}

func (sm *StateMachine) StoreChangeSetting(ctx context.Context, rc entity.ReceiptContext, data json.RawMessage) error {
	var log storeChangeSettingLog
	if err := decodePayload(data, &log); err != nil {
		return errors.WithStack(err)
	}

	sm.notifier.Notify(ctx, enrichment.ContractPayload{ContractID: rc.Receiver})

	if log.GrantedMinter != nil {
		if err := sm.dg.InsertStoreMinter(ctx, entity.StoreMinter{
			NftContractID: rc.Receiver,
			MinterID:      *log.GrantedMinter,
			ReceiptID:     rc.ID,
			Timestamp:     rc.Timestamp,
		}); err != nil {
			return errors.Wrap(err, "failed to insert store minter")
		}
	}
	if log.RevokedMinter != nil {
		if err := sm.dg.DeleteStoreMinter(ctx, rc.Receiver, *log.RevokedMinter); err != nil {
			return errors.Wrap(err, "failed to delete store minter")
		}
	}
	if log.NewOwner != nil || log.NewIconBase64 != nil || log.NewBaseURI != nil {
		if err := sm.dg.UpdateContract(ctx, datagateway.UpdateContractParams{
			ID:      rc.Receiver,
			OwnerID: log.NewOwner,
			Icon:    log.NewIconBase64,
			BaseURI: log.NewBaseURI,
		}); err != nil {
			return errors.Wrap(err, "failed to update contract settings")
		}
	}
	return nil
}

// CreateMetadata is only forwarded: the enrichment service owns metadata rows.
func (sm *StateMachine) CreateMetadata(ctx context.Context, rc entity.ReceiptContext, data json.RawMessage) error {
	var log createMetadataLog
	if err := decodePayload(data, &log); err != nil {
		return errors.WithStack(err)
	}

	payload := enrichment.MetadataPayload{
		ContractID:       rc.Receiver,
		MetadataID:       uint64(log.MetadataID),
		MintersAllowlist: log.MintersAllowlist,
		Price:            log.Price.String(),
		FtContractID:     log.FtContractID,
		MaxSupply:        log.MaxSupply,
		IsLocked:         log.IsLocked,
		Creator:          log.Creator,
	}
	if log.Royalty != nil {
		if err := log.Royalty.Percentage.validate(); err != nil {
			return errors.Wrap(err, "invalid royalty percentage")
		}
		payload.Royalties = make(map[string]uint16, len(log.Royalty.SplitBetween))
		for account, f := range log.Royalty.SplitBetween {
			if err := f.validate(); err != nil {
				return errors.Wrapf(err, "invalid royalty for %s", account)
			}
			// bounded by fractionDenominator
			payload.Royalties[account] = uint16(f.Numerator)
		}
		payload.RoyaltyPercent = ptr(uint16(log.Royalty.Percentage.Numerator))
	}
	if log.LastPossibleMint != nil {
		payload.LastPossibleMint = ptr(uint64(*log.LastPossibleMint))
	}

	sm.notifier.Notify(ctx, payload)
	return nil
}
