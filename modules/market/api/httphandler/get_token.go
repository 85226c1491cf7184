package httphandler

import (
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-indexer/common/errs"
	"github.com/gofiber/fiber/v2"
)

type getTokenRequest struct {
	ContractID string `params:"contractId"`
	TokenID    string `params:"tokenId"`
}

func (r getTokenRequest) Validate() error {
	var errList []error
	if r.ContractID == "" {
		errList = append(errList, errors.New("'contractId' is required"))
	}
	if r.TokenID == "" {
		errList = append(errList, errors.New("'tokenId' is required"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getTokenResult struct {
	NftContractID    string          `json:"nftContractId"`
	TokenID          string          `json:"tokenId"`
	Owner            string          `json:"owner"`
	Minter           *string         `json:"minter"`
	MintMemo         *string         `json:"mintMemo"`
	MintedAt         *time.Time      `json:"mintedAt"`
	BurnedAt         *time.Time      `json:"burnedAt"`
	LastTransferAt   *time.Time      `json:"lastTransferAt"`
	Royalties        json.RawMessage `json:"royalties,omitempty"`
	RoyaltiesPercent *int32          `json:"royaltiesPercent"`
	Splits           json.RawMessage `json:"splits,omitempty"`
	MetadataID       *string         `json:"metadataId"`
}

type getTokenResponse = HttpResponse[getTokenResult]

func (h *HttpHandler) GetToken(ctx *fiber.Ctx) (err error) {
	var req getTokenRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	token, err := h.dg.GetToken(ctx.UserContext(), req.ContractID, req.TokenID)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return fiber.NewError(fiber.StatusNotFound, "token not found")
		}
		return errors.Wrap(err, "error during GetToken")
	}

	resp := getTokenResponse{
		Result: &getTokenResult{
			NftContractID:    token.NftContractID,
			TokenID:          token.TokenID,
			Owner:            token.Owner,
			Minter:           token.Minter,
			MintMemo:         token.MintMemo,
			MintedAt:         token.MintedTimestamp,
			BurnedAt:         token.BurnedTimestamp,
			LastTransferAt:   token.LastTransferTimestamp,
			Royalties:        token.Royalties,
			RoyaltiesPercent: token.RoyaltiesPercent,
			Splits:           token.Splits,
			MetadataID:       token.MetadataID,
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
