package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-indexer/pkg/decimals"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type getFtBalanceRequest struct {
	ContractID string `params:"contractId"`
	OwnerID    string `params:"ownerId"`
}

type getFtBalanceResult struct {
	FtContractID string `json:"ftContractId"`
	OwnerID      string `json:"ownerId"`
	// Amount is the raw balance in the token's smallest unit.
	Amount string `json:"amount"`
	// AmountNear is only set for the wrapped NEAR contract, which uses yoctoNEAR.
	AmountNear *decimal.Decimal `json:"amountNear,omitempty"`
}

type getFtBalanceResponse = HttpResponse[getFtBalanceResult]

const wrappedNearContract = "wrap.near"

func (h *HttpHandler) GetFtBalance(ctx *fiber.Ctx) (err error) {
	var req getFtBalanceRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}

	amount, err := h.dg.GetFtBalance(ctx.UserContext(), req.ContractID, req.OwnerID)
	if err != nil {
		return errors.Wrap(err, "error during GetFtBalance")
	}

	result := getFtBalanceResult{
		FtContractID: req.ContractID,
		OwnerID:      req.OwnerID,
		Amount:       amount.String(),
	}
	if req.ContractID == wrappedNearContract {
		near := decimals.YoctoToNear(amount)
		result.AmountNear = &near
	}
	return errors.WithStack(ctx.JSON(getFtBalanceResponse{Result: &result}))
}
