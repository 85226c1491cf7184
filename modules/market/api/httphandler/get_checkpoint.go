package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-indexer/common/errs"
	"github.com/gofiber/fiber/v2"
)

type getCheckpointResult struct {
	SyncedHeight int64 `json:"syncedHeight"`
}

type getCheckpointResponse = HttpResponse[getCheckpointResult]

func (h *HttpHandler) GetCheckpoint(ctx *fiber.Ctx) (err error) {
	height, err := h.dg.GetSyncedHeight(ctx.UserContext())
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return fiber.NewError(fiber.StatusNotFound, "no block has been indexed yet")
		}
		return errors.Wrap(err, "error during GetSyncedHeight")
	}

	resp := getCheckpointResponse{
		Result: &getCheckpointResult{
			SyncedHeight: height,
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
