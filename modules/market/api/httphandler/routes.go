package httphandler

import (
	"github.com/gofiber/fiber/v2"
)

func (h *HttpHandler) Mount(router fiber.Router) error {
	r := router.Group("/v1/market")

	r.Get("/checkpoint", h.GetCheckpoint)
	r.Get("/tokens/:contractId/:tokenId", h.GetToken)
	r.Get("/ft/:contractId/balances/:ownerId", h.GetFtBalance)
	return nil
}
