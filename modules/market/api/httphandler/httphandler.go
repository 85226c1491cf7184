package httphandler

import (
	"github.com/gaze-network/near-indexer/common"
	"github.com/gaze-network/near-indexer/modules/market/datagateway"
)

type HttpHandler struct {
	dg datagateway.MarketReaderDataGateway
}

func New(dg datagateway.MarketReaderDataGateway) *HttpHandler {
	return &HttpHandler{
		dg: dg,
	}
}

type HttpResponse[T any] common.HttpResponse[T]
