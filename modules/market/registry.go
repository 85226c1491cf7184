package market

import (
	"context"
	"encoding/json"

	"github.com/gaze-network/near-indexer/modules/market/internal/entity"
	"github.com/gaze-network/near-indexer/modules/market/internal/event"
	"github.com/samber/lo"
)

// Handler applies one event payload emitted by a receipt.
type Handler func(ctx context.Context, rc entity.ReceiptContext, data json.RawMessage) error

// Registry routes classified events to handlers. Keys that are not registered are dropped.
type Registry struct {
	handlers map[event.Key]Handler
}

// NewRegistry binds every supported (standard, version, event) to a state machine method.
// Versions sharing a handler are listed explicitly, a new version is never matched implicitly.
func NewRegistry(sm *StateMachine) *Registry {
	nftCore := func(kind event.Kind) event.Key {
		return event.Key{Standard: event.StandardNftCore, Version: event.Version100, Kind: kind}
	}
	ftCore := func(kind event.Kind) event.Key {
		return event.Key{Standard: event.StandardFtCore, Version: event.Version100, Kind: kind}
	}
	store := func(kind event.Kind) event.Key {
		return event.Key{Standard: event.StandardMbStore, Version: event.Version010, Kind: kind}
	}
	market := func(version event.Version, kind event.Kind) event.Key {
		return event.Key{Standard: event.StandardMbMarket, Version: version, Kind: kind}
	}

	return &Registry{
		handlers: map[event.Key]Handler{
			nftCore(event.KindNftMint):                sm.NftMint,
			nftCore(event.KindNftTransfer):            sm.NftTransfer,
			nftCore(event.KindNftBurn):                sm.NftBurn,
			nftCore(event.KindNftMetadataUpdate):      sm.NftMetadataUpdate,
			nftCore(event.KindContractMetadataUpdate): sm.ContractMetadataUpdate,

			ftCore(event.KindFtMint):     sm.FtMint,
			ftCore(event.KindFtTransfer): sm.FtTransfer,
			ftCore(event.KindFtBurn):     sm.FtBurn,

			store(event.KindNftApprove):        sm.NftApprove,
			store(event.KindNftRevoke):         sm.NftRevoke,
			store(event.KindNftRevokeAll):      sm.NftRevokeAll,
			store(event.KindNftSetSplitOwners): sm.NftSetSplitOwners,
			store(event.KindDeploy):            sm.StoreDeploy,
			store(event.KindChangeSetting):     sm.StoreChangeSetting,
			store(event.KindCreateMetadata):    sm.CreateMetadata,

			market(event.Version010, event.KindNftList):          sm.ListV01,
			market(event.Version010, event.KindNftUpdateList):    sm.UpdateListV01,
			market(event.Version010, event.KindNftUnlist):        sm.UnlistV01,
			market(event.Version010, event.KindNftMakeOffer):     sm.MakeOfferV01,
			market(event.Version010, event.KindNftWithdrawOffer): sm.WithdrawOfferV01,
			market(event.Version010, event.KindNftSold):          sm.SoldV01,

			market(event.Version021, event.KindNftList):          sm.ListV02,
			market(event.Version021, event.KindNftUnlist):        sm.UnlistV02,
			market(event.Version021, event.KindNftMakeOffer):     sm.MakeOfferV02,
			market(event.Version021, event.KindNftSale):          sm.SaleV02,
			market(event.Version021, event.KindNftFailedListing): sm.FailedListingV02,
			// 0.2.2 only adds optional referral fields to the sale payload
			market(event.Version022, event.KindNftSale): sm.SaleV02,
		},
	}
}

// Lookup returns the handler for key.
func (r *Registry) Lookup(key event.Key) (Handler, bool) {
	h, ok := r.handlers[key]
	return h, ok
}

// Keys returns the registered keys.
func (r *Registry) Keys() []event.Key {
	return lo.Keys(r.handlers)
}
