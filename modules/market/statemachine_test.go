package market

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/gaze-network/near-indexer/common/errs"
	"github.com/gaze-network/near-indexer/core/types"
	"github.com/gaze-network/near-indexer/modules/market/config"
	"github.com/gaze-network/near-indexer/modules/market/internal/entity"
	"github.com/gaze-network/near-indexer/modules/market/internal/event"
	"github.com/gaze-network/uint128"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testStore  = "store.mintbase1.near"
	testMarket = "simple.market.mintbase.near"
)

var testTime = time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestStateMachine() (*StateMachine, *memStore, *recordingNotifier) {
	store := newMemStore()
	notifier := &recordingNotifier{}
	return NewStateMachine(store, notifier, config.Default(), nil), store, notifier
}

func receiptCtx(id, sender, receiver string) entity.ReceiptContext {
	return entity.ReceiptContext{ID: id, Sender: sender, Receiver: receiver, Timestamp: testTime, Height: 100}
}

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

func listingKey(tokenID string, approvalID uint64) entity.ListingKey {
	return entity.ListingKey{NftContractID: testStore, TokenID: tokenID, MarketID: testMarket, ApprovalID: approvalID}
}

func listV02(t *testing.T, sm *StateMachine, receiptID, tokenID string, approvalID uint64, price string) {
	t.Helper()
	require.NoError(t, sm.ListV02(context.Background(), receiptCtx(receiptID, "alice.near", testMarket), mustJSON(t, map[string]any{
		"kind":            "simple",
		"nft_contract_id": testStore,
		"nft_token_id":    tokenID,
		"nft_approval_id": approvalID,
		"nft_owner_id":    "alice.near",
		"currency":        "near",
		"price":           price,
	})))
}

func makeOfferV02(t *testing.T, sm *StateMachine, receiptID, tokenID string, approvalID, offerID uint64, price string) {
	t.Helper()
	require.NoError(t, sm.MakeOfferV02(context.Background(), receiptCtx(receiptID, "bob.near", testMarket), mustJSON(t, map[string]any{
		"nft_contract_id": testStore,
		"nft_token_id":    tokenID,
		"nft_approval_id": approvalID,
		"offer_id":        offerID,
		"offerer_id":      "bob.near",
		"currency":        "near",
		"price":           price,
	})))
}

func TestNftMintIsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	sm, store, notifier := newTestStateMachine()

	rc := receiptCtx("R1", "minter.near", testStore)
	data := mustJSON(t, []map[string]any{{"owner_id": "alice.near", "token_ids": []string{"1", "2"}}})
	for range 2 {
		require.NoError(t, sm.NftMint(ctx, rc, data))
	}

	assert.Len(t, store.tokens, 2)
	assert.Len(t, store.activitiesOf(entity.ActivityKindMint), 2)

	token, err := store.GetToken(ctx, testStore, "1")
	require.NoError(t, err)
	assert.Equal(t, "alice.near", token.Owner)
	require.NotNil(t, token.Minter)
	assert.Equal(t, "minter.near", *token.Minter)
	assert.Equal(t, "R1", *token.MintedReceiptID)
	assert.Contains(t, notifier.tags(), "HandleTokenPayload")
	assert.Contains(t, notifier.tags(), "HandleContractPayload")
}

func TestNftMintMemo(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	memo := `{"royalty":{"split_between":{"b.near":{"numerator":4000},"a.near":{"numerator":6000}},"percentage":{"numerator":1000}},"split_owners":{"split_between":{"c.near":{"numerator":10000}}}}`

	t.Run("mintbase store", func(t *testing.T) {
		t.Parallel()
		sm, store, _ := newTestStateMachine()
		data := mustJSON(t, []map[string]any{{"owner_id": "alice.near", "token_ids": []string{"1"}, "memo": memo}})
		require.NoError(t, sm.NftMint(ctx, receiptCtx("R1", "minter.near", testStore), data))

		token, err := store.GetToken(ctx, testStore, "1")
		require.NoError(t, err)
		require.NotNil(t, token.RoyaltiesPercent)
		assert.EqualValues(t, 1000, *token.RoyaltiesPercent)
		assert.Equal(t, `{"a.near":6000,"b.near":4000}`, string(token.Royalties))
		assert.Equal(t, `{"c.near":10000}`, string(token.Splits))
	})

	t.Run("other contract", func(t *testing.T) {
		t.Parallel()
		sm, store, _ := newTestStateMachine()
		data := mustJSON(t, []map[string]any{{"owner_id": "alice.near", "token_ids": []string{"1"}, "memo": memo}})
		require.NoError(t, sm.NftMint(ctx, receiptCtx("R1", "minter.near", "nft.example.near"), data))

		token, err := store.GetToken(ctx, "nft.example.near", "1")
		require.NoError(t, err)
		assert.Nil(t, token.RoyaltiesPercent)
		assert.Empty(t, token.Royalties)
		require.NotNil(t, token.MintMemo)
		assert.Equal(t, memo, *token.MintMemo)
	})

	t.Run("outside the mintbase root", func(t *testing.T) {
		t.Parallel()
		emptyRoot := config.Default()
		emptyRoot.MintbaseRoot = ""
		testCases := []struct {
			name     string
			conf     config.Config
			contract string
		}{
			{name: "lookalike", conf: config.Default(), contract: "notmintbase1.near"},
			{name: "empty root", conf: emptyRoot, contract: testStore},
		}
		for _, tc := range testCases {
			store := newMemStore()
			sm := NewStateMachine(store, &recordingNotifier{}, tc.conf, nil)
			data := mustJSON(t, []map[string]any{{"owner_id": "alice.near", "token_ids": []string{"1"}, "memo": memo}})
			require.NoError(t, sm.NftMint(ctx, receiptCtx("R1", "minter.near", tc.contract), data), tc.name)

			token, err := store.GetToken(ctx, tc.contract, "1")
			require.NoError(t, err, tc.name)
			assert.Nil(t, token.RoyaltiesPercent, tc.name)
			assert.Empty(t, token.Royalties, tc.name)
		}
	})

	t.Run("numerator out of range", func(t *testing.T) {
		t.Parallel()
		sm, store, _ := newTestStateMachine()
		oversized := `{"royalty":{"split_between":{"a.near":{"numerator":70000}},"percentage":{"numerator":1000}},"split_owners":{"split_between":{"c.near":{"numerator":65537}}}}`
		data := mustJSON(t, []map[string]any{{"owner_id": "alice.near", "token_ids": []string{"1"}, "memo": oversized}})
		require.NoError(t, sm.NftMint(ctx, receiptCtx("R1", "minter.near", testStore), data))

		token, err := store.GetToken(ctx, testStore, "1")
		require.NoError(t, err)
		assert.Nil(t, token.RoyaltiesPercent)
		assert.Empty(t, token.Royalties)
		assert.Empty(t, token.Splits)
	})

	t.Run("unreadable memo", func(t *testing.T) {
		t.Parallel()
		sm, store, _ := newTestStateMachine()
		data := mustJSON(t, []map[string]any{{"owner_id": "alice.near", "token_ids": []string{"1"}, "memo": "gm"}})
		require.NoError(t, sm.NftMint(ctx, receiptCtx("R1", "minter.near", testStore), data))

		token, err := store.GetToken(ctx, testStore, "1")
		require.NoError(t, err)
		assert.Nil(t, token.RoyaltiesPercent)
	})
}

func TestNftTransferInvalidatesListingsAndOffers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	sm, store, _ := newTestStateMachine()

	listV02(t, sm, "R1", "1", 1, "100")
	makeOfferV02(t, sm, "R2", "1", 1, 1, "100")

	require.NoError(t, sm.NftTransfer(ctx, receiptCtx("R3", "alice.near", testStore), mustJSON(t, []map[string]any{{
		"old_owner_id": "alice.near",
		"new_owner_id": "carol.near",
		"token_ids":    []string{"1"},
	}})))

	token, err := store.GetToken(ctx, testStore, "1")
	require.NoError(t, err)
	assert.Equal(t, "carol.near", token.Owner)

	listing := store.listing(listingKey("1", 1))
	require.NotNil(t, listing)
	assert.NotNil(t, listing.InvalidatedAt)
	offer := store.offer(entity.OfferKey{ListingKey: listingKey("1", 1), OfferID: 1})
	require.NotNil(t, offer)
	assert.NotNil(t, offer.InvalidatedAt)

	transfers := store.activitiesOf(entity.ActivityKindTransfer)
	require.Len(t, transfers, 1)
	assert.Equal(t, "alice.near", *transfers[0].ActionSender)
	assert.Equal(t, "carol.near", *transfers[0].ActionReceiver)
}

func TestNftBurnKeepsOwner(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	sm, store, _ := newTestStateMachine()

	require.NoError(t, sm.NftMint(ctx, receiptCtx("R1", "minter.near", testStore), mustJSON(t, []map[string]any{{"owner_id": "alice.near", "token_ids": []string{"1"}}})))
	require.NoError(t, sm.NftBurn(ctx, receiptCtx("R2", "alice.near", testStore), mustJSON(t, []map[string]any{{"owner_id": "bob.near", "token_ids": []string{"1", "2"}}})))

	token, err := store.GetToken(ctx, testStore, "1")
	require.NoError(t, err)
	assert.Equal(t, "alice.near", token.Owner)
	assert.NotNil(t, token.BurnedTimestamp)

	// burning an unseen token records the burner as owner
	unseen, err := store.GetToken(ctx, testStore, "2")
	require.NoError(t, err)
	assert.Equal(t, "bob.near", unseen.Owner)
	assert.Len(t, store.activitiesOf(entity.ActivityKindBurn), 2)
}

func TestOfferOutbidIsOrderIndependent(t *testing.T) {
	t.Parallel()

	orders := [][]uint64{
		{1, 2, 3},
		{1, 3, 2},
		{2, 1, 3},
		{2, 3, 1},
		{3, 1, 2},
		{3, 2, 1},
	}
	for _, order := range orders {
		sm, store, _ := newTestStateMachine()
		listV02(t, sm, "R0", "1", 1, "100")
		for _, offerID := range order {
			makeOfferV02(t, sm, "R-offer", "1", 1, offerID, "100")
		}

		var live []uint64
		for offerID := uint64(1); offerID <= 3; offerID++ {
			offer := store.offer(entity.OfferKey{ListingKey: listingKey("1", 1), OfferID: offerID})
			require.NotNil(t, offer)
			if offer.IsLive() {
				live = append(live, offerID)
			}
		}
		assert.Equal(t, []uint64{3}, live, "order %v", order)
	}
}

func TestUnlistCascadesToOffers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	sm, store, _ := newTestStateMachine()

	listV02(t, sm, "R1", "1", 1, "100")
	makeOfferV02(t, sm, "R2", "1", 1, 1, "100")

	require.NoError(t, sm.UnlistV02(ctx, receiptCtx("R3", "alice.near", testMarket), mustJSON(t, map[string]any{
		"nft_contract_id": testStore,
		"nft_token_id":    "1",
		"nft_approval_id": 1,
	})))

	listing := store.listing(listingKey("1", 1))
	require.NotNil(t, listing)
	require.NotNil(t, listing.UnlistedAt)
	assert.Equal(t, "R3", *listing.UnlistedReceiptID)
	assert.Nil(t, listing.AcceptedAt)

	offer := store.offer(entity.OfferKey{ListingKey: listingKey("1", 1), OfferID: 1})
	require.NotNil(t, offer)
	assert.NotNil(t, offer.InvalidatedAt)
	assert.Len(t, store.activitiesOf(entity.ActivityKindUnlist), 1)
}

func TestRelistSupersedesLowerApprovals(t *testing.T) {
	t.Parallel()
	sm, store, _ := newTestStateMachine()

	listV02(t, sm, "R1", "1", 1, "100")
	makeOfferV02(t, sm, "R2", "1", 1, 1, "100")
	listV02(t, sm, "R3", "1", 2, "200")

	assert.NotNil(t, store.listing(listingKey("1", 1)).InvalidatedAt)
	assert.True(t, store.listing(listingKey("1", 2)).IsLive())
	assert.NotNil(t, store.offer(entity.OfferKey{ListingKey: listingKey("1", 1), OfferID: 1}).InvalidatedAt)
}

func TestRelistIsOrderIndependent(t *testing.T) {
	t.Parallel()

	orders := [][]uint64{{1, 2}, {2, 1}}
	for _, order := range orders {
		sm, store, _ := newTestStateMachine()
		for _, approvalID := range order {
			listV02(t, sm, fmt.Sprint("R", approvalID), "1", approvalID, "100")
		}

		older := store.listing(listingKey("1", 1))
		require.NotNil(t, older)
		assert.False(t, older.IsLive(), "order %v", order)
		assert.NotNil(t, older.InvalidatedAt, "order %v", order)
		assert.True(t, store.listing(listingKey("1", 2)).IsLive(), "order %v", order)
	}
}

func TestRelistOnOtherMarketKeepsListing(t *testing.T) {
	t.Parallel()
	sm, store, _ := newTestStateMachine()

	require.NoError(t, sm.ListV02(context.Background(), receiptCtx("R2", "alice.near", "other.market.near"), mustJSON(t, map[string]any{
		"kind":            "simple",
		"nft_contract_id": testStore,
		"nft_token_id":    "1",
		"nft_approval_id": 2,
		"nft_owner_id":    "alice.near",
		"currency":        "near",
		"price":           "100",
	})))
	listV02(t, sm, "R1", "1", 1, "100")

	assert.True(t, store.listing(listingKey("1", 1)).IsLive())
}

func TestOfferOnClosedListing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	sm, store, _ := newTestStateMachine()

	listV02(t, sm, "R1", "1", 1, "100")
	require.NoError(t, sm.UnlistV02(ctx, receiptCtx("R2", "alice.near", testMarket), mustJSON(t, map[string]any{
		"nft_contract_id": testStore,
		"nft_token_id":    "1",
		"nft_approval_id": 1,
	})))
	// an offer finishing after a sibling unlist still ends up invalidated
	makeOfferV02(t, sm, "R3", "1", 1, 2, "100")
	makeOfferV02(t, sm, "R4", "1", 1, 1, "100")

	second := store.offer(entity.OfferKey{ListingKey: listingKey("1", 1), OfferID: 2})
	require.NotNil(t, second)
	assert.NotNil(t, second.InvalidatedAt)
	assert.Nil(t, second.OutbidAt)

	first := store.offer(entity.OfferKey{ListingKey: listingKey("1", 1), OfferID: 1})
	require.NotNil(t, first)
	assert.NotNil(t, first.OutbidAt)
	assert.Nil(t, first.InvalidatedAt)
}

func TestSaleRepairsOutOfOrderInvalidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	sm, store, notifier := newTestStateMachine()

	listV02(t, sm, "R1", "1", 1, "100")
	makeOfferV02(t, sm, "R2", "1", 1, 1, "100")
	makeOfferV02(t, sm, "R3", "1", 1, 2, "90")
	// a relist indexed before the sale that preceded it on chain
	listV02(t, sm, "R4", "1", 2, "200")

	key := entity.OfferKey{ListingKey: listingKey("1", 1), OfferID: 1}
	require.NotNil(t, store.offer(key).OutbidAt)

	require.NoError(t, sm.SaleV02(ctx, receiptCtx("R5", "bob.near", testMarket), mustJSON(t, map[string]any{
		"nft_contract_id":   testStore,
		"nft_token_id":      "1",
		"nft_approval_id":   1,
		"accepted_offer_id": 1,
		"payout":            map[string]string{"alice.near": "90", "creator.near": "5"},
		"currency":          "near",
		"price":             "100",
		"mintbase_amount":   "5",
	})))

	listing := store.listing(listingKey("1", 1))
	require.NotNil(t, listing.AcceptedAt)
	assert.Nil(t, listing.InvalidatedAt)
	assert.EqualValues(t, 1, *listing.AcceptedOfferID)

	offer := store.offer(key)
	require.NotNil(t, offer.AcceptedAt)
	assert.Nil(t, offer.InvalidatedAt)
	assert.Nil(t, offer.OutbidAt)

	earnings := store.earningsOf(key)
	require.Len(t, earnings, 3)
	total := uint128.Zero
	for _, e := range earnings {
		total = total.Add(e.Amount)
		if e.ReceiverID == testMarket {
			assert.True(t, e.IsMintbaseCut)
		}
	}
	assert.Equal(t, uint128.From64(100), total)

	sales := store.activitiesOf(entity.ActivityKindSold)
	require.Len(t, sales, 1)
	assert.Equal(t, "bob.near", *sales[0].ActionSender)
	assert.Equal(t, "alice.near", *sales[0].ActionReceiver)
	assert.Equal(t, uint128.From64(100), *sales[0].Price)
	assert.Contains(t, notifier.tags(), "HandleSalePayload")

	// redelivery books nothing new
	require.NoError(t, sm.SaleV02(ctx, receiptCtx("R5", "bob.near", testMarket), mustJSON(t, map[string]any{
		"nft_contract_id":   testStore,
		"nft_token_id":      "1",
		"nft_approval_id":   1,
		"accepted_offer_id": 1,
		"payout":            map[string]string{"alice.near": "90", "creator.near": "5"},
		"currency":          "near",
		"price":             "100",
		"mintbase_amount":   "5",
	})))
	assert.Len(t, store.earningsOf(key), 3)
}

func TestSaleWithoutPriceUsesOffer(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	sm, store, _ := newTestStateMachine()

	listV02(t, sm, "R1", "1", 1, "100")
	makeOfferV02(t, sm, "R2", "1", 1, 7, "120")
	require.NoError(t, sm.SaleV02(ctx, receiptCtx("R3", "bob.near", testMarket), mustJSON(t, map[string]any{
		"nft_contract_id":   testStore,
		"nft_token_id":      "1",
		"nft_approval_id":   1,
		"accepted_offer_id": 7,
		"payout":            map[string]string{"alice.near": "120"},
		"currency":          "near",
	})))

	sales := store.activitiesOf(entity.ActivityKindSold)
	require.Len(t, sales, 1)
	assert.Equal(t, uint128.From64(120), *sales[0].Price)
}

func TestSaleV022Referrals(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	sale := func(referrer, affiliate, referral, affiliateAmount string) json.RawMessage {
		return mustJSON(t, map[string]any{
			"nft_contract_id":   testStore,
			"nft_token_id":      "1",
			"nft_approval_id":   1,
			"accepted_offer_id": 1,
			"payout":            map[string]string{"alice.near": "90"},
			"currency":          "near",
			"price":             "100",
			"referrer_id":       referrer,
			"referral_amount":   referral,
			"affiliate_id":      affiliate,
			"affiliate_amount":  affiliateAmount,
		})
	}
	key := entity.OfferKey{ListingKey: listingKey("1", 1), OfferID: 1}

	t.Run("same affiliate is booked once", func(t *testing.T) {
		t.Parallel()
		sm, store, _ := newTestStateMachine()
		handler, ok := NewRegistry(sm).Lookup(event.Key{Standard: event.StandardMbMarket, Version: event.Version022, Kind: event.KindNftSale})
		require.True(t, ok)

		listV02(t, sm, "R1", "1", 1, "100")
		makeOfferV02(t, sm, "R2", "1", 1, 1, "100")
		require.NoError(t, handler(ctx, receiptCtx("R3", "bob.near", testMarket), sale("ref.near", "ref.near", "10", "10")))

		earnings := store.earningsOf(key)
		require.Len(t, earnings, 2)
		for _, e := range earnings {
			if e.ReceiverID == "ref.near" {
				assert.True(t, e.IsReferral)
				assert.True(t, e.IsAffiliate)
			}
		}
	})

	t.Run("distinct referrer and affiliate", func(t *testing.T) {
		t.Parallel()
		sm, store, _ := newTestStateMachine()
		listV02(t, sm, "R1", "1", 1, "100")
		makeOfferV02(t, sm, "R2", "1", 1, 1, "100")
		require.NoError(t, sm.SaleV02(ctx, receiptCtx("R3", "bob.near", testMarket), sale("ref.near", "aff.near", "6", "4")))

		earnings := store.earningsOf(key)
		require.Len(t, earnings, 3)
		total := uint128.Zero
		for _, e := range earnings {
			total = total.Add(e.Amount)
		}
		assert.Equal(t, uint128.From64(100), total)
	})
}

func TestMarketV01Lifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	sm, store, _ := newTestStateMachine()
	listID := "1:3:" + testStore
	key := entity.ListingKey{NftContractID: testStore, TokenID: "1", MarketID: testMarket, ApprovalID: 3}

	require.NoError(t, sm.ListV01(ctx, receiptCtx("R1", "alice.near", testMarket), mustJSON(t, []map[string]any{{
		"list_id":      listID,
		"price":        "1000",
		"token_key":    "1:" + testStore,
		"owner_id":     "alice.near",
		"autotransfer": false,
		"approval_id":  "3",
		"token_id":     "1",
		"store_id":     testStore,
	}})))
	listing := store.listing(key)
	require.NotNil(t, listing)
	assert.Equal(t, entity.ListingKindAuction, listing.Kind)

	require.NoError(t, sm.UpdateListV01(ctx, receiptCtx("R2", "alice.near", testMarket), mustJSON(t, map[string]any{
		"list_id":       listID,
		"auto_transfer": true,
	})))
	assert.Equal(t, entity.ListingKindSimple, store.listing(key).Kind)

	require.NoError(t, sm.MakeOfferV01(ctx, receiptCtx("R3", "bob.near", testMarket), mustJSON(t, []map[string]any{{
		"offer":     map[string]any{"id": 1, "price": "1000", "from": "bob.near", "timeout": "1700000000000000000"},
		"list_id":   listID,
		"token_key": "1:" + testStore,
		"offer_num": 1,
	}})))
	offerKey := entity.OfferKey{ListingKey: key, OfferID: 1}
	offer := store.offer(offerKey)
	require.NotNil(t, offer)
	require.NotNil(t, offer.ExpiresAt)
	assert.Equal(t, time.Unix(1_700_000_000, 0).UTC(), *offer.ExpiresAt)

	require.NoError(t, sm.SoldV01(ctx, receiptCtx("R4", "bob.near", testMarket), mustJSON(t, map[string]any{
		"list_id":   listID,
		"offer_num": 1,
		"token_key": "1:" + testStore,
		"payout":    map[string]string{"alice.near": "900", "creator.near": "75"},
	})))

	sales := store.activitiesOf(entity.ActivityKindSold)
	require.Len(t, sales, 1)
	// 975 paid out is a 1000 sale after the 2.5% cut
	assert.Equal(t, uint128.From64(1000), *sales[0].Price)
	assert.NotNil(t, store.listing(key).AcceptedAt)
	assert.NotNil(t, store.offer(offerKey).AcceptedAt)
}

func TestMarketV01Malformed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	sm, _, _ := newTestStateMachine()
	rc := receiptCtx("R1", "alice.near", testMarket)

	err := sm.UnlistV01(ctx, rc, mustJSON(t, []map[string]any{{"list_id": "no-colons"}}))
	assert.ErrorIs(t, err, errs.Malformed)

	err = sm.UpdateListV01(ctx, rc, mustJSON(t, map[string]any{"list_id": "1:1:" + testStore}))
	assert.ErrorIs(t, err, errs.Malformed)

	err = sm.ListV01(ctx, rc, json.RawMessage(`{"not":"a list"}`))
	assert.ErrorIs(t, err, errs.Malformed)
}

func TestWithdrawOffer(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	sm, store, _ := newTestStateMachine()
	listID := "1:1:" + testStore
	key := entity.ListingKey{NftContractID: testStore, TokenID: "1", MarketID: testMarket, ApprovalID: 1}

	require.NoError(t, sm.MakeOfferV01(ctx, receiptCtx("R1", "bob.near", testMarket), mustJSON(t, []map[string]any{{
		"offer":     map[string]any{"id": 1, "price": "10", "from": "bob.near", "timeout": 0},
		"list_id":   listID,
		"offer_num": 1,
	}})))
	require.NoError(t, sm.WithdrawOfferV01(ctx, receiptCtx("R2", "bob.near", testMarket), mustJSON(t, map[string]any{
		"list_id":   listID,
		"offer_num": 1,
	})))

	offer := store.offer(entity.OfferKey{ListingKey: key, OfferID: 1})
	require.NotNil(t, offer)
	assert.NotNil(t, offer.WithdrawnAt)

	withdrawals := store.activitiesOf(entity.ActivityKindWithdrawOffer)
	require.Len(t, withdrawals, 1)
	// the listing was never indexed
	assert.Nil(t, withdrawals[0].ActionReceiver)
}

func TestFailedListing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	sm, store, _ := newTestStateMachine()

	listV02(t, sm, "R1", "1", 1, "100")
	require.NoError(t, sm.FailedListingV02(ctx, receiptCtx("R2", "bob.near", testMarket), mustJSON(t, map[string]any{
		"nft_contract_id": testStore,
		"nft_token_id":    "1",
		"nft_approval_id": 1,
		"offer_id":        1,
	})))
	assert.NotNil(t, store.listing(listingKey("1", 1)).InvalidatedAt)
}

func TestFtMovements(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	sm, store, _ := newTestStateMachine()
	const ft = "usdt.tether-token.near"

	mint := receiptCtx("R1", "owner.near", ft)
	require.NoError(t, sm.FtMint(ctx, mint, mustJSON(t, []map[string]any{{"owner_id": "alice.near", "amount": "100"}})))

	transfer := receiptCtx("R2", "alice.near", ft)
	data := mustJSON(t, []map[string]any{
		{"old_owner_id": "alice.near", "new_owner_id": "bob.near", "amount": "30"},
		{"old_owner_id": "alice.near", "new_owner_id": "carol.near", "amount": "20"},
	})
	require.NoError(t, sm.FtTransfer(ctx, transfer, data))
	// redelivered receipt
	require.NoError(t, sm.FtTransfer(ctx, transfer, data))

	balance := func(owner string) uint128.Uint128 {
		amount, err := store.GetFtBalance(ctx, ft, owner)
		require.NoError(t, err)
		return amount
	}
	assert.Equal(t, uint128.From64(50), balance("alice.near"))
	assert.Equal(t, uint128.From64(30), balance("bob.near"))
	assert.Equal(t, uint128.From64(20), balance("carol.near"))

	// burning more than the indexed balance clamps at zero
	require.NoError(t, sm.FtBurn(ctx, receiptCtx("R3", "bob.near", ft), mustJSON(t, []map[string]any{{"owner_id": "bob.near", "amount": "500"}})))
	assert.Equal(t, uint128.Zero, balance("bob.near"))

	err := sm.FtMint(ctx, receiptCtx("R4", "owner.near", ft), mustJSON(t, []map[string]any{{"owner_id": "alice.near", "amount": "-1"}}))
	assert.ErrorIs(t, err, errs.Malformed)
}

func TestStoreEvents(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	sm, store, notifier := newTestStateMachine()

	require.NoError(t, sm.StoreDeploy(ctx, receiptCtx("R1", "alice.near", "mintbase1.near"), mustJSON(t, map[string]any{
		"contract_metadata": map[string]any{"spec": "nft-1.0.0", "name": "Store", "symbol": "STR", "reference_hash": nil},
		"owner_id":          "alice.near",
		"store_id":          testStore,
	})))
	contract := store.contracts[testStore]
	require.NotNil(t, contract)
	assert.True(t, contract.IsMintbase)
	assert.Nil(t, contract.ReferenceHash)
	assert.Contains(t, store.minters, minterKey{testStore, "alice.near"})

	rc := receiptCtx("R2", "alice.near", testStore)
	require.NoError(t, sm.StoreChangeSetting(ctx, rc, mustJSON(t, map[string]any{"granted_minter": "bob.near"})))
	require.NoError(t, sm.StoreChangeSetting(ctx, rc, mustJSON(t, map[string]any{"revoked_minter": "alice.near", "new_owner": "carol.near"})))
	assert.Contains(t, store.minters, minterKey{testStore, "bob.near"})
	assert.NotContains(t, store.minters, minterKey{testStore, "alice.near"})
	assert.Equal(t, "carol.near", store.contracts[testStore].OwnerID)

	require.NoError(t, sm.NftApprove(ctx, rc, mustJSON(t, []map[string]any{{"token_id": "1", "approval_id": 4, "account_id": testMarket}})))
	assert.Equal(t, uint64(4), store.approvals[approvalKey{testStore, "1", testMarket}].ApprovalID)
	require.NoError(t, sm.NftRevokeAll(ctx, rc, mustJSON(t, map[string]any{"token_id": "1"})))
	assert.Empty(t, store.approvals)

	require.NoError(t, sm.CreateMetadata(ctx, rc, mustJSON(t, map[string]any{
		"metadata_id":       "12",
		"creator":           "alice.near",
		"minters_allowlist": []string{"bob.near"},
		"price":             "1000",
		"royalty":           map[string]any{"split_between": map[string]any{"alice.near": map[string]any{"numerator": 10000}}, "percentage": map[string]any{"numerator": 500}},
		"is_locked":         true,
	})))
	assert.Contains(t, notifier.tags(), "HandleMetadataPayload")

	err := sm.CreateMetadata(ctx, rc, mustJSON(t, map[string]any{
		"metadata_id": "13",
		"creator":     "alice.near",
		"price":       "1000",
		"royalty":     map[string]any{"split_between": map[string]any{"alice.near": map[string]any{"numerator": 70000}}, "percentage": map[string]any{"numerator": 500}},
	}))
	assert.ErrorIs(t, err, errs.InvalidArgument)
}

func TestNftSetSplitOwners(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	sm, store, _ := newTestStateMachine()
	rc := receiptCtx("R1", "alice.near", testStore)

	require.NoError(t, sm.NftMint(ctx, rc, mustJSON(t, []map[string]any{{"owner_id": "alice.near", "token_ids": []string{"1"}}})))
	require.NoError(t, sm.NftSetSplitOwners(ctx, rc, json.RawMessage(`{"token_ids":["1"],"split_owners":{"b.near":5000, "a.near":5000}}`)))

	token, err := store.GetToken(ctx, testStore, "1")
	require.NoError(t, err)
	assert.Equal(t, `{"a.near":5000,"b.near":5000}`, string(token.Splits))

	err = sm.NftSetSplitOwners(ctx, rc, json.RawMessage(`{"token_ids":["1"]}`))
	assert.ErrorIs(t, err, errs.Malformed)
}

func TestParasLog(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	sm, store, _ := newTestStateMachine()
	const paras = config.DefaultParasMarketID
	rc := receiptCtx("R1", "alice.near", paras)
	key := entity.ExternalListingKey{NftContractID: "x.paras.near", TokenID: "7:1", MarketID: paras, ListerID: "alice.near"}

	require.NoError(t, sm.ParasLog(ctx, rc, `{"type":"add_market_data","params":{"owner_id":"alice.near","approval_id":3,"nft_contract_id":"x.paras.near","token_id":"7:1","ft_token_id":"near","price":"500"}}`))
	listing := store.external[key]
	require.NotNil(t, listing)
	assert.Equal(t, "near", listing.Currency)
	assert.EqualValues(t, 3, listing.ApprovalID)

	require.NoError(t, sm.ParasLog(ctx, receiptCtx("R2", "bob.near", paras), `{"type":"resolve_purchase","params":{"owner_id":"alice.near","nft_contract_id":"x.paras.near","token_id":"7:1","ft_token_id":"near","price":"500","buyer_id":"bob.near"}}`))
	require.NotNil(t, store.external[key].SoldAt)
	assert.Equal(t, "bob.near", *store.external[key].BuyerID)

	require.NoError(t, sm.ParasLog(ctx, rc, "Paras: Offer does not exist"))
	require.NoError(t, sm.ParasLog(ctx, rc, `{"type":"add_bid","params":{}}`))
	assert.ErrorIs(t, sm.ParasLog(ctx, rc, "not json"), errs.Malformed)
	assert.Equal(t, "ft::usdc.near", parasCurrency("usdc.near"))
}

func TestTrackAction(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	sm, store, _ := newTestStateMachine()
	const key = "ed25519:6E8sCci9badyRkXb3JoRpBj5p8C6Tw41ELDZoiihKEtp"

	rc := receiptCtx("R1", "alice.near", "new.alice.near")
	require.NoError(t, sm.TrackAction(ctx, rc, types.ActionView{Kind: types.ActionCreateAccount}))
	require.NoError(t, sm.TrackAction(ctx, rc, types.ActionView{
		Kind:   types.ActionAddKey,
		AddKey: &types.AddKeyAction{PublicKey: key, AccessKey: types.AccessKeyView{Permission: types.AccessKeyPermission{FullAccess: true}}},
	}))
	require.NoError(t, sm.TrackAction(ctx, rc, types.ActionView{
		Kind:   types.ActionAddKey,
		AddKey: &types.AddKeyAction{PublicKey: "ed25519:limited", AccessKey: types.AccessKeyView{Permission: types.AccessKeyPermission{FunctionCall: json.RawMessage(`{}`)}}},
	}))
	require.Len(t, store.accounts, 1)
	require.Len(t, store.accessKeys, 1)

	removal := receiptCtx("R2", "new.alice.near", "new.alice.near")
	require.NoError(t, sm.TrackAction(ctx, removal, types.ActionView{Kind: types.ActionDeleteKey, DeleteKey: &types.DeleteKeyAction{PublicKey: key}}))
	require.NoError(t, sm.TrackAction(ctx, removal, types.ActionView{Kind: types.ActionDeleteAccount, DeleteAccount: &types.DeleteAccountAction{BeneficiaryID: "alice.near"}}))

	accessKey := store.accessKeys[accessKeyKey{"new.alice.near", key, "R1"}]
	require.NotNil(t, accessKey)
	assert.Equal(t, "R2", *accessKey.RemovedReceiptID)
	account := store.accounts[accountKey{"new.alice.near", "R1"}]
	require.NotNil(t, account)
	assert.Equal(t, "alice.near", *account.BeneficiaryID)
}
