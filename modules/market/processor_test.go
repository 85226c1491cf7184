package market

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-indexer/common/errs"
	"github.com/gaze-network/near-indexer/core/types"
	"github.com/gaze-network/near-indexer/modules/market/config"
	"github.com/gaze-network/near-indexer/modules/market/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eventLog(t *testing.T, standard, version, kind string, data any) string {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"standard": standard,
		"version":  version,
		"event":    kind,
		"data":     data,
	})
	require.NoError(t, err)
	return "EVENT_JSON:" + string(raw)
}

func mintLog(t *testing.T, owner string, tokenIDs ...string) string {
	t.Helper()
	return eventLog(t, "nep171", "1.0.0", "nft_mint", []map[string]any{{"owner_id": owner, "token_ids": tokenIDs}})
}

func newTestProcessor(conf config.Config) (*Processor, *memStore) {
	store := newMemStore()
	sm := NewStateMachine(store, &recordingNotifier{}, conf, nil)
	return NewProcessor(store, sm, conf, nil, nil), store
}

func TestProcessIgnoresOutOfScopeLogs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p, store := newTestProcessor(config.Default())

	block := newBlock(100, newOutcome("R1", "a.near", "b.near", []string{
		"Transfer 1 NEAR",
		eventLog(t, "nep999", "1.0.0", "nft_mint", []any{}),
		eventLog(t, "mb_market", "0.2.2", "nft_list", map[string]any{}),
		eventLog(t, "nep171", "9.9.9", "nft_mint", []any{}),
	}))
	require.NoError(t, p.Process(ctx, []*types.StreamerMessage{block}))

	assert.Zero(t, store.rowCount())
	synced, err := store.GetSyncedHeight(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 100, synced)
}

func TestProcessKeepsCheckpointOnFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p, store := newTestProcessor(config.Default())
	store.failSyncedAt[101] = errors.New("connection reset")

	blocks := []*types.StreamerMessage{
		newBlock(100, newOutcome("R1", "minter.near", testStore, []string{mintLog(t, "alice.near", "1")})),
		newBlock(101, newOutcome("R2", "minter.near", testStore, []string{mintLog(t, "alice.near", "2")})),
		newBlock(102, newOutcome("R3", "minter.near", testStore, []string{mintLog(t, "alice.near", "3")})),
	}
	err := p.Process(ctx, blocks)
	require.Error(t, err)

	synced, err := store.GetSyncedHeight(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 100, synced)
	// block 102 is never reached
	_, err = store.GetToken(ctx, testStore, "3")
	assert.ErrorIs(t, err, errs.NotFound)

	// a restart replays block 101 idempotently
	delete(store.failSyncedAt, 101)
	current, err := p.CurrentBlock(ctx)
	require.NoError(t, err)
	require.NoError(t, p.Process(ctx, blocks[current-99:]))
	synced, err = store.GetSyncedHeight(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 102, synced)
	assert.Len(t, store.activitiesOf(entity.ActivityKindMint), 3)
}

func TestProcessCheckpointIsMonotonic(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p, store := newTestProcessor(config.Default())
	store.failReceipts["R2"] = errors.New("deadlock detected")

	blocks := []*types.StreamerMessage{
		newBlock(100, newOutcome("R1", "minter.near", testStore, []string{mintLog(t, "alice.near", "1")})),
		newBlock(101,
			newOutcome("R2", "minter.near", testStore, []string{mintLog(t, "alice.near", "2")}),
			newOutcome("R3", "minter.near", testStore, []string{mintLog(t, "alice.near", "3")}),
		),
		newBlock(102, newOutcome("R4", "minter.near", testStore, []string{mintLog(t, "alice.near", "4")})),
	}
	require.NoError(t, p.Process(ctx, blocks))

	synced, err := store.GetSyncedHeight(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 102, synced)
	assert.Equal(t, []int64{100, 101, 102}, store.syncedLog)
	for i := 1; i < len(store.syncedLog); i++ {
		assert.Greater(t, store.syncedLog[i], store.syncedLog[i-1])
	}

	_, err = store.GetToken(ctx, testStore, "2")
	assert.ErrorIs(t, err, errs.NotFound)
	for _, tokenID := range []string{"1", "3", "4"} {
		_, err := store.GetToken(ctx, testStore, tokenID)
		assert.NoError(t, err, "token %s", tokenID)
	}
}

func TestProcessSkipsMalformedLine(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p, store := newTestProcessor(config.Default())

	block := newBlock(100, newOutcome("R1", "minter.near", testStore, []string{
		"EVENT_JSON:{not json",
		eventLog(t, "nep171", "1.0.0", "nft_mint", map[string]any{"owner_id": "alice.near"}),
		mintLog(t, "alice.near", "1"),
	}))
	require.NoError(t, p.Process(ctx, []*types.StreamerMessage{block}))

	token, err := store.GetToken(ctx, testStore, "1")
	require.NoError(t, err)
	assert.Equal(t, "alice.near", token.Owner)
}

func TestProcessAbandonsReceiptOnPersistenceFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p, store := newTestProcessor(config.Default())
	store.failReceipts["R1"] = errors.New("deadlock detected")

	block := newBlock(100,
		newOutcome("R1", "minter.near", testStore, []string{
			mintLog(t, "alice.near", "1"),
			mintLog(t, "alice.near", "2"),
		}),
		newOutcome("R2", "minter.near", testStore, []string{mintLog(t, "bob.near", "3")}),
	)
	require.NoError(t, p.Process(ctx, []*types.StreamerMessage{block}))

	for _, tokenID := range []string{"1", "2"} {
		_, err := store.GetToken(ctx, testStore, tokenID)
		assert.ErrorIs(t, err, errs.NotFound, "token %s", tokenID)
	}
	token, err := store.GetToken(ctx, testStore, "3")
	require.NoError(t, err)
	assert.Equal(t, "bob.near", token.Owner)

	synced, err := store.GetSyncedHeight(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 100, synced)
}

func TestProcessManyReceipts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	conf := config.Default()
	conf.Concurrency = 4
	p, store := newTestProcessor(conf)

	var outcomes []types.ReceiptExecutionOutcome
	for i := range 50 {
		tokenID := fmt.Sprint(i)
		outcomes = append(outcomes, newOutcome("R"+tokenID, "minter.near", testStore, []string{mintLog(t, "alice.near", tokenID)}))
	}
	require.NoError(t, p.Process(ctx, []*types.StreamerMessage{newBlock(100, outcomes...)}))
	assert.Len(t, store.tokens, 50)
}

func TestProcessRoutesParasLogs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p, store := newTestProcessor(config.Default())

	addMarketData := `{"type":"add_market_data","params":{"owner_id":"alice.near","approval_id":1,"nft_contract_id":"x.paras.near","token_id":"1:1","ft_token_id":"near","price":"10"}}`
	block := newBlock(100,
		newOutcome("R1", "alice.near", config.DefaultParasMarketID, []string{addMarketData}),
		newOutcome("R2", "alice.near", "not-paras.near", []string{addMarketData}),
	)
	require.NoError(t, p.Process(ctx, []*types.StreamerMessage{block}))

	require.Len(t, store.external, 1)
	for key := range store.external {
		assert.Equal(t, config.DefaultParasMarketID, key.MarketID)
	}
}

func TestProcessTracksAccounts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	conf := config.Default()
	conf.TrackAccounts = true
	p, store := newTestProcessor(conf)

	block := newBlock(100, newOutcome("R1", "a.near", "new.a.near", nil, withActions(testEd25519Key,
		types.ActionView{Kind: types.ActionCreateAccount},
		types.ActionView{
			Kind:   types.ActionAddKey,
			AddKey: &types.AddKeyAction{PublicKey: testEd25519Key, AccessKey: types.AccessKeyView{Permission: types.AccessKeyPermission{FullAccess: true}}},
		},
	)))
	require.NoError(t, p.Process(ctx, []*types.StreamerMessage{block}))

	assert.Len(t, store.accounts, 1)
	assert.Len(t, store.accessKeys, 1)
}

func TestCurrentBlock(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	testCases := []struct {
		name        string
		synced      *int64
		startHeight int64
		allowlist   []string
		expected    int64
	}{
		{name: "fresh", startHeight: 0, expected: -1},
		{name: "fresh with start height", startHeight: 9_820_210, expected: 9_820_209},
		{name: "resume", synced: ptr[int64](100), startHeight: 50, expected: 100},
		{name: "start height ahead of checkpoint", synced: ptr[int64](100), startHeight: 500, expected: 499},
		{name: "allowlist backfill", synced: ptr[int64](100), startHeight: 50, allowlist: []string{"a.near"}, expected: 49},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			conf := config.Default()
			conf.StartHeight = tc.startHeight
			conf.Allowlist = tc.allowlist
			p, store := newTestProcessor(conf)
			store.synced = tc.synced

			current, err := p.CurrentBlock(ctx)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, current)
		})
	}
}

func TestProcessorShutdown(t *testing.T) {
	t.Parallel()
	var calls int
	store := newMemStore()
	p := NewProcessor(store, NewStateMachine(store, nil, config.Default(), nil), config.Default(), nil, []func(context.Context) error{
		func(context.Context) error { calls++; return nil },
		func(context.Context) error { calls++; return errors.New("close failed") },
	})
	err := p.Shutdown(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "market", p.Name())
}
