package postgres

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/gaze-network/near-indexer/modules/market/internal/entity"
	"github.com/gaze-network/uint128"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericUint128(t *testing.T) {
	t.Parallel()
	testCases := []uint128.Uint128{
		uint128.Zero,
		uint128.From64(1000),
		uint128.From64(1_500_000_000_000_000_000),
		uint128.Max,
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.String(), func(t *testing.T) {
			t.Parallel()
			numeric, err := numericFromUint128(&tc)
			require.NoError(t, err)
			assert.True(t, numeric.Valid)

			actual, err := uint128FromNumeric(numeric)
			require.NoError(t, err)
			require.NotNil(t, actual)
			assert.Equal(t, tc, *actual)
		})
	}

	t.Run("null", func(t *testing.T) {
		t.Parallel()
		numeric, err := numericFromUint128(nil)
		require.NoError(t, err)
		assert.False(t, numeric.Valid)

		actual, err := uint128FromNumeric(pgtype.Numeric{})
		require.NoError(t, err)
		assert.Nil(t, actual)
	})
}

func TestNullableMappers(t *testing.T) {
	t.Parallel()
	assert.False(t, textFromPtr(nil).Valid)
	assert.Equal(t, pgtype.Text{String: "a", Valid: true}, textFromPtr(lo.ToPtr("a")))
	assert.Nil(t, stringFromText(pgtype.Text{}))

	assert.False(t, int8FromPtr(nil).Valid)
	assert.Equal(t, lo.ToPtr(uint64(7)), uint64FromInt8(int8FromPtr(lo.ToPtr(uint64(7)))))

	local := time.Date(2023, 5, 1, 19, 0, 0, 0, time.FixedZone("ICT", 7*60*60))
	ts := timestamptzFromPtr(&local)
	assert.Equal(t, time.UTC, ts.Time.Location())
	assert.True(t, local.Equal(*timeFromTimestamptz(ts)))
	assert.Nil(t, timeFromTimestamptz(pgtype.Timestamptz{}))

	assert.Nil(t, jsonb(nil))
	assert.Equal(t, []byte(`{}`), jsonb(json.RawMessage(`{}`)))
}

func TestMapActivitiesTypeToParams(t *testing.T) {
	t.Parallel()
	price := uint128.From64(100)
	timestamp := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)
	params, err := mapActivitiesTypeToParams([]entity.Activity{
		{ReceiptID: "R1", TxSender: "a.near", Timestamp: timestamp, NftContractID: "c.near", TokenID: "1", Kind: entity.ActivityKindMint},
		{ReceiptID: "R2", TxSender: "b.near", Timestamp: timestamp, NftContractID: "c.near", TokenID: "1", Kind: entity.ActivityKindSold, Price: &price, Currency: lo.ToPtr("near")},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"R1", "R2"}, params.ReceiptIDArr)
	assert.Equal(t, []string{"mint", "sale"}, params.KindArr)
	require.Len(t, params.PriceArr, 2)
	assert.False(t, params.PriceArr[0].Valid)
	assert.True(t, params.PriceArr[1].Valid)
	assert.False(t, params.CurrencyArr[0].Valid)
	assert.Equal(t, "near", params.CurrencyArr[1].String)
}

func TestMapFtActivityTypeToParams(t *testing.T) {
	t.Parallel()
	params, err := mapFtActivityTypeToParams(entity.FtMovement{
		ReceiptID:  "R1",
		LogIndex:   2,
		ItemIndex:  1,
		FtContract: "usdt.tether-token.near",
		Kind:       entity.FtActivityKindMint,
		NewOwnerID: "alice.near",
		Amount:     uint128.From64(5),
	})
	require.NoError(t, err)
	assert.False(t, params.OldOwnerID.Valid)
	assert.Equal(t, pgtype.Text{String: "alice.near", Valid: true}, params.NewOwnerID)
	assert.EqualValues(t, 2, params.LogIndex)
	assert.EqualValues(t, 1, params.ItemIndex)
}
