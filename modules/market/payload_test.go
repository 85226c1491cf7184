package market

import (
	"encoding/json"
	"testing"

	"github.com/gaze-network/near-indexer/common/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestU128(t *testing.T) {
	t.Parallel()

	var v struct {
		A U128 `json:"a"`
		B U128 `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"340282366920938463463374607431768211455","b":42}`), &v))
	assert.Equal(t, "340282366920938463463374607431768211455", v.A.String())
	assert.Equal(t, uint64(42), v.B.Uint64())

	err := json.Unmarshal([]byte(`{"a":"-1"}`), &v)
	assert.ErrorIs(t, err, errs.Malformed)

	b, err := json.Marshal(v.B)
	require.NoError(t, err)
	assert.Equal(t, `"42"`, string(b))
}

func TestU64(t *testing.T) {
	t.Parallel()

	var v struct {
		A U64 `json:"a"`
		B U64 `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"18446744073709551615","b":7}`), &v))
	assert.Equal(t, U64(18446744073709551615), v.A)
	assert.Equal(t, U64(7), v.B)

	assert.ErrorIs(t, json.Unmarshal([]byte(`{"a":"x"}`), &v), errs.Malformed)
}

func TestParseListID(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		listID     string
		tokenID    string
		approvalID uint64
		contractID string
		wantErr    bool
	}{
		{listID: "12:3:store.mintbase1.near", tokenID: "12", approvalID: 3, contractID: "store.mintbase1.near"},
		{listID: "12:3:a:b", tokenID: "12", approvalID: 3, contractID: "a:b"},
		{listID: "12:x:store.mintbase1.near", wantErr: true},
		{listID: "12:3", wantErr: true},
		{listID: "12", wantErr: true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.listID, func(t *testing.T) {
			t.Parallel()

			tokenID, approvalID, contractID, err := parseListID(tc.listID)
			if tc.wantErr {
				assert.ErrorIs(t, err, errs.Malformed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.tokenID, tokenID)
			assert.Equal(t, tc.approvalID, approvalID)
			assert.Equal(t, tc.contractID, contractID)
		})
	}
}
