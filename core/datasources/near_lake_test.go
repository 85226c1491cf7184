package datasources

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-indexer/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLake struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeLake(heights ...int64) *fakeLake {
	lake := &fakeLake{objects: map[string][]byte{}}
	for _, h := range heights {
		prefix := heightPrefix(h)
		lake.objects[prefix+"/block.json"] = []byte(fmt.Sprintf(
			`{"author":"node.near","header":{"height":%d,"hash":"H%d","timestamp_nanosec":"1595350551591948000"},"chunks":[{"shard_id":0},{"shard_id":1}]}`, h, h))
		lake.objects[prefix+"/shard_0.json"] = []byte(`{"shard_id":0,"chunk":null,"receipt_execution_outcomes":[]}`)
		lake.objects[prefix+"/shard_1.json"] = []byte(`{"shard_id":1,"chunk":{"author":"node.near","header":{"shard_id":1}},"receipt_execution_outcomes":[]}`)
	}
	return lake
}

func (f *fakeLake) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	data, ok := f.objects[aws.ToString(params.Key)]
	f.mu.Unlock()
	if !ok {
		return nil, errors.Newf("no such key %q", aws.ToString(params.Key))
	}
	return &s3.GetObjectOutput{
		Body:         io.NopCloser(bytes.NewReader(data)),
		ContentRange: aws.String(fmt.Sprintf("bytes 0-%d/%d", len(data)-1, len(data))),
	}, nil
}

func (f *fakeLake) ListObjectsV2(_ context.Context, params *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	seen := map[string]struct{}{}
	for key := range f.objects {
		if key <= aws.ToString(params.StartAfter) {
			continue
		}
		seen[key[:strings.Index(key, "/")+1]] = struct{}{}
	}
	prefixes := make([]string, 0, len(seen))
	for p := range seen {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)

	out := &s3.ListObjectsV2Output{}
	for _, p := range prefixes {
		out.CommonPrefixes = append(out.CommonPrefixes, s3types.CommonPrefix{Prefix: aws.String(p)})
	}
	return out, nil
}

func heightsOf(messages []*types.StreamerMessage) []int64 {
	heights := make([]int64, 0, len(messages))
	for _, m := range messages {
		heights = append(heights, m.Height())
	}
	return heights
}

func TestNearLakeFetchSkipsMissingHeightsInOrder(t *testing.T) {
	t.Parallel()
	lake := newFakeLake(100, 101, 103, 104, 107)
	ds := NewNearLakeWithClient(lake, NearLakeConfig{Bucket: "near-lake-data-testnet", Prefetch: 3})

	messages, err := ds.Fetch(context.Background(), 101, 104)
	require.NoError(t, err)
	assert.Equal(t, []int64{101, 103, 104}, heightsOf(messages))

	for _, msg := range messages {
		require.Len(t, msg.Shards, 2)
		assert.Nil(t, msg.Shards[0].Chunk)
		assert.NotNil(t, msg.Shards[1].Chunk)
	}
}

func TestNearLakeFetchOpenEnded(t *testing.T) {
	t.Parallel()
	lake := newFakeLake(5, 6, 9)
	ds := NewNearLakeWithClient(lake, NearLakeConfig{Bucket: "b"})

	messages, err := ds.Fetch(context.Background(), 6, -1)
	require.NoError(t, err)
	assert.Equal(t, []int64{6, 9}, heightsOf(messages))

	messages, err = ds.Fetch(context.Background(), 10, -1)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestNearLakeFetchReportsMissingShard(t *testing.T) {
	t.Parallel()
	lake := newFakeLake(1, 2, 3)
	delete(lake.objects, heightPrefix(2)+"/shard_1.json")
	ds := NewNearLakeWithClient(lake, NearLakeConfig{Bucket: "b", Prefetch: 1})

	ch := make(chan []*types.StreamerMessage)
	sub, err := ds.FetchAsync(context.Background(), 1, 3, ch)
	require.NoError(t, err)
	defer sub.Unsubscribe()

	var delivered []int64
	for {
		select {
		case batch := <-ch:
			delivered = append(delivered, heightsOf(batch)...)
			continue
		case err := <-sub.Err():
			require.Error(t, err)
		}
		break
	}
	assert.NotContains(t, delivered, int64(3))
}
