// NEAR Lake Datasource
// - https://docs.near.org/concepts/advanced/near-lake-framework
//
// Every block is stored under a 12-digit zero-padded height prefix:
// <height>/block.json and <height>/shard_<id>.json. Heights may be skipped, so they are
// discovered by listing prefixes rather than by counting.
package datasources

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-indexer/common/errs"
	"github.com/gaze-network/near-indexer/core/types"
	"github.com/gaze-network/near-indexer/internal/subscription"
	"github.com/gaze-network/near-indexer/pkg/logger"
	"github.com/gaze-network/near-indexer/pkg/logger/slogx"
	cstream "github.com/planxnx/concurrent-stream"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultNearLakeRegion   = "eu-central-1"
	DefaultNearLakePrefetch = 16
)

// Make sure to implement the Datasource interface
var _ Datasource[*types.StreamerMessage] = (*NearLakeDatasource)(nil)

// S3API is the subset of the S3 client used by the lake datasource.
type S3API interface {
	manager.DownloadAPIClient
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

type NearLakeConfig struct {
	Bucket        string
	Region        string
	RequesterPays bool
	Prefetch      int
}

type NearLakeDatasource struct {
	s3Client      S3API
	s3Bucket      string
	requesterPays bool
	prefetch      int
}

// NewNearLake creates a datasource reading the given lake bucket. Without requester-pays the
// bucket is accessed anonymously, which suits self-hosted mirrors.
func NewNearLake(ctx context.Context, conf NearLakeConfig) (*NearLakeDatasource, error) {
	if conf.Bucket == "" {
		return nil, errors.Wrap(errs.InvalidArgument, "near lake bucket is required")
	}

	sdkConfig, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "can't load aws user config")
	}

	s3client := s3.NewFromConfig(sdkConfig, func(o *s3.Options) {
		o.Region = utils.Default(conf.Region, DefaultNearLakeRegion)
		if !conf.RequesterPays {
			o.Credentials = aws.AnonymousCredentials{}
		}
	})

	return NewNearLakeWithClient(s3client, conf), nil
}

func NewNearLakeWithClient(client S3API, conf NearLakeConfig) *NearLakeDatasource {
	return &NearLakeDatasource{
		s3Client:      client,
		s3Bucket:      conf.Bucket,
		requesterPays: conf.RequesterPays,
		prefetch:      utils.Default(conf.Prefetch, DefaultNearLakePrefetch),
	}
}

func (NearLakeDatasource) Name() string {
	return "near_lake"
}

func (d *NearLakeDatasource) Fetch(ctx context.Context, from, to int64) ([]*types.StreamerMessage, error) {
	ch := make(chan []*types.StreamerMessage)
	subscription, err := d.FetchAsync(ctx, from, to, ch)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer subscription.Unsubscribe()

	messages := make([]*types.StreamerMessage, 0)
	for {
		select {
		case b := <-ch:
			messages = append(messages, b...)
		case <-subscription.Done():
			if err := ctx.Err(); err != nil {
				return nil, errors.Wrap(err, "context done")
			}
			return messages, nil
		case err := <-subscription.Err():
			if err != nil {
				return nil, errors.Wrap(err, "got error while fetch async")
			}
			return messages, nil
		case <-ctx.Done():
			return nil, errors.Wrap(ctx.Err(), "context done")
		}
	}
}

// FetchAsync streams one page of block heights starting at from. Blocks are downloaded
// concurrently but delivered in height order. A download failure is reported on Err and
// stops delivery, so a consumer never sees a block after a missing one.
func (d *NearLakeDatasource) FetchAsync(ctx context.Context, from, to int64, ch chan<- []*types.StreamerMessage) (*subscription.ClientSubscription[[]*types.StreamerMessage], error) {
	ctx = logger.WithContext(ctx,
		slogx.String("package", "datasources"),
		slogx.String("datasource", d.Name()),
	)

	heights, err := d.listHeights(ctx, from, to)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list block heights")
	}

	subscription := subscription.NewSubscription(ch)
	if len(heights) == 0 {
		subscription.Close()
		return subscription.Client(), nil
	}

	out := make(chan *types.StreamerMessage)
	stream := cstream.NewStream(ctx, d.prefetch, out)

	go func() {
		defer close(out)
		_ = stream.Wait()
	}()

	// Fan-in downloaded blocks to the subscription in height order
	go func() {
		// keep the stream flowing once delivery stopped early
		defer func() {
			for range out {
			}
		}()
		for {
			select {
			case msg, ok := <-out:
				if !ok {
					subscription.Close()
					return
				}
				// download failed, the error is already on the subscription
				if msg == nil {
					return
				}
				if err := subscription.Send(ctx, []*types.StreamerMessage{msg}); err != nil {
					if !errors.Is(err, errs.Closed) {
						logger.WarnContext(ctx, "Failed to send block to subscription client", slogx.Int64("height", msg.Height()), slogx.Error(err))
					}
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		defer stream.Close()
		done := subscription.Done()
		for _, height := range heights {
			height := height
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			default:
			}
			stream.Go(func() *types.StreamerMessage {
				msg, err := d.fetchMessage(ctx, height)
				if err != nil {
					logger.ErrorContext(ctx, "Failed to fetch block from near lake", err, slogx.Int64("height", height))
					if err := subscription.SendError(ctx, errors.Wrapf(err, "failed to fetch block %d", height)); err != nil {
						logger.WarnContext(ctx, "Failed to send datasource error to subscription client", slogx.Error(err))
					}
					return nil
				}
				return msg
			})
		}
	}()

	return subscription.Client(), nil
}

// listHeights returns up to one listing page of block heights in [from, to].
func (d *NearLakeDatasource) listHeights(ctx context.Context, from, to int64) ([]int64, error) {
	from = max(from, 0)
	if to >= 0 && from > to {
		return nil, nil
	}

	input := &s3.ListObjectsV2Input{
		Bucket:    aws.String(d.s3Bucket),
		Delimiter: aws.String("/"),
	}
	if from > 0 {
		input.StartAfter = aws.String(heightPrefix(from - 1))
	}
	if d.requesterPays {
		input.RequestPayer = s3types.RequestPayerRequester
	}

	result, err := d.s3Client.ListObjectsV2(ctx, input)
	if err != nil {
		return nil, errors.Wrapf(err, "can't list s3 bucket prefixes for bucket %q after height %d", d.s3Bucket, from)
	}

	heights := make([]int64, 0, len(result.CommonPrefixes))
	for _, prefix := range result.CommonPrefixes {
		height, err := strconv.ParseInt(strings.TrimSuffix(aws.ToString(prefix.Prefix), "/"), 10, 64)
		if err != nil {
			logger.WarnContext(ctx, "Unexpected prefix in near lake bucket", slogx.String("prefix", aws.ToString(prefix.Prefix)))
			continue
		}
		if height < from || (to >= 0 && height > to) {
			continue
		}
		heights = append(heights, height)
	}
	return lo.Uniq(heights), nil
}

func (d *NearLakeDatasource) fetchMessage(ctx context.Context, height int64) (*types.StreamerMessage, error) {
	var msg types.StreamerMessage
	if err := d.downloadJSON(ctx, heightPrefix(height)+"/block.json", &msg.Block); err != nil {
		return nil, errors.WithStack(err)
	}

	msg.Shards = make([]types.Shard, len(msg.Block.Chunks))
	eg, ectx := errgroup.WithContext(ctx)
	for i := range msg.Block.Chunks {
		i := i
		eg.Go(func() error {
			key := fmt.Sprintf("%s/shard_%d.json", heightPrefix(height), i)
			return errors.WithStack(d.downloadJSON(ectx, key, &msg.Shards[i]))
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, errors.WithStack(err)
	}
	return &msg, nil
}

func (d *NearLakeDatasource) downloadJSON(ctx context.Context, key string, v any) error {
	data, err := d.downloadFile(ctx, key)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrapf(errs.Malformed, "can't decode %q: %v", key, err)
	}
	return nil
}

func (d *NearLakeDatasource) downloadFile(ctx context.Context, key string) ([]byte, error) {
	downloader := manager.NewDownloader(d.s3Client, func(d *manager.Downloader) {
		d.Concurrency = 1
	})

	input := &s3.GetObjectInput{
		Bucket: aws.String(d.s3Bucket),
		Key:    aws.String(key),
	}
	if d.requesterPays {
		input.RequestPayer = s3types.RequestPayerRequester
	}

	buffer := manager.NewWriteAtBuffer([]byte{})
	numBytes, err := downloader.Download(ctx, buffer, input)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to download file for bucket %q and key %q", d.s3Bucket, key)
	}
	if numBytes < 1 {
		return nil, errors.Wrapf(errs.NotFound, "got empty file %q", key)
	}
	return buffer.Bytes(), nil
}

func heightPrefix(height int64) string {
	return fmt.Sprintf("%012d", height)
}
