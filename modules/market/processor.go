package market

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-indexer/common/errs"
	"github.com/gaze-network/near-indexer/core/indexer"
	"github.com/gaze-network/near-indexer/core/types"
	"github.com/gaze-network/near-indexer/modules/market/config"
	"github.com/gaze-network/near-indexer/modules/market/datagateway"
	"github.com/gaze-network/near-indexer/modules/market/internal/entity"
	"github.com/gaze-network/near-indexer/modules/market/internal/event"
	"github.com/gaze-network/near-indexer/pkg/logger"
	"github.com/gaze-network/near-indexer/pkg/logger/slogx"
	"github.com/gaze-network/near-indexer/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// progressInterval is how often, in blocks, the processor logs its height.
const progressInterval = 10

var _ indexer.Processor[*types.StreamerMessage] = (*Processor)(nil)

// Processor indexes one block at a time. Receipts of a block run concurrently; the logs of a
// receipt run in order on the receipt's goroutine. The checkpoint moves once all receipts joined.
type Processor struct {
	dg           datagateway.MarketDataGateway
	sm           *StateMachine
	registry     *Registry
	metrics      *metrics.IndexerMetrics
	config       config.Config
	extract      ExtractOptions
	cleanupFuncs []func(context.Context) error
}

func NewProcessor(dg datagateway.MarketDataGateway, sm *StateMachine, conf config.Config, m *metrics.IndexerMetrics, cleanupFuncs []func(context.Context) error) *Processor {
	return &Processor{
		dg:       dg,
		sm:       sm,
		registry: NewRegistry(sm),
		metrics:  m,
		config:   conf,
		extract: ExtractOptions{
			Allowlist:     NewAllowlist(conf.Allowlist),
			TrackAccounts: conf.TrackAccounts,
		},
		cleanupFuncs: cleanupFuncs,
	}
}

func (p *Processor) Name() string {
	return "market"
}

// CurrentBlock returns the checkpoint, or the block before the configured start height when that
// is further ahead. Allowlisted backfills always start from the configured start height.
func (p *Processor) CurrentBlock(ctx context.Context) (int64, error) {
	beforeStart := p.config.StartHeight - 1
	if len(p.config.Allowlist) > 0 {
		logger.InfoContext(ctx, "Allowlist is set, backfilling from start height",
			slogx.Int64("start_height", p.config.StartHeight),
			slogx.Strings("allowlist", p.config.Allowlist),
		)
		return beforeStart, nil
	}

	synced, err := p.dg.GetSyncedHeight(ctx)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return beforeStart, nil
		}
		return 0, errors.Wrap(err, "failed to get synced height")
	}
	return max(synced, beforeStart), nil
}

func (p *Processor) Process(ctx context.Context, blocks []*types.StreamerMessage) error {
	for _, block := range blocks {
		if err := p.processBlock(ctx, block); err != nil {
			return errors.Wrapf(err, "failed to process block %d", block.Height())
		}
	}
	return nil
}

func (p *Processor) processBlock(ctx context.Context, block *types.StreamerMessage) error {
	startAt := time.Now()
	height := block.Height()
	if height%progressInterval == 0 {
		logger.InfoContext(ctx, "Processing block", slogx.Int64("height", height))
	}

	receipts := Extract(block, p.extract)

	// tasks never fail: receipt errors are logged so they don't cancel siblings
	var g errgroup.Group
	g.SetLimit(max(p.config.Concurrency, 1))
	for _, receipt := range receipts {
		g.Go(func() error {
			p.processReceipt(ctx, receipt)
			return nil
		})
	}
	_ = g.Wait()

	if err := p.dg.SetSyncedHeight(ctx, height); err != nil {
		return errors.Wrap(err, "failed to set synced height")
	}

	p.metrics.SetSyncedHeight(height)
	p.metrics.AddProcessedReceipts(len(receipts))
	p.metrics.ObserveBlockDuration(time.Since(startAt).Seconds())
	return nil
}

func (p *Processor) processReceipt(ctx context.Context, receipt ReceiptLogs) {
	rc := receipt.Context
	ctx = logger.WithContext(ctx,
		slogx.String("receipt_id", rc.ID),
		slogx.String("receiver", rc.Receiver),
		slogx.Int64("block_height", rc.Height),
	)

	for i, line := range receipt.Logs {
		rc.LogIndex = i
		if err := p.processLog(ctx, rc, line); err != nil {
			if p.reportError(ctx, err, line) {
				return
			}
		}
	}

	for _, action := range receipt.Actions {
		if err := p.sm.TrackAction(ctx, rc, action); err != nil {
			p.reportError(ctx, err, string(action.Kind))
			return
		}
	}
}

func (p *Processor) processLog(ctx context.Context, rc entity.ReceiptContext, line string) error {
	ev, ok, err := event.Classify(line)
	if err != nil {
		return errors.WithStack(err)
	}
	if !ok {
		if rc.Receiver == p.config.ParasMarketID {
			return errors.WithStack(p.sm.ParasLog(ctx, rc, line))
		}
		return nil
	}

	handler, ok := p.registry.Lookup(ev.Key)
	if !ok {
		return nil
	}
	if err := handler(ctx, rc, ev.Data); err != nil {
		return errors.Wrapf(err, "failed to handle %s", ev.Key)
	}
	p.metrics.IncHandledEvent(string(ev.Standard), string(ev.Version), string(ev.Kind))
	return nil
}

// reportError logs a failed log line and reports whether the rest of the receipt must be
// abandoned. Malformed input only skips the offending line.
func (p *Processor) reportError(ctx context.Context, err error, line string) (abandon bool) {
	if errors.Is(err, errs.Malformed) || errors.Is(err, errs.InvalidArgument) || errors.Is(err, errs.OverflowUint128) {
		p.metrics.IncLogError(metrics.LogErrorMalformed)
		logger.ErrorContext(ctx, "Skipped malformed event", err, slogx.String("log", line))
		return false
	}
	p.metrics.IncLogError(metrics.LogErrorPersistence)
	logger.ErrorContext(ctx, "Failed to persist event, abandoning receipt", err, slogx.String("log", line))
	return true
}

func (p *Processor) Shutdown(ctx context.Context) error {
	var errList []error
	for _, cleanup := range p.cleanupFuncs {
		if err := cleanup(ctx); err != nil {
			errList = append(errList, err)
		}
	}
	return errors.WithStack(errors.Join(errList...))
}
