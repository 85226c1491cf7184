package indexer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-indexer/common/errs"
	"github.com/gaze-network/near-indexer/core/datasources"
	"github.com/gaze-network/near-indexer/pkg/logger"
	"github.com/gaze-network/near-indexer/pkg/logger/slogx"
)

// DefaultPollingInterval is how long the indexer waits after catching up with the chain tip.
const DefaultPollingInterval = 15 * time.Second

var errStopHeightReached = errors.New("stop height reached")

// Indexer pulls inputs in height order and hands them to the processor one round at a time.
type Indexer[T Input] struct {
	Processor  Processor[T]
	Datasource datasources.Datasource[T]

	// StopHeight is the last height to process. Zero or negative means run forever.
	StopHeight      int64
	PollingInterval time.Duration

	currentHeight int64

	quitOnce sync.Once
	quit     chan struct{}
	done     chan struct{}
}

// New create new generic indexer
func New[T Input](processor Processor[T], datasource datasources.Datasource[T]) *Indexer[T] {
	return &Indexer[T]{
		Processor:       processor,
		Datasource:      datasource,
		PollingInterval: DefaultPollingInterval,

		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
}

func (i *Indexer[T]) Shutdown() error {
	return i.ShutdownWithContext(context.Background())
}

func (i *Indexer[T]) ShutdownWithTimeout(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return i.ShutdownWithContext(ctx)
}

func (i *Indexer[T]) ShutdownWithContext(ctx context.Context) (err error) {
	i.quitOnce.Do(func() {
		close(i.quit)
		select {
		case <-i.done:
		case <-time.After(180 * time.Second):
			err = errors.Wrap(errs.Timeout, "indexer shutdown timeout")
		case <-ctx.Done():
			err = errors.Wrap(ctx.Err(), "indexer shutdown context canceled")
		}
	})
	return
}

// Run processes inputs until the stop height is processed, the context is done or Shutdown is called.
func (i *Indexer[T]) Run(ctx context.Context) (err error) {
	defer close(i.done)
	defer func() {
		if serr := i.Processor.Shutdown(context.WithoutCancel(ctx)); serr != nil {
			logger.ErrorContext(ctx, "Failed to shutdown processor", serr)
			err = errors.Join(err, errors.Wrap(serr, "processor shutdown failed"))
		}
	}()

	ctx = logger.WithContext(ctx,
		slog.String("package", "indexer"),
		slog.String("processor", i.Processor.Name()),
		slog.String("datasource", i.Datasource.Name()),
	)

	i.currentHeight, err = i.Processor.CurrentBlock(ctx)
	if err != nil {
		if !errors.Is(err, errs.NotFound) {
			return errors.Wrap(err, "can't init state, failed to get indexer current block")
		}
		i.currentHeight = -1
	}

	for {
		if i.reachedStopHeight() {
			logger.InfoContext(ctx, "Reached stop height, stopping indexer", slogx.Int64("stop_height", i.StopHeight))
			return nil
		}

		processed, err := i.process(ctx)
		switch {
		case errors.Is(err, errStopHeightReached):
			logger.InfoContext(ctx, "Reached stop height, stopping indexer", slogx.Int64("stop_height", i.StopHeight))
			return nil
		case err != nil:
			if ctx.Err() != nil {
				return nil
			}
			logger.ErrorContext(ctx, "Indexer failed while processing", err)
			return errors.Wrap(err, "process failed")
		}

		// keep going without waiting while the datasource still has data
		if processed > 0 {
			select {
			case <-i.quit:
				logger.InfoContext(ctx, "Got quit signal, stopping indexer")
				return nil
			case <-ctx.Done():
				return nil
			default:
				continue
			}
		}

		logger.DebugContext(ctx, "Waiting for next polling interval")
		select {
		case <-i.quit:
			logger.InfoContext(ctx, "Got quit signal, stopping indexer")
			return nil
		case <-ctx.Done():
			return nil
		case <-time.After(i.PollingInterval):
		}
	}
}

func (i *Indexer[T]) reachedStopHeight() bool {
	return i.StopHeight > 0 && i.currentHeight >= i.StopHeight
}

// process runs one fetch round and returns the number of processed inputs.
func (i *Indexer[T]) process(ctx context.Context) (processed int, err error) {
	// fetch open-ended: the stop height may be a skipped height, only a later input proves it passed
	from, to := i.currentHeight+1, int64(-1)

	logger.DebugContext(ctx, "Start fetching input data", slogx.Int64("from", from), slogx.Int64("to", to))
	ch := make(chan []T)
	subscription, err := i.Datasource.FetchAsync(ctx, from, to, ch)
	if err != nil {
		return 0, errors.Wrap(err, "failed to fetch input data")
	}
	defer subscription.Unsubscribe()

	for {
		select {
		case <-i.quit:
			return processed, nil
		case inputs := <-ch:
			if len(inputs) == 0 {
				continue
			}

			// the stop-height input itself is processed, anything beyond it is not
			if i.StopHeight > 0 {
				inputs = cutAfter(inputs, i.StopHeight)
				if len(inputs) == 0 {
					return processed, errStopHeightReached
				}
			}

			for k := 1; k < len(inputs); k++ {
				if inputs[k].Height() <= inputs[k-1].Height() {
					return processed, errors.Wrapf(errs.InternalError, "inputs are out of order, input[%d] height: %d, input[%d] height: %d", k-1, inputs[k-1].Height(), k, inputs[k].Height())
				}
			}
			if inputs[0].Height() <= i.currentHeight {
				return processed, errors.Wrapf(errs.InternalError, "input height %d is not above current height %d", inputs[0].Height(), i.currentHeight)
			}

			startAt := time.Now()
			if err := i.Processor.Process(ctx, inputs); err != nil {
				return processed, errors.WithStack(err)
			}

			i.currentHeight = inputs[len(inputs)-1].Height()
			processed += len(inputs)

			logger.DebugContext(ctx, "Processed inputs successfully",
				slogx.String("event", "processed_inputs"),
				slogx.Int64("current_block", i.currentHeight),
				slogx.Int("total_inputs", len(inputs)),
				slogx.Duration("duration", time.Since(startAt)),
			)

			if i.reachedStopHeight() {
				return processed, errStopHeightReached
			}
		case <-subscription.Done():
			// end current round; ch is unbuffered so every forwarded value was already received
			return processed, errors.WithStack(ctx.Err())
		case <-ctx.Done():
			return processed, errors.WithStack(ctx.Err())
		case err := <-subscription.Err():
			if err != nil {
				return processed, errors.Wrap(err, "got error while fetch async")
			}
		}
	}
}

func cutAfter[T Input](inputs []T, height int64) []T {
	for k, input := range inputs {
		if input.Height() > height {
			return inputs[:k]
		}
	}
	return inputs
}
