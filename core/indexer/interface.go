package indexer

import (
	"context"
)

type IndexerWorker interface {
	Run(ctx context.Context) error
	Shutdown() error
}

// Input is one unit of ordered chain data.
type Input interface {
	Height() int64
}

type Processor[T Input] interface {
	Name() string

	// Process processes the inputs in order and checkpoints after each of them.
	Process(ctx context.Context, inputs []T) error

	// CurrentBlock returns the height of the latest fully processed input.
	CurrentBlock(ctx context.Context) (int64, error)

	// Shutdown releases the processor's resources.
	Shutdown(ctx context.Context) error
}
