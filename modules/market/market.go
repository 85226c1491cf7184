package market

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-indexer/common/errs"
	"github.com/gaze-network/near-indexer/core/datasources"
	"github.com/gaze-network/near-indexer/core/indexer"
	"github.com/gaze-network/near-indexer/internal/config"
	"github.com/gaze-network/near-indexer/internal/postgres"
	"github.com/gaze-network/near-indexer/modules/market/api/httphandler"
	marketpostgres "github.com/gaze-network/near-indexer/modules/market/repository/postgres"
	"github.com/gaze-network/near-indexer/pkg/enrichment"
	"github.com/gaze-network/near-indexer/pkg/logger"
	"github.com/gaze-network/near-indexer/pkg/logger/slogx"
	"github.com/gaze-network/near-indexer/pkg/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/do/v2"
	"github.com/samber/lo"
)

const (
	Version = "v0.1.0"

	metricsNamespace = "near_market"
)

func New(injector do.Injector) (indexer.IndexerWorker, error) {
	ctx := do.MustInvoke[context.Context](injector)
	conf := do.MustInvoke[config.Config](injector)
	registerer := do.MustInvoke[prometheus.Registerer](injector)
	marketConf := conf.Modules.Market

	var cleanupFuncs []func(context.Context) error

	pg, err := postgres.NewPool(ctx, marketConf.Postgres)
	if err != nil {
		if errors.Is(err, errs.InvalidArgument) {
			return nil, errors.Wrap(err, "Invalid Postgres configuration for indexer")
		}
		return nil, errors.Wrap(err, "can't create Postgres connection pool")
	}
	repo := marketpostgres.NewRepository(pg)

	notifier, err := enrichment.New(ctx, marketConf.Enrichment, metrics.NewNotifierMetrics(metricsNamespace, registerer))
	if err != nil {
		pg.Close()
		return nil, errors.Wrap(err, "can't create enrichment client")
	}

	cleanupFuncs = append(cleanupFuncs,
		func(ctx context.Context) error {
			return errors.WithStack(notifier.Close(ctx))
		},
		func(ctx context.Context) error {
			pg.Close()
			return nil
		},
	)

	indexerMetrics := metrics.NewIndexerMetrics(metricsNamespace, registerer)
	stateMachine := NewStateMachine(repo, notifier, marketConf, indexerMetrics)
	processor := NewProcessor(repo, stateMachine, marketConf, indexerMetrics, cleanupFuncs)

	datasource, err := datasources.NewNearLake(ctx, datasources.NearLakeConfig{
		Bucket:        lo.Ternary(conf.Near.Bucket != "", conf.Near.Bucket, conf.Near.Network.LakeBucket()),
		Region:        conf.Near.Region,
		RequesterPays: conf.Near.RequesterPays,
		Prefetch:      conf.Near.Prefetch,
	})
	if err != nil {
		return nil, errors.Join(errors.Wrap(err, "can't create NEAR Lake datasource"), processor.Shutdown(ctx))
	}

	httpServer := do.MustInvoke[*fiber.App](injector)
	if err := httphandler.New(repo).Mount(httpServer); err != nil {
		return nil, errors.Join(errors.Wrap(err, "can't mount market API"), processor.Shutdown(ctx))
	}
	logger.InfoContext(ctx, "Mounted HTTP handler")

	worker := indexer.New(processor, datasource)
	worker.StopHeight = marketConf.StopHeight
	if len(marketConf.Allowlist) > 0 {
		logger.WarnContext(ctx, "Receiver allowlist is set. The checkpoint still advances on every block, so an unfiltered run resumed afterwards skips what the backfill filtered out",
			slogx.Strings("allowlist", marketConf.Allowlist),
		)
	}
	return worker, nil
}
