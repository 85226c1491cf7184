package config

import (
	"github.com/gaze-network/near-indexer/internal/postgres"
	"github.com/gaze-network/near-indexer/pkg/enrichment"
)

const (
	DefaultMintbaseRoot  = "mintbase1.near"
	DefaultParasMarketID = "marketplace.paras.near"
	DefaultConcurrency   = 256
)

type Config struct {
	// StartHeight is the first block to index when no checkpoint exists yet.
	StartHeight int64 `mapstructure:"start_height"`
	// StopHeight is the last block to index. Zero means follow the chain forever.
	StopHeight int64 `mapstructure:"stop_height"`
	// Allowlist restricts indexing to receipts executed on these accounts. Used for backfills.
	Allowlist     []string `mapstructure:"allowlist"`
	MintbaseRoot  string   `mapstructure:"mintbase_root"`
	ParasMarketID string   `mapstructure:"paras_market_id"`
	// Concurrency bounds the number of receipts processed at once within a block.
	Concurrency   int  `mapstructure:"concurrency"`
	TrackAccounts bool `mapstructure:"track_accounts"`

	Postgres   postgres.Config   `mapstructure:"postgres"`
	Enrichment enrichment.Config `mapstructure:"enrichment"`
}

func Default() Config {
	return Config{
		MintbaseRoot:  DefaultMintbaseRoot,
		ParasMarketID: DefaultParasMarketID,
		Concurrency:   DefaultConcurrency,
		Enrichment: enrichment.Config{
			Timeout:    enrichment.DefaultTimeout,
			Workers:    enrichment.DefaultWorkers,
			QueueSize:  enrichment.DefaultQueueSize,
			MaxElapsed: enrichment.DefaultMaxElapsed,
			DedupeTTL:  enrichment.DefaultDedupeTTL,
		},
	}
}

// Defaults returns every leaf key with its current value, relative to the module's config root.
func (c Config) Defaults() map[string]any {
	return map[string]any{
		"start_height":    c.StartHeight,
		"stop_height":     c.StopHeight,
		"allowlist":       c.Allowlist,
		"mintbase_root":   c.MintbaseRoot,
		"paras_market_id": c.ParasMarketID,
		"concurrency":     c.Concurrency,
		"track_accounts":  c.TrackAccounts,

		"postgres.host":      c.Postgres.Host,
		"postgres.port":      c.Postgres.Port,
		"postgres.user":      c.Postgres.User,
		"postgres.password":  c.Postgres.Password,
		"postgres.db_name":   c.Postgres.DBName,
		"postgres.ssl_mode":  c.Postgres.SSLMode,
		"postgres.url":       c.Postgres.URL,
		"postgres.max_conns": c.Postgres.MaxConns,
		"postgres.min_conns": c.Postgres.MinConns,
		"postgres.debug":     c.Postgres.Debug,

		"enrichment.url":         c.Enrichment.URL,
		"enrichment.timeout":     c.Enrichment.Timeout,
		"enrichment.workers":     c.Enrichment.Workers,
		"enrichment.queue_size":  c.Enrichment.QueueSize,
		"enrichment.rate_limit":  c.Enrichment.RateLimit,
		"enrichment.burst":       c.Enrichment.Burst,
		"enrichment.max_elapsed": c.Enrichment.MaxElapsed,
		"enrichment.dedupe_ttl":  c.Enrichment.DedupeTTL,
		"enrichment.debug":       c.Enrichment.Debug,
	}
}
