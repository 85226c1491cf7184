package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	conf := Default()
	assert.Equal(t, DefaultMintbaseRoot, conf.MintbaseRoot)
	assert.Equal(t, DefaultParasMarketID, conf.ParasMarketID)
	assert.Equal(t, DefaultConcurrency, conf.Concurrency)

	keys := conf.Defaults()
	assert.Equal(t, DefaultConcurrency, keys["concurrency"])
	for key := range keys {
		assert.False(t, strings.HasPrefix(key, "."), key)
		assert.Equal(t, strings.ToLower(key), key)
	}
}
