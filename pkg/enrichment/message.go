package enrichment

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-indexer/pkg/bufferpool"
)

// Message is one request to the enrichment service. Messages are sent as externally tagged
// JSON objects: {"HandleTokenPayload": {...}}.
type Message interface {
	Tag() string
}

// ContractPayload asks for contract metadata. Refresh forces a re-fetch of known contracts.
type ContractPayload struct {
	ContractID string `json:"contract_id"`
	Refresh    *bool  `json:"refresh"`
}

func (ContractPayload) Tag() string { return "HandleContractPayload" }

// TokenPayload asks for token metadata. Minter is set on mints, Refresh on metadata updates.
type TokenPayload struct {
	ContractID string   `json:"contract_id"`
	TokenIDs   []string `json:"token_ids"`
	Minter     *string  `json:"minter"`
	Refresh    *bool    `json:"refresh"`
}

func (TokenPayload) Tag() string { return "HandleTokenPayload" }

type MetadataPayload struct {
	ContractID       string            `json:"contract_id"`
	MetadataID       uint64            `json:"metadata_id"`
	MintersAllowlist []string          `json:"minters_allowlist"`
	Price            string            `json:"price"`
	FtContractID     *string           `json:"ft_contract_id"`
	Royalties        map[string]uint16 `json:"royalties"`
	RoyaltyPercent   *uint16           `json:"royalty_percent"`
	MaxSupply        *uint32           `json:"max_supply"`
	LastPossibleMint *uint64           `json:"last_possible_mint"`
	IsLocked         bool              `json:"is_locked"`
	Refresh          *bool             `json:"refresh"`
	Creator          string            `json:"creator"`
}

func (MetadataPayload) Tag() string { return "HandleMetadataPayload" }

type SalePayload struct {
	ContractID string `json:"contract_id"`
	TokenID    string `json:"token_id"`
	NewOwnerID string `json:"new_owner_id"`
	ReceiptID  string `json:"receipt_id"`
}

func (SalePayload) Tag() string { return "HandleSalePayload" }

// Encode wraps the message in its variant tag.
func Encode(m Message) ([]byte, error) {
	buf := bufferpool.Get()
	defer buf.Release()
	if err := encodeTo(buf, m); err != nil {
		return nil, errors.WithStack(err)
	}
	return bytes.Clone(buf.Bytes()), nil
}

func encodeTo(buf *bufferpool.Buffer, m Message) error {
	if err := json.NewEncoder(buf).Encode(map[string]Message{m.Tag(): m}); err != nil {
		return errors.Wrapf(err, "can't marshal %s", m.Tag())
	}
	buf.TrimNewline()
	return nil
}

// dedupeKey returns the cache key for messages that are safe to drop when repeated, or "" otherwise.
// Only plain contract lookups qualify: every mint, transfer and burn asks for its contract first.
func dedupeKey(m Message) string {
	c, ok := m.(ContractPayload)
	if !ok || (c.Refresh != nil && *c.Refresh) {
		return ""
	}
	return "contract:" + c.ContractID
}

// describe returns the identifiers logged with a failed message so it can be replayed by hand.
func describe(m Message) string {
	switch v := m.(type) {
	case ContractPayload:
		return v.ContractID
	case TokenPayload:
		return v.ContractID + "<$>" + strings.Join(v.TokenIDs, ",")
	case MetadataPayload:
		return v.ContractID + "<$>" + strconv.FormatUint(v.MetadataID, 10)
	case SalePayload:
		return v.ContractID + "::" + v.TokenID + " -> " + v.NewOwnerID
	default:
		return m.Tag()
	}
}
