package event

import (
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-indexer/common/errs"
)

// Prefix marks a NEP-297 event log line.
const Prefix = "EVENT_JSON:"

type Standard string

const (
	StandardNftCore  Standard = "nep171"
	StandardFtCore   Standard = "nep141"
	StandardMbStore  Standard = "mb_store"
	StandardMbMarket Standard = "mb_market"
)

type Version string

const (
	Version010 Version = "0.1.0"
	Version021 Version = "0.2.1"
	Version022 Version = "0.2.2"
	Version100 Version = "1.0.0"
)

// legacyVersionPrefix is carried by early mintbase token contracts ("nft-1.0.0").
const legacyVersionPrefix = "nft-"

type Kind string

const (
	KindNftMint                Kind = "nft_mint"
	KindNftTransfer            Kind = "nft_transfer"
	KindNftBurn                Kind = "nft_burn"
	KindNftMetadataUpdate      Kind = "nft_metadata_update"
	KindContractMetadataUpdate Kind = "contract_metadata_update"

	KindNftApprove        Kind = "nft_approve"
	KindNftRevoke         Kind = "nft_revoke"
	KindNftRevokeAll      Kind = "nft_revoke_all"
	KindNftSetSplitOwners Kind = "nft_set_split_owners"
	KindDeploy            Kind = "deploy"
	KindChangeSetting     Kind = "change_setting"
	KindCreateMetadata    Kind = "create_metadata"

	KindNftList          Kind = "nft_list"
	KindNftUnlist        Kind = "nft_unlist"
	KindNftUpdateList    Kind = "nft_update_list"
	KindNftSold          Kind = "nft_sold"
	KindNftSale          Kind = "nft_sale"
	KindNftMakeOffer     Kind = "nft_make_offer"
	KindNftWithdrawOffer Kind = "nft_withdraw_offer"
	KindNftFailedListing Kind = "nft_failed_listing"

	KindFtMint     Kind = "ft_mint"
	KindFtTransfer Kind = "ft_transfer"
	KindFtBurn     Kind = "ft_burn"
)

// Key selects a handler.
type Key struct {
	Standard Standard
	Version  Version
	Kind     Kind
}

func (k Key) String() string {
	return string(k.Standard) + "/" + string(k.Version) + "/" + string(k.Kind)
}

// Event is a classified log line. Data is left undecoded for the handler.
type Event struct {
	Key
	Data json.RawMessage
}

type envelope struct {
	Standard string          `json:"standard"`
	Version  string          `json:"version"`
	Event    string          `json:"event"`
	Data     json.RawMessage `json:"data"`
}

// Classify parses an event log line. It returns ok=false for lines without the event prefix and
// an errs.Malformed error when the envelope itself can't be decoded. The payload is not validated.
func Classify(log string) (Event, bool, error) {
	payload, ok := strings.CutPrefix(log, Prefix)
	if !ok {
		return Event{}, false, nil
	}

	var env envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		return Event{}, true, errors.Wrapf(errs.Malformed, "invalid event envelope: %v", err)
	}
	if env.Standard == "" || env.Version == "" || env.Event == "" {
		return Event{}, true, errors.Wrap(errs.Malformed, "event envelope is missing standard, version or event")
	}

	return Event{
		Key: Key{
			Standard: Standard(env.Standard),
			Version:  NormalizeVersion(env.Version),
			Kind:     Kind(env.Event),
		},
		Data: env.Data,
	}, true, nil
}

// NormalizeVersion strips the legacy "nft-" prefix.
func NormalizeVersion(version string) Version {
	return Version(strings.TrimPrefix(version, legacyVersionPrefix))
}
