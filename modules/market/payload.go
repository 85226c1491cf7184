package market

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-indexer/common/errs"
	"github.com/gaze-network/uint128"
)

// U128 decodes a NEAR U128, a decimal string. Bare numbers are accepted too since some
// contracts emit them.
type U128 struct {
	uint128.Uint128
}

func (u *U128) UnmarshalJSON(data []byte) error {
	s, err := unquoteNumber(data)
	if err != nil {
		return errors.WithStack(err)
	}
	v, err := uint128.FromString(s)
	if err != nil {
		return errors.Wrapf(errs.Malformed, "invalid u128 %q: %v", s, err)
	}
	u.Uint128 = v
	return nil
}

func (u U128) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(u.String())), nil
}

// U64 decodes a NEAR U64 (decimal string) or a bare u64 number.
type U64 uint64

func (u *U64) UnmarshalJSON(data []byte) error {
	s, err := unquoteNumber(data)
	if err != nil {
		return errors.WithStack(err)
	}
	v, err := parseU64(s)
	if err != nil {
		return errors.WithStack(err)
	}
	*u = U64(v)
	return nil
}

func (u U64) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(strconv.FormatUint(uint64(u), 10))), nil
}

func unquoteNumber(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", errors.Wrap(errs.Malformed, "invalid number string")
		}
		return s, nil
	}
	return string(data), nil
}

// decodePayload decodes an event payload, rejecting unknown shapes as errs.Malformed.
func decodePayload(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return errors.Wrap(errs.Malformed, "missing event data")
	}
	if err := json.Unmarshal(data, v); err != nil {
		if errors.Is(err, errs.Malformed) {
			return errors.WithStack(err)
		}
		return errors.Wrapf(errs.Malformed, "invalid event data: %v", err)
	}
	return nil
}

// parseListID splits a v0.1 market list id, "<token_id>:<approval_id>:<contract_id>".
func parseListID(listID string) (tokenID string, approvalID uint64, contractID string, err error) {
	tokenID, rest, ok := strings.Cut(listID, ":")
	if !ok {
		return "", 0, "", errors.Wrapf(errs.Malformed, "invalid list id %q", listID)
	}
	approval, contractID, ok := strings.Cut(rest, ":")
	if !ok {
		return "", 0, "", errors.Wrapf(errs.Malformed, "invalid list id %q", listID)
	}
	approvalID, err = strconv.ParseUint(approval, 10, 64)
	if err != nil {
		return "", 0, "", errors.Wrapf(errs.Malformed, "invalid approval id in list id %q", listID)
	}
	return tokenID, approvalID, contractID, nil
}

func parseU64(s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(errs.Malformed, "invalid u64 %q", s)
	}
	return v, nil
}

func ptr[T any](v T) *T {
	return &v
}
