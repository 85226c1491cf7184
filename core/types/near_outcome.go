package types

import (
	"bytes"
	"encoding/json"

	"github.com/cockroachdb/errors"
)

type ExecutionStatusKind string

const (
	ExecutionStatusUnknown          ExecutionStatusKind = "Unknown"
	ExecutionStatusFailure          ExecutionStatusKind = "Failure"
	ExecutionStatusSuccessValue     ExecutionStatusKind = "SuccessValue"
	ExecutionStatusSuccessReceiptID ExecutionStatusKind = "SuccessReceiptId"
)

// ExecutionStatus decodes NEAR's externally tagged execution status: either the bare string
// "Unknown" or a single-key object such as {"SuccessValue": ""}.
type ExecutionStatus struct {
	Kind  ExecutionStatusKind
	Value json.RawMessage
}

// IsSuccess reports whether the receipt executed successfully.
func (s ExecutionStatus) IsSuccess() bool {
	return s.Kind == ExecutionStatusSuccessValue || s.Kind == ExecutionStatusSuccessReceiptID
}

func (s *ExecutionStatus) UnmarshalJSON(data []byte) error {
	kind, value, err := decodeEnum(data)
	if err != nil {
		return errors.Wrap(err, "can't decode execution status")
	}
	s.Kind, s.Value = ExecutionStatusKind(kind), value
	return nil
}

func (s ExecutionStatus) MarshalJSON() ([]byte, error) {
	return encodeEnum(string(s.Kind), s.Value)
}

type ActionKind string

const (
	ActionCreateAccount  ActionKind = "CreateAccount"
	ActionDeployContract ActionKind = "DeployContract"
	ActionFunctionCall   ActionKind = "FunctionCall"
	ActionTransfer       ActionKind = "Transfer"
	ActionStake          ActionKind = "Stake"
	ActionAddKey         ActionKind = "AddKey"
	ActionDeleteKey      ActionKind = "DeleteKey"
	ActionDeleteAccount  ActionKind = "DeleteAccount"
	ActionDelegate       ActionKind = "Delegate"
)

// ActionView is one action of an action receipt. Only the variants the indexer
// reads are decoded into typed fields; the raw body is kept for the rest.
type ActionView struct {
	Kind ActionKind
	Raw  json.RawMessage

	AddKey        *AddKeyAction
	DeleteKey     *DeleteKeyAction
	DeleteAccount *DeleteAccountAction
}

type AddKeyAction struct {
	PublicKey string        `json:"public_key"`
	AccessKey AccessKeyView `json:"access_key"`
}

type AccessKeyView struct {
	Nonce      uint64              `json:"nonce"`
	Permission AccessKeyPermission `json:"permission"`
}

// AccessKeyPermission is "FullAccess" or {"FunctionCall": {...}}.
type AccessKeyPermission struct {
	FullAccess   bool
	FunctionCall json.RawMessage
}

func (p *AccessKeyPermission) UnmarshalJSON(data []byte) error {
	kind, value, err := decodeEnum(data)
	if err != nil {
		return errors.Wrap(err, "can't decode access key permission")
	}
	p.FullAccess = kind == "FullAccess"
	p.FunctionCall = value
	return nil
}

func (p AccessKeyPermission) MarshalJSON() ([]byte, error) {
	if p.FullAccess {
		return encodeEnum("FullAccess", nil)
	}
	return encodeEnum("FunctionCall", p.FunctionCall)
}

type DeleteKeyAction struct {
	PublicKey string `json:"public_key"`
}

type DeleteAccountAction struct {
	BeneficiaryID string `json:"beneficiary_id"`
}

func (a *ActionView) UnmarshalJSON(data []byte) error {
	kind, value, err := decodeEnum(data)
	if err != nil {
		return errors.Wrap(err, "can't decode action")
	}
	*a = ActionView{Kind: ActionKind(kind), Raw: value}

	var target any
	switch a.Kind {
	case ActionAddKey:
		a.AddKey = &AddKeyAction{}
		target = a.AddKey
	case ActionDeleteKey:
		a.DeleteKey = &DeleteKeyAction{}
		target = a.DeleteKey
	case ActionDeleteAccount:
		a.DeleteAccount = &DeleteAccountAction{}
		target = a.DeleteAccount
	default:
		return nil
	}
	if err := json.Unmarshal(value, target); err != nil {
		return errors.Wrapf(err, "can't decode %s action", kind)
	}
	return nil
}

func (a ActionView) MarshalJSON() ([]byte, error) {
	return encodeEnum(string(a.Kind), a.Raw)
}

// decodeEnum splits a serde externally tagged enum into its tag and body.
func decodeEnum(data []byte) (string, json.RawMessage, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var tag string
		if err := json.Unmarshal(data, &tag); err != nil {
			return "", nil, errors.WithStack(err)
		}
		return tag, nil, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return "", nil, errors.WithStack(err)
	}
	if len(obj) != 1 {
		return "", nil, errors.Newf("expected a single variant, got %d keys", len(obj))
	}
	for tag, value := range obj {
		return tag, value, nil
	}
	return "", nil, nil
}

func encodeEnum(tag string, value json.RawMessage) ([]byte, error) {
	if value == nil {
		b, err := json.Marshal(tag)
		return b, errors.WithStack(err)
	}
	b, err := json.Marshal(map[string]json.RawMessage{tag: value})
	return b, errors.WithStack(err)
}
