package entity

import (
	"time"

	"github.com/gaze-network/uint128"
)

type FtActivityKind string

const (
	FtActivityKindMint     FtActivityKind = "mint"
	FtActivityKindTransfer FtActivityKind = "transfer"
	FtActivityKindBurn     FtActivityKind = "burn"
)

// FtMovement is one fungible-token balance change. OldOwnerID is empty on mint and
// NewOwnerID is empty on burn.
type FtMovement struct {
	ReceiptID string
	// LogIndex and ItemIndex locate the movement within the receipt's logs.
	LogIndex   int
	ItemIndex  int
	Timestamp  time.Time
	FtContract string
	Kind       FtActivityKind
	OldOwnerID string
	NewOwnerID string
	Amount     uint128.Uint128
	Memo       *string
}

type FtBalance struct {
	FtContract string
	OwnerID    string
	Amount     uint128.Uint128
}
