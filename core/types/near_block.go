package types

import (
	"time"
)

// StreamerMessage is one NEAR block as published to the lake: the block view plus every shard's
// chunk and receipt execution outcomes.
type StreamerMessage struct {
	Block  BlockView `json:"block"`
	Shards []Shard   `json:"shards"`
}

// Height returns the block height of the message.
func (m *StreamerMessage) Height() int64 {
	return m.Block.Header.Height
}

type BlockView struct {
	Author string            `json:"author"`
	Header BlockHeader       `json:"header"`
	Chunks []ChunkHeaderView `json:"chunks"`
}

type BlockHeader struct {
	Height           int64  `json:"height"`
	PrevHeight       *int64 `json:"prev_height,omitempty"`
	Hash             string `json:"hash"`
	PrevHash         string `json:"prev_hash"`
	EpochID          string `json:"epoch_id"`
	TimestampNanosec uint64 `json:"timestamp_nanosec,string"`
}

// Time returns the block timestamp truncated to microseconds, the precision the store keeps.
func (h BlockHeader) Time() time.Time {
	return time.Unix(0, int64(h.TimestampNanosec)).UTC().Truncate(time.Microsecond)
}

type Shard struct {
	ShardID                  uint64                    `json:"shard_id"`
	Chunk                    *ChunkView                `json:"chunk"`
	ReceiptExecutionOutcomes []ReceiptExecutionOutcome `json:"receipt_execution_outcomes"`
}

type ChunkView struct {
	Author string          `json:"author"`
	Header ChunkHeaderView `json:"header"`
}

type ChunkHeaderView struct {
	ChunkHash      string `json:"chunk_hash"`
	ShardID        uint64 `json:"shard_id"`
	HeightIncluded int64  `json:"height_included"`
}

type ReceiptExecutionOutcome struct {
	ExecutionOutcome ExecutionOutcomeWithID `json:"execution_outcome"`
	Receipt          ReceiptView            `json:"receipt"`
	TxHash           *string                `json:"tx_hash,omitempty"`
}

type ExecutionOutcomeWithID struct {
	ID        string           `json:"id"`
	BlockHash string           `json:"block_hash"`
	Outcome   ExecutionOutcome `json:"outcome"`
}

type ExecutionOutcome struct {
	Logs        []string        `json:"logs"`
	ReceiptIDs  []string        `json:"receipt_ids"`
	GasBurnt    uint64          `json:"gas_burnt"`
	TokensBurnt string          `json:"tokens_burnt"`
	ExecutorID  string          `json:"executor_id"`
	Status      ExecutionStatus `json:"status"`
}

type ReceiptView struct {
	PredecessorID string      `json:"predecessor_id"`
	ReceiverID    string      `json:"receiver_id"`
	ReceiptID     string      `json:"receipt_id"`
	Receipt       ReceiptEnum `json:"receipt"`
}

// ReceiptEnum holds exactly one of the receipt variants.
type ReceiptEnum struct {
	Action *ActionReceipt `json:"Action,omitempty"`
	Data   *DataReceipt   `json:"Data,omitempty"`
}

type ActionReceipt struct {
	SignerID        string       `json:"signer_id"`
	SignerPublicKey string       `json:"signer_public_key"`
	GasPrice        string       `json:"gas_price"`
	Actions         []ActionView `json:"actions"`
}

type DataReceipt struct {
	DataID string  `json:"data_id"`
	Data   *string `json:"data"`
}
