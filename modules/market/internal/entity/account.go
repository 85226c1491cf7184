package entity

import "time"

type AccessKey struct {
	AccountID        string
	PublicKey        string
	CreatedAt        time.Time
	CreatedReceiptID string
	RemovedAt        *time.Time
	RemovedReceiptID *string
}

type Account struct {
	AccountID        string
	CreatedAt        time.Time
	CreatedReceiptID string
	RemovedAt        *time.Time
	RemovedReceiptID *string
	BeneficiaryID    *string
}
