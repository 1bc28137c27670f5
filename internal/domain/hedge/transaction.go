package hedge

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a hedge transaction.
type Status string

// Transaction statuses.
const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusNotFound  Status = "not_found"
)

// Transaction is a hedge payment request handed to the merchant as a Solana Pay link.
type Transaction struct {
	id           string
	reference    string
	marketID     string
	amount       decimal.Decimal
	wallet       string
	status       Status
	deepLink     string
	qrCode       string
	signature    string
	mock         bool
	createdAt    time.Time
	expiresAt    time.Time
	confirmAfter time.Time
	confirmedAt  time.Time
}

// NewTransaction creates a pending transaction.
func NewTransaction(id, reference, marketID string, amount decimal.Decimal, wallet string, createdAt, expiresAt time.Time) Transaction {
	return Transaction{
		id:        id,
		reference: reference,
		marketID:  marketID,
		amount:    amount,
		wallet:    wallet,
		status:    StatusPending,
		createdAt: createdAt,
		expiresAt: expiresAt,
	}
}

// Missing is the placeholder reported for an unknown or expired transaction ID.
func Missing(id string) Transaction {
	return Transaction{id: id, status: StatusNotFound}
}

// WithPaymentLink returns a copy carrying the payment deep link and its QR code data URL.
func (t Transaction) WithPaymentLink(deepLink, qrCode string) Transaction {
	t.deepLink = deepLink
	t.qrCode = qrCode
	return t
}

// WithAutoConfirm marks the transaction as a demo payment that confirms itself at the given time.
func (t Transaction) WithAutoConfirm(at time.Time) Transaction {
	t.mock = true
	t.confirmAfter = at
	return t
}

// Confirm returns a confirmed copy with the on-chain signature.
func (t Transaction) Confirm(signature string, at time.Time) Transaction {
	t.status = StatusConfirmed
	t.signature = signature
	t.confirmedAt = at
	return t
}

// Restore rebuilds a transaction from stored state.
func Restore(
	id, reference, marketID string, amount decimal.Decimal, wallet string, status Status,
	deepLink, qrCode, signature string, mock bool,
	createdAt, expiresAt, confirmAfter, confirmedAt time.Time,
) Transaction {
	return Transaction{
		id: id, reference: reference, marketID: marketID, amount: amount, wallet: wallet, status: status,
		deepLink: deepLink, qrCode: qrCode, signature: signature, mock: mock,
		createdAt: createdAt, expiresAt: expiresAt, confirmAfter: confirmAfter, confirmedAt: confirmedAt,
	}
}

// ID returns the transaction identifier.
func (t Transaction) ID() string { return t.id }

// Reference returns the payment reference used to find the transfer on-chain.
func (t Transaction) Reference() string { return t.reference }

// MarketID returns the hedged market.
func (t Transaction) MarketID() string { return t.marketID }

// Amount returns the hedge amount in USDC.
func (t Transaction) Amount() decimal.Decimal { return t.amount }

// Wallet returns the payer wallet, empty when not supplied.
func (t Transaction) Wallet() string { return t.wallet }

// Status returns the lifecycle state.
func (t Transaction) Status() Status { return t.status }

// DeepLink returns the Solana Pay URL.
func (t Transaction) DeepLink() string { return t.deepLink }

// QRCode returns the QR code PNG as a data URL.
func (t Transaction) QRCode() string { return t.qrCode }

// Signature returns the confirmation signature, empty while pending.
func (t Transaction) Signature() string { return t.signature }

// IsMock reports whether the transaction is a demo payment.
func (t Transaction) IsMock() bool { return t.mock }

// CreatedAt returns the creation time.
func (t Transaction) CreatedAt() time.Time { return t.createdAt }

// ExpiresAt returns the time the payment request stops being valid.
func (t Transaction) ExpiresAt() time.Time { return t.expiresAt }

// ConfirmAfter returns when a demo payment confirms itself, zero otherwise.
func (t Transaction) ConfirmAfter() time.Time { return t.confirmAfter }

// ConfirmedAt returns the confirmation time, zero while pending.
func (t Transaction) ConfirmedAt() time.Time { return t.confirmedAt }

// Settle confirms a pending demo payment once its confirmation time has passed.
func (t Transaction) Settle(now time.Time) Transaction {
	if t.status != StatusPending || !t.mock || now.Before(t.confirmAfter) {
		return t
	}
	return t.Confirm("mock_sig_"+t.id, now)
}
