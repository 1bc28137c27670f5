package transaction

import (
	"time"

	"github.com/shopspring/decimal"

	domhedge "github.com/simglobe/simglobe/internal/domain/hedge"
)

// jsonTransaction is the stored representation of a hedge transaction.
type jsonTransaction struct {
	ID           string          `json:"id"`
	Reference    string          `json:"reference,omitempty"`
	MarketID     string          `json:"market_id"`
	Amount       decimal.Decimal `json:"amount"`
	Wallet       string          `json:"wallet,omitempty"`
	Status       string          `json:"status"`
	DeepLink     string          `json:"deep_link"`
	QRCode       string          `json:"qr_code"`
	Signature    string          `json:"signature,omitempty"`
	Mock         bool            `json:"mock,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	ExpiresAt    time.Time       `json:"expires_at"`
	ConfirmAfter time.Time       `json:"confirm_after,omitzero"`
	ConfirmedAt  time.Time       `json:"confirmed_at,omitzero"`
}

func toJSON(t domhedge.Transaction) jsonTransaction {
	return jsonTransaction{
		ID:           t.ID(),
		Reference:    t.Reference(),
		MarketID:     t.MarketID(),
		Amount:       t.Amount(),
		Wallet:       t.Wallet(),
		Status:       string(t.Status()),
		DeepLink:     t.DeepLink(),
		QRCode:       t.QRCode(),
		Signature:    t.Signature(),
		Mock:         t.IsMock(),
		CreatedAt:    t.CreatedAt(),
		ExpiresAt:    t.ExpiresAt(),
		ConfirmAfter: t.ConfirmAfter(),
		ConfirmedAt:  t.ConfirmedAt(),
	}
}

func (j jsonTransaction) toDomain() domhedge.Transaction {
	return domhedge.Restore(
		j.ID, j.Reference, j.MarketID, j.Amount, j.Wallet, domhedge.Status(j.Status),
		j.DeepLink, j.QRCode, j.Signature, j.Mock,
		j.CreatedAt, j.ExpiresAt, j.ConfirmAfter, j.ConfirmedAt,
	)
}
