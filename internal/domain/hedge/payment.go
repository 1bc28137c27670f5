package hedge

import "github.com/shopspring/decimal"

// PaymentRequest describes the transfer a merchant is asked to sign.
type PaymentRequest struct {
	TransactionID string
	Reference     string
	MarketID      string
	Amount        decimal.Decimal
	Wallet        string
}

// PaymentLink is what the merchant scans or taps to pay.
type PaymentLink struct {
	DeepLink string
	QRCode   string // PNG data URL
	Demo     bool   // demo payments confirm themselves
}
