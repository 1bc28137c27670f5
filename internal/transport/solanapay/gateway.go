package solanapay

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/simglobe/simglobe/internal/domain"
	"github.com/simglobe/simglobe/internal/domain/hedge"
	"github.com/simglobe/simglobe/internal/metrics"
)

const (
	provider = "solanapay"

	// USDCMint is the mainnet USDC SPL token mint.
	USDCMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"

	demoRecipient  = "SimGLobeDemo"
	defaultQRSize  = 256
	pngDataURLHead = "data:image/png;base64,"
)

// Config holds the Solana Pay settings.
type Config struct {
	Recipient string
	SPLToken  string
	QRSize    int
}

// Gateway builds Solana Pay transfer requests payable to the merchant treasury.
type Gateway struct {
	recipient string
	splToken  string
	qrSize    int
	now       func() time.Time
}

// NewGateway creates a Solana Pay gateway.
func NewGateway(cfg *Config) *Gateway {
	g := &Gateway{
		recipient: cfg.Recipient,
		splToken:  cfg.SPLToken,
		qrSize:    cfg.QRSize,
		now:       time.Now,
	}
	if g.splToken == "" {
		g.splToken = USDCMint
	}
	if g.qrSize <= 0 {
		g.qrSize = defaultQRSize
	}
	return g
}

// CreatePayment returns a transfer request URL and its QR code.
func (g *Gateway) CreatePayment(_ context.Context, req hedge.PaymentRequest) (hedge.PaymentLink, error) {
	start := time.Now()
	link, err := g.create(req)
	metrics.ObserveProvider(provider, "create_payment", time.Since(start).Seconds(), err)
	return link, err
}

func (g *Gateway) create(req hedge.PaymentRequest) (hedge.PaymentLink, error) {
	if g.recipient == "" {
		return hedge.PaymentLink{}, fmt.Errorf("no recipient wallet configured: %w", domain.ErrPaymentProviderError)
	}

	amount := req.Amount.String()
	deepLink := transferURL(g.recipient, []param{
		{"amount", amount},
		{"reference", req.Reference},
		{"label", "SimGlobe Hedge - " + req.MarketID},
		{"message", "Hedging " + amount + " " + hedge.Currency},
		{"memo", "HEDGE:" + req.MarketID + ":" + strconv.FormatInt(g.now().UnixMilli(), 10)},
		{"spl-token", g.splToken},
	})

	qr, err := QRDataURL(deepLink, g.qrSize)
	if err != nil {
		return hedge.PaymentLink{}, err
	}
	return hedge.PaymentLink{DeepLink: deepLink, QRCode: qr}, nil
}

// Demo builds payment links to a placeholder wallet. Demo payments confirm themselves.
type Demo struct {
	qrSize int
}

// NewDemo creates the demo gateway.
func NewDemo(qrSize int) *Demo {
	if qrSize <= 0 {
		qrSize = defaultQRSize
	}
	return &Demo{qrSize: qrSize}
}

// CreatePayment returns a demo payment link.
func (d *Demo) CreatePayment(_ context.Context, req hedge.PaymentRequest) (hedge.PaymentLink, error) {
	deepLink := fmt.Sprintf("solana:%s?amount=%s&label=SimGlobe%%20Hedge&memo=HEDGE:%s",
		demoRecipient, req.Amount.String(), req.MarketID)

	qr, err := QRDataURL(deepLink, d.qrSize)
	if err != nil {
		return hedge.PaymentLink{}, err
	}
	return hedge.PaymentLink{DeepLink: deepLink, QRCode: qr, Demo: true}, nil
}

type param struct {
	key, value string
}

// transferURL builds a solana: transfer request URL. Empty values are skipped.
func transferURL(recipient string, params []param) string {
	var b strings.Builder
	b.WriteString("solana:")
	b.WriteString(recipient)
	sep := "?"
	for _, p := range params {
		if p.value == "" {
			continue
		}
		b.WriteString(sep)
		b.WriteString(url.QueryEscape(p.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.value))
		sep = "&"
	}
	return b.String()
}

// QRDataURL renders content as a square PNG QR code and returns it as a data URL.
func QRDataURL(content string, size int) (string, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return "", fmt.Errorf("encode qr code: %w: %w", err, domain.ErrPaymentProviderError)
	}
	return pngDataURLHead + base64.StdEncoding.EncodeToString(png), nil
}
