package solanapay

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image/png"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/simglobe/simglobe/internal/domain"
	"github.com/simglobe/simglobe/internal/domain/hedge"
	"github.com/simglobe/simglobe/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterProviderMetrics()
	os.Exit(m.Run())
}

func TestGateway_CreatePayment(t *testing.T) {
	g := NewGateway(&Config{Recipient: "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"})
	g.now = func() time.Time { return time.UnixMilli(1767225600000) }

	link, err := g.CreatePayment(context.Background(), hedge.PaymentRequest{
		TransactionID: "tx_1",
		Reference:     "ref_1",
		MarketID:      "mock-port-strike",
		Amount:        decimal.RequireFromString("12.5"),
	})
	if err != nil {
		t.Fatalf("CreatePayment failed: %v", err)
	}
	if link.Demo {
		t.Error("live payment marked as demo")
	}

	if !strings.HasPrefix(link.DeepLink, "solana:9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin?") {
		t.Fatalf("unexpected deep link: %s", link.DeepLink)
	}
	q, err := url.ParseQuery(link.DeepLink[strings.Index(link.DeepLink, "?")+1:])
	if err != nil {
		t.Fatalf("parse query: %v", err)
	}
	want := map[string]string{
		"amount":    "12.5",
		"reference": "ref_1",
		"label":     "SimGlobe Hedge - mock-port-strike",
		"message":   "Hedging 12.5 USDC",
		"memo":      "HEDGE:mock-port-strike:1767225600000",
		"spl-token": USDCMint,
	}
	for k, v := range want {
		if got := q.Get(k); got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}

	assertPNG(t, link.QRCode, 256)
}

func TestGateway_RequiresRecipient(t *testing.T) {
	g := NewGateway(&Config{})
	_, err := g.CreatePayment(context.Background(), hedge.PaymentRequest{MarketID: "m", Amount: decimal.NewFromInt(1)})
	if !errors.Is(err, domain.ErrPaymentProviderError) {
		t.Errorf("expected ErrPaymentProviderError, got %v", err)
	}
}

func TestDemo_CreatePayment(t *testing.T) {
	d := NewDemo(0)
	link, err := d.CreatePayment(context.Background(), hedge.PaymentRequest{
		MarketID: "mock-inflation",
		Amount:   decimal.NewFromInt(250),
	})
	if err != nil {
		t.Fatalf("CreatePayment failed: %v", err)
	}
	want := "solana:SimGLobeDemo?amount=250&label=SimGlobe%20Hedge&memo=HEDGE:mock-inflation"
	if link.DeepLink != want {
		t.Errorf("deep link = %q, want %q", link.DeepLink, want)
	}
	if !link.Demo {
		t.Error("demo payment not marked as demo")
	}
	assertPNG(t, link.QRCode, 256)
}

func TestTransferURL_SkipsEmpty(t *testing.T) {
	got := transferURL("abc", []param{{"amount", "1"}, {"reference", ""}, {"label", "a b"}})
	if got != "solana:abc?amount=1&label=a+b" {
		t.Errorf("unexpected url: %s", got)
	}
}

func assertPNG(t *testing.T, dataURL string, size int) {
	t.Helper()
	if !strings.HasPrefix(dataURL, pngDataURLHead) {
		t.Fatalf("not a png data url: %.40s", dataURL)
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(dataURL, pngDataURLHead))
	if err != nil {
		t.Fatalf("decode base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != size || b.Dy() != size {
		t.Errorf("qr size = %dx%d, want %d", b.Dx(), b.Dy(), size)
	}
}
