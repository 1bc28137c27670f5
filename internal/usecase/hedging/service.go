package hedging

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simglobe/simglobe/internal/domain"
	domhedge "github.com/simglobe/simglobe/internal/domain/hedge"
	"github.com/simglobe/simglobe/internal/domain/match"
	"github.com/simglobe/simglobe/internal/domain/product"
	"github.com/simglobe/simglobe/internal/domain/risk"
	"github.com/simglobe/simglobe/internal/usecase/relevance"
)

// Defaults for payment requests.
const (
	DefaultExpiry       = 10 * time.Minute
	DefaultConfirmDelay = 3 * time.Second
	DefaultHistoryLimit = 10
)

// Config holds payment request timings.
type Config struct {
	Expiry       time.Duration
	ConfirmDelay time.Duration
}

// Suggestion is a product hedge recommendation with the evidence behind it.
type Suggestion struct {
	Product product.Product
	Matches []match.Match
	Hedge   relevance.Hedge
}

// Service manages hedge transactions.
type Service struct {
	repo    Repository
	gateway PaymentGateway
	matcher ProductMatcher
	cfg     Config
	now     func() time.Time
	newID   func() string
}

// New creates a Service.
func New(repo Repository, gateway PaymentGateway, matcher ProductMatcher, cfg Config) *Service {
	if cfg.Expiry <= 0 {
		cfg.Expiry = DefaultExpiry
	}
	if cfg.ConfirmDelay <= 0 {
		cfg.ConfirmDelay = DefaultConfirmDelay
	}
	return &Service{
		repo:    repo,
		gateway: gateway,
		matcher: matcher,
		cfg:     cfg,
		now:     time.Now,
		newID:   func() string { return strings.ReplaceAll(uuid.NewString(), "-", "")[:9] },
	}
}

// Create validates the request and issues a pending payment for the hedge.
func (s *Service) Create(ctx context.Context, marketID string, amount decimal.Decimal, wallet string) (domhedge.Transaction, error) {
	if err := domhedge.ValidateRequest(marketID, amount, wallet); err != nil {
		return domhedge.Transaction{}, err
	}

	now := s.now()
	stamp := strconv.FormatInt(now.UnixMilli(), 10)
	tx := domhedge.NewTransaction(
		"tx_"+stamp+"_"+s.newID(),
		"ref_"+stamp+"_"+s.newID(),
		marketID, amount, wallet, now, now.Add(s.cfg.Expiry),
	)

	link, err := s.gateway.CreatePayment(ctx, domhedge.PaymentRequest{
		TransactionID: tx.ID(),
		Reference:     tx.Reference(),
		MarketID:      marketID,
		Amount:        amount,
		Wallet:        wallet,
	})
	if err != nil {
		return domhedge.Transaction{}, fmt.Errorf("create payment: %w", err)
	}

	tx = tx.WithPaymentLink(link.DeepLink, link.QRCode)
	if link.Demo {
		tx = tx.WithAutoConfirm(now.Add(s.cfg.ConfirmDelay))
	}

	if err := s.repo.Save(ctx, tx); err != nil {
		return domhedge.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}
	return tx, nil
}

// Status returns the current state of a transaction. Unknown or expired IDs
// yield a not_found placeholder rather than an error.
func (s *Service) Status(ctx context.Context, id string) (domhedge.Transaction, error) {
	tx, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domhedge.Missing(id), nil
		}
		return domhedge.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}

	settled := tx.Settle(s.now())
	if settled.Status() != tx.Status() {
		if err := s.repo.Save(ctx, settled); err != nil {
			return domhedge.Transaction{}, fmt.Errorf("save transaction: %w", err)
		}
	}
	return settled, nil
}

// History returns past hedges of a wallet, newest first.
// Settlement is not tracked on-chain, so the history is a fixed demo record.
func (s *Service) History(_ context.Context, wallet string, limit int) []domhedge.Transaction {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	now := s.now()
	day := 24 * time.Hour

	past := func(id, marketID string, amount int64, sig string, age time.Duration) domhedge.Transaction {
		created := now.Add(-age)
		return domhedge.NewTransaction(id, "", marketID, decimal.NewFromInt(amount), wallet, created, created.Add(s.cfg.Expiry)).
			Confirm(sig, created)
	}
	out := []domhedge.Transaction{
		past("hist_1", "mock-port-strike", 500, "abc123...", day),
		past("hist_2", "mock-inflation", 250, "def456...", 2*day),
	}
	if limit < len(out) {
		out = out[:limit]
	}
	return out
}

// Estimate sizes a portfolio hedge from a 0-100 risk score.
func (s *Service) Estimate(riskScore float64, portfolioValue decimal.Decimal) (domhedge.Estimate, error) {
	if riskScore < 0 || riskScore > 100 {
		return domhedge.Estimate{}, domain.NewValidationError("riskScore", "must be between 0 and 100")
	}
	if !portfolioValue.IsPositive() {
		return domhedge.Estimate{}, domain.NewValidationError("portfolioValue", "must be a positive number")
	}
	return domhedge.EstimateFor(riskScore, portfolioValue), nil
}

// Suggest matches the product against risks (the current feed when nil) and sizes a hedge.
func (s *Service) Suggest(ctx context.Context, p product.Product, risks []risk.Event) (Suggestion, error) {
	matches, err := s.matcher.MatchProduct(ctx, p, risks)
	if err != nil {
		return Suggestion{}, fmt.Errorf("match product %s: %w", p.ID(), err)
	}
	return Suggestion{
		Product: p,
		Matches: matches,
		Hedge:   s.matcher.SuggestHedge(p, matches),
	}, nil
}
