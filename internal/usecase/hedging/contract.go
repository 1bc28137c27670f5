package hedging

import (
	"context"

	domhedge "github.com/simglobe/simglobe/internal/domain/hedge"
	"github.com/simglobe/simglobe/internal/domain/match"
	"github.com/simglobe/simglobe/internal/domain/product"
	"github.com/simglobe/simglobe/internal/domain/risk"
	"github.com/simglobe/simglobe/internal/usecase/relevance"
)

// Repository stores hedge transactions.
type Repository interface {
	Save(ctx context.Context, t domhedge.Transaction) error
	Get(ctx context.Context, id string) (domhedge.Transaction, error)
}

// PaymentGateway turns a hedge into a payable link.
type PaymentGateway interface {
	CreatePayment(ctx context.Context, req domhedge.PaymentRequest) (domhedge.PaymentLink, error)
}

// ProductMatcher links a product to risks and sizes a hedge from the result.
type ProductMatcher interface {
	MatchProduct(ctx context.Context, p product.Product, risks []risk.Event) ([]match.Match, error)
	SuggestHedge(p product.Product, matches []match.Match) relevance.Hedge
}
