package hedging

import (
	"context"

	"go.uber.org/zap"

	domhedge "github.com/simglobe/simglobe/internal/domain/hedge"
	logpkg "github.com/simglobe/simglobe/internal/logger"
	"github.com/simglobe/simglobe/internal/metrics"
)

// FallbackGateway issues a demo payment whenever the live gateway fails.
type FallbackGateway struct {
	live     PaymentGateway
	demo     PaymentGateway
	provider string
	logger   *zap.Logger
}

// NewFallbackGateway wraps live with demo.
func NewFallbackGateway(live, demo PaymentGateway, provider string, logger *zap.Logger) *FallbackGateway {
	return &FallbackGateway{live: live, demo: demo, provider: provider, logger: logger}
}

// CreatePayment tries the live gateway first.
func (g *FallbackGateway) CreatePayment(ctx context.Context, req domhedge.PaymentRequest) (domhedge.PaymentLink, error) {
	link, err := g.live.CreatePayment(ctx, req)
	if err == nil {
		return link, nil
	}

	metrics.ProviderFallbacksTotal.WithLabelValues(g.provider, "create_payment").Inc()
	logpkg.FromContextOr(ctx, g.logger).Warn("Payment gateway failed, issuing demo payment",
		zap.String("provider", g.provider),
		zap.String("transaction_id", req.TransactionID),
		zap.Error(err),
	)
	return g.demo.CreatePayment(ctx, req)
}
