package chi

import (
	"time"

	"github.com/shopspring/decimal"

	domanalysis "github.com/simglobe/simglobe/internal/domain/analysis"
	domhedge "github.com/simglobe/simglobe/internal/domain/hedge"
	"github.com/simglobe/simglobe/internal/domain/market"
	"github.com/simglobe/simglobe/internal/domain/match"
	"github.com/simglobe/simglobe/internal/domain/product"
	"github.com/simglobe/simglobe/internal/domain/risk"
	"github.com/simglobe/simglobe/internal/usecase/relevance"
)

// --- Requests ---

type productPayload struct {
	ID          string `json:"id" validate:"max=256"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Price       any    `json:"price"`
	Inventory   any    `json:"inventory"`
}

type riskPayload struct {
	ID          string  `json:"id" validate:"max=256"`
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Probability float64 `json:"probability"`
	Volume      float64 `json:"volume"`
}

type matchProductRequest struct {
	Product productPayload `json:"product"`
	Risks   []riskPayload  `json:"risks" validate:"omitempty,max=500,dive"`
}

type matchRiskRequest struct {
	Risk     riskPayload      `json:"risk"`
	Products []productPayload `json:"products" validate:"required,max=5000,dive"`
}

type analyzeRequest struct {
	StoreID    string   `json:"storeId" validate:"required,max=64"`
	ProductIDs []string `json:"productIds" validate:"max=250"`
	Page       string   `json:"page" validate:"max=64"`
}

type analyzeProductRequest struct {
	ProductID       string `json:"productId" validate:"required,max=256"`
	ProductName     string `json:"productName"`
	ProductCategory string `json:"productCategory"`
	StoreID         string `json:"storeId" validate:"max=64"`
}

type hedgeRequest struct {
	MarketID      string          `json:"marketId"`
	Amount        decimal.Decimal `json:"amount"`
	WalletAddress string          `json:"walletAddress"`
}

type estimateRequest struct {
	RiskScore      *float64        `json:"riskScore" validate:"required,gte=0,lte=100"`
	PortfolioValue decimal.Decimal `json:"portfolioValue"`
	MarketID       string          `json:"marketId" validate:"omitempty,marketid"`
}

// --- Responses ---

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type healthResponse struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Checks    map[string]string `json:"checks"`
	Timestamp time.Time         `json:"timestamp"`
}

type marketResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Probability float64    `json:"probability"`
	Category    string     `json:"category"`
	Volume      float64    `json:"volume"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Impact      string     `json:"impact"`
	Outcomes    []string   `json:"outcomes,omitempty"`
	Description string     `json:"description,omitempty"`
}

type marketListResponse struct {
	Markets   []marketResponse `json:"markets"`
	Count     int              `json:"count"`
	Timestamp time.Time        `json:"timestamp"`
}

type marketSearchResponse struct {
	Markets []marketResponse `json:"markets"`
	Query   string           `json:"query"`
	Count   int              `json:"count"`
}

type analyzeResponse struct {
	StoreID          string                       `json:"storeId"`
	Page             string                       `json:"page"`
	RiskScore        int                          `json:"riskScore"`
	Recommendations  []domanalysis.Recommendation `json:"recommendations"`
	AffectedProducts []string                     `json:"affectedProducts"`
	HedgeAmount      float64                      `json:"hedgeAmount"`
	Reasoning        string                       `json:"reasoning"`
	AnalyzedAt       time.Time                    `json:"analyzedAt"`
}

type productAnalysisResponse struct {
	ProductID             string                        `json:"productId"`
	RiskScore             int                           `json:"riskScore"`
	SupplyChainRisks      []domanalysis.SupplyChainRisk `json:"supplyChainRisks"`
	PricingRecommendation string                        `json:"pricingRecommendation"`
	HedgeAmount           float64                       `json:"hedgeAmount"`
	Reasoning             string                        `json:"reasoning"`
}

type summaryResponse struct {
	Summary          string    `json:"summary"`
	KeyRisks         []string  `json:"keyRisks"`
	OverallRiskLevel string    `json:"overallRiskLevel"`
	GeneratedAt      time.Time `json:"generatedAt"`
}

type usageResponse struct {
	Provider  string    `json:"provider,omitempty"`
	Period    string    `json:"period"`
	Limit     int64     `json:"limit"`
	Used      int64     `json:"used"`
	Remaining int64     `json:"remaining"`
	Exhausted bool      `json:"exhausted"`
	Start     time.Time `json:"periodStart"`
	ResetsAt  time.Time `json:"resetsAt"`
}

type hedgeResponse struct {
	TransactionID string          `json:"transactionId"`
	QRCodeURL     string          `json:"qrCodeUrl"`
	DeepLink      string          `json:"deepLink"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	MarketID      string          `json:"marketId"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	ExpiresAt     time.Time       `json:"expiresAt"`
}

type hedgeStatusResponse struct {
	TransactionID string           `json:"transactionId"`
	Status        string           `json:"status"`
	Signature     string           `json:"signature,omitempty"`
	ConfirmedAt   *time.Time       `json:"confirmedAt,omitempty"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
}

type historyEntry struct {
	ID        string          `json:"id"`
	MarketID  string          `json:"marketId"`
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status"`
	Signature string          `json:"signature"`
	CreatedAt time.Time       `json:"createdAt"`
}

type historyResponse struct {
	WalletAddress string         `json:"walletAddress"`
	Transactions  []historyEntry `json:"transactions"`
	Count         int            `json:"count"`
}

type estimateResponse struct {
	RiskScore       float64         `json:"riskScore"`
	PortfolioValue  decimal.Decimal `json:"portfolioValue"`
	HedgePercentage decimal.Decimal `json:"hedgePercentage"`
	EstimatedHedge  decimal.Decimal `json:"estimatedHedge"`
	Currency        string          `json:"currency"`
	MarketID        string          `json:"marketId,omitempty"`
	Reasoning       string          `json:"reasoning"`
}

type matchResponse struct {
	ProductID   string   `json:"productId"`
	ProductName string   `json:"productName"`
	RiskID      string   `json:"riskId"`
	RiskTitle   string   `json:"riskTitle"`
	Probability float64  `json:"probability"`
	Score       int      `json:"score"`
	Reasons     []string `json:"reasons"`
	ImpactLevel string   `json:"impactLevel,omitempty"`
	Impact      string   `json:"impact"`
}

type matchListResponse struct {
	Matches []matchResponse `json:"matches"`
	Count   int             `json:"count"`
}

type hedgeSuggestionResponse struct {
	ProductID          string          `json:"productId"`
	ExposedValue       float64         `json:"exposedValue"`
	AverageProbability float64         `json:"averageProbability"`
	HedgeFraction      float64         `json:"hedgeFraction"`
	SuggestedHedge     int64           `json:"suggestedHedge"`
	Matches            []matchResponse `json:"matches"`
}

type assessmentResponse struct {
	ProductID      string          `json:"productId"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	RiskScore      int             `json:"riskScore"`
	RiskLevel      string          `json:"riskLevel"`
	Reasoning      string          `json:"reasoning"`
	SuggestedHedge int64           `json:"suggestedHedge"`
	Risks          []matchResponse `json:"risks"`
}

type briefingMarketResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Probability float64 `json:"probability"`
	Impact      string  `json:"impact"`
}

type briefingResponse struct {
	Transcript  string                   `json:"transcript"`
	Markets     []briefingMarketResponse `json:"markets"`
	GeneratedAt time.Time                `json:"generatedAt"`
}

// --- Converters ---

func (s *Server) productFromPayload(p productPayload) (product.Product, error) {
	return product.FromRaw( //nolint:wrapcheck // field errors are reported as is
		s.validator.Sanitize(p.ID),
		s.validator.Sanitize(p.Name),
		s.validator.Sanitize(p.Category),
		s.validator.Sanitize(p.Description),
		p.Price,
		p.Inventory,
	)
}

func (s *Server) riskFromPayload(r riskPayload) risk.Event {
	return risk.New(
		s.validator.Sanitize(r.ID),
		s.validator.Sanitize(r.Title),
		s.validator.Sanitize(r.Description),
		s.validator.Sanitize(r.Category),
		r.Probability,
		r.Volume,
	)
}

// risksFromPayload keeps nil distinct from empty: nil asks for the current feed.
func (s *Server) risksFromPayload(in []riskPayload) []risk.Event {
	if in == nil {
		return nil
	}
	out := make([]risk.Event, len(in))
	for i, r := range in {
		out[i] = s.riskFromPayload(r)
	}
	return out
}

func marketToResponse(m market.Market, detailed bool) marketResponse {
	resp := marketResponse{
		ID:          m.ID(),
		Title:       m.Question(),
		Probability: m.Probability(),
		Category:    m.Category(),
		Volume:      m.Volume(),
		Impact:      string(m.Impact()),
	}
	if end := m.EndDate(); !end.IsZero() {
		resp.EndDate = &end
	}
	if detailed {
		resp.Outcomes = m.Outcomes()
		resp.Description = m.Description()
	}
	return resp
}

func marketsToResponse(markets []market.Market) []marketResponse {
	out := make([]marketResponse, len(markets))
	for i, m := range markets {
		out[i] = marketToResponse(m, false)
	}
	return out
}

func matchToResponse(m match.Match) matchResponse {
	reasons := m.Reasons()
	if reasons == nil {
		reasons = []string{}
	}
	return matchResponse{
		ProductID:   m.Product().ID(),
		ProductName: m.Product().Name(),
		RiskID:      m.Risk().ID(),
		RiskTitle:   m.Risk().Title(),
		Probability: m.Risk().Probability(),
		Score:       m.Score(),
		Reasons:     reasons,
		ImpactLevel: string(m.Impact()),
		Impact:      relevance.DescribeMatch(m),
	}
}

func matchesToResponse(matches []match.Match) []matchResponse {
	out := make([]matchResponse, len(matches))
	for i, m := range matches {
		out[i] = matchToResponse(m)
	}
	return out
}

func transactionToStatus(t domhedge.Transaction) hedgeStatusResponse {
	resp := hedgeStatusResponse{
		TransactionID: t.ID(),
		Status:        string(t.Status()),
		Signature:     t.Signature(),
	}
	if t.Status() == domhedge.StatusNotFound {
		return resp
	}
	amount := t.Amount()
	resp.Amount = &amount
	if at := t.ConfirmedAt(); !at.IsZero() {
		resp.ConfirmedAt = &at
	}
	return resp
}
