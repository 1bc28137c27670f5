package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	domhedge "github.com/simglobe/simglobe/internal/domain/hedge"
	hedginguc "github.com/simglobe/simglobe/internal/usecase/hedging"
)

// CreateHedge handles POST /api/hedge.
func (s *Server) CreateHedge(w http.ResponseWriter, r *http.Request) {
	var req hedgeRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	tx, err := s.hedging.Create(r.Context(),
		s.validator.Sanitize(req.MarketID), req.Amount, s.validator.Sanitize(req.WalletAddress))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, hedgeResponse{
		TransactionID: tx.ID(),
		QRCodeURL:     tx.QRCode(),
		DeepLink:      tx.DeepLink(),
		Amount:        tx.Amount(),
		Currency:      domhedge.Currency,
		MarketID:      tx.MarketID(),
		Status:        string(tx.Status()),
		CreatedAt:     tx.CreatedAt().UTC(),
		ExpiresAt:     tx.ExpiresAt().UTC(),
	})
}

// GetHedge handles GET /api/hedge/{transactionId}.
func (s *Server) GetHedge(w http.ResponseWriter, r *http.Request) {
	id := s.validator.Sanitize(chi.URLParam(r, "transactionId"))

	tx, err := s.hedging.Status(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, transactionToStatus(tx))
}

// HedgeHistory handles GET /api/hedge/history/{wallet}.
func (s *Server) HedgeHistory(w http.ResponseWriter, r *http.Request) {
	wallet := s.validator.Sanitize(chi.URLParam(r, "wallet"))
	limit, err := queryLimit(r, hedginguc.DefaultHistoryLimit)
	if err != nil {
		writeParamError(w, "limit", err)
		return
	}

	txs := s.hedging.History(r.Context(), wallet, limit)
	items := make([]historyEntry, len(txs))
	for i, t := range txs {
		items[i] = historyEntry{
			ID:        t.ID(),
			MarketID:  t.MarketID(),
			Amount:    t.Amount(),
			Status:    string(t.Status()),
			Signature: t.Signature(),
			CreatedAt: t.CreatedAt().UTC(),
		}
	}

	writeJSON(w, http.StatusOK, historyResponse{
		WalletAddress: wallet,
		Transactions:  items,
		Count:         len(items),
	})
}

// EstimateHedge handles POST /api/hedge/estimate.
func (s *Server) EstimateHedge(w http.ResponseWriter, r *http.Request) {
	var req estimateRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	est, err := s.hedging.Estimate(*req.RiskScore, req.PortfolioValue)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, estimateResponse{
		RiskScore:       est.RiskScore,
		PortfolioValue:  est.PortfolioValue,
		HedgePercentage: est.Percentage,
		EstimatedHedge:  est.Amount,
		Currency:        domhedge.Currency,
		MarketID:        req.MarketID,
		Reasoning:       est.Reasoning(),
	})
}

// SuggestHedge handles POST /api/hedge/suggest.
func (s *Server) SuggestHedge(w http.ResponseWriter, r *http.Request) {
	var req matchProductRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	p, err := s.productFromPayload(req.Product)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	sug, err := s.hedging.Suggest(r.Context(), p, s.risksFromPayload(req.Risks))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, hedgeSuggestionResponse{
		ProductID:          p.ID(),
		ExposedValue:       sug.Hedge.ExposedValue,
		AverageProbability: sug.Hedge.AverageProbability,
		HedgeFraction:      sug.Hedge.Fraction,
		SuggestedHedge:     sug.Hedge.Suggested,
		Matches:            matchesToResponse(sug.Matches),
	})
}
