package chi

import (
	"net/http"
)

// BriefingTranscript handles GET /api/voice-brief/transcript.
func (s *Server) BriefingTranscript(w http.ResponseWriter, r *http.Request) {
	refresh, err := queryBool(r, "refresh")
	if err != nil {
		writeParamError(w, "refresh", err)
		return
	}

	b, err := s.briefing.Transcript(r.Context(), s.now(), refresh)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	markets := make([]briefingMarketResponse, len(b.Markets))
	for i, m := range b.Markets {
		markets[i] = briefingMarketResponse{
			ID:          m.ID,
			Title:       m.Title,
			Probability: m.Probability,
			Impact:      string(m.Impact),
		}
	}

	writeJSON(w, http.StatusOK, briefingResponse{
		Transcript:  b.Transcript,
		Markets:     markets,
		GeneratedAt: b.GeneratedAt.UTC(),
	})
}
