package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"printquote/core/determinism"
	"printquote/core/imposition"
	"printquote/core/output"
	"printquote/core/pricing"
	"printquote/core/types"
	"printquote/db"
)

// handleQuote handles POST /quotes. With ?issue=true a quote that passed QA
// is recorded in the ledger; a withheld quote is returned but never recorded.
func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	issue, err := queryBool(r, "issue")
	if err != nil {
		writeError(w, r, "INVALID_QUERY", "issue must be true or false", http.StatusBadRequest)
		return
	}
	if issue && s.ledger == nil {
		writeError(w, r, "LEDGER_UNAVAILABLE", "quote ledger is not configured", http.StatusServiceUnavailable)
		return
	}

	var req QuoteRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, r, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}

	spec, err := req.Spec()
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}

	result, err := s.quoter.Calculate(spec)
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}

	resp := QuoteResponse{
		Document: output.NewDocument(result),
		Metadata: ResponseMetadata{
			RequestID:     middleware.GetReqID(r.Context()),
			EngineVersion: s.version,
			InputHash:     determinism.InputHash(spec).Hex(),
		},
	}
	resp.Document.InputHash = resp.Metadata.InputHash

	if issue && resp.Status == output.StatusIssued {
		entry, err := s.ledger.Record(r.Context(), result, req.Reference)
		if err != nil {
			s.writeEngineError(w, r, err)
			return
		}
		resp.Document.ID = entry.ID.String()
		resp.Issued = &IssuedQuote{ID: entry.ID.String(), Reference: entry.Reference, CreatedAt: entry.CreatedAt}
		s.logger.Info("quote issued",
			zap.String("id", entry.ID.String()),
			zap.String("product", string(spec.Product)),
			zap.Int("quantity", spec.Quantity),
			zap.String("payable", result.Payable().StringFixed(2)),
		)
	}

	resp.Metadata.DurationMs = time.Since(start).Milliseconds()
	writeJSON(w, resp, http.StatusOK)
}

// handleGetQuote handles GET /quotes/{id}
func (s *Server) handleGetQuote(w http.ResponseWriter, r *http.Request) {
	if s.ledger == nil {
		writeError(w, r, "LEDGER_UNAVAILABLE", "quote ledger is not configured", http.StatusServiceUnavailable)
		return
	}
	entry, err := s.ledger.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, entry, http.StatusOK)
}

// handleListQuotes handles GET /quotes?limit=N or GET /quotes?input_hash=H
func (s *Server) handleListQuotes(w http.ResponseWriter, r *http.Request) {
	if s.ledger == nil {
		writeError(w, r, "LEDGER_UNAVAILABLE", "quote ledger is not configured", http.StatusServiceUnavailable)
		return
	}

	var (
		entries []*db.Entry
		err     error
	)
	if hash := r.URL.Query().Get("input_hash"); hash != "" {
		entries, err = s.ledger.FindByInputHash(r.Context(), hash)
	} else {
		limit := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			limit, err = strconv.Atoi(v)
			if err != nil || limit < 0 {
				writeError(w, r, "INVALID_QUERY", "limit must be a non-negative integer", http.StatusBadRequest)
				return
			}
		}
		entries, err = s.ledger.List(r.Context(), limit)
	}
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}
	if entries == nil {
		entries = []*db.Entry{}
	}
	writeJSON(w, LedgerListResponse{Quotes: entries, Count: len(entries)}, http.StatusOK)
}

// handleCatalog handles GET /catalog
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	cat := s.quoter.Catalog()
	resp := CatalogResponse{
		Equipment:   cat.Equipment(),
		Stocks:      cat.Stocks(),
		Defaults:    make(map[types.ProductType]string),
		Multipliers: make(map[types.ProductType]types.TierTable),
		Spoilage:    imposition.SpoilageBands,
		ShopMinimum: pricing.ShopMinimum.StringFixed(2),
	}
	for _, p := range types.AllProductTypes() {
		resp.Defaults[p] = cat.DefaultStockKey(p)
		resp.Multipliers[p] = pricing.MultiplierTable(p)
	}
	writeJSON(w, resp, http.StatusOK)
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"status":  "healthy",
		"version": s.version,
		"ledger":  s.ledger != nil,
		"time":    time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{
		"version":     s.version,
		"engine":      "printquote",
		"api_version": "v1",
	}, http.StatusOK)
}

func queryBool(r *http.Request, key string) (bool, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return false, nil
	}
	return strconv.ParseBool(v)
}
