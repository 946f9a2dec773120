// Package api exposes read-only run state over HTTP for inspection.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"bond-arb-go/internal/engine"
	"bond-arb-go/market"
)

// Server serves sequencer statistics, ledger balances and order book tops.
type Server struct {
	seq   *engine.Sequencer
	books *market.Store
}

func NewServer(seq *engine.Sequencer, books *market.Store) *Server {
	return &Server{seq: seq, books: books}
}

// Router builds the HTTP route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/balances", s.handleBalances).Methods(http.MethodGet)
	r.HandleFunc("/books/{security}", s.handleBook).Methods(http.MethodGet)
	return r
}

// Start launches the HTTP server in the background.
func (s *Server) Start(addr string) {
	go func() {
		_ = http.ListenAndServe(addr, s.Router())
	}()
}

type statusResponse struct {
	State           string   `json:"state"`
	Ticks           int64    `json:"ticks"`
	BufferedApplied int64    `json:"buffered_applied"`
	Executions      int64    `json:"executions"`
	Skips           int64    `json:"skips"`
	SuppressedSkips int64    `json:"suppressed_skips"`
	CapAnomalies    int64    `json:"cap_anomalies"`
	TotalPnLARS     float64  `json:"total_pnl_ars"`
	TotalPnLUSD     float64  `json:"total_pnl_usd"`
	TotalLatencyUS  int64    `json:"total_latency_us"`
	Securities      []string `json:"securities"`
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	stats := s.seq.GetStatistics()
	writeJSON(w, http.StatusOK, statusResponse{
		State:           s.seq.GetState().String(),
		Ticks:           stats.Ticks,
		BufferedApplied: stats.BufferedApplied,
		Executions:      stats.Executions,
		Skips:           stats.Skips,
		SuppressedSkips: stats.SuppressedSkips,
		CapAnomalies:    stats.CapAnomalies,
		TotalPnLARS:     stats.TotalPnLARS,
		TotalPnLUSD:     stats.TotalPnLUSD,
		TotalLatencyUS:  stats.TotalLatency.Microseconds(),
		Securities:      s.books.Securities(),
	})
}

func (s *Server) handleBalances(w http.ResponseWriter, _ *http.Request) {
	bal := s.seq.Balances()
	writeJSON(w, http.StatusOK, map[string]float64{"ars": bal.ARS, "usd": bal.USD})
}

type bookResponse struct {
	Security    string        `json:"security"`
	BestBid     *market.Level `json:"best_bid,omitempty"`
	BestOffer   *market.Level `json:"best_offer,omitempty"`
	Spread      *float64      `json:"spread,omitempty"`
	BidLevels   int           `json:"bid_levels"`
	OfferLevels int           `json:"offer_levels"`
	LastUpdate  time.Time     `json:"last_update"`
}

func (s *Server) handleBook(w http.ResponseWriter, r *http.Request) {
	security := mux.Vars(r)["security"]
	book, ok := s.books.Lookup(security)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown security"})
		return
	}
	resp := bookResponse{
		Security:    security,
		BidLevels:   book.Depth(market.SideBid),
		OfferLevels: book.Depth(market.SideOffer),
		LastUpdate:  book.LastUpdate(),
	}
	if bid, ok := book.BestBid(); ok {
		resp.BestBid = &bid
	}
	if offer, ok := book.BestOffer(); ok {
		resp.BestOffer = &offer
	}
	if spread, ok := book.Spread(); ok {
		resp.Spread = &spread
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
