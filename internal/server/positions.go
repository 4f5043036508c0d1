package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"edge-calculator/internal/metrics"
	"edge-calculator/internal/positions"
)

func (s *Server) handleCreatePosition(w http.ResponseWriter, r *http.Request) {
	var req positionRequest
	if err := s.decode(r, &req); err != nil {
		s.fail(w, "create_position", err)
		return
	}

	d, err := parsePrice("odds", req.Odds)
	if err != nil {
		s.fail(w, "create_position", err)
		return
	}

	pos, err := s.store.AddPosition(positions.Position{
		EventID:     req.EventID,
		Label:       req.Label,
		Source:      req.Source,
		DecimalOdds: d,
		Stake:       req.Stake,
		FreeBet:     req.FreeBet,
	})
	if err != nil {
		s.fail(w, "create_position", err)
		return
	}

	s.log.WithField("position", pos.ID).Info("position added")
	respondJSON(w, http.StatusCreated, pos)
}

func (s *Server) handleListPositions(w http.ResponseWriter, r *http.Request) {
	var (
		list []positions.Position
		err  error
	)
	if eventID := r.URL.Query().Get("event_id"); eventID != "" {
		list, err = s.store.GetPositionsByEvent(eventID)
	} else {
		list, err = s.store.GetAllPositions()
		if err == nil {
			metrics.UpdateTrackedPositions(len(list))
		}
	}
	if err != nil {
		s.fail(w, "list_positions", err)
		return
	}
	if list == nil {
		list = []positions.Position{}
	}
	respondJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetPosition(w http.ResponseWriter, r *http.Request) {
	pos, err := s.store.GetPosition(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "get_position", err)
		return
	}
	respondJSON(w, http.StatusOK, pos)
}

func (s *Server) handleUpdatePosition(w http.ResponseWriter, r *http.Request) {
	var req updatePositionRequest
	if err := s.decode(r, &req); err != nil {
		s.fail(w, "update_position", err)
		return
	}

	id := chi.URLParam(r, "id")
	if err := s.store.UpdateStake(id, req.Stake); err != nil {
		s.fail(w, "update_position", err)
		return
	}
	pos, err := s.store.GetPosition(id)
	if err != nil {
		s.fail(w, "update_position", err)
		return
	}
	respondJSON(w, http.StatusOK, pos)
}

func (s *Server) handleDeletePosition(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeletePosition(chi.URLParam(r, "id")); err != nil {
		s.fail(w, "delete_position", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleHedgePosition prices a hedge for one position at ?odds=.
func (s *Server) handleHedgePosition(w http.ResponseWriter, r *http.Request) {
	pos, err := s.store.GetPosition(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "hedge_position", err)
		return
	}

	raw := r.URL.Query().Get("odds")
	if raw == "" {
		respondError(w, http.StatusBadRequest, "odds query parameter is required")
		return
	}
	d, err := parsePrice("odds", raw)
	if err != nil {
		s.fail(w, "hedge_position", err)
		return
	}

	advice, err := positions.AdviseHedge(pos, d)
	if err != nil {
		s.fail(w, "hedge_position", err)
		return
	}
	if advice.Action == positions.ActionHedge {
		metrics.RecordOpportunity(metrics.KindHedge)
		s.notifier.AlertHedge(advice)
	}
	respondJSON(w, http.StatusOK, advice)
}

// handleFindHedges checks every position on an event against a two-way market.
func (s *Server) handleFindHedges(w http.ResponseWriter, r *http.Request) {
	var req findHedgesRequest
	if err := s.decode(r, &req); err != nil {
		s.fail(w, "find_hedges", err)
		return
	}

	market, err := toOddsSet(req.Outcomes)
	if err != nil {
		s.fail(w, "find_hedges", err)
		return
	}
	held, err := s.store.GetPositionsByEvent(req.EventID)
	if err != nil {
		s.fail(w, "find_hedges", err)
		return
	}

	opps, err := positions.FindHedgeOpportunities(held, req.EventID, market)
	if err != nil {
		s.fail(w, "find_hedges", err)
		return
	}
	for _, advice := range opps {
		metrics.RecordOpportunity(metrics.KindHedge)
		s.notifier.AlertHedge(advice)
	}
	if opps == nil {
		opps = []positions.HedgeAdvice{}
	}
	respondJSON(w, http.StatusOK, opps)
}
