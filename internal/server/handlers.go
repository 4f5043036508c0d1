package server

import (
	"net/http"

	"edge-calculator/internal/analysis"
	"edge-calculator/internal/metrics"
	"edge-calculator/internal/odds"
	"edge-calculator/internal/stake"
)

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if err := s.decode(r, &req); err != nil {
		s.fail(w, "convert", err)
		return
	}

	res, err := convert(req)
	if err != nil {
		metrics.RecordCalculation("convert", metrics.ResultInvalid)
		s.fail(w, "convert", err)
		return
	}
	metrics.RecordCalculation("convert", metrics.ResultOK)
	respondJSON(w, http.StatusOK, res)
}

func convert(req convertRequest) (convertResponse, error) {
	to, err := odds.ParseFormat(req.To)
	if err != nil {
		return convertResponse{}, err
	}

	var in odds.Quote
	if req.From == "" {
		_, format, err := odds.ParseOdds(req.Odds)
		if err != nil {
			return convertResponse{}, err
		}
		if in, err = odds.ParseQuote(req.Odds, format); err != nil {
			return convertResponse{}, err
		}
	} else {
		from, err := odds.ParseFormat(req.From)
		if err != nil {
			return convertResponse{}, err
		}
		if in, err = odds.ParseQuote(req.Odds, from); err != nil {
			return convertResponse{}, err
		}
	}

	d, err := odds.ToDecimal(in)
	if err != nil {
		return convertResponse{}, err
	}
	out, err := odds.FromDecimal(d, to)
	if err != nil {
		return convertResponse{}, err
	}

	return convertResponse{
		Input:              in,
		Decimal:            d,
		ImpliedProbability: odds.ImpliedProbability(d),
		Result:             out,
		Display:            out.String(),
	}, nil
}

func (s *Server) handleDevig(w http.ResponseWriter, r *http.Request) {
	var req devigRequest
	if err := s.decode(r, &req); err != nil {
		s.fail(w, "devig", err)
		return
	}

	set, err := toOddsSet(req.Outcomes)
	if err != nil {
		s.fail(w, "devig", err)
		return
	}
	method := odds.Method(req.Method)
	if method == "" {
		method = odds.MethodMultiplicative
	}

	fair, vig, err := odds.DevigWith(method, set)
	if err != nil {
		metrics.RecordCalculation("devig", metrics.ResultInvalid)
		s.fail(w, "devig", err)
		return
	}
	implied, err := odds.Implied(set)
	if err != nil {
		s.fail(w, "devig", err)
		return
	}

	metrics.RecordCalculation("devig", metrics.ResultOK)
	respondJSON(w, http.StatusOK, devigResponse{Method: method, Fair: fair, Implied: implied, VigPercent: vig})
}

func (s *Server) handleConsensus(w http.ResponseWriter, r *http.Request) {
	var req consensusRequest
	if err := s.decode(r, &req); err != nil {
		s.fail(w, "consensus", err)
		return
	}

	sets := make([]odds.OddsSet, 0, len(req.Books))
	weights := make([]float64, 0, len(req.Books))
	for _, b := range req.Books {
		set, err := toOddsSet(b.Outcomes)
		if err != nil {
			s.fail(w, "consensus", err)
			return
		}
		sets = append(sets, set)
		weight := 1.0
		if b.Weight != nil {
			weight = *b.Weight
		}
		weights = append(weights, weight)
	}

	fair, err := odds.Consensus(sets, weights)
	if err != nil {
		metrics.RecordCalculation("consensus", metrics.ResultInvalid)
		s.fail(w, "consensus", err)
		return
	}
	metrics.RecordCalculation("consensus", metrics.ResultOK)
	respondJSON(w, http.StatusOK, map[string]any{"fair": fair, "books": len(sets)})
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := s.decode(r, &req); err != nil {
		s.fail(w, "evaluate", err)
		return
	}

	d, err := parsePrice("odds", req.Odds)
	if err != nil {
		s.fail(w, "evaluate", err)
		return
	}

	res, err := analysis.Evaluate(req.Stake, d, *req.FairProbability)
	if err != nil {
		metrics.RecordCalculation("evaluate", metrics.ResultInvalid)
		s.fail(w, "evaluate", err)
		return
	}
	metrics.RecordCalculation("evaluate", metrics.ResultOK)
	respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	var req optimizeRequest
	if err := s.decode(r, &req); err != nil {
		s.fail(w, "optimize", err)
		return
	}

	sreq, err := req.toRequest(s.cfg.DefaultBankroll, s.cfg.KellyFraction)
	if err != nil {
		s.fail(w, "optimize", err)
		return
	}

	res, err := stake.Optimize(sreq)
	if err != nil {
		metrics.RecordCalculation("optimize", metrics.ResultInvalid)
		s.fail(w, "optimize", err)
		return
	}
	metrics.RecordCalculation("optimize", metrics.ResultOK)

	switch {
	case res.Arbitrage != nil && res.Arbitrage.Opportunity:
		metrics.RecordArbitrage(res.Arbitrage.ROI)
		s.notifier.AlertArbitrage(req.EventID, *res.Arbitrage)
	case res.PositiveEV != nil && !res.PositiveEV.NoPositiveEV:
		metrics.RecordOpportunity(metrics.KindPositiveEV)
		s.notifier.AlertPositiveEV(req.EventID, *res.PositiveEV)
	case res.Hedge != nil && !res.Hedge.Negative:
		metrics.RecordOpportunity(metrics.KindHedge)
		s.notifier.AlertFreeBetHedge(req.EventID, *res.Hedge)
	}

	respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleCombine(w http.ResponseWriter, r *http.Request) {
	var req combineRequest
	if err := s.decode(r, &req); err != nil {
		s.fail(w, "combine", err)
		return
	}

	legs, err := req.legs()
	if err != nil {
		s.fail(w, "combine", err)
		return
	}

	var res analysis.ComboResult
	if req.JointProbability != nil {
		res, err = analysis.CombineJoint(legs, *req.JointProbability, req.Stake)
	} else {
		res, err = analysis.Combine(legs, req.Stake)
	}
	if err != nil {
		metrics.RecordCalculation("combine", metrics.ResultInvalid)
		s.fail(w, "combine", err)
		return
	}
	metrics.RecordCalculation("combine", metrics.ResultOK)
	respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleMiddle(w http.ResponseWriter, r *http.Request) {
	var req middleRequest
	if err := s.decode(r, &req); err != nil {
		s.fail(w, "middle", err)
		return
	}

	in, err := req.toInput()
	if err != nil {
		s.fail(w, "middle", err)
		return
	}

	res, err := analysis.EvaluateMiddle(in)
	if err != nil {
		metrics.RecordCalculation("middle", metrics.ResultInvalid)
		s.fail(w, "middle", err)
		return
	}
	metrics.RecordCalculation("middle", metrics.ResultOK)
	respondJSON(w, http.StatusOK, res)
}
