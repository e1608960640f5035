// internal/api/backtest.go
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quantlab/quiver/internal/api/job"
	"github.com/quantlab/quiver/internal/api/response"
	"github.com/quantlab/quiver/internal/backtest"
	"github.com/quantlab/quiver/internal/condition"
	"github.com/quantlab/quiver/internal/core"
	"github.com/quantlab/quiver/internal/indicator"
	"github.com/quantlab/quiver/internal/series"
	"github.com/quantlab/quiver/internal/store"
)

const sweepTimeout = 5 * time.Minute

// BacktestRequest is the request body for a synchronous backtest run.
type BacktestRequest struct {
	Symbol            string           `json:"symbol"`
	Condition         string           `json:"condition"`
	HoldingPeriodDays int              `json:"holding_period_days"`
	PriceColumn       string           `json:"price_column,omitempty"`
	Start             string           `json:"start,omitempty"`
	End               string           `json:"end,omitempty"`
	Indicators        []indicator.Spec `json:"indicators,omitempty"`
}

// SweepRequest is the request body for an async parameter sweep.
type SweepRequest struct {
	Symbol         string           `json:"symbol"`
	Conditions     []string         `json:"conditions"`
	HoldingPeriods []int            `json:"holding_periods,omitempty"`
	PriceColumn    string           `json:"price_column,omitempty"`
	Start          string           `json:"start,omitempty"`
	End            string           `json:"end,omitempty"`
	Indicators     []indicator.Spec `json:"indicators,omitempty"`
}

// SweepResult is the payload stored on a completed sweep job.
type SweepResult struct {
	Results    []*backtest.Result       `json:"results"`
	Comparison []backtest.ComparisonRow `json:"comparison"`
}

func (s *Server) handleBacktest(w http.ResponseWriter, r *http.Request) {
	var req BacktestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, core.Wrapf(core.ErrInvalidInput, "decoding request: %v", err))
		return
	}
	if req.Symbol == "" || req.Condition == "" {
		response.Error(w, http.StatusBadRequest, core.Wrapf(core.ErrInvalidInput, "symbol and condition are required"))
		return
	}

	cond, err := condition.Parse(req.Condition)
	if err != nil {
		response.Error(w, response.Status(err), err)
		return
	}

	tbl, err := s.loadTable(r.Context(), req.Symbol, req.Start, req.End, req.Indicators)
	if err != nil {
		response.Error(w, response.Status(err), err)
		return
	}

	priceColumn := req.PriceColumn
	if priceColumn == "" {
		priceColumn = s.deps.PriceColumn
	}

	started := time.Now()
	result, err := s.deps.Runner.Run(r.Context(), tbl, cond, req.HoldingPeriodDays, priceColumn)
	if err != nil {
		if s.deps.Metrics != nil {
			s.deps.Metrics.RecordBacktest("error", time.Since(started).Seconds())
		}
		response.Error(w, response.Status(err), err)
		return
	}
	if s.deps.Metrics != nil {
		s.deps.Metrics.RecordBacktest("success", time.Since(started).Seconds())
		s.deps.Metrics.RecordSignals(result.TotalSignals)
	}

	s.archive(r.Context(), req.Symbol, result)
	response.JSON(w, http.StatusOK, result)
}

func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	var req SweepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, core.Wrapf(core.ErrInvalidInput, "decoding request: %v", err))
		return
	}
	if req.Symbol == "" || len(req.Conditions) == 0 {
		response.Error(w, http.StatusBadRequest, core.Wrapf(core.ErrInvalidInput, "symbol and at least one condition are required"))
		return
	}

	j := s.jobs.Create("sweep")
	jobID := j.ID
	go s.runSweep(jobID, req)

	if s.deps.Metrics != nil {
		s.deps.Metrics.SetJobsActive("sweep", s.jobs.Active())
	}
	response.JSON(w, http.StatusAccepted, map[string]any{
		"job_id": jobID,
		"status": j.Status,
	})
}

func (s *Server) runSweep(jobID string, req SweepRequest) {
	s.jobs.Update(jobID, func(j *job.Job) { j.Status = job.StatusRunning })
	defer func() {
		if s.deps.Metrics != nil {
			s.deps.Metrics.SetJobsActive("sweep", s.jobs.Active())
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	tbl, err := s.loadTable(ctx, req.Symbol, req.Start, req.End, req.Indicators)
	if err != nil {
		s.failJob(jobID, err)
		return
	}

	// Unparsable expressions are skipped, matching the engine's
	// continue-past-failure sweep semantics.
	conditions := make([]condition.Condition, 0, len(req.Conditions))
	for _, expr := range req.Conditions {
		cond, err := condition.Parse(expr)
		if err != nil {
			s.logger.Warn("skipping unparsable sweep condition", zap.String("expr", expr), zap.Error(err))
			if s.deps.Metrics != nil {
				s.deps.Metrics.RecordSweepRun("error")
			}
			continue
		}
		conditions = append(conditions, cond)
	}
	if len(conditions) == 0 {
		s.failJob(jobID, core.Wrapf(core.ErrConditionSyntax, "no parsable conditions in sweep"))
		return
	}

	priceColumn := req.PriceColumn
	if priceColumn == "" {
		priceColumn = s.deps.PriceColumn
	}
	periods := req.HoldingPeriods
	if len(periods) == 0 {
		periods = s.deps.HoldingPeriods
	}

	results := s.deps.Runner.RunMultiple(ctx, tbl, conditions, periods, priceColumn)
	if s.deps.Metrics != nil {
		for range results {
			s.deps.Metrics.RecordSweepRun("success")
		}
	}
	for _, result := range results {
		s.archive(ctx, req.Symbol, result)
	}

	s.jobs.Update(jobID, func(j *job.Job) {
		j.Status = job.StatusComplete
		j.Progress = 100
		j.Result = SweepResult{
			Results:    results,
			Comparison: backtest.Compare(results),
		}
	})
}

func (s *Server) failJob(jobID string, err error) {
	s.logger.Error("sweep job failed", zap.String("job_id", jobID), zap.Error(err))
	s.jobs.Update(jobID, func(j *job.Job) {
		j.Status = job.StatusFailed
		j.Error = core.WrapError(core.ErrSignalComputation, err)
	})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	j, err := s.jobs.Get(r.PathValue("id"))
	if err != nil {
		response.Error(w, http.StatusNotFound, err)
		return
	}

	resp := map[string]any{
		"job_id":   j.ID,
		"status":   j.Status,
		"progress": j.Progress,
	}
	if j.Status == job.StatusComplete {
		resp["result"] = j.Result
	}
	if j.Status == job.StatusFailed && j.Error != nil {
		resp["error"] = map[string]string{
			"code":    j.Error.Code,
			"message": j.Error.Message,
		}
	}

	response.JSON(w, http.StatusOK, resp)
}

// loadTable fetches bars for a symbol, clips them to the requested window
// and computes any requested indicator columns.
func (s *Server) loadTable(ctx context.Context, symbol, start, end string, specs []indicator.Spec) (*series.Table, error) {
	tbl, err := s.deps.Provider.Bars(ctx, symbol)
	if err != nil {
		return nil, err
	}

	var startTime, endTime time.Time
	if start != "" {
		if startTime, err = time.Parse(time.DateOnly, start); err != nil {
			return nil, core.Wrapf(core.ErrInvalidInput, "bad start date %q", start)
		}
	}
	if end != "" {
		if endTime, err = time.Parse(time.DateOnly, end); err != nil {
			return nil, core.Wrapf(core.ErrInvalidInput, "bad end date %q", end)
		}
	}
	tbl = tbl.Between(startTime, endTime)
	if tbl.Len() == 0 {
		return nil, core.Wrapf(core.ErrNoData, "no bars for %s in requested range", symbol)
	}

	if len(specs) > 0 {
		if tbl, err = indicator.Enrich(tbl, specs); err != nil {
			return nil, err
		}
	}
	return tbl, nil
}

func (s *Server) archive(ctx context.Context, symbol string, result *backtest.Result) {
	if s.deps.Archive == nil {
		return
	}
	key := store.ResultKey(symbol, uuid.NewString())
	if err := store.PutJSON(ctx, s.deps.Archive, key, result); err != nil {
		// Archival is best effort.
		s.logger.Warn("archiving result failed", zap.String("key", key), zap.Error(err))
	}
}
