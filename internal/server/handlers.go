package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mmss/internal/campaign"
	"mmss/internal/rules"
	"mmss/internal/task"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

// taskErrorStatus maps store errors to HTTP statuses.
func taskErrorStatus(err error) int {
	switch {
	case errors.Is(err, task.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, task.ErrDuplicateID), errors.Is(err, task.ErrTaskFinished):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (s *Server) handleSubmitTask(w http.ResponseWriter, r *http.Request) {
	var cmd task.Command
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid task command: "+err.Error())
		return
	}
	if cmd.TaskName == "" {
		s.writeError(w, http.StatusBadRequest, "task_name is required")
		return
	}
	if cmd.Operator == "" {
		s.writeError(w, http.StatusBadRequest, "operator is required")
		return
	}

	id, err := s.proc.Submit(cmd)
	if err != nil {
		s.writeError(w, taskErrorStatus(err), err.Error())
		return
	}
	s.instruments.TasksSubmitted.Inc()
	s.writeJSON(w, http.StatusCreated, map[string]any{
		"task_id": id,
		"state":   task.StatePending,
	})
}

func (s *Server) handleExecuteTask(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	result, err := s.proc.Execute(r.Context(), id)
	if err != nil {
		var capErr *task.CapabilityError
		if errors.As(err, &capErr) {
			// The task itself failed; the API call did not.
			s.instruments.TasksExecuted.WithLabelValues(string(task.StateFailed)).Inc()
			s.writeJSON(w, http.StatusOK, result)
			return
		}
		s.writeError(w, taskErrorStatus(err), err.Error())
		return
	}

	s.instruments.TasksExecuted.WithLabelValues(string(task.StateCompleted)).Inc()
	s.instruments.Observe(result.Metrics)
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleTaskStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	status, err := s.proc.Status(id)
	if err != nil {
		s.writeError(w, taskErrorStatus(err), err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleListTasks(w http.ResponseWriter, _ *http.Request) {
	records := s.proc.List()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"tasks": records,
		"count": len(records),
	})
}

func (s *Server) handleSystemMetrics(w http.ResponseWriter, _ *http.Request) {
	snap := s.proc.CurrentMetrics()
	s.instruments.Observe(snap)
	s.writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleField(w http.ResponseWriter, _ *http.Request) {
	field := s.proc.FieldSnapshot()
	if field == nil {
		s.writeError(w, http.StatusNotFound, "no field generated yet")
		return
	}
	s.writeJSON(w, http.StatusOK, field)
}

func (s *Server) handleRegisterRule(w http.ResponseWriter, r *http.Request) {
	var rule rules.DeltaRule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid rule: "+err.Error())
		return
	}

	count, err := s.rules.RegisterDelta(rule)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]any{
		"name":  rule.Name,
		"rules": count,
	})
}

func (s *Server) handleRemoveRule(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if !s.rules.Remove(name) {
		s.writeError(w, http.StatusNotFound, "unknown rule: "+name)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"name":  name,
		"rules": s.rules.Len(),
	})
}

func (s *Server) handleApplyRule(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	snap, ok := s.proc.ApplyRule(name)
	if !ok {
		s.writeError(w, http.StatusNotFound, "unknown rule: "+name)
		return
	}
	s.instruments.Observe(snap)
	s.writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleApplyAllRules(w http.ResponseWriter, _ *http.Request) {
	snap := s.proc.ApplyAllRules()
	s.instruments.Observe(snap)
	s.writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleCampaign(w http.ResponseWriter, r *http.Request) {
	if s.limiter != nil && !s.limiter.Allow() {
		s.writeError(w, http.StatusTooManyRequests, "campaign rate limit exceeded")
		return
	}

	var req campaign.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid campaign request: "+err.Error())
		return
	}
	if req.OptimizationTarget == "" {
		s.writeError(w, http.StatusBadRequest, "optimization_target is required")
		return
	}

	result, err := s.campaigns.Run(r.Context(), req)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.instruments.CampaignsRun.Inc()
	s.instruments.Observe(result.FinalMetrics)
	s.writeJSON(w, http.StatusOK, result)
}
