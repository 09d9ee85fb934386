package http

import (
	"net/http"
	"time"

	"finbook/internal/core"
)

type goalRequest struct {
	Name     string `json:"name"`
	Target   string `json:"target"`
	Deadline string `json:"deadline,omitempty"`
}

type goalResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Target   string `json:"target"`
	Saved    string `json:"saved"`
	Deadline string `json:"deadline,omitempty"`
}

type contributionRequest struct {
	Amount string `json:"amount"`
	Date   string `json:"date"`
}

type contributionResponse struct {
	ID     int64  `json:"id"`
	GoalID int64  `json:"goal_id"`
	Amount string `json:"amount"`
	Date   string `json:"date"`
}

type goalProjectionResponse struct {
	Goal             goalResponse `json:"goal"`
	MonthlyRate      string       `json:"monthly_rate"`
	MonthsRemaining  int          `json:"months_remaining"`
	ProjectedDate    string       `json:"projected_date,omitempty"`
	OnTrack          bool         `json:"on_track"`
	ConsistencyScore float64      `json:"consistency_score"`
}

func toGoalResponse(g core.Goal) goalResponse {
	resp := goalResponse{
		ID:     g.ID,
		Name:   g.Name,
		Target: g.Target.String(),
		Saved:  g.Saved.String(),
	}
	if !g.Deadline.IsZero() {
		resp.Deadline = g.Deadline.Format(dateLayout)
	}
	return resp
}

func (req goalRequest) toDomain(userID int64) (core.Goal, error) {
	target, err := parseAmountField(req.Target)
	if err != nil {
		return core.Goal{}, err
	}
	deadline, err := parseDateField(req.Deadline)
	if err != nil {
		return core.Goal{}, err
	}
	return core.Goal{
		UserID:   userID,
		Name:     req.Name,
		Target:   target,
		Deadline: deadline,
	}, nil
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	var req goalRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	g, err := req.toDomain(uid)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	if err := g.Validate(time.Now()); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	created, err := s.storage.CreateGoal(r.Context(), g)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toGoalResponse(created))
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	list, err := s.storage.ListGoals(r.Context(), uid)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	out := make([]goalResponse, 0, len(list))
	for _, g := range list {
		out = append(out, toGoalResponse(g))
	}
	respondJSON(w, http.StatusOK, out)
}

// handleUpdateGoal changes name, target, or deadline. Saved progress only
// moves through contributions.
func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	id, err := idParam(r)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	existing, err := s.storage.GetGoal(r.Context(), id, uid)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	var req goalRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	updated, err := req.toDomain(uid)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	updated.ID = existing.ID
	updated.Saved = existing.Saved

	if err := updated.Validate(time.Now()); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	if err := s.storage.UpdateGoal(r.Context(), updated); err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, toGoalResponse(updated))
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	id, err := idParam(r)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	if err := s.storage.DeleteGoal(r.Context(), id, uid); err != nil {
		respondError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleAddContribution(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	goalID, err := idParam(r)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	var req contributionRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	amount, err := parseAmountField(req.Amount)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	date, err := parseDateField(req.Date)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	if date.IsZero() {
		date = core.NewDate(time.Now().Year(), int(time.Now().Month()), time.Now().Day())
	}

	c := core.GoalContribution{Amount: amount, Date: date}
	created, err := s.storage.AddContribution(r.Context(), goalID, uid, c)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	respondJSON(w, http.StatusCreated, contributionResponse{
		ID:     created.ID,
		GoalID: created.GoalID,
		Amount: created.Amount.String(),
		Date:   created.Date.Format(dateLayout),
	})
}

// handleGoalProjection estimates when the goal will be reached at the
// current contribution rate.
func (s *Server) handleGoalProjection(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	goalID, err := idParam(r)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	g, err := s.storage.GetGoal(r.Context(), goalID, uid)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	contributions, err := s.storage.ListContributions(r.Context(), goalID, uid)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	p := core.ProjectGoal(g, contributions, time.Now())
	resp := goalProjectionResponse{
		Goal:             toGoalResponse(p.Goal),
		MonthlyRate:      p.MonthlyRate.String(),
		MonthsRemaining:  p.MonthsRemaining,
		OnTrack:          p.OnTrack,
		ConsistencyScore: p.ConsistencyScore,
	}
	if !p.ProjectedDate.IsZero() {
		resp.ProjectedDate = p.ProjectedDate.Format(dateLayout)
	}
	respondJSON(w, http.StatusOK, resp)
}
