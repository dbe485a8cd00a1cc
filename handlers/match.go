// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/civimatch/auth"
	"github.com/danielhkuo/civimatch/cliparse"
	"github.com/danielhkuo/civimatch/matching"
	"github.com/danielhkuo/civimatch/metrics"
	"github.com/danielhkuo/civimatch/middleware"
	"github.com/danielhkuo/civimatch/models"
)

type MatchHandler struct {
	db  *sql.DB
	cfg cliparse.Config
	m   *metrics.Metrics
}

func NewMatchHandler(db *sql.DB, cfg cliparse.Config, m *metrics.Metrics) *MatchHandler {
	return &MatchHandler{db: db, cfg: cfg, m: m}
}

// questionSlot couples one canonical-order question with the display
// text snapshotted into the visitor_answer audit trail.
type questionSlot struct {
	questionID   string
	questionText string
	categoryName string
	captions     map[string]string // answer ID -> caption
}

// Match handles POST /elections/:slug/match
//
// Parses the positional question-{i} / importance-{i} / question-id-{i}
// form fields, scores every candidate against the submission, persists
// the visitor audit trail, and returns the ranked result. The election
// snapshot read, the computation, and all inserts share one
// transaction: a failed submission leaves no partial rows behind.
func (h *MatchHandler) Match(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	slug := r.PathValue("slug")
	if slug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	if err := r.ParseForm(); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	electionID, status, err := electionIDBySlug(tx, slug)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if status != models.StatusOpen {
		middleware.ErrorResponse(w, http.StatusConflict, "Election is not open")
		return
	}

	tree, err := loadElectionTree(tx, electionID)
	if err != nil {
		slog.Error("failed to load election tree", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	categories, slots := ballotFromTree(tree)

	sub, err := parseSubmission(r, slots)
	if err != nil {
		h.m.SubmissionErrors.Inc()
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	candidateAnswers, err := loadCandidateAnswers(tx, electionID)
	if err != nil {
		slog.Error("failed to load candidate answers", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	candidates := make([]matching.Candidate, len(tree.Candidates))
	for i, c := range tree.Candidates {
		candidates[i] = matching.Candidate{
			ID:      c.ID,
			Name:    c.Name,
			Answers: candidateAnswers[c.ID],
		}
	}

	result, err := matching.Compute(categories, candidates, sub)
	if errors.Is(err, matching.ErrNoCandidates) {
		h.m.SubmissionErrors.Inc()
		middleware.ErrorResponse(w, http.StatusConflict, "Election has no candidates")
		return
	}
	if errors.Is(err, matching.ErrInsufficientData) {
		h.m.SubmissionErrors.Inc()
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.Error("failed to compute match", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to compute match")
		return
	}

	visitorID, err := h.persistVisit(tx, electionID, slug, categories, slots, sub, result)
	if err != nil {
		h.m.SubmissionErrors.Inc()
		slog.Error("failed to persist visit", "error", err, "election_id", electionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record submission")
		return
	}

	if err := tx.Commit(); err != nil {
		h.m.SubmissionErrors.Inc()
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record submission")
		return
	}

	h.m.SubmissionsTotal.Inc()
	h.m.CandidatesRanked.Observe(float64(len(tree.Candidates)))
	h.m.MatchDuration.Observe(time.Since(start).Seconds())

	slog.Info("submission scored",
		"election_id", electionID,
		"visitor_id", visitorID,
		"winner", result.Winner.CandidateID,
		"candidates", len(tree.Candidates),
	)

	middleware.JSONResponse(w, http.StatusCreated, models.MatchResponse{
		VisitorID: visitorID,
		Winner:    matchOf(result.Winner, categories),
		Others:    matchesOf(result.Others, categories),
	})
}

// ballotFromTree flattens the election tree into the matching engine's
// category view plus per-slot snapshot data, both in canonical order.
func ballotFromTree(tree models.ElectionTree) ([]matching.Category, []questionSlot) {
	categories := make([]matching.Category, len(tree.Categories))
	slots := []questionSlot{}

	for k, cat := range tree.Categories {
		mc := matching.Category{ID: cat.Category.ID, Name: cat.Category.Name}
		for _, q := range cat.Questions {
			mc.QuestionIDs = append(mc.QuestionIDs, q.Question.ID)

			captions := make(map[string]string, len(q.Answers))
			for _, a := range q.Answers {
				captions[a.ID] = a.Caption
			}
			slots = append(slots, questionSlot{
				questionID:   q.Question.ID,
				questionText: q.Question.Text,
				categoryName: cat.Category.Name,
				captions:     captions,
			})
		}
		categories[k] = mc
	}

	return categories, slots
}

// parseSubmission converts the positional form fields into a strongly
// typed Submission. For slot i the request carries:
//
//	question-id-{i}  the question being answered (must match canon)
//	importance-{i}   integer weight, 0 is legal
//	question-{i}     selected answer ID; absent or empty means skipped
//
// A missing question-id or importance field means the submission is
// shorter than the election, which is matching.ErrInsufficientData.
func parseSubmission(r *http.Request, slots []questionSlot) (matching.Submission, error) {
	responses := make([]matching.Response, 0, len(slots))

	for i, slot := range slots {
		questionID := r.Form.Get(fmt.Sprintf("question-id-%d", i))
		if questionID == "" {
			return matching.Submission{}, fmt.Errorf("%w: missing question-id-%d", matching.ErrInsufficientData, i)
		}
		if questionID != slot.questionID {
			return matching.Submission{}, fmt.Errorf("question-id-%d does not match election order", i)
		}

		importanceStr := r.Form.Get(fmt.Sprintf("importance-%d", i))
		if importanceStr == "" {
			return matching.Submission{}, fmt.Errorf("%w: missing importance-%d", matching.ErrInsufficientData, i)
		}
		importance, err := strconv.Atoi(importanceStr)
		if err != nil || importance < 0 {
			return matching.Submission{}, fmt.Errorf("importance-%d must be a non-negative integer", i)
		}

		answerID := r.Form.Get(fmt.Sprintf("question-%d", i))
		if answerID != "" {
			if _, ok := slot.captions[answerID]; !ok {
				return matching.Submission{}, fmt.Errorf("question-%d: unknown answer %s", i, answerID)
			}
		}

		responses = append(responses, matching.Response{
			QuestionID: questionID,
			AnswerID:   answerID,
			Importance: importance,
		})
	}

	return matching.Submission{Responses: responses}, nil
}

// persistVisit writes the full audit trail for one submission: the
// visitor row, one visitor_answer per slot, and per candidate a
// visitor_score with its category_score children. Caller owns the
// transaction.
func (h *MatchHandler) persistVisit(tx *sql.Tx, electionID, slug string, categories []matching.Category, slots []questionSlot, sub matching.Submission, result matching.Result) (string, error) {
	visitorID := uuid.NewString()
	url := h.cfg.BaseURL + "/elections/" + slug

	_, err := tx.Exec(`
		INSERT INTO visitor (id, election_id, url, created_at)
		VALUES ($1, $2, $3, $4)
	`, visitorID, electionID, url, time.Now())
	if err != nil {
		return "", fmt.Errorf("insert visitor: %w", err)
	}

	for i, resp := range sub.Responses {
		// Skipped questions keep empty text but still record the
		// importance the voter assigned.
		answerText, questionText, categoryName := "", "", ""
		if resp.AnswerID != "" {
			answerText = slots[i].captions[resp.AnswerID]
			questionText = slots[i].questionText
			categoryName = slots[i].categoryName
		}

		_, err := tx.Exec(`
			INSERT INTO visitor_answer (visitor_id, position, answer, question, category, importance)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, visitorID, i, answerText, questionText, categoryName, resp.Importance)
		if err != nil {
			return "", fmt.Errorf("insert visitor answer %d: %w", i, err)
		}
	}

	all := append([]matching.CandidateScore{result.Winner}, result.Others...)
	for _, cs := range all {
		scoreID, err := auth.GenerateID(16)
		if err != nil {
			return "", fmt.Errorf("generate score ID: %w", err)
		}

		_, err = tx.Exec(`
			INSERT INTO visitor_score (id, visitor_id, candidate_name, score)
			VALUES ($1, $2, $3, $4)
		`, scoreID, visitorID, cs.CandidateName, cs.Overall)
		if err != nil {
			return "", fmt.Errorf("insert visitor score: %w", err)
		}

		for k, categoryScore := range cs.Categories {
			_, err = tx.Exec(`
				INSERT INTO category_score (visitor_score_id, position, category, score)
				VALUES ($1, $2, $3, $4)
			`, scoreID, k, categories[k].Name, categoryScore)
			if err != nil {
				return "", fmt.Errorf("insert category score: %w", err)
			}
		}
	}

	return visitorID, nil
}

// matchOf converts an engine score into the wire shape, pairing each
// category percentage with its name.
func matchOf(cs matching.CandidateScore, categories []matching.Category) models.CandidateMatch {
	categoryScores := make([]models.CategoryMatch, len(cs.Categories))
	for k, s := range cs.Categories {
		categoryScores[k] = models.CategoryMatch{Category: categories[k].Name, Score: s}
	}
	return models.CandidateMatch{
		CandidateID:   cs.CandidateID,
		CandidateName: cs.CandidateName,
		GlobalScore:   cs.Overall,
		CategoryScore: categoryScores,
	}
}

func matchesOf(scores []matching.CandidateScore, categories []matching.Category) []models.CandidateMatch {
	out := make([]models.CandidateMatch, len(scores))
	for i, cs := range scores {
		out[i] = matchOf(cs, categories)
	}
	return out
}
