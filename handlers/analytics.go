// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/civimatch/cliparse"
	"github.com/danielhkuo/civimatch/middleware"
	"github.com/danielhkuo/civimatch/models"
)

type AnalyticsHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewAnalyticsHandler(db *sql.DB, cfg cliparse.Config) *AnalyticsHandler {
	return &AnalyticsHandler{db: db, cfg: cfg}
}

// GetElection handles GET /elections/:slug
// Returns the election tree for rendering the questionnaire. Candidate
// positions are not exposed here; voters see them only through scores.
func (h *AnalyticsHandler) GetElection(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	electionID, _, err := electionIDBySlug(h.db, slug)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	tree, err := loadElectionTree(h.db, electionID)
	if err != nil {
		slog.Error("failed to load election tree", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, tree)
}

// GetSummary handles GET /elections/:slug/summary
// Returns submission volume and per-candidate average scores computed
// from the immutable visitor_score trail.
func (h *AnalyticsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	electionID, _, err := electionIDBySlug(h.db, slug)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var title string
	err = h.db.QueryRow(`SELECT title FROM election WHERE id = $1`, electionID).Scan(&title)
	if err != nil {
		slog.Error("failed to query election title", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var visitorCount int
	err = h.db.QueryRow(`
		SELECT COUNT(*) FROM visitor WHERE election_id = $1
	`, electionID).Scan(&visitorCount)
	if err != nil {
		slog.Error("failed to count visitors", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	summary := models.ElectionSummaryResponse{
		Title:        title,
		VisitorCount: visitorCount,
		Standings:    []models.CandidateStanding{},
	}

	if visitorCount > 0 {
		// Plain column selects instead of MIN/MAX aggregates: the
		// sqlite driver only maps declared TIMESTAMP columns to
		// time.Time, not aggregate results.
		var first, last time.Time
		err = h.db.QueryRow(`
			SELECT created_at FROM visitor WHERE election_id = $1
			ORDER BY created_at ASC LIMIT 1
		`, electionID).Scan(&first)
		if err == nil {
			err = h.db.QueryRow(`
				SELECT created_at FROM visitor WHERE election_id = $1
				ORDER BY created_at DESC LIMIT 1
			`, electionID).Scan(&last)
		}
		if err != nil {
			slog.Error("failed to query visitor times", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		summary.FirstSubmitted = humanize.Time(first)
		summary.LastSubmitted = humanize.Time(last)
	}

	rows, err := h.db.Query(`
		SELECT vs.candidate_name, AVG(vs.score)
		FROM visitor_score vs
		JOIN visitor v ON vs.visitor_id = v.id
		WHERE v.election_id = $1
		GROUP BY vs.candidate_name
	`, electionID)
	if err != nil {
		slog.Error("failed to query standings", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	for rows.Next() {
		var s models.CandidateStanding
		if err := rows.Scan(&s.CandidateName, &s.AverageScore); err != nil {
			slog.Error("failed to scan standing", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		summary.Standings = append(summary.Standings, s)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read standings", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	sort.SliceStable(summary.Standings, func(i, j int) bool {
		return summary.Standings[i].AverageScore > summary.Standings[j].AverageScore
	})
	for i := range summary.Standings {
		summary.Standings[i].Rank = humanize.Ordinal(i + 1)
	}

	middleware.JSONResponse(w, http.StatusOK, summary)
}

// GetVisitors handles GET /elections/:slug/visitors
// Returns the most recent recorded submissions with their answer and
// score snapshots.
func (h *AnalyticsHandler) GetVisitors(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	electionID, _, err := electionIDBySlug(h.db, slug)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	rows, err := h.db.Query(`
		SELECT id, election_id, url, created_at
		FROM visitor
		WHERE election_id = $1
		ORDER BY created_at DESC
		LIMIT 50
	`, electionID)
	if err != nil {
		slog.Error("failed to query visitors", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	visitors := []models.VisitorWithScores{}
	for rows.Next() {
		var v models.Visitor
		if err := rows.Scan(&v.ID, &v.ElectionID, &v.URL, &v.CreatedAt); err != nil {
			slog.Error("failed to scan visitor", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		visitors = append(visitors, models.VisitorWithScores{Visitor: v})
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read visitors", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	for i := range visitors {
		answers, err := h.loadVisitorAnswers(visitors[i].Visitor.ID)
		if err != nil {
			slog.Error("failed to load visitor answers", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		visitors[i].Answers = answers

		scores, err := h.loadVisitorScores(visitors[i].Visitor.ID)
		if err != nil {
			slog.Error("failed to load visitor scores", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		visitors[i].Scores = scores
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]interface{}{
		"visitors": visitors,
	})
}

func (h *AnalyticsHandler) loadVisitorAnswers(visitorID string) ([]models.VisitorAnswer, error) {
	rows, err := h.db.Query(`
		SELECT visitor_id, position, answer, question, category, importance
		FROM visitor_answer
		WHERE visitor_id = $1
		ORDER BY position
	`, visitorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	answers := []models.VisitorAnswer{}
	for rows.Next() {
		var a models.VisitorAnswer
		if err := rows.Scan(&a.VisitorID, &a.Position, &a.Answer, &a.Question, &a.Category, &a.Importance); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

func (h *AnalyticsHandler) loadVisitorScores(visitorID string) ([]models.VisitorScore, error) {
	rows, err := h.db.Query(`
		SELECT id, visitor_id, candidate_name, score
		FROM visitor_score
		WHERE visitor_id = $1
		ORDER BY score DESC, id
	`, visitorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scores := []models.VisitorScore{}
	for rows.Next() {
		var s models.VisitorScore
		if err := rows.Scan(&s.ID, &s.VisitorID, &s.CandidateName, &s.Score); err != nil {
			return nil, err
		}
		scores = append(scores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range scores {
		catRows, err := h.db.Query(`
			SELECT visitor_score_id, position, category, score
			FROM category_score
			WHERE visitor_score_id = $1
			ORDER BY position
		`, scores[i].ID)
		if err != nil {
			return nil, err
		}

		categories := []models.CategoryScore{}
		for catRows.Next() {
			var cs models.CategoryScore
			if err := catRows.Scan(&cs.VisitorScoreID, &cs.Position, &cs.Category, &cs.Score); err != nil {
				catRows.Close()
				return nil, err
			}
			categories = append(categories, cs)
		}
		if err := catRows.Err(); err != nil {
			catRows.Close()
			return nil, err
		}
		catRows.Close()

		scores[i].Categories = categories
	}

	return scores, nil
}
