// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/civimatch/auth"
	"github.com/danielhkuo/civimatch/cliparse"
	"github.com/danielhkuo/civimatch/middleware"
	"github.com/danielhkuo/civimatch/models"
)

type ElectionHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewElectionHandler(db *sql.DB, cfg cliparse.Config) *ElectionHandler {
	return &ElectionHandler{db: db, cfg: cfg}
}

// CreateElection handles POST /elections
func (h *ElectionHandler) CreateElection(w http.ResponseWriter, r *http.Request) {
	var req models.CreateElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate input
	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.CreatorName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "creator_name is required")
		return
	}

	electionID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate election ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create election")
		return
	}

	adminKey := auth.GenerateAdminKey(electionID, h.cfg.AdminKeySalt)

	_, err = h.db.Exec(`
		INSERT INTO election (id, title, description, creator_name, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, electionID, req.Title, req.Description, req.CreatorName, models.StatusDraft, time.Now())

	if err != nil {
		slog.Error("failed to insert election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create election")
		return
	}

	slog.Info("election created", "election_id", electionID, "creator", req.CreatorName)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateElectionResponse{
		ElectionID: electionID,
		AdminKey:   adminKey,
	})
}

// requireDraft loads the election's status and verifies both the admin
// key and that the election is still editable.
func (h *ElectionHandler) requireDraft(w http.ResponseWriter, r *http.Request, electionID string) bool {
	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(electionID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return false
	}

	var status string
	err := h.db.QueryRow("SELECT status FROM election WHERE id = $1", electionID).Scan(&status)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return false
	}
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return false
	}

	if status != models.StatusDraft {
		middleware.ErrorResponse(w, http.StatusConflict, "Election is not in draft status")
		return false
	}

	return true
}

// AddCategory handles POST /elections/:id/categories
func (h *ElectionHandler) AddCategory(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id is required")
		return
	}
	if !h.requireDraft(w, r, electionID) {
		return
	}

	var req models.AddCategoryRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	categoryID, err := auth.GenerateID(12)
	if err != nil {
		slog.Error("failed to generate category ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create category")
		return
	}

	// Position is the current count; categories are append-only so the
	// canonical order never shifts under existing submissions.
	var position int
	err = h.db.QueryRow(`
		SELECT COUNT(*) FROM category WHERE election_id = $1
	`, electionID).Scan(&position)
	if err != nil {
		slog.Error("failed to count categories", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	_, err = h.db.Exec(`
		INSERT INTO category (id, election_id, name, position)
		VALUES ($1, $2, $3, $4)
	`, categoryID, electionID, req.Name, position)

	if err != nil {
		slog.Error("failed to insert category", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create category")
		return
	}

	slog.Info("category added", "election_id", electionID, "category_id", categoryID)

	middleware.JSONResponse(w, http.StatusCreated, models.AddCategoryResponse{
		CategoryID: categoryID,
	})
}

// AddQuestion handles POST /elections/:id/categories/:categoryID/questions
// Creates the question together with its ordered answer choices.
func (h *ElectionHandler) AddQuestion(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	categoryID := r.PathValue("categoryID")
	if electionID == "" || categoryID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id and category_id are required")
		return
	}
	if !h.requireDraft(w, r, electionID) {
		return
	}

	var req models.AddQuestionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Text == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "text is required")
		return
	}
	if len(req.Answers) < 2 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "question needs at least 2 answers")
		return
	}

	// Verify the category belongs to this election
	var owner string
	err := h.db.QueryRow(`
		SELECT election_id FROM category WHERE id = $1
	`, categoryID).Scan(&owner)
	if err == sql.ErrNoRows || (err == nil && owner != electionID) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Category not found")
		return
	}
	if err != nil {
		slog.Error("failed to query category", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	questionID, err := auth.GenerateID(12)
	if err != nil {
		slog.Error("failed to generate question ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create question")
		return
	}

	var position int
	err = h.db.QueryRow(`
		SELECT COUNT(*) FROM question WHERE category_id = $1
	`, categoryID).Scan(&position)
	if err != nil {
		slog.Error("failed to count questions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	// Question plus answers is a multi-row write; keep it atomic.
	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO question (id, category_id, text, position)
		VALUES ($1, $2, $3, $4)
	`, questionID, categoryID, req.Text, position)
	if err != nil {
		slog.Error("failed to insert question", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create question")
		return
	}

	answerIDs := make([]string, len(req.Answers))
	for i, caption := range req.Answers {
		if caption == "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, "answer captions cannot be empty")
			return
		}
		answerID, err := auth.GenerateID(12)
		if err != nil {
			slog.Error("failed to generate answer ID", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create question")
			return
		}
		_, err = tx.Exec(`
			INSERT INTO answer (id, question_id, caption, position)
			VALUES ($1, $2, $3, $4)
		`, answerID, questionID, caption, i)
		if err != nil {
			slog.Error("failed to insert answer", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create question")
			return
		}
		answerIDs[i] = answerID
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create question")
		return
	}

	slog.Info("question added", "election_id", electionID, "question_id", questionID, "answers", len(answerIDs))

	middleware.JSONResponse(w, http.StatusCreated, models.AddQuestionResponse{
		QuestionID: questionID,
		AnswerIDs:  answerIDs,
	})
}

// AddCandidate handles POST /elections/:id/candidates
func (h *ElectionHandler) AddCandidate(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id is required")
		return
	}
	if !h.requireDraft(w, r, electionID) {
		return
	}

	var req models.AddCandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	candidateID, err := auth.GenerateID(12)
	if err != nil {
		slog.Error("failed to generate candidate ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create candidate")
		return
	}

	var position int
	err = h.db.QueryRow(`
		SELECT COUNT(*) FROM candidate WHERE election_id = $1
	`, electionID).Scan(&position)
	if err != nil {
		slog.Error("failed to count candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	_, err = h.db.Exec(`
		INSERT INTO candidate (id, election_id, name, position)
		VALUES ($1, $2, $3, $4)
	`, candidateID, electionID, req.Name, position)

	if err != nil {
		slog.Error("failed to insert candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create candidate")
		return
	}

	slog.Info("candidate added", "election_id", electionID, "candidate_id", candidateID)

	middleware.JSONResponse(w, http.StatusCreated, models.AddCandidateResponse{
		CandidateID: candidateID,
	})
}

// SetCandidateAnswers handles PUT /elections/:id/candidates/:candidateID/answers
// Records the candidate's position per question. Re-answering a
// question replaces the previous answer.
func (h *ElectionHandler) SetCandidateAnswers(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	candidateID := r.PathValue("candidateID")
	if electionID == "" || candidateID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id and candidate_id are required")
		return
	}
	if !h.requireDraft(w, r, electionID) {
		return
	}

	var req models.SetCandidateAnswersRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if len(req.Answers) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "answers cannot be empty")
		return
	}

	// Verify the candidate belongs to this election
	var owner string
	err := h.db.QueryRow(`
		SELECT election_id FROM candidate WHERE id = $1
	`, candidateID).Scan(&owner)
	if err == sql.ErrNoRows || (err == nil && owner != electionID) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Candidate not found")
		return
	}
	if err != nil {
		slog.Error("failed to query candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	for questionID, answerID := range req.Answers {
		// The answer must belong to the question it claims to answer.
		var actualQuestion string
		err := tx.QueryRow(`
			SELECT question_id FROM answer WHERE id = $1
		`, answerID).Scan(&actualQuestion)
		if err == sql.ErrNoRows || (err == nil && actualQuestion != questionID) {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Answer "+answerID+" does not belong to question "+questionID)
			return
		}
		if err != nil {
			slog.Error("failed to query answer", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}

		_, err = tx.Exec(`
			INSERT INTO candidate_answer (candidate_id, question_id, answer_id)
			VALUES ($1, $2, $3)
			ON CONFLICT (candidate_id, question_id) DO UPDATE SET answer_id = $3
		`, candidateID, questionID, answerID)
		if err != nil {
			slog.Error("failed to upsert candidate answer", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record answers")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record answers")
		return
	}

	slog.Info("candidate answers recorded", "election_id", electionID, "candidate_id", candidateID, "count", len(req.Answers))

	w.WriteHeader(http.StatusNoContent)
}

// PublishElection handles POST /elections/:id/publish
func (h *ElectionHandler) PublishElection(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id is required")
		return
	}
	if !h.requireDraft(w, r, electionID) {
		return
	}

	slug := auth.GenerateSlug(electionID, h.cfg.ElectionSlugSalt)

	_, err := h.db.Exec(`
		UPDATE election
		SET status = $1, slug = $2
		WHERE id = $3
	`, models.StatusOpen, slug, electionID)

	if err != nil {
		slog.Error("failed to publish election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to publish election")
		return
	}

	slog.Info("election published", "election_id", electionID, "slug", slug)

	middleware.JSONResponse(w, http.StatusOK, models.PublishElectionResponse{
		Slug:     slug,
		ShareURL: h.cfg.BaseURL + "/elections/" + slug,
	})
}

// GetElectionAdmin handles GET /elections/:id/admin
// Returns the full election tree for admin access
func (h *ElectionHandler) GetElectionAdmin(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id is required")
		return
	}

	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(electionID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	tree, err := loadElectionTree(h.db, electionID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}
	if err != nil {
		slog.Error("failed to load election tree", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, tree)
}
