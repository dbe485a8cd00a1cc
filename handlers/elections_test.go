// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/civimatch/models"
	"github.com/danielhkuo/civimatch/testutil"
)

func TestCreateElection(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	handler := NewElectionHandler(conn, testutil.GetTestConfig())

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
	}{
		{
			name: "valid election",
			body: models.CreateElectionRequest{
				Title:       "City Council 2026",
				Description: "Local election guide",
				CreatorName: "League Office",
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "missing title",
			body: models.CreateElectionRequest{
				CreatorName: "League Office",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "missing creator name",
			body: models.CreateElectionRequest{
				Title: "City Council 2026",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid JSON",
			body:           nil,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/elections", tt.body, nil)
			w := httptest.NewRecorder()

			handler.CreateElection(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusCreated {
				var resp models.CreateElectionResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.ElectionID == "" {
					t.Error("Expected non-empty election ID")
				}
				if resp.AdminKey == "" {
					t.Error("Expected non-empty admin key")
				}

				var status string
				err := conn.QueryRow(`SELECT status FROM election WHERE id = $1`, resp.ElectionID).Scan(&status)
				if err != nil {
					t.Fatalf("Failed to query election: %v", err)
				}
				if status != models.StatusDraft {
					t.Errorf("Expected new election in draft, got %s", status)
				}
			}
		})
	}
}

func TestAddCategory(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewElectionHandler(conn, cfg)

	electionID, adminKey, _ := testutil.CreateTestElection(t, conn, cfg, models.StatusDraft)

	addCategory := func(name, key string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("POST", "/elections/"+electionID+"/categories",
			models.AddCategoryRequest{Name: name},
			map[string]string{"X-Admin-Key": key})
		req.SetPathValue("id", electionID)
		w := httptest.NewRecorder()
		handler.AddCategory(w, req)
		return w
	}

	t.Run("valid category", func(t *testing.T) {
		w := addCategory("Economy", adminKey)
		testutil.AssertStatus(t, w, http.StatusCreated)

		var resp models.AddCategoryResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.CategoryID == "" {
			t.Error("Expected non-empty category ID")
		}
	})

	t.Run("positions are append-only", func(t *testing.T) {
		w := addCategory("Environment", adminKey)
		testutil.AssertStatus(t, w, http.StatusCreated)

		var resp models.AddCategoryResponse
		testutil.AssertJSON(t, w, &resp)

		var position int
		err := conn.QueryRow(`SELECT position FROM category WHERE id = $1`, resp.CategoryID).Scan(&position)
		if err != nil {
			t.Fatalf("Failed to query category: %v", err)
		}
		if position != 1 {
			t.Errorf("Expected position 1 for second category, got %d", position)
		}
	})

	t.Run("wrong admin key", func(t *testing.T) {
		w := addCategory("Healthcare", "wrong-key")
		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})
}

func TestAddQuestion(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewElectionHandler(conn, cfg)

	electionID, adminKey, _ := testutil.CreateTestElection(t, conn, cfg, models.StatusDraft)
	categoryID := testutil.AddTestCategory(t, conn, electionID, "Economy")

	otherElectionID, _, _ := testutil.CreateTestElection(t, conn, cfg, models.StatusDraft)
	foreignCategoryID := testutil.AddTestCategory(t, conn, otherElectionID, "Foreign")

	addQuestion := func(catID string, body interface{}) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("POST", "/elections/"+electionID+"/categories/"+catID+"/questions",
			body, map[string]string{"X-Admin-Key": adminKey})
		req.SetPathValue("id", electionID)
		req.SetPathValue("categoryID", catID)
		w := httptest.NewRecorder()
		handler.AddQuestion(w, req)
		return w
	}

	t.Run("valid question", func(t *testing.T) {
		w := addQuestion(categoryID, models.AddQuestionRequest{
			Text:    "Raise the minimum wage?",
			Answers: []string{"Yes", "No", "Undecided"},
		})
		testutil.AssertStatus(t, w, http.StatusCreated)

		var resp models.AddQuestionResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.QuestionID == "" {
			t.Error("Expected non-empty question ID")
		}
		if len(resp.AnswerIDs) != 3 {
			t.Errorf("Expected 3 answer IDs, got %d", len(resp.AnswerIDs))
		}

		// Answers persisted in caption order
		var caption string
		err := conn.QueryRow(`
			SELECT caption FROM answer WHERE question_id = $1 AND position = 0
		`, resp.QuestionID).Scan(&caption)
		if err != nil {
			t.Fatalf("Failed to query answer: %v", err)
		}
		if caption != "Yes" {
			t.Errorf("Expected first answer 'Yes', got %q", caption)
		}
	})

	t.Run("too few answers", func(t *testing.T) {
		w := addQuestion(categoryID, models.AddQuestionRequest{
			Text:    "Raise the minimum wage?",
			Answers: []string{"Yes"},
		})
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("missing text", func(t *testing.T) {
		w := addQuestion(categoryID, models.AddQuestionRequest{
			Answers: []string{"Yes", "No"},
		})
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("category from another election", func(t *testing.T) {
		w := addQuestion(foreignCategoryID, models.AddQuestionRequest{
			Text:    "Raise the minimum wage?",
			Answers: []string{"Yes", "No"},
		})
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}

func TestSetCandidateAnswers(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewElectionHandler(conn, cfg)

	electionID, adminKey, _ := testutil.CreateTestElection(t, conn, cfg, models.StatusDraft)
	categoryID := testutil.AddTestCategory(t, conn, electionID, "Economy")
	questionID, answerIDs := testutil.AddTestQuestion(t, conn, categoryID, "Raise the minimum wage?", "Yes", "No")
	candidateID := testutil.AddTestCandidate(t, conn, electionID, "Alice")

	setAnswers := func(answers map[string]string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("PUT", "/elections/"+electionID+"/candidates/"+candidateID+"/answers",
			models.SetCandidateAnswersRequest{Answers: answers},
			map[string]string{"X-Admin-Key": adminKey})
		req.SetPathValue("id", electionID)
		req.SetPathValue("candidateID", candidateID)
		w := httptest.NewRecorder()
		handler.SetCandidateAnswers(w, req)
		return w
	}

	t.Run("records answer", func(t *testing.T) {
		w := setAnswers(map[string]string{questionID: answerIDs[0]})
		testutil.AssertStatus(t, w, http.StatusNoContent)

		var stored string
		err := conn.QueryRow(`
			SELECT answer_id FROM candidate_answer
			WHERE candidate_id = $1 AND question_id = $2
		`, candidateID, questionID).Scan(&stored)
		if err != nil {
			t.Fatalf("Failed to query candidate answer: %v", err)
		}
		if stored != answerIDs[0] {
			t.Errorf("Expected answer %s, got %s", answerIDs[0], stored)
		}
	})

	t.Run("re-answering replaces", func(t *testing.T) {
		w := setAnswers(map[string]string{questionID: answerIDs[1]})
		testutil.AssertStatus(t, w, http.StatusNoContent)

		var stored string
		var count int
		err := conn.QueryRow(`
			SELECT answer_id FROM candidate_answer
			WHERE candidate_id = $1 AND question_id = $2
		`, candidateID, questionID).Scan(&stored)
		if err != nil {
			t.Fatalf("Failed to query candidate answer: %v", err)
		}
		if stored != answerIDs[1] {
			t.Errorf("Expected replaced answer %s, got %s", answerIDs[1], stored)
		}

		err = conn.QueryRow(`
			SELECT COUNT(*) FROM candidate_answer WHERE candidate_id = $1
		`, candidateID).Scan(&count)
		if err != nil {
			t.Fatalf("Failed to count candidate answers: %v", err)
		}
		if count != 1 {
			t.Errorf("Expected single answer row after replacement, got %d", count)
		}
	})

	t.Run("answer from wrong question", func(t *testing.T) {
		w := setAnswers(map[string]string{"other-question": answerIDs[0]})
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})
}

func TestPublishElection(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewElectionHandler(conn, cfg)

	electionID, adminKey, _ := testutil.CreateTestElection(t, conn, cfg, models.StatusDraft)

	publish := func(key string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("POST", "/elections/"+electionID+"/publish", nil,
			map[string]string{"X-Admin-Key": key})
		req.SetPathValue("id", electionID)
		w := httptest.NewRecorder()
		handler.PublishElection(w, req)
		return w
	}

	t.Run("wrong admin key", func(t *testing.T) {
		w := publish("wrong-key")
		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})

	t.Run("publish succeeds", func(t *testing.T) {
		w := publish(adminKey)
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.PublishElectionResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.Slug == "" {
			t.Fatal("Expected non-empty slug")
		}
		if resp.ShareURL != cfg.BaseURL+"/elections/"+resp.Slug {
			t.Errorf("Unexpected share URL %s", resp.ShareURL)
		}

		var status string
		var slug *string
		err := conn.QueryRow(`SELECT status, slug FROM election WHERE id = $1`, electionID).Scan(&status, &slug)
		if err != nil {
			t.Fatalf("Failed to query election: %v", err)
		}
		if status != models.StatusOpen {
			t.Errorf("Expected open status, got %s", status)
		}
		if slug == nil || *slug != resp.Slug {
			t.Errorf("Expected stored slug %s, got %v", resp.Slug, slug)
		}
	})

	t.Run("publishing twice conflicts", func(t *testing.T) {
		w := publish(adminKey)
		testutil.AssertStatus(t, w, http.StatusConflict)
	})
}

func TestEditingOpenElection(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewElectionHandler(conn, cfg)

	electionID, adminKey, _ := testutil.CreateTestElection(t, conn, cfg, models.StatusOpen)

	req := testutil.MakeRequest("POST", "/elections/"+electionID+"/categories",
		models.AddCategoryRequest{Name: "Economy"},
		map[string]string{"X-Admin-Key": adminKey})
	req.SetPathValue("id", electionID)
	w := httptest.NewRecorder()

	handler.AddCategory(w, req)

	testutil.AssertStatus(t, w, http.StatusConflict)
}

func TestGetElectionAdmin(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewElectionHandler(conn, cfg)

	electionID, adminKey, _ := testutil.CreateTestElection(t, conn, cfg, models.StatusDraft)
	categoryID := testutil.AddTestCategory(t, conn, electionID, "Economy")
	testutil.AddTestQuestion(t, conn, categoryID, "Raise the minimum wage?", "Yes", "No")
	testutil.AddTestCandidate(t, conn, electionID, "Alice")

	t.Run("with valid key", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/elections/"+electionID+"/admin", nil,
			map[string]string{"X-Admin-Key": adminKey})
		req.SetPathValue("id", electionID)
		w := httptest.NewRecorder()

		handler.GetElectionAdmin(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		var tree models.ElectionTree
		testutil.AssertJSON(t, w, &tree)
		if tree.Election.ID != electionID {
			t.Errorf("Expected election %s, got %s", electionID, tree.Election.ID)
		}
		if len(tree.Categories) != 1 {
			t.Fatalf("Expected 1 category, got %d", len(tree.Categories))
		}
		if len(tree.Categories[0].Questions) != 1 {
			t.Errorf("Expected 1 question, got %d", len(tree.Categories[0].Questions))
		}
		if len(tree.Candidates) != 1 {
			t.Errorf("Expected 1 candidate, got %d", len(tree.Candidates))
		}
	})

	t.Run("without key", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/elections/"+electionID+"/admin", nil, nil)
		req.SetPathValue("id", electionID)
		w := httptest.NewRecorder()

		handler.GetElectionAdmin(w, req)

		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})
}
