// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/danielhkuo/civimatch/auth"
	"github.com/danielhkuo/civimatch/cliparse"
	"github.com/danielhkuo/civimatch/db"
)

// SetupTestDB creates an in-memory sqlite database with the full
// schema. Each call returns an isolated database; it is closed via
// t.Cleanup.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// A :memory: database exists per connection; the pool must never
	// open a second one.
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	t.Cleanup(func() { conn.Close() })
	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:             3419,
		DatabaseURL:      ":memory:",
		DatabaseType:     "sqlite",
		BaseURL:          "https://civimatch.test",
		AdminKeySalt:     "test-admin-salt",
		ElectionSlugSalt: "test-slug-salt",
	}
}

// CreateTestElection creates an election and returns its ID, admin key
// and slug. status should be "draft" or "open"; the slug is only set
// for open elections, mirroring PublishElection.
func CreateTestElection(t *testing.T, conn *sql.DB, cfg cliparse.Config, status string) (electionID, adminKey, slug string) {
	t.Helper()

	electionID, _ = auth.GenerateID(16)
	adminKey = auth.GenerateAdminKey(electionID, cfg.AdminKeySalt)

	var slugVal *string
	if status == "open" {
		s := auth.GenerateSlug(electionID, cfg.ElectionSlugSalt)
		slugVal = &s
		slug = s
	}

	_, err := conn.Exec(`
		INSERT INTO election (id, title, description, creator_name, status, slug, created_at)
		VALUES ($1, 'Test Election', 'A test election', 'TestUser', $2, $3, $4)
	`, electionID, status, slugVal, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test election: %v", err)
	}

	return electionID, adminKey, slug
}

// AddTestCategory appends a category and returns its ID.
func AddTestCategory(t *testing.T, conn *sql.DB, electionID, name string) string {
	t.Helper()

	categoryID, _ := auth.GenerateID(12)
	var position int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM category WHERE election_id = $1`, electionID).Scan(&position); err != nil {
		t.Fatalf("Failed to count categories: %v", err)
	}

	_, err := conn.Exec(`
		INSERT INTO category (id, election_id, name, position)
		VALUES ($1, $2, $3, $4)
	`, categoryID, electionID, name, position)
	if err != nil {
		t.Fatalf("Failed to create test category: %v", err)
	}

	return categoryID
}

// AddTestQuestion appends a question with the given answer captions and
// returns the question ID and the answer IDs in caption order.
func AddTestQuestion(t *testing.T, conn *sql.DB, categoryID, text string, captions ...string) (string, []string) {
	t.Helper()

	questionID, _ := auth.GenerateID(12)
	var position int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM question WHERE category_id = $1`, categoryID).Scan(&position); err != nil {
		t.Fatalf("Failed to count questions: %v", err)
	}

	_, err := conn.Exec(`
		INSERT INTO question (id, category_id, text, position)
		VALUES ($1, $2, $3, $4)
	`, questionID, categoryID, text, position)
	if err != nil {
		t.Fatalf("Failed to create test question: %v", err)
	}

	answerIDs := make([]string, len(captions))
	for i, caption := range captions {
		answerID, _ := auth.GenerateID(12)
		_, err := conn.Exec(`
			INSERT INTO answer (id, question_id, caption, position)
			VALUES ($1, $2, $3, $4)
		`, answerID, questionID, caption, i)
		if err != nil {
			t.Fatalf("Failed to create test answer: %v", err)
		}
		answerIDs[i] = answerID
	}

	return questionID, answerIDs
}

// AddTestCandidate appends a candidate and returns its ID.
func AddTestCandidate(t *testing.T, conn *sql.DB, electionID, name string) string {
	t.Helper()

	candidateID, _ := auth.GenerateID(12)
	var position int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM candidate WHERE election_id = $1`, electionID).Scan(&position); err != nil {
		t.Fatalf("Failed to count candidates: %v", err)
	}

	_, err := conn.Exec(`
		INSERT INTO candidate (id, election_id, name, position)
		VALUES ($1, $2, $3, $4)
	`, candidateID, electionID, name, position)
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}

	return candidateID
}

// SetTestCandidateAnswer records a candidate's answer for a question.
func SetTestCandidateAnswer(t *testing.T, conn *sql.DB, candidateID, questionID, answerID string) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO candidate_answer (candidate_id, question_id, answer_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (candidate_id, question_id) DO UPDATE SET answer_id = $3
	`, candidateID, questionID, answerID)
	if err != nil {
		t.Fatalf("Failed to set candidate answer: %v", err)
	}
}

// MakeRequest creates an HTTP test request with a JSON body
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// MakeFormRequest creates an HTTP test request with form-encoded values
func MakeFormRequest(method, path string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
