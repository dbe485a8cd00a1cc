// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/danielhkuo/civimatch/models"
	"github.com/danielhkuo/civimatch/testutil"
)

func TestGetElectionPublic(t *testing.T) {
	f := setupMatchFixture(t)
	handler := NewAnalyticsHandler(f.db, testutil.GetTestConfig())

	t.Run("by slug", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/elections/"+f.slug, nil, nil)
		req.SetPathValue("slug", f.slug)
		w := httptest.NewRecorder()

		handler.GetElection(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		var tree models.ElectionTree
		testutil.AssertJSON(t, w, &tree)
		if len(tree.Categories) != 2 {
			t.Errorf("Expected 2 categories, got %d", len(tree.Categories))
		}
		if len(tree.Candidates) != 2 {
			t.Errorf("Expected 2 candidates, got %d", len(tree.Candidates))
		}
		// Canonical order: first category first, its questions in
		// position order.
		if tree.Categories[0].Category.Name != "Economy" {
			t.Errorf("Expected Economy first, got %s", tree.Categories[0].Category.Name)
		}
	})

	t.Run("unknown slug", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/elections/nope", nil, nil)
		req.SetPathValue("slug", "nope")
		w := httptest.NewRecorder()

		handler.GetElection(w, req)

		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}

func TestGetSummary(t *testing.T) {
	f := setupMatchFixture(t)
	handler := NewAnalyticsHandler(f.db, testutil.GetTestConfig())

	getSummary := func() (*httptest.ResponseRecorder, models.ElectionSummaryResponse) {
		req := testutil.MakeRequest("GET", "/elections/"+f.slug+"/summary", nil, nil)
		req.SetPathValue("slug", f.slug)
		w := httptest.NewRecorder()
		handler.GetSummary(w, req)

		var resp models.ElectionSummaryResponse
		if w.Code == http.StatusOK {
			testutil.AssertJSON(t, w, &resp)
		}
		return w, resp
	}

	t.Run("no submissions", func(t *testing.T) {
		w, resp := getSummary()
		testutil.AssertStatus(t, w, http.StatusOK)

		if resp.VisitorCount != 0 {
			t.Errorf("Expected 0 visitors, got %d", resp.VisitorCount)
		}
		if resp.FirstSubmitted != "" {
			t.Errorf("Expected no first-submitted time, got %q", resp.FirstSubmitted)
		}
		if len(resp.Standings) != 0 {
			t.Errorf("Expected no standings, got %d", len(resp.Standings))
		}
	})

	t.Run("after submissions", func(t *testing.T) {
		// Two voters who both agree with Alice on everything
		for i := 0; i < 2; i++ {
			w := f.submit(t, url.Values{
				"question-id-0": {f.questionIDs[0]},
				"importance-0":  {"5"},
				"question-0":    {f.yesIDs[0]},
				"question-id-1": {f.questionIDs[1]},
				"importance-1":  {"3"},
				"question-1":    {f.yesIDs[1]},
			})
			testutil.AssertStatus(t, w, http.StatusCreated)
		}

		w, resp := getSummary()
		testutil.AssertStatus(t, w, http.StatusOK)

		if resp.Title != "Test Election" {
			t.Errorf("Unexpected title %q", resp.Title)
		}
		if resp.VisitorCount != 2 {
			t.Errorf("Expected 2 visitors, got %d", resp.VisitorCount)
		}
		if resp.FirstSubmitted == "" || resp.LastSubmitted == "" {
			t.Error("Expected submission times to be set")
		}

		if len(resp.Standings) != 2 {
			t.Fatalf("Expected 2 standings, got %d", len(resp.Standings))
		}
		if resp.Standings[0].CandidateName != "Alice" {
			t.Errorf("Expected Alice first, got %s", resp.Standings[0].CandidateName)
		}
		if resp.Standings[0].Rank != "1st" {
			t.Errorf("Expected rank 1st, got %s", resp.Standings[0].Rank)
		}
		if resp.Standings[0].AverageScore != 100.0 {
			t.Errorf("Expected Alice average 100, got %v", resp.Standings[0].AverageScore)
		}
		if resp.Standings[1].Rank != "2nd" {
			t.Errorf("Expected rank 2nd, got %s", resp.Standings[1].Rank)
		}
		if resp.Standings[1].AverageScore != 0.0 {
			t.Errorf("Expected Bob average 0, got %v", resp.Standings[1].AverageScore)
		}
	})

	t.Run("unknown slug", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/elections/nope/summary", nil, nil)
		req.SetPathValue("slug", "nope")
		w := httptest.NewRecorder()

		handler.GetSummary(w, req)

		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}

func TestGetVisitors(t *testing.T) {
	f := setupMatchFixture(t)
	handler := NewAnalyticsHandler(f.db, testutil.GetTestConfig())

	w := f.submit(t, url.Values{
		"question-id-0": {f.questionIDs[0]},
		"importance-0":  {"5"},
		"question-0":    {f.yesIDs[0]},
		"question-id-1": {f.questionIDs[1]},
		"importance-1":  {"3"},
	})
	testutil.AssertStatus(t, w, http.StatusCreated)

	req := testutil.MakeRequest("GET", "/elections/"+f.slug+"/visitors", nil, nil)
	req.SetPathValue("slug", f.slug)
	w = httptest.NewRecorder()

	handler.GetVisitors(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp struct {
		Visitors []models.VisitorWithScores `json:"visitors"`
	}
	testutil.AssertJSON(t, w, &resp)

	if len(resp.Visitors) != 1 {
		t.Fatalf("Expected 1 visitor, got %d", len(resp.Visitors))
	}
	v := resp.Visitors[0]

	if len(v.Answers) != 2 {
		t.Fatalf("Expected 2 answer snapshots, got %d", len(v.Answers))
	}
	if v.Answers[0].Answer != "Yes" || v.Answers[0].Category != "Economy" {
		t.Errorf("Unexpected first answer snapshot %+v", v.Answers[0])
	}
	if v.Answers[1].Answer != "" || v.Answers[1].Importance != 3 {
		t.Errorf("Expected skipped second slot with importance 3, got %+v", v.Answers[1])
	}

	if len(v.Scores) != 2 {
		t.Fatalf("Expected 2 candidate scores, got %d", len(v.Scores))
	}
	// Scores come back highest first
	if v.Scores[0].CandidateName != "Alice" || v.Scores[0].Score != 62.5 {
		t.Errorf("Unexpected top score %+v", v.Scores[0])
	}
	if len(v.Scores[0].Categories) != 2 {
		t.Fatalf("Expected 2 category scores, got %d", len(v.Scores[0].Categories))
	}
	if v.Scores[0].Categories[0].Category != "Economy" || v.Scores[0].Categories[0].Score != 100.0 {
		t.Errorf("Unexpected category score %+v", v.Scores[0].Categories[0])
	}
	if v.Scores[0].Categories[1].Score != 0.0 {
		t.Errorf("Expected 0 for skipped category, got %v", v.Scores[0].Categories[1].Score)
	}
}
