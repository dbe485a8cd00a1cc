// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package matching

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientData means the submission carries fewer answer or
	// importance slots than the election has questions.
	ErrInsufficientData = errors.New("submission shorter than election question count")

	// ErrNoCandidates means the election has no candidates to rank.
	ErrNoCandidates = errors.New("election has no candidates")
)

// Category is one scoring bucket, in canonical election order. The
// question IDs are in canonical order within the category.
type Category struct {
	ID          string
	Name        string
	QuestionIDs []string
}

// Response is one question slot of a voter submission. AnswerID is
// empty when the voter skipped the question; Importance is recorded
// either way.
type Response struct {
	QuestionID string
	AnswerID   string
	Importance int
}

// Submission is a voter's full answer sheet, one Response per election
// question in canonical (category-major, question-minor) order.
type Submission struct {
	Responses []Response
}

// Candidate pairs a candidate's identity with their recorded positions,
// keyed by question ID. At most one answer per question.
type Candidate struct {
	ID      string
	Name    string
	Answers map[string]string
}

// CandidateScore is one candidate's computed affinity: an overall
// percentage and one percentage per category, in category order.
type CandidateScore struct {
	CandidateID   string
	CandidateName string
	Overall       float64
	Categories    []float64
}

// Result is the ranked outcome of a match computation.
type Result struct {
	Winner CandidateScore
	Others []CandidateScore
}

// QuestionCount returns the total number of questions across categories.
func QuestionCount(categories []Category) int {
	n := 0
	for _, c := range categories {
		n += len(c.QuestionIDs)
	}
	return n
}

// CategoryImportance folds the flat importance sequence onto the
// category structure: category k receives the sum of the weights of its
// own questions. The flat sequence is consumed positionally, exactly
// QuestionIDs-many weights per category, so no weight is skipped or
// double-counted. A category with no questions sums to 0 and consumes
// nothing.
//
// Returns ErrInsufficientData when the submission is shorter than the
// total question count.
func CategoryImportance(categories []Category, sub Submission) ([]int, error) {
	if len(sub.Responses) < QuestionCount(categories) {
		return nil, fmt.Errorf("%w: got %d responses, need %d",
			ErrInsufficientData, len(sub.Responses), QuestionCount(categories))
	}

	totals := make([]int, len(categories))
	offset := 0
	for k, cat := range categories {
		for range cat.QuestionIDs {
			totals[k] += sub.Responses[offset].Importance
			offset++
		}
	}
	return totals, nil
}

// matchedWeights computes, per category, the sum of importance weights
// for every slot where the voter picked an answer and the candidate's
// recorded answer for that question is the same one. Skipped slots and
// unanswered candidates contribute nothing.
//
// Forward scan in canonical order; the slot's category is its position
// in the category walk.
func matchedWeights(c Candidate, categories []Category, sub Submission) []int {
	sums := make([]int, len(categories))
	offset := 0
	for k, cat := range categories {
		for range cat.QuestionIDs {
			r := sub.Responses[offset]
			offset++
			if r.AnswerID == "" {
				continue
			}
			if c.Answers[r.QuestionID] == r.AnswerID {
				sums[k] += r.Importance
			}
		}
	}
	return sums
}

// Score turns per-category matched sums and per-category importance
// totals into percentages. A category whose importance total is 0
// scores 0.0 rather than dividing by zero, and a zero grand total
// yields an overall score of 0. Zero categories yields (0, empty).
//
// Pure: same inputs always produce the same outputs.
func Score(matched, totals []int) (float64, []float64) {
	perCategory := make([]float64, len(totals))
	matchedTotal := 0
	grandTotal := 0
	for k := range totals {
		grandTotal += totals[k]
		matchedTotal += matched[k]
		if totals[k] != 0 {
			perCategory[k] = float64(matched[k]) * 100.0 / float64(totals[k])
		}
	}

	overall := 0.0
	if grandTotal != 0 {
		overall = float64(matchedTotal) * 100.0 / float64(grandTotal)
	}
	return overall, perCategory
}

// Compute runs the full affinity pipeline: resolve per-category
// importance, aggregate and score every candidate, then rank.
//
// Returns ErrInsufficientData for short submissions and ErrNoCandidates
// when there is nothing to rank.
func Compute(categories []Category, candidates []Candidate, sub Submission) (Result, error) {
	totals, err := CategoryImportance(categories, sub)
	if err != nil {
		return Result{}, err
	}

	scores := make([]CandidateScore, len(candidates))
	for i, c := range candidates {
		matched := matchedWeights(c, categories, sub)
		overall, perCategory := Score(matched, totals)
		scores[i] = CandidateScore{
			CandidateID:   c.ID,
			CandidateName: c.Name,
			Overall:       overall,
			Categories:    perCategory,
		}
	}

	return Rank(scores)
}
