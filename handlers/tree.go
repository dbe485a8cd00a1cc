// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"

	"github.com/danielhkuo/civimatch/models"
)

// querier is satisfied by both *sql.DB and *sql.Tx so tree loading can
// run standalone or inside the match transaction's snapshot.
type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// loadElectionTree loads an election with its categories, questions,
// answers and candidates, all in canonical (position) order.
// Returns sql.ErrNoRows when the election does not exist.
func loadElectionTree(q querier, electionID string) (models.ElectionTree, error) {
	var tree models.ElectionTree

	err := q.QueryRow(`
		SELECT id, title, description, creator_name, status, slug, created_at
		FROM election
		WHERE id = $1
	`, electionID).Scan(
		&tree.Election.ID, &tree.Election.Title, &tree.Election.Description,
		&tree.Election.CreatorName, &tree.Election.Status, &tree.Election.Slug,
		&tree.Election.CreatedAt,
	)
	if err != nil {
		return models.ElectionTree{}, err
	}

	tree.Categories, err = loadCategories(q, electionID)
	if err != nil {
		return models.ElectionTree{}, err
	}

	tree.Candidates, err = loadCandidates(q, electionID)
	if err != nil {
		return models.ElectionTree{}, err
	}

	return tree, nil
}

func loadCategories(q querier, electionID string) ([]models.CategoryWithQuestions, error) {
	rows, err := q.Query(`
		SELECT id, election_id, name, position
		FROM category
		WHERE election_id = $1
		ORDER BY position
	`, electionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []models.CategoryWithQuestions{}
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.ElectionID, &cat.Name, &cat.Position); err != nil {
			return nil, err
		}
		categories = append(categories, models.CategoryWithQuestions{Category: cat})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range categories {
		questions, err := loadQuestions(q, categories[i].Category.ID)
		if err != nil {
			return nil, err
		}
		categories[i].Questions = questions
	}

	return categories, nil
}

func loadQuestions(q querier, categoryID string) ([]models.QuestionWithAnswers, error) {
	rows, err := q.Query(`
		SELECT id, category_id, text, position
		FROM question
		WHERE category_id = $1
		ORDER BY position
	`, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := []models.QuestionWithAnswers{}
	for rows.Next() {
		var question models.Question
		if err := rows.Scan(&question.ID, &question.CategoryID, &question.Text, &question.Position); err != nil {
			return nil, err
		}
		questions = append(questions, models.QuestionWithAnswers{Question: question})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range questions {
		answers, err := loadAnswers(q, questions[i].Question.ID)
		if err != nil {
			return nil, err
		}
		questions[i].Answers = answers
	}

	return questions, nil
}

func loadAnswers(q querier, questionID string) ([]models.Answer, error) {
	rows, err := q.Query(`
		SELECT id, question_id, caption, position
		FROM answer
		WHERE question_id = $1
		ORDER BY position
	`, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	answers := []models.Answer{}
	for rows.Next() {
		var a models.Answer
		if err := rows.Scan(&a.ID, &a.QuestionID, &a.Caption, &a.Position); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

func loadCandidates(q querier, electionID string) ([]models.Candidate, error) {
	rows, err := q.Query(`
		SELECT id, election_id, name, position
		FROM candidate
		WHERE election_id = $1
		ORDER BY position
	`, electionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.ElectionID, &c.Name, &c.Position); err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// loadCandidateAnswers returns candidate ID -> (question ID -> answer ID)
// for every candidate of the election.
func loadCandidateAnswers(q querier, electionID string) (map[string]map[string]string, error) {
	rows, err := q.Query(`
		SELECT ca.candidate_id, ca.question_id, ca.answer_id
		FROM candidate_answer ca
		JOIN candidate c ON ca.candidate_id = c.id
		WHERE c.election_id = $1
	`, electionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	answers := make(map[string]map[string]string)
	for rows.Next() {
		var candidateID, questionID, answerID string
		if err := rows.Scan(&candidateID, &questionID, &answerID); err != nil {
			return nil, err
		}
		if answers[candidateID] == nil {
			answers[candidateID] = make(map[string]string)
		}
		answers[candidateID][questionID] = answerID
	}
	return answers, rows.Err()
}

// electionIDBySlug resolves a public slug to the election ID and status.
func electionIDBySlug(q querier, slug string) (electionID, status string, err error) {
	err = q.QueryRow(`
		SELECT id, status FROM election WHERE slug = $1
	`, slug).Scan(&electionID, &status)
	return electionID, status, err
}
