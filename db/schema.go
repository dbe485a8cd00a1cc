// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS. The SQL sticks to
// the subset that both postgres (lib/pq) and sqlite (modernc) accept.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Elections
CREATE TABLE IF NOT EXISTS election (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT,
    creator_name TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'draft' CHECK (status IN ('draft', 'open')),
    slug TEXT UNIQUE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_election_slug ON election(slug);

-- Categories (ordered; position drives canonical question order)
CREATE TABLE IF NOT EXISTS category (
    id TEXT PRIMARY KEY,
    election_id TEXT NOT NULL REFERENCES election(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    position INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_category_election_id ON category(election_id);

-- Questions
CREATE TABLE IF NOT EXISTS question (
    id TEXT PRIMARY KEY,
    category_id TEXT NOT NULL REFERENCES category(id) ON DELETE CASCADE,
    text TEXT NOT NULL,
    position INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_question_category_id ON question(category_id);

-- Answers
CREATE TABLE IF NOT EXISTS answer (
    id TEXT PRIMARY KEY,
    question_id TEXT NOT NULL REFERENCES question(id) ON DELETE CASCADE,
    caption TEXT NOT NULL,
    position INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_answer_question_id ON answer(question_id);

-- Candidates
CREATE TABLE IF NOT EXISTS candidate (
    id TEXT PRIMARY KEY,
    election_id TEXT NOT NULL REFERENCES election(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    position INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_candidate_election_id ON candidate(election_id);

-- Candidate positions: at most one answer per question per candidate
CREATE TABLE IF NOT EXISTS candidate_answer (
    candidate_id TEXT NOT NULL REFERENCES candidate(id) ON DELETE CASCADE,
    question_id TEXT NOT NULL REFERENCES question(id) ON DELETE CASCADE,
    answer_id TEXT NOT NULL REFERENCES answer(id) ON DELETE CASCADE,
    PRIMARY KEY (candidate_id, question_id)
);

CREATE INDEX IF NOT EXISTS idx_candidate_answer_candidate ON candidate_answer(candidate_id);

-- Visitors (one per submission; immutable once written)
CREATE TABLE IF NOT EXISTS visitor (
    id TEXT PRIMARY KEY,
    election_id TEXT NOT NULL REFERENCES election(id) ON DELETE CASCADE,
    url TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_visitor_election_id ON visitor(election_id);

-- Visitor answers: denormalized text snapshots, one per question slot
CREATE TABLE IF NOT EXISTS visitor_answer (
    visitor_id TEXT NOT NULL REFERENCES visitor(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    answer TEXT NOT NULL,
    question TEXT NOT NULL,
    category TEXT NOT NULL,
    importance INTEGER NOT NULL,
    PRIMARY KEY (visitor_id, position)
);

-- Visitor scores: one per candidate per submission
CREATE TABLE IF NOT EXISTS visitor_score (
    id TEXT PRIMARY KEY,
    visitor_id TEXT NOT NULL REFERENCES visitor(id) ON DELETE CASCADE,
    candidate_name TEXT NOT NULL,
    score REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_visitor_score_visitor_id ON visitor_score(visitor_id);

-- Category scores: one per category per visitor score
CREATE TABLE IF NOT EXISTS category_score (
    visitor_score_id TEXT NOT NULL REFERENCES visitor_score(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    category TEXT NOT NULL,
    score REAL NOT NULL,
    PRIMARY KEY (visitor_score_id, position)
);
`
