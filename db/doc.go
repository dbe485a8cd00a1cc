// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and
indexes. The statements are written in the SQL subset that both the
postgres (lib/pq) and sqlite (modernc.org/sqlite) drivers accept, so
the same binary runs against either backend.

# Tables

Election content:

  - election: Election metadata and lifecycle state
  - category: Ordered scoring buckets per election
  - question: Ordered questions per category
  - answer: Ordered answer choices per question
  - candidate: Ordered candidates per election
  - candidate_answer: A candidate's recorded position per question

Analytics audit trail (written once, never updated):

  - visitor: One row per voter submission
  - visitor_answer: Denormalized text snapshot per question slot
  - visitor_score: A candidate's overall percentage per submission
  - category_score: Per-category percentages per visitor_score

# Relationships

	election 1──* category 1──* question 1──* answer
	election 1──* candidate 1──* candidate_answer
	election 1──* visitor 1──* visitor_answer
	visitor 1──* visitor_score 1──* category_score

All foreign keys use ON DELETE CASCADE. Deleting election content does
NOT cascade into the audit trail's text columns: visitor_answer,
visitor_score and category_score store copied names and captions, so
reporting survives content edits.

# Ordering

category.position, question.position, answer.position and
candidate.position define the canonical order used to align flat
positional submissions with the question tree.
*/
package db
