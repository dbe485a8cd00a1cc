// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Civimatch API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - ElectionHandler: Election lifecycle (create, build, publish)
  - MatchHandler: Voter submissions and affinity scoring
  - AnalyticsHandler: Public election view and recorded submissions

Handlers are created via constructor functions that accept *sql.DB and
Config; MatchHandler additionally takes the metrics registry:

	electionHandler := handlers.NewElectionHandler(db, cfg)
	matchHandler := handlers.NewMatchHandler(db, cfg, m)

# Election Lifecycle

Elections progress through two states: draft → open

	POST /elections                                → CreateElection (returns admin_key)
	POST /elections/{id}/categories                → AddCategory (draft only)
	POST /elections/{id}/categories/{cid}/questions → AddQuestion (draft only)
	POST /elections/{id}/candidates                → AddCandidate (draft only)
	PUT  /elections/{id}/candidates/{cid}/answers  → SetCandidateAnswers (draft only)
	POST /elections/{id}/publish                   → PublishElection (generates slug)

Admin operations require the X-Admin-Key header. Content is
append-only, so category/question/answer/candidate positions, and with
them the canonical submission order, never shift.

# Voter Flow

Voters interact via the public slug:

	GET  /elections/{slug}        → GetElection (questionnaire tree)
	POST /elections/{slug}/match  → Match (score, rank, persist)

Match accepts form-encoded positional fields, one triple per question
in canonical order:

	question-id-0=<question>  importance-0=<weight>  question-0=<answer|absent>

The handler converts them into a matching.Submission, runs
matching.Compute, and writes the visitor audit trail in the same
transaction used to read the election snapshot. A submission either
persists completely (visitor, answers, scores, category scores) or not
at all.

# Analytics

	GET /elections/{slug}/summary  → visitor volume and candidate standings
	GET /elections/{slug}/visitors → recent submissions with snapshots

Both read only the denormalized audit trail, so they keep working after
election content changes.
*/
package handlers
