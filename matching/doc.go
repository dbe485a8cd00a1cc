// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package matching implements the candidate-affinity engine.

Given a voter's weighted answers to an election's questions, the engine
computes how compatible each candidate is with the voter, per category
and overall, and ranks the candidates.

# Pipeline

	totals, err := matching.CategoryImportance(categories, sub)
	result, err := matching.Compute(categories, candidates, sub)

Compute runs four stages:

 1. Weighting: fold the flat per-question importance weights into one
    total per category (CategoryImportance).
 2. Aggregation: per candidate, sum the weights of every question where
    the candidate's recorded answer equals the voter's selection.
 3. Scoring: express matched weight as a percentage of total importance,
    per category and overall (Score).
 4. Ranking: order candidates best-first and split off the winner (Rank).

# Degenerate Inputs

The engine never divides by zero and never indexes out of range:

  - a category with importance total 0 scores 0.0 for every candidate
  - a zero grand total yields an overall score of 0
  - zero categories yields (0, []) with no error
  - zero candidates is ErrNoCandidates
  - a submission shorter than the question count is ErrInsufficientData

# Purity

The package does no I/O and holds no state. Each call is independent,
so concurrent submissions need no coordination here; persistence of the
outcome is the caller's concern.
*/
package matching
