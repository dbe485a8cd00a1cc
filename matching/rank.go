// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package matching

import "sort"

// Rank orders candidate scores best-first and splits off the winner.
// Ordering is descending by overall score, then element-wise descending
// by category scores; full ties keep the input (candidate list) order.
//
// Returns ErrNoCandidates for an empty slate.
func Rank(scores []CandidateScore) (Result, error) {
	if len(scores) == 0 {
		return Result{}, ErrNoCandidates
	}

	ranked := make([]CandidateScore, len(scores))
	copy(ranked, scores)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]

		if a.Overall != b.Overall {
			return a.Overall > b.Overall
		}

		// Element-wise category comparison; lengths match by
		// construction (one entry per election category).
		for k := range a.Categories {
			if k >= len(b.Categories) {
				break
			}
			if a.Categories[k] != b.Categories[k] {
				return a.Categories[k] > b.Categories[k]
			}
		}

		return false
	})

	return Result{Winner: ranked[0], Others: ranked[1:]}, nil
}
