// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the data types shared across the Civimatch API.

# Type Groups

The package contains four groups of types:

  - Request types: JSON bodies accepted by the handlers
  - Response types: JSON bodies returned by the handlers
  - Domain types: Election, Category, Question, Answer, Candidate
  - Analytics types: Visitor, VisitorAnswer, VisitorScore, CategoryScore

# Ordering

Category, Question, Answer and Candidate all carry a Position column.
Positions define the canonical order of an election: categories by
position, then questions by position within their category. Flat
positional submissions (question-0, question-1, ...) align with the
question tree through this order, so positions are assigned once at
insert time and never renumbered.

# Analytics Snapshots

Visitor and its child records denormalize display text (answer caption,
question text, category name, candidate name) at submission time. They
form an immutable audit trail: reporting keeps working even if the
election content is edited or deleted afterwards.
*/
package models
