package models

import "time"

// Election status constants
const (
	StatusDraft = "draft"
	StatusOpen  = "open"
)

// Request types

type CreateElectionRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CreatorName string `json:"creator_name"`
}

type AddCategoryRequest struct {
	Name string `json:"name"`
}

type AddQuestionRequest struct {
	Text    string   `json:"text"`
	Answers []string `json:"answers"`
}

type AddCandidateRequest struct {
	Name string `json:"name"`
}

// question_id -> answer_id; re-answering a question replaces the old answer
type SetCandidateAnswersRequest struct {
	Answers map[string]string `json:"answers"`
}

// Response types

type CreateElectionResponse struct {
	ElectionID string `json:"election_id"`
	AdminKey   string `json:"admin_key"`
}

type AddCategoryResponse struct {
	CategoryID string `json:"category_id"`
}

type AddQuestionResponse struct {
	QuestionID string   `json:"question_id"`
	AnswerIDs  []string `json:"answer_ids"`
}

type AddCandidateResponse struct {
	CandidateID string `json:"candidate_id"`
}

type PublishElectionResponse struct {
	Slug     string `json:"slug"`
	ShareURL string `json:"share_url"`
}

// CandidateMatch is one candidate's affinity result: an overall
// percentage plus one percentage per category, in election category order.
type CandidateMatch struct {
	CandidateID   string          `json:"candidate_id"`
	CandidateName string          `json:"candidate_name"`
	GlobalScore   float64         `json:"global_score"`
	CategoryScore []CategoryMatch `json:"category_score"`
}

type CategoryMatch struct {
	Category string  `json:"category"`
	Score    float64 `json:"score"`
}

type MatchResponse struct {
	VisitorID string           `json:"visitor_id"`
	Winner    CandidateMatch   `json:"winner"`
	Others    []CandidateMatch `json:"others"`
}

// Domain types

type Election struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatorName string    `json:"creator_name"`
	Status      string    `json:"status"`
	Slug        *string   `json:"slug,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Category struct {
	ID         string `json:"id"`
	ElectionID string `json:"election_id"`
	Name       string `json:"name"`
	Position   int    `json:"position"`
}

type Question struct {
	ID         string `json:"id"`
	CategoryID string `json:"category_id"`
	Text       string `json:"text"`
	Position   int    `json:"position"`
}

type Answer struct {
	ID         string `json:"id"`
	QuestionID string `json:"question_id"`
	Caption    string `json:"caption"`
	Position   int    `json:"position"`
}

type Candidate struct {
	ID         string `json:"id"`
	ElectionID string `json:"election_id"`
	Name       string `json:"name"`
	Position   int    `json:"position"`
}

type QuestionWithAnswers struct {
	Question Question `json:"question"`
	Answers  []Answer `json:"answers"`
}

type CategoryWithQuestions struct {
	Category  Category              `json:"category"`
	Questions []QuestionWithAnswers `json:"questions"`
}

type ElectionTree struct {
	Election   Election                `json:"election"`
	Categories []CategoryWithQuestions `json:"categories"`
	Candidates []Candidate             `json:"candidates"`
}

// Analytics types. These are denormalized snapshots written once per
// submission and never updated; the copied text survives later edits
// or deletions of the election content.

type Visitor struct {
	ID         string    `json:"id"`
	ElectionID string    `json:"election_id"`
	URL        string    `json:"url"`
	CreatedAt  time.Time `json:"created_at"`
}

type VisitorAnswer struct {
	VisitorID  string `json:"visitor_id"`
	Position   int    `json:"position"`
	Answer     string `json:"answer"`
	Question   string `json:"question"`
	Category   string `json:"category"`
	Importance int    `json:"importance"`
}

type VisitorScore struct {
	ID            string          `json:"id"`
	VisitorID     string          `json:"visitor_id"`
	CandidateName string          `json:"candidate_name"`
	Score         float64         `json:"score"`
	Categories    []CategoryScore `json:"categories,omitempty"`
}

type CategoryScore struct {
	VisitorScoreID string  `json:"-"`
	Position       int     `json:"-"`
	Category       string  `json:"category"`
	Score          float64 `json:"score"`
}

// Analytics responses

type VisitorWithScores struct {
	Visitor Visitor         `json:"visitor"`
	Answers []VisitorAnswer `json:"answers"`
	Scores  []VisitorScore  `json:"scores"`
}

type CandidateStanding struct {
	CandidateName string  `json:"candidate_name"`
	Rank          string  `json:"rank"`
	AverageScore  float64 `json:"average_score"`
}

type ElectionSummaryResponse struct {
	Title          string              `json:"title"`
	VisitorCount   int                 `json:"visitor_count"`
	FirstSubmitted string              `json:"first_submitted,omitempty"`
	LastSubmitted  string              `json:"last_submitted,omitempty"`
	Standings      []CandidateStanding `json:"standings"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
