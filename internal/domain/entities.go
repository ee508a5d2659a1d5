package domain

import (
	"context"
	"errors"
	"time"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrRateLimited     = errors.New("rate limited")
	ErrUnavailable     = errors.New("unavailable")
	ErrInternal        = errors.New("internal error")
)

// Candidate is one immutable profile of the candidate roster.
// Invariants: Skills order is the display order of MatchedSkills; Experience
// must contain an integer for experience scoring to apply.
type Candidate struct {
	Name           string   `json:"name" yaml:"name"`
	Title          string   `json:"title" yaml:"title"`
	Skills         []string `json:"skills" yaml:"skills"`
	Experience     string   `json:"experience" yaml:"experience"`
	Location       string   `json:"location" yaml:"location"`
	Summary        string   `json:"summary" yaml:"summary"`
	Email          string   `json:"email" yaml:"email"`
	Phone          string   `json:"phone" yaml:"phone"`
	LinkedIn       string   `json:"linkedin" yaml:"linkedin"`
	Education      string   `json:"education" yaml:"education"`
	Projects       []string `json:"projects" yaml:"projects"`
	Certifications []string `json:"certifications" yaml:"certifications"`
	Availability   string   `json:"availability" yaml:"availability"`
	ExpectedSalary string   `json:"expectedSalary" yaml:"expectedSalary"`
}

// Extraction holds the signals pulled out of a job description.
type Extraction struct {
	ExtractedSkills []string `json:"extractedSkills"`
	JobContext      []string `json:"jobContext"`
}

// ScoreBreakdown lists the four weighted components of a match score.
// Bounds: SkillMatch [0,50], ExperienceMatch {0,2,5,10,17,20},
// ContextMatch [0,10], ProjectRelevance [0,10].
type ScoreBreakdown struct {
	SkillMatch       int `json:"skillMatch"`
	ExperienceMatch  int `json:"experienceMatch"`
	ContextMatch     int `json:"contextMatch"`
	ProjectRelevance int `json:"projectRelevance"`
}

// Total sums the components without the base score.
func (b ScoreBreakdown) Total() int {
	return b.SkillMatch + b.ExperienceMatch + b.ContextMatch + b.ProjectRelevance
}

// RankedCandidate is a Candidate with its computed score for one request.
type RankedCandidate struct {
	Candidate
	Score          int            `json:"score"`
	MatchedSkills  []string       `json:"matchedSkills"`
	ScoreBreakdown ScoreBreakdown `json:"scoreBreakdown"`
	// Populated only when the caller asks for an explanation.
	MatchTier      string `json:"matchTier,omitempty"`
	Recommendation string `json:"recommendation,omitempty"`
}

// MatchCompleted is emitted after a ranking request has been answered.
type MatchCompleted struct {
	ID              string    `json:"id"`
	RequestID       string    `json:"request_id,omitempty"`
	ExtractedSkills []string  `json:"extracted_skills"`
	JobContext      []string  `json:"job_context"`
	TopCandidate    string    `json:"top_candidate,omitempty"`
	TopScore        int       `json:"top_score"`
	Candidates      int       `json:"candidates"`
	CreatedAt       time.Time `json:"created_at"`
}

// Ports

// CandidateStore is a read-only roster of candidates in a fixed order.
type CandidateStore interface {
	// All returns every candidate in store order. Callers must not mutate it.
	All() []Candidate
	// Get returns the candidate with the given name (case-insensitive).
	Get(name string) (Candidate, error)
}

// CandidateSource loads a roster from an external system once at startup.
type CandidateSource interface {
	LoadAll(ctx Context) ([]Candidate, error)
}

// EventPublisher delivers MatchCompleted events to downstream consumers.
type EventPublisher interface {
	PublishMatchCompleted(ctx Context, evt MatchCompleted) error
}

// Context is an alias to context.Context so adapters and usecases share one type.
type Context = context.Context
