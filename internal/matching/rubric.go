package matching

import (
	"strings"

	"github.com/fairyhunter13/candidate-matcher/internal/domain"
)

// ContextRule awards Points for a context tag when Match holds for the candidate.
type ContextRule struct {
	Tag    string
	Points int
	Match  func(c domain.Candidate) bool
}

// Rubric holds every weight and cap used by the Scorer.
type Rubric struct {
	BaseScore int
	MaxScore  int

	CriticalSkills      []string
	CriticalSkillWeight int
	SkillWeight         int
	SkillCap            int

	// Years required when the Senior Leadership tag is present, and otherwise.
	SeniorRequiredYears  int
	DefaultRequiredYears int

	ContextRules []ContextRule
	ContextCap   int

	ProjectWeight       int
	CertificationWeight int
	ProjectCap          int
}

// DefaultRubric returns the production weights.
// Remote-First Work has no rule and contributes 0 points.
func DefaultRubric() Rubric {
	return Rubric{
		BaseScore: 10,
		MaxScore:  100,

		CriticalSkills:      []string{"Kubernetes", "Microservices", "GraphQL", "CI/CD", "System Design"},
		CriticalSkillWeight: 6,
		SkillWeight:         4,
		SkillCap:            50,

		SeniorRequiredYears:  7,
		DefaultRequiredYears: 5,

		ContextRules: []ContextRule{
			{
				Tag:    TagStartup,
				Points: 4,
				Match: func(c domain.Candidate) bool {
					return fieldContains(c.Summary, "startup")
				},
			},
			{
				Tag:    TagSeniorLeadership,
				Points: 4,
				Match: func(c domain.Candidate) bool {
					return fieldContains(c.Title, "senior", "principal", "architect")
				},
			},
			{
				Tag:    TagScalability,
				Points: 4,
				Match: func(c domain.Candidate) bool {
					return fieldContains(c.Summary, "architect") ||
						fieldContains(strings.Join(c.Projects, " "), "microservices")
				},
			},
		},
		ContextCap: 10,

		ProjectWeight:       2,
		CertificationWeight: 1,
		ProjectCap:          10,
	}
}

func fieldContains(field string, needles ...string) bool {
	return containsAny(strings.ToLower(field), needles)
}

func (r Rubric) isCritical(skill string) bool {
	for _, c := range r.CriticalSkills {
		if c == skill {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
