package matching

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/fairyhunter13/candidate-matcher/internal/domain"
)

var yearsPattern = regexp.MustCompile(`\d+`)

// Result is the score of one candidate against one set of job signals.
type Result struct {
	Score         int
	MatchedSkills []string
	Breakdown     domain.ScoreBreakdown
}

// Scorer applies a Rubric. The zero value is not usable; use NewScorer.
type Scorer struct {
	rubric Rubric
}

// NewScorer constructs a Scorer for the given rubric.
func NewScorer(r Rubric) Scorer {
	return Scorer{rubric: r}
}

// Rubric returns the rubric the scorer applies.
func (s Scorer) Rubric() Rubric { return s.rubric }

// Score computes the capped breakdown and total for c.
func (s Scorer) Score(c domain.Candidate, extractedSkills, jobContext []string) Result {
	skill, matched := s.skillMatch(c, extractedSkills)
	bd := domain.ScoreBreakdown{
		SkillMatch:       skill,
		ExperienceMatch:  s.experienceMatch(c, jobContext),
		ContextMatch:     s.contextMatch(c, jobContext),
		ProjectRelevance: s.projectRelevance(c),
	}
	return Result{
		Score:         clamp(s.rubric.BaseScore+bd.Total(), 0, s.rubric.MaxScore),
		MatchedSkills: matched,
		Breakdown:     bd,
	}
}

// skillMatch adds a weight for every (extracted, candidate) pair that is
// equal ignoring case. Weights are not de-duplicated; matched skills are.
func (s Scorer) skillMatch(c domain.Candidate, extractedSkills []string) (int, []string) {
	points := 0
	matched := make([]string, 0, len(c.Skills))
	seen := make(map[string]bool, len(c.Skills))
	for _, req := range extractedSkills {
		weight := s.rubric.SkillWeight
		if s.rubric.isCritical(req) {
			weight = s.rubric.CriticalSkillWeight
		}
		for _, have := range c.Skills {
			if !strings.EqualFold(have, req) {
				continue
			}
			points += weight
			if !seen[have] {
				seen[have] = true
				matched = append(matched, have)
			}
		}
	}
	return clamp(points, 0, s.rubric.SkillCap), matched
}

// experienceMatch is stepped; bands are checked from the top so the higher
// band wins when two thresholds coincide.
func (s Scorer) experienceMatch(c domain.Candidate, jobContext []string) int {
	years, ok := parseYears(c.Experience)
	if !ok {
		return 0
	}
	required := s.rubric.DefaultRequiredYears
	if hasTag(jobContext, TagSeniorLeadership) {
		required = s.rubric.SeniorRequiredYears
	}
	switch {
	case years >= required+2:
		return 20
	case years >= required:
		return 17
	case years >= 5:
		return 10
	case years >= 3:
		return 5
	default:
		return 2
	}
}

// contextMatch evaluates every context entry independently against the rule table.
func (s Scorer) contextMatch(c domain.Candidate, jobContext []string) int {
	points := 0
	for _, tag := range jobContext {
		for _, rule := range s.rubric.ContextRules {
			if rule.Tag == tag && rule.Match != nil && rule.Match(c) {
				points += rule.Points
			}
		}
	}
	return clamp(points, 0, s.rubric.ContextCap)
}

func (s Scorer) projectRelevance(c domain.Candidate) int {
	points := len(c.Projects)*s.rubric.ProjectWeight + len(c.Certifications)*s.rubric.CertificationWeight
	return clamp(points, 0, s.rubric.ProjectCap)
}

// parseYears returns the first run of ASCII digits in s.
func parseYears(s string) (int, bool) {
	m := yearsPattern.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		// Only a range error is possible for a digit run.
		return math.MaxInt, true
	}
	return n, true
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
