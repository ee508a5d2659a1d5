package matching

import (
	"fmt"
	"strings"

	"github.com/fairyhunter13/candidate-matcher/internal/domain"
	"github.com/fairyhunter13/candidate-matcher/pkg/textx"
)

// Match tiers by total score.
const (
	TierStrong = "strong"
	TierGood   = "good"
	TierFair   = "fair"
)

const projectExcerptRunes = 50

// Tier buckets a total score: >= 80 strong, >= 60 good, otherwise fair.
func Tier(score int) string {
	switch {
	case score >= 80:
		return TierStrong
	case score >= 60:
		return TierGood
	default:
		return TierFair
	}
}

// Recommend writes a short evaluation narrative for a ranked candidate.
func Recommend(rc domain.RankedCandidate, jobContext []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s is an outstanding fit with a score of %d%%. ", rc.Name, rc.Score)

	bd := rc.ScoreBreakdown
	if bd.SkillMatch > 35 {
		top := rc.MatchedSkills
		if len(top) > 3 {
			top = top[:3]
		}
		fmt.Fprintf(&b, "They possess deep expertise in the required stack, matching %d key skills including %s. ",
			len(rc.MatchedSkills), strings.Join(top, ", "))
	}
	if bd.ExperienceMatch >= 17 {
		fmt.Fprintf(&b, "Their %s of experience is ideal for a senior role, suggesting the maturity and autonomy needed. ", rc.Experience)
	}
	if bd.ContextMatch > 5 {
		setting := "a high-growth environment"
		if hasTag(jobContext, TagSeniorLeadership) {
			setting = "a leadership role"
		}
		fmt.Fprintf(&b, "They show a strong cultural fit, having relevant experience in %s. ", setting)
	}
	if len(rc.Projects) > 0 {
		fmt.Fprintf(&b, "Their project history, notably %q, validates their ability to deliver high-impact results. ",
			textx.Truncate(rc.Projects[0], projectExcerptRunes, "..."))
	}
	b.WriteString("Strongly recommended for the next stage.")
	return b.String()
}

// Explain fills MatchTier and Recommendation on every entry in place.
func Explain(ranked []domain.RankedCandidate, jobContext []string) {
	for i := range ranked {
		ranked[i].MatchTier = Tier(ranked[i].Score)
		ranked[i].Recommendation = Recommend(ranked[i], jobContext)
	}
}
