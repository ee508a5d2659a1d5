package matching

import (
	"slices"
	"sort"

	"github.com/fairyhunter13/candidate-matcher/internal/domain"
)

// Ranker scores every candidate of a store and orders the results.
type Ranker struct {
	store  domain.CandidateStore
	scorer Scorer
}

// NewRanker constructs a Ranker over the given store.
func NewRanker(store domain.CandidateStore, scorer Scorer) *Ranker {
	return &Ranker{store: store, scorer: scorer}
}

// Rank returns every candidate of the store sorted by score, highest first.
// Equal scores keep store order. Zero scores are included; filtering them is
// up to the caller. The job description itself is not scored, only the
// extracted signals are.
func (r *Ranker) Rank(_ string, extractedSkills, jobContext []string) []domain.RankedCandidate {
	all := r.store.All()
	out := make([]domain.RankedCandidate, 0, len(all))
	for _, c := range all {
		res := r.scorer.Score(c, extractedSkills, jobContext)
		out = append(out, domain.RankedCandidate{
			Candidate:      cloneCandidate(c),
			Score:          res.Score,
			MatchedSkills:  res.MatchedSkills,
			ScoreBreakdown: res.Breakdown,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// cloneCandidate copies slice fields so results never alias the store.
func cloneCandidate(c domain.Candidate) domain.Candidate {
	c.Skills = slices.Clone(c.Skills)
	c.Projects = slices.Clone(c.Projects)
	c.Certifications = slices.Clone(c.Certifications)
	return c
}
