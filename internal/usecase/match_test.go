package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/candidate-matcher/internal/adapter/store/memory"
	"github.com/fairyhunter13/candidate-matcher/internal/domain"
	"github.com/fairyhunter13/candidate-matcher/internal/matching"
	"github.com/fairyhunter13/candidate-matcher/internal/observability"
	"github.com/fairyhunter13/candidate-matcher/internal/usecase"
)

const seniorJob = "Senior Kubernetes Microservices Architect, startup, remote"

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.MatchCompleted
	err    error
}

func (p *recordingPublisher) PublishMatchCompleted(_ context.Context, evt domain.MatchCompleted) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

func newService(t *testing.T, pub domain.EventPublisher) usecase.MatchService {
	t.Helper()
	store, err := memory.Default()
	require.NoError(t, err)
	return usecase.NewMatchService(store, matching.DefaultRubric(), pub)
}

func TestAnalyze(t *testing.T) {
	svc := newService(t, nil)
	ex, err := svc.Analyze(context.Background(), seniorJob)
	require.NoError(t, err)
	assert.Equal(t, []string{"Kubernetes", "Microservices"}, ex.ExtractedSkills)
	assert.Equal(t, []string{
		matching.TagSeniorLeadership, matching.TagStartup, matching.TagRemoteFirst, matching.TagScalability,
	}, ex.JobContext)
}

func TestAnalyze_BlankIsInvalid(t *testing.T) {
	svc := newService(t, nil)
	for _, in := range []string{"", "   ", "\n\t", "\x00\x01"} {
		_, err := svc.Analyze(context.Background(), in)
		require.Error(t, err, "input %q", in)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	}
}

func TestMatch_DerivesMissingSignals(t *testing.T) {
	svc := newService(t, nil)
	res, err := svc.Match(context.Background(), usecase.MatchRequest{JobDescription: seniorJob})
	require.NoError(t, err)
	assert.Equal(t, []string{"Kubernetes", "Microservices"}, res.ExtractedSkills)
	assert.Len(t, res.JobContext, 4)
	require.Len(t, res.Candidates, 5)
	assert.Equal(t, 5, res.Ranked)
	assert.Equal(t, "Alexander Reed", res.Candidates[0].Name)
	assert.Equal(t, 60, res.Candidates[0].Score)
	assert.Empty(t, res.Candidates[0].Recommendation)
}

func TestMatch_UsesProvidedSignals(t *testing.T) {
	svc := newService(t, nil)
	res, err := svc.Match(context.Background(), usecase.MatchRequest{
		JobDescription:  seniorJob,
		ExtractedSkills: []string{"React"},
		JobContext:      []string{},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"React"}, res.ExtractedSkills)
	assert.Empty(t, res.JobContext)
	for _, rc := range res.Candidates {
		assert.Zero(t, rc.ScoreBreakdown.ContextMatch, rc.Name)
	}
}

func TestMatch_MinScoreAndLimit(t *testing.T) {
	svc := newService(t, nil)
	res, err := svc.Match(context.Background(), usecase.MatchRequest{JobDescription: seniorJob, MinScore: 38})
	require.NoError(t, err)
	require.Len(t, res.Candidates, 3)
	assert.Equal(t, 5, res.Ranked)

	res, err = svc.Match(context.Background(), usecase.MatchRequest{JobDescription: seniorJob, Limit: 2})
	require.NoError(t, err)
	require.Len(t, res.Candidates, 2)
	assert.Equal(t, "Michael Park", res.Candidates[1].Name)

	_, err = svc.Match(context.Background(), usecase.MatchRequest{JobDescription: seniorJob, Limit: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestMatch_Explain(t *testing.T) {
	svc := newService(t, nil)
	res, err := svc.Match(context.Background(), usecase.MatchRequest{JobDescription: seniorJob, Explain: true})
	require.NoError(t, err)
	top := res.Candidates[0]
	assert.Equal(t, matching.TierGood, top.MatchTier)
	assert.Contains(t, top.Recommendation, "Alexander Reed is an outstanding fit with a score of 60%.")
	assert.Contains(t, top.Recommendation, "a leadership role")
}

func TestMatch_BlankIsInvalid(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newService(t, pub)
	_, err := svc.Match(context.Background(), usecase.MatchRequest{JobDescription: "  ", ExtractedSkills: []string{"Go"}})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.Empty(t, pub.events)
}

func TestMatch_PublishesEvent(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newService(t, pub)
	ctx := observability.ContextWithRequestID(context.Background(), "req-42")

	_, err := svc.Match(ctx, usecase.MatchRequest{JobDescription: seniorJob, Limit: 1})
	require.NoError(t, err)
	require.Len(t, pub.events, 1)
	evt := pub.events[0]
	assert.NotEmpty(t, evt.ID)
	assert.Equal(t, "req-42", evt.RequestID)
	assert.Equal(t, "Alexander Reed", evt.TopCandidate)
	assert.Equal(t, 60, evt.TopScore)
	assert.Equal(t, 5, evt.Candidates)
	assert.False(t, evt.CreatedAt.IsZero())
}

func TestMatch_PublishFailureDoesNotFailRequest(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker unavailable")}
	svc := newService(t, pub)
	res, err := svc.Match(context.Background(), usecase.MatchRequest{JobDescription: seniorJob})
	require.NoError(t, err)
	assert.Len(t, res.Candidates, 5)
	assert.Len(t, pub.events, 1)
}

func TestCandidateLookup(t *testing.T) {
	svc := newService(t, nil)
	assert.Len(t, svc.Candidates(context.Background()), 5)

	c, err := svc.Candidate(context.Background(), "sarah chen")
	require.NoError(t, err)
	assert.Equal(t, "Sarah Chen", c.Name)

	_, err = svc.Candidate(context.Background(), "Nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Candidate(context.Background(), " ")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}
