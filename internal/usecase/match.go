// Package usecase contains application business logic services.
package usecase

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	obs "github.com/fairyhunter13/candidate-matcher/internal/adapter/observability"
	"github.com/fairyhunter13/candidate-matcher/internal/domain"
	"github.com/fairyhunter13/candidate-matcher/internal/matching"
	"github.com/fairyhunter13/candidate-matcher/internal/observability"
	"github.com/fairyhunter13/candidate-matcher/pkg/textx"
)

// MatchRequest is one ranking request. Nil ExtractedSkills or JobContext are
// derived from JobDescription; an empty non-nil slice is used as given.
type MatchRequest struct {
	JobDescription  string
	ExtractedSkills []string
	JobContext      []string

	// MinScore drops candidates scoring below it. Zero keeps everyone.
	MinScore int
	// Limit truncates the ranked list. Zero means no limit.
	Limit int
	// Explain adds a match tier and recommendation to each entry.
	Explain bool
}

// MatchResult is the ranked roster plus the signals it was ranked against.
type MatchResult struct {
	ExtractedSkills []string
	JobContext      []string
	Candidates      []domain.RankedCandidate
	// Ranked is the roster size before MinScore and Limit were applied.
	Ranked int
}

// MatchService orchestrates extraction, ranking, and match event publishing.
type MatchService struct {
	Store  domain.CandidateStore
	Ranker *matching.Ranker
	// Events is optional; nil disables publishing.
	Events domain.EventPublisher

	now func() time.Time
}

// NewMatchService constructs a MatchService over store using rubric.
func NewMatchService(store domain.CandidateStore, rubric matching.Rubric, events domain.EventPublisher) MatchService {
	return MatchService{
		Store:  store,
		Ranker: matching.NewRanker(store, matching.NewScorer(rubric)),
		Events: events,
		now:    time.Now,
	}
}

// Analyze extracts skills and context tags from a job description.
func (s MatchService) Analyze(ctx domain.Context, jobDescription string) (domain.Extraction, error) {
	_, span := otel.Tracer("usecase.match").Start(ctx, "MatchService.Analyze")
	defer span.End()

	text := textx.SanitizeText(jobDescription)
	if textx.IsBlank(text) {
		obs.ObserveAnalyze(obs.OutcomeInvalid, 0)
		span.SetStatus(codes.Error, "blank job description")
		return domain.Extraction{}, fmt.Errorf("op=usecase.Analyze: %w: jobDescription is required", domain.ErrInvalidArgument)
	}
	ex := matching.Analyze(text)
	span.SetAttributes(
		attribute.Int("match.extracted_skills", len(ex.ExtractedSkills)),
		attribute.StringSlice("match.job_context", ex.JobContext),
	)
	obs.ObserveAnalyze(obs.OutcomeOK, len(ex.ExtractedSkills))
	return ex, nil
}

// Match ranks the roster against the request's job signals.
func (s MatchService) Match(ctx domain.Context, req MatchRequest) (MatchResult, error) {
	ctx, span := otel.Tracer("usecase.match").Start(ctx, "MatchService.Match")
	defer span.End()

	text := textx.SanitizeText(req.JobDescription)
	if textx.IsBlank(text) {
		obs.ObserveMatch(obs.OutcomeInvalid, 0, nil)
		span.SetStatus(codes.Error, "blank job description")
		return MatchResult{}, fmt.Errorf("op=usecase.Match: %w: jobDescription is required", domain.ErrInvalidArgument)
	}
	if req.MinScore < 0 || req.Limit < 0 {
		obs.ObserveMatch(obs.OutcomeInvalid, 0, nil)
		span.SetStatus(codes.Error, "negative filter")
		return MatchResult{}, fmt.Errorf("op=usecase.Match: %w: min_score and limit must be non-negative", domain.ErrInvalidArgument)
	}

	skills, jobContext := req.ExtractedSkills, req.JobContext
	if skills == nil || jobContext == nil {
		ex := matching.Analyze(text)
		if skills == nil {
			skills = ex.ExtractedSkills
		}
		if jobContext == nil {
			jobContext = ex.JobContext
		}
	}

	start := s.clock()()
	ranked := s.Ranker.Rank(text, skills, jobContext)
	elapsed := s.clock()().Sub(start)

	scores := make([]int, len(ranked))
	for i, rc := range ranked {
		scores[i] = rc.Score
	}
	obs.ObserveMatch(obs.OutcomeOK, elapsed, scores)

	res := MatchResult{
		ExtractedSkills: slices.Clone(skills),
		JobContext:      slices.Clone(jobContext),
		Candidates:      filterRanked(ranked, req.MinScore, req.Limit),
		Ranked:          len(ranked),
	}
	if req.Explain {
		matching.Explain(res.Candidates, jobContext)
	}
	span.SetAttributes(
		attribute.Int("match.ranked", res.Ranked),
		attribute.Int("match.returned", len(res.Candidates)),
	)

	s.publish(ctx, res, ranked)
	return res, nil
}

// Candidates lists the roster in store order.
func (s MatchService) Candidates(_ domain.Context) []domain.Candidate {
	return s.Store.All()
}

// Candidate looks one roster entry up by name.
func (s MatchService) Candidate(_ domain.Context, name string) (domain.Candidate, error) {
	if textx.IsBlank(name) {
		return domain.Candidate{}, fmt.Errorf("op=usecase.Candidate: %w: name is required", domain.ErrInvalidArgument)
	}
	c, err := s.Store.Get(name)
	if err != nil {
		return domain.Candidate{}, fmt.Errorf("op=usecase.Candidate: %w", err)
	}
	return c, nil
}

// publish emits a MatchCompleted event; failures are logged, never returned.
func (s MatchService) publish(ctx domain.Context, res MatchResult, ranked []domain.RankedCandidate) {
	if s.Events == nil {
		return
	}
	evt := domain.MatchCompleted{
		ID:              uuid.NewString(),
		RequestID:       observability.RequestIDFromContext(ctx),
		ExtractedSkills: res.ExtractedSkills,
		JobContext:      res.JobContext,
		Candidates:      len(ranked),
		CreatedAt:       s.clock()().UTC(),
	}
	if len(ranked) > 0 {
		evt.TopCandidate = ranked[0].Name
		evt.TopScore = ranked[0].Score
	}
	err := s.Events.PublishMatchCompleted(ctx, evt)
	obs.ObserveEventPublish(err)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn("match event publish failed",
			slog.String("event_id", evt.ID),
			slog.Any("error", err))
	}
}

func (s MatchService) clock() func() time.Time {
	if s.now == nil {
		return time.Now
	}
	return s.now
}

func filterRanked(ranked []domain.RankedCandidate, minScore, limit int) []domain.RankedCandidate {
	out := ranked
	if minScore > 0 {
		out = make([]domain.RankedCandidate, 0, len(ranked))
		for _, rc := range ranked {
			if rc.Score >= minScore {
				out = append(out, rc)
			}
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
