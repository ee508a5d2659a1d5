package main

import (
	"github.com/spf13/cobra"

	"github.com/fairyhunter13/candidate-matcher/internal/domain"
	"github.com/fairyhunter13/candidate-matcher/internal/usecase"
)

type matchOutput struct {
	ExtractedSkills []string                 `json:"extractedSkills"`
	JobContext      []string                 `json:"jobContext"`
	Ranked          int                      `json:"ranked"`
	Candidates      []domain.RankedCandidate `json:"candidates"`
}

func newMatchCmd() *cobra.Command {
	var (
		text, file      string
		skills, tags    []string
		minScore, limit int
		explain         bool
	)
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Rank the candidate roster against a job description",
		Long: "Ranks every roster candidate against a job description. Skills and context tags are " +
			"extracted from the text unless given with --skill and --context.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			jd, err := readJobDescription(cmd, text, file)
			if err != nil {
				return err
			}
			svc, err := newService(cmd)
			if err != nil {
				return err
			}
			req := usecase.MatchRequest{
				JobDescription: jd,
				MinScore:       minScore,
				Limit:          limit,
				Explain:        explain,
			}
			if cmd.Flags().Changed("skill") {
				req.ExtractedSkills = append([]string{}, skills...)
			}
			if cmd.Flags().Changed("context") {
				req.JobContext = append([]string{}, tags...)
			}
			res, err := svc.Match(cmd.Context(), req)
			if err != nil {
				return err
			}
			return writeJSON(cmd, matchOutput{
				ExtractedSkills: res.ExtractedSkills,
				JobContext:      res.JobContext,
				Ranked:          res.Ranked,
				Candidates:      res.Candidates,
			})
		},
	}
	f := cmd.Flags()
	f.StringVarP(&text, "text", "t", "", "Job description text")
	f.StringVarP(&file, "file", "f", "", "Path to a job description file")
	f.StringSliceVar(&skills, "skill", nil, "Skill to match on (repeatable); skips skill extraction")
	f.StringSliceVar(&tags, "context", nil, "Context tag (repeatable); skips context detection")
	f.IntVar(&minScore, "min-score", 0, "Drop candidates scoring below this")
	f.IntVar(&limit, "limit", 0, "Return at most this many candidates (0 = all)")
	f.BoolVar(&explain, "explain", false, "Add match tier and recommendation text")
	return cmd
}
