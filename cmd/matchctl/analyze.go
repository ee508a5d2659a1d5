package main

import (
	"github.com/spf13/cobra"
)

func newAnalyzeCmd() *cobra.Command {
	var text, file string
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Extract skills and job context tags from a job description",
		Long:  "Reads a job description from --text, --file, or stdin and prints the extracted skills and context tags as JSON.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			jd, err := readJobDescription(cmd, text, file)
			if err != nil {
				return err
			}
			svc, err := newService(cmd)
			if err != nil {
				return err
			}
			ex, err := svc.Analyze(cmd.Context(), jd)
			if err != nil {
				return err
			}
			return writeJSON(cmd, ex)
		},
	}
	cmd.Flags().StringVarP(&text, "text", "t", "", "Job description text")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to a job description file")
	return cmd
}
