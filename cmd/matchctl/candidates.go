package main

import (
	"github.com/spf13/cobra"
)

func newCandidatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "candidates [name]",
		Short: "List the roster or show one candidate",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService(cmd)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				c, err := svc.Candidate(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return writeJSON(cmd, c)
			}
			return writeJSON(cmd, svc.Candidates(cmd.Context()))
		},
	}
}
