package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"
)

func newAskCmd(f *flags) *cobra.Command {
	var dump bool

	cmd := &cobra.Command{
		Use:   "ask <prompt>",
		Short: "Ask a single question and print the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := f.open(cmd.OutOrStdout(), defaultRegistry())
			if err != nil {
				return err
			}

			answer, err := s.ask(cmd.Context(), strings.Join(args, " "), f.verbose)
			if dump {
				pp.Fprintln(cmd.ErrOrStderr(), s.state.Messages())
			}
			if err != nil {
				return err
			}
			if !f.verbose {
				fmt.Fprintln(cmd.OutOrStdout(), answer)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dump, "dump", false, "pretty print the conversation history to stderr when done")
	return cmd
}

// ask sends prompt and, when transcript is set, prints every message the turn added
// after the prompt itself.
func (s *session) ask(ctx context.Context, prompt string, transcript bool) (string, error) {
	start := s.state.Len()
	answer, err := s.orchestrator.Ask(ctx, s.state, prompt)
	if transcript {
		if perr := s.printTurn(start); perr != nil && err == nil {
			err = perr
		}
	}
	return answer, err
}

func (s *session) printTurn(start int) error {
	history := s.state.Messages()
	if len(history) <= start+1 {
		return nil
	}
	return s.printer.Print(history[start+1:]...)
}
