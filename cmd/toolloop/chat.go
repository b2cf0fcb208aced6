package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newChatCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Hold an interactive conversation, type exit to quit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := f.open(cmd.OutOrStdout(), defaultRegistry())
			if err != nil {
				return err
			}
			return s.repl(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// repl reads one prompt per line until exit, end of input or cancellation. A failed
// turn is reported and the conversation continues.
func (s *session) repl(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Split(bufio.ScanLines)

	for {
		fmt.Fprintf(out, "%s: ", color.CyanString("User"))
		if !scanner.Scan() {
			fmt.Fprintln(out, "Exiting...")
			return scanner.Err()
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if strings.EqualFold(input, "exit") {
			return nil
		}

		if _, err := s.ask(ctx, input, true); err != nil {
			if errors.Is(err, context.Canceled) && ctx.Err() != nil {
				return nil
			}
			fmt.Fprintf(out, "%s: %v\n", color.RedString("Error"), err)
		}
		fmt.Fprintln(out)
	}
}
