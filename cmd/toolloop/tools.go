package main

import (
	"fmt"
	"io"

	"github.com/casualjim/toolloop/registry"
	"github.com/goccy/go-json"
	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"
)

func newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Print the definitions of the available tools as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printTools(cmd.OutOrStdout(), defaultRegistry())
		},
	}
}

type toolJSON struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Parameters  *jsonschema.Schema `json:"parameters"`
}

func printTools(w io.Writer, reg *registry.Registry) error {
	defs := reg.Tools()
	out := make([]toolJSON, len(defs))
	for i, def := range defs {
		out[i] = toolJSON{Name: def.Name, Description: def.Description, Parameters: def.Parameters}
	}

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode tools: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
