// Package transcript prints a conversation history to a terminal.
package transcript

import (
	"fmt"
	"io"
	"strings"

	"github.com/casualjim/toolloop/messages"
	"github.com/casualjim/toolloop/pkg/stdx"
	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
)

// Renderer turns the markdown of an assistant reply into terminal output.
type Renderer interface {
	Render(string) (string, error)
}

// Markdown returns a renderer that styles markdown for the current terminal.
func Markdown() (Renderer, error) {
	return glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithEmoji(),
	)
}

// Printer writes messages one per line, prefixed with a colored role.
type Printer struct {
	w           io.Writer
	renderer    Renderer
	showSystem  bool
	outputLimit int
}

// Option configures a Printer.
type Option func(*Printer)

// WithRenderer renders assistant content through r.
func WithRenderer(r Renderer) Option {
	return func(p *Printer) { p.renderer = r }
}

// WithSystem includes system messages in the output.
func WithSystem() Option {
	return func(p *Printer) { p.showSystem = true }
}

// WithOutputLimit truncates tool outputs longer than n bytes. Zero prints them whole.
func WithOutputLimit(n int) Option {
	return func(p *Printer) {
		if n >= 0 {
			p.outputLimit = n
		}
	}
}

// New creates a printer writing to w.
func New(w io.Writer, options ...Option) *Printer {
	p := &Printer{w: w}
	for _, apply := range options {
		apply(p)
	}
	return p
}

// Print writes every message in order.
func (p *Printer) Print(history ...messages.Message) error {
	for _, msg := range history {
		if err := p.print(msg); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) print(msg messages.Message) error {
	switch m := msg.(type) {
	case messages.System:
		if !p.showSystem {
			return nil
		}
		_, err := fmt.Fprintf(p.w, "%s: %s\n", color.HiBlackString("System"), m.Content)
		return err
	case messages.User:
		sender := m.Sender
		if sender == "" {
			sender = "User"
		}
		_, err := fmt.Fprintf(p.w, "%s: %s\n", color.CyanString(sender), m.Content)
		return err
	case messages.Assistant:
		return p.printAssistant(m)
	case messages.FunctionCallOutput:
		output := stdx.Truncate(m.Output, p.outputLimit)
		_, err := fmt.Fprintf(p.w, "%s: %s\n", color.YellowString("Tool"), output)
		return err
	default:
		_, err := fmt.Fprintf(p.w, "unknown message type: %T\n", m)
		return err
	}
}

func (p *Printer) printAssistant(m messages.Assistant) error {
	for _, tc := range m.ToolCalls {
		args := strings.ReplaceAll(tc.Arguments, ": ", "=")
		if _, err := fmt.Fprintf(p.w, "%s%s\n", color.YellowString(tc.Name), args); err != nil {
			return err
		}
	}

	if m.Refusal != "" {
		_, err := fmt.Fprintf(p.w, "%s: %s\n", color.RedString("Refusal"), m.Refusal)
		return err
	}
	if m.Content == "" {
		return nil
	}

	content := m.Content
	if p.renderer != nil {
		out, err := p.renderer.Render(content)
		if err != nil {
			return fmt.Errorf("render reply: %w", err)
		}
		content = strings.TrimSpace(out)
	}
	_, err := fmt.Fprintf(p.w, "%s: %s\n", color.MagentaString("Assistant"), content)
	return err
}
