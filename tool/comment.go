package tool

import (
	"strings"
)

// DocComment is the information a tool takes from a documentation comment.
type DocComment struct {
	// Summary is the first paragraph of the comment.
	Summary string
	// Parameters maps parameter names to the text listed for them.
	Parameters map[string]string
	// Defaults maps parameter names to the Go expression of a trailing
	// "(default: expr)" in their text. toolloop-gen turns them into Default options.
	Defaults map[string]string
}

// ParseDoc extracts the summary and the parameter descriptions from a doc comment.
// Comment markers (//, ///, /* and */) are stripped. Parameter descriptions are read
// from a "Parameters:" section with one "- name: text" (or "- Parameter name: text")
// line per parameter:
//
//	// getWeather returns the current weather in a given location.
//	//
//	// Parameters:
//	//   - location: The city and state, e.g. San Francisco, CA
//	//   - unit: celsius or fahrenheit (default: Celsius)
//
// A trailing "(default: expr)" is moved from the parameter text to Defaults.
func ParseDoc(comment string) DocComment {
	doc := DocComment{
		Parameters: make(map[string]string),
		Defaults:   make(map[string]string),
	}

	var summary []string
	inSummary := true
	inParameters := false
	for _, raw := range strings.Split(comment, "\n") {
		line := cleanCommentLine(raw)

		if isParametersHeader(line) {
			inSummary = false
			inParameters = true
			continue
		}

		if inSummary {
			if line == "" {
				if len(summary) > 0 {
					inSummary = false
				}
				continue
			}
			summary = append(summary, line)
			continue
		}

		if !inParameters || !strings.HasPrefix(line, "- ") {
			continue
		}
		name, text, ok := strings.Cut(strings.TrimPrefix(line, "- "), ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(name), "Parameter "))
		text = strings.TrimSpace(text)
		if name == "" || text == "" || strings.ContainsAny(name, " \t") {
			continue
		}
		if rest, expr, ok := cutDefault(text); ok {
			doc.Defaults[name] = expr
			text = rest
		}
		if text != "" {
			doc.Parameters[name] = text
		}
	}

	doc.Summary = strings.Join(summary, " ")
	return doc
}

const defaultPrefix = "(default:"

func cutDefault(text string) (rest, expr string, ok bool) {
	if !strings.HasSuffix(text, ")") {
		return text, "", false
	}
	i := strings.LastIndex(text, defaultPrefix)
	if i < 0 {
		return text, "", false
	}
	expr = strings.TrimSpace(text[i+len(defaultPrefix) : len(text)-1])
	if expr == "" {
		return text, "", false
	}
	return strings.TrimSpace(text[:i]), expr, true
}

func isParametersHeader(line string) bool {
	line = strings.TrimPrefix(line, "- ")
	return line == "Parameters:" || line == "Parameter:"
}

func cleanCommentLine(line string) string {
	line = strings.TrimSpace(line)
	for _, marker := range []string{"///", "//", "/**", "/*"} {
		if strings.HasPrefix(line, marker) {
			line = strings.TrimPrefix(line, marker)
			break
		}
	}
	line = strings.TrimSuffix(line, "*/")
	line = strings.TrimPrefix(strings.TrimSpace(line), "*")
	return strings.TrimSpace(line)
}
