// Package prompt provides versioned prompt templates for the simulated agents.
package prompt

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Template is a named, versioned prompt with {param} placeholders and the
// set of fields its response is expected to contain.
type Template struct {
	Name           string
	Version        string
	Description    string
	Text           string
	RequiredParams []string
	ExpectedFields []string
}

// Format substitutes the given parameters into the template.
// All required parameters must be present.
func (t Template) Format(params map[string]string) (string, error) {
	var missing []string
	for _, p := range t.RequiredParams {
		if _, ok := params[p]; !ok {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		return "", errors.Newf("prompt %s: missing required parameters: %v", t.Name, missing)
	}

	out := t.Text
	for k, v := range params {
		out = strings.ReplaceAll(out, "{"+k+"}", v)
	}
	return out, nil
}

// IsComplete reports whether the parsed response contains every expected field.
func (t Template) IsComplete(parsed map[string]string) bool {
	for _, f := range t.ExpectedFields {
		if _, ok := parsed[f]; !ok {
			return false
		}
	}
	return true
}
