// Package extract recovers named field values from free-form model text
// that only loosely follows a YAML-like key:value block. It is deliberately
// lenient: malformed input never fails, fields that cannot be located are
// simply absent and the caller applies defaults.
package extract

import (
	"regexp"
	"sort"
	"strings"
)

var (
	fenceRe      = regexp.MustCompile("```\\w*\\n?")
	whitespaceRe = regexp.MustCompile(`\s+`)
	quoteRe      = regexp.MustCompile(`^["']|["']$`)
)

type fieldPosition struct {
	offset int
	name   string
}

// Fields extracts the expected fields from raw model text.
// Each located field maps to a single-line, whitespace-normalized value;
// fields that cannot be located (or whose value is empty) are absent from
// the result.
func Fields(text string, expected []string) map[string]string {
	result := make(map[string]string, len(expected))

	clean := strings.TrimSpace(fenceRe.ReplaceAllString(text, ""))
	if clean == "" {
		return result
	}

	// Locate each expected field: prefer a line-start "field:" label,
	// fall back to the first occurrence anywhere.
	positions := make([]fieldPosition, 0, len(expected))
	for _, name := range expected {
		quoted := regexp.QuoteMeta(name)
		loc := regexp.MustCompile(`(?m)^`+quoted+`\s*:`).FindStringIndex(clean)
		if loc == nil {
			loc = regexp.MustCompile(quoted + `\s*:`).FindStringIndex(clean)
		}
		if loc == nil {
			continue
		}
		positions = append(positions, fieldPosition{offset: loc[0], name: name})
	}

	// Walk fields right-to-left; each field's capture window ends where the
	// next field to its right begins, so a value can never swallow a later
	// field's label.
	sort.Slice(positions, func(i, j int) bool {
		return positions[i].offset > positions[j].offset
	})
	for i, pos := range positions {
		window := clean[pos.offset:]
		if i > 0 {
			window = clean[pos.offset:positions[i-1].offset]
		}
		value, ok := captureValue(window, pos.name)
		if ok {
			result[pos.name] = value
		}
	}
	return result
}

// captureValue extracts everything after the first colon following the field
// label at the start of the window, possibly spanning multiple lines.
func captureValue(window, name string) (string, bool) {
	re := regexp.MustCompile(`(?ms)^` + regexp.QuoteMeta(name) + `\s*:\s*(.+)`)
	m := re.FindStringSubmatch(window)
	if m == nil {
		return "", false
	}

	value := strings.TrimSpace(m[1])
	value = quoteRe.ReplaceAllString(value, "")

	lines := strings.Split(value, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}
	value = strings.Join(kept, " ")
	value = strings.TrimSpace(whitespaceRe.ReplaceAllString(value, " "))
	if value == "" {
		return "", false
	}
	return value, true
}
