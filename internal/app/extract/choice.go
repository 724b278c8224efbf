package extract

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	choiceRe  = regexp.MustCompile(`(?i)choice\s*[:=]\s*(\d+)`)
	indexRe   = regexp.MustCompile(`(?i)index\s*(\d+)`)
	bareIntRe = regexp.MustCompile(`\b(\d+)\b`)
)

// ChoiceIndex recovers a selection index from free-form model text.
// It tries "choice: N" / "choice=N", then "index N", then the first bare
// integer on any line. The result is clamped to [0, maxIndex]; when nothing
// parses, 0 is returned.
func ChoiceIndex(text string, maxIndex int) int {
	if m := choiceRe.FindStringSubmatch(text); m != nil {
		return clamp(atoi(m[1]), maxIndex)
	}
	if m := indexRe.FindStringSubmatch(text); m != nil {
		return clamp(atoi(m[1]), maxIndex)
	}
	for _, line := range strings.Split(text, "\n") {
		if m := bareIntRe.FindStringSubmatch(line); m != nil {
			return clamp(atoi(m[1]), maxIndex)
		}
	}
	return 0
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func clamp(n, max int) int {
	if n < 0 {
		return 0
	}
	if n > max {
		return max
	}
	return n
}
