// Package profile provides the ListenerProfile domain entity.
package profile

import "fmt"

// Demographics holds the configured demographic inputs for a listener.
type Demographics struct {
	AgeGroup          string // e.g. "20s"
	Country           string // ISO country code or name
	Gender            string
	PreferredLanguage string // Language used for generated thoughts and messages
}

// ListenerProfile combines configured demographics with taste attributes
// inferred by the model from the listener's liked tracks.
// Constructed once per conversation, immutable thereafter.
type ListenerProfile struct {
	Demographics
	PreferredMusicalCulture string
	Top1Artist              string
	Top1Genre               string
	Success                 bool   // Whether inference produced all fields
	Code                    string // Outcome code, "success" or an error code
}

// New builds a profile from demographics and inferred taste attributes.
// Empty inferred fields are replaced with "Unknown".
func New(demo Demographics, culture, topArtist, topGenre string) ListenerProfile {
	return ListenerProfile{
		Demographics:            demo,
		PreferredMusicalCulture: orUnknown(culture),
		Top1Artist:              orUnknown(topArtist),
		Top1Genre:               orUnknown(topGenre),
		Success:                 true,
		Code:                    "success",
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

// PromptString renders the profile as a prompt section.
func (p ListenerProfile) PromptString(title string) string {
	if title == "" {
		title = "## Listener Profile\n\n"
	}
	return fmt.Sprintf(
		"%s- age_group: %s\n- country: %s\n- gender: %s\n- preferred_musical_culture: %s\n"+
			"- preferred_language: %s\n- top_1_artist: %s\n- top_1_genre: %s\n",
		title, p.AgeGroup, p.Country, p.Gender, p.PreferredMusicalCulture,
		p.PreferredLanguage, p.Top1Artist, p.Top1Genre,
	)
}
