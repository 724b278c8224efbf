// Package usage provides per-call token usage accounting.
package usage

import "strings"

// ModalityDetail is one raw usage-metadata breakdown item as reported by the
// model provider, kept verbatim for downstream inspection.
type ModalityDetail struct {
	Modality   string `json:"modality"`
	TokenCount int    `json:"token_count"`
}

// Record normalizes heterogeneous usage metadata into a per-call accounting
// record. A fresh Record is produced per model call and never mutated after
// construction; the zero value (all counts zero) stands in when the provider
// returned no usage metadata.
type Record struct {
	InputTextTokens  int              `json:"input_text_tokens"`
	InputImageTokens int              `json:"input_image_tokens"`
	InputAudioTokens int              `json:"input_audio_tokens"`
	OutputTokens     int              `json:"output_tokens"`
	PromptDetails    []ModalityDetail `json:"prompt_details"`
	ResponseDetails  []ModalityDetail `json:"response_details"`
}

// FromDetails builds a Record from per-modality prompt breakdowns and an
// output token count. When prompt details are empty, promptTokens is
// attributed entirely to text.
func FromDetails(promptTokens, outputTokens int, promptDetails, responseDetails []ModalityDetail) Record {
	r := Record{
		OutputTokens:    outputTokens,
		PromptDetails:   promptDetails,
		ResponseDetails: responseDetails,
	}
	if len(promptDetails) == 0 {
		r.InputTextTokens = promptTokens
		return r
	}
	for _, d := range promptDetails {
		switch normalizeModality(d.Modality) {
		case "audio":
			r.InputAudioTokens += d.TokenCount
		case "image":
			r.InputImageTokens += d.TokenCount
		default:
			r.InputTextTokens += d.TokenCount
		}
	}
	return r
}

// TotalInputTokens returns the sum of input tokens across modalities.
func (r Record) TotalInputTokens() int {
	return r.InputTextTokens + r.InputImageTokens + r.InputAudioTokens
}

// Add returns the element-wise sum of two records. Raw detail breakdowns are
// concatenated. Used for per-conversation accumulation.
func (r Record) Add(other Record) Record {
	sum := Record{
		InputTextTokens:  r.InputTextTokens + other.InputTextTokens,
		InputImageTokens: r.InputImageTokens + other.InputImageTokens,
		InputAudioTokens: r.InputAudioTokens + other.InputAudioTokens,
		OutputTokens:     r.OutputTokens + other.OutputTokens,
	}
	sum.PromptDetails = append(append([]ModalityDetail{}, r.PromptDetails...), other.PromptDetails...)
	sum.ResponseDetails = append(append([]ModalityDetail{}, r.ResponseDetails...), other.ResponseDetails...)
	return sum
}

func normalizeModality(m string) string {
	m = strings.ToLower(m)
	switch {
	case strings.Contains(m, "audio"):
		return "audio"
	case strings.Contains(m, "image"):
		return "image"
	default:
		return "text"
	}
}
