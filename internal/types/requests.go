package types

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// MaxNormalizeBytes bounds the text accepted by the normalize endpoint
const MaxNormalizeBytes = 1 << 20

var validate = validator.New()

// AnalyzeRequest is the body of a run request. An empty body means defaults.
type AnalyzeRequest struct {
	ForceReanalysis bool   `json:"force_reanalysis"`
	Title           string `json:"title,omitempty" validate:"max=200"`
}

// NormalizeRequest carries raw analysis text to normalize into blocks
type NormalizeRequest struct {
	// Text is limited to MaxNormalizeBytes bytes; validator's max counts runes
	Text string `json:"text"`
}

// NormalizeResponse is the result of normalizing one text
type NormalizeResponse struct {
	Blocks []ContentBlock `json:"blocks"`
}

// Validate validates the AnalyzeRequest using the validator.
func (r *AnalyzeRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the NormalizeRequest using the validator and the byte limit.
func (r *NormalizeRequest) Validate() error {
	if len(r.Text) > MaxNormalizeBytes {
		return fmt.Errorf("text is %d bytes, the limit is %d", len(r.Text), MaxNormalizeBytes)
	}
	return validate.Struct(r)
}
