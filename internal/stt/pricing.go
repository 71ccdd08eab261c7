package stt

import (
	"math"
	"time"
)

// ModelCost holds per-minute audio pricing for a model, in USD.
type ModelCost struct {
	PerMinute float64
}

// Cost calculates the USD cost for the given audio length. Billing rounds
// up to the next whole second.
func (c ModelCost) Cost(d time.Duration) float64 {
	secs := math.Ceil(d.Seconds())
	return secs / 60 * c.PerMinute
}

// LookupCost returns the pricing for a model ID, or nil if unknown.
func LookupCost(modelID string) *ModelCost {
	if c, ok := modelCosts[modelID]; ok {
		return &c
	}
	return nil
}

// modelCosts is the embedded pricing table. Gemini rates are derived from
// audio input token pricing at 32 tokens per second.
var modelCosts = map[string]ModelCost{
	// OpenAI
	"whisper-1":              {0.006},
	"gpt-4o-transcribe":      {0.006},
	"gpt-4o-mini-transcribe": {0.003},

	// Google
	"gemini-2.0-flash":      {0.001344},
	"gemini-2.0-flash-lite": {0.000144},
	"gemini-2.5-flash":      {0.001920},
	"gemini-2.5-pro":        {0.002400},

	// Local
	"mock": {0},
	"echo": {0},
}
