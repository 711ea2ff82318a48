// Package mood estimates the user's current mood from feed telemetry.
//
// Four independent extractors each turn one signal category into an
// un-normalized probability vector over six moods. The detector fuses
// them with fixed weights, renormalizes, and picks the dominant mood
// with a confidence score. Everything is deterministic heuristic
// scoring: there is no trained model, and no scoring path can fail.
// Degenerate input collapses to a neutral estimate instead.
package mood

import "time"

// Mood is one of the six recognized mood categories.
type Mood string

const (
	Energetic Mood = "energetic"
	Relaxed   Mood = "relaxed"
	Social    Mood = "social"
	Creative  Mood = "creative"
	Focused   Mood = "focused"
	Neutral   Mood = "neutral"
)

// Order is the fixed mood ordering. Arg-max ties resolve to the
// earliest entry.
var Order = [6]Mood{Energetic, Relaxed, Social, Creative, Focused, Neutral}

// SumTolerance is the allowed deviation from 1.0 for a normalized
// vector's total probability.
const SumTolerance = 1e-6

// Vector is a probability distribution over the six moods. A
// normalized vector has non-negative entries summing to 1 within
// SumTolerance.
type Vector struct {
	Energetic float64 `json:"energetic"`
	Relaxed   float64 `json:"relaxed"`
	Social    float64 `json:"social"`
	Creative  float64 `json:"creative"`
	Focused   float64 `json:"focused"`
	Neutral   float64 `json:"neutral"`
}

// NeutralVector is the all-neutral distribution used when no signal
// carries any weight.
func NeutralVector() Vector {
	return Vector{Neutral: 1}
}

// Get returns the probability for a mood.
func (v Vector) Get(m Mood) float64 {
	switch m {
	case Energetic:
		return v.Energetic
	case Relaxed:
		return v.Relaxed
	case Social:
		return v.Social
	case Creative:
		return v.Creative
	case Focused:
		return v.Focused
	default:
		return v.Neutral
	}
}

// Add increases the weight for a mood by w.
func (v *Vector) Add(m Mood, w float64) {
	switch m {
	case Energetic:
		v.Energetic += w
	case Relaxed:
		v.Relaxed += w
	case Social:
		v.Social += w
	case Creative:
		v.Creative += w
	case Focused:
		v.Focused += w
	case Neutral:
		v.Neutral += w
	}
}

// Sum returns the total weight across all moods.
func (v Vector) Sum() float64 {
	return v.Energetic + v.Relaxed + v.Social + v.Creative + v.Focused + v.Neutral
}

// Normalize clamps negative weights to zero and scales the vector to
// sum to 1. A vector with no positive weight becomes all-neutral
// rather than producing NaN.
func (v Vector) Normalize() Vector {
	out := v
	for _, m := range Order {
		if out.Get(m) < 0 {
			out.setMood(m, 0)
		}
	}
	sum := out.Sum()
	if sum <= 0 {
		return NeutralVector()
	}
	for _, m := range Order {
		out.setMood(m, out.Get(m)/sum)
	}
	return out
}

// Dominant returns the arg-max mood and its probability. Ties resolve
// to the earliest mood in Order.
func (v Vector) Dominant() (Mood, float64) {
	best := Order[0]
	bestP := v.Get(best)
	for _, m := range Order[1:] {
		if p := v.Get(m); p > bestP {
			best, bestP = m, p
		}
	}
	return best, bestP
}

// Scale multiplies every entry by f.
func (v Vector) Scale(f float64) Vector {
	return Vector{
		Energetic: v.Energetic * f,
		Relaxed:   v.Relaxed * f,
		Social:    v.Social * f,
		Creative:  v.Creative * f,
		Focused:   v.Focused * f,
		Neutral:   v.Neutral * f,
	}
}

// AddVector returns the entrywise sum v + o.
func (v Vector) AddVector(o Vector) Vector {
	return Vector{
		Energetic: v.Energetic + o.Energetic,
		Relaxed:   v.Relaxed + o.Relaxed,
		Social:    v.Social + o.Social,
		Creative:  v.Creative + o.Creative,
		Focused:   v.Focused + o.Focused,
		Neutral:   v.Neutral + o.Neutral,
	}
}

func (v *Vector) setMood(m Mood, p float64) {
	switch m {
	case Energetic:
		v.Energetic = p
	case Relaxed:
		v.Relaxed = p
	case Social:
		v.Social = p
	case Creative:
		v.Creative = p
	case Focused:
		v.Focused = p
	case Neutral:
		v.Neutral = p
	}
}

// SignalStrength rates how much data backed each signal category,
// each in [0,1].
type SignalStrength struct {
	Behavioral float64 `json:"behavioral"`
	Engagement float64 `json:"engagement"`
	Temporal   float64 `json:"temporal"`
	Content    float64 `json:"content"`
}

// AnalysisResult is one fused mood estimate.
type AnalysisResult struct {
	PrimaryMood   Mood           `json:"primary_mood"`
	Probabilities Vector         `json:"probabilities"`
	Confidence    float64        `json:"confidence"`
	Strength      SignalStrength `json:"signal_strength"`
	Timestamp     time.Time      `json:"timestamp"`
}
