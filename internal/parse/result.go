// Package parse turns merged multi-pass OCR text into structured,
// confidence-scored receipt fields. Every extractor is a pure function over
// in-memory text: no I/O, no shared state, always a best-effort answer.
package parse

// FieldResult carries one extracted field plus the evidence for it.
// Confidence is on a 0..100 scale; Value is nil when no signal was found.
type FieldResult[T any] struct {
	Value      *T
	Confidence float64
	Reasoning  string
	Provenance string
}

func someField[T any](v T, conf float64, reason, provenance string) FieldResult[T] {
	return FieldResult[T]{Value: &v, Confidence: conf, Reasoning: reason, Provenance: provenance}
}

func noField[T any](reason string) FieldResult[T] {
	return FieldResult[T]{Reasoning: reason}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// toConf100 converts a 0..1 score to the 0..100 confidence scale,
// rounded to one decimal place.
func toConf100(x float64) float64 {
	return float64(int(clamp01(x)*1000+0.5)) / 10
}
