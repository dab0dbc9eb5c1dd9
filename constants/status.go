package constants

// OCRStatus is the canonical outcome of the multi-pass OCR stage.
type OCRStatus string

// Stable values (these exact strings appear in the exported record).
const (
	OCRStatusSuccess       OCRStatus = "success"        // confidence >= 70
	OCRStatusLowConfidence OCRStatus = "low_confidence" // confidence >= 35
	OCRStatusFailed        OCRStatus = "failed"         // unusable text or engine failure
)

// StatusFromConfidence maps a 0..100 confidence onto the canonical status.
func StatusFromConfidence(conf float64) OCRStatus {
	switch {
	case conf >= 70:
		return OCRStatusSuccess
	case conf >= 35:
		return OCRStatusLowConfidence
	default:
		return OCRStatusFailed
	}
}
