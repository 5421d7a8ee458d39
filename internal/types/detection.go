package types

// SafetyStatus is the binary scene classification reported to clients.
type SafetyStatus string

const (
	StatusSafe   SafetyStatus = "safe"
	StatusUnsafe SafetyStatus = "unsafe"
)

// IsValid reports whether s is one of the defined statuses.
func (s SafetyStatus) IsValid() bool {
	return s == StatusSafe || s == StatusUnsafe
}

// ClassificationResult is the outcome of classifying one frame.
// Confidence is derived from pixel fractions and always lies in [0, 1].
type ClassificationResult struct {
	Status     SafetyStatus `json:"status"`
	Confidence float64      `json:"confidence"`
}

// IsUnsafe reports whether the result should raise an alert.
func (r ClassificationResult) IsUnsafe() bool {
	return r.Status == StatusUnsafe
}
