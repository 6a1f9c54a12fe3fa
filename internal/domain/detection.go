package domain

// DetectionOutcome classifies what intake did with a raw launch event.
type DetectionOutcome string

const (
	DetectionAccepted  DetectionOutcome = "ACCEPTED"
	DetectionDuplicate DetectionOutcome = "DUPLICATE"
	DetectionRejected  DetectionOutcome = "REJECTED"
)

// String returns the string representation of DetectionOutcome.
func (o DetectionOutcome) String() string {
	return string(o)
}

// IsValid checks if the outcome is a valid value.
func (o DetectionOutcome) IsValid() bool {
	return o == DetectionAccepted || o == DetectionDuplicate || o == DetectionRejected
}

// DetectionSample is one row of the detection analytics log: what arrived,
// from which platform, and how intake classified it. Observability data
// only; dropping samples never affects pipeline correctness.
type DetectionSample struct {
	Address    string
	Platform   Platform
	Outcome    DetectionOutcome
	Named      bool  // whether the event arrived with a usable name
	DetectedAt int64 // Unix timestamp in milliseconds
}
