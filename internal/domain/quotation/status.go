package quotation

// Status represents the lifecycle state of a quotation.
// The single-letter codes are the wire/storage values the business uses on
// its printed documents.
type Status string

const (
	StatusQuote      Status = "Q"
	StatusAccepted   Status = "A"
	StatusDeclined   Status = "D"
	StatusProcessing Status = "P"
	StatusPackaging  Status = "PC"
	StatusCompleted  Status = "C"
	StatusInvoiced   Status = "I"
)

// IsValid checks if the status is a valid quotation status
func (s Status) IsValid() bool {
	switch s {
	case StatusQuote, StatusAccepted, StatusDeclined, StatusProcessing,
		StatusPackaging, StatusCompleted, StatusInvoiced:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// Label returns the human-readable name of the status
func (s Status) Label() string {
	switch s {
	case StatusQuote:
		return "Quote"
	case StatusAccepted:
		return "Accepted"
	case StatusDeclined:
		return "Declined"
	case StatusProcessing:
		return "Processing"
	case StatusPackaging:
		return "Packaging"
	case StatusCompleted:
		return "Completed"
	case StatusInvoiced:
		return "Invoiced"
	}
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusQuote:
		return target == StatusAccepted || target == StatusDeclined
	case StatusAccepted:
		return target == StatusProcessing || target == StatusDeclined
	case StatusProcessing:
		return target == StatusPackaging
	case StatusPackaging:
		return target == StatusCompleted
	case StatusDeclined:
		return target == StatusAccepted
	case StatusCompleted:
		return target == StatusInvoiced
	case StatusInvoiced:
		return false // terminal
	}
	return false
}
