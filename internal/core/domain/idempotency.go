package domain

// ClaimStatus is the outcome of an idempotency claim attempt.
type ClaimStatus int

const (
	// ClaimProceed means the key was unclaimed; the caller owns it and must
	// Commit on success or Release on failure.
	ClaimProceed ClaimStatus = iota
	// ClaimHit means a committed response exists; it is returned verbatim.
	ClaimHit
	// ClaimInFlight means another orchestration holds the key right now.
	ClaimInFlight
)

// IntakeResult is the response cached under an idempotency key. A replayed
// request within the retention window receives this byte-for-byte.
type IntakeResult struct {
	OrderID   string `json:"order_id"`
	OrderCode string `json:"order_code"`
}
