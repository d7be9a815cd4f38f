package domain

// PendingOTP is an outstanding verification challenge for one email address.
// PK: email. At most one pending challenge exists per email; issuing a new
// code overwrites the previous entry. ExpiresAt is a Unix timestamp, checked
// lazily on verification — expired entries are never swept proactively.
type PendingOTP struct {
	Email     string `json:"email" dynamodbav:"email"`
	Code      string `json:"code" dynamodbav:"code"`
	ExpiresAt int64  `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
}
