package chat

import "time"

// Session captures a transient anonymous conversation with the storefront
// widget. Sessions live for the lifetime of the process (or of the backing
// store) and are never expired.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}
