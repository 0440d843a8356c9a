package responses

import "time"

// APIResponse is the generic JSON envelope for every HTTP response.
type APIResponse[T any] struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Data      *T        `json:"data,omitempty"`
	Error     string    `json:"error,omitempty"`
}
