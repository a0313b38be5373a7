package types

// User represents a registered identity. Users are immutable once created
// and are never deleted.
type User struct {
	ID       string `json:"id" example:"d290f1ee-6c54-4b01-90e6-d701748f0851"` // Unique identifier (UUID).
	Username string `json:"username" example:"gen"`                            // Unique, non-empty username.
}

// NewUserRequest represents the expected body for user registration.
type NewUserRequest struct {
	Username string `json:"username"`
}

// Response represents a generic API response for success or error messages.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
