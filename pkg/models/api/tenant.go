package api

// LoginRequest authenticates an access key / secret key pair.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the session token used on subsequent calls.
type LoginResponse struct {
	Token string `json:"token"`
}

// User is a tenant console user.
type User struct {
	Email   string `json:"email,omitempty"`
	Enabled *bool  `json:"enabled,omitempty"`
}

// AlertRule routes matching alerts to notification targets.
type AlertRule struct {
	Name    string `json:"name,omitempty"`
	Enabled *bool  `json:"enabled,omitempty"`
}

// Integration is an outbound integration (messaging, ticketing, SIEM).
type Integration struct {
	Name    string `json:"name,omitempty"`
	Enabled *bool  `json:"enabled,omitempty"`
}
