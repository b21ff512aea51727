package dto

// AuthResponse is returned by register and login. The token goes in the
// Authorization header of later calls, with or without a "Bearer " prefix.
type AuthResponse struct {
	Token string `json:"token"`
}
