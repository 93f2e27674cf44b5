package user

// SignupRequest represents the request to register a new account
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Zip      string `json:"zip" validate:"required"`
	Username string `json:"user_id" validate:"required,min=1,max=50"`
}

// LoginRequest represents the request to authenticate
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ProfileResponse represents a user profile in API responses
type ProfileResponse struct {
	UID      string `json:"uid"`
	Email    string `json:"email"`
	Zip      string `json:"zip"`
	Username string `json:"user_id"`
}

// AuthResponse carries a token alongside the profile it identifies
type AuthResponse struct {
	Token   string           `json:"token"`
	Profile *ProfileResponse `json:"profile"`
}

// ToResponse converts a Profile model to a ProfileResponse DTO
func (p *Profile) ToResponse() *ProfileResponse {
	return &ProfileResponse{
		UID:      p.UID,
		Email:    p.Email,
		Zip:      p.Zip,
		Username: p.Username,
	}
}
