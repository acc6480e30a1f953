package dto

// LoginResponse is returned after a successful Google sign-in
type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

// UserResponse is the public view of a user
type UserResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Name      *string `json:"name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// GoogleAuthURLResponse carries the OAuth consent URL
type GoogleAuthURLResponse struct {
	URL string `json:"url"`
}
