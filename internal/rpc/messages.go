package rpc

// Profile is the flat wire form of the session metadata bag. Keys without a
// dedicated field travel in Extra. A nil field is absent; a set empty string
// clears the key.
type Profile struct {
	Name    *string        `json:"name,omitempty"`
	Role    *string        `json:"role,omitempty"`
	Phone   *string        `json:"phone,omitempty"`
	Bio     *string        `json:"bio,omitempty"`
	Address *string        `json:"address,omitempty"`
	Avatar  *string        `json:"avatar,omitempty"`
	Extra   map[string]any `json:"extra,omitempty"`
}

type User struct {
	ID      string  `json:"id"`
	Email   string  `json:"email"`
	Profile Profile `json:"profile"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignUpRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Profile  Profile `json:"profile"`
}

// AuthResponse is returned by SignIn and SignUp.
type AuthResponse struct {
	User         User   `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type SignOutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type ResetPasswordRequest struct {
	Email string `json:"email"`
}

type UpdateProfileRequest struct {
	Profile Profile `json:"profile"`
}

type UserResponse struct {
	User User `json:"user"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AvatarUploadURLRequest struct {
	ContentType string `json:"content_type"`
}

type AvatarUploadURLResponse struct {
	UploadURL string `json:"upload_url"`
	PublicURL string `json:"public_url"`
}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type Empty struct{}
