package model

type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Message string       `json:"message"`
	User    AuthUserInfo `json:"user"`
}

type AuthUserInfo struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}
