package admin

type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type ResetResponse struct {
	Message string `json:"message"`
}
