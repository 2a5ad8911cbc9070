package dto

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=100" example:"student1"`
	Password string `json:"password" binding:"required,min=6" example:"password123"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"student1"`
	Password string `json:"password" binding:"required" example:"password123"`
}

type AuthResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}
