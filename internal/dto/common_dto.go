package dto

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
