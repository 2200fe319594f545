package dto

import "time"

// ContactRequest payload for the contact form.
type ContactRequest struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Subject string `json:"subject" form:"subject"`
	Message string `json:"message" form:"message"`
}

// ContactResponse acknowledges a stored message.
type ContactResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// TimeResponse is the clock widget payload.
type TimeResponse struct {
	Time int64 `json:"time"`
}
