package models

// ContactSubmission is the public contact form payload. It is never stored.
type ContactSubmission struct {
	Name    string `json:"name" validate:"required,min=2,max=50"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,min=5,max=100"`
	Message string `json:"message" validate:"required,min=10,max=1000"`
}
