package messages

import (
	"strings"

	"github.com/xyz-asif/classifieds/internal/pkg/validator"
)

// ContactRequest is the body of a message to a listing owner
type ContactRequest struct {
	Message string `json:"message" form:"message" validate:"required,min=20,max=5000" example:"Hello, is the desk still available for pick up this week?"`
}

// Validate trims and checks the request
func (r *ContactRequest) Validate() error {
	r.Message = strings.TrimSpace(r.Message)
	return validator.Struct(r)
}
