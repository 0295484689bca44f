package messages

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/xyz-asif/classifieds/internal/features/auth"
	"github.com/xyz-asif/classifieds/internal/pkg/logger"
	"github.com/xyz-asif/classifieds/internal/pkg/response"
	"github.com/xyz-asif/classifieds/internal/pkg/validator"
	apperrors "github.com/xyz-asif/classifieds/pkg/errors"
)

// Handler handles HTTP requests for the messages feature
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Contact handles a message to a listing owner
// @Summary Contact a listing owner
// @Description Mails the owner of a visible listing; the message is stored only once the mail is sent
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Listing ID"
// @Param request body ContactRequest true "Message"
// @Success 201 {object} response.SuccessResponse{data=View}
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Failure 502 {object} response.ErrorResponse
// @Router /listings/id/{id}/contact [post]
func (h *Handler) Contact(c *gin.Context) {
	id, ok := auth.FromContext(c)
	if !ok {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}

	var req ContactRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	msg, err := h.service.Contact(c.Request.Context(), id.Email, c.Param("id"), req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, msg.ToView(id.Email))
}

func handleError(c *gin.Context, err error) {
	if fe, ok := validator.AsErrors(err); ok {
		response.ValidationFailed(c, "Invalid request", fe)
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		response.NotFound(c, "No listing found, it can be deactivated or not approved yet", "LISTING_NOT_FOUND")
	case errors.Is(err, apperrors.ErrExternal):
		response.BadGateway(c, "Email has not been sent", "DELIVERY_FAILED")
	default:
		logger.Error("messages request failed: %v", err)
		response.InternalServerError(c, "Oops, an internal error occurred", "INTERNAL_ERROR")
	}
}
