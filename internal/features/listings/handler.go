package listings

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xyz-asif/classifieds/internal/features/auth"
	"github.com/xyz-asif/classifieds/internal/features/messages"
	"github.com/xyz-asif/classifieds/internal/pkg/logger"
	"github.com/xyz-asif/classifieds/internal/pkg/pagination"
	"github.com/xyz-asif/classifieds/internal/pkg/response"
	"github.com/xyz-asif/classifieds/internal/pkg/validator"
	apperrors "github.com/xyz-asif/classifieds/pkg/errors"
)

const maxUploadMemory = 8 << 20

// ThreadReader loads the viewer's conversation on a listing
type ThreadReader interface {
	Thread(ctx context.Context, listingID, viewer, owner string) ([]messages.View, error)
}

// ListingDetail is a listing with the viewer's message thread
type ListingDetail struct {
	Listing  PublicListing   `json:"listing"`
	Messages []messages.View `json:"messages"`
}

// Handler handles HTTP requests for the listings feature
type Handler struct {
	service *Service
	threads ThreadReader
}

func NewHandler(service *Service, threads ThreadReader) *Handler {
	return &Handler{service: service, threads: threads}
}

// ListAll returns the latest visible listings of every section
// @Summary Latest listings
// @Tags listings
// @Produce json
// @Param p query int false "Page number" default(1)
// @Success 200 {object} response.SuccessResponse{data=SectionPage}
// @Router /listings [get]
func (h *Handler) ListAll(c *gin.Context) {
	h.list(c, "")
}

// ListSection returns the handler for one section page
// @Summary Section listings
// @Description Visible listings of a section with the map markers of every located listing
// @Tags listings
// @Produce json
// @Param section path string true "Section" Enums(donations, skills, blogs)
// @Param p query int false "Page number" default(1)
// @Success 200 {object} response.SuccessResponse{data=SectionPage}
// @Router /listings/{section} [get]
func (h *Handler) ListSection(section string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.list(c, section)
	}
}

func (h *Handler) list(c *gin.Context, section string) {
	pageStr := c.Query("p")
	if pageStr == "" {
		pageStr = c.Query("page")
	}
	out, err := h.service.List(c.Request.Context(), section, pagination.ParsePage(pageStr))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, out)
}

// Create returns the posting handler of a section
// @Summary Post a listing
// @Description Multipart form with an "avatar" image. The listing stays pending until approved. The password and reactivation token are only returned here.
// @Tags listings
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param section path string true "Section" Enums(donations, skills)
// @Param title formData string true "Title"
// @Param description formData string true "Description"
// @Param tags formData string true "Tags as a JSON array or repeated values"
// @Param lat formData number false "Latitude (donations)"
// @Param lng formData number false "Longitude (donations)"
// @Param district formData string false "District (donations)"
// @Param illustrationQuery formData string false "Illustration keyword (skills)"
// @Param illustration formData string false "Illustration (skills)"
// @Param color formData string false "Hex color (skills)"
// @Param font formData string false "Font (skills)"
// @Param avatar formData file true "Listing image"
// @Success 201 {object} response.SuccessResponse{data=CreatedListing}
// @Failure 401 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Failure 429 {object} response.ErrorResponse
// @Failure 502 {object} response.ErrorResponse
// @Router /listings/{section} [post]
func (h *Handler) Create(section string) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := auth.FromContext(c)
		if !ok {
			response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
			return
		}

		if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			response.BadRequest(c, "Invalid form data", "INVALID_FORM")
			return
		}

		in := CreateInput{
			Section: section,
			Form:    c.Request.PostForm,
			Owner:   owner,
		}

		file, header, err := c.Request.FormFile("avatar")
		switch {
		case err == nil:
			defer file.Close()
			in.Image = &Image{Filename: header.Filename, Size: header.Size, Body: file}
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		default:
			response.BadRequest(c, "Invalid form data", "INVALID_FORM")
			return
		}

		created, err := h.service.Create(c.Request.Context(), in)
		if err != nil {
			handleError(c, err)
			return
		}
		response.Created(c, created)
	}
}

// GetByID returns a visible listing and, for signed in readers, their thread with the owner
// @Summary Get a listing
// @Tags listings
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} response.SuccessResponse{data=ListingDetail}
// @Failure 404 {object} response.ErrorResponse
// @Router /listings/id/{id} [get]
func (h *Handler) GetByID(c *gin.Context) {
	l, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	detail := ListingDetail{Listing: l.ToPublic(), Messages: []messages.View{}}
	if viewer, ok := auth.FromContext(c); ok && h.threads != nil {
		thread, err := h.threads.Thread(c.Request.Context(), l.ID.Hex(), viewer.Email, l.OwnerEmail)
		if err != nil {
			logger.Warn("thread for listing %s unavailable: %v", l.ID.Hex(), err)
		} else {
			detail.Messages = thread
		}
	}
	response.Success(c, detail)
}

// Search runs a free-text search
// @Summary Search listings
// @Tags listings
// @Accept json
// @Produce json
// @Param request body SearchRequest true "Query"
// @Success 200 {object} response.SuccessResponse{data=[]PublicListing}
// @Failure 422 {object} response.ErrorResponse
// @Router /listings/search [post]
func (h *Handler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	q, err := req.Validate()
	if err != nil {
		handleError(c, err)
		return
	}

	out, err := h.service.Search(c.Request.Context(), q)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, out)
}

// Geolocation finds listings around a point
// @Summary Search listings around a point
// @Tags listings
// @Accept json
// @Produce json
// @Param request body GeoQuery true "Point and section"
// @Success 200 {object} response.SuccessResponse{data=[]PublicListing}
// @Failure 422 {object} response.ErrorResponse
// @Router /listings/geolocation [post]
func (h *Handler) Geolocation(c *gin.Context) {
	var q GeoQuery
	if err := c.ShouldBind(&q); err != nil {
		response.BindJSONError(c, err)
		return
	}

	out, err := h.service.SearchGeo(c.Request.Context(), q)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, out)
}

// Deactivate hides a listing with its password
// @Summary Deactivate a listing
// @Tags moderation
// @Accept json
// @Produce json
// @Param request body DeactivateRequest true "Listing id and password"
// @Success 200 {object} response.SuccessResponse{data=PublicListing}
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /listings/deactivate [post]
func (h *Handler) Deactivate(c *gin.Context) {
	var req DeactivateRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}
	if err := validator.Struct(req); err != nil {
		handleError(c, err)
		return
	}

	l, err := h.service.Deactivate(c.Request.Context(), req.ID, req.Password)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Message(c, "Listing has been successfully deactivated. Users will not see it again", l.ToPublic())
}

// ReactivationPreview shows a deactivated listing behind its mailed link
// @Summary Preview a deactivated listing
// @Tags moderation
// @Produce json
// @Param token path string true "Reactivation token"
// @Param id path string true "Listing ID"
// @Success 200 {object} response.SuccessResponse{data=PublicListing}
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /listings/reactivate/{token}/{id} [get]
func (h *Handler) ReactivationPreview(c *gin.Context) {
	l, err := h.service.CheckReactivation(c.Request.Context(), c.Param("id"), c.Param("token"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Message(c, "You can enter your secret code to reactivate", l.ToPublic())
}

// Reactivate restores a deactivated listing
// @Summary Reactivate a listing
// @Tags moderation
// @Accept json
// @Produce json
// @Param request body ReactivateRequest true "Listing id with password or token"
// @Success 200 {object} response.SuccessResponse{data=PublicListing}
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /listings/reactivate [post]
func (h *Handler) Reactivate(c *gin.Context) {
	var req ReactivateRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}
	if err := validator.Struct(req); err != nil {
		handleError(c, err)
		return
	}

	l, err := h.service.Reactivate(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Message(c, "Listing has been successfully reactivated. Users can see it again", l.ToPublic())
}

// Check shows a listing in any state to moderators
// @Summary Moderator view of a listing
// @Tags moderation
// @Produce json
// @Security BearerAuth
// @Param id path string true "Listing ID"
// @Param token query string false "Moderation link token"
// @Success 200 {object} response.SuccessResponse{data=PublicListing}
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /listings/check/{id} [get]
func (h *Handler) Check(c *gin.Context) {
	l, err := h.service.Check(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, l.ToPublic())
}

// Approve publishes a pending listing
// @Summary Approve a listing
// @Tags moderation
// @Produce json
// @Security BearerAuth
// @Param id path string true "Listing ID"
// @Param token query string false "Moderation link token"
// @Success 200 {object} response.SuccessResponse{data=PublicListing}
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /listings/approve/{id} [post]
func (h *Handler) Approve(c *gin.Context) {
	l, err := h.service.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Message(c, "Listing has been successfully approved", l.ToPublic())
}

// Autocomplete suggests tags
// @Summary Tag suggestions
// @Tags listings
// @Produce json
// @Param keyword path string true "At least 3 characters"
// @Success 200 {object} response.SuccessResponse{data=[]string}
// @Failure 422 {object} response.ErrorResponse
// @Router /listings/autocomplete/{keyword} [get]
func (h *Handler) Autocomplete(c *gin.Context) {
	out, err := h.service.Autocomplete(c.Request.Context(), c.Param("keyword"))
	if err != nil {
		handleError(c, err)
		return
	}
	if out == nil {
		out = []string{}
	}
	response.Success(c, out)
}

// Tags lists the most used tags
// @Summary Popular tags
// @Tags listings
// @Produce json
// @Success 200 {object} response.SuccessResponse{data=[]TagCount}
// @Router /listings/tags [get]
func (h *Handler) Tags(c *gin.Context) {
	out, err := h.service.PopularTags(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, out)
}

// Mine lists the caller's listings in every state
// @Summary Your listings
// @Tags listings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.SuccessResponse{data=[]PublicListing}
// @Failure 401 {object} response.ErrorResponse
// @Router /listings/user [get]
func (h *Handler) Mine(c *gin.Context) {
	owner, ok := auth.FromContext(c)
	if !ok {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}

	out, err := h.service.ByOwner(c.Request.Context(), owner.Email)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, out)
}

func handleError(c *gin.Context, err error) {
	if fe, ok := validator.AsErrors(err); ok {
		response.ValidationFailed(c, "Invalid request", fe)
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		response.NotFound(c, "No listing found, it can be deactivated or not approved yet", "LISTING_NOT_FOUND")
	case errors.Is(err, ErrWrongPassword):
		response.Forbidden(c, "Wrong secret code", "WRONG_PASSWORD")
	case errors.Is(err, ErrInvalidToken):
		response.Forbidden(c, "Invalid reactivation link", "INVALID_TOKEN")
	case errors.Is(err, ErrAlreadyApproved):
		response.Conflict(c, "Listing already approved", "ALREADY_PROCESSED")
	case errors.Is(err, ErrAlreadyDeactivated):
		response.Conflict(c, "Listing already deactivated", "ALREADY_PROCESSED")
	case errors.Is(err, ErrAlreadyActive):
		response.Conflict(c, "Listing is already active", "ALREADY_PROCESSED")
	case errors.Is(err, apperrors.ErrConflict):
		response.Conflict(c, "Listing was modified, try again", "CONFLICT")
	case errors.Is(err, apperrors.ErrExternal):
		response.BadGateway(c, "Image could not be uploaded, try again later", "UPLOAD_FAILED")
	default:
		logger.Error("listings request failed: %v", err)
		response.InternalServerError(c, "Oops, an internal error occurred", "INTERNAL_ERROR")
	}
}
