package listings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"strings"
	"time"

	"github.com/xyz-asif/classifieds/internal/features/auth"
	"github.com/xyz-asif/classifieds/internal/features/messages"
	"github.com/xyz-asif/classifieds/internal/pkg/cache"
	"github.com/xyz-asif/classifieds/internal/pkg/cloudinary"
	"github.com/xyz-asif/classifieds/internal/pkg/content"
	"github.com/xyz-asif/classifieds/internal/pkg/logger"
	"github.com/xyz-asif/classifieds/internal/pkg/mailer"
	"github.com/xyz-asif/classifieds/internal/pkg/metrics"
	"github.com/xyz-asif/classifieds/internal/pkg/pagination"
	"github.com/xyz-asif/classifieds/internal/pkg/token"
	"github.com/xyz-asif/classifieds/internal/pkg/validator"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	searchLimit       = 100
	autocompleteLimit = 10
	popularTagsLimit  = 50
	minKeywordLength  = 3
)

// Store is the persistence the service needs; *Repository satisfies it
type Store interface {
	Insert(ctx context.Context, l *Listing) error
	GetByID(ctx context.Context, id primitive.ObjectID, bypass bool) (*Listing, error)
	ListSince(ctx context.Context, section string, page, perPage int) ([]Listing, int64, error)
	Search(ctx context.Context, q SearchQuery, limit int) ([]Listing, error)
	SearchGeo(ctx context.Context, lat, lng float64, section string, radiusKm float64, limit int) ([]Listing, error)
	ListByOwner(ctx context.Context, email string) ([]Listing, error)
	UpdateFlags(ctx context.Context, id primitive.ObjectID, from, to Flags) error
	AddressPoints(ctx context.Context, section string) ([]AddressPoint, error)
	PopularTags(ctx context.Context, limit int) ([]TagCount, error)
	Autocomplete(ctx context.Context, prefix string, limit int) ([]string, error)
}

// BlobStore keeps listing images; *cloudinary.Service satisfies it
type BlobStore interface {
	UploadImage(ctx context.Context, file io.Reader, name string) (*cloudinary.UploadResult, error)
	Delete(ctx context.Context, publicID string) error
}

// Notifier pushes events to live subscribers; *broadcast.Hub satisfies it
type Notifier interface {
	Broadcast(event interface{})
}

// DeactivatedEvent is broadcast whenever a listing goes offline
type DeactivatedEvent struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Settings carries the tunables of the service
type Settings struct {
	BaseURL            string
	AdminEmail         string
	AdminSecret        string
	ModerationTokenTTL time.Duration
	GeoRadiusKm        float64
	GeoCacheTTL        time.Duration
	PageSize           int
}

// Image is an uploaded listing picture
type Image struct {
	Filename string
	Size     int64
	Body     io.Reader
}

// CreateInput is one posting attempt
type CreateInput struct {
	Section string
	Form    url.Values
	Image   *Image
	Owner   *auth.Identity
}

type Service struct {
	store    Store
	blobs    BlobStore
	mail     mailer.Sender
	points   cache.Store
	notifier Notifier
	fence    Geofence
	settings Settings
	now      func() time.Time
}

func NewService(store Store, blobs BlobStore, mail mailer.Sender, points cache.Store, notifier Notifier, fence Geofence, settings Settings) *Service {
	settings.PageSize = pagination.ClampLimit(settings.PageSize, 9)
	return &Service{
		store:    store,
		blobs:    blobs,
		mail:     mail,
		points:   points,
		notifier: notifier,
		fence:    fence,
		settings: settings,
		now:      time.Now,
	}
}

// Create validates, cleans and stores a new pending listing. The image is
// uploaded before the insert; a failed insert removes the uploaded image.
func (s *Service) Create(ctx context.Context, in CreateInput) (*CreatedListing, error) {
	listing, err := s.buildListing(in)
	if err != nil {
		return nil, err
	}

	password, err := GeneratePassword()
	if err != nil {
		return nil, err
	}
	listing.Password = password

	name := content.ImageName(in.Image.Filename, s.now())
	uploaded, err := s.blobs.UploadImage(ctx, in.Image.Body, name)
	if err != nil {
		logger.Error("listing image upload failed: %v", err)
		return nil, ErrUpload
	}
	listing.ImageURL = uploaded.URL
	listing.ImagePublicID = uploaded.PublicID

	if err := s.store.Insert(ctx, listing); err != nil {
		// cleanup must outlive a cancelled request
		if derr := s.blobs.Delete(context.WithoutCancel(ctx), uploaded.PublicID); derr != nil {
			logger.Warn("orphaned listing image %s: %v", uploaded.PublicID, derr)
		}
		return nil, fmt.Errorf("failed to insert listing: %w", err)
	}
	metrics.ListingCreated(listing.Section)

	s.notifyAdmin(ctx, listing)

	return &CreatedListing{
		Listing:           listing.ToPublic(),
		Password:          password,
		ReactivationToken: ReactivationToken(password, listing.ID),
	}, nil
}

func (s *Service) buildListing(in CreateInput) (*Listing, error) {
	var errs validator.Errors
	l := &Listing{
		Section:   in.Section,
		CreatedAt: s.now().UTC(),
	}

	switch in.Section {
	case SectionDonations:
		post, err := ParseDonation(in.Form, s.fence)
		if err != nil {
			fe, ok := validator.AsErrors(err)
			if !ok {
				return nil, err
			}
			errs = append(errs, fe...)
		} else {
			l.Title, l.Description, l.Tags = post.Title, post.Description, post.Tags
			l.District, l.TagsLang = post.District, post.TagsLang
			if post.Lat != nil {
				l.Location = NewGeoPoint(*post.Lat, *post.Lng)
			}
		}
	case SectionSkills:
		post, err := ParseSkill(in.Form)
		if err != nil {
			fe, ok := validator.AsErrors(err)
			if !ok {
				return nil, err
			}
			errs = append(errs, fe...)
		} else {
			l.Title, l.Description, l.Tags = post.Title, post.Description, post.Tags
			l.Illustration, l.Color, l.Font = post.Illustration, post.Color, post.Font
		}
	default:
		errs.Add("section", "oneof", "section must be one of: donations, skills")
	}

	switch {
	case in.Image == nil || in.Image.Body == nil:
		errs.Add("avatar", "required", "avatar is required")
	default:
		if err := cloudinary.ValidateImageFile(&multipart.FileHeader{Filename: in.Image.Filename, Size: in.Image.Size}); err != nil {
			errs.Add("avatar", "image", err.Error())
		}
	}

	if in.Owner == nil || in.Owner.Email == "" {
		return nil, fmt.Errorf("listing owner is required")
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}

	l.Title = content.Sanitize(l.Title)
	l.Description = content.Prepare(l.Description)
	l.Arabic = content.IsArabic(l.Description)
	l.OwnerEmail = in.Owner.Email
	l.OwnerProfile = OwnerProfile{UID: in.Owner.UID, Name: in.Owner.Name, Picture: in.Owner.Picture}
	return l, nil
}

// Get returns a visible listing
func (s *Service) Get(ctx context.Context, id string) (*Listing, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.store.GetByID(ctx, oid, false)
}

// Check returns a listing in any state for moderators
func (s *Service) Check(ctx context.Context, id string) (*Listing, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.store.GetByID(ctx, oid, true)
}

// FindRecipient exposes the owner of a visible listing to the messaging bridge
func (s *Service) FindRecipient(ctx context.Context, listingID string) (*messages.Recipient, error) {
	l, err := s.Get(ctx, listingID)
	if err != nil {
		return nil, err
	}
	return &messages.Recipient{ListingID: l.ID.Hex(), Title: l.Title, Email: l.OwnerEmail}, nil
}

// Approve publishes a pending listing
func (s *Service) Approve(ctx context.Context, id string) (*Listing, error) {
	l, err := s.Check(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.transition(ctx, l, approveTransition); err != nil {
		return nil, err
	}
	metrics.Transition("approve")
	return l, nil
}

// Deactivate hides a listing when password matches, broadcasts the event and
// mails the owner a reactivation link
func (s *Service) Deactivate(ctx context.Context, id, password string) (*Listing, error) {
	l, err := s.Check(ctx, id)
	if err != nil {
		return nil, err
	}
	if !l.CheckPassword(password) {
		return nil, ErrWrongPassword
	}
	if err := s.transition(ctx, l, deactivateTransition); err != nil {
		return nil, err
	}
	metrics.Transition("deactivate")

	if s.notifier != nil {
		s.notifier.Broadcast(DeactivatedEvent{Type: "listing.deactivated", ID: l.ID.Hex()})
	}
	s.notifyOwnerDeactivated(ctx, l)
	return l, nil
}

// CheckReactivation previews a deactivated listing behind its reactivation link
func (s *Service) CheckReactivation(ctx context.Context, id, tok string) (*Listing, error) {
	l, err := s.Check(ctx, id)
	if err != nil {
		return nil, err
	}
	if !l.CheckReactivationToken(tok) {
		return nil, ErrInvalidToken
	}
	if !l.Deactivated {
		return nil, ErrAlreadyActive
	}
	return l, nil
}

// Reactivate brings a deactivated listing back with its password or the
// reactivation token; approval is left as it was before deactivation
func (s *Service) Reactivate(ctx context.Context, req ReactivateRequest) (*Listing, error) {
	l, err := s.Check(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	switch {
	case req.Password != "":
		if !l.CheckPassword(req.Password) {
			return nil, ErrWrongPassword
		}
	case !l.CheckReactivationToken(req.Token):
		return nil, ErrInvalidToken
	}

	if err := s.transition(ctx, l, reactivateTransition); err != nil {
		return nil, err
	}
	metrics.Transition("reactivate")
	return l, nil
}

func (s *Service) transition(ctx context.Context, l *Listing, step func(Flags) (Flags, error)) error {
	from := l.Flags()
	to, err := step(from)
	if err != nil {
		return err
	}
	if err := s.store.UpdateFlags(ctx, l.ID, from, to); err != nil {
		return err
	}
	l.Approved, l.Deactivated = to.Approved, to.Deactivated
	s.invalidatePoints(ctx, l.Section)
	return nil
}

// List returns one page of a section (or of every section when empty)
func (s *Service) List(ctx context.Context, section string, page int) (*SectionPage, error) {
	limit := s.settings.PageSize
	if page < 1 {
		page = 1
	}

	items, total, err := s.store.ListSince(ctx, section, page, limit)
	if err != nil {
		return nil, err
	}

	out := &SectionPage{
		Section:       section,
		Intro:         Intro(section),
		Listings:      ToPublicList(items),
		AddressPoints: []AddressPoint{},
		Total:         total,
		Page:          page,
		Limit:         limit,
		Pages:         pagination.New(page, limit, total).Pages,
	}

	if section != "" {
		points, err := s.AddressPoints(ctx, section)
		if err != nil {
			logger.Warn("address points for %s unavailable: %v", section, err)
		} else {
			out.AddressPoints = points
		}
	}
	return out, nil
}

// AddressPoints serves the section markers from cache, loading them on a miss
func (s *Service) AddressPoints(ctx context.Context, section string) ([]AddressPoint, error) {
	key := pointsKey(section)
	if s.points != nil {
		raw, ok, err := s.points.Get(ctx, key)
		if err != nil {
			logger.Warn("address point cache read failed: %v", err)
		}
		if ok {
			var points []AddressPoint
			if err := json.Unmarshal(raw, &points); err == nil {
				return points, nil
			}
		}
	}

	points, err := s.store.AddressPoints(ctx, section)
	if err != nil {
		return nil, err
	}

	if s.points != nil {
		if raw, err := json.Marshal(points); err == nil {
			if err := s.points.Set(ctx, key, raw, s.settings.GeoCacheTTL); err != nil {
				logger.Warn("address point cache write failed: %v", err)
			}
		}
	}
	return points, nil
}

func (s *Service) invalidatePoints(ctx context.Context, section string) {
	if s.points == nil {
		return
	}
	if err := s.points.Delete(ctx, pointsKey(section)); err != nil {
		logger.Warn("address point cache invalidation failed: %v", err)
	}
}

func pointsKey(section string) string {
	return "points:" + section
}

// Search runs a validated text search
func (s *Service) Search(ctx context.Context, q SearchQuery) ([]PublicListing, error) {
	items, err := s.store.Search(ctx, q, searchLimit)
	if err != nil {
		return nil, err
	}
	return ToPublicList(items), nil
}

// SearchGeo finds listings around a point within the configured radius
func (s *Service) SearchGeo(ctx context.Context, q GeoQuery) ([]PublicListing, error) {
	if err := validator.Struct(q); err != nil {
		return nil, err
	}
	items, err := s.store.SearchGeo(ctx, *q.Lat, *q.Lng, q.Section, s.settings.GeoRadiusKm, searchLimit)
	if err != nil {
		return nil, err
	}
	return ToPublicList(items), nil
}

// ByOwner lists every listing of the caller including pending and deactivated ones
func (s *Service) ByOwner(ctx context.Context, email string) ([]PublicListing, error) {
	items, err := s.store.ListByOwner(ctx, email)
	if err != nil {
		return nil, err
	}
	return ToPublicList(items), nil
}

// Autocomplete suggests tags for a keyword of at least three characters
func (s *Service) Autocomplete(ctx context.Context, keyword string) ([]string, error) {
	keyword = strings.TrimSpace(keyword)
	if len([]rune(keyword)) < minKeywordLength {
		var errs validator.Errors
		errs.Add("keyword", "min", fmt.Sprintf("keyword must be at least %d characters", minKeywordLength))
		return nil, errs
	}
	return s.store.Autocomplete(ctx, keyword, autocompleteLimit)
}

// PopularTags returns the most used tags of visible listings
func (s *Service) PopularTags(ctx context.Context) ([]TagCount, error) {
	tags, err := s.store.PopularTags(ctx, popularTagsLimit)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []TagCount{}
	}
	return tags, nil
}

func (s *Service) notifyAdmin(ctx context.Context, l *Listing) {
	if s.mail == nil || s.settings.AdminEmail == "" {
		return
	}

	links, err := s.moderationLinks(l.ID.Hex())
	if err != nil {
		logger.Error("failed to issue moderation links: %v", err)
		return
	}

	var body bytes.Buffer
	if err := adminMailTemplate.Execute(&body, adminMailData{Listing: l.ToPublic(), Links: links}); err != nil {
		logger.Error("failed to render admin mail: %v", err)
		return
	}

	err = s.mail.Send(ctx, mailer.Message{
		To:      s.settings.AdminEmail,
		Subject: "New listing to review: " + l.ID.Hex(),
		Body:    body.String(),
	})
	metrics.MailSent("admin", err)
	if err != nil {
		logger.Error("failed to notify admin about listing %s: %v", l.ID.Hex(), err)
	}
}

func (s *Service) notifyOwnerDeactivated(ctx context.Context, l *Listing) {
	if s.mail == nil || l.OwnerEmail == "" {
		return
	}

	link := fmt.Sprintf("%s/listings/reactivate/%s/%s",
		strings.TrimRight(s.settings.BaseURL, "/"), ReactivationToken(l.Password, l.ID), l.ID.Hex())

	var body bytes.Buffer
	if err := deactivatedMailTemplate.Execute(&body, deactivatedMailData{Title: l.Title, Link: link}); err != nil {
		logger.Error("failed to render deactivation mail: %v", err)
		return
	}

	err := s.mail.Send(ctx, mailer.Message{
		To:      l.OwnerEmail,
		Subject: "Your listing has been deactivated",
		Body:    body.String(),
	})
	metrics.MailSent("deactivated", err)
	if err != nil {
		logger.Warn("failed to mail reactivation link for %s: %v", l.ID.Hex(), err)
	}
}

func (s *Service) moderationLinks(id string) (moderationLinks, error) {
	base := strings.TrimRight(s.settings.BaseURL, "/") + "/listings"

	approve, err := token.IssueModerationToken(s.settings.AdminSecret, id, token.ActionApprove, s.settings.ModerationTokenTTL)
	if err != nil {
		return moderationLinks{}, err
	}
	check, err := token.IssueModerationToken(s.settings.AdminSecret, id, token.ActionCheck, s.settings.ModerationTokenTTL)
	if err != nil {
		return moderationLinks{}, err
	}

	return moderationLinks{
		Approve: fmt.Sprintf("%s/approve/%s?token=%s", base, id, url.QueryEscape(approve)),
		Check:   fmt.Sprintf("%s/check/%s?token=%s", base, id, url.QueryEscape(check)),
	}, nil
}

func parseID(id string) (primitive.ObjectID, error) {
	if !validator.IsObjectID(id) {
		return primitive.NilObjectID, ErrListingNotFound
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrListingNotFound
	}
	return oid, nil
}
