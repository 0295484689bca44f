package listings

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xyz-asif/classifieds/internal/features/auth"
	"github.com/xyz-asif/classifieds/internal/pkg/cache"
	"github.com/xyz-asif/classifieds/internal/pkg/cloudinary"
	"github.com/xyz-asif/classifieds/internal/pkg/mailer"
	"github.com/xyz-asif/classifieds/internal/pkg/validator"
	apperrors "github.com/xyz-asif/classifieds/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memoryStore keeps listings in insertion order
type memoryStore struct {
	mu        sync.Mutex
	items     []*Listing
	insertErr error
	pointHits int
}

func (s *memoryStore) Insert(_ context.Context, l *Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return s.insertErr
	}
	if l.ID.IsZero() {
		l.ID = primitive.NewObjectID()
	}
	cp := *l
	s.items = append(s.items, &cp)
	return nil
}

func (s *memoryStore) GetByID(_ context.Context, id primitive.ObjectID, bypass bool) (*Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.items {
		if l.ID == id && (bypass || l.Visible()) {
			cp := *l
			return &cp, nil
		}
	}
	return nil, ErrListingNotFound
}

func (s *memoryStore) visible(section string) []Listing {
	var out []Listing
	for i := len(s.items) - 1; i >= 0; i-- {
		l := s.items[i]
		if l.Visible() && (section == "" || l.Section == section) {
			out = append(out, *l)
		}
	}
	return out
}

func (s *memoryStore) ListSince(_ context.Context, section string, page, perPage int) ([]Listing, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.visible(section)
	start := (page - 1) * perPage
	if start > len(all) {
		start = len(all)
	}
	end := start + perPage
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], int64(len(all)), nil
}

func (s *memoryStore) Search(_ context.Context, q SearchQuery, limit int) ([]Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Listing
	for _, l := range s.visible(q.Section) {
		if strings.Contains(strings.ToLower(l.Title), strings.ToLower(q.Text)) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *memoryStore) SearchGeo(_ context.Context, lat, lng float64, section string, radiusKm float64, limit int) ([]Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible(section), nil
}

func (s *memoryStore) ListByOwner(_ context.Context, email string) ([]Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Listing
	for _, l := range s.items {
		if l.OwnerEmail == email {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (s *memoryStore) UpdateFlags(_ context.Context, id primitive.ObjectID, from, to Flags) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.items {
		if l.ID == id && l.Flags() == from {
			l.Approved, l.Deactivated = to.Approved, to.Deactivated
			return nil
		}
	}
	return ErrStateChanged
}

func (s *memoryStore) AddressPoints(_ context.Context, section string) ([]AddressPoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pointHits++
	points := []AddressPoint{}
	for _, l := range s.visible(section) {
		if l.Location != nil {
			points = append(points, AddressPoint{Lat: l.Location.Lat(), Lng: l.Location.Lng(), Title: l.Title, ID: l.ID.Hex()})
		}
	}
	return points, nil
}

func (s *memoryStore) PopularTags(context.Context, int) ([]TagCount, error) {
	return nil, nil
}

func (s *memoryStore) Autocomplete(_ context.Context, prefix string, _ int) ([]string, error) {
	return []string{prefix + "-match"}, nil
}

type fakeBlobs struct {
	uploads []string
	deleted []string
	err     error
}

func (b *fakeBlobs) UploadImage(_ context.Context, _ io.Reader, name string) (*cloudinary.UploadResult, error) {
	if b.err != nil {
		return nil, b.err
	}
	b.uploads = append(b.uploads, name)
	return &cloudinary.UploadResult{URL: "https://img.example.com/" + name, PublicID: "listings/" + name}, nil
}

func (b *fakeBlobs) Delete(ctx context.Context, publicID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.deleted = append(b.deleted, publicID)
	return nil
}

type recordingMailer struct {
	sent []mailer.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg mailer.Message) error {
	m.sent = append(m.sent, msg)
	return m.err
}

type recordingNotifier struct {
	events []interface{}
}

func (n *recordingNotifier) Broadcast(event interface{}) {
	n.events = append(n.events, event)
}

type fixture struct {
	service  *Service
	store    *memoryStore
	blobs    *fakeBlobs
	mail     *recordingMailer
	notifier *recordingNotifier
}

func newFixture() *fixture {
	f := &fixture{
		store:    &memoryStore{},
		blobs:    &fakeBlobs{},
		mail:     &recordingMailer{},
		notifier: &recordingNotifier{},
	}
	f.service = NewService(f.store, f.blobs, f.mail, cache.NewMemoryStore(), f.notifier, boxFence{}, Settings{
		BaseURL:            "https://classifieds.example.com/",
		AdminEmail:         "admin@example.com",
		AdminSecret:        "moderation-secret",
		ModerationTokenTTL: time.Hour,
		GeoRadiusKm:        10,
		GeoCacheTTL:        time.Minute,
	})
	f.service.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return f
}

var owner = &auth.Identity{UID: "u1", Email: "jane.doe@example.com", Name: "Jane Doe"}

func donationInput() CreateInput {
	return CreateInput{
		Section: SectionDonations,
		Form:    donationForm(),
		Image:   &Image{Filename: "desk.JPG", Size: 1024, Body: strings.NewReader("jpeg")},
		Owner:   owner,
	}
}

func (f *fixture) create(t *testing.T) *CreatedListing {
	t.Helper()
	created, err := f.service.Create(context.Background(), donationInput())
	require.NoError(t, err)
	return created
}

func (f *fixture) approve(t *testing.T, id string) {
	t.Helper()
	_, err := f.service.Approve(context.Background(), id)
	require.NoError(t, err)
}

func TestCreate_StoresPendingListing(t *testing.T) {
	f := newFixture()

	created := f.create(t)

	assert.Equal(t, StatusPending, created.Listing.Status)
	assert.Equal(t, "JD", created.Listing.Owner)
	assert.Len(t, created.Password, 8)
	require.Len(t, f.store.items, 1)

	stored := f.store.items[0]
	assert.Equal(t, created.Password, stored.Password)
	assert.Equal(t, ReactivationToken(created.Password, stored.ID), created.ReactivationToken)
	assert.Equal(t, owner.Email, stored.OwnerEmail)
	assert.Equal(t, "listings/"+f.blobs.uploads[0], stored.ImagePublicID)
	require.NotNil(t, stored.Location)
	assert.Equal(t, 10.18, stored.Location.Lng())

	_, err := f.service.Get(context.Background(), created.Listing.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "pending listings stay hidden")
}

func TestCreate_MailsModerationLinks(t *testing.T) {
	f := newFixture()
	created := f.create(t)

	require.Len(t, f.mail.sent, 1)
	msg := f.mail.sent[0]
	assert.Equal(t, "admin@example.com", msg.To)
	assert.Contains(t, msg.Body, "https://classifieds.example.com/listings/approve/"+created.Listing.ID+"?token=")
	assert.Contains(t, msg.Body, "https://classifieds.example.com/listings/check/"+created.Listing.ID+"?token=")
	assert.NotContains(t, msg.Body, created.Password)
}

func TestCreate_AdminMailFailureIsNotFatal(t *testing.T) {
	f := newFixture()
	f.mail.err = errors.New("smtp down")

	created, err := f.service.Create(context.Background(), donationInput())
	require.NoError(t, err)
	assert.NotEmpty(t, created.Listing.ID)
	assert.Len(t, f.store.items, 1)
}

func TestCreate_OutsideGeofence(t *testing.T) {
	f := newFixture()
	in := donationInput()
	in.Form.Set("lat", "48.85")
	in.Form.Set("lng", "2.35")

	_, err := f.service.Create(context.Background(), in)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Empty(t, f.store.items)
	assert.Empty(t, f.blobs.uploads)
}

func TestCreate_CollectsFormAndImageErrors(t *testing.T) {
	f := newFixture()
	in := donationInput()
	in.Form.Set("title", "")
	in.Image = &Image{Filename: "notes.pdf", Size: 10, Body: strings.NewReader("pdf")}

	_, err := f.service.Create(context.Background(), in)
	fe, ok := validator.AsErrors(err)
	require.True(t, ok)

	var fields []string
	for _, e := range fe {
		fields = append(fields, e.Field)
	}
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "avatar")
}

func TestCreate_RequiresImage(t *testing.T) {
	f := newFixture()
	in := donationInput()
	in.Image = nil

	_, err := f.service.Create(context.Background(), in)
	assert.Equal(t, []string{"avatar"}, fieldNames(t, err))
}

func TestCreate_UploadFailure(t *testing.T) {
	f := newFixture()
	f.blobs.err = errors.New("cloudinary unavailable")

	_, err := f.service.Create(context.Background(), donationInput())
	assert.ErrorIs(t, err, ErrUpload)
	assert.ErrorIs(t, err, apperrors.ErrExternal)
	assert.Empty(t, f.store.items)
	assert.Empty(t, f.mail.sent)
}

func TestCreate_InsertFailureRemovesImage(t *testing.T) {
	f := newFixture()
	f.store.insertErr = errors.New("mongo down")

	_, err := f.service.Create(context.Background(), donationInput())
	require.Error(t, err)
	require.Len(t, f.blobs.uploads, 1)
	assert.Equal(t, []string{"listings/" + f.blobs.uploads[0]}, f.blobs.deleted)
	assert.Empty(t, f.mail.sent)
}

func TestCreate_CancelledRequestStillRemovesImage(t *testing.T) {
	f := newFixture()
	f.store.insertErr = context.Canceled
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.service.Create(ctx, donationInput())
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, f.blobs.uploads, 1)
	assert.Equal(t, []string{"listings/" + f.blobs.uploads[0]}, f.blobs.deleted)
}

func TestCreate_TitleKeptOnOneLine(t *testing.T) {
	f := newFixture()
	in := donationInput()
	in.Form.Set("title", "Wooden desk\r\nin good shape")

	created, err := f.service.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "Wooden desk in good shape", created.Listing.Title)
	assert.Equal(t, "Wooden desk in good shape", f.store.items[0].Title)
}

func TestCreate_Skill(t *testing.T) {
	f := newFixture()
	in := CreateInput{
		Section: SectionSkills,
		Form: map[string][]string{
			"title":             {"Guitar lessons for beginners"},
			"description":       {"I teach guitar on weekends, contact me."},
			"tags":              {"music", "guitar"},
			"illustrationQuery": {"guitar"},
			"undraw":            {"teaching#ff6584"},
			"font":              {Fonts[0]},
		},
		Image: &Image{Filename: "guitar.png", Size: 2048, Body: strings.NewReader("png")},
		Owner: owner,
	}

	created, err := f.service.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, SectionSkills, created.Listing.Section)
	assert.Equal(t, "ff6584", created.Listing.Color)
	assert.Nil(t, created.Listing.Lat)
}

func TestCreate_UnknownSection(t *testing.T) {
	f := newFixture()
	in := donationInput()
	in.Section = SectionBlogs

	_, err := f.service.Create(context.Background(), in)
	assert.Contains(t, fieldNames(t, err), "section")
}

func TestApprove(t *testing.T) {
	f := newFixture()
	created := f.create(t)

	l, err := f.service.Approve(context.Background(), created.Listing.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, l.Status())

	_, err = f.service.Approve(context.Background(), created.Listing.ID)
	assert.ErrorIs(t, err, ErrAlreadyApproved)

	got, err := f.service.Get(context.Background(), created.Listing.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Listing.ID, got.ID.Hex())
}

func TestApprove_UnknownID(t *testing.T) {
	f := newFixture()

	_, err := f.service.Approve(context.Background(), "not-an-id")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.service.Approve(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeactivate(t *testing.T) {
	f := newFixture()
	created := f.create(t)
	f.approve(t, created.Listing.ID)
	f.mail.sent = nil

	_, err := f.service.Deactivate(context.Background(), created.Listing.ID, "wrongpw1")
	assert.ErrorIs(t, err, ErrWrongPassword)
	assert.Empty(t, f.notifier.events)

	l, err := f.service.Deactivate(context.Background(), created.Listing.ID, created.Password)
	require.NoError(t, err)
	assert.Equal(t, StatusDeactivated, l.Status())
	assert.True(t, l.Approved, "approval survives deactivation")

	assert.Equal(t, []interface{}{DeactivatedEvent{Type: "listing.deactivated", ID: created.Listing.ID}}, f.notifier.events)

	require.Len(t, f.mail.sent, 1)
	assert.Equal(t, owner.Email, f.mail.sent[0].To)
	assert.Contains(t, f.mail.sent[0].Body,
		fmt.Sprintf("https://classifieds.example.com/listings/reactivate/%s/%s", created.ReactivationToken, created.Listing.ID))

	_, err = f.service.Get(context.Background(), created.Listing.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.service.Deactivate(context.Background(), created.Listing.ID, created.Password)
	assert.ErrorIs(t, err, ErrAlreadyDeactivated)
}

func TestReactivate(t *testing.T) {
	ctx := context.Background()

	t.Run("with password", func(t *testing.T) {
		f := newFixture()
		created := f.create(t)
		f.approve(t, created.Listing.ID)
		_, err := f.service.Deactivate(ctx, created.Listing.ID, created.Password)
		require.NoError(t, err)

		_, err = f.service.Reactivate(ctx, ReactivateRequest{ID: created.Listing.ID, Password: "wrongpw1"})
		assert.ErrorIs(t, err, ErrWrongPassword)

		l, err := f.service.Reactivate(ctx, ReactivateRequest{ID: created.Listing.ID, Password: created.Password})
		require.NoError(t, err)
		assert.Equal(t, StatusApproved, l.Status())

		_, err = f.service.Get(ctx, created.Listing.ID)
		assert.NoError(t, err)
	})

	t.Run("with token", func(t *testing.T) {
		f := newFixture()
		created := f.create(t)
		_, err := f.service.Deactivate(ctx, created.Listing.ID, created.Password)
		require.NoError(t, err)

		_, err = f.service.CheckReactivation(ctx, created.Listing.ID, strings.Repeat("0", 64))
		assert.ErrorIs(t, err, ErrInvalidToken)

		preview, err := f.service.CheckReactivation(ctx, created.Listing.ID, created.ReactivationToken)
		require.NoError(t, err)
		assert.True(t, preview.Deactivated)

		l, err := f.service.Reactivate(ctx, ReactivateRequest{ID: created.Listing.ID, Token: created.ReactivationToken})
		require.NoError(t, err)
		assert.Equal(t, StatusPending, l.Status(), "never approved listings go back to review")

		_, err = f.service.CheckReactivation(ctx, created.Listing.ID, created.ReactivationToken)
		assert.ErrorIs(t, err, ErrAlreadyActive)

		_, err = f.service.Reactivate(ctx, ReactivateRequest{ID: created.Listing.ID, Token: created.ReactivationToken})
		assert.ErrorIs(t, err, ErrAlreadyActive)
	})
}

func TestDeactivateReactivate_OnlyFlagsChange(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	created := f.create(t)
	f.approve(t, created.Listing.ID)
	before := *f.store.items[0]

	_, err := f.service.Deactivate(ctx, created.Listing.ID, created.Password)
	require.NoError(t, err)
	l, err := f.service.Reactivate(ctx, ReactivateRequest{ID: created.Listing.ID, Password: created.Password})
	require.NoError(t, err)

	after := *f.store.items[0]
	assert.Equal(t, before.Flags(), after.Flags())
	before.Approved, before.Deactivated = false, false
	after.Approved, after.Deactivated = false, false
	assert.Equal(t, before, after)

	returned := *l
	returned.Approved, returned.Deactivated = false, false
	assert.Equal(t, before, returned)
}

func TestList_PageSizeCapped(t *testing.T) {
	f := newFixture()
	for i := 0; i < 60; i++ {
		f.store.items = append(f.store.items, &Listing{ID: primitive.NewObjectID(), Section: SectionDonations, Approved: true})
	}
	svc := NewService(f.store, f.blobs, f.mail, cache.NewMemoryStore(), f.notifier, boxFence{}, Settings{PageSize: 100})

	page, err := svc.List(context.Background(), SectionDonations, 1)
	require.NoError(t, err)
	assert.Equal(t, 50, page.Limit)
	assert.Len(t, page.Listings, 50)
	assert.Equal(t, 2, page.Pages)
}

func TestList_Pagination(t *testing.T) {
	f := newFixture()
	for i := 0; i < 25; i++ {
		created := f.create(t)
		f.approve(t, created.Listing.ID)
	}

	page, err := f.service.List(context.Background(), SectionDonations, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(25), page.Total)
	assert.Equal(t, 3, page.Pages)
	assert.Equal(t, 9, page.Limit)
	assert.Len(t, page.Listings, 7)
	assert.Len(t, page.AddressPoints, 25)
	assert.Equal(t, Intro(SectionDonations), page.Intro)

	all, err := f.service.List(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, all.Page)
	assert.Len(t, all.Listings, 9)
	assert.Empty(t, all.AddressPoints)
}

func TestList_Empty(t *testing.T) {
	f := newFixture()

	page, err := f.service.List(context.Background(), SectionSkills, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, page.Pages)
	assert.NotNil(t, page.Listings)
	assert.NotNil(t, page.AddressPoints)
}

func TestAddressPoints_CachedUntilTransition(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	first := f.create(t)
	f.approve(t, first.Listing.ID)

	points, err := f.service.AddressPoints(ctx, SectionDonations)
	require.NoError(t, err)
	assert.Len(t, points, 1)

	_, err = f.service.AddressPoints(ctx, SectionDonations)
	require.NoError(t, err)
	assert.Equal(t, 1, f.store.pointHits, "second read served from cache")

	second := f.create(t)
	f.approve(t, second.Listing.ID)

	points, err = f.service.AddressPoints(ctx, SectionDonations)
	require.NoError(t, err)
	assert.Len(t, points, 2)
	assert.Equal(t, 2, f.store.pointHits)
}

func TestSearchGeo_Validates(t *testing.T) {
	f := newFixture()

	_, err := f.service.SearchGeo(context.Background(), GeoQuery{Section: SectionDonations})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	lat, lng := 36.8, 10.18
	out, err := f.service.SearchGeo(context.Background(), GeoQuery{Lat: &lat, Lng: &lng, Section: SectionDonations})
	require.NoError(t, err)
	assert.NotNil(t, out)
}

func TestByOwner_IncludesEveryState(t *testing.T) {
	f := newFixture()
	f.create(t)
	approved := f.create(t)
	f.approve(t, approved.Listing.ID)

	out, err := f.service.ByOwner(context.Background(), owner.Email)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, StatusPending, out[0].Status)
	assert.Equal(t, StatusApproved, out[1].Status)
}

func TestAutocomplete(t *testing.T) {
	f := newFixture()

	_, err := f.service.Autocomplete(context.Background(), " de ")
	assert.Equal(t, []string{"keyword"}, fieldNames(t, err))

	out, err := f.service.Autocomplete(context.Background(), "desk")
	require.NoError(t, err)
	assert.Equal(t, []string{"desk-match"}, out)
}

func TestPopularTags_NeverNil(t *testing.T) {
	f := newFixture()

	tags, err := f.service.PopularTags(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, tags)
}

func TestFindRecipient(t *testing.T) {
	f := newFixture()
	created := f.create(t)

	_, err := f.service.FindRecipient(context.Background(), created.Listing.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	f.approve(t, created.Listing.ID)
	r, err := f.service.FindRecipient(context.Background(), created.Listing.ID)
	require.NoError(t, err)
	assert.Equal(t, owner.Email, r.Email)
	assert.Equal(t, created.Listing.ID, r.ListingID)
}
