package messages

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/xyz-asif/classifieds/internal/pkg/logger"
	"github.com/xyz-asif/classifieds/internal/pkg/mailer"
	"github.com/xyz-asif/classifieds/internal/pkg/metrics"
	apperrors "github.com/xyz-asif/classifieds/pkg/errors"
)

var ErrDelivery = fmt.Errorf("message delivery failed: %w", apperrors.ErrExternal)

// Store is the persistence the service needs; *Repository satisfies it
type Store interface {
	Insert(ctx context.Context, m *Message) error
	Thread(ctx context.Context, threadID, peerA, peerB string) ([]Message, error)
}

// ListingFinder resolves the owner of a visible listing
type ListingFinder interface {
	FindRecipient(ctx context.Context, listingID string) (*Recipient, error)
}

type Service struct {
	store    Store
	listings ListingFinder
	mail     mailer.Sender
	baseURL  string
	now      func() time.Time
}

func NewService(store Store, listings ListingFinder, mail mailer.Sender, baseURL string) *Service {
	return &Service{
		store:    store,
		listings: listings,
		mail:     mail,
		baseURL:  strings.TrimRight(baseURL, "/"),
		now:      time.Now,
	}
}

var contactTemplate = template.Must(template.New("contact").Parse(`<p>Someone answered your listing <a href="{{.Link}}">{{.Title}}</a>:</p>
<blockquote>{{.Message}}</blockquote>
<p>Reply to this email to get back to them.</p>
`))

// Contact mails a listing owner on behalf of sender and records the message.
// Nothing is stored unless the mail went out.
func (s *Service) Contact(ctx context.Context, sender, listingID string, req ContactRequest) (*Message, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	recipient, err := s.listings.FindRecipient(ctx, listingID)
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer
	err = contactTemplate.Execute(&body, map[string]string{
		"Title":   recipient.Title,
		"Link":    s.baseURL + "/listings/id/" + recipient.ListingID,
		"Message": req.Message,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render contact mail: %w", err)
	}

	err = s.mail.Send(ctx, mailer.Message{
		To:      recipient.Email,
		ReplyTo: sender,
		Subject: "About your listing: " + recipient.Title,
		Body:    body.String(),
	})
	metrics.MailSent("contact", err)
	if err != nil {
		logger.Error("contact mail for listing %s failed: %v", listingID, err)
		return nil, ErrDelivery
	}

	msg := &Message{
		From:   sender,
		To:     recipient.Email,
		Thread: recipient.ListingID,
		Body:   req.Message,
		Sent:   s.now().UTC(),
	}
	if err := s.store.Insert(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}
	return msg, nil
}

// Thread returns the viewer's conversation with the owner on a listing
func (s *Service) Thread(ctx context.Context, listingID, viewer, owner string) ([]View, error) {
	msgs, err := s.store.Thread(ctx, listingID, viewer, owner)
	if err != nil {
		return nil, err
	}
	views := make([]View, 0, len(msgs))
	for i := range msgs {
		views = append(views, msgs[i].ToView(viewer))
	}
	return views, nil
}
