package messages

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xyz-asif/classifieds/internal/pkg/mailer"
	"github.com/xyz-asif/classifieds/internal/pkg/validator"
	apperrors "github.com/xyz-asif/classifieds/pkg/errors"
)

const listingID = "65a1f0c2e4b0a1b2c3d4e5f6"

type memoryStore struct {
	msgs []Message
	err  error
}

func (s *memoryStore) Insert(_ context.Context, m *Message) error {
	if s.err != nil {
		return s.err
	}
	s.msgs = append(s.msgs, *m)
	return nil
}

func (s *memoryStore) Thread(_ context.Context, threadID, peerA, peerB string) ([]Message, error) {
	var out []Message
	for _, m := range s.msgs {
		if m.Thread != threadID {
			continue
		}
		if (m.From == peerA && m.To == peerB) || (m.From == peerB && m.To == peerA) {
			out = append(out, m)
		}
	}
	return out, nil
}

type stubFinder map[string]*Recipient

func (f stubFinder) FindRecipient(_ context.Context, id string) (*Recipient, error) {
	if r, ok := f[id]; ok {
		return r, nil
	}
	return nil, apperrors.ErrNotFound
}

type recordingMailer struct {
	sent []mailer.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg mailer.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func newService(store *memoryStore, mail *recordingMailer) *Service {
	finder := stubFinder{listingID: {ListingID: listingID, Title: "Wooden desk", Email: "owner@example.com"}}
	s := NewService(store, finder, mail, "http://localhost:8080/api/v1/")
	s.now = func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }
	return s
}

const body = "Hello, is the desk still available for pick up?"

func TestContact_SendsOneMailAndStoresOneMessage(t *testing.T) {
	store := &memoryStore{}
	mail := &recordingMailer{}
	s := newService(store, mail)

	msg, err := s.Contact(context.Background(), "buyer@example.com", listingID, ContactRequest{Message: "  " + body + " "})
	require.NoError(t, err)

	require.Len(t, mail.sent, 1)
	assert.Equal(t, "owner@example.com", mail.sent[0].To)
	assert.Equal(t, "buyer@example.com", mail.sent[0].ReplyTo)
	assert.Contains(t, mail.sent[0].Body, "http://localhost:8080/api/v1/listings/id/"+listingID)

	require.Len(t, store.msgs, 1)
	assert.Equal(t, listingID, store.msgs[0].Thread)
	assert.Equal(t, body, store.msgs[0].Body)
	assert.Equal(t, msg.Sent, store.msgs[0].Sent)
}

func TestContact_MailFailureStoresNothing(t *testing.T) {
	store := &memoryStore{}
	s := newService(store, &recordingMailer{err: errors.New("smtp: connection refused")})

	_, err := s.Contact(context.Background(), "buyer@example.com", listingID, ContactRequest{Message: body})
	assert.ErrorIs(t, err, ErrDelivery)
	assert.ErrorIs(t, err, apperrors.ErrExternal)
	assert.Empty(t, store.msgs)
}

func TestContact_ShortMessage(t *testing.T) {
	store := &memoryStore{}
	mail := &recordingMailer{}
	s := newService(store, mail)

	_, err := s.Contact(context.Background(), "buyer@example.com", listingID, ContactRequest{Message: "too short"})
	fe, ok := validator.AsErrors(err)
	require.True(t, ok)
	assert.Equal(t, "message", fe[0].Field)
	assert.Empty(t, mail.sent)
	assert.Empty(t, store.msgs)
}

func TestContact_UnknownListing(t *testing.T) {
	store := &memoryStore{}
	mail := &recordingMailer{}
	s := newService(store, mail)

	_, err := s.Contact(context.Background(), "buyer@example.com", "65a1f0c2e4b0a1b2c3d4e5ff", ContactRequest{Message: body})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Empty(t, mail.sent)
}

func TestThread_MasksPeers(t *testing.T) {
	store := &memoryStore{msgs: []Message{
		{From: "buyer@example.com", To: "owner@example.com", Thread: listingID, Body: "first"},
		{From: "owner@example.com", To: "buyer@example.com", Thread: listingID, Body: "second"},
		{From: "other@example.com", To: "owner@example.com", Thread: listingID, Body: "not yours"},
	}}
	s := newService(store, &recordingMailer{})

	views, err := s.Thread(context.Background(), listingID, "buyer@example.com", "owner@example.com")
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.True(t, views[0].Mine)
	assert.False(t, views[1].Mine)
	assert.Equal(t, "BU", views[0].From)
	assert.Equal(t, "OW", views[0].To)
}

func TestThreadFilter(t *testing.T) {
	f := threadFilter(listingID, "a@example.com", "b@example.com")
	assert.Len(t, f["$or"], 2)

	self := threadFilter(listingID, "a@example.com", "a@example.com")
	assert.Equal(t, listingID, self["thread"])
	assert.Len(t, self["$or"], 2)
}
