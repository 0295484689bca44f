package messages

import (
	"time"

	"github.com/xyz-asif/classifieds/internal/pkg/content"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is one note sent to a listing owner. Thread is the listing id.
type Message struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	From   string             `bson:"from" json:"-"`
	To     string             `bson:"to" json:"-"`
	Thread string             `bson:"thread" json:"thread"`
	Body   string             `bson:"message" json:"message"`
	Sent   time.Time          `bson:"sent" json:"sent"`
}

// View is a message as shown to one participant; peers appear as initials
type View struct {
	ID      string    `json:"id"`
	From    string    `json:"from" example:"JD"`
	To      string    `json:"to" example:"BO"`
	Thread  string    `json:"thread"`
	Message string    `json:"message"`
	Sent    time.Time `json:"sent"`
	Mine    bool      `json:"mine"`
}

func (m *Message) ToView(viewer string) View {
	return View{
		ID:      m.ID.Hex(),
		From:    content.Initials(m.From),
		To:      content.Initials(m.To),
		Thread:  m.Thread,
		Message: m.Body,
		Sent:    m.Sent,
		Mine:    m.From == viewer,
	}
}

// Recipient is the listing owner a contact message is delivered to
type Recipient struct {
	ListingID string
	Title     string
	Email     string
}
