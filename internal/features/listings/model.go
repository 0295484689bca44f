package listings

import (
	"time"

	"github.com/xyz-asif/classifieds/internal/pkg/content"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Section constants
const (
	SectionDonations = "donations"
	SectionSkills    = "skills"
	SectionBlogs     = "blogs"
)

// Sections lists every browsable section in menu order
var Sections = []string{SectionDonations, SectionSkills, SectionBlogs}

var intros = map[string]string{
	"":               "Classified advertising brought to the web",
	SectionDonations: "Share or look for used items nextdoor",
	SectionSkills:    "Share skills",
	SectionBlogs:     "Creative passions, hobbies and passtimes!",
}

// Intro returns the headline shown above a section listing
func Intro(section string) string {
	return intros[section]
}

// GeoPoint is a GeoJSON point; coordinates are [lng, lat]
type GeoPoint struct {
	Type        string     `bson:"type" json:"type"`
	Coordinates [2]float64 `bson:"coordinates" json:"coordinates"`
}

// NewGeoPoint builds a point from latitude and longitude
func NewGeoPoint(lat, lng float64) *GeoPoint {
	return &GeoPoint{Type: "Point", Coordinates: [2]float64{lng, lat}}
}

func (p *GeoPoint) Lat() float64 { return p.Coordinates[1] }
func (p *GeoPoint) Lng() float64 { return p.Coordinates[0] }

// OwnerProfile is the identity snapshot taken when the listing is posted
type OwnerProfile struct {
	UID     string `bson:"uid" json:"uid"`
	Name    string `bson:"name,omitempty" json:"name,omitempty"`
	Picture string `bson:"picture,omitempty" json:"picture,omitempty"`
}

// Listing is a classified ad in one of the sections
type Listing struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Section       string             `bson:"section" json:"section"`
	Title         string             `bson:"title" json:"title"`
	Description   string             `bson:"description" json:"description"`
	Tags          []string           `bson:"tags" json:"tags"`
	TagsLang      string             `bson:"tagsLang,omitempty" json:"tagsLang,omitempty"`
	Location      *GeoPoint          `bson:"location,omitempty" json:"location,omitempty"`
	District      string             `bson:"district,omitempty" json:"district,omitempty"`
	Illustration  string             `bson:"illustration,omitempty" json:"illustration,omitempty"`
	Color         string             `bson:"color,omitempty" json:"color,omitempty"`
	Font          string             `bson:"font,omitempty" json:"font,omitempty"`
	ImageURL      string             `bson:"imageUrl" json:"imageUrl"`
	ImagePublicID string             `bson:"imagePublicId" json:"-"`
	OwnerEmail    string             `bson:"ownerEmail" json:"-"`
	OwnerProfile  OwnerProfile       `bson:"ownerProfile" json:"-"`
	Password      string             `bson:"password" json:"-"`
	Approved      bool               `bson:"approved" json:"approved"`
	Deactivated   bool               `bson:"deactivated" json:"deactivated"`
	Arabic        bool               `bson:"arabic" json:"arabic"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// PublicListing is what anonymous readers see. The owner is reduced to initials.
type PublicListing struct {
	ID           string    `json:"id" example:"65a1f0c2e4b0a1b2c3d4e5f6"`
	Section      string    `json:"section" example:"donations"`
	Title        string    `json:"title" example:"Wooden desk in good shape"`
	Description  string    `json:"description"`
	Tags         []string  `json:"tags"`
	TagsLang     string    `json:"tagsLang,omitempty"`
	Lat          *float64  `json:"lat,omitempty"`
	Lng          *float64  `json:"lng,omitempty"`
	District     string    `json:"district,omitempty"`
	Illustration string    `json:"illustration,omitempty"`
	Color        string    `json:"color,omitempty"`
	Font         string    `json:"font,omitempty"`
	ImageURL     string    `json:"imageUrl"`
	Owner        string    `json:"owner" example:"JD"`
	Arabic       bool      `json:"arabic"`
	Status       string    `json:"status" example:"approved"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ToPublic strips every owner secret from the listing
func (l *Listing) ToPublic() PublicListing {
	p := PublicListing{
		ID:           l.ID.Hex(),
		Section:      l.Section,
		Title:        l.Title,
		Description:  l.Description,
		Tags:         l.Tags,
		TagsLang:     l.TagsLang,
		District:     l.District,
		Illustration: l.Illustration,
		Color:        l.Color,
		Font:         l.Font,
		ImageURL:     l.ImageURL,
		Owner:        content.Initials(l.OwnerEmail),
		Arabic:       l.Arabic,
		Status:       l.Status(),
		CreatedAt:    l.CreatedAt,
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if l.Location != nil {
		lat, lng := l.Location.Lat(), l.Location.Lng()
		p.Lat, p.Lng = &lat, &lng
	}
	return p
}

// ToPublicList converts a page of listings
func ToPublicList(items []Listing) []PublicListing {
	out := make([]PublicListing, 0, len(items))
	for i := range items {
		out = append(out, items[i].ToPublic())
	}
	return out
}

// AddressPoint is one map marker of a section
type AddressPoint struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Title string  `json:"title"`
	ID    string  `json:"id"`
}

// TagCount is one row of the popular tags aggregate
type TagCount struct {
	Tag   string `bson:"_id" json:"tag"`
	Count int    `bson:"count" json:"count"`
}

// SectionPage is a paginated section listing with its map markers
type SectionPage struct {
	Section       string          `json:"section"`
	Intro         string          `json:"intro"`
	Listings      []PublicListing `json:"listings"`
	AddressPoints []AddressPoint  `json:"addressPoints"`
	Total         int64           `json:"total"`
	Page          int             `json:"page"`
	Limit         int             `json:"limit"`
	Pages         int             `json:"pages"`
}

// CreatedListing is returned once, right after posting. It is the only time
// the deactivation password and reactivation token leave the server.
type CreatedListing struct {
	Listing           PublicListing `json:"listing"`
	Password          string        `json:"password" example:"k3x9q2mz"`
	ReactivationToken string        `json:"reactivationToken"`
}
