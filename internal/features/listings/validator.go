package listings

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/xyz-asif/classifieds/internal/pkg/validator"
)

// Illustrations is the closed set of skill illustrations
var Illustrations = []string{
	"teaching", "programming", "design", "music", "cooking", "gardening",
	"photography", "writing", "translation", "repair", "fitness", "tutoring",
}

// Fonts is the closed set of skill card fonts
var Fonts = []string{
	"Roboto", "Lato", "Open Sans", "Montserrat", "Amiri", "Cairo", "Tajawal",
}

func init() {
	validator.RegisterEnum("illustration", Illustrations)
	validator.RegisterEnum("font", Fonts)
}

// Geofence decides whether a coordinate is inside the service area
type Geofence interface {
	Contains(lat, lng float64) bool
}

// DonationPost is the validated donations payload
type DonationPost struct {
	Title       string   `json:"title" validate:"required,min=10,max=100"`
	Description string   `json:"description" validate:"required,min=10,max=5000"`
	Tags        []string `json:"tags" validate:"required,min=1,dive,min=3,max=20"`
	Lat         *float64 `json:"lat" validate:"omitempty,gte=-90,lte=90"`
	Lng         *float64 `json:"lng" validate:"omitempty,gte=-180,lte=180"`
	District    string   `json:"district" validate:"omitempty,min=3,max=40"`
	TagsLang    string   `json:"tagsLang" validate:"omitempty,oneof=arabic english"`
}

// SkillPost is the validated skills payload
type SkillPost struct {
	Title             string   `json:"title" validate:"required,min=10,max=100"`
	Description       string   `json:"description" validate:"required,min=10,max=5000"`
	Tags              []string `json:"tags" validate:"required,min=1,dive,min=3,max=20"`
	IllustrationQuery string   `json:"illustrationQuery" validate:"required,min=2,max=15"`
	Illustration      string   `json:"illustration" validate:"omitempty,illustration"`
	Color             string   `json:"color" validate:"omitempty,hexdigits"`
	Font              string   `json:"font" validate:"omitempty,font"`
}

// ParseDonation builds and validates a donation from raw form values.
// Coordinates are optional but must come in pairs and fall inside fence.
func ParseDonation(form url.Values, fence Geofence) (*DonationPost, error) {
	var errs validator.Errors

	post := &DonationPost{
		Title:       strings.TrimSpace(form.Get("title")),
		Description: strings.TrimSpace(form.Get("description")),
		District:    strings.TrimSpace(form.Get("district")),
		TagsLang:    strings.TrimSpace(form.Get("tagsLang")),
	}

	tags, ok := ParseTags(form["tags"])
	if !ok {
		errs.Add("tags", "json", "tags must be a JSON array or repeated values")
	}
	post.Tags = tags

	post.Lat = parseCoordinate(form.Get("lat"), "lat", &errs)
	post.Lng = parseCoordinate(form.Get("lng"), "lng", &errs)

	if err := validator.Struct(post); err != nil {
		fe, ok := validator.AsErrors(err)
		if !ok {
			return nil, err
		}
		errs = append(errs, fe...)
	}

	switch {
	case (post.Lat == nil) != (post.Lng == nil):
		errs.Add("location", "pair", "lat and lng must be provided together")
	case post.Lat != nil && len(errs) == 0 && fence != nil && !fence.Contains(*post.Lat, *post.Lng):
		errs.Add("location", "geofence", "location is outside the service area")
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}
	return post, nil
}

// ParseSkill builds and validates a skill from raw form values. The combined
// "name#color" illustration value older clients send is split in two.
func ParseSkill(form url.Values) (*SkillPost, error) {
	var errs validator.Errors

	post := &SkillPost{
		Title:             strings.TrimSpace(form.Get("title")),
		Description:       strings.TrimSpace(form.Get("description")),
		IllustrationQuery: strings.TrimSpace(form.Get("illustrationQuery")),
		Illustration:      strings.TrimSpace(form.Get("illustration")),
		Color:             strings.TrimPrefix(strings.TrimSpace(form.Get("color")), "#"),
		Font:              strings.TrimSpace(form.Get("font")),
	}
	if post.Illustration == "" {
		post.Illustration = strings.TrimSpace(form.Get("undraw"))
	}
	if name, color, found := strings.Cut(post.Illustration, "#"); found {
		post.Illustration = name
		if post.Color == "" {
			post.Color = color
		}
	}

	tags, ok := ParseTags(form["tags"])
	if !ok {
		errs.Add("tags", "json", "tags must be a JSON array or repeated values")
	}
	post.Tags = tags

	if err := validator.Struct(post); err != nil {
		fe, ok := validator.AsErrors(err)
		if !ok {
			return nil, err
		}
		errs = append(errs, fe...)
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}
	return post, nil
}

type tagifyItem struct {
	Value string `json:"value"`
}

// ParseTags accepts a tagify payload ([{"value":"x"}]), a JSON string array or
// repeated form values. Tags are trimmed and de-duplicated keeping order.
// ok is false only for a malformed JSON payload.
func ParseTags(values []string) (tags []string, ok bool) {
	raw := values
	if len(values) == 1 && strings.HasPrefix(strings.TrimSpace(values[0]), "[") {
		payload := []byte(values[0])

		var items []tagifyItem
		var plain []string
		switch {
		case json.Unmarshal(payload, &items) == nil:
			raw = make([]string, 0, len(items))
			for _, it := range items {
				raw = append(raw, it.Value)
			}
		case json.Unmarshal(payload, &plain) == nil:
			raw = plain
		default:
			return nil, false
		}
	}

	seen := make(map[string]bool, len(raw))
	for _, t := range raw {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	return tags, true
}

func parseCoordinate(raw, field string, errs *validator.Errors) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		errs.Add(field, "number", field+" must be a number")
		return nil
	}
	return &v
}

// SearchRequest is the raw text search payload
type SearchRequest struct {
	Text     string `json:"text" form:"text" example:"desk"`
	Exact    string `json:"exact" form:"exact" example:"off"`
	District string `json:"district" form:"district"`
	Section  string `json:"section" form:"section" example:"donations"`
	Page     int    `json:"page" form:"page"`
}

// SearchQuery is a validated text search
type SearchQuery struct {
	Text     string `json:"text" validate:"omitempty,min=3,max=100"`
	Exact    bool   `json:"exact"`
	District string `json:"district" validate:"omitempty,min=3,max=40"`
	Section  string `json:"section" validate:"omitempty,oneof=donations skills"`
	Page     int    `json:"page"`
}

// Validate normalises the request into a SearchQuery
func (r SearchRequest) Validate() (SearchQuery, error) {
	var errs validator.Errors

	q := SearchQuery{
		Text:     strings.TrimSpace(r.Text),
		District: strings.TrimSpace(r.District),
		Section:  strings.TrimSpace(r.Section),
		Page:     r.Page,
	}

	exact, ok := parseFlag(r.Exact)
	if !ok {
		errs.Add("exact", "boolean", "exact must be one of: on, off, true, false")
	}
	q.Exact = exact

	if err := validator.Struct(q); err != nil {
		fe, ok := validator.AsErrors(err)
		if !ok {
			return q, err
		}
		errs = append(errs, fe...)
	}
	return q, errs.Err()
}

func parseFlag(v string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "off", "false":
		return false, true
	case "on", "true":
		return true, true
	}
	return false, false
}

// GeoQuery is a geo-radius search around a point
type GeoQuery struct {
	Lat     *float64 `json:"lat" validate:"required,gte=-90,lte=90" example:"36.8"`
	Lng     *float64 `json:"lng" validate:"required,gte=-180,lte=180" example:"10.18"`
	Section string   `json:"section" validate:"required,oneof=donations skills" example:"donations"`
}

// DeactivateRequest hides a listing with its password
type DeactivateRequest struct {
	ID       string `json:"id" validate:"required,objectid" example:"65a1f0c2e4b0a1b2c3d4e5f6"`
	Password string `json:"password" validate:"required,min=6,max=9" example:"k3x9q2mz"`
}

// ReactivateRequest restores a listing with either its password or the
// reactivation token mailed on deactivation
type ReactivateRequest struct {
	ID       string `json:"id" validate:"required,objectid" example:"65a1f0c2e4b0a1b2c3d4e5f6"`
	Password string `json:"password" validate:"required_without=Token,omitempty,min=6,max=9"`
	Token    string `json:"token" validate:"required_without=Password,omitempty,len=64,hexadecimal"`
}
