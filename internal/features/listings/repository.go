package listings

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/xyz-asif/classifieds/internal/pkg/pagination"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const earthRadiusKm = 6378.1

// Repository handles database interactions for the listings feature
type Repository struct {
	collection *mongo.Collection
}

// NewRepository initializes the repository and creates necessary indexes
func NewRepository(db *mongo.Database) *Repository {
	collection := db.Collection("listings")

	_, _ = collection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "location", Value: "2dsphere"}},
		},
		{
			Keys: bson.D{{Key: "ownerEmail", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "tags", Value: 1}},
		},
		{
			// Section listing
			Keys: bson.D{
				{Key: "section", Value: 1},
				{Key: "approved", Value: 1},
				{Key: "deactivated", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
		{
			Keys: bson.D{
				{Key: "title", Value: "text"},
				{Key: "description", Value: "text"},
				{Key: "tags", Value: "text"},
			},
			Options: options.Index().
				SetWeights(bson.D{
					{Key: "title", Value: 10},
					{Key: "tags", Value: 5},
					{Key: "description", Value: 1},
				}).
				SetDefaultLanguage("none").
				SetName("listing_text_search"),
		},
	})

	return &Repository{collection: collection}
}

// visibleFilter is applied to every public query
func visibleFilter() bson.M {
	return bson.M{"approved": true, "deactivated": false}
}

func sectionFilter(section string) bson.M {
	f := visibleFilter()
	if section != "" {
		f["section"] = section
	}
	return f
}

func textSearchFilter(q SearchQuery) bson.M {
	f := sectionFilter(q.Section)
	if q.Text != "" {
		search := q.Text
		if q.Exact {
			search = `"` + q.Text + `"`
		}
		f["$text"] = bson.M{"$search": search}
	}
	if q.District != "" {
		f["district"] = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(q.District) + "$", Options: "i"}
	}
	return f
}

func geoFilter(lat, lng float64, section string, radiusKm float64) bson.M {
	f := sectionFilter(section)
	f["location"] = bson.M{
		"$geoWithin": bson.M{
			"$centerSphere": bson.A{bson.A{lng, lat}, radiusKm / earthRadiusKm},
		},
	}
	return f
}

func flagsFilter(id primitive.ObjectID, from Flags) bson.M {
	return bson.M{"_id": id, "approved": from.Approved, "deactivated": from.Deactivated}
}

func autocompletePipeline(prefix string, limit int) mongo.Pipeline {
	match := primitive.Regex{Pattern: "^" + regexp.QuoteMeta(prefix), Options: "i"}
	vis := visibleFilter()
	vis["tags"] = match
	return mongo.Pipeline{
		{{Key: "$match", Value: vis}},
		{{Key: "$unwind", Value: "$tags"}},
		{{Key: "$match", Value: bson.M{"tags": match}}},
		{{Key: "$group", Value: bson.M{"_id": "$tags", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: limit}},
	}
}

func popularTagsPipeline(limit int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: visibleFilter()}},
		{{Key: "$unwind", Value: "$tags"}},
		{{Key: "$group", Value: bson.M{"_id": "$tags", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: limit}},
	}
}

func newestFirst() bson.D {
	return bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
}

// Insert stores a new listing and sets its ID
func (r *Repository) Insert(ctx context.Context, l *Listing) error {
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}

	result, err := r.collection.InsertOne(ctx, l)
	if err != nil {
		return err
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		l.ID = oid
	}
	return nil
}

// GetByID finds a listing. Without bypass only visible listings match.
func (r *Repository) GetByID(ctx context.Context, id primitive.ObjectID, bypass bool) (*Listing, error) {
	filter := bson.M{"_id": id}
	if !bypass {
		for k, v := range visibleFilter() {
			filter[k] = v
		}
	}

	var l Listing
	err := r.collection.FindOne(ctx, filter).Decode(&l)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	return &l, nil
}

// ListSince returns one page of visible listings of a section, newest first,
// plus the total count. An empty section spans all sections.
func (r *Repository) ListSince(ctx context.Context, section string, page, perPage int) ([]Listing, int64, error) {
	filter := sectionFilter(section)

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(newestFirst()).
		SetSkip(pagination.Skip(page, perPage)).
		SetLimit(int64(perPage))

	items, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Search runs a free-text search over visible listings
func (r *Repository) Search(ctx context.Context, q SearchQuery, limit int) ([]Listing, error) {
	opts := options.Find().
		SetSort(newestFirst()).
		SetSkip(pagination.Skip(q.Page, limit)).
		SetLimit(int64(limit))
	return r.find(ctx, textSearchFilter(q), opts)
}

// SearchGeo returns visible listings within radiusKm of the point
func (r *Repository) SearchGeo(ctx context.Context, lat, lng float64, section string, radiusKm float64, limit int) ([]Listing, error) {
	opts := options.Find().SetSort(newestFirst()).SetLimit(int64(limit))
	return r.find(ctx, geoFilter(lat, lng, section, radiusKm), opts)
}

// ListByOwner returns every listing of an owner in every state
func (r *Repository) ListByOwner(ctx context.Context, email string) ([]Listing, error) {
	opts := options.Find().SetSort(newestFirst())
	return r.find(ctx, bson.M{"ownerEmail": email}, opts)
}

// UpdateFlags moves a listing from one moderation state to another. The
// update only applies if the stored flags still equal from.
func (r *Repository) UpdateFlags(ctx context.Context, id primitive.ObjectID, from, to Flags) error {
	result, err := r.collection.UpdateOne(ctx, flagsFilter(id, from), flagsUpdate(to))
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrStateChanged
	}
	return nil
}

// flagsUpdate touches the two moderation flags and nothing else
func flagsUpdate(to Flags) bson.M {
	return bson.M{"$set": bson.M{"approved": to.Approved, "deactivated": to.Deactivated}}
}

// AddressPoints returns the map markers of every visible located listing of a section
func (r *Repository) AddressPoints(ctx context.Context, section string) ([]AddressPoint, error) {
	filter := sectionFilter(section)
	filter["location"] = bson.M{"$exists": true}

	opts := options.Find().SetProjection(bson.M{"title": 1, "location": 1})
	items, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	points := make([]AddressPoint, 0, len(items))
	for _, l := range items {
		if l.Location == nil {
			continue
		}
		points = append(points, AddressPoint{
			Lat:   l.Location.Lat(),
			Lng:   l.Location.Lng(),
			Title: l.Title,
			ID:    l.ID.Hex(),
		})
	}
	return points, nil
}

// PopularTags counts tags across visible listings
func (r *Repository) PopularTags(ctx context.Context, limit int) ([]TagCount, error) {
	return r.aggregateTags(ctx, popularTagsPipeline(limit))
}

// Autocomplete suggests tags starting with prefix
func (r *Repository) Autocomplete(ctx context.Context, prefix string, limit int) ([]string, error) {
	counts, err := r.aggregateTags(ctx, autocompletePipeline(prefix, limit))
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(counts))
	for _, c := range counts {
		out = append(out, c.Tag)
	}
	return out, nil
}

func (r *Repository) aggregateTags(ctx context.Context, pipeline mongo.Pipeline) ([]TagCount, error) {
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []TagCount
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]Listing, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := []Listing{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}
