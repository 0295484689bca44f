package messages

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository handles database interactions for messages
type Repository struct {
	collection *mongo.Collection
}

// NewRepository initializes the repository and creates necessary indexes
func NewRepository(db *mongo.Database) *Repository {
	collection := db.Collection("messages")

	_, _ = collection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "thread", Value: 1}, {Key: "sent", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "from", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "to", Value: 1}},
		},
	})

	return &Repository{collection: collection}
}

// threadFilter matches both directions between two peers on a thread. When
// both peers are the same (an owner reading their own listing) every message
// of the thread involving them matches.
func threadFilter(threadID, peerA, peerB string) bson.M {
	if peerA == peerB {
		return bson.M{
			"thread": threadID,
			"$or":    bson.A{bson.M{"from": peerA}, bson.M{"to": peerA}},
		}
	}
	return bson.M{
		"thread": threadID,
		"$or": bson.A{
			bson.M{"from": peerA, "to": peerB},
			bson.M{"from": peerB, "to": peerA},
		},
	}
}

// Insert stores a message and sets its ID
func (r *Repository) Insert(ctx context.Context, m *Message) error {
	if m.Sent.IsZero() {
		m.Sent = time.Now().UTC()
	}

	result, err := r.collection.InsertOne(ctx, m)
	if err != nil {
		return err
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		m.ID = oid
	}
	return nil
}

// Thread returns the conversation between two peers on a listing, oldest first
func (r *Repository) Thread(ctx context.Context, threadID, peerA, peerB string) ([]Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "sent", Value: 1}})

	cursor, err := r.collection.Find(ctx, threadFilter(threadID, peerA, peerB), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []Message{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
