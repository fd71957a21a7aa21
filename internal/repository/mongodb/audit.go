package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/storeshift/hris-backend-go/internal/domain/audit"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const HistoryCollection = "history"

type historyDocument struct {
	ID          string    `bson:"_id"`
	ActorID     string    `bson:"employeeId"`
	ActorName   string    `bson:"name"`
	Description string    `bson:"description"`
	Category    string    `bson:"category"`
	Timestamp   time.Time `bson:"timestamp"`
}

type auditRepository struct {
	collection *mongo.Collection
}

// NewAuditRepository stores history entries in the history collection of db.
func NewAuditRepository(db *mongo.Database) audit.Sink {
	return &auditRepository{collection: db.Collection(HistoryCollection)}
}

// EnsureIndexes creates the indexes List relies on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(HistoryCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "employeeId", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create history indexes: %w", err)
	}
	return nil
}

func (r *auditRepository) Record(ctx context.Context, e audit.Entry) error {
	if e.ID == "" {
		e.ID = audit.NewEntryID()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	doc := historyDocument{
		ID:          e.ID,
		ActorID:     e.ActorID,
		ActorName:   e.ActorName,
		Description: e.Description,
		Category:    string(e.Category),
		Timestamp:   e.Timestamp,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}
	return nil
}

func (r *auditRepository) List(ctx context.Context, filter audit.Filter) ([]audit.Entry, int64, error) {
	query := bson.M{}
	if filter.ActorID != nil {
		query["employeeId"] = *filter.ActorID
	}
	if filter.Category != nil {
		query["category"] = string(*filter.Category)
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count history entries: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetSkip(int64(filter.Offset())).
		SetLimit(int64(filter.Limit))

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find history entries: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []historyDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode history entries: %w", err)
	}

	entries := make([]audit.Entry, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, audit.Entry{
			ID:          d.ID,
			ActorID:     d.ActorID,
			ActorName:   d.ActorName,
			Description: d.Description,
			Category:    audit.Category(d.Category),
			Timestamp:   d.Timestamp,
		})
	}

	return entries, total, nil
}
