package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/virginearth/survey-backend/internal/record"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoRecord keeps the payload as JSON text so arbitrary client fields round-trip
// exactly, without BSON type coercion.
type mongoRecord struct {
	ID        string    `bson:"_id"`
	Type      string    `bson:"type,omitempty"`
	Payload   string    `bson:"payload"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// MongoRepo implements a MongoDB-backed repository with one collection per record kind.
type MongoRepo struct {
	db         *mongo.Database
	interviews *mongo.Collection
	surveys    *mongo.Collection
}

func NewMongoRepo(db *mongo.Database) *MongoRepo {
	return &MongoRepo{
		db:         db,
		interviews: db.Collection(record.CollectionInterviews),
		surveys:    db.Collection(record.CollectionSurveys),
	}
}

func (m *MongoRepo) replace(ctx context.Context, col *mongo.Collection, doc mongoRecord) error {
	opts := options.Replace().SetUpsert(true)
	_, err := col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

func (m *MongoRepo) find(ctx context.Context, col *mongo.Collection, id string) (*mongoRecord, error) {
	var doc mongoRecord
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, record.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (m *MongoRepo) all(ctx context.Context, col *mongo.Collection) ([]mongoRecord, error) {
	cur, err := col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []mongoRecord{}
	for cur.Next(ctx) {
		var doc mongoRecord
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, cur.Err()
}

func (m *MongoRepo) PutInterview(ctx context.Context, id string, rec record.Record) error {
	b, err := encodeRecord(rec, false)
	if err != nil {
		return err
	}
	if err := m.replace(ctx, m.interviews, mongoRecord{ID: id, Payload: string(b), UpdatedAt: time.Now().UTC()}); err != nil {
		return fmt.Errorf("upsert interview: %w", err)
	}
	return nil
}

func (m *MongoRepo) GetInterview(ctx context.Context, id string) (record.Record, error) {
	doc, err := m.find(ctx, m.interviews, id)
	if err != nil {
		return nil, err
	}
	return decodeRecord([]byte(doc.Payload))
}

func (m *MongoRepo) ListInterviews(ctx context.Context) ([]record.Record, error) {
	docs, err := m.all(ctx, m.interviews)
	if err != nil {
		return nil, fmt.Errorf("list interviews: %w", err)
	}
	out := make([]record.Record, 0, len(docs))
	for _, d := range docs {
		rec, err := decodeRecord([]byte(d.Payload))
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (m *MongoRepo) PutSurvey(ctx context.Context, id, surveyType string, rec record.Record) error {
	b, err := encodeRecord(rec, false)
	if err != nil {
		return err
	}
	doc := mongoRecord{ID: id, Type: surveyType, Payload: string(b), UpdatedAt: time.Now().UTC()}
	if err := m.replace(ctx, m.surveys, doc); err != nil {
		return fmt.Errorf("upsert survey: %w", err)
	}
	return nil
}

func (m *MongoRepo) GetSurvey(ctx context.Context, id string) (*record.StoredSurvey, error) {
	doc, err := m.find(ctx, m.surveys, id)
	if err != nil {
		return nil, err
	}
	rec, err := decodeRecord([]byte(doc.Payload))
	if err != nil {
		return nil, err
	}
	return &record.StoredSurvey{Type: doc.Type, Payload: rec}, nil
}

func (m *MongoRepo) ListSurveys(ctx context.Context) ([]record.StoredSurvey, error) {
	docs, err := m.all(ctx, m.surveys)
	if err != nil {
		return nil, fmt.Errorf("list surveys: %w", err)
	}
	out := make([]record.StoredSurvey, 0, len(docs))
	for _, d := range docs {
		rec, err := decodeRecord([]byte(d.Payload))
		if err != nil {
			return nil, err
		}
		out = append(out, record.StoredSurvey{Type: d.Type, Payload: rec})
	}
	return out, nil
}

func (m *MongoRepo) Ping(ctx context.Context) error {
	return m.db.Client().Ping(ctx, nil)
}
