// Package mongostore implements the storage contracts on MongoDB. Forms and
// submissions live in two collections keyed by ObjectID, matching the ids the
// API hands out.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/goliatone/go-formify/internal/storage"
	"github.com/goliatone/go-formify/pkg/schema"
)

const (
	formsCollection       = "forms"
	submissionsCollection = "submissions"
)

// Store implements storage.Store on a MongoDB database.
type Store struct {
	client      *mongo.Client
	forms       *mongo.Collection
	submissions *mongo.Collection
	now         func() time.Time
}

var _ storage.Store = (*Store)(nil)

type formDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	schema.Form `bson:",inline"`
}

type submissionDocument struct {
	ID                primitive.ObjectID `bson:"_id"`
	FormID            primitive.ObjectID `bson:"formId"`
	schema.Submission `bson:",inline"`
}

// Connect dials uri, pings the primary and returns a store on database.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongostore: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongostore: ping: %w", err)
	}
	return New(client, database), nil
}

// New wraps an existing client.
func New(client *mongo.Client, database string) *Store {
	db := client.Database(database)
	return &Store{
		client:      client,
		forms:       db.Collection(formsCollection),
		submissions: db.Collection(submissionsCollection),
		now:         time.Now,
	}
}

// EnsureIndexes creates the index backing submission listings.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.submissions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "formId", Value: 1}, {Key: "submittedAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("mongostore: ensure indexes: %w", err)
	}
	return nil
}

func (s *Store) CreateForm(ctx context.Context, form schema.Form) (schema.Form, error) {
	oid := primitive.NewObjectID()
	if form.ID != "" {
		parsed, err := primitive.ObjectIDFromHex(form.ID)
		if err != nil {
			return schema.Form{}, fmt.Errorf("mongostore: form id: %w", err)
		}
		oid = parsed
	}
	form.ID = oid.Hex()
	if form.CreatedAt.IsZero() {
		form.CreatedAt = s.now().UTC()
	}
	form.CreatedAt = form.CreatedAt.Truncate(time.Millisecond)

	if _, err := s.forms.InsertOne(ctx, formDocument{ID: oid, Form: form}); err != nil {
		return schema.Form{}, fmt.Errorf("mongostore: insert form: %w", err)
	}
	return form, nil
}

func (s *Store) GetForm(ctx context.Context, id string) (schema.Form, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return schema.Form{}, storage.ErrNotFound
	}

	var doc formDocument
	err = s.forms.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return schema.Form{}, storage.ErrNotFound
	}
	if err != nil {
		return schema.Form{}, fmt.Errorf("mongostore: get form: %w", err)
	}
	return doc.form(), nil
}

func (s *Store) ListForms(ctx context.Context) ([]schema.Form, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := s.forms.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongostore: list forms: %w", err)
	}

	var docs []formDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongostore: decode forms: %w", err)
	}
	out := make([]schema.Form, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.form())
	}
	return out, nil
}

func (s *Store) DeleteForm(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return storage.ErrNotFound
	}

	result, err := s.forms.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("mongostore: delete form: %w", err)
	}
	if result.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	if _, err := s.submissions.DeleteMany(ctx, bson.M{"formId": oid}); err != nil {
		return fmt.Errorf("mongostore: delete submissions: %w", err)
	}
	return nil
}

func (s *Store) CountForms(ctx context.Context) (int, error) {
	n, err := s.forms.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("mongostore: count forms: %w", err)
	}
	return int(n), nil
}

func (s *Store) CreateSubmission(ctx context.Context, sub schema.Submission) (schema.Submission, error) {
	formID, err := primitive.ObjectIDFromHex(sub.FormID)
	if err != nil {
		return schema.Submission{}, storage.ErrNotFound
	}
	n, err := s.forms.CountDocuments(ctx, bson.M{"_id": formID}, options.Count().SetLimit(1))
	if err != nil {
		return schema.Submission{}, fmt.Errorf("mongostore: check form: %w", err)
	}
	if n == 0 {
		return schema.Submission{}, storage.ErrNotFound
	}

	oid := primitive.NewObjectID()
	sub.ID = oid.Hex()
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = s.now().UTC()
	}
	sub.SubmittedAt = sub.SubmittedAt.Truncate(time.Millisecond)

	doc := submissionDocument{ID: oid, FormID: formID, Submission: sub}
	if _, err := s.submissions.InsertOne(ctx, doc); err != nil {
		return schema.Submission{}, fmt.Errorf("mongostore: insert submission: %w", err)
	}
	return sub, nil
}

func (s *Store) ListSubmissions(ctx context.Context, formID string) ([]schema.Submission, error) {
	oid, err := primitive.ObjectIDFromHex(formID)
	if err != nil {
		return []schema.Submission{}, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "submittedAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := s.submissions.Find(ctx, bson.M{"formId": oid}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongostore: list submissions: %w", err)
	}

	var docs []submissionDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongostore: decode submissions: %w", err)
	}
	out := make([]schema.Submission, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.submission())
	}
	return out, nil
}

func (s *Store) CountSubmissions(ctx context.Context) (int, error) {
	n, err := s.submissions.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("mongostore: count submissions: %w", err)
	}
	return int(n), nil
}

// Close disconnects the client.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (d formDocument) form() schema.Form {
	f := d.Form
	f.ID = d.ID.Hex()
	f.CreatedAt = f.CreatedAt.UTC()
	return f
}

func (d submissionDocument) submission() schema.Submission {
	sub := d.Submission
	sub.ID = d.ID.Hex()
	sub.FormID = d.FormID.Hex()
	sub.SubmittedAt = sub.SubmittedAt.UTC()
	sub.Answers = normalizeAnswers(sub.Answers)
	return sub
}

// normalizeAnswers turns BSON arrays back into plain slices so answers
// compare and encode the same as those from other backends.
func normalizeAnswers(answers []schema.Answer) []schema.Answer {
	for i, a := range answers {
		if arr, ok := a.Answer.(primitive.A); ok {
			answers[i].Answer = []any(arr)
		}
	}
	return answers
}
