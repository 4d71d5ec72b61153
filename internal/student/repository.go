package student

import (
	"context"
	"errors"
	"strings"
	"time"

	"student-records/internal/db"
	"student-records/internal/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, student *Student) (*Student, error)
	GetAll(ctx context.Context) ([]Student, error)
	GetByID(ctx context.Context, id string) (*Student, error)
	// FindByUniqueKeys returns the first record matching the email or the
	// matric_no, skipping excludeID when non-empty. No match is (nil, nil),
	// not an error.
	FindByUniqueKeys(ctx context.Context, email, matricNo, excludeID string) (*Student, error)
	Update(ctx context.Context, id string, in Input) (*Student, error)
	Delete(ctx context.Context, id string) (*Student, error)
}

type repository struct {
	coll    *mongo.Collection
	metrics *metrics.Metrics
}

func NewRepository(coll *mongo.Collection, m *metrics.Metrics) Repository {
	return &repository{
		coll:    coll,
		metrics: m,
	}
}

func (r *repository) Create(ctx context.Context, student *Student) (*Student, error) {
	now := time.Now().UTC()
	student.CreatedAt = now
	student.UpdatedAt = now

	start := time.Now()
	res, err := r.coll.InsertOne(ctx, student)
	r.metrics.RecordQuery(ctx, "insert", time.Since(start), err)

	if err != nil {
		return nil, translateWriteError(err)
	}
	student.ID = res.InsertedID.(primitive.ObjectID)
	return student, nil
}

func (r *repository) GetAll(ctx context.Context) ([]Student, error) {
	start := time.Now()
	cursor, err := r.coll.Find(ctx, bson.D{},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	r.metrics.RecordQuery(ctx, "find", time.Since(start), err)

	if err != nil {
		return nil, err
	}
	students := []Student{}
	if err := cursor.All(ctx, &students); err != nil {
		return nil, err
	}
	return students, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Student, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	start := time.Now()
	student := new(Student)
	err = r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(student)
	r.metrics.RecordQuery(ctx, "find_one", time.Since(start), err)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return student, nil
}

func (r *repository) FindByUniqueKeys(ctx context.Context, email, matricNo, excludeID string) (*Student, error) {
	filter := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "email", Value: email}},
		bson.D{{Key: "matric_no", Value: matricNo}},
	}}}
	if excludeID != "" {
		oid, err := primitive.ObjectIDFromHex(excludeID)
		if err != nil {
			return nil, ErrInvalidID
		}
		filter = append(filter, bson.E{Key: "_id", Value: bson.D{{Key: "$ne", Value: oid}}})
	}

	start := time.Now()
	student := new(Student)
	err := r.coll.FindOne(ctx, filter).Decode(student)
	r.metrics.RecordQuery(ctx, "find_one", time.Since(start), err)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return student, nil
}

func (r *repository) Update(ctx context.Context, id string, in Input) (*Student, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "firstname", Value: in.Firstname},
		{Key: "lastname", Value: in.Lastname},
		{Key: "gender", Value: in.Gender},
		{Key: "email", Value: in.Email},
		{Key: "matric_no", Value: in.MatricNo},
		{Key: "updatedAt", Value: time.Now().UTC()},
	}}}

	start := time.Now()
	student := new(Student)
	err = r.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: oid}},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(student)
	r.metrics.RecordQuery(ctx, "update", time.Since(start), err)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrStudentNotFound
		}
		return nil, translateWriteError(err)
	}
	return student, nil
}

func (r *repository) Delete(ctx context.Context, id string) (*Student, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	start := time.Now()
	student := new(Student)
	err = r.coll.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(student)
	r.metrics.RecordQuery(ctx, "delete", time.Since(start), err)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return student, nil
}

// translateWriteError maps a store-level duplicate-key error to the field
// that collided. The unique indexes are the authoritative enforcement; this
// path fires when a concurrent writer slipped past the pre-write check.
func translateWriteError(err error) error {
	if !mongo.IsDuplicateKeyError(err) {
		return err
	}
	if strings.Contains(err.Error(), db.MatricNoIndex) {
		return ErrMatricNoTaken
	}
	return ErrEmailTaken
}
