package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Yoseph10/AgentAI-JobSearch/internal/domain"
	"github.com/Yoseph10/AgentAI-JobSearch/internal/domain/job"
)

// Ensure JobRepository implements job.Repository
var _ job.Repository = (*JobRepository)(nil)

// JobRepository implements job.Repository with a MongoDB collection
type JobRepository struct {
	coll  *mongo.Collection
	clock func() time.Time
}

// collectionProvider is satisfied by pkg/mongo.Client
type collectionProvider interface {
	Jobs() *mongo.Collection
}

// NewJobRepository creates a JobRepository on the client's job collection
func NewJobRepository(client collectionProvider) *JobRepository {
	return &JobRepository{coll: client.Jobs(), clock: time.Now}
}

// EnsureIndexes creates the unique job_id index
func (r *JobRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "job_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("job_id_unique"),
	})
	if err != nil {
		return storeErr("ensure indexes", err)
	}
	return nil
}

// UpsertAll replaces every modeled field of each record, keyed by job_id.
// inserted_at is written only when the document is created.
func (r *JobRepository) UpsertAll(ctx context.Context, records []domain.JobRecord) (domain.UpsertResult, error) {
	res := domain.UpsertResult{TotalReceived: len(records)}
	if len(records) == 0 {
		return res, nil
	}

	now := r.clock().UTC()
	models := make([]mongo.WriteModel, 0, len(records))
	for _, rec := range records {
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.D{{Key: "job_id", Value: rec.JobID}}).
			SetUpdate(upsertDocument(rec, now)).
			SetUpsert(true))
	}

	out, err := r.coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true))
	if err != nil {
		return domain.UpsertResult{}, storeErr("upsert", err)
	}

	res.NewlyInserted = int(out.UpsertedCount)
	return res, nil
}

// MostRecent sorts by _id, which follows insertion order
func (r *JobRepository) MostRecent(ctx context.Context, limit int) ([]domain.JobRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	return r.find(ctx, "most recent", bson.D{}, opts)
}

func (r *JobRepository) Pending(ctx context.Context, limit int) ([]domain.JobRecord, error) {
	opts := options.Find().
		SetSort(bson.D{
			{Key: "job_posted_at_datetime_utc", Value: -1},
			{Key: "_id", Value: -1},
		}).
		SetLimit(int64(limit))

	return r.find(ctx, "pending", bson.D{{Key: "resumido", Value: false}}, opts)
}

func (r *JobRepository) MarkSummarized(ctx context.Context, jobIDs []string) error {
	if len(jobIDs) == 0 {
		return nil
	}

	_, err := r.coll.UpdateMany(ctx,
		bson.D{{Key: "job_id", Value: bson.D{{Key: "$in", Value: jobIDs}}}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "resumido", Value: true},
			{Key: "updated_at", Value: r.clock().UTC()},
		}}},
	)
	if err != nil {
		return storeErr("mark summarized", err)
	}
	return nil
}

func (r *JobRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, storeErr("count", err)
	}
	return n, nil
}

func (r *JobRepository) find(ctx context.Context, op string, filter bson.D, opts *options.FindOptions) ([]domain.JobRecord, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, storeErr(op, err)
	}

	var records []domain.JobRecord
	if err := cur.All(ctx, &records); err != nil {
		return nil, storeErr(op, err)
	}
	if records == nil {
		records = []domain.JobRecord{}
	}
	return records, nil
}

func upsertDocument(rec domain.JobRecord, now time.Time) bson.D {
	return bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "job_id", Value: rec.JobID},
			{Key: "job_title", Value: rec.Title},
			{Key: "employer_name", Value: rec.EmployerName},
			{Key: "job_description", Value: rec.Description},
			{Key: "job_city", Value: rec.City},
			{Key: "job_country", Value: rec.Country},
			{Key: "job_apply_link", Value: rec.ApplyLink},
			{Key: "job_posted_at_datetime_utc", Value: rec.PostedAtUTC},
			{Key: "resumido", Value: false},
			{Key: "updated_at", Value: now},
		}},
		{Key: "$setOnInsert", Value: bson.D{
			{Key: "inserted_at", Value: now},
		}},
	}
}

func storeErr(op string, err error) error {
	if mongo.IsTimeout(err) && !errors.Is(err, domain.ErrTimeout) {
		err = fmt.Errorf("%w: %w", domain.ErrTimeout, err)
	}
	return &domain.StoreError{Op: op, Cause: err}
}
