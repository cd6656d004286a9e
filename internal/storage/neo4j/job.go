package neo4j

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/Yoseph10/AgentAI-JobSearch/internal/domain"
	"github.com/Yoseph10/AgentAI-JobSearch/internal/domain/job"
	graph "github.com/Yoseph10/AgentAI-JobSearch/pkg/neo4j"
)

// Ensure JobRepository implements job.Repository
var _ job.Repository = (*JobRepository)(nil)

const jobIDConstraint = `CREATE CONSTRAINT job_id_unique IF NOT EXISTS FOR (j:Job) REQUIRE j.jobId IS UNIQUE`

// JobRepository implements job.Repository with Neo4j
type JobRepository struct {
	client graph.SessionOpener
}

func NewJobRepository(client graph.SessionOpener) *JobRepository {
	return &JobRepository{
		client: client,
	}
}

// EnsureConstraints creates the uniqueness constraint on jobId
func (r *JobRepository) EnsureConstraints(ctx context.Context) error {
	if err := graph.EnsureSchema(ctx, r.client, jobIDConstraint); err != nil {
		return storeErr("ensure constraints", err)
	}
	return nil
}

// UpsertAll merges jobs by jobId and replaces their properties.
// insertedAt and batchIndex are written only on create and drive MostRecent.
func (r *JobRepository) UpsertAll(ctx context.Context, records []domain.JobRecord) (domain.UpsertResult, error) {
	res := domain.UpsertResult{TotalReceived: len(records)}
	if len(records) == 0 {
		return res, nil
	}

	query := `
		UNWIND $jobs AS job
		OPTIONAL MATCH (existing:Job {jobId: job.jobId})
		WITH job, existing IS NULL AS created
		MERGE (j:Job {jobId: job.jobId})
		ON CREATE SET j.insertedAt = timestamp(),
		              j.batchIndex = job.batchIndex
		SET j.title = job.title,
		    j.employerName = job.employerName,
		    j.description = job.description,
		    j.city = job.city,
		    j.country = job.country,
		    j.applyLink = job.applyLink,
		    j.postedAt = job.postedAt,
		    j.summarized = false,
		    j.updatedAt = timestamp()
		RETURN sum(CASE WHEN created THEN 1 ELSE 0 END) AS created
	`

	jobsData := make([]map[string]any, 0, len(records))
	for i, rec := range records {
		jobsData = append(jobsData, map[string]any{
			"jobId":        rec.JobID,
			"title":        rec.Title,
			"employerName": rec.EmployerName,
			"description":  rec.Description,
			"city":         rec.City,
			"country":      rec.Country,
			"applyLink":    rec.ApplyLink,
			"postedAt":     rec.PostedAtUTC,
			"batchIndex":   i,
		})
	}

	created, err := graph.Write(ctx, r.client, func(tx neo4j.ManagedTransaction) (int64, error) {
		return graph.Single[int64](ctx, tx, query, map[string]any{"jobs": jobsData}, "created")
	})
	if err != nil {
		return domain.UpsertResult{}, storeErr("upsert", err)
	}

	res.NewlyInserted = int(created)
	return res, nil
}

func (r *JobRepository) MostRecent(ctx context.Context, limit int) ([]domain.JobRecord, error) {
	query := `
		MATCH (j:Job)
		RETURN j
		ORDER BY j.insertedAt DESC, j.batchIndex DESC
		LIMIT $limit
	`
	return r.readJobs(ctx, "most recent", query, map[string]any{"limit": limit})
}

func (r *JobRepository) Pending(ctx context.Context, limit int) ([]domain.JobRecord, error) {
	query := `
		MATCH (j:Job)
		WHERE j.summarized = false
		RETURN j
		ORDER BY j.postedAt DESC, j.insertedAt DESC
		LIMIT $limit
	`
	return r.readJobs(ctx, "pending", query, map[string]any{"limit": limit})
}

func (r *JobRepository) MarkSummarized(ctx context.Context, jobIDs []string) error {
	if len(jobIDs) == 0 {
		return nil
	}

	_, err := graph.Write(ctx, r.client, func(tx neo4j.ManagedTransaction) (struct{}, error) {
		return struct{}{}, graph.Exec(ctx, tx, `
			MATCH (j:Job)
			WHERE j.jobId IN $ids
			SET j.summarized = true, j.updatedAt = timestamp()
		`, map[string]any{"ids": jobIDs})
	})
	if err != nil {
		return storeErr("mark summarized", err)
	}
	return nil
}

func (r *JobRepository) Count(ctx context.Context) (int64, error) {
	n, err := graph.Read(ctx, r.client, func(tx neo4j.ManagedTransaction) (int64, error) {
		return graph.Single[int64](ctx, tx, `MATCH (j:Job) RETURN count(j) AS n`, nil, "n")
	})
	if err != nil {
		return 0, storeErr("count", err)
	}
	return n, nil
}

func (r *JobRepository) readJobs(ctx context.Context, op, query string, params map[string]any) ([]domain.JobRecord, error) {
	out, err := graph.Read(ctx, r.client, func(tx neo4j.ManagedTransaction) ([]domain.JobRecord, error) {
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		return neo4j.CollectTWithContext(ctx, result, func(rec *neo4j.Record) (domain.JobRecord, error) {
			node, _, err := neo4j.GetRecordValue[neo4j.Node](rec, "j")
			if err != nil {
				return domain.JobRecord{}, err
			}
			return nodeToRecord(node), nil
		})
	})
	if err != nil {
		return nil, storeErr(op, err)
	}
	if out == nil {
		out = []domain.JobRecord{}
	}
	return out, nil
}

func nodeToRecord(node neo4j.Node) domain.JobRecord {
	props := node.Props
	summarized, _ := props["summarized"].(bool)

	return domain.JobRecord{
		JobID:        propString(props, "jobId"),
		Title:        propString(props, "title"),
		EmployerName: propString(props, "employerName"),
		Description:  propString(props, "description"),
		City:         propString(props, "city"),
		Country:      propString(props, "country"),
		ApplyLink:    propString(props, "applyLink"),
		PostedAtUTC:  propString(props, "postedAt"),
		Summarized:   summarized,
	}
}

func propString(props map[string]any, key string) string {
	if v, ok := props[key].(string); ok {
		return v
	}
	return ""
}

func storeErr(op string, err error) error {
	return &domain.StoreError{Op: op, Cause: domain.WrapTimeout(err)}
}
