package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/jobtrack/internal/models"
	"github.com/desertthunder/jobtrack/internal/shared"
)

const jobsPartition = "jobs"

const jobColumns = `id, user, application_date, country_name, company_name, recruiter, job_title,
	job_link, status, response_remarks, created_at, updated_at`

// jobIndexColumns maps each secondary index to its column.
var jobIndexColumns = map[models.JobIndex]string{
	models.IndexUser:            "user",
	models.IndexApplicationDate: "application_date",
	models.IndexStatus:          "status",
	models.IndexJobLink:         "job_link",
}

var _ models.JobStore = (*JobRepository)(nil)

// JobRepository implements [models.JobStore] over the jobs table.
type JobRepository struct {
	db *sql.DB // nil when bound to a transaction
	q  dbtx
}

// NewJobRepository creates a new [JobRepository] with the given database connection
func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db, q: db}
}

// Put inserts the record or replaces the stored record with the same id.
//
// The owner and the creation time of an existing record are never overwritten. The normalized
// link used for duplicate lookups is derived from JobLink on every write.
func (r *JobRepository) Put(ctx context.Context, job *models.JobRecord) error {
	if job == nil || job.ID == "" {
		return fmt.Errorf("%w: job record has no id", shared.ErrInvalidArgument)
	}

	query := `
		INSERT INTO jobs (id, user, application_date, country_name, company_name, recruiter, job_title,
			job_link, link_key, status, response_remarks, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			application_date = excluded.application_date,
			country_name = excluded.country_name,
			company_name = excluded.company_name,
			recruiter = excluded.recruiter,
			job_title = excluded.job_title,
			job_link = excluded.job_link,
			link_key = excluded.link_key,
			status = excluded.status,
			response_remarks = excluded.response_remarks,
			created_at = COALESCE(jobs.created_at, excluded.created_at),
			updated_at = excluded.updated_at
	`

	_, err := r.q.ExecContext(ctx, query,
		job.ID, job.User, job.ApplicationDate, job.CountryName, job.CompanyName, job.Recruiter, job.JobTitle,
		job.JobLink, shared.LinkKey(job.JobLink), job.Status, job.ResponseRemarks,
		nullTime(job.CreatedAt), nullTime(job.UpdatedAt),
	)
	return shared.NewStorageError("put", jobsPartition, job.ID, err)
}

// Get retrieves a job record by id.
func (r *JobRepository) Get(ctx context.Context, id string) (*models.JobRecord, bool, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = ?`

	job, err := scanJob(r.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, shared.NewStorageError("get", jobsPartition, id, err)
	}
	return job, true, nil
}

// GetAll returns every job record of every user.
func (r *JobRepository) GetAll(ctx context.Context) ([]*models.JobRecord, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs ORDER BY created_at ASC, id ASC`
	return r.list(ctx, "get_all", query)
}

// GetAllByIndex returns the job records whose indexed field equals value.
func (r *JobRepository) GetAllByIndex(ctx context.Context, index models.JobIndex, value string) ([]*models.JobRecord, error) {
	column, ok := jobIndexColumns[index]
	if !ok {
		return nil, fmt.Errorf("%w: unknown index %q", shared.ErrInvalidArgument, index)
	}

	query := fmt.Sprintf(`SELECT %s FROM jobs WHERE %s = ? ORDER BY created_at ASC, id ASC`, jobColumns, column)
	return r.list(ctx, "get_by_"+string(index), query, value)
}

// FindByLinkKey returns the records of user whose normalized link equals key, oldest first.
//
// An empty key never matches.
func (r *JobRepository) FindByLinkKey(ctx context.Context, user, key string) ([]*models.JobRecord, error) {
	if key == "" {
		return nil, nil
	}

	query := `SELECT ` + jobColumns + ` FROM jobs
		WHERE user = ? AND link_key = ?
		ORDER BY created_at ASC, id ASC`
	return r.list(ctx, "find_by_link", query, user, key)
}

// Delete removes a job record. Deleting a missing id is not an error.
func (r *JobRepository) Delete(ctx context.Context, id string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?`, id)
	return shared.NewStorageError("delete", jobsPartition, id, err)
}

// DeleteMany removes every listed job record, attempting all of them.
func (r *JobRepository) DeleteMany(ctx context.Context, ids []string) error {
	return deleteMany(ctx, r.q, jobsPartition, "jobs", "id", ids)
}

// WithTx runs fn against a repository bound to a single transaction.
//
// Calls made on an already bound repository join its transaction.
func (r *JobRepository) WithTx(ctx context.Context, fn func(models.JobStore) error) error {
	if r.db == nil {
		return fn(r)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return shared.NewStorageError("begin", jobsPartition, "", err)
	}
	defer tx.Rollback()

	if err := fn(&JobRepository{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return shared.NewStorageError("commit", jobsPartition, "", err)
	}
	return nil
}

func (r *JobRepository) list(ctx context.Context, op, query string, args ...any) ([]*models.JobRecord, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, shared.NewStorageError(op, jobsPartition, "", err)
	}
	defer rows.Close()

	var jobs []*models.JobRecord
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, shared.NewStorageError(op, jobsPartition, "", err)
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, shared.NewStorageError(op, jobsPartition, "", err)
	}

	return jobs, nil
}

func scanJob(s scanner) (*models.JobRecord, error) {
	var (
		job       models.JobRecord
		createdAt sql.NullTime
		updatedAt sql.NullTime
	)

	err := s.Scan(
		&job.ID, &job.User, &job.ApplicationDate, &job.CountryName, &job.CompanyName, &job.Recruiter,
		&job.JobTitle, &job.JobLink, &job.Status, &job.ResponseRemarks, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	job.CreatedAt = fromNullTime(createdAt)
	job.UpdatedAt = fromNullTime(updatedAt)
	return &job, nil
}
