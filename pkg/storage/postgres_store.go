package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/videoscribe/videoscribe/pkg/models"
)

// PostgresStore keeps job records in a single table, settings serialized as
// JSON. One row per job, upserted on every save.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects, verifies the database and ensures the schema.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	store := &PostgresStore{db: db}
	if err := store.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *PostgresStore) ensureSchema() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS transcription_jobs (
		job_id          TEXT PRIMARY KEY,
		filename        TEXT NOT NULL,
		file_path       TEXT,
		status          TEXT NOT NULL,
		progress        INTEGER NOT NULL DEFAULT 0,
		error           TEXT,
		settings        JSONB,
		txt_path        TEXT,
		pdf_path        TEXT,
		num_segments    INTEGER,
		num_screenshots INTEGER,
		created_at      TIMESTAMPTZ NOT NULL,
		updated_at      TIMESTAMPTZ,
		completed_at    TIMESTAMPTZ
	)`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Save upserts the full record.
func (s *PostgresStore) Save(job *models.TranscriptionJob) error {
	settingsJSON, err := json.Marshal(job.Settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	query := `
	INSERT INTO transcription_jobs (
		job_id, filename, file_path, status, progress, error, settings,
		txt_path, pdf_path, num_segments, num_screenshots,
		created_at, updated_at, completed_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	ON CONFLICT (job_id)
	DO UPDATE SET
		status = EXCLUDED.status,
		progress = EXCLUDED.progress,
		error = EXCLUDED.error,
		settings = EXCLUDED.settings,
		txt_path = EXCLUDED.txt_path,
		pdf_path = EXCLUDED.pdf_path,
		num_segments = EXCLUDED.num_segments,
		num_screenshots = EXCLUDED.num_screenshots,
		updated_at = EXCLUDED.updated_at,
		completed_at = EXCLUDED.completed_at
	`

	_, err = s.db.Exec(query,
		job.JobID,
		job.Filename,
		job.FilePath,
		job.Status,
		job.Progress,
		job.Error,
		settingsJSON,
		job.TxtPath,
		job.PDFPath,
		job.NumSegments,
		job.NumScreenshots,
		job.CreatedAt,
		nullableTime(job.UpdatedAt),
		nullableTime(job.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("save job to database: %w", err)
	}
	return nil
}

const selectColumns = `
	job_id, filename, file_path, status, progress, error, settings,
	txt_path, pdf_path, num_segments, num_screenshots,
	created_at, updated_at, completed_at`

// Get reads one row.
func (s *PostgresStore) Get(jobID string) (*models.TranscriptionJob, error) {
	row := s.db.QueryRow(
		`SELECT `+selectColumns+` FROM transcription_jobs WHERE job_id = $1`, jobID)

	job, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("job not found: %s", jobID)
	}
	if err != nil {
		return nil, fmt.Errorf("query job: %w", err)
	}
	return job, nil
}

// Update is read-modify-write; the ledger has a single writer.
func (s *PostgresStore) Update(jobID string, updateFn func(*models.TranscriptionJob)) error {
	job, err := s.Get(jobID)
	if err != nil {
		return err
	}
	updateFn(job)
	job.UpdatedAt = time.Now()
	return s.Save(job)
}

// List returns all rows, newest first.
func (s *PostgresStore) List() ([]*models.TranscriptionJob, error) {
	rows, err := s.db.Query(
		`SELECT ` + selectColumns + ` FROM transcription_jobs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]*models.TranscriptionJob, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// Delete removes one row.
func (s *PostgresStore) Delete(jobID string) error {
	result, err := s.db.Exec(`DELETE FROM transcription_jobs WHERE job_id = $1`, jobID)
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("job not found: %s", jobID)
	}
	return nil
}

// Close shuts the connection pool down.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*models.TranscriptionJob, error) {
	var job models.TranscriptionJob
	var filePath, errMsg, txtPath, pdfPath sql.NullString
	var numSegments, numScreenshots sql.NullInt64
	var settingsJSON []byte
	var updatedAt, completedAt sql.NullTime

	err := row.Scan(
		&job.JobID,
		&job.Filename,
		&filePath,
		&job.Status,
		&job.Progress,
		&errMsg,
		&settingsJSON,
		&txtPath,
		&pdfPath,
		&numSegments,
		&numScreenshots,
		&job.CreatedAt,
		&updatedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	job.FilePath = filePath.String
	job.Error = errMsg.String
	job.TxtPath = txtPath.String
	job.PDFPath = pdfPath.String
	job.NumSegments = int(numSegments.Int64)
	job.NumScreenshots = int(numScreenshots.Int64)
	if updatedAt.Valid {
		job.UpdatedAt = updatedAt.Time
	}
	if completedAt.Valid {
		job.CompletedAt = completedAt.Time
	}
	if len(settingsJSON) > 0 {
		json.Unmarshal(settingsJSON, &job.Settings)
	}
	return &job, nil
}

func nullableTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
