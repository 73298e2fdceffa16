package worklist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGRepo backs the catalog with Postgres. Ordering is explicit: a position
// column keeps the worklist front-to-back, and Insert shifts every row down
// so the new study lands at the front, matching MemRepo semantics.
type PGRepo struct{ pool *pgxpool.Pool }

// NewPGRepo creates a Postgres-backed StudyRepository.
func NewPGRepo(pool *pgxpool.Pool) *PGRepo {
	return &PGRepo{pool: pool}
}

// Schema returns the DDL for the studies table.
func Schema() string {
	return `
CREATE TABLE IF NOT EXISTS studies (
	id               TEXT PRIMARY KEY,
	position         INT NOT NULL,
	patient_id       TEXT NOT NULL,
	patient          JSONB NOT NULL,
	description      TEXT NOT NULL,
	modality         TEXT NOT NULL,
	study_date       TIMESTAMPTZ NOT NULL,
	accession_number TEXT NOT NULL,
	status           TEXT NOT NULL,
	priority         TEXT NOT NULL,
	views            JSONB NOT NULL,
	image_urls       JSONB NOT NULL,
	prior_study_id   TEXT,
	report           JSONB,
	reported_by      TEXT,
	reported_at      TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_studies_position ON studies (position);
CREATE INDEX IF NOT EXISTS idx_studies_patient ON studies (patient_id);
`
}

const studyCols = `id, patient_id, patient, description, modality, study_date,
	accession_number, status, priority, views, image_urls,
	prior_study_id, report, reported_by, reported_at`

func scanStudy(row pgx.Row) (*Study, error) {
	var (
		s            Study
		patientJSON  []byte
		viewsJSON    []byte
		imagesJSON   []byte
		reportJSON   []byte
		priorStudyID *string
		reportedBy   *string
	)
	err := row.Scan(&s.ID, &s.PatientID, &patientJSON, &s.Description, &s.Modality, &s.StudyDate,
		&s.AccessionNumber, &s.Status, &s.Priority, &viewsJSON, &imagesJSON,
		&priorStudyID, &reportJSON, &reportedBy, &s.ReportedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(patientJSON, &s.Patient); err != nil {
		return nil, fmt.Errorf("decode patient: %w", err)
	}
	if err := json.Unmarshal(viewsJSON, &s.Views); err != nil {
		return nil, fmt.Errorf("decode views: %w", err)
	}
	if err := json.Unmarshal(imagesJSON, &s.ImageURLs); err != nil {
		return nil, fmt.Errorf("decode image urls: %w", err)
	}
	if reportJSON != nil {
		var report AnalysisReport
		if err := json.Unmarshal(reportJSON, &report); err != nil {
			return nil, fmt.Errorf("decode report: %w", err)
		}
		s.Report = &report
	}
	if priorStudyID != nil {
		s.PriorStudyID = *priorStudyID
	}
	if reportedBy != nil {
		s.ReportedBy = *reportedBy
	}
	return &s, nil
}

func encodeStudy(s *Study) (patient, views, images, report []byte, err error) {
	if patient, err = json.Marshal(s.Patient); err != nil {
		return
	}
	if views, err = json.Marshal(s.Views); err != nil {
		return
	}
	if images, err = json.Marshal(s.ImageURLs); err != nil {
		return
	}
	if s.Report != nil {
		report, err = json.Marshal(s.Report)
	}
	return
}

func (r *PGRepo) List(ctx context.Context) ([]*Study, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+studyCols+` FROM studies ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Study
	for rows.Next() {
		s, err := scanStudy(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PGRepo) Get(ctx context.Context, id string) (*Study, error) {
	s, err := scanStudy(r.pool.QueryRow(ctx, `SELECT `+studyCols+` FROM studies WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrStudyNotFound
	}
	return s, err
}

func (r *PGRepo) Insert(ctx context.Context, s *Study) error {
	patient, views, images, report, err := encodeStudy(s)
	if err != nil {
		return err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE studies SET position = position + 1`); err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO studies (id, position, patient_id, patient, description, modality, study_date,
			accession_number, status, priority, views, image_urls,
			prior_study_id, report, reported_by, reported_at)
		VALUES ($1,0,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,NULLIF($12,''),$13,NULLIF($14,''),$15)`,
		s.ID, s.PatientID, patient, s.Description, s.Modality, s.StudyDate,
		s.AccessionNumber, s.Status, s.Priority, views, images,
		s.PriorStudyID, report, s.ReportedBy, s.ReportedAt)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PGRepo) Update(ctx context.Context, s *Study) error {
	patient, views, images, report, err := encodeStudy(s)
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE studies SET patient_id = $2, patient = $3, description = $4, modality = $5,
			study_date = $6, accession_number = $7, status = $8, priority = $9,
			views = $10, image_urls = $11, prior_study_id = NULLIF($12,''),
			report = $13, reported_by = NULLIF($14,''), reported_at = $15
		WHERE id = $1`,
		s.ID, s.PatientID, patient, s.Description, s.Modality,
		s.StudyDate, s.AccessionNumber, s.Status, s.Priority,
		views, images, s.PriorStudyID, report, s.ReportedBy, s.ReportedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStudyNotFound
	}
	return nil
}

func (r *PGRepo) Replace(ctx context.Context, studies []*Study) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM studies`); err != nil {
		return err
	}
	for i, s := range studies {
		patient, views, images, report, err := encodeStudy(s)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO studies (id, position, patient_id, patient, description, modality, study_date,
				accession_number, status, priority, views, image_urls,
				prior_study_id, report, reported_by, reported_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,NULLIF($13,''),$14,NULLIF($15,''),$16)`,
			s.ID, i, s.PatientID, patient, s.Description, s.Modality, s.StudyDate,
			s.AccessionNumber, s.Status, s.Priority, views, images,
			s.PriorStudyID, report, s.ReportedBy, s.ReportedAt)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *PGRepo) FindPrior(ctx context.Context, patientID, excludeID string) (*Study, error) {
	s, err := scanStudy(r.pool.QueryRow(ctx,
		`SELECT `+studyCols+` FROM studies WHERE patient_id = $1 AND id <> $2 ORDER BY position LIMIT 1`,
		patientID, excludeID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrStudyNotFound
	}
	return s, err
}

// EnsureSchema creates the studies table when missing.
func (r *PGRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, Schema())
	return err
}
