package record

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"mentorgate/internal/sentinel"
	"mentorgate/internal/verification/models"
)

// PostgresStore persists verification records in PostgreSQL. The
// structured payloads (github data, document verdicts, failing
// requirements) are stored as JSONB.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed record store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Upsert(ctx context.Context, record *models.VerificationRecord) error {
	if record == nil {
		return fmt.Errorf("verification record is required")
	}

	var githubData []byte
	if record.GitHubData != nil {
		data, err := json.Marshal(record.GitHubData)
		if err != nil {
			return fmt.Errorf("marshal github data: %w", err)
		}
		githubData = data
	}
	documents, err := json.Marshal(record.Documents)
	if err != nil {
		return fmt.Errorf("marshal documents: %w", err)
	}
	failing, err := json.Marshal(record.FailingRequirements)
	if err != nil {
		return fmt.Errorf("marshal failing requirements: %w", err)
	}

	query := `
		INSERT INTO verification_records (
			subject_id, status, github_verified, github_data,
			documents_verified, documents, identity_verified,
			overall_score, failing_requirements, verification_date, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (subject_id) DO UPDATE SET
			status = EXCLUDED.status,
			github_verified = EXCLUDED.github_verified,
			github_data = EXCLUDED.github_data,
			documents_verified = EXCLUDED.documents_verified,
			documents = EXCLUDED.documents,
			identity_verified = EXCLUDED.identity_verified,
			overall_score = EXCLUDED.overall_score,
			failing_requirements = EXCLUDED.failing_requirements,
			verification_date = EXCLUDED.verification_date,
			updated_at = EXCLUDED.updated_at
	`
	_, err = s.db.ExecContext(ctx, query,
		record.SubjectID,
		string(record.Status),
		record.GitHubVerified,
		githubData,
		record.DocumentsVerified,
		documents,
		record.IdentityVerified,
		record.OverallScore,
		failing,
		record.VerificationDate,
		record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert verification record: %w", err)
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, subjectID uuid.UUID) (*models.VerificationRecord, error) {
	query := `
		SELECT subject_id, status, github_verified, github_data,
		       documents_verified, documents, identity_verified,
		       overall_score, failing_requirements, verification_date, updated_at
		FROM verification_records
		WHERE subject_id = $1
	`

	var (
		record     models.VerificationRecord
		status     string
		githubData []byte
		documents  []byte
		failing    []byte
	)
	err := s.db.QueryRowContext(ctx, query, subjectID).Scan(
		&record.SubjectID,
		&status,
		&record.GitHubVerified,
		&githubData,
		&record.DocumentsVerified,
		&documents,
		&record.IdentityVerified,
		&record.OverallScore,
		&failing,
		&record.VerificationDate,
		&record.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("verification record: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find verification record: %w", err)
	}

	record.Status = models.Status(status)
	if len(githubData) > 0 {
		var data models.GitHubData
		if err := json.Unmarshal(githubData, &data); err != nil {
			return nil, fmt.Errorf("unmarshal github data: %w", err)
		}
		record.GitHubData = &data
	}
	if len(documents) > 0 {
		if err := json.Unmarshal(documents, &record.Documents); err != nil {
			return nil, fmt.Errorf("unmarshal documents: %w", err)
		}
	}
	if len(failing) > 0 {
		if err := json.Unmarshal(failing, &record.FailingRequirements); err != nil {
			return nil, fmt.Errorf("unmarshal failing requirements: %w", err)
		}
	}
	return &record, nil
}
