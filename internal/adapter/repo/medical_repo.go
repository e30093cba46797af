package repo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carebridge/server/internal/domain"
)

// MedicalRecordRepositoryPG implements MedicalRecordRepository using PostgreSQL.
type MedicalRecordRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewMedicalRecordRepository creates a new medical record repo.
func NewMedicalRecordRepository(pool *pgxpool.Pool) *MedicalRecordRepositoryPG {
	return &MedicalRecordRepositoryPG{pool: pool}
}

// Create inserts a new document reference.
func (r *MedicalRecordRepositoryPG) Create(ctx context.Context, record *domain.MedicalRecord) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO medical_records (id, campaign_id, title, document_url, uploaded_by)
VALUES ($1, $2, $3, $4, $5);
`, record.ID, record.CampaignID, record.Title, record.DocumentURL, record.UploadedBy)
	if isForeignKeyViolation(err) {
		return domain.ErrCampaignNotFound
	}
	return err
}

// ListByCampaign returns the campaign's document references.
func (r *MedicalRecordRepositoryPG) ListByCampaign(ctx context.Context, campaignID string) ([]domain.MedicalRecord, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, campaign_id, title, document_url, uploaded_by, created_at
FROM medical_records
WHERE campaign_id = $1
ORDER BY created_at DESC;
`, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.MedicalRecord
	for rows.Next() {
		var m domain.MedicalRecord
		if err := rows.Scan(&m.ID, &m.CampaignID, &m.Title, &m.DocumentURL, &m.UploadedBy, &m.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}
