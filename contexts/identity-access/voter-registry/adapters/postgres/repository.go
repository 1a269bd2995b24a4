package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"voteguard/contexts/identity-access/voter-registry/domain/entities"
	domainerrors "voteguard/contexts/identity-access/voter-registry/domain/errors"
	"voteguard/contexts/identity-access/voter-registry/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// SaveVoter is a strict insert; a second registration with the same VoterID
// surfaces as ErrVoterAlreadyRegistered from the unique index.
func (r *Repository) SaveVoter(ctx context.Context, voter entities.Voter) error {
	row, err := voterModelFromEntity(voter)
	if err != nil {
		return r.logError("voter_repo_encode_failed", err, "voter_id", voter.VoterID)
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrVoterAlreadyRegistered
		}
		return r.logError("voter_repo_save_failed", err, "voter_id", voter.VoterID)
	}
	return nil
}

func (r *Repository) GetVoter(ctx context.Context, voterID string) (entities.Voter, error) {
	var row voterModel
	err := r.db.WithContext(ctx).
		Where("voter_id = ?", entities.NormalizeVoterID(voterID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Voter{}, domainerrors.ErrVoterNotFound
		}
		return entities.Voter{}, r.logError("voter_repo_get_failed", err, "voter_id", voterID)
	}
	return row.toEntity()
}

func (r *Repository) UpdateEligibility(
	ctx context.Context,
	voterID string,
	electionIDs []string,
	updatedAt time.Time,
) error {
	encoded, err := json.Marshal(entities.NormalizeEligibility(electionIDs))
	if err != nil {
		return r.logError("voter_repo_encode_failed", err, "voter_id", voterID)
	}
	result := r.db.WithContext(ctx).
		Model(&voterModel{}).
		Where("voter_id = ?", entities.NormalizeVoterID(voterID)).
		Updates(map[string]any{
			"eligible_elections": encoded,
			"updated_at":         updatedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("voter_repo_update_eligibility_failed", result.Error, "voter_id", voterID)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrVoterNotFound
	}
	return nil
}

func (r *Repository) SetActive(ctx context.Context, voterID string, active bool, updatedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&voterModel{}).
		Where("voter_id = ?", entities.NormalizeVoterID(voterID)).
		Updates(map[string]any{
			"is_active":  active,
			"updated_at": updatedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("voter_repo_set_active_failed", result.Error, "voter_id", voterID)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrVoterNotFound
	}
	return nil
}

func (r *Repository) ListVoters(ctx context.Context) ([]entities.Voter, error) {
	var rows []voterModel
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("voter_repo_list_failed", err)
	}
	items := make([]entities.Voter, 0, len(rows))
	for _, row := range rows {
		voter, err := row.toEntity()
		if err != nil {
			return nil, r.logError("voter_repo_decode_failed", err, "voter_id", row.VoterID)
		}
		items = append(items, voter)
	}
	return items, nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "identity-access/voter-registry",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("voter repository operation failed", fields...)
	return err
}

type voterModel struct {
	VoterID             string          `gorm:"column:voter_id;primaryKey"`
	FullName            string          `gorm:"column:full_name"`
	Email               string          `gorm:"column:email"`
	ExtraField          string          `gorm:"column:extra_field"`
	FingerprintTemplate string          `gorm:"column:fingerprint_template"`
	IsActive            bool            `gorm:"column:is_active"`
	EligibleElections   json.RawMessage `gorm:"column:eligible_elections;type:jsonb"`
	CreatedAt           time.Time       `gorm:"column:created_at"`
	UpdatedAt           time.Time       `gorm:"column:updated_at"`
}

func (voterModel) TableName() string {
	return "voters"
}

func voterModelFromEntity(voter entities.Voter) (voterModel, error) {
	encoded, err := json.Marshal(entities.NormalizeEligibility(voter.EligibleElections))
	if err != nil {
		return voterModel{}, err
	}
	row := voterModel{
		VoterID:             entities.NormalizeVoterID(voter.VoterID),
		FullName:            voter.FullName,
		Email:               voter.Email,
		ExtraField:          voter.ExtraField,
		FingerprintTemplate: voter.FingerprintTemplate,
		IsActive:            voter.Active,
		EligibleElections:   encoded,
		CreatedAt:           voter.CreatedAt.UTC(),
		UpdatedAt:           voter.UpdatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row, nil
}

func (m voterModel) toEntity() (entities.Voter, error) {
	var eligible []string
	if len(m.EligibleElections) > 0 {
		if err := json.Unmarshal(m.EligibleElections, &eligible); err != nil {
			return entities.Voter{}, err
		}
	}
	return entities.Voter{
		VoterID:             m.VoterID,
		FullName:            m.FullName,
		Email:               m.Email,
		ExtraField:          m.ExtraField,
		FingerprintTemplate: m.FingerprintTemplate,
		Active:              m.IsActive,
		EligibleElections:   eligible,
		CreatedAt:           m.CreatedAt.UTC(),
		UpdatedAt:           m.UpdatedAt.UTC(),
	}, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Models lists the gorm models this adapter owns, for startup migration.
func Models() []any {
	return []any{&voterModel{}}
}

var _ ports.VoterRepository = (*Repository)(nil)
