package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"voteguard/contexts/election-operations/election-service/domain/entities"
	domainerrors "voteguard/contexts/election-operations/election-service/domain/errors"
	"voteguard/contexts/election-operations/election-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
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

func (r *Repository) SaveElection(ctx context.Context, election entities.Election) error {
	row := electionModelFromEntity(election)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"name":        row.Name,
			"description": row.Description,
			"start_at":    row.StartAt,
			"end_at":      row.EndAt,
			"status":      row.Status,
			"is_active":   row.IsActive,
			"updated_at":  row.UpdatedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		if isUniqueViolation(create.Error) {
			return domainerrors.ErrElectionCodeTaken
		}
		return r.logError("election_repo_save_election_failed", create.Error,
			"election_id", strings.TrimSpace(election.ElectionID),
		)
	}
	return nil
}

func (r *Repository) GetElection(ctx context.Context, electionID string) (entities.Election, error) {
	var row electionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(electionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Election{}, domainerrors.ErrElectionNotFound
		}
		return entities.Election{}, r.logError("election_repo_get_election_failed", err,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) GetElectionByCode(ctx context.Context, electionCode string) (entities.Election, error) {
	var row electionModel
	err := r.db.WithContext(ctx).
		Where("election_code = ?", entities.NormalizeElectionCode(electionCode)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Election{}, domainerrors.ErrElectionNotFound
		}
		return entities.Election{}, r.logError("election_repo_get_election_by_code_failed", err,
			"election_code", entities.NormalizeElectionCode(electionCode),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListElections(ctx context.Context) ([]entities.Election, error) {
	var rows []electionModel
	if err := r.db.WithContext(ctx).
		Order("start_at DESC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("election_repo_list_elections_failed", err)
	}
	items := make([]entities.Election, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) SetCenterOTP(
	ctx context.Context,
	electionID string,
	otp string,
	expiresAt time.Time,
	updatedAt time.Time,
) error {
	result := r.db.WithContext(ctx).
		Model(&electionModel{}).
		Where("id = ?", strings.TrimSpace(electionID)).
		Updates(map[string]any{
			"center_otp":     strings.TrimSpace(otp),
			"otp_expires_at": expiresAt.UTC(),
			"updated_at":     updatedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("election_repo_set_center_otp_failed", result.Error,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrElectionNotFound
	}
	return nil
}

// RedeemCenterOTP locks the election row for the duration of the validate +
// clear + bind update, so two concurrent redemptions with the same passcode
// resolve to exactly one winner.
func (r *Repository) RedeemCenterOTP(
	ctx context.Context,
	electionID string,
	otp string,
	centerLocation string,
	now time.Time,
) (entities.Election, error) {
	var redeemed entities.Election
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row electionModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", strings.TrimSpace(electionID)).
			First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrElectionNotFound
			}
			return err
		}

		election := row.toEntity()
		if err := election.ValidateOTP(otp, now); err != nil {
			return err
		}

		location := strings.TrimSpace(centerLocation)
		if err := tx.Model(&electionModel{}).
			Where("id = ?", row.ID).
			Updates(map[string]any{
				"center_otp":             nil,
				"otp_expires_at":         nil,
				"active_center_location": location,
				"updated_at":             now.UTC(),
			}).Error; err != nil {
			return err
		}

		election.CenterOTP = ""
		election.OTPExpiresAt = nil
		election.ActiveCenterLocation = location
		election.UpdatedAt = now.UTC()
		redeemed = election
		return nil
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrElectionNotFound) ||
			errors.Is(err, domainerrors.ErrOTPMismatch) ||
			errors.Is(err, domainerrors.ErrOTPExpired) {
			return entities.Election{}, err
		}
		return entities.Election{}, r.logError("election_repo_redeem_center_otp_failed", err,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	return redeemed, nil
}

func (r *Repository) UpdateStatus(
	ctx context.Context,
	electionID string,
	status entities.ElectionStatus,
	updatedAt time.Time,
) error {
	result := r.db.WithContext(ctx).
		Model(&electionModel{}).
		Where("id = ?", strings.TrimSpace(electionID)).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": updatedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("election_repo_update_status_failed", result.Error,
			"election_id", strings.TrimSpace(electionID),
			"status", string(status),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrElectionNotFound
	}
	return nil
}

func (r *Repository) SetActive(ctx context.Context, electionID string, active bool, updatedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&electionModel{}).
		Where("id = ?", strings.TrimSpace(electionID)).
		Updates(map[string]any{
			"is_active":  active,
			"updated_at": updatedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("election_repo_set_active_failed", result.Error,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrElectionNotFound
	}
	return nil
}

func (r *Repository) SaveCandidate(ctx context.Context, candidate entities.Candidate) error {
	row := candidateModelFromEntity(candidate)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"full_name":  row.FullName,
			"party":      row.Party,
			"number":     row.Number,
			"is_active":  row.IsActive,
			"updated_at": row.UpdatedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		return r.logError("election_repo_save_candidate_failed", create.Error,
			"candidate_id", strings.TrimSpace(candidate.CandidateID),
			"election_id", strings.TrimSpace(candidate.ElectionID),
		)
	}
	return nil
}

func (r *Repository) GetCandidate(ctx context.Context, candidateID string) (entities.Candidate, error) {
	var row candidateModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(candidateID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Candidate{}, domainerrors.ErrCandidateNotFound
		}
		return entities.Candidate{}, r.logError("election_repo_get_candidate_failed", err,
			"candidate_id", strings.TrimSpace(candidateID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListCandidatesByElection(ctx context.Context, electionID string) ([]entities.Candidate, error) {
	var rows []candidateModel
	if err := r.db.WithContext(ctx).
		Where("election_id = ?", strings.TrimSpace(electionID)).
		Order("number ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("election_repo_list_candidates_failed", err,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	items := make([]entities.Candidate, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "election-operations/election-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("election repository operation failed", fields...)
	return err
}

type electionModel struct {
	ID                   string     `gorm:"column:id;primaryKey"`
	Name                 string     `gorm:"column:name"`
	Description          string     `gorm:"column:description"`
	ElectionCode         string     `gorm:"column:election_code;uniqueIndex"`
	CenterOTP            *string    `gorm:"column:center_otp"`
	OTPExpiresAt         *time.Time `gorm:"column:otp_expires_at"`
	ActiveCenterLocation *string    `gorm:"column:active_center_location"`
	StartAt              time.Time  `gorm:"column:start_at"`
	EndAt                time.Time  `gorm:"column:end_at"`
	Status               string     `gorm:"column:status"`
	IsActive             bool       `gorm:"column:is_active"`
	CreatedAt            time.Time  `gorm:"column:created_at"`
	UpdatedAt            time.Time  `gorm:"column:updated_at"`
}

func (electionModel) TableName() string {
	return "elections"
}

func electionModelFromEntity(election entities.Election) electionModel {
	row := electionModel{
		ID:           strings.TrimSpace(election.ElectionID),
		Name:         strings.TrimSpace(election.Name),
		Description:  strings.TrimSpace(election.Description),
		ElectionCode: entities.NormalizeElectionCode(election.ElectionCode),
		StartAt:      election.StartAt.UTC(),
		EndAt:        election.EndAt.UTC(),
		Status:       string(election.Status),
		IsActive:     election.Active,
		CreatedAt:    election.CreatedAt.UTC(),
		UpdatedAt:    election.UpdatedAt.UTC(),
	}
	if otp := strings.TrimSpace(election.CenterOTP); otp != "" {
		row.CenterOTP = &otp
	}
	if election.OTPExpiresAt != nil {
		expiresAt := election.OTPExpiresAt.UTC()
		row.OTPExpiresAt = &expiresAt
	}
	if location := strings.TrimSpace(election.ActiveCenterLocation); location != "" {
		row.ActiveCenterLocation = &location
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m electionModel) toEntity() entities.Election {
	election := entities.Election{
		ElectionID:   m.ID,
		Name:         m.Name,
		Description:  m.Description,
		ElectionCode: m.ElectionCode,
		StartAt:      m.StartAt.UTC(),
		EndAt:        m.EndAt.UTC(),
		Status:       entities.ElectionStatus(m.Status),
		Active:       m.IsActive,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
	if m.CenterOTP != nil {
		election.CenterOTP = strings.TrimSpace(*m.CenterOTP)
	}
	if m.OTPExpiresAt != nil {
		expiresAt := m.OTPExpiresAt.UTC()
		election.OTPExpiresAt = &expiresAt
	}
	if m.ActiveCenterLocation != nil {
		election.ActiveCenterLocation = strings.TrimSpace(*m.ActiveCenterLocation)
	}
	return election
}

type candidateModel struct {
	ID         string    `gorm:"column:id;primaryKey"`
	ElectionID string    `gorm:"column:election_id"`
	FullName   string    `gorm:"column:full_name"`
	Party      string    `gorm:"column:party"`
	Number     int       `gorm:"column:number"`
	IsActive   bool      `gorm:"column:is_active"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (candidateModel) TableName() string {
	return "candidates"
}

func candidateModelFromEntity(candidate entities.Candidate) candidateModel {
	row := candidateModel{
		ID:         strings.TrimSpace(candidate.CandidateID),
		ElectionID: strings.TrimSpace(candidate.ElectionID),
		FullName:   strings.TrimSpace(candidate.FullName),
		Party:      strings.TrimSpace(candidate.Party),
		Number:     candidate.Number,
		IsActive:   candidate.Active,
		CreatedAt:  candidate.CreatedAt.UTC(),
		UpdatedAt:  candidate.UpdatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m candidateModel) toEntity() entities.Candidate {
	return entities.Candidate{
		CandidateID: m.ID,
		ElectionID:  m.ElectionID,
		FullName:    m.FullName,
		Party:       m.Party,
		Number:      m.Number,
		Active:      m.IsActive,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Models lists the gorm models this adapter owns, for startup migration.
func Models() []any {
	return []any{&electionModel{}, &candidateModel{}}
}

var _ ports.ElectionRepository = (*Repository)(nil)
var _ ports.CandidateRepository = (*Repository)(nil)
