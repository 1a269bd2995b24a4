package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"voteguard/contexts/election-operations/voting-engine/domain/entities"
	domainerrors "voteguard/contexts/election-operations/voting-engine/domain/errors"
	"voteguard/contexts/election-operations/voting-engine/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type txKey struct{}

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

// InTx runs fn in one database transaction. Repository calls made with the
// derived context join it.
func (r *Repository) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func (r *Repository) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return r.db.WithContext(ctx)
}

// RecordVote is a plain insert. The composite unique index on
// (voter_id, election_id) is the duplicate guard; a violation maps to
// ErrDuplicateVote and nothing else.
func (r *Repository) RecordVote(ctx context.Context, vote entities.Vote) error {
	row := voteModelFromEntity(vote)
	if err := r.conn(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrDuplicateVote
		}
		return r.logError("vote_ledger_record_failed", err,
			"voter_id", vote.VoterID,
			"scope", vote.Scope.String(),
		)
	}
	return nil
}

func (r *Repository) HasVoted(ctx context.Context, voterID string, scope entities.ElectionScope) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&voteModel{}).
		Where("voter_id = ? AND election_id = ?", strings.ToUpper(strings.TrimSpace(voterID)), scopeColumn(scope)).
		Count(&count).
		Error
	if err != nil {
		return false, r.logError("vote_ledger_has_voted_failed", err,
			"voter_id", voterID,
			"scope", scope.String(),
		)
	}
	return count > 0, nil
}

func (r *Repository) TallyByCandidate(ctx context.Context, scope entities.ElectionScope) ([]ports.CandidateCount, error) {
	type tallyRow struct {
		CandidateID string `gorm:"column:candidate_id"`
		Votes       int64  `gorm:"column:votes"`
	}
	var rows []tallyRow
	err := r.conn(ctx).
		Model(&voteModel{}).
		Select("candidate_id, COUNT(*) AS votes").
		Where("election_id = ?", scopeColumn(scope)).
		Group("candidate_id").
		Order("votes DESC, candidate_id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("vote_ledger_tally_failed", err, "scope", scope.String())
	}
	counts := make([]ports.CandidateCount, 0, len(rows))
	for _, row := range rows {
		counts = append(counts, ports.CandidateCount{
			CandidateID: row.CandidateID,
			Votes:       row.Votes,
		})
	}
	return counts, nil
}

func (r *Repository) CountVotes(ctx context.Context, scope entities.ElectionScope) (int64, error) {
	var count int64
	err := r.conn(ctx).
		Model(&voteModel{}).
		Where("election_id = ?", scopeColumn(scope)).
		Count(&count).
		Error
	if err != nil {
		return 0, r.logError("vote_ledger_count_failed", err, "scope", scope.String())
	}
	return count, nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "election-operations/voting-engine",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("vote ledger operation failed", fields...)
	return err
}

// voteModel stores the global scope as an empty election_id so the NOT NULL
// composite unique index covers both scoped and global ballots; Postgres
// would treat NULLs as distinct and let a voter cast twice globally.
type voteModel struct {
	ID                  string    `gorm:"column:id;primaryKey"`
	VoterID             string    `gorm:"column:voter_id;uniqueIndex:idx_votes_voter_election"`
	ElectionID          string    `gorm:"column:election_id;uniqueIndex:idx_votes_voter_election;not null"`
	CandidateID         string    `gorm:"column:candidate_id"`
	CenterLocation      string    `gorm:"column:center_location"`
	IPAddress           string    `gorm:"column:ip_address"`
	UserAgent           string    `gorm:"column:user_agent"`
	FingerprintVerified bool      `gorm:"column:fingerprint_verified"`
	CastAt              time.Time `gorm:"column:cast_at"`
}

func (voteModel) TableName() string {
	return "votes"
}

func scopeColumn(scope entities.ElectionScope) string {
	electionID, ok := scope.ElectionID()
	if !ok {
		return ""
	}
	return electionID
}

func voteModelFromEntity(vote entities.Vote) voteModel {
	return voteModel{
		ID:                  strings.TrimSpace(vote.VoteID),
		VoterID:             strings.ToUpper(strings.TrimSpace(vote.VoterID)),
		ElectionID:          scopeColumn(vote.Scope),
		CandidateID:         strings.TrimSpace(vote.CandidateID),
		CenterLocation:      strings.TrimSpace(vote.CenterLocation),
		IPAddress:           strings.TrimSpace(vote.IPAddress),
		UserAgent:           strings.TrimSpace(vote.UserAgent),
		FingerprintVerified: vote.FingerprintVerified,
		CastAt:              vote.CastAt.UTC(),
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Models lists the gorm models this adapter owns, for startup migration.
func Models() []any {
	return []any{&voteModel{}}
}

var _ ports.VoteLedger = (*Repository)(nil)
var _ ports.Transactor = (*Repository)(nil)
