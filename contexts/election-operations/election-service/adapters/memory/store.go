package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"voteguard/contexts/election-operations/election-service/domain/entities"
	domainerrors "voteguard/contexts/election-operations/election-service/domain/errors"
	"voteguard/contexts/election-operations/election-service/ports"

	"github.com/google/uuid"
)

// Store is an in-memory adapter implementing every election-service port.
// Redemption serializes on the store mutex, which gives the same single
// winner guarantee the row lock gives in Postgres.
type Store struct {
	mu sync.RWMutex

	elections  map[string]entities.Election
	candidates map[string]entities.Candidate

	now       time.Time
	nextOTP   string
	nextCodes []string
}

func NewStore(seed []entities.Election) *Store {
	elections := make(map[string]entities.Election, len(seed))
	for _, election := range seed {
		elections[election.ElectionID] = election
	}
	return &Store{
		elections:  elections,
		candidates: make(map[string]entities.Candidate),
	}
}

// SetNow pins the clock for tests; the zero value falls back to wall time.
func (s *Store) SetNow(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now.UTC()
}

// SetNextOTP fixes the next passcode the issuer hands out.
func (s *Store) SetNextOTP(otp string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextOTP = strings.TrimSpace(otp)
}

// SetNextElectionCodes queues deterministic election codes for tests.
func (s *Store) SetNextElectionCodes(codes ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextCodes = append([]string(nil), codes...)
}

func (s *Store) SetElection(election entities.Election) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elections[strings.TrimSpace(election.ElectionID)] = election
}

func (s *Store) SetCandidate(candidate entities.Candidate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidates[strings.TrimSpace(candidate.CandidateID)] = candidate
}

func (s *Store) SaveElection(_ context.Context, election entities.Election) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	code := entities.NormalizeElectionCode(election.ElectionCode)
	for _, existing := range s.elections {
		if existing.ElectionID != election.ElectionID && existing.ElectionCode == code {
			return domainerrors.ErrElectionCodeTaken
		}
	}
	s.elections[strings.TrimSpace(election.ElectionID)] = election
	return nil
}

func (s *Store) GetElection(_ context.Context, electionID string) (entities.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	election, ok := s.elections[strings.TrimSpace(electionID)]
	if !ok {
		return entities.Election{}, domainerrors.ErrElectionNotFound
	}
	return election, nil
}

func (s *Store) GetElectionByCode(_ context.Context, electionCode string) (entities.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	code := entities.NormalizeElectionCode(electionCode)
	for _, election := range s.elections {
		if election.ElectionCode == code {
			return election, nil
		}
	}
	return entities.Election{}, domainerrors.ErrElectionNotFound
}

func (s *Store) ListElections(_ context.Context) ([]entities.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Election, 0, len(s.elections))
	for _, election := range s.elections {
		items = append(items, election)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].StartAt.After(items[j].StartAt)
	})
	return items, nil
}

func (s *Store) SetCenterOTP(
	_ context.Context,
	electionID string,
	otp string,
	expiresAt time.Time,
	updatedAt time.Time,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	election, ok := s.elections[strings.TrimSpace(electionID)]
	if !ok {
		return domainerrors.ErrElectionNotFound
	}
	expiry := expiresAt.UTC()
	election.CenterOTP = strings.TrimSpace(otp)
	election.OTPExpiresAt = &expiry
	election.UpdatedAt = updatedAt.UTC()
	s.elections[election.ElectionID] = election
	return nil
}

func (s *Store) RedeemCenterOTP(
	_ context.Context,
	electionID string,
	otp string,
	centerLocation string,
	now time.Time,
) (entities.Election, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	election, ok := s.elections[strings.TrimSpace(electionID)]
	if !ok {
		return entities.Election{}, domainerrors.ErrElectionNotFound
	}
	if err := election.ValidateOTP(otp, now); err != nil {
		return entities.Election{}, err
	}
	election.CenterOTP = ""
	election.OTPExpiresAt = nil
	election.ActiveCenterLocation = strings.TrimSpace(centerLocation)
	election.UpdatedAt = now.UTC()
	s.elections[election.ElectionID] = election
	return election, nil
}

func (s *Store) UpdateStatus(
	_ context.Context,
	electionID string,
	status entities.ElectionStatus,
	updatedAt time.Time,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	election, ok := s.elections[strings.TrimSpace(electionID)]
	if !ok {
		return domainerrors.ErrElectionNotFound
	}
	election.Status = status
	election.UpdatedAt = updatedAt.UTC()
	s.elections[election.ElectionID] = election
	return nil
}

func (s *Store) SetActive(_ context.Context, electionID string, active bool, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	election, ok := s.elections[strings.TrimSpace(electionID)]
	if !ok {
		return domainerrors.ErrElectionNotFound
	}
	election.Active = active
	election.UpdatedAt = updatedAt.UTC()
	s.elections[election.ElectionID] = election
	return nil
}

func (s *Store) SaveCandidate(_ context.Context, candidate entities.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidates[strings.TrimSpace(candidate.CandidateID)] = candidate
	return nil
}

func (s *Store) GetCandidate(_ context.Context, candidateID string) (entities.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	candidate, ok := s.candidates[strings.TrimSpace(candidateID)]
	if !ok {
		return entities.Candidate{}, domainerrors.ErrCandidateNotFound
	}
	return candidate, nil
}

func (s *Store) ListCandidatesByElection(_ context.Context, electionID string) ([]entities.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Candidate, 0)
	for _, candidate := range s.candidates {
		if candidate.ElectionID == strings.TrimSpace(electionID) {
			items = append(items, candidate)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Number < items[j].Number
	})
	return items, nil
}

func (s *Store) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.now.IsZero() {
		return time.Now().UTC()
	}
	return s.now
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) NewElectionCode(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.nextCodes) > 0 {
		code := s.nextCodes[0]
		s.nextCodes = s.nextCodes[1:]
		return code, nil
	}
	return entities.NormalizeElectionCode(uuid.NewString()[:entities.ElectionCodeLength]), nil
}

func (s *Store) NewCenterOTP(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.nextOTP != "" {
		return s.nextOTP, nil
	}
	return "000000", nil
}

var _ ports.ElectionRepository = (*Store)(nil)
var _ ports.CandidateRepository = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
var _ ports.CodeIssuer = (*Store)(nil)
