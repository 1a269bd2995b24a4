package memory

import (
	"context"
	"sync"
	"time"

	"voteguard/contexts/identity-access/voter-registry/domain/entities"
	domainerrors "voteguard/contexts/identity-access/voter-registry/domain/errors"
	"voteguard/contexts/identity-access/voter-registry/ports"
)

// AuditEntry captures one fire-and-forget audit call for assertions.
type AuditEntry struct {
	ActorID  string
	Action   string
	Resource string
	Detail   map[string]any
}

// Store is the in-memory registry backend used for local runs and tests. It
// also stands in for the cross-context projections and the biometric service.
type Store struct {
	mu             sync.RWMutex
	voters         map[string]entities.Voter
	elections      map[string]ports.ElectionRef
	voted          map[string]bool
	now            time.Time
	biometricMatch bool
	biometricErr   error
	audits         []AuditEntry
}

func NewStore(seed []entities.Voter) *Store {
	store := &Store{
		voters:         make(map[string]entities.Voter),
		elections:      make(map[string]ports.ElectionRef),
		voted:          make(map[string]bool),
		biometricMatch: true,
	}
	for _, voter := range seed {
		store.voters[entities.NormalizeVoterID(voter.VoterID)] = voter
	}
	return store
}

func (s *Store) SetNow(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) SetVoter(voter entities.Voter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.voters[entities.NormalizeVoterID(voter.VoterID)] = voter
}

func (s *Store) SetElectionRef(ref ports.ElectionRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elections[ref.ElectionID] = ref
}

func (s *Store) SetVoted(voterID, electionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.voted[voteKey(entities.NormalizeVoterID(voterID), electionID)] = true
}

// SetBiometric fixes the verdict of subsequent Match calls; a non-nil err
// simulates an unreachable matching service.
func (s *Store) SetBiometric(match bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.biometricMatch = match
	s.biometricErr = err
}

func (s *Store) AuditEntries() []AuditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]AuditEntry, len(s.audits))
	copy(out, s.audits)
	return out
}

func (s *Store) SaveVoter(_ context.Context, voter entities.Voter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := entities.NormalizeVoterID(voter.VoterID)
	if _, exists := s.voters[key]; exists {
		return domainerrors.ErrVoterAlreadyRegistered
	}
	s.voters[key] = voter
	return nil
}

func (s *Store) GetVoter(_ context.Context, voterID string) (entities.Voter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	voter, ok := s.voters[entities.NormalizeVoterID(voterID)]
	if !ok {
		return entities.Voter{}, domainerrors.ErrVoterNotFound
	}
	return voter, nil
}

func (s *Store) UpdateEligibility(
	_ context.Context,
	voterID string,
	electionIDs []string,
	updatedAt time.Time,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := entities.NormalizeVoterID(voterID)
	voter, ok := s.voters[key]
	if !ok {
		return domainerrors.ErrVoterNotFound
	}
	voter.EligibleElections = entities.NormalizeEligibility(electionIDs)
	voter.UpdatedAt = updatedAt
	s.voters[key] = voter
	return nil
}

func (s *Store) SetActive(_ context.Context, voterID string, active bool, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := entities.NormalizeVoterID(voterID)
	voter, ok := s.voters[key]
	if !ok {
		return domainerrors.ErrVoterNotFound
	}
	voter.Active = active
	voter.UpdatedAt = updatedAt
	s.voters[key] = voter
	return nil
}

func (s *Store) ListVoters(_ context.Context) ([]entities.Voter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Voter, 0, len(s.voters))
	for _, voter := range s.voters {
		items = append(items, voter)
	}
	return items, nil
}

func (s *Store) ListOpenElections(_ context.Context) ([]ports.ElectionRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]ports.ElectionRef, 0, len(s.elections))
	for _, ref := range s.elections {
		if ref.Open {
			items = append(items, ref)
		}
	}
	return items, nil
}

func (s *Store) FindByCode(_ context.Context, electionCode string) (ports.ElectionRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ref := range s.elections {
		if ref.ElectionCode == electionCode {
			return ref, nil
		}
	}
	return ports.ElectionRef{}, domainerrors.ErrInvalidElectionCode
}

func (s *Store) HasVoted(_ context.Context, voterID, electionID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.voted[voteKey(entities.NormalizeVoterID(voterID), electionID)], nil
}

func (s *Store) Match(_ context.Context, _, _ string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.biometricErr != nil {
		return false, s.biometricErr
	}
	return s.biometricMatch, nil
}

func (s *Store) Record(_ context.Context, actorID, action, resource string, detail map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audits = append(s.audits, AuditEntry{
		ActorID:  actorID,
		Action:   action,
		Resource: resource,
		Detail:   detail,
	})
}

func (s *Store) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.now.IsZero() {
		return time.Now().UTC()
	}
	return s.now
}

func voteKey(voterID, electionID string) string {
	return voterID + "|" + electionID
}

var _ ports.VoterRepository = (*Store)(nil)
var _ ports.ElectionCatalog = (*Store)(nil)
var _ ports.VoteCheck = (*Store)(nil)
var _ ports.BiometricVerifier = (*Store)(nil)
var _ ports.AuditRecorder = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
