package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"voteguard/contexts/election-operations/voting-engine/domain/entities"
	domainerrors "voteguard/contexts/election-operations/voting-engine/domain/errors"
	"voteguard/contexts/election-operations/voting-engine/ports"
)

// Store is the in-memory engine backend used for local runs and tests. It
// also stands in for the cross-context voter/election/candidate projections
// and the audit emitter.
type Store struct {
	mu         sync.RWMutex
	txMu       sync.Mutex
	votes      map[string]entities.Vote
	voters     map[string]ports.VoterRecord
	elections  map[string]ports.ElectionRecord
	candidates map[string]ports.CandidateRecord
	emitted    []entities.Vote
	now        time.Time
	idSeq      int
}

func NewStore() *Store {
	return &Store{
		votes:      make(map[string]entities.Vote),
		voters:     make(map[string]ports.VoterRecord),
		elections:  make(map[string]ports.ElectionRecord),
		candidates: make(map[string]ports.CandidateRecord),
	}
}

func (s *Store) SetNow(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) SetVoter(record ports.VoterRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.voters[record.VoterID] = record
}

func (s *Store) SetElection(record ports.ElectionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elections[record.ElectionID] = record
}

func (s *Store) SetCandidate(record ports.CandidateRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidates[record.CandidateID] = record
}

// EmittedAudits returns the votes handed to the audit emitter, in order.
func (s *Store) EmittedAudits() []entities.Vote {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entities.Vote, len(s.emitted))
	copy(out, s.emitted)
	return out
}

// InTx serializes writers the way a database transaction would for this
// workload; the uniqueness check in RecordVote stays race-free.
func (s *Store) InTx(_ context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(context.Background())
}

func (s *Store) RecordVote(_ context.Context, vote entities.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := voteKey(vote.VoterID, vote.Scope)
	if _, exists := s.votes[key]; exists {
		return domainerrors.ErrDuplicateVote
	}
	s.votes[key] = vote
	return nil
}

func (s *Store) HasVoted(_ context.Context, voterID string, scope entities.ElectionScope) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.votes[voteKey(voterID, scope)]
	return ok, nil
}

func (s *Store) TallyByCandidate(_ context.Context, scope entities.ElectionScope) ([]ports.CandidateCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byCandidate := make(map[string]int64)
	for _, vote := range s.votes {
		if vote.Scope == scope {
			byCandidate[vote.CandidateID]++
		}
	}
	counts := make([]ports.CandidateCount, 0, len(byCandidate))
	for candidateID, votes := range byCandidate {
		counts = append(counts, ports.CandidateCount{
			CandidateID: candidateID,
			Votes:       votes,
		})
	}
	return counts, nil
}

func (s *Store) CountVotes(_ context.Context, scope entities.ElectionScope) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for _, vote := range s.votes {
		if vote.Scope == scope {
			count++
		}
	}
	return count, nil
}

func (s *Store) FindVoter(_ context.Context, voterID string) (ports.VoterRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.voters[voterID]
	if !ok {
		return ports.VoterRecord{}, domainerrors.ErrVoterNotFound
	}
	return record, nil
}

func (s *Store) CountActiveVoters(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for _, record := range s.voters {
		if record.Active {
			count++
		}
	}
	return count, nil
}

func (s *Store) FindElection(_ context.Context, electionID string) (ports.ElectionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.elections[electionID]
	if !ok {
		return ports.ElectionRecord{}, domainerrors.ErrElectionNotFound
	}
	return record, nil
}

func (s *Store) FindCandidate(_ context.Context, candidateID string) (ports.CandidateRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.candidates[candidateID]
	if !ok {
		return ports.CandidateRecord{}, domainerrors.ErrCandidateNotFound
	}
	return record, nil
}

func (s *Store) EmitVoteCast(_ context.Context, vote entities.Vote) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emitted = append(s.emitted, vote)
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
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idSeq++
	return fmt.Sprintf("vote-%d", s.idSeq), nil
}

func voteKey(voterID string, scope entities.ElectionScope) string {
	return voterID + "|" + scope.String()
}

var _ ports.VoteLedger = (*Store)(nil)
var _ ports.Transactor = (*Store)(nil)
var _ ports.VoterDirectory = (*Store)(nil)
var _ ports.ElectionDirectory = (*Store)(nil)
var _ ports.CandidateDirectory = (*Store)(nil)
var _ ports.AuditEmitter = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
