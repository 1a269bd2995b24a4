package bootstrap

import (
	"context"
	"errors"

	electionqueries "voteguard/contexts/election-operations/election-service/application/queries"
	electionentities "voteguard/contexts/election-operations/election-service/domain/entities"
	electionerrors "voteguard/contexts/election-operations/election-service/domain/errors"
	electionports "voteguard/contexts/election-operations/election-service/ports"
	votequeries "voteguard/contexts/election-operations/voting-engine/application/queries"
	voteentities "voteguard/contexts/election-operations/voting-engine/domain/entities"
	voteerrors "voteguard/contexts/election-operations/voting-engine/domain/errors"
	voteports "voteguard/contexts/election-operations/voting-engine/ports"
	registryentities "voteguard/contexts/identity-access/voter-registry/domain/entities"
	registryerrors "voteguard/contexts/identity-access/voter-registry/domain/errors"
	registryports "voteguard/contexts/identity-access/voter-registry/ports"
	auditcommands "voteguard/contexts/trust-compliance/audit-trail/application/commands"
)

// Cross-context read models live here. Each context owns its own port
// definitions; the composition root is the only place allowed to glue one
// context's use cases behind another's ports.

// electionDirectory projects election-service data into the voting engine's
// read models.
type electionDirectory struct {
	overview electionqueries.OverviewUseCase
}

func (d electionDirectory) FindElection(ctx context.Context, electionID string) (voteports.ElectionRecord, error) {
	view, err := d.overview.GetElection(ctx, electionID)
	if err != nil {
		if errors.Is(err, electionerrors.ErrElectionNotFound) {
			return voteports.ElectionRecord{}, voteerrors.ErrElectionNotFound
		}
		return voteports.ElectionRecord{}, err
	}
	return voteports.ElectionRecord{
		ElectionID:     view.Election.ElectionID,
		Name:           view.Election.Name,
		Open:           view.EffectiveState == electionentities.StatusActive && view.Election.Active,
		CenterLocation: view.Election.ActiveCenterLocation,
	}, nil
}

type candidateDirectory struct {
	candidates electionports.CandidateRepository
}

func (d candidateDirectory) FindCandidate(ctx context.Context, candidateID string) (voteports.CandidateRecord, error) {
	candidate, err := d.candidates.GetCandidate(ctx, candidateID)
	if err != nil {
		if errors.Is(err, electionerrors.ErrCandidateNotFound) {
			return voteports.CandidateRecord{}, voteerrors.ErrCandidateNotFound
		}
		return voteports.CandidateRecord{}, err
	}
	return voteports.CandidateRecord{
		CandidateID: candidate.CandidateID,
		ElectionID:  candidate.ElectionID,
		FullName:    candidate.FullName,
		Active:      candidate.Active,
	}, nil
}

// voterDirectory projects the voter roll into the voting engine.
type voterDirectory struct {
	voters registryports.VoterRepository
}

func (d voterDirectory) FindVoter(ctx context.Context, voterID string) (voteports.VoterRecord, error) {
	voter, err := d.voters.GetVoter(ctx, registryentities.NormalizeVoterID(voterID))
	if err != nil {
		if errors.Is(err, registryerrors.ErrVoterNotFound) {
			return voteports.VoterRecord{}, voteerrors.ErrVoterNotFound
		}
		return voteports.VoterRecord{}, err
	}
	return voteports.VoterRecord{
		VoterID:           voter.VoterID,
		Active:            voter.Active,
		EligibleElections: voter.EligibleElections,
	}, nil
}

func (d voterDirectory) CountActiveVoters(ctx context.Context) (int64, error) {
	voters, err := d.voters.ListVoters(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	for _, voter := range voters {
		if voter.Active {
			count++
		}
	}
	return count, nil
}

// electionCatalog projects election-service elections into the voter
// registry's catalog.
type electionCatalog struct {
	overview electionqueries.OverviewUseCase
}

func (c electionCatalog) ListOpenElections(ctx context.Context) ([]registryports.ElectionRef, error) {
	views, err := c.overview.ListElections(ctx)
	if err != nil {
		return nil, err
	}
	refs := make([]registryports.ElectionRef, 0, len(views))
	for _, view := range views {
		if view.EffectiveState != electionentities.StatusActive || !view.Election.Active {
			continue
		}
		refs = append(refs, electionRef(view))
	}
	return refs, nil
}

func (c electionCatalog) FindByCode(ctx context.Context, electionCode string) (registryports.ElectionRef, error) {
	view, err := c.overview.ValidateCode(ctx, electionCode)
	if err != nil {
		if errors.Is(err, electionerrors.ErrInvalidElectionCode) || errors.Is(err, electionerrors.ErrElectionNotFound) {
			return registryports.ElectionRef{}, registryerrors.ErrInvalidElectionCode
		}
		return registryports.ElectionRef{}, err
	}
	return electionRef(view), nil
}

func electionRef(view electionqueries.ElectionView) registryports.ElectionRef {
	return registryports.ElectionRef{
		ElectionID:   view.Election.ElectionID,
		ElectionCode: view.Election.ElectionCode,
		Name:         view.Election.Name,
		Open:         view.EffectiveState == electionentities.StatusActive && view.Election.Active,
	}
}

// ledgerVoteCheck answers the registry's "has this voter already cast a
// ballot" question from the vote ledger.
type ledgerVoteCheck struct {
	tally votequeries.TallyUseCase
}

func (c ledgerVoteCheck) HasVoted(ctx context.Context, voterID, electionID string) (bool, error) {
	scope := voteentities.GlobalElection()
	if electionID != "" {
		scope = voteentities.ScopedElection(electionID)
	}
	return c.tally.HasVoted(ctx, voterID, scope)
}

// trailRecorder adapts the audit-trail recorder to the registry's
// fire-and-forget port.
type trailRecorder struct {
	recorder auditcommands.Recorder
}

func (r trailRecorder) Record(ctx context.Context, actorID, action, resource string, detail map[string]any) {
	r.recorder.Record(ctx, auditcommands.RecordCommand{
		ActorID:  actorID,
		Action:   action,
		Resource: resource,
		Detail:   detail,
	})
}

// trailEmitter writes a trail entry for every committed ballot.
type trailEmitter struct {
	recorder auditcommands.Recorder
}

func (e trailEmitter) EmitVoteCast(ctx context.Context, vote voteentities.Vote) {
	e.recorder.Record(ctx, auditcommands.RecordCommand{
		ActorID:   vote.VoterID,
		Action:    "vote.cast",
		Resource:  "election:" + vote.Scope.String(),
		IPAddress: vote.IPAddress,
		UserAgent: vote.UserAgent,
		Detail: map[string]any{
			"vote_id":         vote.VoteID,
			"candidate_id":    vote.CandidateID,
			"center_location": vote.CenterLocation,
		},
	})
}

var (
	_ voteports.ElectionDirectory    = electionDirectory{}
	_ voteports.CandidateDirectory   = candidateDirectory{}
	_ voteports.VoterDirectory       = voterDirectory{}
	_ registryports.ElectionCatalog  = electionCatalog{}
	_ registryports.VoteCheck        = ledgerVoteCheck{}
	_ registryports.AuditRecorder    = trailRecorder{}
	_ voteports.AuditEmitter         = trailEmitter{}
)
