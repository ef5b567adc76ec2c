package services

import (
	"time"

	"craftlink_backend/internal/logger"
	"craftlink_backend/internal/models"
	"craftlink_backend/internal/repositories"
	"craftlink_backend/internal/services/dto"
	"craftlink_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// ProposalService owns the proposal lifecycle: pending on creation, then a
// single transition to accepted, rejected, or withdrawn. Terminal statuses
// never transition again.
type ProposalService struct {
	db            *gorm.DB
	proposals     repositories.ProposalRepository
	jobs          repositories.JobRepository
	users         repositories.UserRepository
	notifications *NotificationService
}

func NewProposalService(
	db *gorm.DB,
	proposals repositories.ProposalRepository,
	jobs repositories.JobRepository,
	users repositories.UserRepository,
	notifications *NotificationService,
) *ProposalService {
	return &ProposalService{
		db:            db,
		proposals:     proposals,
		jobs:          jobs,
		users:         users,
		notifications: notifications,
	}
}

// Create submits a proposal on an open job. The insert and the job counter
// increment commit together; the counter is monotonic and counts submissions,
// not currently-pending proposals.
func (s *ProposalService) Create(creatorID string, req dto.CreateProposalRequest) (*dto.ProposalResponse, error) {
	user, err := s.users.FindByID(creatorID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if !user.Role.CanActAsCreator() {
		return nil, apperrors.ErrInvalidUserRole
	}

	job, err := s.jobs.FindByID(req.JobID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if job.ClientID == creatorID {
		return nil, apperrors.ErrCannotProposeOwnJob
	}
	if job.Status != models.JobStatusOpen {
		return nil, apperrors.ErrJobNotOpen
	}

	proposal := &models.Proposal{
		JobID:       req.JobID,
		CreatorID:   creatorID,
		CoverLetter: req.CoverLetter,
		Price:       req.Price,
		Status:      models.ProposalStatusPending,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.proposals.WithTx(tx).Create(proposal); err != nil {
			return err
		}
		return s.jobs.WithTx(tx).IncrementProposals(req.JobID)
	})
	if err != nil {
		if apperrors.Is(err, repositories.ErrProposalExists) {
			return nil, apperrors.ErrProposalAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	if err := s.notifications.NotifyProposalReceived(job.ClientID, job.ID, job.Title, proposal.ID); err != nil {
		logger.Warn("proposal notification failed", "proposal_id", proposal.ID, "error", err.Error())
	}

	resp := dto.ToProposalResponse(proposal)
	return &resp, nil
}

// Accept commits the whole accept cascade in one transaction: the proposal
// moves to accepted, the job binds the creator and moves to in_progress with
// started_at set, and every other pending proposal on the job is rejected.
// Either all of it persists or none of it does. Notifications go out only
// after the commit.
func (s *ProposalService) Accept(clientID, proposalID string) (*dto.ProposalResponse, error) {
	var (
		proposal *models.Proposal
		job      *models.Job
		rejected []models.Proposal
	)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		proposalRepo := s.proposals.WithTx(tx)
		jobRepo := s.jobs.WithTx(tx)

		var err error
		proposal, err = proposalRepo.FindByID(proposalID)
		if err != nil {
			return err
		}
		if proposal.Status != models.ProposalStatusPending {
			return apperrors.ErrInvalidProposalStatus
		}

		job, err = jobRepo.FindByID(proposal.JobID)
		if err != nil {
			return err
		}
		if job.ClientID != clientID {
			return apperrors.ErrInsufficientPermissions
		}
		if job.Status != models.JobStatusOpen {
			return apperrors.ErrJobNotOpen
		}

		if err := proposalRepo.UpdateStatus(proposalID, models.ProposalStatusAccepted); err != nil {
			return err
		}

		if err := jobRepo.AssignCreator(job.ID, proposal.CreatorID, time.Now()); err != nil {
			return err
		}

		rejected, err = proposalRepo.RejectPending(job.ID, proposalID)
		return err
	})
	if err != nil {
		return nil, s.mapProposalError(err)
	}

	proposal.Status = models.ProposalStatusAccepted

	if err := s.notifications.NotifyProposalAccepted(proposal.CreatorID, job.ID, job.Title, proposal.ID); err != nil {
		logger.Warn("accept notification failed", "proposal_id", proposal.ID, "error", err.Error())
	}
	for i := range rejected {
		if err := s.notifications.NotifyProposalRejected(rejected[i].CreatorID, job.ID, job.Title, rejected[i].ID); err != nil {
			logger.Warn("reject notification failed", "proposal_id", rejected[i].ID, "error", err.Error())
		}
	}

	resp := dto.ToProposalResponse(proposal)
	return &resp, nil
}

// Reject moves a single pending proposal to rejected. Only the job owner may
// do this; the job itself is untouched.
func (s *ProposalService) Reject(clientID, proposalID string) (*dto.ProposalResponse, error) {
	proposal, err := s.proposals.FindByID(proposalID)
	if err != nil {
		return nil, s.mapProposalError(err)
	}
	if proposal.Status != models.ProposalStatusPending {
		return nil, apperrors.ErrInvalidProposalStatus
	}

	job, err := s.jobs.FindByID(proposal.JobID)
	if err != nil {
		return nil, s.mapProposalError(err)
	}
	if job.ClientID != clientID {
		return nil, apperrors.ErrInsufficientPermissions
	}

	if err := s.proposals.UpdateStatus(proposalID, models.ProposalStatusRejected); err != nil {
		return nil, s.mapProposalError(err)
	}
	proposal.Status = models.ProposalStatusRejected

	if err := s.notifications.NotifyProposalRejected(proposal.CreatorID, job.ID, job.Title, proposal.ID); err != nil {
		logger.Warn("reject notification failed", "proposal_id", proposal.ID, "error", err.Error())
	}

	resp := dto.ToProposalResponse(proposal)
	return &resp, nil
}

// Withdraw lets the proposal's own creator pull a pending proposal. The job
// counter stays as is. A failed authorization check changes nothing.
func (s *ProposalService) Withdraw(creatorID, proposalID string) (*dto.ProposalResponse, error) {
	proposal, err := s.proposals.FindByID(proposalID)
	if err != nil {
		return nil, s.mapProposalError(err)
	}
	if proposal.CreatorID != creatorID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if proposal.Status != models.ProposalStatusPending {
		return nil, apperrors.ErrInvalidProposalStatus
	}

	if err := s.proposals.UpdateStatus(proposalID, models.ProposalStatusWithdrawn); err != nil {
		return nil, s.mapProposalError(err)
	}
	proposal.Status = models.ProposalStatusWithdrawn

	resp := dto.ToProposalResponse(proposal)
	return &resp, nil
}

// GetByID returns a proposal to its creator or the job's client.
func (s *ProposalService) GetByID(userID, proposalID string) (*dto.ProposalResponse, error) {
	proposal, err := s.proposals.FindByID(proposalID)
	if err != nil {
		return nil, s.mapProposalError(err)
	}
	if proposal.CreatorID != userID {
		job, err := s.jobs.FindByID(proposal.JobID)
		if err != nil {
			return nil, s.mapProposalError(err)
		}
		if job.ClientID != userID {
			return nil, apperrors.ErrInsufficientPermissions
		}
	}

	resp := dto.ToProposalResponse(proposal)
	return &resp, nil
}

// ListByJob returns all proposals on a job to its owning client.
func (s *ProposalService) ListByJob(clientID, jobID string) (*dto.ProposalListResponse, error) {
	job, err := s.jobs.FindByID(jobID)
	if err != nil {
		return nil, s.mapProposalError(err)
	}
	if job.ClientID != clientID {
		return nil, apperrors.ErrInsufficientPermissions
	}

	proposals, err := s.proposals.ListByJob(jobID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := dto.ToProposalListResponse(proposals)
	return &resp, nil
}

// ListMine returns the creator's own proposals.
func (s *ProposalService) ListMine(creatorID string) (*dto.ProposalListResponse, error) {
	proposals, err := s.proposals.ListByCreator(creatorID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := dto.ToProposalListResponse(proposals)
	return &resp, nil
}

// GetStats returns the creator's aggregate proposal outcomes.
func (s *ProposalService) GetStats(creatorID string) (*repositories.ProposalStats, error) {
	stats, err := s.proposals.GetCreatorStats(creatorID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return stats, nil
}

func (s *ProposalService) mapProposalError(err error) error {
	switch {
	case apperrors.Is(err, repositories.ErrProposalNotFound),
		apperrors.Is(err, repositories.ErrJobNotFound):
		return apperrors.ErrNotFound(err)
	}
	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) {
		return appErr
	}
	return apperrors.InternalError(err)
}
