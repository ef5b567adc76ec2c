package services

import (
	"testing"

	"craftlink_backend/internal/models"
	"craftlink_backend/internal/services/dto"
	"craftlink_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProposalCreate(t *testing.T) {
	env := newTestEnv(t)

	client := env.seedUser(t, models.UserRoleClient)
	creator := env.seedUser(t, models.UserRoleCreator)
	job := env.seedJob(t, client.ID, models.JobStatusOpen)

	req := dto.CreateProposalRequest{
		JobID:       job.ID,
		CoverLetter: "I would love to design this logo",
		Price:       450,
	}

	resp, err := env.proposalService.Create(creator.ID, req)
	require.NoError(t, err)
	assert.Equal(t, string(models.ProposalStatusPending), resp.Status)
	assert.Equal(t, creator.ID, resp.CreatorID)

	updated, err := env.jobs.FindByID(job.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Proposals)

	// The client gets a stored notification.
	count, err := env.notifications.GetUnreadCount(client.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestProposalCreate_Duplicate(t *testing.T) {
	env := newTestEnv(t)

	client := env.seedUser(t, models.UserRoleClient)
	creator := env.seedUser(t, models.UserRoleCreator)
	job := env.seedJob(t, client.ID, models.JobStatusOpen)

	req := dto.CreateProposalRequest{
		JobID:       job.ID,
		CoverLetter: "First submission on this job",
		Price:       450,
	}

	_, err := env.proposalService.Create(creator.ID, req)
	require.NoError(t, err)

	_, err = env.proposalService.Create(creator.ID, req)
	require.ErrorIs(t, err, apperrors.ErrProposalAlreadyExists)

	// The failed insert must not bump the counter.
	updated, err := env.jobs.FindByID(job.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Proposals)
}

func TestProposalCreate_Rejections(t *testing.T) {
	env := newTestEnv(t)

	client := env.seedUser(t, models.UserRoleClient)
	creator := env.seedUser(t, models.UserRoleCreator)

	t.Run("own job", func(t *testing.T) {
		both := env.seedUser(t, models.UserRoleBoth)
		job := env.seedJob(t, both.ID, models.JobStatusOpen)

		_, err := env.proposalService.Create(both.ID, dto.CreateProposalRequest{
			JobID:       job.ID,
			CoverLetter: "Proposing on my own job",
			Price:       100,
		})
		assert.ErrorIs(t, err, apperrors.ErrCannotProposeOwnJob)
	})

	t.Run("job not open", func(t *testing.T) {
		job := env.seedJob(t, client.ID, models.JobStatusDraft)

		_, err := env.proposalService.Create(creator.ID, dto.CreateProposalRequest{
			JobID:       job.ID,
			CoverLetter: "This job is still a draft",
			Price:       100,
		})
		assert.ErrorIs(t, err, apperrors.ErrJobNotOpen)
	})

	t.Run("client role cannot propose", func(t *testing.T) {
		job := env.seedJob(t, client.ID, models.JobStatusOpen)
		otherClient := env.seedUser(t, models.UserRoleClient)

		_, err := env.proposalService.Create(otherClient.ID, dto.CreateProposalRequest{
			JobID:       job.ID,
			CoverLetter: "Clients cannot submit proposals",
			Price:       100,
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidUserRole)
	})
}

func TestProposalAccept_Cascade(t *testing.T) {
	env := newTestEnv(t)

	client := env.seedUser(t, models.UserRoleClient)
	winner := env.seedUser(t, models.UserRoleCreator)
	loserA := env.seedUser(t, models.UserRoleCreator)
	loserB := env.seedUser(t, models.UserRoleCreator)
	job := env.seedJob(t, client.ID, models.JobStatusOpen)

	winning := env.seedProposal(t, job.ID, winner.ID, models.ProposalStatusPending)
	env.seedProposal(t, job.ID, loserA.ID, models.ProposalStatusPending)
	env.seedProposal(t, job.ID, loserB.ID, models.ProposalStatusWithdrawn)

	resp, err := env.proposalService.Accept(client.ID, winning.ID)
	require.NoError(t, err)
	assert.Equal(t, string(models.ProposalStatusAccepted), resp.Status)

	// The job is bound to the winner and running.
	updatedJob, err := env.jobs.FindByID(job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusInProgress, updatedJob.Status)
	require.NotNil(t, updatedJob.CreatorID)
	assert.Equal(t, winner.ID, *updatedJob.CreatorID)
	assert.NotNil(t, updatedJob.StartedAt)

	// Every other pending proposal is rejected; terminal ones stay put.
	var all []models.Proposal
	require.NoError(t, env.db.Where("job_id = ?", job.ID).Find(&all).Error)
	statuses := map[string]models.ProposalStatus{}
	for _, p := range all {
		statuses[p.CreatorID] = p.Status
	}
	assert.Equal(t, models.ProposalStatusAccepted, statuses[winner.ID])
	assert.Equal(t, models.ProposalStatusRejected, statuses[loserA.ID])
	assert.Equal(t, models.ProposalStatusWithdrawn, statuses[loserB.ID])

	// Winner and rejected creator are notified, the withdrawn one is not.
	winnerUnread, _ := env.notifications.GetUnreadCount(winner.ID)
	loserAUnread, _ := env.notifications.GetUnreadCount(loserA.ID)
	loserBUnread, _ := env.notifications.GetUnreadCount(loserB.ID)
	assert.EqualValues(t, 1, winnerUnread)
	assert.EqualValues(t, 1, loserAUnread)
	assert.EqualValues(t, 0, loserBUnread)
}

func TestProposalAccept_OnlyJobOwner(t *testing.T) {
	env := newTestEnv(t)

	client := env.seedUser(t, models.UserRoleClient)
	stranger := env.seedUser(t, models.UserRoleClient)
	creator := env.seedUser(t, models.UserRoleCreator)
	job := env.seedJob(t, client.ID, models.JobStatusOpen)
	proposal := env.seedProposal(t, job.ID, creator.ID, models.ProposalStatusPending)

	_, err := env.proposalService.Accept(stranger.ID, proposal.ID)
	require.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)

	// Nothing moved.
	unchanged, err := env.proposals.FindByID(proposal.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProposalStatusPending, unchanged.Status)

	unchangedJob, err := env.jobs.FindByID(job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusOpen, unchangedJob.Status)
	assert.Nil(t, unchangedJob.CreatorID)
}

func TestProposalAccept_TerminalStatus(t *testing.T) {
	env := newTestEnv(t)

	client := env.seedUser(t, models.UserRoleClient)
	creator := env.seedUser(t, models.UserRoleCreator)
	job := env.seedJob(t, client.ID, models.JobStatusOpen)
	proposal := env.seedProposal(t, job.ID, creator.ID, models.ProposalStatusRejected)

	_, err := env.proposalService.Accept(client.ID, proposal.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidProposalStatus)
}

func TestProposalAccept_JobNotOpen(t *testing.T) {
	env := newTestEnv(t)

	client := env.seedUser(t, models.UserRoleClient)
	creator := env.seedUser(t, models.UserRoleCreator)
	job := env.seedJob(t, client.ID, models.JobStatusCancelled)
	proposal := env.seedProposal(t, job.ID, creator.ID, models.ProposalStatusPending)

	_, err := env.proposalService.Accept(client.ID, proposal.ID)
	assert.ErrorIs(t, err, apperrors.ErrJobNotOpen)
}

func TestProposalReject(t *testing.T) {
	env := newTestEnv(t)

	client := env.seedUser(t, models.UserRoleClient)
	creator := env.seedUser(t, models.UserRoleCreator)
	job := env.seedJob(t, client.ID, models.JobStatusOpen)
	proposal := env.seedProposal(t, job.ID, creator.ID, models.ProposalStatusPending)

	resp, err := env.proposalService.Reject(client.ID, proposal.ID)
	require.NoError(t, err)
	assert.Equal(t, string(models.ProposalStatusRejected), resp.Status)

	// The job itself is untouched.
	updatedJob, err := env.jobs.FindByID(job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusOpen, updatedJob.Status)

	unread, _ := env.notifications.GetUnreadCount(creator.ID)
	assert.EqualValues(t, 1, unread)
}

func TestProposalWithdraw(t *testing.T) {
	env := newTestEnv(t)

	client := env.seedUser(t, models.UserRoleClient)
	creator := env.seedUser(t, models.UserRoleCreator)
	job := env.seedJob(t, client.ID, models.JobStatusOpen)
	proposal := env.seedProposal(t, job.ID, creator.ID, models.ProposalStatusPending)

	resp, err := env.proposalService.Withdraw(creator.ID, proposal.ID)
	require.NoError(t, err)
	assert.Equal(t, string(models.ProposalStatusWithdrawn), resp.Status)

	// Withdrawal is silent; nobody gets notified.
	assert.Empty(t, env.dispatcher.pushes)
	unread, _ := env.notifications.GetUnreadCount(client.ID)
	assert.EqualValues(t, 0, unread)
}

func TestProposalWithdraw_WrongCreator(t *testing.T) {
	env := newTestEnv(t)

	client := env.seedUser(t, models.UserRoleClient)
	creator := env.seedUser(t, models.UserRoleCreator)
	other := env.seedUser(t, models.UserRoleCreator)
	job := env.seedJob(t, client.ID, models.JobStatusOpen)
	proposal := env.seedProposal(t, job.ID, creator.ID, models.ProposalStatusPending)

	_, err := env.proposalService.Withdraw(other.ID, proposal.ID)
	require.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)

	// The failed authorization left the proposal as it was.
	unchanged, err := env.proposals.FindByID(proposal.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProposalStatusPending, unchanged.Status)
}

func TestProposalWithdraw_Terminal(t *testing.T) {
	env := newTestEnv(t)

	client := env.seedUser(t, models.UserRoleClient)
	creator := env.seedUser(t, models.UserRoleCreator)
	job := env.seedJob(t, client.ID, models.JobStatusOpen)
	proposal := env.seedProposal(t, job.ID, creator.ID, models.ProposalStatusAccepted)

	_, err := env.proposalService.Withdraw(creator.ID, proposal.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidProposalStatus)
}

func TestProposalVisibility(t *testing.T) {
	env := newTestEnv(t)

	client := env.seedUser(t, models.UserRoleClient)
	creator := env.seedUser(t, models.UserRoleCreator)
	stranger := env.seedUser(t, models.UserRoleBoth)
	job := env.seedJob(t, client.ID, models.JobStatusOpen)
	proposal := env.seedProposal(t, job.ID, creator.ID, models.ProposalStatusPending)

	_, err := env.proposalService.GetByID(creator.ID, proposal.ID)
	assert.NoError(t, err)

	_, err = env.proposalService.GetByID(client.ID, proposal.ID)
	assert.NoError(t, err)

	_, err = env.proposalService.GetByID(stranger.ID, proposal.ID)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)

	_, err = env.proposalService.ListByJob(stranger.ID, job.ID)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)

	list, err := env.proposalService.ListByJob(client.ID, job.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
}

func TestProposalStats(t *testing.T) {
	env := newTestEnv(t)

	client := env.seedUser(t, models.UserRoleClient)
	creator := env.seedUser(t, models.UserRoleCreator)

	jobA := env.seedJob(t, client.ID, models.JobStatusOpen)
	jobB := env.seedJob(t, client.ID, models.JobStatusOpen)
	jobC := env.seedJob(t, client.ID, models.JobStatusOpen)

	env.seedProposal(t, jobA.ID, creator.ID, models.ProposalStatusPending)
	env.seedProposal(t, jobB.ID, creator.ID, models.ProposalStatusAccepted)
	env.seedProposal(t, jobC.ID, creator.ID, models.ProposalStatusRejected)

	stats, err := env.proposalService.GetStats(creator.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.Total)
	assert.EqualValues(t, 1, stats.Pending)
	assert.EqualValues(t, 1, stats.Accepted)
	assert.EqualValues(t, 1, stats.Rejected)
	assert.EqualValues(t, 0, stats.Withdrawn)
}
