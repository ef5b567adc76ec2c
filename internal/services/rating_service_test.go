package services

import (
	"testing"

	"craftlink_backend/internal/models"
	"craftlink_backend/internal/services/dto"
	"craftlink_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) seedCompletedJob(t *testing.T, clientID, creatorID string) *models.Job {
	t.Helper()

	job := e.seedJob(t, clientID, models.JobStatusCompleted)
	require.NoError(t, e.db.Model(&models.Job{}).
		Where("id = ?", job.ID).
		Update("creator_id", creatorID).Error)
	job.CreatorID = &creatorID
	return job
}

func TestRatingCreate(t *testing.T) {
	env := newTestEnv(t)

	client := env.seedUser(t, models.UserRoleClient)
	creator := env.seedUser(t, models.UserRoleCreator)
	job := env.seedCompletedJob(t, client.ID, creator.ID)

	resp, err := env.ratingService.Create(client.ID, dto.CreateRatingRequest{
		JobID:   job.ID,
		Score:   4,
		Comment: "Solid work, quick turnaround",
	})
	require.NoError(t, err)
	assert.Equal(t, creator.ID, resp.ToUserID)
	assert.Equal(t, 4, resp.Score)

	// The profile aggregate was recomputed in the same transaction.
	profile, err := env.profiles.FindByUserID(creator.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, profile.Rating, 0.001)
	assert.Equal(t, 1, profile.RatingCount)
}

func TestRatingCreate_AverageAcrossJobs(t *testing.T) {
	env := newTestEnv(t)

	client := env.seedUser(t, models.UserRoleClient)
	creator := env.seedUser(t, models.UserRoleCreator)

	jobA := env.seedCompletedJob(t, client.ID, creator.ID)
	jobB := env.seedCompletedJob(t, client.ID, creator.ID)

	_, err := env.ratingService.Create(client.ID, dto.CreateRatingRequest{JobID: jobA.ID, Score: 5})
	require.NoError(t, err)
	_, err = env.ratingService.Create(client.ID, dto.CreateRatingRequest{JobID: jobB.ID, Score: 2})
	require.NoError(t, err)

	profile, err := env.profiles.FindByUserID(creator.ID)
	require.NoError(t, err)
	assert.InDelta(t, 3.5, profile.Rating, 0.001)
	assert.Equal(t, 2, profile.RatingCount)

	list, err := env.ratingService.ListForUser(creator.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, list.Total)
	assert.InDelta(t, 3.5, list.Average, 0.001)
}

func TestRatingCreate_Rejections(t *testing.T) {
	env := newTestEnv(t)

	client := env.seedUser(t, models.UserRoleClient)
	creator := env.seedUser(t, models.UserRoleCreator)

	t.Run("job not completed", func(t *testing.T) {
		job := env.seedJob(t, client.ID, models.JobStatusInProgress)
		_, err := env.ratingService.Create(client.ID, dto.CreateRatingRequest{JobID: job.ID, Score: 5})
		assert.ErrorIs(t, err, apperrors.ErrJobNotCompleted)
	})

	t.Run("only the job owner rates", func(t *testing.T) {
		job := env.seedCompletedJob(t, client.ID, creator.ID)
		stranger := env.seedUser(t, models.UserRoleClient)
		_, err := env.ratingService.Create(stranger.ID, dto.CreateRatingRequest{JobID: job.ID, Score: 5})
		assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)
	})

	t.Run("one rating per job", func(t *testing.T) {
		job := env.seedCompletedJob(t, client.ID, creator.ID)
		_, err := env.ratingService.Create(client.ID, dto.CreateRatingRequest{JobID: job.ID, Score: 5})
		require.NoError(t, err)
		_, err = env.ratingService.Create(client.ID, dto.CreateRatingRequest{JobID: job.ID, Score: 3})
		assert.ErrorIs(t, err, apperrors.ErrAlreadyRated)
	})
}

func TestRatingGetForJob(t *testing.T) {
	env := newTestEnv(t)

	client := env.seedUser(t, models.UserRoleClient)
	creator := env.seedUser(t, models.UserRoleCreator)
	job := env.seedCompletedJob(t, client.ID, creator.ID)

	_, err := env.ratingService.GetForJob(job.ID)
	require.Error(t, err)

	_, err = env.ratingService.Create(client.ID, dto.CreateRatingRequest{JobID: job.ID, Score: 5})
	require.NoError(t, err)

	resp, err := env.ratingService.GetForJob(job.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, resp.Score)
}
