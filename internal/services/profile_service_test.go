package services

import (
	"testing"

	"craftlink_backend/internal/models"
	"craftlink_backend/internal/repositories"
	"craftlink_backend/internal/services/dto"
	"craftlink_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileVisibility(t *testing.T) {
	env := newTestEnv(t)
	svc := NewProfileService(env.profiles)

	owner := env.seedUser(t, models.UserRoleCreator)
	viewer := env.seedUser(t, models.UserRoleClient)

	profile, err := env.profiles.FindByUserID(owner.ID)
	require.NoError(t, err)

	hidden := false
	_, err = svc.Update(owner.ID, dto.UpdateProfileRequest{IsPublic: &hidden})
	require.NoError(t, err)

	// Private profiles are invisible to others but not to the owner.
	_, err = svc.GetByUsername(profile.Username, viewer.ID)
	assert.ErrorIs(t, err, apperrors.ErrProfileNotPublic)

	own, err := svc.GetByUsername(profile.Username, owner.ID)
	require.NoError(t, err)
	assert.False(t, own.IsPublic)
}

func TestProfileViewCounter(t *testing.T) {
	env := newTestEnv(t)
	svc := NewProfileService(env.profiles)

	owner := env.seedUser(t, models.UserRoleCreator)
	viewer := env.seedUser(t, models.UserRoleClient)

	profile, err := env.profiles.FindByUserID(owner.ID)
	require.NoError(t, err)

	// Owner views do not count, foreign views do.
	_, err = svc.GetByUsername(profile.Username, owner.ID)
	require.NoError(t, err)

	resp, err := svc.GetByUsername(profile.Username, viewer.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.ProfileViews)
}

func TestProfileUpdate(t *testing.T) {
	env := newTestEnv(t)
	svc := NewProfileService(env.profiles)

	owner := env.seedUser(t, models.UserRoleCreator)

	bio := "Illustrator and animator"
	rate := 85.0
	resp, err := svc.Update(owner.ID, dto.UpdateProfileRequest{
		Bio:        &bio,
		HourlyRate: &rate,
		Skills:     []string{"illustration", "animation"},
	})
	require.NoError(t, err)
	assert.Equal(t, bio, resp.Bio)
	assert.Equal(t, 85.0, resp.HourlyRate)
	assert.Equal(t, []string{"illustration", "animation"}, resp.Skills)
}

func TestProfileUpdate_UsernameConflict(t *testing.T) {
	env := newTestEnv(t)
	svc := NewProfileService(env.profiles)

	a := env.seedUser(t, models.UserRoleCreator)
	b := env.seedUser(t, models.UserRoleCreator)

	existing, err := env.profiles.FindByUserID(a.ID)
	require.NoError(t, err)

	taken := existing.Username
	_, err = svc.Update(b.ID, dto.UpdateProfileRequest{Username: &taken})
	assert.ErrorIs(t, err, apperrors.ErrUsernameTaken)
}

func TestProfileSearch(t *testing.T) {
	env := newTestEnv(t)
	svc := NewProfileService(env.profiles)

	a := env.seedUser(t, models.UserRoleCreator)
	b := env.seedUser(t, models.UserRoleCreator)
	hidden := env.seedUser(t, models.UserRoleCreator)

	cityA := "Berlin"
	_, err := svc.Update(a.ID, dto.UpdateProfileRequest{City: &cityA, Skills: []string{"illustration"}})
	require.NoError(t, err)

	cityB := "Hamburg"
	_, err = svc.Update(b.ID, dto.UpdateProfileRequest{City: &cityB, Skills: []string{"audio"}})
	require.NoError(t, err)

	private := false
	_, err = svc.Update(hidden.ID, dto.UpdateProfileRequest{IsPublic: &private})
	require.NoError(t, err)

	// Private profiles never appear in search.
	resp, err := svc.Search(repositories.ProfileCriteria{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, resp.Total)

	resp, err = svc.Search(repositories.ProfileCriteria{City: "Berlin"})
	require.NoError(t, err)
	require.Len(t, resp.Profiles, 1)
	assert.Equal(t, a.ID, resp.Profiles[0].UserID)

	resp, err = svc.Search(repositories.ProfileCriteria{Skill: "audio"})
	require.NoError(t, err)
	require.Len(t, resp.Profiles, 1)
	assert.Equal(t, b.ID, resp.Profiles[0].UserID)
}
