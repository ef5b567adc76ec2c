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

func TestListingCreate(t *testing.T) {
	env := newTestEnv(t)
	creator := env.seedUser(t, models.UserRoleCreator)

	resp, err := env.listingService.Create(creator.ID, dto.CreateListingRequest{
		Title:        "Logo design package",
		Description:  "Three concepts, two revision rounds",
		Price:        250,
		DeliveryDays: 7,
		Skills:       []string{"illustration", "branding"},
	})
	require.NoError(t, err)
	assert.Equal(t, string(models.ListingStatusActive), resp.Status)
	assert.ElementsMatch(t, []string{"illustration", "branding"}, resp.Skills)

	t.Run("client role cannot list services", func(t *testing.T) {
		client := env.seedUser(t, models.UserRoleClient)
		_, err := env.listingService.Create(client.ID, dto.CreateListingRequest{
			Title:        "Not allowed",
			Description:  "Clients have no service listings",
			Price:        50,
			DeliveryDays: 3,
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidUserRole)
	})
}

func TestListingUpdate_ReplacesSkills(t *testing.T) {
	env := newTestEnv(t)
	creator := env.seedUser(t, models.UserRoleCreator)

	created, err := env.listingService.Create(creator.ID, dto.CreateListingRequest{
		Title:        "Motion design",
		Description:  "Short product animations",
		Price:        400,
		DeliveryDays: 10,
		Skills:       []string{"after-effects", "3d"},
	})
	require.NoError(t, err)

	price := 450.0
	updated, err := env.listingService.Update(creator.ID, created.ID, dto.UpdateListingRequest{
		Price:  &price,
		Skills: []string{"after-effects"},
	})
	require.NoError(t, err)
	assert.Equal(t, 450.0, updated.Price)
	assert.Equal(t, []string{"after-effects"}, updated.Skills)

	// No orphaned skill rows survive the swap.
	var count int64
	env.db.Model(&models.ServiceSkill{}).Where("service_id = ?", created.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestListingUpdate_OwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	creator := env.seedUser(t, models.UserRoleCreator)
	other := env.seedUser(t, models.UserRoleCreator)

	created, err := env.listingService.Create(creator.ID, dto.CreateListingRequest{
		Title:        "Voice over",
		Description:  "Narration in English and German",
		Price:        120,
		DeliveryDays: 2,
	})
	require.NoError(t, err)

	title := "Hijacked"
	_, err = env.listingService.Update(other.ID, created.ID, dto.UpdateListingRequest{Title: &title})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)

	assert.ErrorIs(t, env.listingService.Delete(other.ID, created.ID), apperrors.ErrInsufficientPermissions)
}

func TestListingSearch(t *testing.T) {
	env := newTestEnv(t)
	creator := env.seedUser(t, models.UserRoleCreator)

	_, err := env.listingService.Create(creator.ID, dto.CreateListingRequest{
		Title:        "Logo design",
		Description:  "Minimal logos for startups",
		Price:        200,
		DeliveryDays: 5,
		Skills:       []string{"branding"},
	})
	require.NoError(t, err)

	paused, err := env.listingService.Create(creator.ID, dto.CreateListingRequest{
		Title:        "Paused offer",
		Description:  "Currently not taking orders",
		Price:        300,
		DeliveryDays: 5,
	})
	require.NoError(t, err)

	status := string(models.ListingStatusPaused)
	_, err = env.listingService.Update(creator.ID, paused.ID, dto.UpdateListingRequest{Status: &status})
	require.NoError(t, err)

	// Public search only returns active listings.
	resp, err := env.listingService.Search(repositories.ListingCriteria{})
	require.NoError(t, err)
	require.Len(t, resp.Listings, 1)
	assert.Equal(t, "Logo design", resp.Listings[0].Title)

	// Skill filter.
	resp, err = env.listingService.Search(repositories.ListingCriteria{Skill: "branding"})
	require.NoError(t, err)
	assert.Len(t, resp.Listings, 1)

	resp, err = env.listingService.Search(repositories.ListingCriteria{Skill: "video"})
	require.NoError(t, err)
	assert.Empty(t, resp.Listings)

	// The owner still sees both in their own list.
	mine, err := env.listingService.ListMine(creator.ID)
	require.NoError(t, err)
	assert.Len(t, mine.Listings, 2)
}

func TestListingDelete_RemovesSkills(t *testing.T) {
	env := newTestEnv(t)
	creator := env.seedUser(t, models.UserRoleCreator)

	created, err := env.listingService.Create(creator.ID, dto.CreateListingRequest{
		Title:        "Illustration pack",
		Description:  "Ten custom illustrations",
		Price:        600,
		DeliveryDays: 14,
		Skills:       []string{"illustration"},
	})
	require.NoError(t, err)

	require.NoError(t, env.listingService.Delete(creator.ID, created.ID))

	var count int64
	env.db.Model(&models.ServiceSkill{}).Where("service_id = ?", created.ID).Count(&count)
	assert.EqualValues(t, 0, count)
}
