package services

import (
	"fmt"
	"sync/atomic"
	"testing"

	"craftlink_backend/database"
	"craftlink_backend/internal/auth"
	"craftlink_backend/internal/email"
	"craftlink_backend/internal/models"
	"craftlink_backend/internal/repositories"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testDBCounter atomic.Int64

func init() {
	auth.Init("test-secret", 60)
}

// newTestDB opens a private in-memory sqlite database and migrates the full
// schema. TranslateError makes duplicate-key errors look the same as on
// postgres.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:services_test_%d?mode=memory&cache=shared", testDBCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// recordingDispatcher captures realtime pushes for assertions.
type recordingDispatcher struct {
	pushes []recordedPush
	online bool
}

type recordedPush struct {
	UserID  string
	Payload interface{}
}

func (d *recordingDispatcher) PushToUser(userID string, payload interface{}) bool {
	d.pushes = append(d.pushes, recordedPush{UserID: userID, Payload: payload})
	return d.online
}

func (d *recordingDispatcher) pushesFor(userID string) int {
	n := 0
	for _, p := range d.pushes {
		if p.UserID == userID {
			n++
		}
	}
	return n
}

// testEnv bundles the repositories and services most tests need.
type testEnv struct {
	db         *gorm.DB
	dispatcher *recordingDispatcher

	users         repositories.UserRepository
	profiles      repositories.ProfileRepository
	jobs          repositories.JobRepository
	proposals     repositories.ProposalRepository
	notifications repositories.NotificationRepository

	authService         *AuthService
	jobService          *JobService
	proposalService     *ProposalService
	notificationService *NotificationService
	ratingService       *RatingService
	listingService      *ServiceListingService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	dispatcher := &recordingDispatcher{}

	users := repositories.NewUserRepository(db)
	profiles := repositories.NewProfileRepository(db)
	refreshTokens := repositories.NewRefreshTokenRepository(db)
	jobs := repositories.NewJobRepository(db)
	proposals := repositories.NewProposalRepository(db)
	notificationsRepo := repositories.NewNotificationRepository(db)
	ratings := repositories.NewRatingRepository(db)
	listings := repositories.NewServiceListingRepository(db)

	notificationService := NewNotificationService(notificationsRepo, dispatcher)

	return &testEnv{
		db:                  db,
		dispatcher:          dispatcher,
		users:               users,
		profiles:            profiles,
		jobs:                jobs,
		proposals:           proposals,
		notifications:       notificationsRepo,
		authService:         NewAuthService(db, users, profiles, refreshTokens, email.NewLogProvider()),
		jobService:          NewJobService(jobs, users, notificationService),
		proposalService:     NewProposalService(db, proposals, jobs, users, notificationService),
		notificationService: notificationService,
		ratingService:       NewRatingService(db, ratings, jobs, profiles),
		listingService:      NewServiceListingService(db, listings, users),
	}
}

var testUserCounter atomic.Int64

// seedUser creates an active user with a profile directly in the database.
func (e *testEnv) seedUser(t *testing.T, role models.UserRole) *models.User {
	t.Helper()

	n := testUserCounter.Add(1)
	user := &models.User{
		Email:        fmt.Sprintf("user%d@example.com", n),
		PasswordHash: "x",
		Role:         role,
		Status:       models.UserStatusActive,
		IsVerified:   true,
	}
	require.NoError(t, e.db.Create(user).Error)

	profile := &models.UserProfile{
		UserID:      user.ID,
		Username:    fmt.Sprintf("user%d", n),
		DisplayName: fmt.Sprintf("User %d", n),
		IsPublic:    true,
	}
	require.NoError(t, e.db.Create(profile).Error)
	return user
}

// seedJob creates a job owned by clientID in the given status.
func (e *testEnv) seedJob(t *testing.T, clientID string, status models.JobStatus) *models.Job {
	t.Helper()

	job := &models.Job{
		ClientID:    clientID,
		Title:       "Logo design",
		Description: "Design a logo for a coffee brand",
		Category:    "design",
		Budget:      500,
		Status:      status,
	}
	require.NoError(t, e.db.Create(job).Error)
	return job
}

// seedProposal inserts a proposal row directly, bypassing the service.
func (e *testEnv) seedProposal(t *testing.T, jobID, creatorID string, status models.ProposalStatus) *models.Proposal {
	t.Helper()

	proposal := &models.Proposal{
		JobID:       jobID,
		CreatorID:   creatorID,
		CoverLetter: "I would love to work on this project",
		Price:       400,
		Status:      status,
	}
	require.NoError(t, e.db.Create(proposal).Error)
	return proposal
}
