package services

// ServiceContainer bundles every service for handler wiring.
type ServiceContainer struct {
	Auth         *AuthService
	User         *UserService
	Profile      *ProfileService
	Portfolio    *PortfolioService
	Job          *JobService
	Proposal     *ProposalService
	Notification *NotificationService
	Rating       *RatingService
	Listing      *ServiceListingService
	Upload       *UploadService
}
