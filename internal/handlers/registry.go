package handlers

// AppHandlers bundles every HTTP handler for route registration.
type AppHandlers struct {
	Auth         *AuthHandler
	User         *UserHandler
	Profile      *ProfileHandler
	Portfolio    *PortfolioHandler
	Job          *JobHandler
	Proposal     *ProposalHandler
	Notification *NotificationHandler
	Rating       *RatingHandler
	Listing      *ServiceListingHandler
	Upload       *UploadHandler
	Webhook      *WebhookHandler
}
