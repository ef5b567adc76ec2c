package models

type UserStatus string
type UserRole string
type JobStatus string
type ProposalStatus string
type ListingStatus string

const (
	UserStatusPending   UserStatus = "pending"
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBanned    UserStatus = "banned"

	UserRoleCreator UserRole = "creator"
	UserRoleClient  UserRole = "client"
	UserRoleBoth    UserRole = "both"
	UserRoleAdmin   UserRole = "admin"

	JobStatusDraft      JobStatus = "draft"
	JobStatusOpen       JobStatus = "open"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusCancelled  JobStatus = "cancelled"

	ProposalStatusPending   ProposalStatus = "pending"
	ProposalStatusAccepted  ProposalStatus = "accepted"
	ProposalStatusRejected  ProposalStatus = "rejected"
	ProposalStatusWithdrawn ProposalStatus = "withdrawn"

	ListingStatusActive ListingStatus = "active"
	ListingStatusPaused ListingStatus = "paused"
)

// Notification types form a closed set; dispatch rejects anything else.
const (
	NotificationTypeMessage   = "message"
	NotificationTypeProposal  = "proposal"
	NotificationTypeJobUpdate = "job_update"
	NotificationTypeMention   = "mention"
)

// CanActAsCreator reports whether the role may submit proposals and own
// service listings.
func (r UserRole) CanActAsCreator() bool {
	return r == UserRoleCreator || r == UserRoleBoth
}

// CanActAsClient reports whether the role may post jobs.
func (r UserRole) CanActAsClient() bool {
	return r == UserRoleClient || r == UserRoleBoth
}
