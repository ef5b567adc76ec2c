package apperrors

import "net/http"

// Predefined domain errors. Services return these directly; handlers never
// match on message text.

// --- Auth & account status ---

var ErrWeakPassword = New(
	CodeValidationFailed,
	"validation",
	"Password is too weak. Minimum 8 characters required.",
	http.StatusBadRequest,
)

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already in use",
	http.StatusConflict,
)

var ErrUsernameTaken = New(
	CodeConflict,
	"profile",
	"Username is already taken",
	http.StatusConflict,
)

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrUserSuspended = New(
	CodeForbidden,
	"auth",
	"Your account has been suspended",
	http.StatusForbidden,
)

var ErrUserBanned = New(
	CodeForbidden,
	"auth",
	"Your account has been banned",
	http.StatusForbidden,
)

var ErrUserNotVerified = New(
	CodeForbidden,
	"auth",
	"Please verify your email address",
	http.StatusForbidden,
)

var ErrInvalidUserRole = New(
	CodeInvalidOperation,
	"business_logic",
	"Invalid user role for this operation",
	http.StatusBadRequest,
)

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

var ErrInvalidWebhookSignature = New(
	CodeUnauthorized,
	"webhook",
	"Webhook signature verification failed",
	http.StatusUnauthorized,
)

// --- Jobs ---

var ErrJobNotOpen = New(
	CodeInvalidStatus,
	"job",
	"Job is not open for proposals",
	http.StatusConflict,
)

var ErrInvalidJobStatus = New(
	CodeInvalidStatus,
	"job",
	"Operation not allowed for the current job status",
	http.StatusConflict,
)

var ErrCannotProposeOwnJob = New(
	CodeInvalidOperation,
	"job",
	"You cannot submit a proposal to your own job",
	http.StatusBadRequest,
)

// --- Proposals ---

var ErrProposalAlreadyExists = New(
	CodeAlreadyExists,
	"proposal",
	"You have already submitted a proposal for this job",
	http.StatusConflict,
)

var ErrInvalidProposalStatus = New(
	CodeInvalidStatus,
	"proposal",
	"Operation not allowed for the current proposal status",
	http.StatusConflict,
)

// --- Ratings ---

var ErrJobNotCompleted = New(
	CodeInvalidStatus,
	"rating",
	"Only completed jobs can be rated",
	http.StatusConflict,
)

var ErrAlreadyRated = New(
	CodeAlreadyExists,
	"rating",
	"This job has already been rated",
	http.StatusConflict,
)

// --- Profile ---

var ErrProfileNotPublic = New(
	CodeForbidden,
	"profile",
	"This profile is private",
	http.StatusForbidden,
)

// --- Notifications ---

var ErrInvalidNotificationType = New(
	CodeValidationFailed,
	"notification",
	"Unknown notification type",
	http.StatusBadRequest,
)

// --- Uploads ---

var ErrFileTooLarge = New(
	CodeLimitExceeded,
	"validation",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)

var ErrInvalidFileType = New(
	CodeValidationFailed,
	"validation",
	"The provided file type is not allowed",
	http.StatusUnsupportedMediaType,
)
