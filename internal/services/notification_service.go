package services

import (
	"encoding/json"
	"fmt"

	"craftlink_backend/internal/logger"
	"craftlink_backend/internal/models"
	"craftlink_backend/internal/repositories"
	"craftlink_backend/internal/services/dto"
	"craftlink_backend/pkg/apperrors"

	"gorm.io/datatypes"
)

// Dispatcher pushes a payload to a connected user. Delivery is best effort;
// the stored notification row remains the source of truth.
type Dispatcher interface {
	PushToUser(userID string, payload interface{}) bool
}

var validNotificationTypes = map[string]struct{}{
	models.NotificationTypeMessage:   {},
	models.NotificationTypeProposal:  {},
	models.NotificationTypeJobUpdate: {},
	models.NotificationTypeMention:   {},
}

type NotificationService struct {
	repo       repositories.NotificationRepository
	dispatcher Dispatcher
}

func NewNotificationService(repo repositories.NotificationRepository, dispatcher Dispatcher) *NotificationService {
	return &NotificationService{repo: repo, dispatcher: dispatcher}
}

// Notify persists the notification, then attempts one realtime push. The
// order is fixed: a notification is never pushed before it is durable, and a
// failed push is not retried.
func (s *NotificationService) Notify(userID, notifType, title, message string, data map[string]interface{}) error {
	if _, ok := validNotificationTypes[notifType]; !ok {
		return apperrors.ErrInvalidNotificationType
	}
	if userID == "" {
		return apperrors.NewBadRequestError("notification recipient is required")
	}

	notification := &models.Notification{
		UserID:  userID,
		Type:    notifType,
		Title:   title,
		Message: message,
	}
	if len(data) > 0 {
		raw, err := json.Marshal(data)
		if err != nil {
			return apperrors.InternalError(err)
		}
		notification.Data = datatypes.JSON(raw)
	}

	if err := s.repo.Create(notification); err != nil {
		return apperrors.InternalError(err)
	}

	if s.dispatcher != nil {
		delivered := s.dispatcher.PushToUser(userID, dto.ToNotificationResponse(notification))
		if !delivered {
			logger.Debug("notification stored, user offline", "user_id", userID, "type", notifType)
		}
	}
	return nil
}

// NotifyProposalReceived tells a client a creator proposed on their job.
func (s *NotificationService) NotifyProposalReceived(clientID, jobID, jobTitle, proposalID string) error {
	return s.Notify(clientID, models.NotificationTypeProposal,
		"New proposal",
		fmt.Sprintf("You received a new proposal for %q", jobTitle),
		map[string]interface{}{"job_id": jobID, "proposal_id": proposalID})
}

// NotifyProposalAccepted tells a creator their proposal was accepted.
func (s *NotificationService) NotifyProposalAccepted(creatorID, jobID, jobTitle, proposalID string) error {
	return s.Notify(creatorID, models.NotificationTypeProposal,
		"Proposal accepted",
		fmt.Sprintf("Your proposal for %q was accepted", jobTitle),
		map[string]interface{}{"job_id": jobID, "proposal_id": proposalID})
}

// NotifyProposalRejected tells a creator their proposal was rejected.
func (s *NotificationService) NotifyProposalRejected(creatorID, jobID, jobTitle, proposalID string) error {
	return s.Notify(creatorID, models.NotificationTypeProposal,
		"Proposal rejected",
		fmt.Sprintf("Your proposal for %q was rejected", jobTitle),
		map[string]interface{}{"job_id": jobID, "proposal_id": proposalID})
}

// NotifyJobUpdate tells a participant the job changed state.
func (s *NotificationService) NotifyJobUpdate(userID, jobID, jobTitle, event string) error {
	return s.Notify(userID, models.NotificationTypeJobUpdate,
		"Job update",
		fmt.Sprintf("Job %q: %s", jobTitle, event),
		map[string]interface{}{"job_id": jobID, "event": event})
}

func (s *NotificationService) List(userID string, criteria repositories.NotificationCriteria) (*dto.NotificationListResponse, error) {
	notifications, total, err := s.repo.ListByUser(userID, criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	unread, err := s.repo.GetUnreadCount(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	page := criteria.Page
	if page < 1 {
		page = 1
	}
	pageSize := criteria.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	resp := &dto.NotificationListResponse{
		Notifications: make([]dto.NotificationResponse, 0, len(notifications)),
		Total:         total,
		UnreadCount:   unread,
		Page:          page,
		PageSize:      pageSize,
	}
	for i := range notifications {
		resp.Notifications = append(resp.Notifications, dto.ToNotificationResponse(&notifications[i]))
	}
	return resp, nil
}

func (s *NotificationService) MarkAsRead(id, userID string) error {
	err := s.repo.MarkAsRead(id, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *NotificationService) MarkAllAsRead(userID string) error {
	if err := s.repo.MarkAllAsRead(userID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *NotificationService) GetUnreadCount(userID string) (int64, error) {
	count, err := s.repo.GetUnreadCount(userID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return count, nil
}

func (s *NotificationService) Delete(id, userID string) error {
	err := s.repo.Delete(id, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	return nil
}
