// Package complaint provides the core logic for citizen complaints:
// submission with ticket generation, status transitions with their
// append-only history, and staff notification fan-out.
package complaint

import (
	"fmt"

	"civicvoice/backend/internal/models"
)

// Store is the slice of persistence the complaint service needs.
type Store interface {
	CreateComplaint(complaint *models.Complaint) error
	GetComplaintByID(id uint) (*models.Complaint, error)
	UpdateComplaint(id uint, fields map[string]interface{}) (*models.Complaint, error)
	AppendStatusHistory(entry *models.StatusHistory) error
}

// Notifier receives complaint lifecycle events. Delivery is best-effort;
// failures never affect the request that triggered them.
type Notifier interface {
	NotifyNewComplaint(complaint *models.Complaint)
	NotifyStatusChange(complaint *models.Complaint, oldStatus, newStatus string)
}

// Service handles the business logic for complaints.
type Service struct {
	Storage  Store
	Notifier Notifier
}

// NewService creates a new complaint service. notifier may be nil.
func NewService(s Store, notifier Notifier) *Service {
	return &Service{Storage: s, Notifier: notifier}
}

// Submit persists a new complaint. The ticket number and initial status are
// assigned by the model's create hook.
func (s *Service) Submit(complaint *models.Complaint) error {
	if err := s.Storage.CreateComplaint(complaint); err != nil {
		return err
	}
	if s.Notifier != nil {
		s.Notifier.NotifyNewComplaint(complaint)
	}
	return nil
}

// Update applies field updates to a complaint. When the update changes the
// status, a status-history row is appended first, recording the acting user
// and either the supplied comment or a generated transition note. The history
// insert and the complaint update are two independent writes.
func (s *Service) Update(id uint, fields map[string]interface{}, updatedBy *uint, statusComment *string) (*models.Complaint, error) {
	current, err := s.Storage.GetComplaintByID(id)
	if err != nil {
		return nil, err
	}

	newStatus, hasStatus := fields["status"].(string)
	statusChanged := hasStatus && newStatus != current.Status

	if statusChanged {
		comment := statusComment
		if comment == nil {
			generated := fmt.Sprintf("Status changed from %s to %s", current.Status, newStatus)
			comment = &generated
		}
		entry := &models.StatusHistory{
			ComplaintID: id,
			Status:      newStatus,
			Comment:     comment,
			UpdatedBy:   updatedBy,
		}
		if err := s.Storage.AppendStatusHistory(entry); err != nil {
			return nil, err
		}
	}

	updated, err := s.Storage.UpdateComplaint(id, fields)
	if err != nil {
		return nil, err
	}

	if statusChanged && s.Notifier != nil {
		s.Notifier.NotifyStatusChange(updated, current.Status, newStatus)
	}
	return updated, nil
}
