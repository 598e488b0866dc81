package storage

import (
	"errors"
	"log"

	"civicvoice/backend/internal/models"

	"gorm.io/gorm"
)

// ComplaintFilter narrows the complaint listing. Zero values mean "no filter".
type ComplaintFilter struct {
	Status     string
	CategoryID uint
	UserID     uint
}

func (s *Service) ListComplaints(filter ComplaintFilter) ([]models.Complaint, error) {
	query := s.DB.Model(&models.Complaint{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}

	var complaints []models.Complaint
	if err := query.Order("created_at desc").Find(&complaints).Error; err != nil {
		log.Printf("ERROR: Failed to list complaints: %v", err)
		return nil, err
	}
	return complaints, nil
}

func (s *Service) CreateComplaint(complaint *models.Complaint) error {
	result := s.DB.Create(complaint)
	if result.Error != nil {
		log.Printf("ERROR: Failed to save complaint %q: %v", complaint.Title, result.Error)
		return result.Error
	}
	return nil
}

func (s *Service) GetComplaintByID(id uint) (*models.Complaint, error) {
	var complaint models.Complaint
	err := s.DB.First(&complaint, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

// UpdateComplaint applies the given column updates and returns the fresh row.
// UpdatedAt is touched by GORM on every call.
func (s *Service) UpdateComplaint(id uint, fields map[string]interface{}) (*models.Complaint, error) {
	result := s.DB.Model(&models.Complaint{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		log.Printf("ERROR: Failed to update complaint %d: %v", id, result.Error)
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetComplaintByID(id)
}

// DeleteComplaint removes the complaint together with its status history and
// responses. There is no FK cascade, so dependents go first; the three
// deletes are independent statements, not one transaction.
func (s *Service) DeleteComplaint(id uint) error {
	if err := s.DB.Unscoped().Where("complaint_id = ?", id).Delete(&models.StatusHistory{}).Error; err != nil {
		return err
	}
	if err := s.DB.Unscoped().Where("complaint_id = ?", id).Delete(&models.Response{}).Error; err != nil {
		return err
	}
	return s.DB.Unscoped().Delete(&models.Complaint{}, id).Error
}

func (s *Service) AppendStatusHistory(entry *models.StatusHistory) error {
	return s.DB.Create(entry).Error
}

func (s *Service) ListStatusHistory(complaintID uint) ([]models.StatusHistory, error) {
	var history []models.StatusHistory
	err := s.DB.Where("complaint_id = ?", complaintID).
		Order("created_at asc").
		Find(&history).Error
	if err != nil {
		return nil, err
	}
	return history, nil
}

func (s *Service) ListResponses(complaintID uint) ([]models.Response, error) {
	var responses []models.Response
	err := s.DB.Where("complaint_id = ?", complaintID).
		Order("created_at asc").
		Find(&responses).Error
	if err != nil {
		return nil, err
	}
	return responses, nil
}

func (s *Service) CreateResponse(response *models.Response) error {
	return s.DB.Create(response).Error
}
