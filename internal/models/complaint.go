package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq" // pq.StringArray for attachment lists
	"gorm.io/gorm"
)

// Complaint status lifecycle: submitted -> in_progress -> resolved -> closed.
const (
	StatusSubmitted  = "submitted"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
	StatusClosed     = "closed"
)

// ValidStatus reports whether s is one of the known complaint statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusSubmitted, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// Category is static reference data grouping complaints by topic.
type Category struct {
	gorm.Model

	Name         string  `gorm:"type:text;not null;uniqueIndex" json:"name"`
	Description  *string `gorm:"type:text" json:"description"`
	DepartmentID *uint   `json:"departmentId"`
}

// Complaint is a citizen-submitted ticket. UserID is nil for anonymous
// submissions; attachments are stored inline as encoded data URLs.
type Complaint struct {
	gorm.Model

	// TicketNumber is the human-readable unique identifier, e.g. TICKET-3F0A92C1.
	TicketNumber   string         `gorm:"type:text;not null;uniqueIndex" json:"ticketNumber"`
	UserID         *uint          `gorm:"index" json:"userId"`
	Anonymous      bool           `gorm:"not null;default:false" json:"anonymous"`
	CategoryID     *uint          `gorm:"index" json:"categoryId"`
	Title          string         `gorm:"type:text;not null" json:"title"`
	Description    string         `gorm:"type:text;not null" json:"description"`
	Location       *string        `gorm:"type:text" json:"location"`
	GeoCoordinates *string        `gorm:"type:jsonb" json:"geoCoordinates"`
	Attachments    pq.StringArray `gorm:"type:text[]" json:"attachments"`
	Status         string         `gorm:"type:text;not null;default:submitted" json:"status"`
	Rating         *int           `json:"rating"`
}

// BeforeCreate assigns a ticket number if one has not been set.
// The suffix is the first 8 hex chars of a fresh UUID, uppercased.
func (c *Complaint) BeforeCreate(tx *gorm.DB) (err error) {
	if c.TicketNumber == "" {
		raw := strings.ReplaceAll(uuid.New().String(), "-", "")
		c.TicketNumber = "TICKET-" + strings.ToUpper(raw[:8])
	}
	if c.Status == "" {
		c.Status = StatusSubmitted
	}
	return
}

// StatusHistory is an append-only audit trail of complaint status transitions.
// Rows are never updated after creation, so there is no UpdatedAt.
type StatusHistory struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ComplaintID uint      `gorm:"not null;index" json:"complaintId"`
	Status      string    `gorm:"type:text;not null" json:"status"`
	Comment     *string   `gorm:"type:text" json:"comment"`
	UpdatedBy   *uint     `json:"updatedBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Response is an official reply from agency staff tied to a complaint.
type Response struct {
	gorm.Model

	ComplaintID uint   `gorm:"not null;index" json:"complaintId"`
	ResponderID uint   `gorm:"not null" json:"responderId"`
	Response    string `gorm:"type:text;not null" json:"response"`
}
