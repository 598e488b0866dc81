package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"civicvoice/backend/internal/models"
	"civicvoice/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
)

// ListComplaints returns complaints, optionally filtered by status,
// categoryId and userId query parameters.
func (h *Handler) ListComplaints(c *gin.Context) {
	var filter storage.ComplaintFilter
	filter.Status = c.Query("status")
	if v, err := strconv.ParseUint(c.Query("categoryId"), 10, 64); err == nil {
		filter.CategoryID = uint(v)
	}
	if v, err := strconv.ParseUint(c.Query("userId"), 10, 64); err == nil {
		filter.UserID = uint(v)
	}

	complaints, err := h.Storage.ListComplaints(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch complaints"})
		return
	}
	c.JSON(http.StatusOK, complaints)
}

type createComplaintRequest struct {
	Title          string   `json:"title" binding:"required"`
	Description    string   `json:"description" binding:"required"`
	CategoryID     *uint    `json:"categoryId"`
	Location       *string  `json:"location"`
	GeoCoordinates *string  `json:"geoCoordinates"`
	Anonymous      bool     `json:"anonymous"`
	Attachments    []string `json:"attachments"`
	UserID         *uint    `json:"userId"`
}

// CreateComplaint submits a new ticket. UserID may be absent for anonymous
// submissions; the ticket number and initial status come from the model hook.
func (h *Handler) CreateComplaint(c *gin.Context) {
	var req createComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and description are required"})
		return
	}

	complaint := models.Complaint{
		Title:          req.Title,
		Description:    req.Description,
		CategoryID:     req.CategoryID,
		Location:       req.Location,
		GeoCoordinates: req.GeoCoordinates,
		Anonymous:      req.Anonymous,
		Attachments:    pq.StringArray(req.Attachments),
		UserID:         req.UserID,
	}

	if err := h.Complaints.Submit(&complaint); err != nil {
		log.Printf("Error creating complaint: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create complaint"})
		return
	}

	c.JSON(http.StatusCreated, complaint)
}

type complaintDetail struct {
	models.Complaint
	StatusHistory []models.StatusHistory `json:"statusHistory"`
	Responses     []models.Response      `json:"responses"`
}

// GetComplaint returns one complaint with its status history and responses
// embedded.
func (h *Handler) GetComplaint(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Complaint ID is required and must be a number"})
		return
	}

	complaint, err := h.Storage.GetComplaintByID(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Complaint not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch complaint"})
		return
	}

	history, err := h.Storage.ListStatusHistory(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch complaint"})
		return
	}
	responses, err := h.Storage.ListResponses(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch complaint"})
		return
	}

	c.JSON(http.StatusOK, complaintDetail{
		Complaint:     *complaint,
		StatusHistory: history,
		Responses:     responses,
	})
}

type updateComplaintRequest struct {
	Title          *string `json:"title"`
	Description    *string `json:"description"`
	CategoryID     *uint   `json:"categoryId"`
	Location       *string `json:"location"`
	GeoCoordinates *string `json:"geoCoordinates"`
	Status         *string `json:"status"`
	StatusComment  *string `json:"statusComment"`
	UpdatedBy      *uint   `json:"updatedBy"`
	Rating         *int    `json:"rating"`
}

// UpdateComplaint applies a partial update. A status change additionally
// appends a status-history row (handled by the complaint service).
func (h *Handler) UpdateComplaint(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Complaint ID is required and must be a number"})
		return
	}

	var req updateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	fields := map[string]interface{}{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.CategoryID != nil {
		fields["category_id"] = *req.CategoryID
	}
	if req.Location != nil {
		fields["location"] = *req.Location
	}
	if req.GeoCoordinates != nil {
		fields["geo_coordinates"] = *req.GeoCoordinates
	}
	if req.Rating != nil {
		fields["rating"] = *req.Rating
	}
	if req.Status != nil {
		if !models.ValidStatus(*req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status"})
			return
		}
		fields["status"] = *req.Status
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	updated, err := h.Complaints.Update(id, fields, req.UpdatedBy, req.StatusComment)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Complaint not found"})
			return
		}
		log.Printf("Error updating complaint %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update complaint"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteComplaint removes a complaint with its history and responses.
func (h *Handler) DeleteComplaint(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Complaint ID is required and must be a number"})
		return
	}

	if _, err := h.Storage.GetComplaintByID(id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Complaint not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete complaint"})
		return
	}

	if err := h.Storage.DeleteComplaint(id); err != nil {
		log.Printf("Error deleting complaint %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete complaint"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Complaint deleted successfully"})
}

// ListResponses returns the official replies for a complaint.
func (h *Handler) ListResponses(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Complaint ID is required and must be a number"})
		return
	}

	responses, err := h.Storage.ListResponses(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch responses"})
		return
	}
	c.JSON(http.StatusOK, responses)
}

type createResponseRequest struct {
	ResponderID uint   `json:"responderId" binding:"required"`
	Response    string `json:"response" binding:"required"`
}

// CreateResponse records an official reply to a complaint.
func (h *Handler) CreateResponse(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Complaint ID is required and must be a number"})
		return
	}

	var req createResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Responder and response are required"})
		return
	}

	response := models.Response{
		ComplaintID: id,
		ResponderID: req.ResponderID,
		Response:    req.Response,
	}
	if err := h.Storage.CreateResponse(&response); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create response"})
		return
	}

	c.JSON(http.StatusCreated, response)
}
