package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/glory-summit/summit/db"
	"github.com/glory-summit/summit/internal/models"
	"github.com/glory-summit/summit/internal/utils"
	"gorm.io/gorm"
)

type CreateConnectionRequest struct {
	AddresseeID uint `json:"addressee_id" binding:"required"`
}

type UpdateConnectionRequest struct {
	Status string `json:"status" binding:"required,oneof=accepted rejected"`
}

type ConnectionResponse struct {
	ID          uint   `json:"id"`
	RequesterID uint   `json:"requester_id"`
	AddresseeID uint   `json:"addressee_id"`
	Status      string `json:"status"`
}

// CreateConnection sends a connection request. Existence is checked in both
// directions: if B already requested A, A cannot request B.
func CreateConnection(ctx *gin.Context) {
	requesterID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateConnectionRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.AddresseeID == requesterID {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Cannot connect with yourself"})
		return
	}

	var addressee models.User

	if err := db.DB.First(&addressee, req.AddresseeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Addressee not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		}
		return
	}

	var existing models.Connection

	err = db.DB.Where(
		"(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)",
		requesterID, req.AddresseeID, req.AddresseeID, requesterID,
	).First(&existing).Error

	if err == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Connection already exists"})
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing connection"})
		return
	}

	connection := models.Connection{
		RequesterID: requesterID,
		AddresseeID: req.AddresseeID,
		Status:      models.ConnectionPending,
	}

	if err := db.DB.Create(&connection).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create connection"})
		return
	}

	ctx.JSON(http.StatusCreated, connectionResponse(connection))
}

// ListConnections returns the caller's connections in both directions,
// optionally filtered by status.
func ListConnections(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	query := db.DB.Where("requester_id = ? OR addressee_id = ?", userID, userID)

	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var connections []models.Connection

	if err := query.Order("created_at DESC").Find(&connections).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve connections"})
		return
	}

	responses := make([]ConnectionResponse, 0, len(connections))

	for _, connection := range connections {
		responses = append(responses, connectionResponse(connection))
	}

	ctx.JSON(http.StatusOK, responses)
}

// UpdateConnection accepts or rejects a pending request. Only the addressee
// may decide.
func UpdateConnection(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	connectionID, err := utils.GetIDParam(ctx, "connection_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req UpdateConnectionRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var connection models.Connection

	if err := db.DB.First(&connection, connectionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Connection not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve connection"})
		}
		return
	}

	if connection.AddresseeID != userID {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only the addressee may respond to a request"})
		return
	}

	if connection.Status != models.ConnectionPending {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Connection request has already been decided"})
		return
	}

	if err := db.DB.Model(&connection).Update("status", req.Status).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update connection"})
		return
	}

	ctx.JSON(http.StatusOK, connectionResponse(connection))
}

func connectionResponse(connection models.Connection) ConnectionResponse {
	return ConnectionResponse{
		ID:          connection.ID,
		RequesterID: connection.RequesterID,
		AddresseeID: connection.AddresseeID,
		Status:      connection.Status,
	}
}
