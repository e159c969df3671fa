package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/glory-summit/summit/db"
	"github.com/glory-summit/summit/internal/models"
	"github.com/glory-summit/summit/internal/types"
	"github.com/glory-summit/summit/internal/utils"
	"gorm.io/gorm"
)

// ListUsers returns attendee directory entries, optionally filtered by role.
func ListUsers(ctx *gin.Context) {
	query := db.DB.Order("name ASC")

	if role := ctx.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	var users []models.User

	if err := query.Find(&users).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users"})
		return
	}

	responses := make([]types.UserResponse, 0, len(users))

	for _, user := range users {
		responses = append(responses, userResponse(user))
	}

	ctx.JSON(http.StatusOK, responses)
}

func GetUser(ctx *gin.Context) {
	userID, err := utils.GetIDParam(ctx, "user_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User

	if err := db.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		}
		return
	}

	ctx.JSON(http.StatusOK, userResponse(user))
}
