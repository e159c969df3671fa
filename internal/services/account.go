package services

import (
	"errors"

	"github.com/glory-summit/summit/db"
	"github.com/glory-summit/summit/internal/models"
	"gorm.io/gorm"
)

// DeleteAccount removes a user and every row that references them in a
// single transaction so a failure never leaves partial cleanup behind.
// Deleting an already-deleted account is a successful no-op.
func DeleteAccount(userID uint) error {
	var user models.User

	if err := db.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	return db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.Reaction{}).Error; err != nil {
			return err
		}

		// Reactions left by others on this user's messages go with the
		// messages themselves.
		var messageIDs []uint

		if err := tx.Model(&models.Message{}).
			Where("sender_id = ?", userID).
			Pluck("id", &messageIDs).Error; err != nil {
			return err
		}

		if len(messageIDs) > 0 {
			if err := tx.Where("message_id IN ?", messageIDs).Delete(&models.Reaction{}).Error; err != nil {
				return err
			}

			if err := tx.Delete(&models.Message{}, messageIDs).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("requester_id = ? OR addressee_id = ?", userID, userID).
			Delete(&models.Connection{}).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.Question{}).Error; err != nil {
			return err
		}

		var responseIDs []uint

		if err := tx.Model(&models.SurveyResponse{}).
			Where("user_id = ?", userID).
			Pluck("id", &responseIDs).Error; err != nil {
			return err
		}

		if len(responseIDs) > 0 {
			if err := tx.Where("response_id IN ?", responseIDs).Delete(&models.SurveyAnswer{}).Error; err != nil {
				return err
			}

			if err := tx.Delete(&models.SurveyResponse{}, responseIDs).Error; err != nil {
				return err
			}
		}

		var sessionIDs []string

		if err := tx.Model(&models.Session{}).
			Where("user_id = ?", userID).
			Pluck("id", &sessionIDs).Error; err != nil {
			return err
		}

		if len(sessionIDs) > 0 {
			if err := tx.Where("session_id IN ?", sessionIDs).Delete(&models.SessionEvent{}).Error; err != nil {
				return err
			}

			if err := tx.Where("user_id = ?", userID).Delete(&models.Session{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&user).Error
	})
}
