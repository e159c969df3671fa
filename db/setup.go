package db

import (
	"github.com/glory-summit/summit/internal/models"
	"github.com/glory-summit/summit/internal/types"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDatabase(dsn string) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})

	if err != nil {
		return err
	}

	return nil
}

func MigrateDatabase() error {
	models := []interface{}{
		&models.User{},
		&models.Conversation{},
		&models.Message{},
		&models.Reaction{},
		&models.Connection{},
		&models.Question{},
		&models.Survey{},
		&models.SurveyQuestion{},
		&models.SurveyResponse{},
		&models.SurveyAnswer{},
		&models.Session{},
		&models.SessionEvent{},
	}

	migrator := DB.Migrator()

	for _, model := range models {
		if !migrator.HasTable(model) {
			if err := DB.AutoMigrate(model); err != nil {
				return err
			}
		}
	}

	return SeedGroupConversation()
}

// SeedGroupConversation ensures the reserved group-chat conversation row
// exists. Every group message is bound to this row.
func SeedGroupConversation() error {
	conversation := models.Conversation{
		Model: gorm.Model{ID: types.GroupConversationID},
		Name:  "GLORY Summit Group Chat",
		Kind:  "group",
	}

	return DB.Where("id = ?", types.GroupConversationID).FirstOrCreate(&conversation).Error
}
