package database

import (
	"inkwell/log"
	"inkwell/models"

	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB) error {
	log.Info.Println("Running database migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.PostLike{},
	)

	if err != nil {
		log.Error.Printf("Error running migrations: %v", err)
		return err
	}

	log.Info.Println("Migrations completed successfully")
	return nil
}
