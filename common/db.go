package common

import (
	"os"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"inkwell/log"
)

func ConnectDb() *gorm.DB {
	dbFile := os.Getenv("sqlite_db")
	if dbFile == "" {
		log.Warn.Println("sqlite_db not set")
		return nil
	}

	db, err := gorm.Open(sqlite.Open(dbFile), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Error.Println("Error opening sqlite db: " + err.Error())
		return nil
	}
	log.Info.Println("opened sqlite db at:", dbFile)
	return db
}
