package main

import (
	"fmt"
	"log"
	"os"

	"hostwatch/internal/handlers"
	"hostwatch/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using system defaults.")
	}

	serverPort := getEnv("SERVER_PORT", ":8080")
	dbName := getEnv("DB_NAME", "hostwatch.db")
	tokenSecret := getEnv("TOKEN_SECRET", "hostwatch-dev-secret")

	db, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	db.AutoMigrate(
		&models.SystemStat{},
		&models.NewProcess{},
		&models.PrivilegedProcess{},
		&models.User{},
	)
	if err := handlers.EnsureDefaultUser(db); err != nil {
		log.Fatalf("Failed to seed default user: %v", err)
	}

	h := handlers.NewAPIHandler(db, tokenSecret)

	r := gin.Default()
	h.Register(r)

	fmt.Printf("Server running on port %s\n", serverPort)
	r.Run(serverPort)
}
