package main

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"inkwell/admin"
	"inkwell/auth"
	"inkwell/blog"
	"inkwell/cache"
	"inkwell/common"
	"inkwell/database"
	"inkwell/log"
	"inkwell/token"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn.Println("no .env file found, using environment as-is")
	}

	db := common.ConnectDb()
	if db == nil {
		log.Fatal("Failed to connect to database")
	}

	if err := database.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	tokenSecret := os.Getenv("TOKEN_SECRET")
	if tokenSecret == "" {
		log.Fatal("TOKEN_SECRET environment variable not set")
	}
	tokens := token.NewService(tokenSecret)

	if err := cache.ClearOld(24 * time.Hour); err != nil {
		log.Warn.Println("could not prune render cache:", err)
	}

	router := gin.Default()

	// identity resolution runs before every route; restrictions are attached
	// per route group
	gate := auth.NewGate(tokens)
	router.Use(gate.Middleware())

	router.LoadHTMLGlob("views/*.html")
	router.Static("/public", "./public")
	router.Static("/uploads", "./public/uploads")

	adminModule := admin.NewAdminModule(db, tokens)
	adminModule.RegisterRoutes(router)

	blogModule := blog.NewBlogModule(db)
	blogModule.RegisterRoutes(router)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Info.Printf("Starting server on port %s...", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
