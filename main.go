package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	_ "modernc.org/sqlite"

	"github.com/nemopss/expense-tracker/backend/api"
	"github.com/nemopss/expense-tracker/backend/db"
	_ "github.com/nemopss/expense-tracker/backend/docs"
)

// @title Expense Tracker API
// @version 1.0
// @description REST API for personal income/expense tracking.
// @BasePath /
// @SecurityDefinitions.apikey ApiKeyAuth
// @In header
// @Name Authorization
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file, using environment")
	}

	storage, err := newStorage()
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer storage.Close()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	handler := api.NewHandler(storage, jwtSecret)

	r := gin.Default()
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "API is running")
	})

	v1 := r.Group("/api/v1")
	v1.POST("/users/register", handler.Register)
	v1.POST("/users/login", handler.Login)

	protected := v1.Group("/", handler.AuthMiddleware())
	protected.POST("/users/setAvatar/:userId", handler.SetAvatar)
	protected.POST("/transactions/addTransaction", handler.AddTransaction)
	protected.POST("/transactions/getTransactions", handler.GetTransactions)
	protected.PUT("/transactions/updateTransaction/:id", handler.UpdateTransaction)
	protected.DELETE("/transactions/deleteTransaction/:id", handler.DeleteTransaction)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

// newStorage selects the backend from DATA_BACKEND: postgres (default),
// sqlite or memory.
func newStorage() (db.Store, error) {
	switch backend := os.Getenv("DATA_BACKEND"); backend {
	case "", "postgres":
		return db.NewStorage(os.Getenv("POSTGRES_URL"))
	case "sqlite":
		path := os.Getenv("SQLITE_DB_PATH")
		if path == "" {
			path = "./data/expense-tracker.db"
		}
		return db.NewSQLiteStorage(path)
	case "memory":
		log.Println("Using in-memory storage, data will not survive a restart")
		return db.NewMemoryStore(), nil
	default:
		log.Fatalf("Unknown DATA_BACKEND %q", backend)
		return nil, nil
	}
}
