package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"taskmanager-project/backend/handlers"
	"taskmanager-project/backend/logging"
	"taskmanager-project/backend/middleware"
	"taskmanager-project/backend/repositories"
	"taskmanager-project/backend/services"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	logging.InitLogger()

	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting task manager backend...")
	if err := godotenv.Load(".env"); err != nil {
		logging.Logger.Warnf("Event ID: ENV_LOAD_WARNING, Description: No .env file loaded: %v", err)
	}

	mongoURI := os.Getenv("MONGO_URI")
	mongoDBName := os.Getenv("MONGO_DB_NAME")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	defer client.Disconnect(ctx)

	if err := client.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB at %s.", mongoURI)

	db := client.Database(mongoDBName)
	taskRepo := repositories.NewTaskRepo(db.Collection("tasks"))
	userRepo := repositories.NewUserRepo(db.Collection("users"))
	noticeRepo := repositories.NewNoticeRepo(db.Collection("notices"))

	noticesBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "notices-cb",
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})

	notificationService := services.NewNotificationService(noticeRepo, taskRepo, noticesBreaker)
	taskService := services.NewTaskService(taskRepo, userRepo, notificationService)
	dashboardService := services.NewDashboardService(taskRepo, userRepo)
	userService := services.NewUserService(userRepo)

	taskHandler := handlers.NewTaskHandler(taskService, dashboardService)
	userHandler := handlers.NewUserHandler(userService)
	loginHandler := handlers.NewLoginHandler(userService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	r := mux.NewRouter()

	// Public routes
	r.HandleFunc("/api/user/register", userHandler.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/user/login", loginHandler.Login).Methods(http.MethodPost)
	r.HandleFunc("/api/user/logout", loginHandler.Logout).Methods(http.MethodPost)

	// Authenticated routes
	auth := r.NewRoute().Subrouter()
	auth.Use(middleware.JWTAuthMiddleware)
	auth.HandleFunc("/api/user/notifications", notificationHandler.GetNotifications).Methods(http.MethodGet)
	auth.HandleFunc("/api/user/read-noti", notificationHandler.MarkRead).Methods(http.MethodPut)
	auth.HandleFunc("/api/user/profile", userHandler.UpdateProfile).Methods(http.MethodPut)
	auth.HandleFunc("/api/user/change-password", userHandler.ChangePassword).Methods(http.MethodPut)
	auth.HandleFunc("/api/task/dashboard", taskHandler.Dashboard).Methods(http.MethodGet)
	auth.HandleFunc("/api/task", taskHandler.GetTasks).Methods(http.MethodGet)
	auth.HandleFunc("/api/task/activity/{id}", taskHandler.PostTaskActivity).Methods(http.MethodPost)
	auth.HandleFunc("/api/task/{id}", taskHandler.GetTask).Methods(http.MethodGet)

	// Admin-only routes
	admin := r.NewRoute().Subrouter()
	admin.Use(middleware.JWTAuthMiddleware, middleware.AdminOnly)
	admin.HandleFunc("/api/user/get-team", userHandler.GetTeamList).Methods(http.MethodGet)
	admin.HandleFunc("/api/user/{id}", userHandler.ActivateProfile).Methods(http.MethodPut)
	admin.HandleFunc("/api/user/{id}", userHandler.DeleteProfile).Methods(http.MethodDelete)
	admin.HandleFunc("/api/task/create", taskHandler.CreateTask).Methods(http.MethodPost)
	admin.HandleFunc("/api/task/duplicate/{id}", taskHandler.DuplicateTask).Methods(http.MethodPost)
	admin.HandleFunc("/api/task/create-subtask/{id}", taskHandler.CreateSubTask).Methods(http.MethodPut)
	admin.HandleFunc("/api/task/update/{id}", taskHandler.UpdateTask).Methods(http.MethodPut)
	admin.HandleFunc("/api/task/{id}", taskHandler.TrashTask).Methods(http.MethodPut)
	admin.HandleFunc("/api/task/delete-restore/{id}", taskHandler.TrashTask).Methods(http.MethodDelete)
	admin.HandleFunc("/api/task/delete-restore", taskHandler.TrashTask).Methods(http.MethodDelete)

	corsRouter := enableCORS(r)

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: SERVER_PORT is not set in the environment variables.")
	}

	serverAddress := fmt.Sprintf(":%s", serverPort)
	logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", serverAddress)

	if err := http.ListenAndServe(serverAddress, corsRouter); err != nil {
		logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
	}
}
