package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Mazart23/pet-book/backend/config"
	"github.com/Mazart23/pet-book/backend/controller-service/clients"
	"github.com/Mazart23/pet-book/backend/controller-service/handlers"
	"github.com/Mazart23/pet-book/backend/controller-service/middleware"
	"github.com/Mazart23/pet-book/backend/controller-service/services"
	"github.com/Mazart23/pet-book/backend/logging"
)

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	logging.InitLogger("controller-service")

	logging.Logger.Info("Starting Controller Service...")
	if err := godotenv.Load(".env"); err != nil {
		logging.Logger.Warnf("No .env file loaded: %v", err)
	}

	apps, err := config.LoadFromEnv()
	if err != nil {
		logging.Logger.Fatalf("Failed to load service registry: %v", err)
	}

	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	mongoDBName := os.Getenv("MONGODB_DATABASE")
	if mongoDBName == "" {
		mongoDBName = "petbook"
	}

	clientOptions := options.Client().ApplyURI(mongoURI)
	client, err := mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		logging.Logger.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	if err := client.Ping(context.TODO(), nil); err != nil {
		logging.Logger.Fatalf("Failed to ping MongoDB: %v", err)
	}
	logging.Logger.Info("Connected to MongoDB!")

	db := client.Database(mongoDBName)
	userCollection := db.Collection("users")
	postCollection := db.Collection("posts")
	notificationCollection := db.Collection("notifications")

	httpClient := &http.Client{Timeout: 30 * time.Second}

	notifierBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "NotifierServiceCB",
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})

	notifierClient := clients.NewNotifierClient(apps.Notifier.URL(), httpClient, notifierBreaker, logging.Logger)

	userService := services.NewUserService(userCollection, logging.Logger)
	postService := services.NewPostService(postCollection, userCollection, logging.Logger)
	notificationService := services.NewNotificationService(client, notificationCollection, userCollection, logging.Logger)
	commentService := services.NewCommentService(postCollection, notificationService, notifierClient, logging.Logger)
	reactionService := services.NewReactionService(postCollection, notificationService, notifierClient, logging.Logger)

	userHandler := handlers.NewUserHandler(userService)
	postHandler := handlers.NewPostHandler(postService)
	commentHandler := handlers.NewCommentHandler(commentService)
	reactionHandler := handlers.NewReactionHandler(reactionService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	qrHandler := handlers.NewQRHandler(notificationService, notifierClient, logging.Logger)

	r := mux.NewRouter()
	r.HandleFunc("/login", userHandler.Login).Methods("POST")
	r.HandleFunc("/user", userHandler.GetUser).Methods("GET")
	r.Handle("/user/password", middleware.JWTAuthMiddleware(http.HandlerFunc(userHandler.ChangePassword))).Methods("PUT")
	r.Handle("/user/picture", middleware.JWTAuthMiddleware(http.HandlerFunc(userHandler.UpdatePicture))).Methods("PUT")

	r.Handle("/post", middleware.JWTAuthMiddleware(http.HandlerFunc(postHandler.CreatePost))).Methods("PUT")
	r.HandleFunc("/post", postHandler.FetchPosts).Methods("GET")
	r.Handle("/post", middleware.JWTAuthMiddleware(http.HandlerFunc(postHandler.ModifyPost))).Methods("PATCH")
	r.Handle("/post", middleware.JWTAuthMiddleware(http.HandlerFunc(postHandler.DeletePost))).Methods("DELETE")

	r.Handle("/comment", middleware.JWTAuthMiddleware(http.HandlerFunc(commentHandler.CreateComment))).Methods("PUT")
	r.HandleFunc("/comment", commentHandler.FetchComments).Methods("GET")
	r.Handle("/comment", middleware.JWTAuthMiddleware(http.HandlerFunc(commentHandler.DeleteComment))).Methods("DELETE")

	r.Handle("/reaction", middleware.JWTAuthMiddleware(http.HandlerFunc(reactionHandler.SetReaction))).Methods("PUT")
	r.Handle("/reaction", middleware.JWTAuthMiddleware(http.HandlerFunc(reactionHandler.RemoveReaction))).Methods("DELETE")

	r.Handle("/notification", middleware.JWTAuthMiddleware(http.HandlerFunc(notificationHandler.FetchNotifications))).Methods("GET")
	r.Handle("/notification", middleware.JWTAuthMiddleware(http.HandlerFunc(notificationHandler.DismissNotification))).Methods("DELETE")

	r.HandleFunc("/qr/scan", qrHandler.RecordScan).Methods("POST")
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Controller service is running"))
	}).Methods("GET")

	corsRouter := enableCORS(r)

	port := os.Getenv("CONTROLLER_SERVICE_PORT")
	if port == "" {
		port = apps.Controller.Port
	}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      corsRouter,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logging.Logger.Infof("Server is running on port %s", port)
	log.Fatal(srv.ListenAndServe())
}
