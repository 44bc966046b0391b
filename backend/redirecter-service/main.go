package main

import (
	"context"
	"fmt"
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
	"github.com/Mazart23/pet-book/backend/logging"
	"github.com/Mazart23/pet-book/backend/redirecter-service/clients"
	"github.com/Mazart23/pet-book/backend/redirecter-service/handlers"
	"github.com/Mazart23/pet-book/backend/redirecter-service/services"
)

const (
	defaultNominatimURL = "https://nominatim.openstreetmap.org"
	defaultIPAPIURL     = "http://ip-api.com"
)

func main() {
	logging.InitLogger("redirecter-service")

	logging.Logger.Info("Starting Redirecter Service...")
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

	userCollection := client.Database(mongoDBName).Collection("users")

	httpClient := &http.Client{Timeout: 30 * time.Second}

	controllerBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "ControllerServiceCB",
		MaxRequests: 1,
		Timeout:     2 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})

	nominatimURL := os.Getenv("NOMINATIM_URL")
	if nominatimURL == "" {
		nominatimURL = defaultNominatimURL
	}
	ipAPIURL := os.Getenv("IP_API_URL")
	if ipAPIURL == "" {
		ipAPIURL = defaultIPAPIURL
	}

	userService := services.NewUserService(userCollection, logging.Logger)
	geoService := services.NewGeoService(httpClient, nominatimURL, ipAPIURL, logging.Logger)
	controllerClient := clients.NewControllerClient(apps.Controller.URL(), httpClient, controllerBreaker, logging.Logger)

	notifyURL := fmt.Sprintf("%s/pet-book/notify", apps.Redirecter.ExternalURL())
	petBookHandler := handlers.NewPetBookHandler(userService, geoService, controllerClient, notifyURL, apps.Client.ExternalURL(), logging.Logger)

	// QR codes in the wild encode the landing URL with a trailing slash.
	r := mux.NewRouter().StrictSlash(true)
	r.HandleFunc("/pet-book", petBookHandler.AccessPoint).Methods("GET")
	r.HandleFunc("/pet-book/notify", petBookHandler.Notify).Methods("POST")
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Redirecter service is running"))
	}).Methods("GET")

	port := os.Getenv("REDIRECTER_SERVICE_PORT")
	if port == "" {
		port = apps.Redirecter.Port
	}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logging.Logger.Infof("Server is running on port %s", port)
	log.Fatal(srv.ListenAndServe())
}
