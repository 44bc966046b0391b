package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/Mazart23/pet-book/backend/config"
	"github.com/Mazart23/pet-book/backend/logging"
	"github.com/Mazart23/pet-book/backend/notifier-service/handlers"
	"github.com/Mazart23/pet-book/backend/notifier-service/services"
)

func enableCORS(next http.Handler, allowedOrigin string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	logging.InitLogger("notifier-service")

	if err := godotenv.Load(".env"); err != nil {
		logging.Logger.Warnf("No .env file loaded: %v", err)
	}

	apps, err := config.LoadFromEnv()
	if err != nil {
		logging.Logger.Fatalf("Failed to load service registry: %v", err)
	}
	clientOrigin := apps.Client.ExternalURL()

	registry := services.NewConnectionRegistry()
	hub := services.NewHub(registry, clientOrigin, logging.Logger)
	emitHandler := handlers.NewEmitHandler(hub)

	r := mux.NewRouter()
	r.HandleFunc("/ws", hub.HandleConnect).Methods("GET")
	r.HandleFunc("/emit/comment", emitHandler.EmitComment).Methods("POST")
	r.HandleFunc("/emit/reaction", emitHandler.EmitReaction).Methods("POST")
	r.HandleFunc("/emit/scan", emitHandler.EmitScan).Methods("POST")
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Notifier service is running"))
	}).Methods("GET")

	corsRouter := enableCORS(r, clientOrigin)

	port := os.Getenv("NOTIFIER_SERVICE_PORT")
	if port == "" {
		port = apps.Notifier.Port
	}

	// No write timeout here: websocket connections stay open indefinitely.
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: corsRouter,
	}
	logging.Logger.Infof("Server is running on port %s", port)
	log.Fatal(srv.ListenAndServe())
}
