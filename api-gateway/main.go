package main

import (
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"

	"github.com/joho/godotenv"

	"github.com/Mazart23/pet-book/backend/config"
	"github.com/Mazart23/pet-book/backend/logging"
)

func main() {
	logging.InitLogger("api-gateway")

	if err := godotenv.Load(".env"); err != nil {
		logging.Logger.Warnf("No .env file loaded: %v", err)
	}

	apps, err := config.LoadFromEnv()
	if err != nil {
		logging.Logger.Fatalf("Failed to load service registry: %v", err)
	}

	controller := reverseProxyURL(apps.Controller.URL())
	redirecter := reverseProxyURL(apps.Redirecter.URL())

	mux := http.NewServeMux()

	// Controller routes. Per-endpoint auth stays in the controller, the gateway
	// additionally gates the endpoints that are never public.
	mux.Handle("/api/login", controller)
	mux.Handle("/api/user", controller)
	mux.Handle("/api/user/password", authMiddleware(controller))
	mux.Handle("/api/user/picture", authMiddleware(controller))
	mux.Handle("/api/post", controller)
	mux.Handle("/api/comment", controller)
	mux.Handle("/api/reaction", authMiddleware(controller))
	mux.Handle("/api/notification", authMiddleware(controller))

	// QR landing flow, hit by arbitrary guests scanning codes.
	mux.Handle("/pet-book", redirecter)
	mux.Handle("/pet-book/", redirecter)

	port := os.Getenv("API_GATEWAY_PORT")
	if port == "" {
		port = "8000"
	}

	logging.Logger.Infof("API gateway is running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, enableCORS(mux)))
}

func reverseProxyURL(target string) http.Handler {
	targetURL, err := url.Parse(target)
	if err != nil {
		logging.Logger.Fatalf("Invalid proxy target %s: %v", target, err)
	}
	proxy := httputil.NewSingleHostReverseProxy(targetURL)

	director := proxy.Director
	proxy.Director = func(req *http.Request) {
		director(req)
		// Services see the original paths, without the /api prefix.
		if len(req.URL.Path) > 4 && req.URL.Path[:5] == "/api/" {
			req.URL.Path = req.URL.Path[4:]
		}
	}

	return proxy
}

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
