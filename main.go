package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"colliss.co.uk/intake/config"
	"colliss.co.uk/intake/handlers"
	"colliss.co.uk/intake/pkg/resend"
	"colliss.co.uk/intake/routes"
)

var (
	Version   = "dev"
	BuildTime = ""
)

func main() {

	versionFlag := flag.Bool("version", false, "Print version info and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("Version:   %s\n", Version)
		fmt.Printf("BuildTime: %s\n", BuildTime)
		os.Exit(0)
	}
	config.Connect()
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Run migrations
	if err := config.Migrations(config.DB); err != nil {
		log.Fatalf("could not run migrations: %v", err)
	}

	media, err := handlers.NewMediaStoreFromEnv(context.Background())
	if err != nil {
		log.Fatalf("could not set up media store: %v", err)
	}

	store := handlers.NewGormStore(config.DB)
	mail := resend.New(os.Getenv("RESEND_API_KEY"))
	notifier := handlers.NewNotifier(mail, store,
		config.Getenv("EMAIL_FROM", "Vehicle Submissions <onboarding@resend.dev>"),
		config.Getenv("BUSINESS_EMAIL", "info@collissconnections.co.uk"),
	)

	handler := routes.RegisterRoutes(handlers.NewHandler(store, media, notifier))
	handlerWithCORS := enableCORS(handler)
	log.Println("Server starting at port", port)
	log.Fatal(http.ListenAndServe(":"+port, handlerWithCORS))
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Required CORS headers
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, x-api-key, X-Requested-With")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")

		// Handle preflight (OPTIONS)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
