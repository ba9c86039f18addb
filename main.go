package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/mnatlas/atlas-backend/internal/auth"
	"github.com/mnatlas/atlas-backend/internal/billing"
	"github.com/mnatlas/atlas-backend/internal/cache"
	"github.com/mnatlas/atlas-backend/internal/checkbook"
	"github.com/mnatlas/atlas-backend/internal/civic"
	"github.com/mnatlas/atlas-backend/internal/db"
	"github.com/mnatlas/atlas-backend/internal/mentions"
	"github.com/mnatlas/atlas-backend/internal/middleware"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	response := "Server is up!"
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, response)
}

func main() {
	_ = godotenv.Load(".env.local")
	db.Connect()
	cache.Connect()

	port := os.Getenv("PORT")
	if port == "" {
		port = "5050"
	}

	auth.Init()
	civic.Init()
	mentions.Init()
	checkbook.Init()
	billing.Init()
	billing.InitProcessor()

	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)
	r.Get("/", RootHandler)

	r.Mount("/auth", auth.SetupRoutes())
	r.Mount("/civic", civic.SetupRoutes())
	r.Mount("/mentions", mentions.SetupRoutes())
	r.Mount("/checkbook", checkbook.SetupRoutes())
	r.Mount("/billing", billing.SetupRoutes())

	fmt.Println("Server listening on port :" + port + "...")

	http.ListenAndServe("0.0.0.0:"+port, r)
}
