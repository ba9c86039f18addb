package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mnatlas/atlas-backend/internal/checkbook"
)

func main() {
	var (
		dir     = flag.String("dir", "", "directory holding <period>_ALL_budgets.csv extracts")
		periods = flag.String("periods", "2020,2021,2022,2023,2024,2025,2026", "comma-separated budget periods to import")
		dbURL   = flag.String("db", "", "DATABASE_URL (defaults to env / .env.local)")
	)
	flag.Parse()

	_ = godotenv.Load(".env.local")
	if *dbURL == "" {
		*dbURL = os.Getenv("DATABASE_URL")
	}

	if *dir == "" || *dbURL == "" {
		flag.Usage()
		os.Exit(2)
	}

	var years []int
	for _, p := range strings.Split(*periods, ",") {
		y, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			log.Fatalf("invalid period %q", p)
		}
		years = append(years, y)
	}

	sum, err := checkbook.ImportBudgets(checkbook.ImportConfig{
		Dir:         *dir,
		Periods:     years,
		DatabaseURL: *dbURL,
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("done: %d files, %d rows, %d skipped, %d inserted, %d failed batches\n",
		sum.Files, sum.Rows, sum.Skipped, sum.Inserted, sum.FailedBatches)
}
