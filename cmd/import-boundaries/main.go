package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mnatlas/atlas-backend/internal/boundaryimport"
)

func main() {
	var (
		shapefile = flag.String("shapefile", "", "path to source shapefile")
		kind      = flag.String("kind", "", "boundary kind: "+strings.Join(boundaryimport.KindNames(), ", "))
		dbURL     = flag.String("db", "", "DATABASE_URL (defaults to env / .env.local)")
		wipe      = flag.Bool("wipe", false, "DANGER: clears the kind's existing boundary rows before importing")
	)
	flag.Parse()

	_ = godotenv.Load(".env.local")
	if *dbURL == "" {
		*dbURL = os.Getenv("DATABASE_URL")
	}

	if *shapefile == "" || *kind == "" || *dbURL == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := boundaryimport.Config{
		ShapefilePath: *shapefile,
		Kind:          *kind,
		DatabaseURL:   *dbURL,
		Wipe:          *wipe,
	}

	sum, err := boundaryimport.Run(cfg)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("done: %d features, %d dropped, %d groups, %d linked, %d imported, %d failed batches\n",
		sum.Features, sum.Dropped, sum.Groups, sum.Linked, sum.Imported, sum.FailedBatches)
}
