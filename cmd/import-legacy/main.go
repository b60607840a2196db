package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/glebradiotec/publisher-site/internal/importer"
	"github.com/glebradiotec/publisher-site/pkg/database"
	"github.com/glebradiotec/publisher-site/pkg/utils"
)

func main() {
	_ = godotenv.Load()

	importCfg := utils.LoadImportConfig()
	dump := flag.String("dump", importCfg.DumpPath, "path to the legacy MySQL dump")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	sum, err := importer.New(db, *dump, os.Stdout).Run(ctx)
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}

	log.Printf("done: %d journals, %d issues, %d articles, %d authors, %d skipped (dump encoding %s)",
		sum.Journals, sum.Issues, sum.Articles, sum.Authors, sum.Skipped, sum.Encoding)
}
