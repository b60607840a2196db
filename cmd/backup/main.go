package main

import (
	"flag"
	"log"

	"github.com/joho/godotenv"

	"github.com/glebradiotec/publisher-site/internal/backup"
	"github.com/glebradiotec/publisher-site/pkg/database"
	"github.com/glebradiotec/publisher-site/pkg/utils"
)

func main() {
	_ = godotenv.Load()

	uploadCfg := utils.LoadUploadConfig()
	dir := flag.String("dir", uploadCfg.BackupsDir, "backup directory")
	list := flag.Bool("list", false, "list stored backups instead of creating one")
	flag.Parse()

	dbCfg := database.DefaultConfig()
	m := backup.NewManager(dbCfg.Path, *dir)

	if *list {
		entries, err := m.List()
		if err != nil {
			log.Fatalf("list backups failed: %v", err)
		}
		for _, e := range entries {
			log.Printf("%s  %d bytes  %s", e.Name, e.Size, e.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		return
	}

	name, err := m.Create()
	if err != nil {
		log.Fatalf("backup failed: %v", err)
	}
	log.Printf("created %s", name)
}
