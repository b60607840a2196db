package utils

import (
	"os"
	"strconv"
	"time"
)

type AuthConfig struct {
	JWTSecret   string
	JWTIssuer   string
	JWTDuration time.Duration
}

func LoadAuthConfig() AuthConfig {
	secret := os.Getenv("PUBLISHER_JWT_SECRET")
	if secret == "" {
		// dev default (change for production)
		secret = "dev-secret-change-me"
	}

	issuer := os.Getenv("PUBLISHER_JWT_ISSUER")
	if issuer == "" {
		issuer = "publisher-site"
	}

	dur := 24 * time.Hour
	if h := os.Getenv("PUBLISHER_JWT_TTL_HOURS"); h != "" {
		if n, err := strconv.Atoi(h); err == nil && n > 0 {
			dur = time.Duration(n) * time.Hour
		}
	}

	return AuthConfig{
		JWTSecret:   secret,
		JWTIssuer:   issuer,
		JWTDuration: dur,
	}
}

type ImportConfig struct {
	DumpPath string
}

func LoadImportConfig() ImportConfig {
	p := os.Getenv("PUBLISHER_DUMP_PATH")
	if p == "" {
		p = "old/_live.radiotec_main4.sql"
	}
	return ImportConfig{DumpPath: p}
}

type UploadConfig struct {
	CoversDir  string
	PDFsDir    string
	BackupsDir string
}

func LoadUploadConfig() UploadConfig {
	cfg := UploadConfig{
		CoversDir:  "static/uploads/covers",
		PDFsDir:    "static/uploads/pdfs",
		BackupsDir: "backups",
	}
	if p := os.Getenv("PUBLISHER_COVERS_DIR"); p != "" {
		cfg.CoversDir = p
	}
	if p := os.Getenv("PUBLISHER_PDFS_DIR"); p != "" {
		cfg.PDFsDir = p
	}
	if p := os.Getenv("PUBLISHER_BACKUPS_DIR"); p != "" {
		cfg.BackupsDir = p
	}
	return cfg
}
