// Package config provides configuration management for aniport.
//
// It utilizes Viper for loading configuration from environment variables and an
// optional .env file. Defaults live next to each setting as `default` struct tags.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - AniList: GraphQL endpoint, OAuth client credentials, pacing and rate-limit wait
//   - Backup: output directory for exports and derived restore artifacts
//   - Account: OAuth callback listener settings
//   - Storage: optional S3/MinIO mirror for backup files
//   - Database: account and run journal database (sqlite or mysql)
//   - Log: logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Backup.OutputDir)
package config
