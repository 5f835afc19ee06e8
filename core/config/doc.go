// Package config provides configuration management for the slot aggregator.
//
// It utilizes Viper for loading configuration from environment variables and an
// optional .env file. Defaults live next to each setting as `default:"..."` struct tags.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Log: Logging level and format
//   - Database: MySQL or SQLite connection details for the sql store
//   - Storage: S3/MinIO credentials and bucket settings
//   - Store: Persistence backend (file, sql, s3)
//   - Registry: Where provider configuration files are read from
//   - Scrape: Shared adapter defaults (timezone, slot cap, timeouts, browser)
//   - Geo: Address lookup endpoint for distance ordering
//
// Environment variables map to nested keys by replacing dots with underscores,
// e.g. SCRAPE_TIMEZONE sets scrape.timezone.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Scrape.MaxSlots)
package config
