// Package server holds the HTTP server configuration.
//
// The main application entry point handles the server startup; this package only
// defines the configuration structure and small helpers around it.
//
// # Configuration
//
// The Config struct defines the HTTP port and the API key. When the API key is empty
// the auth middleware lets every request through.
package server
