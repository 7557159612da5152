// Package config provides configuration management for album-catalog.
//
// This package handles:
//   - Default configuration values
//   - Loading settings from a JSON, YAML or TOML file
//   - Environment overrides, including a .env file
//   - Conversion to the option types of the other packages
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// SQLite database and track files under ~/AlbumCatalog
//	// In-process cache with a 24 hour TTL
//	// ID3 tagging enabled
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.yaml")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Environment
//
// Every key can be overridden with a CATALOG_ variable, dots becoming
// underscores:
//
//	CATALOG_DATABASE_DRIVER=postgres
//	CATALOG_DATABASE_DSN="host=db user=catalog dbname=catalog"
//	CATALOG_CACHE_DRIVER=redis
//
// Variables in a .env file in the working directory are loaded first.
//
// # Saving Settings
//
//	settings.Storage.Root = "/srv/catalog/files"
//	err := settings.Save("/path/to/config.yaml")
package config
