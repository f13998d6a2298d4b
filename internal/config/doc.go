// Package config provides configuration parsing for docroutes.
//
// The configuration is stored in docroutes.json next to the site build.
// This package handles loading, saving, validating and environment overrides.
//
// # Configuration File Structure
//
//	{
//	  "server": {
//	    "address": ":8080",
//	    "shutdownTimeout": "30s"
//	  },
//	  "table": {
//	    "path": "build/routes.js",
//	    "watch": true,
//	    "pollInterval": "2s"
//	  },
//	  "resolver": {
//	    "trailingSlashFallback": true,
//	    "basePath": "/bot-box/"
//	  },
//	  "metrics": { "enabled": true },
//	  "log": { "level": "info", "format": "text" }
//	}
//
// A table can come from S3 instead of a local file:
//
//	"table": { "s3": { "bucket": "docs-site", "key": "build/routes.json", "region": "eu-west-1" } }
//
// # Environment
//
// DOCROUTES_ADDRESS, DOCROUTES_TABLE, DOCROUTES_ADMIN_SECRET and
// DOCROUTES_LOG_LEVEL override the matching fields after the file is read.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cfg.ApplyEnv(os.LookupEnv)
package config
