// Package config provides configuration parsing for bemhtml projects.
//
// The configuration is stored in bemhtml.json at the project root. Every
// field is optional; command-line flags override file values.
//
// # Configuration File Structure
//
//	{
//	  "renderer": {
//	    "xhtml": false,
//	    "elemJsInstances": false,
//	    "omitOptionalEndTags": false,
//	    "unquotedAttrs": false,
//	    "naming": "origin",
//	    "escapeContent": true
//	  },
//	  "templates": "./templates.yaml",
//	  "server": {
//	    "host": "localhost",
//	    "port": 8080,
//	    "maxBodyBytes": 4194304
//	  },
//	  "publish": {
//	    "bucket": "my-site",
//	    "prefix": "pages/",
//	    "region": "eu-west-1"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	engine := bemhtml.New(cfg.Options())
package config
