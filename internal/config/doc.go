// Package config provides configuration parsing for Kayak tools.
//
// The configuration is stored in kayak.json. Every field is optional; a
// missing file yields the defaults from New.
//
// # Configuration File Structure
//
//	{
//	  "debug": true,
//	  "log": {
//	    "level": "debug",
//	    "format": "text"
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "kayak"
//	  },
//	  "tracing": {
//	    "tracerName": "kayak"
//	  },
//	  "inspect": {
//	    "addr": "localhost:7070"
//	  },
//	  "demo": {
//	    "frames": 6,
//	    "items": 4,
//	    "interval": "500ms"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.LoadOrDefault(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	logger := cfg.NewLogger(os.Stderr)
package config
