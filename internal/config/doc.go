// Package config loads fileroute project configuration.
//
// Configuration lives in fileroute.json (or fileroute.yaml) at the project
// root. Every field has a default, so a project without a config file is
// valid: the routes directory defaults to app/routes and both generation
// modes are written next to the route files.
//
// # Configuration File
//
//	{
//	  "paths": {"routes": "app/routes"},
//	  "output": {
//	    "dir": "app/routes",
//	    "package": "routes",
//	    "modes": ["stateless", "stateful"],
//	    "statefulTag": "fileroute_stateful"
//	  },
//	  "state": {"type": "*store.DB", "import": "example.com/app/store"},
//	  "routing": {"conflictMode": "prefer_static", "strict": false},
//	  "metrics": {"file": "build/fileroute.prom"}
//	}
//
// # Environment
//
// A .env file next to the config is loaded first (existing variables win),
// then FILEROUTE_* variables override file values:
//
//	FILEROUTE_ROUTES        paths.routes
//	FILEROUTE_OUTPUT        output.dir
//	FILEROUTE_MODES         output.modes (comma separated)
//	FILEROUTE_STATE_TYPE    state.type
//	FILEROUTE_STATE_IMPORT  state.import
//	FILEROUTE_METRICS_FILE  metrics.file
package config
