// Package config provides loading and environment overlay for Silt runtime
// configuration. It exposes a Default() baseline, a Load() that understands
// JSON and YAML files, and a FromEnv overlay driven by SILT_* variables.
//
// Example:
//
//	cfg := config.Default()
//	if fileCfg, err := config.Load("/etc/silt.yaml"); err == nil {
//	    cfg = fileCfg
//	}
//	config.FromEnv(&cfg)
//	rt, _ := runtime.Open(runtime.Options{DataDir: "/var/lib/silt", Config: cfg})
//	defer rt.Close()
package config
