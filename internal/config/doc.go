// Package config provides configuration parsing for the reactive tools.
//
// The configuration is stored in reactive.json (or reactive.yaml) in the
// working directory, or in the file passed with --config. Every field can
// be overridden from the environment with a REACTIVE_ prefix.
//
// # Configuration File Structure
//
//	source: state.yaml
//	shallow: false
//	server:
//	  host: localhost
//	  port: 7070
//	  watchBuffer: 16
//	s3:
//	  region: eu-west-1
//	  endpoint: http://localhost:9000
//	  usePathStyle: true
//	log:
//	  level: debug
//	  format: json
//
// # Environment
//
//	REACTIVE_SOURCE=s3://bucket/state.json
//	REACTIVE_SERVER_PORT=8080
//	REACTIVE_S3_ANONYMOUS=true
//	REACTIVE_LOG_LEVEL=debug
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.ApplyEnv(); err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.Address())
package config
