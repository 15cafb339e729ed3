// Package config provides configuration management for the alfac
// compiler.
//
// Configuration is loaded from a YAML file, filled in with defaults,
// optionally overridden by ALFAC_SECTION_FIELD environment variables,
// and validated. Command-line flags are applied on top by the CLI and
// take the highest precedence.
//
// A minimal configuration file:
//
//	compile:
//	  inputs:
//	    - policies/
//	  output_dir: xacml
//
//	logging:
//	  level: info
package config
