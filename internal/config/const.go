// Package config resolves the settings of a factorygen run from config files,
// the environment, command line flags and in-source directives.
package config

// Global constants for the application.
const (
	Application = "factorygen"
	Description = "Generate simple factories and factory methods from marked types"
	WebSite     = "https://github.com/origadmin/factorygen"
	UI          = "factorygen"
)

// DefaultMarkerPackage is the import path of the runtime package that
// declares ProductOf and CreatorOf.
const DefaultMarkerPackage = "github.com/origadmin/factorygen/factory"

// Default output file names.
const (
	DefaultOutput         = "factory_gen.go"
	DefaultRegisterOutput = "factory_register_gen.go"
	DefaultHeader         = "Code generated by factorygen. DO NOT EDIT."
)

// Duplicate key policies.
const (
	DuplicatesReplace = "replace"
	DuplicatesReject  = "reject"
)
