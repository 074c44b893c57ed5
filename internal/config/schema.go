package config

import (
	_ "embed"
)

//go:embed schema/config.cue
var configSchemaCUE []byte

// schemaDefinition is the definition configuration files are unified with.
const schemaDefinition = "#Config"
