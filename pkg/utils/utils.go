// Package utils holds small helpers shared by the config and market data packages.
package utils

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// GetSchemaFromConfig reflects config into an indented JSON schema. Nested
// structs are emitted under $defs and referenced with $ref.
func GetSchemaFromConfig(config any) (string, error) {
	return marshalSchema(jsonschema.Reflect(config))
}

// GetInlineSchemaFromConfig is GetSchemaFromConfig with every nested struct
// expanded in place.
func GetInlineSchemaFromConfig(config any) (string, error) {
	reflector := jsonschema.Reflector{DoNotReference: true}

	return marshalSchema(reflector.Reflect(config))
}

func marshalSchema(schema *jsonschema.Schema) (string, error) {
	jsonSchemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(jsonSchemaBytes), nil
}
