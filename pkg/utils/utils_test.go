package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"
)

type UtilsTestSuite struct {
	suite.Suite
}

func TestUtilsSuite(t *testing.T) {
	suite.Run(t, new(UtilsTestSuite))
}

type windowConfig struct {
	Name   string `json:"name" jsonschema:"description=Indicator name"`
	Window int    `json:"window" jsonschema:"minimum=1"`
}

type sourceConfig struct {
	Provider string       `json:"provider" jsonschema:"enum=csv,enum=parquet"`
	Windows  []windowConfig `json:"windows"`
}

func (suite *UtilsTestSuite) decode(schema string) map[string]any {
	var result map[string]any
	suite.Require().NoError(json.Unmarshal([]byte(schema), &result))

	return result
}

func (suite *UtilsTestSuite) TestGetSchemaFromConfig() {
	schema, err := GetSchemaFromConfig(&sourceConfig{})
	suite.Require().NoError(err)

	result := suite.decode(schema)
	suite.Contains(result, "$schema")
	suite.Contains(result, "$ref")
	suite.Contains(result, "$defs")
	suite.Contains(schema, "Indicator name")
	suite.Contains(schema, "\n  ")
}

func (suite *UtilsTestSuite) TestGetInlineSchemaFromConfig() {
	schema, err := GetInlineSchemaFromConfig(&sourceConfig{})
	suite.Require().NoError(err)

	result := suite.decode(schema)
	suite.NotContains(result, "$ref")
	suite.NotContains(result, "$defs")
	suite.Contains(result, "properties")
	suite.Contains(schema, "\"window\"")
	suite.Contains(schema, "csv")
}

func (suite *UtilsTestSuite) TestPrimitiveTypes() {
	for _, value := range []any{"string", 42, true, 3.14} {
		schema, err := GetSchemaFromConfig(value)
		suite.NoError(err)
		suite.NotEmpty(schema)
	}
}
