package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/c360/semvalid/errors"
)

// configSchema is the JSON Schema the merged configuration must satisfy.
// Durations are strings in Go duration syntax.
const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "definitions": {
    "duration": {
      "type": "string",
      "pattern": "^([0-9]+(\\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$"
    }
  },
  "properties": {
    "server": {
      "type": "object",
      "properties": {
        "host": {"type": "string", "minLength": 1},
        "port": {"type": "integer", "minimum": 1, "maximum": 65535},
        "read_timeout": {"$ref": "#/definitions/duration"},
        "write_timeout": {"$ref": "#/definitions/duration"},
        "shutdown_timeout": {"$ref": "#/definitions/duration"}
      },
      "required": ["host", "port"]
    },
    "fetch": {
      "type": "object",
      "properties": {
        "timeout": {"$ref": "#/definitions/duration"},
        "max_redirects": {"type": "integer", "minimum": 0, "maximum": 100},
        "user_agent": {"type": "string", "minLength": 1},
        "rate_limit": {"type": "number", "minimum": 0},
        "rate_burst": {"type": "integer", "minimum": 0},
        "max_attempts": {"type": "integer", "minimum": 1, "maximum": 10}
      },
      "required": ["timeout", "max_redirects", "user_agent"]
    },
    "log": {
      "type": "object",
      "properties": {
        "level": {"type": "string", "enum": ["debug", "info", "warn", "error"]},
        "format": {"type": "string", "enum": ["json", "text"]}
      },
      "required": ["level", "format"]
    }
  },
  "required": ["server", "fetch", "log"]
}`

// Validate checks the configuration against the embedded schema.
func (c *Config) Validate() error {
	data, err := json.Marshal(c)
	if err != nil {
		return errors.WrapFatal(
			fmt.Errorf("cannot marshal config for validation: %w", err),
			"Config", "Validate", "marshal")
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(configSchema),
		gojsonschema.NewBytesLoader(data))
	if err != nil {
		return errors.WrapFatal(
			fmt.Errorf("schema evaluation failed: %w", err),
			"Config", "Validate", "evaluate schema")
	}

	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
		}
		return errors.WrapInvalid(
			fmt.Errorf("%w: %s", errors.ErrInvalidConfig, strings.Join(details, "; ")),
			"Config", "Validate", "schema check")
	}

	return nil
}
