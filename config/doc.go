// Package config loads and validates the validator's configuration.
//
// Configuration comes from three layers, later layers overriding earlier
// ones: built-in defaults, an optional JSON file, and SEMVALID_* environment
// variables. The merged result is checked against an embedded JSON Schema
// before use, so a malformed file fails at startup with a field-level
// message instead of surfacing later as odd runtime behavior.
//
// File reading is defensive: the path is validated against traversal, the
// file size is capped and the JSON nesting depth is bounded before parsing.
package config
