// Package handler binds the application services to the protocol tool set.
// Every tool is a parameter-validated pass-through; argument structs carry
// validate tags and are checked before any service call.
package handler

import (
	"encoding/json"
	"fmt"

	"github.com/storefront-mcp/internal/pkg/validate"
)

// decodeArgs unmarshals tool arguments and runs struct validation.
func decodeArgs(args json.RawMessage, v any) error {
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return validate.Struct(v)
}
