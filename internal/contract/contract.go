// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/huangsam/diffscore/schema"
)

// DocumentLoader reads documents into tree values (nil, bool, numbers, string,
// []any, map[string]any). This allows the runner to be tested without touching disk.
type DocumentLoader interface {
	// Load reads the document at path. AutoFormat picks the decoder from the file extension.
	Load(ctx context.Context, path string, format schema.InputFormat) (any, error)

	// Decode parses an in-memory document, as received over MCP.
	Decode(data []byte, format schema.InputFormat) (any, error)
}
