// Package docload reads JSON and YAML documents into tree values.
package docload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/diffscore/internal/contract"
	"github.com/huangsam/diffscore/schema"
	"gopkg.in/yaml.v3"
)

// FileLoader implements the DocumentLoader interface over the local filesystem.
type FileLoader struct{}

var _ contract.DocumentLoader = &FileLoader{} // Compile-time check

// NewFileLoader creates a new instance of the file loader.
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

// Load implements the DocumentLoader interface.
func (l *FileLoader) Load(ctx context.Context, path string, format schema.InputFormat) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document %q: %w", path, err)
	}
	v, err := l.Decode(data, ResolveFormat(path, data, format))
	if err != nil {
		return nil, fmt.Errorf("parse document %q: %w", path, err)
	}
	return v, nil
}

// Decode implements the DocumentLoader interface.
func (l *FileLoader) Decode(data []byte, format schema.InputFormat) (any, error) {
	switch ResolveFormat("", data, format) {
	case schema.YAMLFormat:
		return decodeYAML(data)
	default:
		return decodeJSON(data)
	}
}

// ResolveFormat picks the decoder for a document. An explicit format wins;
// otherwise the file extension decides, then the first non-blank byte.
func ResolveFormat(path string, data []byte, format schema.InputFormat) schema.InputFormat {
	if format != "" && format != schema.AutoFormat {
		return format
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return schema.JSONFormat
	case ".yaml", ".yml":
		return schema.YAMLFormat
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[' || trimmed[0] == '"') {
		return schema.JSONFormat
	}
	return schema.YAMLFormat
}

// decodeJSON keeps numbers as json.Number so integers survive unchanged.
func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after the first JSON value")
	}
	return v, nil
}

func decodeYAML(data []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return Normalize(v), nil
}

// Normalize rewrites YAML-specific shapes into the tree shape: mappings with
// non-string keys become map[string]any and timestamps become RFC 3339 text.
func Normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, item := range t {
			t[k] = Normalize(item)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[fmt.Sprint(k)] = Normalize(item)
		}
		return out
	case []any:
		for i, item := range t {
			t[i] = Normalize(item)
		}
		return t
	case time.Time:
		return t.Format(time.RFC3339Nano)
	default:
		return v
	}
}
