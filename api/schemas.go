package api

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"sync"

	"github.com/qri-io/jsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const maxBodyBytes = 1 << 20

// Validator compiles the embedded request schemas once and caches them by
// name.
type Validator struct {
	mu    sync.RWMutex
	cache map[string]*jsonschema.Schema
}

// NewValidator compiles every embedded schema.
func NewValidator() (*Validator, error) {
	v := &Validator{cache: make(map[string]*jsonschema.Schema)}

	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return nil, fmt.Errorf("read schemas: %w", err)
	}
	for _, e := range entries {
		raw, err := schemaFS.ReadFile(path.Join("schemas", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", e.Name(), err)
		}
		rs := &jsonschema.Schema{}
		if err := json.Unmarshal(raw, rs); err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", e.Name(), err)
		}
		v.cache[strings.TrimSuffix(e.Name(), ".json")] = rs
	}

	return v, nil
}

// Schema returns the compiled schema registered under name.
func (v *Validator) Schema(name string) (*jsonschema.Schema, bool) {
	v.mu.RLock()
	s, ok := v.cache[name]
	v.mu.RUnlock()

	return s, ok
}

// Validate checks data against the named schema and returns the first
// violation as an error.
func (v *Validator) Validate(ctx context.Context, name string, data []byte) error {
	s, ok := v.Schema(name)
	if !ok {
		return fmt.Errorf("unknown schema %q", name)
	}
	keyErrs, err := s.ValidateBytes(ctx, data)
	if err != nil {
		return err
	}
	if len(keyErrs) > 0 {
		ke := keyErrs[0]
		return fmt.Errorf("%s: %s", ke.PropertyPath, ke.Message)
	}

	return nil
}

// decode reads a bounded request body, validates it against the named
// schema and unmarshals it into dst. Failures are written as 400 responses
// and reported as false.
func (v *Validator) decode(w http.ResponseWriter, r *http.Request, name string, dst any) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeErrorCode(w, http.StatusBadRequest, "invalid_input", "Không đọc được dữ liệu gửi lên")
		return false
	}
	if !json.Valid(body) {
		writeErrorCode(w, http.StatusBadRequest, "invalid_input", "Dữ liệu không hợp lệ")
		return false
	}
	if err := v.Validate(r.Context(), name, body); err != nil {
		writeErrorCode(w, http.StatusBadRequest, "invalid_input", "Vui lòng điền đầy đủ thông tin: "+err.Error())
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		writeErrorCode(w, http.StatusBadRequest, "invalid_input", "Dữ liệu không hợp lệ")
		return false
	}

	return true
}
