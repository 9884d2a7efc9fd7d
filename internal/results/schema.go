package results

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed dataocs.schema.json
var schemaJSON []byte

const schemaURL = "dataocs.schema.json"

var (
	once    sync.Once
	schema  *jsonschema.Schema
	loadErr error
)

func load() {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		loadErr = fmt.Errorf("add schema: %w", err)
		return
	}
	s, err := c.Compile(schemaURL)
	if err != nil {
		loadErr = fmt.Errorf("compile schema: %w", err)
		return
	}
	schema = s
}

// Validate checks a DataOCS.json body against the embedded schema.
func Validate(data []byte) error {
	once.Do(load)
	if loadErr != nil {
		return loadErr
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
