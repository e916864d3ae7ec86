package manifest

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// envelopeSchema gates decoded manifests before they are trusted as
// envelope values. It checks shape only — cryptographic bindings are the
// verification engine's job.
const envelopeSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["@context", "claim"],
  "properties": {
    "@context": {"type": "string", "minLength": 1},
    "claim": {
      "type": "object",
      "required": ["dc:format", "instanceId", "claimGenerator", "assertions"],
      "properties": {
        "dc:format": {"type": "string"},
        "instanceId": {"type": "string"},
        "claimGenerator": {"type": "string"},
        "assertions": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["label", "data"],
            "properties": {"label": {"type": "string"}}
          }
        },
        "signature": {
          "type": "object",
          "required": ["protected", "payload", "signature", "publicKey"],
          "properties": {
            "protected": {"type": "string"},
            "payload": {"type": "string"},
            "signature": {"type": "string"},
            "publicKey": {"type": "string"}
          }
        }
      }
    },
    "scitt": {
      "type": "object",
      "required": ["receipt", "serviceUrl", "logId", "timestamp"],
      "properties": {
        "receipt": {"type": "string"},
        "serviceUrl": {"type": "string"},
        "logId": {"type": "string"},
        "timestamp": {"type": "string"},
        "entryId": {"type": "string"}
      }
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func envelope() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		schemaURL := "https://tracemark.io/schemas/manifest.schema.json"
		if err := c.AddResource(schemaURL, strings.NewReader(envelopeSchema)); err != nil {
			schemaErr = fmt.Errorf("failed to load envelope schema: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

// ValidateShape checks that data parses as JSON and conforms to the
// envelope schema. JSON syntax errors surface as ErrInvalidStructure too:
// by the time a blob reaches shape validation its base64 layer has already
// decoded, so any failure here is structural.
func ValidateShape(data []byte) error {
	schema, err := envelope()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidStructure, err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidStructure, err)
	}
	return nil
}

// CheckContext verifies the @context version tag is one this code can
// interpret: the trailing "/vX.Y" segment must share the current major
// version. A newer major is structurally incompatible, not merely invalid.
func CheckContext(ctx string) error {
	i := strings.LastIndex(ctx, "/v")
	if i < 0 {
		return fmt.Errorf("%w: unrecognized @context %q", ErrInvalidStructure, ctx)
	}
	got, err := semver.NewVersion(ctx[i+2:])
	if err != nil {
		return fmt.Errorf("%w: unparseable @context version in %q: %v", ErrInvalidStructure, ctx, err)
	}
	cur := semver.MustParse(ContextV1[strings.LastIndex(ContextV1, "/v")+2:])
	if got.Major() != cur.Major() {
		return fmt.Errorf("%w: @context major version %d not supported (current %d)", ErrInvalidStructure, got.Major(), cur.Major())
	}
	return nil
}
