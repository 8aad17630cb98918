package graph

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// SnapshotSchema is the JSON schema of the snapshot storage contract.
const SnapshotSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["nodes", "edges"],
  "properties": {
    "nodes": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "required": ["id", "kind", "label", "position"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "kind": {"type": "string", "enum": ["trigger", "action", "condition", "output"]},
          "label": {"type": "string"},
          "description": {"type": "string"},
          "position": {
            "type": "object",
            "required": ["x", "y"],
            "properties": {
              "x": {"type": "number"},
              "y": {"type": "number"}
            }
          }
        }
      }
    },
    "edges": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "required": ["id", "source_node_id", "target_node_id"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "source_node_id": {"type": "string", "minLength": 1},
          "target_node_id": {"type": "string", "minLength": 1}
        }
      }
    }
  }
}`

var loadSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(SnapshotSchema))
})

// DecodeSnapshot parses raw JSON into a snapshot after checking it against
// SnapshotSchema. Referential checks are left to Deserialize.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	schema, err := loadSchema()
	if err != nil {
		return Snapshot{}, err
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return Snapshot{}, &MalformedGraphError{Reason: "invalid JSON", Err: err}
	}

	if !result.Valid() {
		messages := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			messages = append(messages, desc.String())
		}

		return Snapshot{}, malformed("schema violations: %s", strings.Join(messages, "; "))
	}

	var snapshot Snapshot

	err = json.Unmarshal(data, &snapshot)
	if err != nil {
		return Snapshot{}, &MalformedGraphError{Reason: "invalid JSON", Err: err}
	}

	return snapshot, nil
}

// Decode parses, schema-checks and deserializes raw snapshot JSON.
func Decode(data []byte) (*Graph, error) {
	snapshot, err := DecodeSnapshot(data)
	if err != nil {
		return nil, err
	}

	return Deserialize(snapshot)
}
