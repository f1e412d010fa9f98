package searchclient

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const responseSchema = `{
	"type": "object",
	"properties": {
		"properties": {
			"type": ["array", "null"],
			"items": {"$ref": "#/definitions/listing"}
		}
	},
	"definitions": {
		"listing": {
			"type": "object",
			"required": [
				"id", "name", "description", "price", "location", "features",
				"available", "pet_friendly", "distance_to_station", "freelancer_friendly"
			],
			"properties": {
				"id": {"type": "string"},
				"name": {"type": "string"},
				"description": {"type": "string"},
				"price": {"type": "number", "minimum": 0},
				"location": {"type": "string"},
				"features": {"type": "array", "items": {"type": "string"}},
				"available": {"type": "boolean"},
				"pet_friendly": {"type": "boolean"},
				"distance_to_station": {"type": "number", "minimum": 0},
				"freelancer_friendly": {"type": "boolean"}
			}
		}
	}
}`

var listingsSchema = mustSchema(responseSchema)

func mustSchema(s string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(err)
	}
	return schema
}

// validateResponse checks a success body against the listing schema.
func validateResponse(raw []byte) error {
	result, err := listingsSchema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return err
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("schema: %s", strings.Join(msgs, "; "))
}
