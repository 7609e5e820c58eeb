package lms

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// courseSchema pins down the shape of the course payload before it is
// decoded. Server payloads are loosely typed; anything that does not match is
// rejected up front instead of rendering an empty outline.
const courseSchema = `{
  "type": "object",
  "required": ["id", "title", "units"],
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "title": {"type": "string"},
    "units": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "lessons"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "title": {"type": "string"},
          "lessons": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["id"],
              "properties": {
                "id": {"type": "string", "minLength": 1},
                "title": {"type": "string"},
                "content": {"type": "string"},
                "resources": {"type": "array", "items": {"type": "string"}},
                "quiz_id": {"type": "string"},
                "duration_minutes": {"type": "integer", "minimum": 0}
              }
            }
          }
        }
      }
    }
  }
}`

var compiledCourseSchema = gojsonschema.NewStringLoader(courseSchema)

// ValidateCoursePayload checks a raw course document against the schema.
// A malformed payload is reported as ErrNotFound: the lesson player treats it
// the same as an absent course and defers to the course overview.
func ValidateCoursePayload(data []byte) error {
	result, err := gojsonschema.Validate(compiledCourseSchema, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("course payload is not valid JSON: %w: %w", ErrNotFound, err)
	}
	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return fmt.Errorf("malformed course payload: %s: %w", strings.Join(problems, "; "), ErrNotFound)
	}
	return nil
}
