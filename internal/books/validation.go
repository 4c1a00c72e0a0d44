package books

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/dhima/bookshelf-api/internal/models"
	"github.com/xeipuuv/gojsonschema"
)

// bookInputSchema describes a create/update payload. Unknown properties are ignored.
const bookInputSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["title", "author", "publication_year"],
	"properties": {
		"title": {"type": "string", "pattern": "\\S"},
		"author": {"type": "string", "pattern": "\\S"},
		"publication_year": {"type": "integer"}
	}
}`

var compiledBookSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(bookInputSchema))
})

// DecodeBookInput validates a raw request body and returns the book fields it carries.
// The body is decoded once; the schema check and the returned fields read the same
// value, so keys are matched exactly as sent. Every failure is a ValidationError.
func DecodeBookInput(raw []byte) (models.BookInput, error) {
	schema, err := compiledBookSchema()
	if err != nil {
		return models.BookInput{}, fmt.Errorf("compile book schema: %w", err)
	}

	body, err := decodeJSON(raw)
	if err != nil {
		return models.BookInput{}, NewValidationError("malformed JSON body: %v", err)
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(body))
	if err != nil {
		return models.BookInput{}, NewValidationError("malformed JSON body: %v", err)
	}
	if !result.Valid() {
		messages := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			messages = append(messages, desc.String())
		}
		return models.BookInput{}, NewValidationError("%s", strings.Join(messages, "; "))
	}

	fields, ok := body.(map[string]interface{})
	if !ok {
		return models.BookInput{}, NewValidationError("body must be a JSON object")
	}
	title, _ := fields["title"].(string)
	author, _ := fields["author"].(string)
	yearLiteral, ok := fields["publication_year"].(json.Number)
	if !ok {
		return models.BookInput{}, NewValidationError("publication_year must be an integer")
	}

	// JSON Schema treats 1965.0 as an integer; only a plain integer literal is accepted here.
	year, err := strconv.ParseInt(yearLiteral.String(), 10, 64)
	if err != nil {
		return models.BookInput{}, NewValidationError("publication_year must be an integer")
	}

	in := models.BookInput{
		Title:           title,
		Author:          author,
		PublicationYear: year,
	}
	return in, validateInput(in)
}

// decodeJSON parses exactly one JSON value, keeping numbers as their literal text.
func decodeJSON(raw []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var body interface{}
	if err := dec.Decode(&body); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON value")
	}
	return body, nil
}

func validateInput(in models.BookInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return NewValidationError("title is required")
	}
	if strings.TrimSpace(in.Author) == "" {
		return NewValidationError("author is required")
	}
	return nil
}
