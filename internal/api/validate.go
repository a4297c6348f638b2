package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var Validate = validator.New()

// DecodeValid decodes a JSON request body into dst and runs struct validation.
// Handlers call this before touching any repository.
func DecodeValid(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	if err := Validate.Struct(dst); err != nil {
		return err
	}
	return nil
}
