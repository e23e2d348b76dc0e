// Copyright 2025 Tamás Gulácsi
//
//
//    Licensed under the Apache License, Version 2.0 (the "License");
//    you may not use this file except in compliance with the License.
//    You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
//    Unless required by applicable law or agreed to in writing, software
//    distributed under the License is distributed on an "AS IS" BASIS,
//    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//    See the License for the specific language governing permissions and
//    limitations under the License.

package generator

import (
	"strings"

	"github.com/agentflare-ai/go-xmldom"
	goxsd "github.com/agentflare-ai/go-xsd"
	"github.com/pkg/errors"
)

// SchemaValidator validates a generated document against the source XSD
// itself — facets, patterns, content models, type conformance — not just
// the simplified model Validator checks. This is the validation used for
// generated output; Validator remains for model-level checks in tests
// that build schemas programmatically.
type SchemaValidator struct {
	validator *goxsd.Validator
}

// NewSchemaValidator loads the XSD at path and builds a validator for it.
func NewSchemaValidator(path string) (*SchemaValidator, error) {
	schema, err := goxsd.LoadSchema(path)
	if err != nil {
		return nil, errors.Wrapf(err, "generator: load schema %s", path)
	}
	return &SchemaValidator{validator: goxsd.NewValidator(schema)}, nil
}

// Validate checks xmlString against the loaded schema, returning every
// violation found (nil/empty means valid). Not safe for concurrent use;
// build one SchemaValidator per goroutine.
func (v *SchemaValidator) Validate(xmlString string) ([]string, error) {
	doc, err := xmldom.Decode(strings.NewReader(xmlString))
	if err != nil {
		return []string{"malformed XML: " + err.Error()}, nil
	}

	violations := v.validator.Validate(doc)
	if len(violations) == 0 {
		return nil, nil
	}
	errs := make([]string, 0, len(violations))
	for _, viol := range violations {
		if viol.Code != "" {
			errs = append(errs, viol.Code+": "+viol.Message)
		} else {
			errs = append(errs, viol.Message)
		}
	}
	return errs, nil
}

// IsValid reports whether xmlString has no violations against the schema.
func (v *SchemaValidator) IsValid(xmlString string) (bool, error) {
	errs, err := v.Validate(xmlString)
	if err != nil {
		return false, err
	}
	return len(errs) == 0, nil
}
