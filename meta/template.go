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

package meta

import (
	"fmt"
	"strings"

	"github.com/google/renameio/v2"

	"github.com/UNO-SOFT/fieldcatalog/xsd"
)

// GenerateTemplate renders a meta.yaml scaffold from a schema's field
// paths: every path is listed under semanticTypes (enumerations noted in a
// comment) and fieldOverrides is seeded for optional and repeating fields.
func GenerateTemplate(paths []xsd.FieldPath, xsdFilename, contextID string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Auto-generated from: %s\n", xsdFilename)
	b.WriteString("# TODO: Fill in context details and customize semantic types\n\n")
	b.WriteString("context:\n")
	fmt.Fprintf(&b, "  contextId: %q  # TODO: Set context ID\n", contextID)
	b.WriteString("  displayName: \"\"  # TODO: Set display name\n")
	b.WriteString("  description: \"\"  # TODO: Add description\n")
	b.WriteString("  requiredMetadata: {}  # TODO: Add required metadata key-value pairs\n")
	b.WriteString("  optionalMetadata: {}  # TODO: Add optional metadata with possible values\n\n")
	b.WriteString("generation:\n")
	b.WriteString("  defaults:\n")
	b.WriteString("    optionalFieldFillRate: 0.7\n")
	b.WriteString("    nullRate: 0.05\n")
	b.WriteString("    emptyRate: 0.03\n")
	b.WriteString("    repeatRange: [1, 3]\n\n")
	b.WriteString("  # All field paths from XSD - set semantic types for realistic data\n")
	b.WriteString("  # Options: person.first_name, person.last_name, address.street, address.city,\n")
	b.WriteString("  #          address.state_abbr, address.zipcode, phone_number, email, ssn,\n")
	b.WriteString("  #          decimal(min,max,decimals), date.past, date.future, pattern:TEMPLATE\n")
	b.WriteString("  semanticTypes:\n")

	for _, p := range paths {
		if len(p.Enumeration) > 0 {
			enum := p.Enumeration
			suffix := ""
			if len(enum) > 5 {
				enum = enum[:5]
				suffix = ", ..."
			}
			fmt.Fprintf(&b, "    %q: null  # Has enum: [%s%s]\n", p.Path, strings.Join(enum, ", "), suffix)
		} else {
			fmt.Fprintf(&b, "    %q: null\n", p.Path)
		}
	}

	b.WriteString("\n  # Optional/repeating fields - customize fill rates and repeat ranges\n")
	b.WriteString("  fieldOverrides:\n")

	for _, p := range paths {
		switch {
		case p.MinOccurs == 0:
			fmt.Fprintf(&b, "    %q:  # minOccurs=0\n", p.Path)
			b.WriteString("      fillRate: 0.7\n")
		case p.MaxOccurs == xsd.Unbounded || p.MaxOccurs > 1:
			label := "unbounded"
			if p.MaxOccurs != xsd.Unbounded {
				label = fmt.Sprintf("%d", p.MaxOccurs)
			}
			fmt.Fprintf(&b, "    %q:  # maxOccurs=%s\n", p.Path, label)
			b.WriteString("      repeatRange: [1, 5]\n")
		}
	}
	b.WriteString("\n")

	return b.String()
}

// WriteTemplate atomically writes a generated template to path (see
// runner.saveXML for the sibling use on generated XML corpora).
func WriteTemplate(path string, paths []xsd.FieldPath, xsdFilename, contextID string) error {
	content := GenerateTemplate(paths, xsdFilename, contextID)
	return renameio.WriteFile(path, []byte(content), 0o644)
}
