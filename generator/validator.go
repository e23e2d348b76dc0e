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
	"fmt"

	"github.com/beevik/etree"

	"github.com/UNO-SOFT/fieldcatalog/xsd"
)

// Validator performs a structural check of a generated document against
// the xsd.Schema model it was generated from: element names and nesting,
// occurrence bounds, enumeration membership, and xsi:nil consistency. It
// is not a full XSD validator — use SchemaValidator to validate against
// the source XSD itself; this one exists for checks against a model built
// in memory, with no schema file to load.
type Validator struct {
	schema *xsd.Schema
}

// NewValidator builds a Validator bound to schema.
func NewValidator(schema *xsd.Schema) *Validator {
	return &Validator{schema: schema}
}

// Validate parses xmlString and checks it against the schema, returning
// every violation found (nil/empty means valid).
func (v *Validator) Validate(xmlString string) ([]string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(xmlString); err != nil {
		return []string{fmt.Sprintf("malformed XML: %v", err)}, nil
	}

	root := v.schema.PrimaryRoot()
	if root == nil {
		return []string{"schema has no root elements"}, nil
	}

	var errs []string
	v.checkElement(doc.Root(), root, &errs)
	return errs, nil
}

// IsValid reports whether xmlString has no violations against the schema.
func (v *Validator) IsValid(xmlString string) (bool, error) {
	errs, err := v.Validate(xmlString)
	if err != nil {
		return false, err
	}
	return len(errs) == 0, nil
}

func (v *Validator) checkElement(el *etree.Element, def *xsd.Element, errs *[]string) {
	if el == nil {
		*errs = append(*errs, fmt.Sprintf("missing required element at %s", def.FullPath))
		return
	}
	if el.Tag != def.Name {
		*errs = append(*errs, fmt.Sprintf("expected element %q at %s, got %q", def.Name, def.FullPath, el.Tag))
		return
	}

	if isNilElement(el) {
		if !def.Nillable {
			*errs = append(*errs, fmt.Sprintf("%s: xsi:nil on a non-nillable element", def.FullPath))
		}
		return
	}

	for _, attrDef := range def.Attributes {
		attr := el.SelectAttr(attrDef.Name)
		if attr == nil {
			if attrDef.Required {
				*errs = append(*errs, fmt.Sprintf("%s/@%s: required attribute missing", def.FullPath, attrDef.Name))
			}
			continue
		}
		v.checkEnum(attrDef.TypeDef, attr.Value, fmt.Sprintf("%s/@%s", def.FullPath, attrDef.Name), errs)
	}

	if def.IsLeaf() {
		v.checkEnum(def.TypeDef, el.Text(), def.FullPath, errs)
		return
	}

	for _, childDef := range def.Children {
		children := el.SelectElements(childDef.Name)
		if len(children) < childDef.MinOccurs {
			*errs = append(*errs, fmt.Sprintf("%s: expected at least %d occurrence(s), got %d", childDef.FullPath, childDef.MinOccurs, len(children)))
		}
		if childDef.MaxOccurs != xsd.Unbounded && len(children) > childDef.MaxOccurs {
			*errs = append(*errs, fmt.Sprintf("%s: expected at most %d occurrence(s), got %d", childDef.FullPath, childDef.MaxOccurs, len(children)))
		}
		for _, child := range children {
			v.checkElement(child, childDef, errs)
		}
	}
}

func (v *Validator) checkEnum(typeDef *xsd.SimpleType, value, path string, errs *[]string) {
	if typeDef == nil || !typeDef.HasEnumeration() {
		return
	}
	for _, candidate := range typeDef.Enumeration {
		if candidate == value {
			return
		}
	}
	*errs = append(*errs, fmt.Sprintf("%s: value %q is not a member of its enumeration", path, value))
}

func isNilElement(el *etree.Element) bool {
	for _, attr := range el.Attr {
		if attr.Key == "nil" && (attr.Space == "xsi" || attr.Space == "") && attr.Value == "true" {
			return true
		}
	}
	return false
}
