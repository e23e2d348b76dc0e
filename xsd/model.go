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

package xsd

// Unbounded marks Element.MaxOccurs as maxOccurs="unbounded".
const Unbounded = -1

// SimpleType is an XSD simple type with optional restrictions: constraints
// on the text value of a leaf element or an attribute.
type SimpleType struct {
	Name           string
	BaseType       string // local name of the base type as written in the XSD (string, integer, decimal, date, dateTime, boolean, ...); not case-normalized
	Enumeration    []string
	Pattern        string
	MinValue       *float64
	MaxValue       *float64
	MinLength      *int
	MaxLength      *int
	TotalDigits    *int
	FractionDigits *int
}

// HasEnumeration reports whether the type restricts its value to a fixed set.
func (t *SimpleType) HasEnumeration() bool { return t != nil && len(t.Enumeration) > 0 }

// Attribute is an XML attribute definition.
type Attribute struct {
	Name     string
	TypeDef  *SimpleType
	Required bool
	Default  string
	Fixed    string
	// HasDefault/HasFixed distinguish "no default" from "default is the
	// empty string", which the zero-value string fields can't.
	HasDefault bool
	HasFixed   bool
}

// ContentModel is the grouping compositor for a complex type's children.
type ContentModel string

const (
	Sequence ContentModel = "sequence"
	All      ContentModel = "all"
	Choice   ContentModel = "choice"
)

// Element is an XML element definition. A leaf element carries a TypeDef
// and no Children; a complex element carries Children and/or Attributes and
// may still carry a TypeDef when an XSD simpleContent extension gives it
// both text content and attributes.
type Element struct {
	Name       string
	MinOccurs  int
	MaxOccurs  int // Unbounded for maxOccurs="unbounded"
	Nillable   bool
	TypeDef    *SimpleType
	Children   []*Element
	Attributes []*Attribute
	Content    ContentModel
	FullPath   string // derived XPath-like path from root, namespace-stripped
}

// IsLeaf reports whether e has no child elements.
func (e *Element) IsLeaf() bool { return len(e.Children) == 0 }

// IsOptional reports whether e is not required.
func (e *Element) IsOptional() bool { return e.MinOccurs == 0 }

// IsRepeating reports whether e can occur more than once.
func (e *Element) IsRepeating() bool { return e.MaxOccurs == Unbounded || e.MaxOccurs > 1 }

// ComplexType is a named, reusable complex type definition.
type ComplexType struct {
	Name       string
	Children   []*Element
	Attributes []*Attribute
	Content    ContentModel
	Mixed      bool
}

// Schema is a complete parsed XSD schema: its root elements and any named
// type definitions, keyed by local name.
type Schema struct {
	RootElements       []*Element
	NamedSimpleTypes   map[string]*SimpleType
	NamedComplexTypes  map[string]*ComplexType
	TargetNamespace    string
	ElementFormDefault string
}

// PrimaryRoot returns the first root element, or nil if the schema declares
// none.
func (s *Schema) PrimaryRoot() *Element {
	if len(s.RootElements) == 0 {
		return nil
	}
	return s.RootElements[0]
}

// Walk calls fn for e and every descendant element, depth-first, in
// declaration order.
func Walk(e *Element, fn func(*Element)) {
	if e == nil {
		return
	}
	fn(e)
	for _, c := range e.Children {
		Walk(c, fn)
	}
}

// FieldPath describes one path discovered by ExtractFieldPaths, used by the
// meta scaffold generator (see meta/template.go) and by tests asserting
// field path coverage.
type FieldPath struct {
	Path        string
	MinOccurs   int
	MaxOccurs   int
	Nillable    bool
	Enumeration []string
	Pattern     string
	IsAttribute bool
}

// ExtractFieldPaths walks the schema's primary root and returns one
// FieldPath per element (leaf or container) and per attribute, in
// declaration order. An attribute's MinOccurs is 1 when it is required and
// 0 otherwise; its MaxOccurs is 1.
func ExtractFieldPaths(s *Schema) []FieldPath {
	root := s.PrimaryRoot()
	if root == nil {
		return nil
	}
	var out []FieldPath
	var visit func(e *Element)
	visit = func(e *Element) {
		for _, a := range e.Attributes {
			fp := FieldPath{Path: e.FullPath + "/@" + a.Name, MaxOccurs: 1, IsAttribute: true}
			if a.Required {
				fp.MinOccurs = 1
			}
			if a.TypeDef != nil {
				fp.Enumeration = a.TypeDef.Enumeration
				fp.Pattern = a.TypeDef.Pattern
			}
			out = append(out, fp)
		}
		if e.IsLeaf() {
			fp := FieldPath{
				Path:      e.FullPath,
				MinOccurs: e.MinOccurs,
				MaxOccurs: e.MaxOccurs,
				Nillable:  e.Nillable,
			}
			if e.TypeDef != nil {
				fp.Enumeration = e.TypeDef.Enumeration
				fp.Pattern = e.TypeDef.Pattern
			}
			out = append(out, fp)
			return
		}
		out = append(out, FieldPath{
			Path:      e.FullPath,
			MinOccurs: e.MinOccurs,
			MaxOccurs: e.MaxOccurs,
			Nillable:  e.Nillable,
		})
		for _, c := range e.Children {
			visit(c)
		}
	}
	visit(root)
	return out
}
