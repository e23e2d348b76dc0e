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

import (
	"encoding/xml"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParseFile reads and parses an XSD file at path into a Schema.
func ParseFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "xsd: read %s", path)
	}
	return Parse(data)
}

// Parse parses XSD document bytes into a Schema.
func Parse(data []byte) (*Schema, error) {
	var raw rawSchema
	if err := xml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "xsd: parse schema")
	}

	p := &parser{
		simpleTypes:  make(map[string]*rawSimpleType),
		complexTypes: make(map[string]*rawComplexType),
	}
	for i := range raw.SimpleTypes {
		st := &raw.SimpleTypes[i]
		if st.Name != "" {
			p.simpleTypes[st.Name] = st
		}
	}
	for i := range raw.ComplexTypes {
		ct := &raw.ComplexTypes[i]
		if ct.Name != "" {
			p.complexTypes[ct.Name] = ct
		}
	}

	schema := &Schema{
		NamedSimpleTypes:   make(map[string]*SimpleType),
		NamedComplexTypes:  make(map[string]*ComplexType),
		TargetNamespace:    raw.TargetNamespace,
		ElementFormDefault: defaultString(raw.ElementFormDefault, "unqualified"),
	}
	for name, st := range p.simpleTypes {
		schema.NamedSimpleTypes[name] = p.parseSimpleType(st, "")
	}
	for _, re := range raw.Elements {
		schema.RootElements = append(schema.RootElements, p.parseElement(&re, ""))
	}
	return schema, nil
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// parser resolves named type references while walking the raw XML-decoded
// schema into the public model.
type parser struct {
	simpleTypes  map[string]*rawSimpleType
	complexTypes map[string]*rawComplexType
}

func (p *parser) parseElement(re *rawElement, parentPath string) *Element {
	name := localName(re.Name)
	if name == "" {
		name = localName(re.Ref)
	}
	if name == "" {
		name = "unknown"
	}

	el := &Element{
		Name:      name,
		MinOccurs: parseIntDefault(re.MinOccurs, 1),
		MaxOccurs: parseMaxOccurs(re.MaxOccurs),
		Nillable:  re.Nillable == "true" || re.Nillable == "1",
		FullPath:  parentPath + "/" + name,
		Content:   Sequence,
	}

	switch {
	case re.SimpleType != nil:
		el.TypeDef = p.parseSimpleType(re.SimpleType, el.FullPath)
	case re.ComplexType != nil:
		p.fillComplexType(el, re.ComplexType)
	case re.Type != "":
		typeName := localName(re.Type)
		if ct, ok := p.complexTypes[typeName]; ok {
			p.fillComplexType(el, ct)
		} else if st, ok := p.simpleTypes[typeName]; ok {
			el.TypeDef = p.parseSimpleType(st, el.FullPath)
		} else {
			el.TypeDef = &SimpleType{BaseType: typeName}
		}
	default:
		el.TypeDef = &SimpleType{BaseType: "string"}
	}

	return el
}

func (p *parser) fillComplexType(el *Element, ct *rawComplexType) {
	for i := range ct.Attributes {
		el.Attributes = append(el.Attributes, p.parseAttribute(&ct.Attributes[i], el.FullPath))
	}

	group, model := firstGroup(ct.Sequence, ct.All, ct.Choice)
	el.Content = model
	if group != nil {
		el.Children = p.parseGroup(group, el.FullPath)
	}

	if ct.SimpleContent != nil && ct.SimpleContent.Extension != nil {
		ext := ct.SimpleContent.Extension
		baseName := localName(ext.Base)
		if st, ok := p.simpleTypes[baseName]; ok {
			el.TypeDef = p.parseSimpleType(st, el.FullPath)
		} else {
			el.TypeDef = &SimpleType{BaseType: baseName}
		}
		for i := range ext.Attributes {
			el.Attributes = append(el.Attributes, p.parseAttribute(&ext.Attributes[i], el.FullPath))
		}
	}
}

func firstGroup(seq, all, choice *rawGroup) (*rawGroup, ContentModel) {
	switch {
	case seq != nil:
		return seq, Sequence
	case all != nil:
		return all, All
	case choice != nil:
		return choice, Choice
	default:
		return nil, Sequence
	}
}

func (p *parser) parseGroup(g *rawGroup, parentPath string) []*Element {
	var out []*Element
	for i := range g.Elements {
		out = append(out, p.parseElement(&g.Elements[i], parentPath))
	}
	for i := range g.Sequences {
		out = append(out, p.parseGroup(&g.Sequences[i], parentPath)...)
	}
	for i := range g.Choices {
		out = append(out, p.parseGroup(&g.Choices[i], parentPath)...)
	}
	return out
}

func (p *parser) parseAttribute(ra *rawAttribute, parentPath string) *Attribute {
	attr := &Attribute{
		Name:       localName(ra.Name),
		Required:   ra.Use == "required",
		Default:    ra.Default,
		HasDefault: ra.Default != "",
		Fixed:      ra.Fixed,
		HasFixed:   ra.Fixed != "",
	}
	switch {
	case ra.SimpleType != nil:
		attr.TypeDef = p.parseSimpleType(ra.SimpleType, parentPath+"/@"+attr.Name)
	case ra.Type != "":
		typeName := localName(ra.Type)
		if st, ok := p.simpleTypes[typeName]; ok {
			attr.TypeDef = p.parseSimpleType(st, parentPath+"/@"+attr.Name)
		} else {
			attr.TypeDef = &SimpleType{BaseType: typeName}
		}
	default:
		attr.TypeDef = &SimpleType{BaseType: "string"}
	}
	return attr
}

func (p *parser) parseSimpleType(rs *rawSimpleType, _ string) *SimpleType {
	st := &SimpleType{Name: rs.Name, BaseType: "string"}
	r := rs.Restriction
	if r == nil {
		return st
	}
	st.BaseType = localName(r.Base)
	if st.BaseType == "" {
		st.BaseType = "string"
	}
	for _, e := range r.Enumeration {
		st.Enumeration = append(st.Enumeration, e.Value)
	}
	if r.Pattern != nil {
		st.Pattern = r.Pattern.Value
	}
	if r.MinInclusive != nil {
		st.MinValue = parseFloatPtr(r.MinInclusive.Value)
	} else if r.MinExclusive != nil {
		st.MinValue = parseFloatPtr(r.MinExclusive.Value)
	}
	if r.MaxInclusive != nil {
		st.MaxValue = parseFloatPtr(r.MaxInclusive.Value)
	} else if r.MaxExclusive != nil {
		st.MaxValue = parseFloatPtr(r.MaxExclusive.Value)
	}
	if r.MinLength != nil {
		st.MinLength = parseIntPtr(r.MinLength.Value)
	}
	if r.MaxLength != nil {
		st.MaxLength = parseIntPtr(r.MaxLength.Value)
	}
	if r.TotalDigits != nil {
		st.TotalDigits = parseIntPtr(r.TotalDigits.Value)
	}
	if r.FractionDigits != nil {
		st.FractionDigits = parseIntPtr(r.FractionDigits.Value)
	}
	return st
}

// localName strips an XSD namespace prefix ("xs:string" -> "string") and,
// for defined-elsewhere names, any leading "{namespace}" Clark notation.
func localName(name string) string {
	if name == "" {
		return ""
	}
	if strings.HasPrefix(name, "{") {
		if i := strings.IndexByte(name, '}'); i >= 0 {
			name = name[i+1:]
		}
	}
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return name[i+1:]
	}
	return name
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func parseMaxOccurs(s string) int {
	if s == "" {
		return 1
	}
	if s == "unbounded" {
		return Unbounded
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return n
}

func parseFloatPtr(s string) *float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseIntPtr(s string) *int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

// --- raw XML-decoded schema shapes ---

type rawSchema struct {
	XMLName            xml.Name         `xml:"schema"`
	TargetNamespace    string           `xml:"targetNamespace,attr"`
	ElementFormDefault string           `xml:"elementFormDefault,attr"`
	Elements           []rawElement     `xml:"element"`
	SimpleTypes        []rawSimpleType  `xml:"simpleType"`
	ComplexTypes       []rawComplexType `xml:"complexType"`
}

type rawElement struct {
	Name        string          `xml:"name,attr"`
	Ref         string          `xml:"ref,attr"`
	Type        string          `xml:"type,attr"`
	MinOccurs   string          `xml:"minOccurs,attr"`
	MaxOccurs   string          `xml:"maxOccurs,attr"`
	Nillable    string          `xml:"nillable,attr"`
	SimpleType  *rawSimpleType  `xml:"simpleType"`
	ComplexType *rawComplexType `xml:"complexType"`
}

type rawComplexType struct {
	Name          string            `xml:"name,attr"`
	Sequence      *rawGroup         `xml:"sequence"`
	All           *rawGroup         `xml:"all"`
	Choice        *rawGroup         `xml:"choice"`
	Attributes    []rawAttribute    `xml:"attribute"`
	SimpleContent *rawSimpleContent `xml:"simpleContent"`
}

type rawGroup struct {
	Elements  []rawElement `xml:"element"`
	Sequences []rawGroup   `xml:"sequence"`
	Choices   []rawGroup   `xml:"choice"`
}

type rawSimpleContent struct {
	Extension *rawExtension `xml:"extension"`
}

type rawExtension struct {
	Base       string         `xml:"base,attr"`
	Attributes []rawAttribute `xml:"attribute"`
}

type rawAttribute struct {
	Name       string         `xml:"name,attr"`
	Type       string         `xml:"type,attr"`
	Use        string         `xml:"use,attr"`
	Default    string         `xml:"default,attr"`
	Fixed      string         `xml:"fixed,attr"`
	SimpleType *rawSimpleType `xml:"simpleType"`
}

type rawSimpleType struct {
	Name        string          `xml:"name,attr"`
	Restriction *rawRestriction `xml:"restriction"`
}

type rawRestriction struct {
	Base           string     `xml:"base,attr"`
	Enumeration    []rawFacet `xml:"enumeration"`
	Pattern        *rawFacet  `xml:"pattern"`
	MinInclusive   *rawFacet  `xml:"minInclusive"`
	MaxInclusive   *rawFacet  `xml:"maxInclusive"`
	MinExclusive   *rawFacet  `xml:"minExclusive"`
	MaxExclusive   *rawFacet  `xml:"maxExclusive"`
	MinLength      *rawFacet  `xml:"minLength"`
	MaxLength      *rawFacet  `xml:"maxLength"`
	TotalDigits    *rawFacet  `xml:"totalDigits"`
	FractionDigits *rawFacet  `xml:"fractionDigits"`
}

type rawFacet struct {
	Value string `xml:"value,attr"`
}
