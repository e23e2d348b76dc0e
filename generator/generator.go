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

	"github.com/beevik/etree"
	"github.com/pkg/errors"

	"github.com/UNO-SOFT/fieldcatalog/distribution"
	"github.com/UNO-SOFT/fieldcatalog/meta"
	"github.com/UNO-SOFT/fieldcatalog/values"
	"github.com/UNO-SOFT/fieldcatalog/xsd"
)

// xsiNamespace is the well-known XML Schema Instance namespace. The xsi
// prefix is bound on a generated document only when a nil attribute is
// actually present.
const xsiNamespace = "http://www.w3.org/2001/XMLSchema-instance"

// Generator builds one XML document per Generate call from schema,
// consulting dist for every optional/null/empty/repeat decision and
// semanticTypes (path -> token, from a meta file) ahead of the XSD-facet
// fallback generator.
type Generator struct {
	schema        *xsd.Schema
	dist          *distribution.Config
	registry      *values.Registry
	xsdGen        *values.XSDValueGenerator
	semanticTypes map[string]*string
	usedXsiNil    bool
}

// New builds a Generator. metaCfg may be nil (no semantic-type bindings).
func New(schema *xsd.Schema, metaCfg *meta.Config, dist *distribution.Config, seed *int64) *Generator {
	reg := values.NewRegistry(seed)
	g := &Generator{
		schema:   schema,
		dist:     dist,
		registry: reg,
		xsdGen:   values.NewXSDValueGenerator(reg),
	}
	if metaCfg != nil {
		g.semanticTypes = metaCfg.Generation.SemanticTypes
	}
	return g
}

// Generate produces one document as an *etree.Document rooted at the
// schema's primary root element.
func (g *Generator) Generate() (*etree.Document, error) {
	root := g.schema.PrimaryRoot()
	if root == nil {
		return nil, errors.New("generator: schema has no root elements")
	}

	g.usedXsiNil = false
	elem := g.generateElement(root)
	if elem == nil {
		return nil, errors.New("generator: failed to generate root element")
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	if g.usedXsiNil {
		elem.CreateAttr("xmlns:xsi", xsiNamespace)
	}
	doc.AddChild(elem)
	return doc, nil
}

// GenerateString produces one document as an indented XML string.
func (g *Generator) GenerateString() (string, error) {
	doc, err := g.Generate()
	if err != nil {
		return "", err
	}
	doc.Indent(2)
	return doc.WriteToString()
}

func (g *Generator) generateElement(def *xsd.Element) *etree.Element {
	if def.IsOptional() && !g.dist.ShouldIncludeOptional(def.FullPath) {
		return nil
	}
	if def.Nillable && g.dist.ShouldBeNull(def.FullPath) {
		return g.createNilElement(def.Name)
	}

	elem := etree.NewElement(def.Name)

	for _, attrDef := range def.Attributes {
		if value, ok := g.generateAttributeValue(attrDef, def.FullPath); ok {
			elem.CreateAttr(attrDef.Name, value)
		}
	}

	if def.IsLeaf() {
		elem.SetText(g.generateTextValue(def))
		return elem
	}

	for _, childDef := range def.Children {
		count := g.dist.RepeatCount(childDef.FullPath, childDef.MinOccurs, childDef.MaxOccurs)
		for i := 0; i < count; i++ {
			if child := g.generateElement(childDef); child != nil {
				elem.AddChild(child)
			}
		}
	}

	// An optional non-leaf with no emitted children would be reported as
	// an empty leaf by the extractor, so suppress it entirely.
	if len(elem.ChildElements()) == 0 && def.IsOptional() {
		return nil
	}
	return elem
}

func (g *Generator) createNilElement(name string) *etree.Element {
	g.usedXsiNil = true
	elem := etree.NewElement(name)
	elem.CreateAttr("xsi:nil", "true")
	return elem
}

// generateAttributeValue returns (value, true) when the attribute should
// be emitted at all.
func (g *Generator) generateAttributeValue(attrDef *xsd.Attribute, parentPath string) (string, bool) {
	if !attrDef.Required {
		attrPath := parentPath + "/@" + attrDef.Name
		if !g.dist.ShouldIncludeOptional(attrPath) {
			return "", false
		}
	}

	if attrDef.HasFixed {
		return attrDef.Fixed, true
	}
	if attrDef.HasDefault && g.dist.ShouldIncludeOptional("_use_default") {
		return attrDef.Default, true
	}
	return g.xsdGen.Generate(attrDef.TypeDef), true
}

func (g *Generator) generateTextValue(def *xsd.Element) string {
	path := def.FullPath

	// A bound semantic type wins over the XSD-facet fallback.
	if token := g.semanticTypes[path]; token != nil && *token != "" {
		return g.registry.Generate(*token)
	}

	// Empty-string rule applies only to non-enum string types.
	if def.TypeDef != nil {
		isEnum := def.TypeDef.HasEnumeration()
		base := strings.ToLower(def.TypeDef.BaseType)
		if base == "" {
			base = "string"
		}
		if base == "string" && !isEnum && g.dist.ShouldBeEmpty(path) {
			return ""
		}
	}

	return g.xsdGen.Generate(def.TypeDef)
}
