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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UNO-SOFT/fieldcatalog/distribution"
	"github.com/UNO-SOFT/fieldcatalog/meta"
	"github.com/UNO-SOFT/fieldcatalog/xsd"
)

func orderSchema() *xsd.Schema {
	status := &xsd.SimpleType{BaseType: "string", Enumeration: []string{"NEW", "SHIPPED", "CANCELLED"}}
	sku := &xsd.Attribute{Name: "sku", Required: true, TypeDef: &xsd.SimpleType{BaseType: "string"}}

	item := &xsd.Element{
		Name:       "Item",
		MinOccurs:  1,
		MaxOccurs:  xsd.Unbounded,
		TypeDef:    &xsd.SimpleType{BaseType: "decimal"},
		Attributes: []*xsd.Attribute{sku},
		FullPath:   "/Order/Item",
	}
	note := &xsd.Element{
		Name:      "Note",
		MinOccurs: 0,
		MaxOccurs: 1,
		Nillable:  true,
		TypeDef:   &xsd.SimpleType{BaseType: "string", MaxLength: intPtrG(40)},
		FullPath:  "/Order/Note",
	}
	statusEl := &xsd.Element{
		Name:      "Status",
		MinOccurs: 1,
		MaxOccurs: 1,
		TypeDef:   status,
		FullPath:  "/Order/Status",
	}
	root := &xsd.Element{
		Name:      "Order",
		MinOccurs: 1,
		MaxOccurs: 1,
		Children:  []*xsd.Element{statusEl, note, item},
		FullPath:  "/Order",
	}
	return &xsd.Schema{RootElements: []*xsd.Element{root}}
}

func intPtrG(v int) *int { return &v }

func TestGenerateProducesWellFormedEnumeratedOutput(t *testing.T) {
	schema := orderSchema()
	dist := distribution.Defaults()

	for i := 0; i < 50; i++ {
		seed := int64(1000 + i)
		g := New(schema, nil, &dist, &seed)
		out, err := g.GenerateString()
		require.NoError(t, err)
		assert.Contains(t, out, "<Order>")
		assert.Contains(t, out, "<Item")
	}
}

func TestGenerateStatusAlwaysInEnumerationNeverEmpty(t *testing.T) {
	schema := orderSchema()
	dist := distribution.Defaults()
	v := NewValidator(schema)

	for i := 0; i < 50; i++ {
		seed := int64(i)
		g := New(schema, nil, &dist, &seed)
		doc, err := g.Generate()
		require.NoError(t, err)

		statusEls := doc.Root().SelectElements("Status")
		require.Len(t, statusEls, 1)
		text := statusEls[0].Text()
		assert.NotEmpty(t, text)
		assert.Contains(t, []string{"NEW", "SHIPPED", "CANCELLED"}, text)

		rendered, err := doc.WriteToString()
		require.NoError(t, err)
		ok, err := v.IsValid(rendered)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestGenerateRepeatsItemWithinConfiguredRange(t *testing.T) {
	schema := orderSchema()
	dist := distribution.New(0.7, 0.05, 0.03, [2]int{2, 4}, nil)

	seed := int64(42)
	g := New(schema, nil, &dist, &seed)
	doc, err := g.Generate()
	require.NoError(t, err)

	items := doc.Root().SelectElements("Item")
	assert.GreaterOrEqual(t, len(items), 2)
	assert.LessOrEqual(t, len(items), 4)
	for _, it := range items {
		assert.NotEmpty(t, it.SelectAttrValue("sku", ""))
	}
}

func TestGenerateNillableNoteEmittedAsXsiNil(t *testing.T) {
	schema := orderSchema()
	dist := distribution.New(1.0, 1.0, 0.0, [2]int{1, 1}, nil)

	seed := int64(7)
	g := New(schema, nil, &dist, &seed)
	out, err := g.GenerateString()
	require.NoError(t, err)
	assert.Contains(t, out, `xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"`)
	assert.Contains(t, out, `xsi:nil="true"`)
}

func TestGenerateOptionalFieldNeverIncludedWhenFillRateZero(t *testing.T) {
	schema := orderSchema()
	dist := distribution.New(0.0, 0.0, 0.0, [2]int{1, 1}, nil)

	seed := int64(9)
	g := New(schema, nil, &dist, &seed)
	doc, err := g.Generate()
	require.NoError(t, err)
	assert.Empty(t, doc.Root().SelectElements("Note"))
}

func TestGenerateUsesSemanticTypeOverride(t *testing.T) {
	schema := orderSchema()
	dist := distribution.New(1.0, 0.0, 0.0, [2]int{1, 1}, nil)
	token := "email"
	metaCfg := &meta.Config{
		Generation: meta.GenerationConfig{
			SemanticTypes: map[string]*string{"/Order/Note": &token},
		},
	}

	seed := int64(3)
	g := New(schema, metaCfg, &dist, &seed)
	doc, err := g.Generate()
	require.NoError(t, err)

	notes := doc.Root().SelectElements("Note")
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0].Text(), "@")
}
