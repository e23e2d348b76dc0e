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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UNO-SOFT/fieldcatalog/distribution"
)

func TestValidatorAcceptsGeneratedDocuments(t *testing.T) {
	schema := orderSchema()
	dist := distribution.Defaults()
	v := NewValidator(schema)

	for i := 0; i < 20; i++ {
		seed := int64(i)
		g := New(schema, nil, &dist, &seed)
		out, err := g.GenerateString()
		require.NoError(t, err)

		ok, err := v.IsValid(out)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestValidatorRejectsMalformedXML(t *testing.T) {
	schema := orderSchema()
	v := NewValidator(schema)

	ok, err := v.IsValid("<Order><Status>NEW</Order>")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestValidatorRejectsWrongRootElement(t *testing.T) {
	schema := orderSchema()
	v := NewValidator(schema)

	errs, err := v.Validate(`<Invoice><Status>NEW</Status></Invoice>`)
	require.NoError(t, err)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0], "expected element")
}

func TestValidatorRejectsValueOutsideEnumeration(t *testing.T) {
	schema := orderSchema()
	v := NewValidator(schema)

	errs, err := v.Validate(`<Order><Status>UNKNOWN</Status><Item sku="A1">9.99</Item></Order>`)
	require.NoError(t, err)
	require.NotEmpty(t, errs)
	assert.True(t, anyContains(errs, "enumeration"))
}

func TestValidatorRejectsMissingRequiredAttribute(t *testing.T) {
	schema := orderSchema()
	v := NewValidator(schema)

	errs, err := v.Validate(`<Order><Status>NEW</Status><Item>9.99</Item></Order>`)
	require.NoError(t, err)
	require.NotEmpty(t, errs)
	assert.True(t, anyContains(errs, "required attribute missing"))
}

func TestValidatorRejectsTooFewOccurrences(t *testing.T) {
	schema := orderSchema()
	v := NewValidator(schema)

	errs, err := v.Validate(`<Order><Status>NEW</Status></Order>`)
	require.NoError(t, err)
	require.NotEmpty(t, errs)
	assert.True(t, anyContains(errs, "at least"))
}

func TestValidatorAcceptsNillableNote(t *testing.T) {
	schema := orderSchema()
	v := NewValidator(schema)

	ok, err := v.IsValid(`<Order><Status>NEW</Status><Note xsi:nil="true"/><Item sku="A1">9.99</Item></Order>`)
	require.NoError(t, err)
	assert.True(t, ok)
}

func anyContains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}
