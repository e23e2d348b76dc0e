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

package values

import (
	"strconv"
	"strings"

	"github.com/UNO-SOFT/fieldcatalog/xsd"
)

// XSDValueGenerator produces a value purely from an XSD simple type's base
// type and facets, used when no semantic type is bound to a path.
// Priority: enumeration, then pattern, then base-type-with-facets, then a
// base-type default.
type XSDValueGenerator struct {
	reg *Registry
}

// NewXSDValueGenerator builds a generator sharing reg's random source, so
// a document's XSD-fallback values and its semantic-type values are drawn
// from one reproducible sequence when reg was seeded.
func NewXSDValueGenerator(reg *Registry) *XSDValueGenerator {
	return &XSDValueGenerator{reg: reg}
}

// Generate produces a value for typeDef. A nil typeDef falls back to a
// random short string.
func (g *XSDValueGenerator) Generate(typeDef *xsd.SimpleType) string {
	if typeDef == nil {
		return g.reg.randomString("abcdefghijklmnopqrstuvwxyz", 12)
	}

	if len(typeDef.Enumeration) > 0 {
		return typeDef.Enumeration[g.reg.rng.IntN(len(typeDef.Enumeration))]
	}

	if typeDef.Pattern != "" {
		return g.generateFromRegexPattern(typeDef.Pattern)
	}

	base := strings.ToLower(typeDef.BaseType)
	switch base {
	case "integer", "int", "long", "short", "byte":
		return g.generateInteger(typeDef)
	case "decimal", "float", "double":
		return g.generateDecimal(typeDef)
	case "date":
		return g.reg.dateOffset(-3650, 0)
	case "datetime":
		return g.reg.dateTimeOffset(-3650, 0)
	case "boolean":
		return g.reg.choice([]string{"true", "false"})
	default:
		return g.generateString(typeDef)
	}
}

func (g *XSDValueGenerator) generateInteger(t *xsd.SimpleType) string {
	minVal, maxVal := 0, 10000
	if t.MinValue != nil {
		minVal = int(*t.MinValue)
	}
	if t.MaxValue != nil {
		maxVal = int(*t.MaxValue)
	}
	if t.TotalDigits != nil {
		maxByDigits := pow10(*t.TotalDigits) - 1
		if maxVal > maxByDigits {
			maxVal = maxByDigits
		}
	}
	if maxVal < minVal {
		maxVal = minVal
	}
	return strconv.Itoa(minVal + g.reg.rng.IntN(maxVal-minVal+1))
}

func (g *XSDValueGenerator) generateDecimal(t *xsd.SimpleType) string {
	minVal, maxVal := 0.0, 10000.0
	if t.MinValue != nil {
		minVal = *t.MinValue
	}
	if t.MaxValue != nil {
		maxVal = *t.MaxValue
	}
	decimals := 2
	if t.FractionDigits != nil {
		decimals = *t.FractionDigits
	}
	value := minVal + g.reg.rng.Float64()*(maxVal-minVal)
	return strconv.FormatFloat(value, 'f', decimals, 64)
}

func (g *XSDValueGenerator) generateString(t *xsd.SimpleType) string {
	minLen, maxLen := 1, 50
	if t.MinLength != nil {
		minLen = *t.MinLength
	}
	if t.MaxLength != nil {
		maxLen = *t.MaxLength
	}
	if maxLen < minLen {
		maxLen = minLen
	}
	length := minLen + g.reg.rng.IntN(maxLen-minLen+1)
	return g.reg.randomString("abcdefghijklmnopqrstuvwxyz", length)
}

// generateFromRegexPattern recognizes a small set of common pattern-facet
// shapes. Arbitrary regex is not solved; schemas with load-bearing
// patterns should bind those paths to a semantic type in the meta file.
func (g *XSDValueGenerator) generateFromRegexPattern(pattern string) string {
	if n, ok := matchRepeatedClass(pattern, "[A-Z]"); ok {
		return g.reg.randomString(upperAlphabet, n)
	}
	if n, ok := matchRepeatedClass(pattern, "[0-9]"); ok {
		return g.reg.randomString(digitAlphabet, n)
	}
	return g.reg.randomString("abcdefghijklmnopqrstuvwxyz", 20)
}

// matchRepeatedClass recognizes the literal shape "<class>{N}", e.g.
// "[A-Z]{3}", without a general regex engine.
func matchRepeatedClass(pattern, class string) (int, bool) {
	if !strings.HasPrefix(pattern, class+"{") || !strings.HasSuffix(pattern, "}") {
		return 0, false
	}
	inner := pattern[len(class)+1 : len(pattern)-1]
	n, err := strconv.Atoi(inner)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func pow10(n int) int {
	v := 1
	for i := 0; i < n; i++ {
		v *= 10
	}
	return v
}
