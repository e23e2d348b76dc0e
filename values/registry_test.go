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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateNamedKind(t *testing.T) {
	seed := int64(1)
	r := NewRegistry(&seed)
	assert.NotEmpty(t, r.Generate("email"))
	assert.Contains(t, r.Generate("email"), "@")
	assert.Contains(t, []string{"true", "false"}, r.Generate("boolean"))
}

func TestGenerateUnknownTokenFallsBackToRandomString(t *testing.T) {
	seed := int64(2)
	r := NewRegistry(&seed)
	v := r.Generate("no.such.kind")
	assert.Len(t, v, 12)
}

func TestGenerateParameterizedDecimal(t *testing.T) {
	seed := int64(3)
	r := NewRegistry(&seed)
	for i := 0; i < 20; i++ {
		v := r.Generate("decimal(10,20,2)")
		f, err := strconv.ParseFloat(v, 64)
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, f, 10.0)
		assert.LessOrEqual(t, f, 20.0)
	}
}

func TestGenerateParameterizedInteger(t *testing.T) {
	seed := int64(4)
	r := NewRegistry(&seed)
	for i := 0; i < 20; i++ {
		v := r.Generate("integer(5,9)")
		n, err := strconv.Atoi(v)
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, n, 5)
		assert.LessOrEqual(t, n, 9)
	}
}

func TestGenerateParameterizedChoice(t *testing.T) {
	seed := int64(5)
	r := NewRegistry(&seed)
	for i := 0; i < 20; i++ {
		v := r.Generate("choice(a, b, c)")
		assert.Contains(t, []string{"a", "b", "c"}, v)
	}
}

func TestGenerateParameterizedYear(t *testing.T) {
	seed := int64(6)
	r := NewRegistry(&seed)
	v := r.Generate("year(2015,2016)")
	assert.Contains(t, []string{"2015", "2016"}, v)
}

func TestGenerateParameterizedStringFixedLength(t *testing.T) {
	seed := int64(7)
	r := NewRegistry(&seed)
	v := r.Generate("string(8)")
	assert.Len(t, v, 8)
}

func TestGeneratePattern(t *testing.T) {
	seed := int64(8)
	r := NewRegistry(&seed)
	v := r.Generate("pattern:ACC-{####}-{AAA}")
	assert.Regexp(t, `^ACC-\d{4}-[A-Z]{3}$`, v)
}

func TestGeneratePatternSeq(t *testing.T) {
	seed := int64(9)
	r := NewRegistry(&seed)
	v := r.Generate("pattern:{seq:6}")
	assert.Regexp(t, `^\d{6}$`, v)
}

func TestHasSemanticType(t *testing.T) {
	seed := int64(10)
	r := NewRegistry(&seed)
	assert.True(t, r.HasSemanticType("email"))
	assert.True(t, r.HasSemanticType("decimal(1,2,2)"))
	assert.True(t, r.HasSemanticType("pattern:{YYYY}"))
	assert.False(t, r.HasSemanticType("not.a.kind"))
}
