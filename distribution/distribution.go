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

package distribution

import (
	"math/rand/v2"

	"github.com/UNO-SOFT/fieldcatalog/meta"
)

// maxRepeat bounds every repeat count regardless of configuration.
const maxRepeat = 20

// fieldOverride holds the per-path rates distribution consults; kept
// separate from meta.FieldOverride so this package doesn't need to know
// about semantic types. FromMetaConfig fills only fillRate and repeatRange
// (meta.FieldOverride has no null or empty rate).
type fieldOverride struct {
	fillRate    *float64
	nullRate    *float64
	emptyRate   *float64
	repeatRange []int
}

// Config drives every random decision made while generating one document.
// A non-nil seed makes the sequence of decisions reproducible across runs.
type Config struct {
	OptionalFieldFillRate float64
	NullRate              float64
	EmptyRate             float64
	RepeatRange           [2]int

	overrides map[string]fieldOverride
	rng       *rand.Rand
}

// Defaults returns the standard rates: 70% optional fill, 5% null,
// 3% empty, repeat range [1,3].
func Defaults() Config {
	return Config{
		OptionalFieldFillRate: 0.7,
		NullRate:              0.05,
		EmptyRate:             0.03,
		RepeatRange:           [2]int{1, 3},
	}
}

// New builds a Config from explicit rates. seed == nil selects a
// non-reproducible source.
func New(fillRate, nullRate, emptyRate float64, repeatRange [2]int, seed *int64) Config {
	c := Config{
		OptionalFieldFillRate: fillRate,
		NullRate:              nullRate,
		EmptyRate:             emptyRate,
		RepeatRange:           repeatRange,
	}
	c.init(seed)
	return c
}

// FromMetaConfig builds a Config from a parsed meta.Config's generation
// section, honoring per-path fieldOverrides. seed == nil selects a
// non-reproducible source.
func FromMetaConfig(gen meta.GenerationConfig, seed *int64) Config {
	rr := [2]int{1, 3}
	if len(gen.Defaults.RepeatRange) == 2 {
		rr = [2]int{gen.Defaults.RepeatRange[0], gen.Defaults.RepeatRange[1]}
	}
	c := Config{
		OptionalFieldFillRate: gen.Defaults.OptionalFieldFillRate,
		NullRate:              gen.Defaults.NullRate,
		EmptyRate:             gen.Defaults.EmptyRate,
		RepeatRange:           rr,
	}
	if len(gen.FieldOverrides) > 0 {
		c.overrides = make(map[string]fieldOverride, len(gen.FieldOverrides))
		for path, o := range gen.FieldOverrides {
			if o == nil {
				continue
			}
			fo := fieldOverride{fillRate: o.FillRate}
			if len(o.RepeatRange) == 2 {
				fo.repeatRange = []int{o.RepeatRange[0], o.RepeatRange[1]}
			}
			c.overrides[path] = fo
		}
	}
	c.init(seed)
	return c
}

func (c *Config) init(seed *int64) {
	if seed != nil {
		s := uint64(*seed)
		c.rng = rand.New(rand.NewPCG(s, s))
	} else {
		c.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
}

func (c *Config) float() float64 {
	c.ensureRNG()
	return c.rng.Float64()
}

func (c *Config) intn(n int) int {
	c.ensureRNG()
	return c.rng.IntN(n)
}

// ensureRNG covers Configs built as plain literals (e.g. Defaults())
// without going through init.
func (c *Config) ensureRNG() {
	if c.rng == nil {
		c.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
}

func (c *Config) override(path string) (fieldOverride, bool) {
	if c.overrides == nil {
		return fieldOverride{}, false
	}
	o, ok := c.overrides[path]
	return o, ok
}

func (c *Config) fillRate(path string) float64 {
	if o, ok := c.override(path); ok && o.fillRate != nil {
		return *o.fillRate
	}
	return c.OptionalFieldFillRate
}

func (c *Config) nullRate(path string) float64 {
	if o, ok := c.override(path); ok && o.nullRate != nil {
		return *o.nullRate
	}
	return c.NullRate
}

func (c *Config) emptyRate(path string) float64 {
	if o, ok := c.override(path); ok && o.emptyRate != nil {
		return *o.emptyRate
	}
	return c.EmptyRate
}

func (c *Config) repeatRange(path string) (int, int) {
	if o, ok := c.override(path); ok && len(o.repeatRange) == 2 {
		return o.repeatRange[0], o.repeatRange[1]
	}
	return c.RepeatRange[0], c.RepeatRange[1]
}

// ShouldIncludeOptional reports whether an optional (minOccurs=0) field at
// path should be generated.
func (c *Config) ShouldIncludeOptional(path string) bool {
	return c.float() < c.fillRate(path)
}

// ShouldBeNull reports whether a nillable field at path should be emitted
// as xsi:nil="true". Only meaningful for nillable elements.
func (c *Config) ShouldBeNull(path string) bool {
	return c.float() < c.nullRate(path)
}

// ShouldBeEmpty reports whether a leaf's text should be the empty string.
// Callers must suppress this for enumerated types — the empty string is
// never a member of an enumeration domain.
func (c *Config) ShouldBeEmpty(path string) bool {
	return c.float() < c.emptyRate(path)
}

// RepeatCount returns the number of times a repeating element at path
// should be generated, respecting the element's own XSD minOccurs/maxOccurs
// (maxOccurs == xsd.Unbounded, i.e. < 0, for "unbounded") alongside the
// configured/override repeat range.
func (c *Config) RepeatCount(path string, minOccurs, maxOccurs int) int {
	repeatMin, repeatMax := c.repeatRange(path)

	var effectiveMin, effectiveMax int
	if maxOccurs < 0 { // unbounded
		effectiveMin = maxInt(minOccurs, repeatMin)
		effectiveMax = repeatMax
	} else {
		effectiveMin = maxInt(minOccurs, 1)
		if maxOccurs > 0 {
			effectiveMax = minInt(maxOccurs, repeatMax)
		} else {
			effectiveMax = repeatMax
		}
	}

	if effectiveMin > effectiveMax {
		effectiveMax = effectiveMin
	}
	if effectiveMax > maxRepeat {
		effectiveMax = maxRepeat
	}
	if effectiveMin > effectiveMax {
		effectiveMin = effectiveMax
	}

	if effectiveMin == effectiveMax {
		return effectiveMin
	}
	return effectiveMin + c.intn(effectiveMax-effectiveMin+1)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
