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
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// FieldOverride overrides distribution defaults for one field path.
type FieldOverride struct {
	FillRate     *float64 `yaml:"fillRate,omitempty"`
	RepeatRange  []int    `yaml:"repeatRange,omitempty"`
	SemanticType *string  `yaml:"semanticType,omitempty"`
}

// GenerationDefaults are the fallback distribution parameters used when a
// field path has no override.
type GenerationDefaults struct {
	OptionalFieldFillRate float64 `yaml:"optionalFieldFillRate"`
	NullRate              float64 `yaml:"nullRate"`
	EmptyRate             float64 `yaml:"emptyRate"`
	RepeatRange           []int   `yaml:"repeatRange"`
}

// DefaultGenerationDefaults returns the distribution parameters used when
// a meta file leaves the defaults section (or parts of it) unset.
func DefaultGenerationDefaults() GenerationDefaults {
	return GenerationDefaults{
		OptionalFieldFillRate: 0.7,
		NullRate:              0.05,
		EmptyRate:             0.03,
		RepeatRange:           []int{1, 3},
	}
}

// GenerationConfig is the "generation" section of a meta file.
type GenerationConfig struct {
	Defaults       GenerationDefaults        `yaml:"defaults"`
	SemanticTypes  map[string]*string        `yaml:"semanticTypes,omitempty"`
	FieldOverrides map[string]*FieldOverride `yaml:"fieldOverrides,omitempty"`
}

// ContextConfig is the "context" section of a meta file. RequiredMetadata
// values may be a fixed string or a list of candidate strings (random
// selection); both decode into []string (a fixed string becomes a
// single-element slice).
type ContextConfig struct {
	ContextID        string              `yaml:"contextId"`
	DisplayName      string              `yaml:"displayName,omitempty"`
	Description      string              `yaml:"description,omitempty"`
	RequiredMetadata map[string][]string `yaml:"requiredMetadata,omitempty"`
	OptionalMetadata map[string][]string `yaml:"optionalMetadata,omitempty"`
}

// Config is a fully parsed meta file.
type Config struct {
	Context    ContextConfig    `yaml:"context"`
	Generation GenerationConfig `yaml:"generation"`
	SourceXSD  string           `yaml:"-"`
}

// rawConfig mirrors Config but accepts requiredMetadata/optionalMetadata
// entries as either a scalar string (a fixed value) or a YAML sequence
// (candidates for random selection).
type rawConfig struct {
	Context struct {
		ContextID        string               `yaml:"contextId"`
		DisplayName      string               `yaml:"displayName"`
		Description      string               `yaml:"description"`
		RequiredMetadata map[string]yaml.Node `yaml:"requiredMetadata"`
		OptionalMetadata map[string]yaml.Node `yaml:"optionalMetadata"`
	} `yaml:"context"`
	Generation GenerationConfig `yaml:"generation"`
}

// Load reads and parses a .meta.yaml file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "meta: read %s", path)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.Errorf("meta: empty meta file: %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.SourceXSD = strings.TrimSuffix(path, ".meta.yaml") + ".xsd"
	return cfg, nil
}

// Parse parses meta-file YAML bytes into a Config.
func Parse(data []byte) (*Config, error) {
	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "meta: parse YAML")
	}
	if strings.TrimSpace(raw.Context.ContextID) == "" {
		return nil, errors.New("meta: context.contextId is required")
	}

	cfg := &Config{
		Context: ContextConfig{
			ContextID:        raw.Context.ContextID,
			DisplayName:      raw.Context.DisplayName,
			Description:      raw.Context.Description,
			RequiredMetadata: decodeMetadataMap(raw.Context.RequiredMetadata),
			OptionalMetadata: decodeMetadataMap(raw.Context.OptionalMetadata),
		},
		Generation: raw.Generation,
	}
	applyDefaultFallbacks(&cfg.Generation.Defaults)
	return cfg, nil
}

// applyDefaultFallbacks fills in GenerationDefaults fields left at their
// zero value (i.e. absent from the meta file) with the standard defaults.
// optionalFieldFillRate=0 is indistinguishable from "absent" this way; a
// meta file that genuinely wants a 0% fill rate should express it via a
// fieldOverride instead.
func applyDefaultFallbacks(d *GenerationDefaults) {
	def := DefaultGenerationDefaults()
	if d.OptionalFieldFillRate == 0 {
		d.OptionalFieldFillRate = def.OptionalFieldFillRate
	}
	if d.NullRate == 0 {
		d.NullRate = def.NullRate
	}
	if d.EmptyRate == 0 {
		d.EmptyRate = def.EmptyRate
	}
	if len(d.RepeatRange) != 2 {
		d.RepeatRange = def.RepeatRange
	}
}

func decodeMetadataMap(raw map[string]yaml.Node) map[string][]string {
	if len(raw) == 0 {
		return nil
	}
	out := make(map[string][]string, len(raw))
	for k, node := range raw {
		switch node.Kind {
		case yaml.SequenceNode:
			var values []string
			_ = node.Decode(&values)
			out[k] = values
		case yaml.ScalarNode:
			var value string
			_ = node.Decode(&value)
			out[k] = []string{value}
		}
	}
	return out
}
