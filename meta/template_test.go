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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/UNO-SOFT/fieldcatalog/xsd"
)

func TestGenerateTemplateScenario8(t *testing.T) {
	paths := []xsd.FieldPath{
		{Path: "/Root", MinOccurs: 1, MaxOccurs: 1},
		{Path: "/Root/Status", MinOccurs: 1, MaxOccurs: 1, Enumeration: []string{"ACTIVE", "INACTIVE", "PENDING"}},
		{Path: "/Root/Item", MinOccurs: 1, MaxOccurs: xsd.Unbounded},
	}

	out := GenerateTemplate(paths, "root.xsd", "ctx-1")

	assert.Contains(t, out, `"/Root/Status": null  # Has enum: [ACTIVE, INACTIVE, PENDING]`)
	assert.Contains(t, out, `"/Root/Item": null`)
	assert.Contains(t, out, `"/Root/Item":  # maxOccurs=unbounded`)
	assert.Contains(t, out, "repeatRange: [1, 5]")
	assert.Contains(t, out, `contextId: "ctx-1"`)
}
