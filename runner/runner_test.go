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

package runner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleXSD = `<?xml version="1.0"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
  <xs:element name="Order">
    <xs:complexType>
      <xs:sequence>
        <xs:element name="Status" type="xs:string" minOccurs="1" maxOccurs="1"/>
      </xs:sequence>
    </xs:complexType>
  </xs:element>
</xs:schema>
`

const sampleMetaYAML = `
context:
  contextId: "deposits"
generation:
  defaults:
    optionalFieldFillRate: 0.7
    repeatRange: [1, 2]
`

func writeLane(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".xsd"), []byte(sampleXSD), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".meta.yaml"), []byte(sampleMetaYAML), 0o644))
}

func TestDiscoverLanesFindsXSDWithSiblingMeta(t *testing.T) {
	dir := t.TempDir()
	writeLane(t, dir, "orders")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "orphan.xsd"), []byte(sampleXSD), 0o644))

	r := New(Options{LanesDir: dir, DryRun: true})
	lanes, err := r.DiscoverLanes()
	require.NoError(t, err)
	require.Len(t, lanes, 1)
	assert.Equal(t, "orders", lanes[0].Name)
}

func TestRunAllDryRunGeneratesWithoutSubmitting(t *testing.T) {
	dir := t.TempDir()
	writeLane(t, dir, "orders")

	seed := int64(7)
	r := New(Options{LanesDir: dir, DryRun: true, Count: 3, Seed: &seed})
	result, err := r.RunAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.LanesRun)
	assert.Equal(t, 1, result.LanesSucceeded)
	assert.Equal(t, 3, result.TotalXMLsGenerated)
	assert.True(t, result.Success())
}

func TestRunAllNoLanesIsError(t *testing.T) {
	dir := t.TempDir()
	r := New(Options{LanesDir: dir, DryRun: true})
	_, err := r.RunAll(context.Background())
	require.Error(t, err)
}

func TestRunSelectedMatchesByName(t *testing.T) {
	dir := t.TempDir()
	writeLane(t, dir, "orders")
	writeLane(t, dir, "invoices")

	r := New(Options{LanesDir: dir, DryRun: true, Count: 1})
	result, err := r.RunSelected(context.Background(), []string{"orders"})
	require.NoError(t, err)
	require.Len(t, result.LaneResults, 1)
	assert.Equal(t, "orders", result.LaneResults[0].LaneName[len(result.LaneResults[0].LaneName)-len("orders"):])
}

func TestRunAllSavesXMLWhenOutputDirSet(t *testing.T) {
	dir := t.TempDir()
	writeLane(t, dir, "orders")
	outDir := t.TempDir()

	r := New(Options{LanesDir: dir, DryRun: true, Count: 2, OutputDir: outDir})
	result, err := r.RunAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalXMLsGenerated)

	entries, err := os.ReadDir(filepath.Join(outDir, filepath.Base(dir)+"/orders"))
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
