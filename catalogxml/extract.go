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

package catalogxml

import (
	"strings"

	"github.com/beevik/etree"
)

// ObservationRecord is the wire-level shape posted to the catalog API.
// Field names and casing are fixed by the server's data contract.
type ObservationRecord struct {
	Metadata  map[string]string `json:"metadata"`
	FieldPath string            `json:"fieldPath"`
	Count     int               `json:"count"`
	HasNull   bool              `json:"hasNull"`
	HasEmpty  bool              `json:"hasEmpty"`
}

// fieldStatistics accumulates occurrences of a single field path during one
// document walk. metadata is a reference to the submission's metadata
// (copy-on-first-sight of the map value, not of its contents — metadata is
// submission-scoped, not per-path).
type fieldStatistics struct {
	fieldPath        string
	metadata         map[string]string
	totalOccurrences int
	nullValueCount   int
	emptyValueCount  int
}

func (s *fieldStatistics) toRecord() ObservationRecord {
	return ObservationRecord{
		Metadata:  s.metadata,
		FieldPath: s.fieldPath,
		Count:     s.totalOccurrences,
		HasNull:   s.nullValueCount > 0,
		HasEmpty:  s.emptyValueCount > 0,
	}
}

const xsiSpace = "xsi"

// extractor walks an XML tree and aggregates per-path field statistics.
// With honorXsiNil set, an element carrying xsi:nil="true" counts as null;
// without it, nil folds into empty. Both the engine and genclient run with
// it set; the flag stays for callers that need the legacy folding.
type extractor struct {
	honorXsiNil bool
}

// ExtractObservations extracts field observations from an XML string,
// honoring xsi:nil. This is the extraction path shared with the
// synchronous genclient. Returns nil on any parse failure; it never
// returns an error.
func ExtractObservations(xmlString string, metadata map[string]string) []ObservationRecord {
	return extractor{honorXsiNil: true}.extractFromString(xmlString, metadata)
}

// extractFromBytes parses raw XML bytes and extracts observations. Returns
// nil on any parse failure or empty input — it never returns an error.
func (x extractor) extractFromBytes(data []byte, metadata map[string]string) []ObservationRecord {
	if len(data) == 0 {
		return nil
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil
	}
	return x.extractFromElement(doc.Root(), metadata)
}

// extractFromString parses an XML string and extracts observations.
func (x extractor) extractFromString(data string, metadata map[string]string) []ObservationRecord {
	if strings.TrimSpace(data) == "" {
		return nil
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromString(data); err != nil {
		return nil
	}
	return x.extractFromElement(doc.Root(), metadata)
}

// extractFromElement walks an already-parsed element tree. This is the
// common path shared by the bytes/string variants and by callers that
// submit a pre-parsed tree directly.
func (x extractor) extractFromElement(root *etree.Element, metadata map[string]string) (out []ObservationRecord) {
	if root == nil {
		return nil
	}
	defer func() {
		if recover() != nil {
			out = nil
		}
	}()

	if metadata == nil {
		metadata = map[string]string{}
	}

	c := &statsCollector{stats: make(map[string]*fieldStatistics)}
	x.walk(root, c, metadata, "")

	out = make([]ObservationRecord, 0, len(c.order))
	for _, path := range c.order {
		out = append(out, c.stats[path].toRecord())
	}
	return out
}

// statsCollector accumulates per-path statistics plus the order in which
// each path was first sighted. Records are emitted in that order, so the
// same document always produces the same payload byte-for-byte.
type statsCollector struct {
	stats map[string]*fieldStatistics
	order []string
}

func (x extractor) walk(el *etree.Element, c *statsCollector, metadata map[string]string, parentPath string) {
	path := parentPath + "/" + localName(el.Tag)

	children := el.ChildElements()
	if len(children) == 0 {
		x.recordLeaf(el, c, metadata, path)
	}

	for _, attr := range el.Attr {
		if isXSIAttr(attr) || isNamespaceDecl(attr) {
			continue
		}
		attrPath := path + "/@" + localName(attr.Key)
		x.record(c, metadata, attrPath, classifyValue(attr.Value))
	}

	for _, child := range children {
		x.walk(child, c, metadata, path)
	}
}

// valueClass distinguishes the three observable states of a leaf value.
type valueClass int

const (
	classPresent valueClass = iota
	classEmpty
	classNull
)

func (x extractor) recordLeaf(el *etree.Element, c *statsCollector, metadata map[string]string, path string) {
	if x.honorXsiNil && isXSINil(el) {
		x.record(c, metadata, path, classNull)
		return
	}
	x.record(c, metadata, path, classifyValue(el.Text()))
}

func classifyValue(text string) valueClass {
	if strings.TrimSpace(text) == "" {
		return classEmpty
	}
	return classPresent
}

func (x extractor) record(c *statsCollector, metadata map[string]string, path string, class valueClass) {
	s, ok := c.stats[path]
	if !ok {
		s = &fieldStatistics{fieldPath: path, metadata: metadata}
		c.stats[path] = s
		c.order = append(c.order, path)
	}
	s.totalOccurrences++
	switch class {
	case classNull:
		s.nullValueCount++
	case classEmpty:
		s.emptyValueCount++
	}
}

// localName strips any namespace prefix from a tag or attribute name.
// etree already splits "ns:Local" into Space="ns", Tag/Key="Local" at parse
// time, so this is a defensive no-op for the common case and a fallback for
// literal "ns:Local" strings that slipped through unsplit (e.g. from a
// caller-constructed tree).
func localName(name string) string {
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return name[i+1:]
	}
	return name
}

func isXSIAttr(attr etree.Attr) bool {
	return strings.EqualFold(attr.Space, xsiSpace)
}

// isNamespaceDecl reports whether attr is an xmlns declaration
// ("xmlns:ns" or a bare "xmlns"), which names a namespace binding, not an
// observable field.
func isNamespaceDecl(attr etree.Attr) bool {
	return attr.Space == "xmlns" || (attr.Space == "" && attr.Key == "xmlns")
}

func isXSINil(el *etree.Element) bool {
	for _, attr := range el.Attr {
		if isXSIAttr(attr) && attr.Key == "nil" && attr.Value == "true" {
			return true
		}
	}
	return false
}
