// Copyright 2017 Tamás Gulácsi
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

// Package xsd holds a simplified, language-neutral model of an XSD schema —
// elements, attributes, and simple-type facets — and a parser that builds
// that model from an on-disk schema file. The model is read-only once
// built; it exists to drive XML generation, not to fully validate schemas.
package xsd
