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

// Package generator builds random-but-schema-shaped XML documents by
// recursive descent over an xsd.Schema, guided by a distribution.Config
// and a values.Registry. Post-generation validation comes in two forms:
// SchemaValidator validates output against the source XSD itself (the
// "validate=true" mode), and Validator performs structural checks against
// the in-memory schema model.
package generator
