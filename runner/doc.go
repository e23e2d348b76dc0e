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

// Package runner discovers test lanes (an XSD paired with a sibling
// .meta.yaml) and runs each one: parse the schema, generate XML instances,
// validate each against the source XSD, optionally save them, and submit
// the resulting observations
// to the catalog API. It is intentionally thin: no persistent run history
// and no progress UI, just a result summary per lane.
package runner
