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

// Package catalogxml extracts per-field observation statistics from XML
// documents and posts them to a Field Catalog API under a strict
// fire-and-forget discipline: intake calls never block the caller and never
// propagate an error. Failures are reported, best-effort, to an optional
// error sink.
//
// Call Init once at process startup, then SubmitBytes/SubmitString/SubmitTree
// for every XML document observed. Shutdown drains the background worker.
package catalogxml
