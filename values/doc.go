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

// Package values turns a semantic-type token, or an XSD simple type's
// facets, into a literal string value for XML generation. A token is
// either a named kind ("email"), a parameterized kind ("decimal(1,100,2)"),
// or a pattern template ("pattern:{YYYY}-{######}").
package values
