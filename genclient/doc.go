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

// Package genclient is the synchronous, error-reporting companion to
// catalogxml used by the test-data generator workflow. Unlike catalogxml's
// fire-and-forget discipline, every operation here surfaces failures to
// the caller, and SubmitObservations retries transient faults with linear
// backoff.
package genclient
