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

package catalogxml

import (
	"sync"
	"time"
)

// process is the lazily-initialized process-wide singleton backing the
// package-level convenience functions below. It exists so callers can use
// catalogxml.Init/Submit*/Shutdown from anywhere without threading an
// *Engine through their call graph, while still allowing tests (and
// advanced callers) to construct their own independent Engine.
var (
	processOnce   sync.Once
	processEngine *Engine
)

func process() *Engine {
	processOnce.Do(func() { processEngine = NewEngine() })
	return processEngine
}

// Init initializes the process-wide engine. The first call wins; later
// calls are no-ops, so it is safe to call Init redundantly from multiple
// packages during startup.
func Init(opts Options) { process().Init(opts) }

// SubmitBytes submits XML field observations from bytes to the process-wide
// engine. A no-op if Init has not been called or Shutdown already ran.
func SubmitBytes(data []byte, contextID string, metadata map[string]string) {
	process().SubmitBytes(data, contextID, metadata)
}

// SubmitString submits XML field observations from a string to the
// process-wide engine.
func SubmitString(data string, contextID string, metadata map[string]string) {
	process().SubmitString(data, contextID, metadata)
}

// SubmitTree submits XML field observations from an already-parsed element
// tree (*etree.Document or *etree.Element) to the process-wide engine.
func SubmitTree(tree any, contextID string, metadata map[string]string) {
	process().SubmitTree(tree, contextID, metadata)
}

// Shutdown gracefully drains the process-wide engine, waiting up to timeout.
// See Engine.Shutdown for the return value semantics.
func Shutdown(timeout time.Duration) bool { return process().Shutdown(timeout) }

// DroppedSubmissions reports how many submissions the process-wide engine
// has dropped on a full queue.
func DroppedSubmissions() uint64 { return process().DroppedSubmissions() }

// Reset discards the process-wide engine's state. For tests only.
func Reset() { process().Reset() }
