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

package values

import (
	"fmt"
	"strconv"
	"strings"
)

const digitAlphabet = "0123456789"
const upperAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// generateFromPattern substitutes the bounded template placeholders
// {YYYY}, {YY}, {MM}, {DD}, braced runs of # ({####}) for random digits,
// braced runs of A ({AAA}) for random uppercase letters, and {seq:N} for an
// N-digit random sequence. Bare # and A outside braces are left as written.
// This is a template language, not a regex engine.
func (r *Registry) generateFromPattern(pattern string) string {
	result := pattern

	year := 2020 + r.rng.IntN(6)
	yearStr := strconv.Itoa(year)
	result = strings.ReplaceAll(result, "{YYYY}", yearStr)
	result = strings.ReplaceAll(result, "{YY}", yearStr[2:])

	result = strings.ReplaceAll(result, "{MM}", fmt.Sprintf("%02d", 1+r.rng.IntN(12)))
	result = strings.ReplaceAll(result, "{DD}", fmt.Sprintf("%02d", 1+r.rng.IntN(28)))

	result = r.replaceRuns(result, '#', digitAlphabet)
	result = r.replaceRuns(result, 'A', upperAlphabet)
	result = r.replaceSeq(result)

	return result
}

// replaceRuns replaces every "{xxx...}" run of the given rune with that
// many random characters from alphabet, left to right, one run at a time.
func (r *Registry) replaceRuns(s string, run rune, alphabet string) string {
	marker := "{" + string(run)
	for {
		start := strings.Index(s, marker)
		if start < 0 {
			return s
		}
		end := strings.IndexByte(s[start:], '}')
		if end < 0 {
			return s
		}
		end += start
		body := s[start+1 : end]
		count := 0
		for _, c := range body {
			if c == run {
				count++
			} else {
				count = -1
				break
			}
		}
		if count <= 0 {
			return s
		}
		s = s[:start] + r.randomString(alphabet, count) + s[end+1:]
	}
}

// replaceSeq replaces every "{seq:N}" with an N-digit random sequence.
func (r *Registry) replaceSeq(s string) string {
	const marker = "{seq:"
	for {
		start := strings.Index(s, marker)
		if start < 0 {
			return s
		}
		end := strings.IndexByte(s[start:], '}')
		if end < 0 {
			return s
		}
		end += start
		n, err := strconv.Atoi(s[start+len(marker) : end])
		if err != nil || n <= 0 {
			return s
		}
		s = s[:start] + r.randomString(digitAlphabet, n) + s[end+1:]
	}
}

func (r *Registry) randomString(alphabet string, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[r.rng.IntN(len(alphabet))]
	}
	return string(b)
}
