// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package search answers site search queries over a per-request catalog snapshot.
//
// A Searcher builds a fresh snapshot for every call and then picks one of two
// strategies:
//   - Semantic: an ai.Ranker orders a window of candidates (sections first,
//     then articles). Its output is untrusted and is filtered against the
//     candidates before use.
//   - Keyword: KeywordScore counts query term occurrences in each item's
//     surface text. It is deterministic and always available.
//
// The ranker is attempted only when configured. Any ranking failure, timeout
// or empty answer falls back to keyword scoring, so callers always get a list.
package search
