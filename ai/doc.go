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

// Package ai provides abstractions for the remote ranking service used by search.
//
// The package defines the Ranker interface and the Config that decides whether
// a ranker is available at all. An unconfigured ranker is not an error: search
// routes straight to keyword scoring.
//
// # Implementation Packages
//
//   - ai/openai: Ranker backed by an OpenAI-compatible chat endpoint in JSON mode
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Constructor Return Type Pattern
//
// openai.NewRanker returns the concrete *openai.Ranker; consumers should accept
// ai.Ranker. mock.NewMockRanker returns *mock.MockRanker so tests can inject
// behaviour and assert on CallCount.
//
// # Usage Example
//
//	cfg := ai.NewConfig(
//	    ai.WithHost("https://api.openai.com"),
//	    ai.WithAPIKey(key),
//	)
//	if cfg.Configured() {
//	    ranker, err := openai.NewRanker(cfg)
//	    ...
//	}
package ai
