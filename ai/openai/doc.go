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

// Package openai provides an ai.Ranker backed by an OpenAI-compatible chat API.
//
// The ranker uses the langchaingo library in JSON mode to ask the model for
// an {"ids": [...]} object. It works with OpenAI itself or any compatible
// service (Ollama, LocalAI, vLLM, gateway proxies).
//
// # Usage
//
//	cfg := ai.NewConfig(
//	    ai.WithHost("http://localhost:11434"), // /v1 added automatically
//	    ai.WithModel("qwen2.5:3b"),
//	    ai.WithAPIKey("none"),
//	)
//
//	ranker, err := openai.NewRanker(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ids, err := ranker.Rank(ctx, "sciatica", candidates, 10)
package openai
