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

package openai

// repairJSON fixes keys that lost their opening quote, a common defect in
// small-model output: `{ids": [...]}` becomes `{"ids": [...]}`.
// Anything that does not look like a broken key is copied unchanged.
func repairJSON(s string) string {
	in := []rune(s)
	out := make([]rune, 0, len(in)+8)

	for i := 0; i < len(in); {
		ch := in[i]
		out = append(out, ch)
		i++
		if ch != '{' && ch != ',' {
			continue
		}

		for i < len(in) && isSpace(in[i]) {
			out = append(out, in[i])
			i++
		}
		if i >= len(in) || !isLetter(in[i]) {
			continue
		}

		start := i
		for i < len(in) && (isLetter(in[i]) || in[i] == '_') {
			i++
		}
		if i+1 < len(in) && in[i] == '"' && in[i+1] == ':' {
			out = append(out, '"')
		}
		out = append(out, in[start:i]...)
	}

	return string(out)
}
