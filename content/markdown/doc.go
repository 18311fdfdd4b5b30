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

// Package markdown reads articles from a directory of Markdown files with
// YAML front matter and serves them as a catalog source.
//
// Recognised front matter keys are slug, title, excerpt, description,
// category, tags and publishedAt. The slug defaults to the file name without
// its extension. README files and slugs marked as example, test, draft,
// sample, template or placeholder content are never returned.
package markdown
