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

// Package storage provides the storage abstraction for long-form articles.
//
// The search path never writes: it reads a fresh article list per request
// through ArticleRepository.ListArticles. Writes come from the import and
// seeder tools, which play the role of the content-management side.
//
// # Constructor Return Type Pattern
//
// Public constructors in implementation packages return concrete types where
// callers need implementation specific methods (badger.NewArticleRepository
// returns *badger.ArticleRepository so it can also serve as a catalog source).
// Consumers should depend on the ArticleRepository interface.
//
// # Serialization
//
// Articles are encoded with MUS (github.com/mus-format/mus-go) using
// core.ArticleMUS. Keys are derived from the slug with core.IDFromContent.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
