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

package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidContentItem indicates a ContentItem failed validation.
	ErrInvalidContentItem = errors.New("invalid content item")

	// ErrInvalidArticle indicates an Article failed validation.
	ErrInvalidArticle = errors.New("invalid article")

	// ErrEmptyID indicates the ID field is empty.
	ErrEmptyID = errors.New("id cannot be empty")

	// ErrEmptyTitle indicates the Title field is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrEmptySlug indicates the Slug field is empty.
	ErrEmptySlug = errors.New("slug cannot be empty")

	// ErrForbiddenSlug indicates the slug marks example, test or draft content.
	ErrForbiddenSlug = errors.New("slug marks unpublishable content")

	// ErrInvalidKind indicates an invalid Kind value.
	ErrInvalidKind = errors.New("invalid kind")
)
