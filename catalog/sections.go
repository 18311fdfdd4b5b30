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

package catalog

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/poiesic/sitesearch/core"
	"gopkg.in/yaml.v3"
)

//go:embed sections.yaml
var sectionsYAML []byte

var loadSections = sync.OnceValues(func() ([]core.Section, error) {
	return ParseSections(sectionsYAML)
})

// ParseSections decodes a YAML list of section descriptors.
func ParseSections(data []byte) ([]core.Section, error) {
	var sections []core.Section
	if err := yaml.Unmarshal(data, &sections); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSections, err)
	}
	for i := range sections {
		item := sections[i].ContentItem()
		if err := core.ValidateContentItem(&item); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", ErrInvalidSections, i, err)
		}
	}
	return sections, nil
}

// Sections returns the built-in section catalog. Each call returns a fresh
// copy, so callers may modify the result.
func Sections() ([]core.Section, error) {
	sections, err := loadSections()
	if err != nil {
		return nil, err
	}
	return cloneSections(sections), nil
}

func cloneSections(in []core.Section) []core.Section {
	out := make([]core.Section, len(in))
	for i, s := range in {
		out[i] = s
		out[i].Tags = append([]string(nil), s.Tags...)
	}
	return out
}
