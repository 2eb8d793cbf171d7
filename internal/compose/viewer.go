package compose

import (
	"fmt"
	"reflect"
	"strings"
)

var defaultViewerProfileKeys = []string{"board"}

// ViewerSelector narrows a composed page to the content variants matching a
// viewer's profile.
type ViewerSelector struct {
	keys []string
}

// NewViewerSelector builds a selector restricted to the given profile keys.
func NewViewerSelector(keys ...string) *ViewerSelector {
	allowed := make([]string, 0, len(keys))
	seen := map[string]struct{}{}
	for _, key := range keys {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		allowed = append(allowed, key)
	}
	return &ViewerSelector{keys: allowed}
}

// Profile keeps the allowed, non-null profile attributes as string sets.
func (v *ViewerSelector) Profile(raw map[string]any) map[string]map[string]struct{} {
	profile := map[string]map[string]struct{}{}
	for _, key := range v.keys {
		value, ok := raw[key]
		if !ok || value == nil {
			continue
		}
		profile[key] = stringSet(value)
	}
	return profile
}

// Select rewrites the item lists of the page in place. Sections exposing
// collections are preferred over those exposing contents.
func (v *ViewerSelector) Select(page *ComposedPage, rawProfile map[string]any) {
	if page == nil {
		return
	}
	profile := v.Profile(rawProfile)

	var withContents, withCollections []*ResolvedSection
	for _, section := range page.Sections {
		if section == nil {
			continue
		}
		if len(section.Contents) > 0 {
			withContents = append(withContents, section)
		}
		if section.CollectionsCount > 0 {
			withCollections = append(withCollections, section)
		}
	}

	if len(withCollections) > 0 {
		for _, section := range withCollections {
			section.Collections = v.pick(section.Collections, profile)
			section.CollectionsCount = int64(len(section.Collections))
		}
		return
	}
	for _, section := range withContents {
		section.Contents = v.pick(section.Contents, profile)
		section.Count = int64(len(section.Contents))
	}
}

func (v *ViewerSelector) pick(items []ContentItem, profile map[string]map[string]struct{}) []ContentItem {
	origin := make([]ContentItem, 0, len(items))
	shallow := make([]ContentItem, 0)
	for _, item := range items {
		if item.IsShallowCopy() {
			shallow = append(shallow, item)
			continue
		}
		origin = append(origin, item)
	}
	if len(profile) == 0 {
		return origin
	}

	matched := make([]ContentItem, 0, len(shallow))
	for _, item := range shallow {
		if matchesProfile(item, profile) {
			matched = append(matched, item)
		}
	}
	if len(matched) > 0 {
		return matched
	}
	return origin
}

// matchesProfile requires every profile key to share at least one value
// with the item's field.
func matchesProfile(item ContentItem, profile map[string]map[string]struct{}) bool {
	for key, wanted := range profile {
		have := stringSet(item[key])
		found := false
		for value := range have {
			if _, ok := wanted[value]; ok {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func stringSet(value any) map[string]struct{} {
	out := map[string]struct{}{}
	if value == nil {
		return out
	}
	if s, ok := value.(string); ok {
		out[s] = struct{}{}
		return out
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		out[fmt.Sprint(value)] = struct{}{}
		return out
	}
	for i := 0; i < rv.Len(); i++ {
		item := rv.Index(i).Interface()
		if item != nil {
			out[fmt.Sprint(item)] = struct{}{}
		}
	}
	return out
}
