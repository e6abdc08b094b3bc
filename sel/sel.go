// Package sel selects exercise scenarios by "group.name" patterns.
package sel

import (
	"slices"
	"strings"
)

// Filter returns true if a scenario is selected.
type Filter func(group, name string) bool

func AllowAllFilter(string, string) bool {
	return true
}

// MakeFilter builds a filter from include and exclude patterns. A pattern is
// either "group.name" or "group.*"; a bare "group" is the same as "group.*".
// An empty include list selects everything not excluded.
func MakeFilter(include, exclude []string) Filter {
	if len(include) == 0 && len(exclude) == 0 {
		return AllowAllFilter
	}

	includeFilter := doMakeFilter(include)
	excludeFilter := doMakeFilter(exclude)

	return func(group, name string) bool {
		if len(includeFilter) != 0 && !includeFilter.Has(group, name) {
			return false
		}

		if len(excludeFilter) != 0 && excludeFilter.Has(group, name) {
			return false
		}

		return true
	}
}

type filterMap map[string][]string

func (f filterMap) Has(group, name string) bool {
	list, ok := f[group]
	if !ok {
		return false // the group is not listed
	}

	if len(list) == 0 {
		return true // every scenario of the group
	}

	return slices.Contains(list, name)
}

func doMakeFilter(patterns []string) filterMap {
	// keys are groups. a nil value selects the whole group.
	filterMap := make(map[string][]string)

	for _, pattern := range patterns {
		group, name, _ := strings.Cut(strings.TrimSpace(pattern), ".")
		if group == "" {
			continue
		}

		l, ok := filterMap[group]
		if ok && len(l) == 0 {
			continue
		}

		if name == "" || name == "*" {
			filterMap[group] = nil

			continue
		}

		filterMap[group] = append(filterMap[group], name)
	}

	return filterMap
}
