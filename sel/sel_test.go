package sel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/percona/percona-linked-lists/sel"
)

func TestFilter(t *testing.T) {
	t.Parallel()

	scenarios := map[string][]string{
		"exclusive": {"lifo", "peek", "iter", "teardown"},
		"shared":    {"basics", "iter", "trident", "readers"},
	}

	check := func(t *testing.T, isSelected sel.Filter, expected map[string]map[string]bool) {
		t.Helper()

		for group, names := range scenarios {
			for _, name := range names {
				assert.Equal(t, expected[group][name], isSelected(group, name), "%s.%s", group, name)
			}
		}
	}

	t.Run("allow all", func(t *testing.T) {
		t.Parallel()

		isSelected := sel.MakeFilter(nil, nil)
		for group, names := range scenarios {
			for _, name := range names {
				assert.True(t, isSelected(group, name), "%s.%s", group, name)
			}
		}
	})

	t.Run("include", func(t *testing.T) {
		t.Parallel()

		isSelected := sel.MakeFilter([]string{"exclusive.*", "shared.trident"}, nil)
		check(t, isSelected, map[string]map[string]bool{
			"exclusive": {"lifo": true, "peek": true, "iter": true, "teardown": true},
			"shared":    {"trident": true},
		})
	})

	t.Run("bare group", func(t *testing.T) {
		t.Parallel()

		isSelected := sel.MakeFilter([]string{"shared"}, nil)
		check(t, isSelected, map[string]map[string]bool{
			"shared": {"basics": true, "iter": true, "trident": true, "readers": true},
		})
	})

	t.Run("exclude", func(t *testing.T) {
		t.Parallel()

		isSelected := sel.MakeFilter(nil, []string{"exclusive.teardown", "shared.*"})
		check(t, isSelected, map[string]map[string]bool{
			"exclusive": {"lifo": true, "peek": true, "iter": true},
		})
	})

	t.Run("include with exclude", func(t *testing.T) {
		t.Parallel()

		isSelected := sel.MakeFilter(
			[]string{"exclusive.*", "shared.iter", "shared.readers"},
			[]string{"exclusive.teardown", "shared.readers"})
		check(t, isSelected, map[string]map[string]bool{
			"exclusive": {"lifo": true, "peek": true, "iter": true},
			"shared":    {"iter": true},
		})
	})
}
