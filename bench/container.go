package bench

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/amp-labs/amp-flat/maps"
)

// ErrUnknownContainer is returned when a container name isn't registered.
var ErrUnknownContainer = errors.New("unknown container")

// Container names accepted by the runner.
const (
	ContainerFlat     = "flat"
	ContainerFrozen   = "frozen"
	ContainerTree     = "tree"
	ContainerFlatSafe = "flat-safe"
)

type entry = maps.KeyValuePair[uint64, uint64]

// builder creates a container holding the given entries. Mutable containers
// return a maps.MutableSortedMap and take part in the insert and remove phases.
type builder func(initial []entry) maps.SortedMap[uint64, uint64]

//nolint:gochecknoglobals
var builders = map[string]builder{
	ContainerFlat: func(initial []entry) maps.SortedMap[uint64, uint64] {
		return maps.NewNaturalFlatMap(initial...)
	},
	ContainerFrozen: func(initial []entry) maps.SortedMap[uint64, uint64] {
		return maps.NewNaturalFrozenFlatMap(initial...)
	},
	ContainerTree: func(initial []entry) maps.SortedMap[uint64, uint64] {
		tree := maps.NewNaturalRedBlackTreeMap[uint64, uint64]()

		for _, e := range initial {
			tree.Insert(e.Key, e.Value)
		}

		return tree
	},
	ContainerFlatSafe: func(initial []entry) maps.SortedMap[uint64, uint64] {
		return maps.NewThreadSafeMap(maps.NewNaturalFlatMap(initial...))
	},
}

// Containers returns the registered container names in sorted order.
func Containers() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// ParseContainers splits a comma-separated list of container names, dropping
// blanks and duplicates while keeping the first-seen order.
func ParseContainers(list string) ([]string, error) {
	var (
		out  []string
		errs []error
	)

	for _, raw := range strings.Split(list, ",") {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" || slices.Contains(out, name) {
			continue
		}

		if _, ok := builders[name]; !ok {
			errs = append(errs, fmt.Errorf("%w: %q (known: %s)", ErrUnknownContainer, name, strings.Join(Containers(), ", ")))

			continue
		}

		out = append(out, name)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return out, nil
}
