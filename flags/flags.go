// Package flags holds the Bitfinex order flag registry and the bitmask
// operations used to build and inspect an order's flags field.
package flags

import (
	"fmt"
	"sort"
	"strings"

	"github.com/soulgarden/bfx-postonly/dictionary"
)

// Bit values as documented by the exchange. Do not renumber.
const (
	Hidden     int64 = 64
	Close      int64 = 512
	ReduceOnly int64 = 1024
	PostOnly   int64 = 4096
	OCO        int64 = 16384
	NoVWR      int64 = 262144
)

const (
	HiddenName     = "HIDDEN"
	CloseName      = "CLOSE"
	ReduceOnlyName = "REDUCE_ONLY"
	PostOnlyName   = "POST_ONLY"
	OCOName        = "OCO"
	NoVWRName      = "NO_VWR"
)

//nolint: gochecknoglobals
var registry = map[string]int64{
	HiddenName:     Hidden,
	CloseName:      Close,
	ReduceOnlyName: ReduceOnly,
	PostOnlyName:   PostOnly,
	OCOName:        OCO,
	NoVWRName:      NoVWR,
}

// Value returns the bit value of a registered flag. Lookup is case-insensitive.
func Value(name string) (int64, error) {
	v, ok := registry[strings.ToUpper(name)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", dictionary.ErrUnknownFlag, name)
	}

	return v, nil
}

// Combine ORs the values of names together. No names yields 0.
func Combine(names ...string) (int64, error) {
	var combined int64

	for _, name := range names {
		v, err := Value(name)
		if err != nil {
			return 0, err
		}

		combined |= v
	}

	return combined, nil
}

// Has reports whether every bit of the named flag is set in flags.
func Has(flags int64, name string) (bool, error) {
	v, err := Value(name)
	if err != nil {
		return false, err
	}

	return IsSet(flags, v), nil
}

// Add sets the named flag on flags.
func Add(flags int64, name string) (int64, error) {
	v, err := Value(name)
	if err != nil {
		return 0, err
	}

	return flags | v, nil
}

// IsSet reports whether every bit of bit is set in flags. A zero bit is never set.
func IsSet(flags, bit int64) bool {
	return flags&bit == bit && bit != 0
}

// Names lists the registry ordered by bit value.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}

	sort.Slice(names, func(i, j int) bool {
		return registry[names[i]] < registry[names[j]]
	})

	return names
}

// Describe returns the names of the registered flags present in flags,
// ordered by bit value. Unregistered bits are ignored.
func Describe(flags int64) []string {
	var present []string

	for _, name := range Names() {
		if IsSet(flags, registry[name]) {
			present = append(present, name)
		}
	}

	return present
}
