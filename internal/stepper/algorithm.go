package stepper

import (
	"fmt"
	"strings"
)

// Algorithm selects one of the supported stepper implementations.
// The set is closed; the zero value is invalid.
type Algorithm int

const (
	SelectionSort Algorithm = iota + 1
	BubbleSort
	InsertionSort
	QuickSort
	MergeSort
	BogoSort
)

var algorithmNames = map[Algorithm]string{
	SelectionSort: "selection",
	BubbleSort:    "bubble",
	InsertionSort: "insertion",
	QuickSort:     "quick",
	MergeSort:     "merge",
	BogoSort:      "bogo",
}

// Algorithms returns every supported algorithm in declaration order.
func Algorithms() []Algorithm {
	return []Algorithm{SelectionSort, BubbleSort, InsertionSort, QuickSort, MergeSort, BogoSort}
}

// Valid reports whether a is one of the supported algorithms.
func (a Algorithm) Valid() bool {
	_, ok := algorithmNames[a]
	return ok
}

// String returns the short lowercase name ("quick", "merge", ...).
func (a Algorithm) String() string {
	if name, ok := algorithmNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Algorithm(%d)", int(a))
}

// DisplayName returns the title used on charts, e.g. "Bubble Sort".
func (a Algorithm) DisplayName() string {
	name, ok := algorithmNames[a]
	if !ok {
		return a.String()
	}
	return strings.ToUpper(name[:1]) + name[1:] + " Sort"
}

// MarshalText implements encoding.TextMarshaler.
func (a Algorithm) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, unknownAlgorithm(a.String())
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Algorithm) UnmarshalText(text []byte) error {
	parsed, err := ParseAlgorithm(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAlgorithm resolves a user-supplied name. Matching ignores case,
// separators and a trailing "sort", so "quick", "QuickSort" and
// "quick_sort" all resolve to QuickSort.
func ParseAlgorithm(s string) (Algorithm, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("_", "", "-", "", " ", "").Replace(key)
	if key != "sort" {
		key = strings.TrimSuffix(key, "sort")
	}

	for alg, name := range algorithmNames {
		if name == key {
			return alg, nil
		}
	}
	return 0, unknownAlgorithm(s)
}

func unknownAlgorithm(s string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeUnknownAlgorithm,
		Field:   "algorithm",
		Message: fmt.Sprintf("unknown sorting algorithm %q", s),
	}
}
