package tabular

// Typed boundary helpers. A hot loop that repeatedly reads cells through the
// polymorphic Column interface pays dynamic dispatch at every element. The
// pattern here is to extract the concretely typed slice once (Int64s,
// Float64s, Strings, Codes) and hand it to one of these functions, which
// operate on plain arrays and never re-acquire columns through the table.

// Number constrains the element kinds the numeric helpers accept.
type Number interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

// Sum adds all elements of a concretely typed slice.
func Sum[T Number](values []T) T {
	var sum T
	for _, v := range values {
		sum += v
	}
	return sum
}

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean[T Number](values []T) float64 {
	if len(values) == 0 {
		return 0
	}
	return float64(Sum(values)) / float64(len(values))
}

// MinMax returns the smallest and largest element. The slice must not be
// empty.
func MinMax[T Number](values []T) (min, max T) {
	min, max = values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// SumValid adds the present elements of a nullable column's storage and
// returns their count. values and validity come from the column's typed
// accessors; the per-element branch is the inherent cost of nullability.
func SumValid[T Number](values []T, validity []uint64) (sum T, n int) {
	for i, v := range values {
		if validity[i/64]&(1<<(i%64)) != 0 {
			sum += v
			n++
		}
	}
	return sum, n
}

// MeanValid returns the mean of the present elements, or 0 if none are.
func MeanValid[T Number](values []T, validity []uint64) float64 {
	sum, n := SumValid(values, validity)
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

// CountCodes tallies occurrences per dictionary code. codes comes from
// CategoricalColumn.Codes, size from Dictionary.Size.
func CountCodes(codes []uint32, size int) []int {
	counts := make([]int, size)
	for _, code := range codes {
		counts[code]++
	}
	return counts
}
