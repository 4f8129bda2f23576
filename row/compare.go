package row

import "fmt"

// The ordering policy: the numeric kinds (int, int64, float64) order
// mutually, strings order with strings, sequences order lexicographically
// element-wise. Every other cross-kind pair fails with ErrNonOrderable
// rather than guessing a coercion.

// CompareValues returns -1, 0, or 1.
func CompareValues(a, b any) (int, error) {
	ai, aIsInt := AsInt(a)
	bi, bIsInt := AsInt(b)
	if aIsInt && bIsInt {
		return cmpInt(ai, bi), nil
	}

	af, aNum := AsFloat(a)
	bf, bNum := AsFloat(b)
	if aNum && bNum {
		if af < bf {
			return -1, nil
		}
		if af > bf {
			return 1, nil
		}
		return 0, nil
	}

	if as, ok := a.(string); ok {
		bs, ok := b.(string)
		if !ok {
			return 0, orderErr(a, b)
		}
		if as < bs {
			return -1, nil
		}
		if as > bs {
			return 1, nil
		}
		return 0, nil
	}

	if av, ok := a.([]any); ok {
		bv, ok := b.([]any)
		if !ok {
			return 0, orderErr(a, b)
		}
		for i := 0; i < len(av) && i < len(bv); i++ {
			c, err := CompareValues(av[i], bv[i])
			if err != nil {
				return 0, err
			}
			if c != 0 {
				return c, nil
			}
		}
		return cmpInt(int64(len(av)), int64(len(bv))), nil
	}

	return 0, orderErr(a, b)
}

// CompareTuples orders two key tuples lexicographically by element order.
func CompareTuples(a, b Tuple) (int, error) {
	for i := 0; i < len(a) && i < len(b); i++ {
		c, err := CompareValues(a[i], b[i])
		if err != nil {
			return 0, err
		}
		if c != 0 {
			return c, nil
		}
	}
	return cmpInt(int64(len(a)), int64(len(b))), nil
}

// TuplesEqual is the grouping predicate. Unlike ordering, cross-kind pairs
// are simply unequal here, never an error.
func TuplesEqual(a, b Tuple) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !valuesEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func valuesEqual(a, b any) bool {
	if af, ok := AsFloat(a); ok {
		bf, bok := AsFloat(b)
		return bok && af == bf
	}
	if as, ok := a.(string); ok {
		bs, bok := b.(string)
		return bok && as == bs
	}
	if av, ok := a.([]any); ok {
		bv, bok := b.([]any)
		if !bok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !valuesEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// AsInt reports whether v is one of the integer kinds.
func AsInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}

// AsFloat reports whether v is any numeric kind, widened to float64.
func AsFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func cmpInt(a, b int64) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

func orderErr(a, b any) error {
	return fmt.Errorf("cannot order %T against %T: %w", a, b, ErrNonOrderable)
}
