// Package joiners provides the four sort-merge join strategies. The
// matched-pair combination is shared; strategies differ only in what an
// unmatched (one side empty) call emits.
package joiners

import "github.com/rowflow/rowflow/row"

const (
	DefaultLeftSuffix  = "_1"
	DefaultRightSuffix = "_2"
)

// suffixes rename columns present on both sides (excluding join keys) so the
// matched output keeps both values without collision.
type suffixes struct {
	left  string
	right string
}

func defaultSuffixes() suffixes {
	return suffixes{left: DefaultLeftSuffix, right: DefaultRightSuffix}
}

// combine emits the full cross product of left-group rows and right-group
// rows. Per pair: left-only columns pass through, right-only columns pass
// through, join-key columns come from the left row, and any other column on
// both sides is kept twice under the suffixed names.
func (s suffixes) combine(keyCols []string, left, right []row.Row) []row.Row {
	keySet := make(map[string]bool, len(keyCols))
	for _, k := range keyCols {
		keySet[k] = true
	}

	out := make([]row.Row, 0, len(left)*len(right))
	for _, lr := range left {
		for _, rr := range right {
			nr := make(row.Row, len(lr)+len(rr))
			for col, v := range lr {
				if _, shared := rr[col]; shared && !keySet[col] {
					nr[col+s.left] = v
				} else {
					nr[col] = v
				}
			}
			for col, v := range rr {
				if _, shared := lr[col]; shared {
					if keySet[col] {
						continue
					}
					nr[col+s.right] = v
				} else {
					nr[col] = v
				}
			}
			out = append(out, nr)
		}
	}
	return out
}

type Inner struct {
	sfx suffixes
}

func NewInner() Inner {
	return Inner{sfx: defaultSuffixes()}
}

func NewInnerSuffixed(left, right string) Inner {
	return Inner{sfx: suffixes{left: left, right: right}}
}

func (j Inner) Join(keyCols []string, left, right []row.Row) ([]row.Row, error) {
	if len(left) == 0 || len(right) == 0 {
		return nil, nil
	}
	return j.sfx.combine(keyCols, left, right), nil
}

type Left struct {
	sfx suffixes
}

func NewLeft() Left {
	return Left{sfx: defaultSuffixes()}
}

func NewLeftSuffixed(left, right string) Left {
	return Left{sfx: suffixes{left: left, right: right}}
}

func (j Left) Join(keyCols []string, left, right []row.Row) ([]row.Row, error) {
	if len(left) == 0 {
		return nil, nil
	}
	if len(right) == 0 {
		return left, nil
	}
	return j.sfx.combine(keyCols, left, right), nil
}

type Right struct {
	sfx suffixes
}

func NewRight() Right {
	return Right{sfx: defaultSuffixes()}
}

func NewRightSuffixed(left, right string) Right {
	return Right{sfx: suffixes{left: left, right: right}}
}

func (j Right) Join(keyCols []string, left, right []row.Row) ([]row.Row, error) {
	if len(right) == 0 {
		return nil, nil
	}
	if len(left) == 0 {
		return right, nil
	}
	return j.sfx.combine(keyCols, left, right), nil
}

type Outer struct {
	sfx suffixes
}

func NewOuter() Outer {
	return Outer{sfx: defaultSuffixes()}
}

func NewOuterSuffixed(left, right string) Outer {
	return Outer{sfx: suffixes{left: left, right: right}}
}

func (j Outer) Join(keyCols []string, left, right []row.Row) ([]row.Row, error) {
	if len(left) == 0 {
		return right, nil
	}
	if len(right) == 0 {
		return left, nil
	}
	return j.sfx.combine(keyCols, left, right), nil
}
