package ops

import (
	"fmt"

	"github.com/reusee/tnl/values"
)

type Agg uint8

const (
	AggInvalid Agg = iota
	AggSum
	AggCount
	AggMin
	AggMax
	AggAvg
)

var aggNames = map[Agg]string{
	AggSum:   "sum",
	AggCount: "count",
	AggMin:   "min",
	AggMax:   "max",
	AggAvg:   "avg",
}

func (a Agg) String() string {
	if s, ok := aggNames[a]; ok {
		return s
	}
	return fmt.Sprintf("Agg(%d)", uint8(a))
}

func ParseAgg(name string) (Agg, bool) {
	for agg, s := range aggNames {
		if s == name {
			return agg, true
		}
	}
	return AggInvalid, false
}

// MayFail reports whether reducing can fail; only integer sums can overflow.
func (a Agg) MayFail() bool {
	return a == AggSum
}

func AggregateType(agg Agg, t values.Type) (values.Type, error) {
	switch agg {
	case AggCount:
		return values.TypeInt, nil
	case AggSum:
		if t == values.TypeNull {
			return values.TypeInt, nil
		}
		if t.IsNumeric() {
			return t, nil
		}
	case AggAvg:
		if t.IsNumeric() || t == values.TypeNull {
			return values.TypeFloat, nil
		}
	case AggMin, AggMax:
		if t == values.TypeNull {
			return values.TypeInt, nil
		}
		if t.IsNumeric() || t == values.TypeStr {
			return t, nil
		}
	}
	return values.TypeUnknown, fmt.Errorf("aggregate %s not defined on %s", agg, t)
}

// Reduce folds a column into one value. Nulls are skipped; an input without
// non-null values yields Null, except count which yields 0.
func Reduce(agg Agg, col *values.Column, t values.Type) (values.Value, error) {
	var (
		n      int64
		acc    values.Value
		intSum int64
		fltSum float64
	)
	for _, v := range col.Values {
		if v.IsNull() {
			continue
		}
		n++
		switch agg {

		case AggSum, AggAvg:
			switch v.Type {
			case values.TypeInt:
				if agg == AggSum && t == values.TypeInt {
					sum, err := intArithmetic(OpAdd, intSum, v.Int)
					if err != nil {
						return values.Null, err
					}
					intSum = sum
				} else {
					fltSum += float64(v.Int)
				}
			case values.TypeFloat:
				fltSum += v.Float
			default:
				return values.Null, ErrTypeMismatch
			}

		case AggMin, AggMax:
			if n == 1 {
				acc = v
				continue
			}
			c, ok := values.Compare(v, acc)
			if !ok {
				return values.Null, ErrTypeMismatch
			}
			if agg == AggMin && c < 0 || agg == AggMax && c > 0 {
				acc = v
			}

		}
	}

	switch agg {
	case AggCount:
		return values.Int(n), nil
	case AggSum:
		if n == 0 {
			return values.Null, nil
		}
		if t == values.TypeInt {
			return values.Int(intSum), nil
		}
		return values.Float(fltSum), nil
	case AggAvg:
		if n == 0 {
			return values.Null, nil
		}
		return values.Float(fltSum / float64(n)), nil
	case AggMin, AggMax:
		if n == 0 {
			return values.Null, nil
		}
		v, ok := acc.Convert(t)
		if !ok {
			return values.Null, ErrTypeMismatch
		}
		return v, nil
	}
	return values.Null, ErrTypeMismatch
}
