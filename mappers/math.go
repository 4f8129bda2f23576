package mappers

import (
	"errors"
	"math"

	"github.com/rowflow/rowflow/row"
)

var ErrDivisionByZero = errors.New("division by zero")

// Divide writes one column divided by another into a result column.
type Divide struct {
	numerator   string
	denominator string
	result      string
}

func NewDivide(numerator, denominator, result string) Divide {
	return Divide{numerator: numerator, denominator: denominator, result: result}
}

func (m Divide) Map(r row.Row) ([]row.Row, error) {
	num, err := numberCol(r, m.numerator)
	if err != nil {
		return nil, err
	}
	den, err := numberCol(r, m.denominator)
	if err != nil {
		return nil, err
	}
	if den == 0 {
		return nil, ErrDivisionByZero
	}
	nr := row.Copy(r)
	nr[m.result] = num / den
	return []row.Row{nr}, nil
}

// Log writes the natural logarithm of a column into a result column.
type Log struct {
	arg    string
	result string
}

func NewLog(arg, result string) Log {
	return Log{arg: arg, result: result}
}

func (m Log) Map(r row.Row) ([]row.Row, error) {
	v, err := numberCol(r, m.arg)
	if err != nil {
		return nil, err
	}
	nr := row.Copy(r)
	nr[m.result] = math.Log(v)
	return []row.Row{nr}, nil
}

// Product multiplies columns together. The result stays an integer while
// every operand is one.
type Product struct {
	columns []string
	result  string
}

func NewProduct(result string, columns ...string) Product {
	return Product{columns: columns, result: result}
}

func (m Product) Map(r row.Row) ([]row.Row, error) {
	intProd := int64(1)
	floatProd := 1.0
	allInts := true
	for _, col := range m.columns {
		f, err := numberCol(r, col)
		if err != nil {
			return nil, err
		}
		if i, isInt := row.AsInt(r[col]); isInt {
			intProd *= i
		} else {
			allInts = false
		}
		floatProd *= f
	}

	nr := row.Copy(r)
	if allInts {
		nr[m.result] = intProd
	} else {
		nr[m.result] = floatProd
	}
	return []row.Row{nr}, nil
}
