package formula

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"fjacquet/fillcash/internal/dateutils"
)

// Evaluate computes every balance cell of the sheet from its formula text.
// Only the grammar produced by Generate is understood: number literals, cell
// references, '+', '-' and one level of parentheses. A formula may only refer
// to number cells or to balance cells of earlier rows.
func Evaluate(s *Sheet) ([]decimal.Decimal, error) {
	values := make(map[Ref]decimal.Decimal)
	out := make([]decimal.Decimal, 0, len(s.Rows))

	for i, row := range s.Rows {
		sheetRow := FirstDataRow + i
		found := false
		for col, c := range row {
			if c.Kind != CellFormula {
				continue
			}
			v, err := evalExpr(strings.TrimPrefix(c.Text, "="), func(ref Ref) (decimal.Decimal, error) {
				if v, ok := values[ref]; ok {
					return v, nil
				}
				target, err := s.cell(ref)
				if err != nil {
					return decimal.Zero, err
				}
				if target.Kind != CellNumber {
					return decimal.Zero, fmt.Errorf("%s refers to %s, which is not a known value", Ref{Col: col + 1, Row: sheetRow}, ref)
				}
				return target.Number, nil
			})
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", sheetRow, err)
			}
			values[Ref{Col: col + 1, Row: sheetRow}] = v
			out = append(out, v)
			found = true
		}
		if !found {
			return nil, fmt.Errorf("%w: row %d has no balance formula", ErrBrokenChain, sheetRow)
		}
	}
	return out, nil
}

func evalExpr(expr string, lookup func(Ref) (decimal.Decimal, error)) (decimal.Decimal, error) {
	total := decimal.Zero
	sign := decimal.NewFromInt(1)
	group := false
	groupSign := decimal.NewFromInt(1)
	groupTotal := decimal.Zero

	add := func(v decimal.Decimal) {
		if group {
			groupTotal = groupTotal.Add(sign.Mul(v))
		} else {
			total = total.Add(sign.Mul(v))
		}
		sign = decimal.NewFromInt(1)
	}

	for i := 0; i < len(expr); {
		ch := rune(expr[i])
		switch {
		case ch == '+':
			i++
		case ch == '-':
			sign = sign.Neg()
			i++
		case ch == '(':
			if group {
				return decimal.Zero, fmt.Errorf("nested parentheses in %q", expr)
			}
			group, groupSign, groupTotal = true, sign, decimal.Zero
			sign = decimal.NewFromInt(1)
			i++
		case ch == ')':
			if !group {
				return decimal.Zero, fmt.Errorf("unbalanced ')' in %q", expr)
			}
			total = total.Add(groupSign.Mul(groupTotal))
			group = false
			i++
		case unicode.IsDigit(ch) || ch == '.':
			j := i
			for j < len(expr) && (unicode.IsDigit(rune(expr[j])) || expr[j] == '.') {
				j++
			}
			v, err := decimal.NewFromString(expr[i:j])
			if err != nil {
				return decimal.Zero, fmt.Errorf("bad number in %q: %w", expr, err)
			}
			add(v)
			i = j
		case unicode.IsUpper(ch):
			j := i
			for j < len(expr) && (unicode.IsUpper(rune(expr[j])) || unicode.IsDigit(rune(expr[j]))) {
				j++
			}
			col, row, err := excelize.CellNameToCoordinates(expr[i:j])
			if err != nil {
				return decimal.Zero, fmt.Errorf("bad reference in %q: %w", expr, err)
			}
			v, err := lookup(Ref{Col: col, Row: row})
			if err != nil {
				return decimal.Zero, err
			}
			add(v)
			i = j
		default:
			return decimal.Zero, fmt.Errorf("unexpected %q in %q", ch, expr)
		}
	}
	if group {
		return decimal.Zero, fmt.Errorf("unbalanced '(' in %q", expr)
	}
	return total, nil
}

// Summary describes an evaluated balance chain.
type Summary struct {
	Closing     decimal.Decimal
	ClosingDate time.Time
	Lowest      decimal.Decimal
	LowestDate  time.Time
}

// Summarize evaluates the sheet and reports the closing and lowest balances.
func Summarize(s *Sheet) (Summary, error) {
	values, err := Evaluate(s)
	if err != nil {
		return Summary{}, err
	}
	if len(values) == 0 {
		return Summary{}, fmt.Errorf("%w: nothing to summarize", ErrBrokenChain)
	}

	var sum Summary
	for i, v := range values {
		d, err := dateutils.ParseDateString(s.Rows[i][0].Text)
		if err != nil {
			return Summary{}, fmt.Errorf("row %d: %w", FirstDataRow+i, err)
		}
		if i == 0 || v.LessThan(sum.Lowest) {
			sum.Lowest, sum.LowestDate = v, d
		}
		sum.Closing, sum.ClosingDate = v, d
	}
	return sum, nil
}
