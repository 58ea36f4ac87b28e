package records

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/coopcontrol/internal/domain/models"
)

var dateLayouts = []string{
	models.DateLayout,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

func parseDate(value interface{}) (time.Time, error) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, errors.New("empty date")
	case time.Time:
		return models.Day(v), nil
	}

	str := strings.TrimSpace(fmt.Sprint(value))
	if str == "" {
		return time.Time{}, errors.New("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, str); err == nil {
			return models.Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", str)
}

// parseInt accepts whole numbers in any cell representation. Blank cells are zero.
func parseInt(value interface{}) (int, error) {
	switch v := value.(type) {
	case nil:
		return 0, nil
	case int:
		return v, nil
	case int64:
		if v < math.MinInt || v > math.MaxInt {
			return 0, fmt.Errorf("%d is out of range", v)
		}
		return int(v), nil
	case float64:
		return wholeNumber(v, fmt.Sprint(v))
	}

	str := strings.ReplaceAll(strings.TrimSpace(fmt.Sprint(value)), ",", "")
	if str == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(str); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", str)
	}
	return wholeNumber(f, str)
}

// wholeNumber converts f when it is integral and fits in an int.
func wholeNumber(f float64, raw string) (int, error) {
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%q is not a whole number", raw)
	}
	// float64(math.MaxInt) rounds up to 2^63, hence >=.
	if f < math.MinInt || f >= math.MaxInt {
		return 0, fmt.Errorf("%q is out of range", raw)
	}
	return int(f), nil
}

// parseMoney accepts plain and currency-formatted amounts. Blank cells are zero.
func parseMoney(value interface{}) (decimal.Decimal, error) {
	switch v := value.(type) {
	case nil:
		return decimal.Zero, nil
	case decimal.Decimal:
		return v, nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	}

	raw := strings.TrimSpace(fmt.Sprint(value))
	str, negative := raw, false
	if strings.HasPrefix(str, "(") && strings.HasSuffix(str, ")") {
		str, negative = str[1:len(str)-1], true
	}
	if strings.HasPrefix(str, "-") {
		str, negative = str[1:], !negative
	}
	str = strings.TrimPrefix(str, "$")
	str = strings.ReplaceAll(str, ",", "")
	if str == "" {
		if negative {
			return decimal.Zero, fmt.Errorf("%q is not an amount", raw)
		}
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(str)
	if err != nil || strings.HasPrefix(str, "-") || strings.HasPrefix(str, "+") {
		return decimal.Zero, fmt.Errorf("%q is not an amount", raw)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

func parseText(value interface{}) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(value))
}
