package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var dateLayouts = []string{dateLayout, "2/1/2006", "2006-01-02"}

// ParseDate reads a day in local time. An empty string is today.
func ParseDate(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid date %q, use dd/mm/yyyy", s)
}

// ParsePositive reads a decimal typed with either a comma or a dot.
func ParsePositive(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", "."))
	if err != nil {
		return decimal.Zero, errors.New("not a number")
	}

	if !d.IsPositive() {
		return decimal.Zero, errors.New("must be greater than zero")
	}

	return d, nil
}

func validDate(s string) error {
	_, err := ParseDate(s, time.Now())
	return err
}

func validPositive(s string) error {
	_, err := ParsePositive(s)
	return err
}
