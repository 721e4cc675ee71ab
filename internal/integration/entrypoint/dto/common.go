// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// ParseDate parses a YYYY-MM-DD date as UTC.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, value, time.UTC)
}

// ParseMonth parses a YYYY-MM month, or any YYYY-MM-DD date within it, as UTC.
func ParseMonth(value string) (time.Time, error) {
	if t, err := time.ParseInLocation(monthLayout, value, time.UTC); err == nil {
		return t, nil
	}
	return time.ParseInLocation(dateLayout, value, time.UTC)
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func moneySeries(values []decimal.Decimal) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = money(v)
	}
	return out
}
