package contracts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Money is an amount that clients may send as 1200, "1200" or "$1,200.00"
type Money float64

// ParseMoney strips currency symbols, thousands separators and spaces
func ParseMoney(s string) (float64, error) {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return 0, fmt.Errorf("%w: empty amount", ErrInvalidInput)
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: amount %q", ErrInvalidInput, s)
	}
	return v, nil
}

// UnmarshalJSON accepts a JSON number or a formatted string
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			return nil
		}
		v, err := ParseMoney(s)
		if err != nil {
			return err
		}
		*m = Money(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("%w: amount must be a number", ErrInvalidInput)
	}
	*m = Money(v)
	return nil
}

// Ptr returns nil for a zero amount
func (m Money) Ptr() *float64 {
	if m == 0 {
		return nil
	}
	v := float64(m)
	return &v
}
