package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Largest cent value that still round-trips through a float64 exactly.
const maxCents = 1 << 53

var ErrInvalidAmount = errors.New("invalid amount")

type Key string

const (
	CorrelationIdKey Key = "correlationId"
)

// Amount is a money value in cents. It is always rendered with two decimals.
type Amount int64

func AmountFromFloat(v float64) Amount {
	cents := math.Round(v * 100)
	if cents > maxCents {
		cents = maxCents
	}
	if cents < -maxCents {
		cents = -maxCents
	}

	return Amount(cents)
}

func (a Amount) Float() float64 {
	return float64(a) / 100
}

func (a Amount) String() string {
	cents := int64(a)
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		text = string(data)
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, string(data))
	}

	*a = AmountFromFloat(v)
	return nil
}

// AmountText is a decimal as typed by the agent. It may be blank or not a
// number at all. JSON strings, numbers and null are accepted.
type AmountText string

func (t *AmountText) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))

	switch {
	case trimmed == "null":
		*t = ""
	case strings.HasPrefix(trimmed, `"`):
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*t = AmountText(text)
	default:
		var number json.Number
		if err := json.Unmarshal(data, &number); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidAmount, trimmed)
		}
		*t = AmountText(number.String())
	}

	return nil
}

type PaymentType string

const (
	PaymentTypePrepaid      PaymentType = "prepaid"
	PaymentTypePayAtCounter PaymentType = "pay_at_counter"
)

func (p PaymentType) Valid() bool {
	return p == PaymentTypePrepaid || p == PaymentTypePayAtCounter
}

// OrDefault falls back to prepaid for a blank selection.
func (p PaymentType) OrDefault() PaymentType {
	if p == "" {
		return PaymentTypePrepaid
	}

	return p
}
