package model

import (
	"fmt"
	"math"
)

// Cents is an amount of money in the smallest currency unit.
type Cents int64

// CentsFromFloat converts a decimal amount such as 49.99 into cents,
// rounding to the nearest cent.
func CentsFromFloat(v float64) Cents {
	return Cents(math.Round(v * 100))
}

// Float returns the amount as a decimal value.
func (c Cents) Float() float64 {
	return float64(c) / 100
}

// String renders the amount as "$49.99".
func (c Cents) String() string {
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s$%d.%02d", sign, c/100, c%100)
}
