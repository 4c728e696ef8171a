package currency

import (
	"math"
	"strings"
)

type Code string

const (
	USD Code = "usd"
	EUR Code = "euro"
)

// rates is read-only. A pair missing from it converts at rate 0, so an
// unknown pair yields 0 rather than an error.
var rates = map[Code]map[Code]float64{
	USD: {
		EUR: 0.98,
	},
}

// ParseCode lower-cases and trims s. Unknown codes are kept as-is: they are
// not an error, they simply have no rate.
func ParseCode(s string) Code {
	return Code(strings.ToLower(strings.TrimSpace(s)))
}

// Known reports whether c appears anywhere in the rate table.
func (c Code) Known() bool {
	if _, ok := rates[c]; ok {
		return true
	}
	for _, to := range rates {
		if _, ok := to[c]; ok {
			return true
		}
	}
	return false
}

// Rate returns the multiplier from one code to another, 0 when the pair is
// not in the table.
func Rate(from, to Code) float64 {
	return rates[from][to]
}

// Convert multiplies amount by the pair's rate and rounds the result to two
// decimals, half away from zero.
func Convert(amount float64, from, to Code) float64 {
	return round2(amount * Rate(from, to))
}

func round2(v float64) float64 {
	r := math.Round(v*100) / 100
	if r == 0 {
		return 0
	}
	return r
}

// Service exposes the converter to callers that take their collaborators
// by injection.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

func (s *Service) Rate(from, to Code) float64 {
	return Rate(from, to)
}

func (s *Service) Convert(amount float64, from, to Code) float64 {
	return Convert(amount, from, to)
}
