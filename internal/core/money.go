// Package core defines the planning document: its record kinds, the
// canonical defaults, the pure key-replacement update and the JSON codec.
//
// This file contains parsing of user-entered amounts.
package core

import (
	"errors"
	"strconv"
	"strings"
)

var ErrInvalidAmount = errors.New("invalid amount")

// ParseAmountCents converts a decimal string to cents with half-up rounding
// on the third decimal place.
//
// Both dot (12.34) and comma (12,34) separators are accepted. Zero is a valid
// amount (a category may have nothing planned yet); signs are rejected, a
// minus sign with ErrNegativeAmount.
//
// Examples:
//
//	ParseAmountCents("12.34")  -> 1234, nil
//	ParseAmountCents("12,345") -> 1235, nil
//	ParseAmountCents("0")      -> 0, nil
func ParseAmountCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "-") {
		return 0, ErrNegativeAmount
	}
	if strings.HasPrefix(s, "+") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	// Only ASCII digits; the fraction is read byte by byte below.
	for _, r := range intPart + fracPart {
		if r < '0' || r > '9' {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	return iv*100 + fracCents, nil
}

// ParseAmount is ParseAmountCents expressed in currency units, the unit the
// document stores.
func ParseAmount(s string) (float64, error) {
	cents, err := ParseAmountCents(s)
	if err != nil {
		return 0, err
	}
	return float64(cents) / 100.0, nil
}
