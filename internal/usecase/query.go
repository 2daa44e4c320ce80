package usecase

import (
	"strings"
	"unicode/utf8"
)

// MinQueryLength is the shortest normalized query that reaches providers
const MinQueryLength = 2

// Barcode length bounds, UPC-E through GTIN-14
const (
	minBarcodeLength = 6
	maxBarcodeLength = 14
)

// NormalizeQuery trims and lower-cases raw. The result doubles as the cache key.
// ok is false when fewer than MinQueryLength characters remain.
func NormalizeQuery(raw string) (query string, ok bool) {
	query = strings.ToLower(strings.TrimSpace(raw))
	if utf8.RuneCountInString(query) < MinQueryLength {
		return "", false
	}
	return query, true
}

// NormalizeBarcode trims raw and checks that it is a plausible product code
func NormalizeBarcode(raw string) (code string, ok bool) {
	code = strings.TrimSpace(raw)
	if len(code) < minBarcodeLength || len(code) > maxBarcodeLength {
		return "", false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return "", false
		}
	}
	return code, true
}
