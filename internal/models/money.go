package models

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ToDecimal128 converts an exact decimal amount into the BSON representation
// used for every money field. Amounts are normalized to two fraction digits so
// stored values compare byte-for-byte.
func ToDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	parsed, err := primitive.ParseDecimal128(d.StringFixed(2))
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("encode decimal %q: %w", d.String(), err)
	}
	return parsed, nil
}

// FromDecimal128 decodes a stored money field back into a decimal for
// arithmetic. Stored values are always written by ToDecimal128, so a decode
// failure means the document was tampered with out of band.
func FromDecimal128(d primitive.Decimal128) (decimal.Decimal, error) {
	parsed, err := decimal.NewFromString(d.String())
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("decode decimal %q: %w", d.String(), err)
	}
	return parsed, nil
}
