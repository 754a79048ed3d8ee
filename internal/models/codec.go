package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Amounts live in documents as plain numbers. Number converts a decimal for
// writing; decimalAt accepts whatever numeric shape the store hands back.

func Number(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func decimalAt(fields map[string]any, key string) decimal.Decimal {
	switch v := fields[key].(type) {
	case float64:
		return decimal.NewFromFloat(v)
	case float32:
		return decimal.NewFromFloat32(v)
	case int64:
		return decimal.NewFromInt(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case string:
		d, err := decimal.NewFromString(v)
		if err == nil {
			return d
		}
	}
	return decimal.Zero
}

func stringAt(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}

func timeAt(fields map[string]any, key string) time.Time {
	t, _ := fields[key].(time.Time)
	return t
}
