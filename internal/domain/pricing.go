package domain

import "github.com/shopspring/decimal"

var minutesPerHour = decimal.NewFromInt(60)

// CalculateTotal basePrice + hourlyRate * durationMinutes/60, округление до копеек.
// Считается один раз при создании бронирования.
func CalculateTotal(basePrice, hourlyRate decimal.Decimal, durationMinutes int) decimal.Decimal {
	hours := decimal.NewFromInt(int64(durationMinutes)).Div(minutesPerHour)
	return basePrice.Add(hourlyRate.Mul(hours)).Round(2)
}
