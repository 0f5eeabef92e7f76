package booking

import (
	"errors"

	"travel-booking/internal/domain/money"
)

var ErrPriceOverflow = errors.New("booking total is too large")

type PriceCalculator interface {
	CalculateTotal(unitPrice money.Money, occ Occupancy, stay DateRange) (money.Money, error)
}

// UnitPriceCalculator charges unit price per quantity per night (or day).
type UnitPriceCalculator struct{}

func NewUnitPriceCalculator() *UnitPriceCalculator {
	return &UnitPriceCalculator{}
}

func (UnitPriceCalculator) CalculateTotal(unitPrice money.Money, occ Occupancy, stay DateRange) (money.Money, error) {
	perUnit, err := unitPrice.Times(int64(occ.Quantity()))
	if err != nil {
		return money.Money{}, ErrPriceOverflow
	}
	total, err := perUnit.Times(int64(stay.Units()))
	if err != nil {
		return money.Money{}, ErrPriceOverflow
	}
	return total, nil
}
