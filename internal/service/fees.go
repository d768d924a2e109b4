package service

import (
	"fmt"

	"github.com/fsdevblog/datalink/internal/domain"
	"github.com/shopspring/decimal"
)

// FeeCalculator вычисляет сумму к списанию для пополнения кошелька.
// Комиссия накидывается сверх нетто-суммы и округляется вверх до целой песевы.
// Тот же экземпляр используется при сверке с фактической суммой шлюза:
// клиентские числа никогда не принимаются на веру.
type FeeCalculator struct {
	rate     decimal.Decimal
	minTopup int64
}

func NewFeeCalculator(rate float64, minTopup int64) *FeeCalculator {
	return &FeeCalculator{
		rate:     decimal.NewFromFloat(rate),
		minTopup: minTopup,
	}
}

// ChargeFor возвращает полную сумму списания для нетто-пополнения net (в песевах).
// net меньше минимального порога отклоняется с domain.ErrAmountOutOfRange.
func (f *FeeCalculator) ChargeFor(net int64) (int64, error) {
	if net < f.minTopup {
		return 0, fmt.Errorf("topup amount %d below minimum %d: %w", net, f.minTopup, domain.ErrAmountOutOfRange)
	}
	return f.GrossCharge(net), nil
}

// GrossCharge возвращает полную сумму с комиссией без проверки минимального
// порога. Порог действует только на пополнения кошелька, покупки пакетов
// сверяются по цене каталога любого размера.
func (f *FeeCalculator) GrossCharge(net int64) int64 {
	return decimal.NewFromInt(net).
		Mul(f.rate.Add(decimal.NewFromInt(1))).
		Ceil().
		IntPart()
}

// FeeFor возвращает размер комиссии для нетто-суммы net.
func (f *FeeCalculator) FeeFor(net int64) (int64, error) {
	charge, err := f.ChargeFor(net)
	if err != nil {
		return 0, err
	}
	return charge - net, nil
}
