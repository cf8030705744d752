package payroll

import (
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// Simplified statutory rates; an estimate, not a certified table.
var (
	pensionRate      = decimal.RequireFromString("0.045")
	healthRate       = decimal.RequireFromString("0.03545")
	longTermCareRate = decimal.RequireFromString("0.1295") // of the health component
	employmentRate   = decimal.RequireFromString("0.009")
	flatTaxRate      = decimal.RequireFromString("0.033")
	localTaxRate     = decimal.RequireFromString("0.1")
)

type taxBracket struct {
	over decimal.Decimal
	base decimal.Decimal
	rate decimal.Decimal
}

// incomeTaxBrackets descend so the first bracket whose floor gross exceeds applies.
var incomeTaxBrackets = []taxBracket{
	{over: decimal.NewFromInt(5_000_000), base: decimal.NewFromInt(173_600), rate: decimal.RequireFromString("0.08")},
	{over: decimal.NewFromInt(3_160_000), base: decimal.NewFromInt(63_200), rate: decimal.RequireFromString("0.06")},
	{over: decimal.NewFromInt(2_100_000), base: decimal.NewFromInt(20_800), rate: decimal.RequireFromString("0.04")},
	{over: decimal.NewFromInt(1_060_000), base: decimal.Zero, rate: decimal.RequireFromString("0.02")},
}

func deductionsFor(category employee.EmploymentCategory, gross decimal.Decimal) payroll.Deductions {
	d := payroll.Deductions{
		Pension:      decimal.Zero,
		Health:       decimal.Zero,
		LongTermCare: decimal.Zero,
		Employment:   decimal.Zero,
		Insurance:    decimal.Zero,
		IncomeTax:    decimal.Zero,
		LocalTax:     decimal.Zero,
		Tax:          decimal.Zero,
		Total:        decimal.Zero,
	}
	if !gross.IsPositive() {
		return d
	}

	switch category {
	case employee.CategoryWageEarner:
		d.Pension = round(gross.Mul(pensionRate))
		d.Health = round(gross.Mul(healthRate))
		d.LongTermCare = round(d.Health.Mul(longTermCareRate))
		d.Employment = round(gross.Mul(employmentRate))
		d.Insurance = d.Pension.Add(d.Health).Add(d.LongTermCare).Add(d.Employment)

		d.IncomeTax = incomeTax(gross)
		d.LocalTax = round(d.IncomeTax.Mul(localTaxRate))
		d.Tax = d.IncomeTax.Add(d.LocalTax)
	case employee.CategoryBusinessIncome, employee.CategoryForeignWorker:
		d.Tax = round(gross.Mul(flatTaxRate))
	case employee.CategoryDailyWorker:
		// no withholding
	}

	d.Total = d.Insurance.Add(d.Tax)
	return d
}

func incomeTax(gross decimal.Decimal) decimal.Decimal {
	for _, b := range incomeTaxBrackets {
		if gross.GreaterThan(b.over) {
			return round(b.base.Add(gross.Sub(b.over).Mul(b.rate)))
		}
	}
	return decimal.Zero
}
