// Package pricing implements the workshop's bidirectional price calculator.
//
// Nine interdependent quantities (costHT, costTTC, priceHT, priceTTC,
// marginPercent, marginHT, marginTTC, shippingCost, totalAmount) are kept
// consistent by recomputing all of them from whichever field was edited
// last. Every intermediate result is rounded to 2 decimal places, so
// chaining transforms is not bit-exact: deriving priceTTC from costHT and
// then costHT back from that priceTTC can differ by a cent. That lossiness
// is intentional and matches how the workshop has always quoted prices.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/atelierhq/atelier-backend/pkg/enums"
)

// Field names the input the user edited last.
type Field string

const (
	FieldCostHT        Field = "cost_ht"
	FieldCostTTC       Field = "cost_ttc"
	FieldPriceHT       Field = "price_ht"
	FieldPriceTTC      Field = "price_ttc"
	FieldMarginPercent Field = "margin_percent"
	FieldMarginHT      Field = "margin_ht"
	FieldMarginTTC     Field = "margin_ttc"
	FieldShippingCost  Field = "shipping_cost"
	FieldTVARate       Field = "tva_rate"
)

var validFields = []Field{
	FieldCostHT,
	FieldCostTTC,
	FieldPriceHT,
	FieldPriceTTC,
	FieldMarginPercent,
	FieldMarginHT,
	FieldMarginTTC,
	FieldShippingCost,
	FieldTVARate,
}

// ParseField converts raw input into a Field.
func ParseField(value string) (Field, error) {
	for _, candidate := range validFields {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid calculator field %q", value)
}

// Input is one edit against the calculator: the edited field, its new
// value, and the held state the other fields derive from. Absent values
// are zero.
type Input struct {
	Field Field
	Value decimal.Decimal

	Mode          enums.TVAMode
	TVARate       decimal.Decimal
	MarginPercent decimal.Decimal
	ShippingCost  decimal.Decimal
	CostHT        decimal.Decimal
}

// Snapshot is the full, mutually consistent result of one calculation.
type Snapshot struct {
	CostHT        decimal.Decimal `json:"cost_ht"`
	CostTTC       decimal.Decimal `json:"cost_ttc"`
	PriceHT       decimal.Decimal `json:"price_ht"`
	PriceTTC      decimal.Decimal `json:"price_ttc"`
	MarginPercent decimal.Decimal `json:"margin_percent"`
	MarginHT      decimal.Decimal `json:"margin_ht"`
	MarginTTC     decimal.Decimal `json:"margin_ttc"`
	ShippingCost  decimal.Decimal `json:"shipping_cost"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	TVAAmount     decimal.Decimal `json:"tva_amount"`
	TVARate       decimal.Decimal `json:"tva_rate"`
	Mode          enums.TVAMode   `json:"tva_mode"`
}

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Calculate recomputes every dependent quantity from the edited field.
// It never fails: any non-positive denominator degrades to an all-zero
// snapshot instead of propagating NaN or infinity.
func Calculate(in Input) Snapshot {
	mode := in.Mode
	if !mode.IsValid() {
		mode = enums.TVAModeStandard
	}

	c := calc{
		mode:     mode,
		rate:     in.TVARate,
		rateF:    in.TVARate.Div(hundred),
		marginF:  in.MarginPercent.Div(hundred),
		shipping: in.ShippingCost,
	}

	switch in.Field {
	case FieldCostHT:
		return c.fromCostHT(in.Value)
	case FieldCostTTC:
		return c.fromCostTTC(in.Value)
	case FieldPriceHT:
		return c.fromPriceHT(in.Value)
	case FieldPriceTTC:
		return c.fromPriceTTC(in.Value)
	case FieldMarginPercent:
		c.marginF = in.Value.Div(hundred)
		return c.fromMarginPercent(in.CostHT, in.Value)
	case FieldMarginHT:
		return c.fromMarginHT(in.CostHT, in.Value)
	case FieldMarginTTC:
		return c.fromMarginTTC(in.CostHT, in.Value)
	case FieldShippingCost:
		c.shipping = in.Value
		return c.fromCostHT(in.CostHT)
	case FieldTVARate:
		c.rate = in.Value
		c.rateF = in.Value.Div(hundred)
		return c.fromCostHT(in.CostHT)
	default:
		return c.zero()
	}
}

type calc struct {
	mode     enums.TVAMode
	rate     decimal.Decimal
	rateF    decimal.Decimal
	marginF  decimal.Decimal
	shipping decimal.Decimal
}

// zero is the degraded result for invalid or non-positive inputs. The VAT
// settings survive so a later edit starts from the same configuration.
func (c calc) zero() Snapshot {
	return Snapshot{
		TVARate: c.rate,
		Mode:    c.mode,
	}
}

func (c calc) onePlusRate() decimal.Decimal {
	return one.Add(c.rateF)
}

func (c calc) onePlusMargin() decimal.Decimal {
	return one.Add(c.marginF)
}

func (c calc) fromCostHT(costHT decimal.Decimal) Snapshot {
	if !costHT.IsPositive() || !c.onePlusRate().IsPositive() {
		return c.zero()
	}

	costTTC := round2(costHT.Mul(c.onePlusRate()))
	priceHT := round2(costHT.Mul(c.onePlusMargin()))
	marginHT := round2(priceHT.Sub(costHT))

	return c.finish(costHT, costTTC, priceHT, marginHT, round2(c.marginF.Mul(hundred)))
}

func (c calc) fromCostTTC(costTTC decimal.Decimal) Snapshot {
	if !costTTC.IsPositive() || !c.onePlusRate().IsPositive() {
		return c.zero()
	}

	costHT := round2(costTTC.Div(c.onePlusRate()))
	priceHT := round2(costHT.Mul(c.onePlusMargin()))
	marginHT := round2(priceHT.Sub(costHT))

	return c.finish(costHT, costTTC, priceHT, marginHT, round2(c.marginF.Mul(hundred)))
}

func (c calc) fromPriceHT(priceHT decimal.Decimal) Snapshot {
	if !priceHT.IsPositive() || !c.onePlusMargin().IsPositive() || !c.onePlusRate().IsPositive() {
		return c.zero()
	}

	costHT := round2(priceHT.Div(c.onePlusMargin()))
	costTTC := round2(costHT.Mul(c.onePlusRate()))
	marginHT := round2(priceHT.Sub(costHT))

	return c.finish(costHT, costTTC, priceHT, marginHT, round2(c.marginF.Mul(hundred)))
}

// fromPriceTTC solves the pricing equations backwards from the gross sale
// price. In margin mode the equation is circular (the VAT share depends on
// the margin, which depends on the cost, which depends on the target
// price), so it solves basePrice = costHT * (1 + margin*(1+rate)) for
// costHT, with basePrice = priceTTC - shippingCost.
func (c calc) fromPriceTTC(priceTTC decimal.Decimal) Snapshot {
	if !priceTTC.IsPositive() || !c.onePlusRate().IsPositive() {
		return c.zero()
	}

	if c.mode == enums.TVAModeMargin {
		denom := one.Add(c.marginF.Mul(c.onePlusRate()))
		if !denom.IsPositive() {
			return c.zero()
		}
		basePrice := round2(priceTTC.Sub(c.shipping))
		if !basePrice.IsPositive() {
			return c.zero()
		}
		costHT := round2(basePrice.Div(denom))
		costTTC := round2(costHT.Mul(c.onePlusRate()))
		marginHT := round2(costHT.Mul(c.marginF))
		tva := round2(marginHT.Mul(c.rateF))
		priceHT := round2(costHT.Add(marginHT))
		marginTTC := round2(priceTTC.Sub(costTTC))
		total := round2(priceTTC.Add(c.shipping))
		return Snapshot{
			CostHT:        costHT,
			CostTTC:       costTTC,
			PriceHT:       priceHT,
			PriceTTC:      priceTTC,
			MarginPercent: round2(c.marginF.Mul(hundred)),
			MarginHT:      marginHT,
			MarginTTC:     marginTTC,
			ShippingCost:  c.shipping,
			TotalAmount:   total,
			TVAAmount:     tva,
			TVARate:       c.rate,
			Mode:          c.mode,
		}
	}

	if !c.onePlusMargin().IsPositive() {
		return c.zero()
	}
	priceHT := round2(priceTTC.Div(c.onePlusRate()))
	costHT := round2(priceHT.Div(c.onePlusMargin()))
	costTTC := round2(costHT.Mul(c.onePlusRate()))
	marginHT := round2(priceHT.Sub(costHT))
	marginTTC := round2(priceTTC.Sub(costTTC))
	tva := round2(priceHT.Mul(c.rateF))
	total := round2(priceTTC.Add(c.shipping))
	return Snapshot{
		CostHT:        costHT,
		CostTTC:       costTTC,
		PriceHT:       priceHT,
		PriceTTC:      priceTTC,
		MarginPercent: round2(c.marginF.Mul(hundred)),
		MarginHT:      marginHT,
		MarginTTC:     marginTTC,
		ShippingCost:  c.shipping,
		TotalAmount:   total,
		TVAAmount:     tva,
		TVARate:       c.rate,
		Mode:          c.mode,
	}
}

func (c calc) fromMarginPercent(costHT, marginPercent decimal.Decimal) Snapshot {
	if !costHT.IsPositive() || !c.onePlusRate().IsPositive() {
		return c.zero()
	}

	costTTC := round2(costHT.Mul(c.onePlusRate()))
	priceHT := round2(costHT.Mul(c.onePlusMargin()))
	marginHT := round2(priceHT.Sub(costHT))

	return c.finish(costHT, costTTC, priceHT, marginHT, marginPercent)
}

func (c calc) fromMarginHT(costHT, marginHT decimal.Decimal) Snapshot {
	if !costHT.IsPositive() || !c.onePlusRate().IsPositive() {
		return c.zero()
	}

	costTTC := round2(costHT.Mul(c.onePlusRate()))
	priceHT := round2(costHT.Add(marginHT))
	marginPercent := round2(marginHT.Div(costHT).Mul(hundred))

	return c.finish(costHT, costTTC, priceHT, marginHT, marginPercent)
}

func (c calc) fromMarginTTC(costHT, marginTTC decimal.Decimal) Snapshot {
	if !costHT.IsPositive() || !c.onePlusRate().IsPositive() {
		return c.zero()
	}

	costTTC := round2(costHT.Mul(c.onePlusRate()))

	var priceHT, marginHT decimal.Decimal
	if c.mode == enums.TVAModeMargin {
		// marginTTC = marginHT*(1+rate) - costHT*rate, solved for marginHT.
		marginHT = round2(marginTTC.Add(costHT.Mul(c.rateF)).Div(c.onePlusRate()))
		priceHT = round2(costHT.Add(marginHT))
	} else {
		priceTTC := round2(costTTC.Add(marginTTC))
		priceHT = round2(priceTTC.Div(c.onePlusRate()))
		marginHT = round2(priceHT.Sub(costHT))
	}
	marginPercent := round2(marginHT.Div(costHT).Mul(hundred))

	return c.finish(costHT, costTTC, priceHT, marginHT, marginPercent)
}

// finish derives the gross side (priceTTC, VAT, marginTTC, total) from the
// net quantities according to the active VAT mode.
func (c calc) finish(costHT, costTTC, priceHT, marginHT, marginPercent decimal.Decimal) Snapshot {
	var priceTTC, tva decimal.Decimal
	if c.mode == enums.TVAModeMargin {
		tva = round2(marginHT.Mul(c.rateF))
		priceTTC = round2(costHT.Add(marginHT).Add(tva))
	} else {
		priceTTC = round2(priceHT.Mul(c.onePlusRate()))
		tva = round2(priceHT.Mul(c.rateF))
	}
	marginTTC := round2(priceTTC.Sub(costTTC))
	total := round2(priceTTC.Add(c.shipping))

	return Snapshot{
		CostHT:        costHT,
		CostTTC:       costTTC,
		PriceHT:       priceHT,
		PriceTTC:      priceTTC,
		MarginPercent: marginPercent,
		MarginHT:      marginHT,
		MarginTTC:     marginTTC,
		ShippingCost:  c.shipping,
		TotalAmount:   total,
		TVAAmount:     tva,
		TVARate:       c.rate,
		Mode:          c.mode,
	}
}
