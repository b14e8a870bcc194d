package controllers

import (
	"net/http"
	"strings"

	"github.com/atelierhq/atelier-backend/api/responses"
	"github.com/atelierhq/atelier-backend/api/validators"
	"github.com/atelierhq/atelier-backend/internal/pricing"
	"github.com/atelierhq/atelier-backend/pkg/enums"
	pkgerrors "github.com/atelierhq/atelier-backend/pkg/errors"
	"github.com/atelierhq/atelier-backend/pkg/logger"
)

// PricingCalculate recomputes a full price snapshot from one edited field.
// The calculator itself never fails; only malformed requests are rejected.
func PricingCalculate(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload calculateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, pricing.Calculate(input))
	}
}

type calculateRequest struct {
	Field string `json:"field" validate:"required"`
	Value string `json:"value"`

	TVAMode       string `json:"tva_mode,omitempty"`
	TVARate       string `json:"tva_rate,omitempty"`
	MarginPercent string `json:"margin_percent,omitempty"`
	ShippingCost  string `json:"shipping_cost,omitempty"`
	CostHT        string `json:"cost_ht,omitempty"`
}

func (r calculateRequest) toInput() (pricing.Input, error) {
	field, err := pricing.ParseField(strings.TrimSpace(r.Field))
	if err != nil {
		return pricing.Input{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid field")
	}

	mode := enums.TVAModeStandard
	if trimmed := strings.TrimSpace(r.TVAMode); trimmed != "" {
		parsed, err := enums.ParseTVAMode(trimmed)
		if err != nil {
			return pricing.Input{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid tva mode")
		}
		mode = parsed
	}

	value, err := parseDecimalField(r.Value, "value")
	if err != nil {
		return pricing.Input{}, err
	}
	rate, err := parseDecimalField(r.TVARate, "tva_rate")
	if err != nil {
		return pricing.Input{}, err
	}
	margin, err := parseDecimalField(r.MarginPercent, "margin_percent")
	if err != nil {
		return pricing.Input{}, err
	}
	shipping, err := parseDecimalField(r.ShippingCost, "shipping_cost")
	if err != nil {
		return pricing.Input{}, err
	}
	costHT, err := parseDecimalField(r.CostHT, "cost_ht")
	if err != nil {
		return pricing.Input{}, err
	}

	return pricing.Input{
		Field:         field,
		Value:         value,
		Mode:          mode,
		TVARate:       rate,
		MarginPercent: margin,
		ShippingCost:  shipping,
		CostHT:        costHT,
	}, nil
}
