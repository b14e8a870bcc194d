package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/atelierhq/atelier-backend/api/responses"
	"github.com/atelierhq/atelier-backend/api/validators"
	repairsvc "github.com/atelierhq/atelier-backend/internal/repairs"
	"github.com/atelierhq/atelier-backend/pkg/enums"
	pkgerrors "github.com/atelierhq/atelier-backend/pkg/errors"
	"github.com/atelierhq/atelier-backend/pkg/logger"
)

// RepairCreate opens a ticket, registering the customer and device on the
// way in when they are new.
func RepairCreate(svc repairsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createRepairRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		repair, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, repair)
	}
}

func RepairDetail(svc repairsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "repairId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		repair, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, repair)
	}
}

// RepairList serves the active board; archived tickets live behind the
// archived flag so the default view stays short.
func RepairList(svc repairsvc.Service, logg *logger.Logger, archived bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := repairsvc.Filters{Archived: archived}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, parseErr := enums.ParseRepairStatus(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid status"))
				return
			}
			filters.Status = &status
		}

		list, err := svc.List(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

func RepairSetStatus(svc repairsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "repairId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseRepairStatus(strings.TrimSpace(payload.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		repair, err := svc.SetStatus(r.Context(), id, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, repair)
	}
}

// RepairAdvance bumps the ticket to the next lifecycle step without the
// caller naming a status.
func RepairAdvance(svc repairsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "repairId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		repair, err := svc.Advance(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, repair)
	}
}

func RepairCancel(svc repairsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "repairId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cancelRepairRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		repair, err := svc.Cancel(r.Context(), id, strings.TrimSpace(payload.Reason))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, repair)
	}
}

func RepairArchive(svc repairsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "repairId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		repair, err := svc.Archive(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, repair)
	}
}

func RepairUnarchive(svc repairsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "repairId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		repair, err := svc.Unarchive(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, repair)
	}
}

func RepairUpdateDescription(svc repairsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "repairId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateDescriptionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		repair, err := svc.UpdateDescription(r.Context(), id, strings.TrimSpace(payload.Description))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, repair)
	}
}

// RepairUpdateCost stores the quoted price, typically the priceTTC of a
// calculator snapshot.
func RepairUpdateCost(svc repairsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "repairId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateCostRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cost, err := parseDecimalField(payload.EstimatedCost, "estimated_cost")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		repair, err := svc.UpdateCost(r.Context(), id, cost)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, repair)
	}
}

func RepairAttachDiagnostic(svc repairsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "repairId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload attachDiagnosticRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		diagnostic, err := svc.AttachDiagnostic(r.Context(), id, payload.Payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, diagnostic)
	}
}

func RepairAddPart(svc repairsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		repairID, err := parseIDParam(r, "repairId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addPartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := parseUUIDField(payload.InventoryItemID, "inventory_item_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		part, err := svc.AddPart(r.Context(), repairID, itemID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, part)
	}
}

func RepairRemovePart(svc repairsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		repairID, err := parseIDParam(r, "repairId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		partID, err := parseIDParam(r, "partId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RemovePart(r.Context(), repairID, partID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}

func RepairDelete(svc repairsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "repairId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func RepairAddMedia(svc repairsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		repairID, err := parseIDParam(r, "repairId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addMediaRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		kind, err := enums.ParseMediaKind(strings.TrimSpace(payload.Kind))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid media kind"))
			return
		}

		media, err := svc.AddMedia(r.Context(), repairID, strings.TrimSpace(payload.URL), kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, media)
	}
}

func RepairDeleteMedia(svc repairsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		repairID, err := parseIDParam(r, "repairId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		mediaID, err := parseIDParam(r, "mediaId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteMedia(r.Context(), repairID, mediaID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func RepairSendMessage(svc repairsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		repairID, err := parseIDParam(r, "repairId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload sendMessageRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sender, err := enums.ParseMessageSender(strings.TrimSpace(payload.Sender))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sender"))
			return
		}

		message, err := svc.SendMessage(r.Context(), repairID, sender, payload.Content)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, message)
	}
}

type createRepairRequest struct {
	Customer    repairCustomerRequest `json:"customer" validate:"required"`
	Device      repairDeviceRequest   `json:"device" validate:"required"`
	Description string                `json:"description" validate:"required"`

	EstimatedCost *string         `json:"estimated_cost,omitempty"`
	Diagnostic    json.RawMessage `json:"diagnostic,omitempty"`
}

type repairCustomerRequest struct {
	FirstName string  `json:"first_name" validate:"required"`
	LastName  string  `json:"last_name" validate:"required"`
	Phone     string  `json:"phone" validate:"required"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
}

type repairDeviceRequest struct {
	Brand        string  `json:"brand" validate:"required"`
	Model        string  `json:"model" validate:"required"`
	SerialNumber *string `json:"serial_number,omitempty"`
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type cancelRepairRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type updateDescriptionRequest struct {
	Description string `json:"description" validate:"required"`
}

type updateCostRequest struct {
	EstimatedCost string `json:"estimated_cost" validate:"required"`
}

type attachDiagnosticRequest struct {
	Payload json.RawMessage `json:"payload" validate:"required"`
}

type addPartRequest struct {
	InventoryItemID string `json:"inventory_item_id" validate:"required"`
	Quantity        int    `json:"quantity" validate:"required,min=1"`
}

type addMediaRequest struct {
	URL  string `json:"url" validate:"required,url"`
	Kind string `json:"kind" validate:"required"`
}

type sendMessageRequest struct {
	Sender  string `json:"sender" validate:"required"`
	Content string `json:"content" validate:"required"`
}

func (r createRepairRequest) toInput() (repairsvc.CreateRepairInput, error) {
	cost, err := parseOptionalDecimal(r.EstimatedCost, "estimated_cost")
	if err != nil {
		return repairsvc.CreateRepairInput{}, err
	}

	return repairsvc.CreateRepairInput{
		Customer: repairsvc.CustomerInput{
			FirstName: strings.TrimSpace(r.Customer.FirstName),
			LastName:  strings.TrimSpace(r.Customer.LastName),
			Phone:     strings.TrimSpace(r.Customer.Phone),
			Email:     r.Customer.Email,
		},
		Device: repairsvc.DeviceInput{
			Brand:        strings.TrimSpace(r.Device.Brand),
			Model:        strings.TrimSpace(r.Device.Model),
			SerialNumber: r.Device.SerialNumber,
		},
		Description:   strings.TrimSpace(r.Description),
		EstimatedCost: cost,
		Diagnostic:    r.Diagnostic,
	}, nil
}
