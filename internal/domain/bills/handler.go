package bills

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/medicore/billing/internal/platform/httperr"
	"github.com/medicore/billing/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("", h.GenerateBill)
	api.POST("/cancel", h.CancelAppointment)
	api.GET("", h.ListBills)
	api.GET("/:id", h.GetBill)
	api.GET("/appointment/:appointment_id", h.GetBillByAppointment)
	api.PUT("/:id/pay", h.MarkBillPaid)
}

// GenerateBillRequest is the body for POST /v1/bills.
type GenerateBillRequest struct {
	AppointmentID int64    `json:"appointment_id" validate:"required,gt=0"`
	PatientID     int64    `json:"patient_id" validate:"required,gt=0"`
	DoctorID      int64    `json:"doctor_id" validate:"required,gt=0"`
	Amount        float64  `json:"amount" validate:"required,gt=0"`
	BillType      BillType `json:"bill_type" validate:"omitempty,oneof=CONSULTATION NO_SHOW_FEE CANCELLATION_FEE"`
}

// CancelAppointmentRequest is the body for POST /v1/bills/cancel.
type CancelAppointmentRequest struct {
	AppointmentID int64        `json:"appointment_id" validate:"required,gt=0"`
	RefundPolicy  RefundPolicy `json:"refund_policy" validate:"required,oneof=FULL_REFUND PARTIAL_REFUND CANCELLATION_FEE NO_REFUND"`
}

func (h *Handler) GenerateBill(c echo.Context) error {
	var req GenerateBillRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.BillType == "" {
		req.BillType = BillTypeConsultation
	}

	bill, err := h.svc.Generate(c.Request().Context(), GenerateInput{
		AppointmentID: req.AppointmentID,
		PatientID:     req.PatientID,
		DoctorID:      req.DoctorID,
		Amount:        req.Amount,
		BillType:      req.BillType,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success":       true,
		"data":          bill,
		"correlationId": requestID(c),
	})
}

func (h *Handler) CancelAppointment(c echo.Context) error {
	var req CancelAppointmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.svc.Cancel(c.Request().Context(), req.AppointmentID, req.RefundPolicy)
	if err != nil {
		return err
	}

	if result.Acknowledged {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"success":       true,
			"message":       "Cancellation recorded, no bill to process",
			"refundPolicy":  req.RefundPolicy,
			"correlationId": requestID(c),
		})
	}

	body := map[string]interface{}{
		"success":       true,
		"data":          result.Bill,
		"correlationId": requestID(c),
	}
	if result.HasRefund {
		body["refundAmount"] = result.RefundAmount
	}
	return c.JSON(http.StatusOK, body)
}

// MarkPaidRequest is the body for PUT /v1/bills/:id/pay. The payment id is
// issued by the payment gateway and recorded against the transition.
type MarkPaidRequest struct {
	PaymentID int64 `json:"payment_id" validate:"required,gt=0"`
}

func (h *Handler) MarkBillPaid(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req MarkPaidRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	bill, err := h.svc.MarkPaid(c.Request().Context(), id, req.PaymentID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":       true,
		"data":          bill,
		"correlationId": requestID(c),
	})
}

func (h *Handler) GetBill(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	bill, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":       true,
		"data":          bill,
		"correlationId": requestID(c),
	})
}

func (h *Handler) GetBillByAppointment(c echo.Context) error {
	id, err := pathID(c, "appointment_id")
	if err != nil {
		return err
	}

	bill, err := h.svc.GetByAppointment(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":       true,
		"data":          bill,
		"correlationId": requestID(c),
	})
}

func (h *Handler) ListBills(c echo.Context) error {
	filter, err := listFilterFromQuery(c)
	if err != nil {
		return err
	}
	params := pagination.FromContext(c)

	items, total, err := h.svc.List(c.Request().Context(), filter, params.Limit, params.Offset())
	if err != nil {
		return err
	}
	if items == nil {
		items = []*Bill{}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":       true,
		"data":          items,
		"pagination":    pagination.NewMeta(params, total),
		"correlationId": requestID(c),
	})
}

func listFilterFromQuery(c echo.Context) (ListFilter, error) {
	var filter ListFilter
	if raw := c.QueryParam("patient_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return filter, httperr.Validation("patient_id must be a positive integer")
		}
		filter.PatientID = &id
	}
	if raw := c.QueryParam("status"); raw != "" {
		status := Status(raw)
		if !status.Valid() {
			return filter, httperr.Validation("status must be one of [OPEN PAID VOID REFUND]")
		}
		filter.Status = &status
	}
	return filter, nil
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, httperr.Validation(name + " must be a positive integer")
	}
	return id, nil
}

func requestID(c echo.Context) string {
	rid, _ := c.Get("request_id").(string)
	return rid
}
