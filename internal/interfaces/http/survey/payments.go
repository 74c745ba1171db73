package survey

import (
	"context"
	"net/http"

	"github.com/sngm3741/survey-services/api/internal/interfaces/http/common"
	"github.com/sngm3741/survey-services/api/internal/metrics"
	surveyapp "github.com/sngm3741/survey-services/api/internal/survey/application"
)

// paymentIntentHandler は price (ドル) をセント単位に変換し、カード決済の PaymentIntent を作成する。
func (h *Handler) paymentIntentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req paymentIntentRequest
		if err := common.DecodeAndValidate(r, &req); err != nil {
			common.WriteMessage(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		secret, err := h.payments.CreateIntent(ctx, req.Price)
		metrics.RecordPaymentIntent(err)
		if err != nil {
			common.WriteError(h.logger, w, r, "failed to create payment intent", err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]string{"clientSecret": secret})
	}
}

func (h *Handler) paymentCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req paymentRequest
		if err := common.DecodeAndValidate(r, &req); err != nil {
			common.WriteMessage(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		result, err := h.payments.Record(ctx, surveyapp.RecordPaymentCommand{
			Email:         req.Email,
			Name:          req.Name,
			Price:         req.Price,
			TransactionID: req.TransactionID,
			Date:          req.Date,
		})
		if err != nil {
			common.WriteError(h.logger, w, r, "failed to record payment", err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{
			"paymentResult": common.NewInsertResponse(result),
		})
	}
}

// paymentListHandler returns the caller's own payments only.
func (h *Handler) paymentListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, ok := h.selfOnly(w, r, "email")
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		payments, err := h.payments.ListByEmail(ctx, email)
		if err != nil {
			common.WriteInternalError(h.logger, w, r, "failed to list payments", err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, paymentsToResponse(payments))
	}
}
