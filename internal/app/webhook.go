package app

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/cinetix/cinema-booking/internal/domain"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// StripeWebhookHandler finalizes online payments. checkout.session.completed
// books the pending seats; an expired or failed checkout cancels them and
// frees the seats. Stripe retries on non-2xx, so processing failures return
// 500 and idempotency relies on the status guards in the repository updates.
func (app *Application) StripeWebhookHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 65536))
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	event, err := webhook.ConstructEvent(payload, r.Header.Get("Stripe-Signature"), app.config.Stripe.WebhookSecret)
	if err != nil {
		logger.Warn("webhook signature verification failed", "error", err)
		app.badRequestResponse(w, r, errors.New("invalid webhook signature"))
		return
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		app.handleCheckoutCompleted(w, r, event)
	case stripe.EventTypeCheckoutSessionExpired, stripe.EventTypeCheckoutSessionAsyncPaymentFailed:
		app.handleCheckoutFailed(w, r, event)
	default:
		logger.Info("ignoring unhandled webhook event", "type", event.Type)
		w.WriteHeader(http.StatusOK)
	}
}

func (app *Application) handleCheckoutCompleted(w http.ResponseWriter, r *http.Request, event stripe.Event) {
	logger := app.contextGetLogger(r)

	var checkoutSession stripe.CheckoutSession

	err := json.Unmarshal(event.Data.Raw, &checkoutSession)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.bookingRepo.CompleteBySessionID(r.Context(), checkoutSession.ID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			// Already completed by an earlier delivery, acknowledge it.
			logger.Info("webhook for an already finalized checkout session", "checkout_session_id", checkoutSession.ID)
			w.WriteHeader(http.StatusOK)
			return
		}

		app.serverErrorResponse(w, r, err)
		return
	}

	logger.Info("booking completed via checkout session", "checkout_session_id", checkoutSession.ID)

	w.WriteHeader(http.StatusOK)
}

func (app *Application) handleCheckoutFailed(w http.ResponseWriter, r *http.Request, event stripe.Event) {
	logger := app.contextGetLogger(r)

	var checkoutSession stripe.CheckoutSession

	err := json.Unmarshal(event.Data.Raw, &checkoutSession)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.bookingRepo.CancelBySessionID(r.Context(), checkoutSession.ID, string(event.Type))
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			logger.Info("webhook for an already finalized checkout session", "checkout_session_id", checkoutSession.ID)
			w.WriteHeader(http.StatusOK)
			return
		}

		app.serverErrorResponse(w, r, err)
		return
	}

	logger.Info("booking cancelled via checkout session", "checkout_session_id", checkoutSession.ID, "reason", event.Type)

	w.WriteHeader(http.StatusOK)
}
