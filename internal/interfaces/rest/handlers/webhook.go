package handlers

import (
	"io"
	"net/http"

	"github.com/demal-app/payments-service/internal/application"
	"github.com/demal-app/payments-service/internal/infrastructure/finik"
	"github.com/demal-app/payments-service/internal/interfaces/rest"
	"github.com/gin-gonic/gin"
)

// signatureHeaders is the lookup order for the provider signature. Finik
// has shipped the signature under different names across gateway versions.
var signatureHeaders = []string{"signature", "x-signature", "x-finik-signature"}

// FinikWebhook handles POST /payments/webhook/finik. The raw body must be
// verified byte-for-byte before any parsing, so it is buffered up front.
func (h *Handlers) FinikWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.logger.Error("failed to read webhook body", "error", err)
		rest.WriteError(c, application.NewInternalError(err))
		return
	}

	signature := ""
	for _, name := range signatureHeaders {
		if v := c.GetHeader(name); v != "" {
			signature = v
			break
		}
	}

	signed := finik.SignedRequest{
		Method:    c.Request.Method,
		Path:      c.Request.URL.Path,
		Host:      c.Request.Host,
		Header:    c.Request.Header,
		Query:     c.Request.URL.Query(),
		Body:      body,
		Signature: signature,
	}

	if err := h.verifier.Verify(signed); err != nil {
		h.logger.Warn("webhook signature rejected",
			"path", c.Request.URL.Path,
			"client_ip", c.ClientIP(),
			"error", err,
		)
		rest.WriteError(c, err)
		return
	}

	if err := h.payments.ProcessWebhook(c.Request.Context(), body); err != nil {
		rest.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
