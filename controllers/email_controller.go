// controllers/email_controller.go
package controllers

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/alhijra-ng/alhijra_backend/utils"
)

// EmailController exposes the transactional email endpoints used by the
// booking and payment flows. These return bare success payloads rather
// than the standard envelope because the payment widget consumes them
// directly.
type EmailController struct{}

// NewEmailController creates a new email controller
func NewEmailController() *EmailController {
	return &EmailController{}
}

// SendConfirmation sends an arbitrary confirmation email
func (ec *EmailController) SendConfirmation(c echo.Context) error {
	var req struct {
		To      string `json:"to" validate:"required,email"`
		Subject string `json:"subject" validate:"required"`
		Text    string `json:"text,omitempty"`
		HTML    string `json:"html,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   "Invalid request",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   err.Error(),
		})
	}
	if req.Text == "" && req.HTML == "" {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   "Either text or html body is required",
		})
	}

	if err := utils.SendEmail(req.To, req.Subject, req.Text, req.HTML); err != nil {
		log.Printf("Failed to send confirmation email to %s: %v", req.To, err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"error":   "Failed to send email",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
}

// SendPaymentSuccess sends the payment receipt email
func (ec *EmailController) SendPaymentSuccess(c echo.Context) error {
	var req struct {
		Email        string  `json:"email" validate:"required,email"`
		Name         string  `json:"name" validate:"required"`
		BookingID    string  `json:"bookingId" validate:"required"`
		AmountNgn    float64 `json:"amountNgn" validate:"required,gt=0"`
		PackageTitle string  `json:"packageTitle" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"ok":    false,
			"error": "Invalid request",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"ok":    false,
			"error": err.Error(),
		})
	}

	if err := utils.SendPaymentSuccessEmail(req.Email, req.Name, req.BookingID, req.PackageTitle, req.AmountNgn); err != nil {
		log.Printf("Failed to send payment success email to %s: %v", req.Email, err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"ok":    false,
			"error": "Failed to send email",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"ok": true})
}
