package handlers

import (
	"restoran/internal/models"
	"restoran/internal/otp"
	"restoran/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// OTPHandler sends and verifies one-time codes for email and mobile.
type OTPHandler struct {
	email       *otp.Service
	mobile      *otp.Service
	authService *services.AuthService
	validate    *validator.Validate
	logger      *zap.SugaredLogger
}

// NewOTPHandler creates a new OTPHandler.
func NewOTPHandler(email, mobile *otp.Service, authService *services.AuthService, validate *validator.Validate, logger *zap.SugaredLogger) *OTPHandler {
	return &OTPHandler{
		email:       email,
		mobile:      mobile,
		authService: authService,
		validate:    validate,
		logger:      logger,
	}
}

// RegisterRoutes registers the OTP routes with the Fiber app.
func (h *OTPHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/send-email-otp", h.HandleSendEmailOTP)
	router.Post("/verify-email-otp", h.HandleVerifyEmailOTP)
	router.Post("/send-mobile-otp", h.HandleSendMobileOTP)
	router.Post("/verify-mobile-otp", h.HandleVerifyMobileOTP)
}

func (h *OTPHandler) HandleSendEmailOTP(c *fiber.Ctx) error {
	var req models.EmailOTPRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}
	if err := h.email.Send(c.UserContext(), services.NormalizeEmail(req.Email)); err != nil {
		return fail(c, h.logger, err, "Failed to send OTP")
	}
	return c.JSON(fiber.Map{"message": "OTP sent successfully"})
}

func (h *OTPHandler) HandleSendMobileOTP(c *fiber.Ctx) error {
	var req models.MobileOTPRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}
	if err := h.mobile.Send(c.UserContext(), req.MobileNumber); err != nil {
		return fail(c, h.logger, err, "Failed to send OTP")
	}
	return c.JSON(fiber.Map{"message": "OTP sent successfully"})
}

func (h *OTPHandler) HandleVerifyEmailOTP(c *fiber.Ctx) error {
	var req models.VerifyEmailOTPRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}
	email := services.NormalizeEmail(req.Email)
	return h.verified(c, h.email, email, req.OTP, func() (*models.User, error) {
		return h.authService.FindOrCreateCustomer(c.UserContext(), email, "", req.FullName)
	})
}

func (h *OTPHandler) HandleVerifyMobileOTP(c *fiber.Ctx) error {
	var req models.VerifyMobileOTPRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}
	return h.verified(c, h.mobile, req.MobileNumber, req.OTP, func() (*models.User, error) {
		return h.authService.FindOrCreateCustomer(c.UserContext(), "", req.MobileNumber, req.FullName)
	})
}

// verified checks code and, on a match, resolves the customer and issues a token.
// Every attempt consumes the pending code.
func (h *OTPHandler) verified(c *fiber.Ctx, svc *otp.Service, identifier, code string, customer func() (*models.User, error)) error {
	ok, err := svc.Verify(identifier, code)
	if err != nil {
		return fail(c, h.logger, err, "OTP verification failed")
	}
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid OTP",
		})
	}

	user, err := customer()
	if err != nil {
		return fail(c, h.logger, err, "Could not resolve customer")
	}
	token, err := h.authService.IssueToken(user)
	if err != nil {
		return fail(c, h.logger, err, "Could not issue token")
	}
	return c.JSON(fiber.Map{
		"message": "OTP verified successfully",
		"user":    user,
		"token":   token,
	})
}
