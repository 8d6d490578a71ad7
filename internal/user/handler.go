package user

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(app fiber.Router) {
	app.Post("/register", h.register)
}

func (h *Handler) register(c *fiber.Ctx) error {
	payload := new(Registration)
	// an empty body or a non-JSON content type leaves every field missing
	if len(c.Body()) > 0 {
		if err := c.BodyParser(payload); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": MsgInvalidBody})
		}
	}

	return respond(c, h.service.Register(c.UserContext(), *payload))
}

func respond(c *fiber.Ctx, res Result) error {
	status := statusFor(res.Kind)
	switch res.Kind {
	case KindCreated:
		return c.Status(status).JSON(fiber.Map{"message": res.Message, "user": res.User})
	case KindValidationFailed:
		return c.Status(status).JSON(fiber.Map{"message": res.Message, "errors": res.Errors})
	case KindInvalidInput, KindDuplicateEmail, KindInternal:
		return c.Status(status).JSON(fiber.Map{"message": res.Message})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": MsgInternal})
	}
}

func statusFor(kind Kind) int {
	switch kind {
	case KindCreated:
		return fiber.StatusCreated
	case KindInvalidInput, KindValidationFailed:
		return fiber.StatusBadRequest
	case KindDuplicateEmail:
		return fiber.StatusConflict
	case KindInternal:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusInternalServerError
	}
}
