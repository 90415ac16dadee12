package v1

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/sboli/rcstrap/internal/constants"
	"github.com/sboli/rcstrap/internal/rcs"
	"github.com/sboli/rcstrap/internal/service"
)

const normalizedPayloadKey = "normalizedPayload"

// NormalizeAgentMessage reconciles the Google RBM wrapper shape into the
// flat canonical payload before the handler runs. The normalized map is
// parked in locals so the handler never re-parses the body.
func NormalizeAgentMessage() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body map[string]any
		if err := json.Unmarshal(c.Body(), &body); err != nil {
			return service.NewServiceError(constants.ErrCodeInvalidRequestBody, err)
		}

		query := map[string]string{}
		if messageID := c.Query("messageId"); messageID != "" {
			query["messageId"] = messageID
		}

		c.Locals(normalizedPayloadKey, rcs.NormalizePayload(body, query))
		return c.Next()
	}
}

func normalizedPayload(c *fiber.Ctx) map[string]any {
	payload, _ := c.Locals(normalizedPayloadKey).(map[string]any)
	return payload
}
