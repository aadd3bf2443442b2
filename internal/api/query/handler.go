package query

import (
	"context"
	"encoding/json"
	"strings"

	"ragdocs/config"
	corequery "ragdocs/internal/core/query"
	"ragdocs/pkg/apperror"
	"ragdocs/pkg/apperror/status"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

func HandleQuery(c fiber.Ctx) error {
	trackingID := c.Get("X-Request-ID")
	if trackingID == "" {
		trackingID = uuid.NewString()
	}

	var req corequery.Request
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return apperror.BadRequest(config.ModuleQuery, c, status.InvalidRequestBody, err.Error())
	}
	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		return apperror.BadRequest(config.ModuleQuery, c, status.MissingParams, "question is empty")
	}
	if strings.TrimSpace(req.UserID) == "" {
		return apperror.BadRequest(config.ModuleQuery, c, status.MissingParams, "user_id is required")
	}

	resp, err := corequery.Run(context.Background(), req)
	if err != nil {
		return apperror.InternalError(config.ModuleQuery, c, err)
	}

	return apperror.Success(config.ModuleQuery, c, apperror.FiberSuccessMessage{
		Code:       status.OK,
		Message:    "query ok",
		TrackingID: trackingID,
		Data:       resp,
	})
}
