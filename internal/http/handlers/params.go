package handlers

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/tidyhome-backend/internal/http/response"
	"github.com/yungbote/tidyhome-backend/internal/platform/apierr"
)

// pathID parses the :id param. A malformed id cannot name a record, so it is
// answered as not found.
func pathID(c *gin.Context, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		response.RespondAPIError(c, apierr.NotFound("not_found", fmt.Errorf("%s not found", what)))
		return uuid.Nil, false
	}
	return id, true
}

func bindBody(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.RespondAPIError(c, apierr.BadRequest("validation", fmt.Errorf("invalid request body: %w", err)))
		return false
	}
	return true
}

func bodyID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, apierr.BadRequest("validation", fmt.Errorf("%s must be a uuid", field))
	}
	return id, nil
}
