package handlers

import (
	"time"

	"dinewallet.backend/internal/domain/entities"
	domainerrors "dinewallet.backend/internal/domain/errors"
	"dinewallet.backend/internal/interfaces/http/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// uuidParam parses a path parameter, writing a 400 when it is not a UUID.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}

// ownerParams reads :ownerType and :ownerId.
func ownerParams(c *gin.Context) (entities.OwnerRef, bool) {
	ownerType, ok := entities.ParseOwnerType(c.Param("ownerType"))
	if !ok {
		response.Error(c, domainerrors.BadRequest("Invalid owner type"))
		return entities.OwnerRef{}, false
	}
	id, ok := uuidParam(c, "ownerId")
	if !ok {
		return entities.OwnerRef{}, false
	}
	return entities.OwnerRef{Type: ownerType, ID: id}, true
}

// dateQuery parses a YYYY-MM-DD query parameter.
func dateQuery(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		response.Error(c, domainerrors.BadRequest(name+" is required"))
		return time.Time{}, false
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid "+name+", expected YYYY-MM-DD"))
		return time.Time{}, false
	}
	return t, true
}
