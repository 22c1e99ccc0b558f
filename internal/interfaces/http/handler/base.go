package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/erp/fulfillment/internal/interfaces/http/dto"
	"github.com/erp/fulfillment/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// actor identifies who is making the request, extracted from JWT claims
type actor struct {
	OrganizationID uuid.UUID
	ID             uuid.UUID
}

// getActor extracts the acting identity from the validated claims
func getActor(c *gin.Context) (actor, error) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return actor{}, errors.New("no authenticated actor in context")
	}
	orgID, err := claims.GetOrganizationUUID()
	if err != nil {
		return actor{}, err
	}
	actorID, err := claims.GetActorUUID()
	if err != nil {
		return actor{}, err
	}
	return actor{OrganizationID: orgID, ID: actorID}, nil
}

// pathUUID parses a UUID path parameter
func pathUUID(c *gin.Context, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Param(name))
}

// Success sends a 200 response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a 200 response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
		dto.ErrCodeBadRequest, message, middleware.GetRequestID(c)))
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
		dto.ErrCodeUnauthorized, message, middleware.GetRequestID(c)))
}

// HandleError converts domain errors to HTTP responses. Anything that is
// not a DomainError is reported as an opaque 500; the cause is in the logs,
// not the response.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	requestID := middleware.GetRequestID(c)

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		resp := dto.NewErrorResponse(domainErr.Code, domainErr.Message, requestID)
		resp.Error.Field = domainErr.Field
		c.JSON(dto.GetHTTPStatus(domainErr.Code), resp)
		return
	}

	// Domain errors that carry their own code, like state machine rejections
	var codedErr interface {
		error
		Code() string
	}
	if errors.As(err, &codedErr) {
		c.JSON(dto.GetHTTPStatus(codedErr.Code()),
			dto.NewErrorResponse(codedErr.Code(), codedErr.Error(), requestID))
		return
	}

	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
		dto.ErrCodeInternal, "An unexpected error occurred", requestID))
}
