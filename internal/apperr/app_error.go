package apperr

import "github.com/tuanvumaihuynh/stock-assistant/pkg/zerror"

const (
	ValidationErrorCode       = "VALIDATION_FAILED"
	BadRequestErrorCode       = "BAD_REQUEST"
	ProductNotFoundErrorCode  = "PRODUCT_NOT_FOUND"
	RouteNotFoundErrorCode    = "ROUTE_NOT_FOUND"
	MethodNotAllowedErrorCode = "METHOD_NOT_ALLOWED"
	AIUnavailableErrorCode    = "AI_UNAVAILABLE"
	InternalErrorCode         = "INTERNAL_ERROR"
)

var (
	ValidationErr       = zerror.NewValidationFailed(ValidationErrorCode, "validation error")
	BadRequestErr       = zerror.NewBadRequest(BadRequestErrorCode, "Invalid request body")
	ProductNotFoundErr  = zerror.NewNotFound(ProductNotFoundErrorCode, "Product not found")
	RouteNotFoundErr    = zerror.NewNotFound(RouteNotFoundErrorCode, "Route not found")
	MethodNotAllowedErr = zerror.NewMethodNotAllowed(MethodNotAllowedErrorCode, "Method not allowed")
	// AIUnavailableErr marks a failed delegation to the AI service. It is absorbed by the chat
	// fallback and never reaches a client.
	AIUnavailableErr = zerror.NewServiceUnavailable(AIUnavailableErrorCode, "AI service unavailable")
	InternalErr      = zerror.NewInternalServerError(InternalErrorCode, "internal server error")
)

// Internal wraps cause in an InternalErr whose message is "<msg>: <cause>".
func Internal(msg string, cause error) error {
	return InternalErr.WithMsg(msg + ": " + cause.Error()).WrapParent(cause)
}
