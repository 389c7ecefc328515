package handler

// Export for testing
type ErrorResponse = errorResponse
type LinkResponse = linkResponse
type LinkClicksResponse = linkClicksResponse
type HealthResponse = healthResponse

var WriteServiceError = writeServiceError
var FormatID = formatID
var ParseLimitParam = parseLimitParam
