package common

import "time"

const (
	// MaxRequestBody limits JSON request bodies.
	MaxRequestBody = 1 << 20
	// RequestTimeout bounds the store work of a single handler.
	RequestTimeout = 5 * time.Second
)

// Response messages shared by the guards and handlers.
const (
	MessageUnauthorized = "unauthorized access"
	MessageForbidden    = "forbidden access"
)
