package log

const (
	// Request
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"
	FieldClientIP  = "client_ip"

	// Chat
	FieldClientID  = "client_id"
	FieldMessageID = "message_id"
	FieldUsername  = "username"
	FieldRole      = "role"

	// Service
	FieldService = "service"
)
