package types

// APIError is the public error body: a stable machine-readable code plus a
// human message. Details appear only where the code's metadata allows them.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
