package apiclient

import "encoding/json"

// ErrorDetail is the machine-readable part of a failed envelope.
type ErrorDetail struct {
	Code string `json:"code"`
}

// Envelope is the response shape shared by every platform endpoint.
type Envelope[T any] struct {
	Success    bool         `json:"success"`
	Message    string       `json:"message,omitempty"`
	Data       *T           `json:"data,omitempty"`
	Error      *ErrorDetail `json:"error,omitempty"`
	Timestamp  string       `json:"timestamp,omitempty"`
	StatusCode int          `json:"statusCode,omitempty"`
}

// Ack is the payload type of operations whose data is never inspected. Any JSON value
// decodes into it, so only the success flag decides the outcome.
type Ack = json.RawMessage

// rawEnvelope defers decoding of data until the status is known.
type rawEnvelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Error      *ErrorDetail    `json:"error"`
	Timestamp  string          `json:"timestamp"`
	StatusCode int             `json:"statusCode"`
}

func (r rawEnvelope) hasData() bool {
	return len(r.Data) > 0 && string(r.Data) != "null"
}

// Payload unwraps the data of a successful envelope. A rejected or empty envelope
// becomes a *RejectedError carrying the server message, or fallback when there is none.
func Payload[T any](env *Envelope[T], fallback string) (*T, error) {
	if env == nil || !env.Success || env.Data == nil {
		return nil, reject(env, fallback)
	}
	return env.Data, nil
}

// Succeeded is Payload for operations whose response carries no data.
func Succeeded[T any](env *Envelope[T], fallback string) error {
	if env == nil || !env.Success {
		return reject(env, fallback)
	}
	return nil
}

func reject[T any](env *Envelope[T], fallback string) error {
	rejected := &RejectedError{Message: fallback}
	if env == nil {
		return rejected
	}
	if env.Message != "" {
		rejected.Message = env.Message
	}
	if env.Error != nil {
		rejected.Code = env.Error.Code
	}
	return rejected
}
