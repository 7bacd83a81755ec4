package ai

import "errors"

var (
	ErrMissingCredential = errors.New("api key is not configured")
	ErrInvalidCredential = errors.New("api key has an invalid format")
	ErrEmptyResponse     = errors.New("empty response")
	ErrStreamConsumed    = errors.New("fragment stream already consumed")
)

// ServiceError is a backend failure (auth, quota, network, malformed response).
type ServiceError struct {
	Provider string
	Err      error
}

func (e *ServiceError) Error() string {
	if e.Provider == "" {
		return e.Err.Error()
	}
	return e.Provider + ": " + e.Err.Error()
}

func (e *ServiceError) Unwrap() error { return e.Err }

// wrap turns err into a *ServiceError unless it already is one.
func wrap(provider string, err error) error {
	if err == nil {
		return nil
	}
	var se *ServiceError
	if errors.As(err, &se) {
		return err
	}
	return &ServiceError{Provider: provider, Err: err}
}
