package endpoint

import (
	"errors"
	"fmt"
)

var ErrEndpointNotFound = errors.New("endpoint not found")

type MissingParameterError struct {
	Endpoint  string
	Parameter string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("endpoint %s: missing parameter %q", e.Endpoint, e.Parameter)
}

type EmptyParameterError struct {
	Endpoint  string
	Parameter string
}

func (e *EmptyParameterError) Error() string {
	return fmt.Sprintf("endpoint %s: parameter %q is empty", e.Endpoint, e.Parameter)
}
