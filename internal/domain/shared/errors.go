package shared

import "fmt"

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Buffer errors

// EmptyBufferError is returned when a batch is popped from an empty buffer.
// Phase gating makes this unreachable in correct operation.
type EmptyBufferError struct {
	*DomainError
	Buffer string
}

func NewEmptyBufferError(buffer string) *EmptyBufferError {
	return &EmptyBufferError{
		DomainError: NewDomainError(fmt.Sprintf("buffer %s is empty", buffer)),
		Buffer:      buffer,
	}
}

// InsufficientQuantityError is returned when more material is withdrawn than a buffer
// (or a single material) holds.
type InsufficientQuantityError struct {
	*DomainError
	Source    string
	Requested float64
	Available float64
}

func NewInsufficientQuantityError(source string, requested, available float64) *InsufficientQuantityError {
	return &InsufficientQuantityError{
		DomainError: NewDomainError(fmt.Sprintf("insufficient quantity in %s: need %g, have %g", source, requested, available)),
		Source:      source,
		Requested:   requested,
		Available:   available,
	}
}

// Configuration errors

// ConfigurationError reports an invalid facility parameter, detected before the simulation starts.
type ConfigurationError struct {
	*DomainError
	Field string
}

func NewConfigurationError(field, message string) *ConfigurationError {
	return &ConfigurationError{
		DomainError: NewDomainError(fmt.Sprintf("invalid configuration: %s: %s", field, message)),
		Field:       field,
	}
}

// Material errors

// MaterialError reports an operation on a material handle that can no longer be used,
// typically one that was absorbed into another material.
type MaterialError struct {
	*DomainError
	MaterialID string
}

func NewMaterialError(materialID, message string) *MaterialError {
	return &MaterialError{
		DomainError: NewDomainError(fmt.Sprintf("material %s: %s", materialID, message)),
		MaterialID:  materialID,
	}
}

// Validation error

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
