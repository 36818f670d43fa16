package gateway

import "fmt"

// ValidationKind enumerates the ways a gateway payload can be rejected.
type ValidationKind int

const (
	NotAnObject ValidationKind = iota
	MissingGatewayID
	InvalidGatewayID
	MissingDevices
	DeviceMissingField
)

// ValidationError is the first structural problem found in a payload.
// Index and Field are set for DeviceMissingField only.
type ValidationError struct {
	Kind  ValidationKind
	Index int
	Field string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case NotAnObject:
		return "Payload must be an object"
	case MissingGatewayID:
		return "Missing gatewayID"
	case InvalidGatewayID:
		return "Invalid gatewayID"
	case MissingDevices:
		return "Missing devices"
	case DeviceMissingField:
		return fmt.Sprintf("Device #%d missing %s", e.Index, e.Field)
	default:
		return "Invalid payload"
	}
}

// Validate checks payload for the fields every gateway needs and stops at the
// first problem. Only presence is checked. Whether gatewayID is usable as a
// key is decided when the gateway is built, since a PUT replaces it.
func Validate(payload any) error {
	doc, ok := payload.(map[string]any)
	if !ok {
		return &ValidationError{Kind: NotAnObject}
	}

	if _, ok := doc[FieldGatewayID]; !ok {
		return &ValidationError{Kind: MissingGatewayID}
	}

	devices, ok := doc[FieldDevices]
	if !ok {
		return &ValidationError{Kind: MissingDevices}
	}

	for i, item := range deviceList(devices) {
		d, _ := item.(map[string]any)
		if _, ok := d[FieldName]; !ok {
			return &ValidationError{Kind: DeviceMissingField, Index: i, Field: FieldName}
		}
		if _, ok := d[FieldVoltage]; !ok {
			return &ValidationError{Kind: DeviceMissingField, Index: i, Field: FieldVoltage}
		}
	}

	return nil
}
