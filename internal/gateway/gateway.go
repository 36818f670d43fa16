package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Field names of the gateway document.
const (
	FieldGatewayID = "gatewayID"
	FieldDevices   = "devices"
	FieldName      = "name"
	FieldVoltage   = "voltage"
)

// Gateway is the canonical in-memory form of a gateway record.
// Top-level fields other than gatewayID and devices live in Extra and are
// written back out unchanged.
type Gateway struct {
	ID      string
	Devices []Device
	Extra   map[string]any

	// idValue is the gatewayID as sent when it was not a string.
	idValue any
}

// Device is a single reading entry of a gateway. It carries name, voltage
// and any other fields the client sent.
type Device map[string]any

// Name returns the device name field.
func (d Device) Name() (any, bool) {
	v, ok := d[FieldName]
	return v, ok
}

// Voltage returns the device voltage field.
func (d Device) Voltage() (any, bool) {
	v, ok := d[FieldVoltage]
	return v, ok
}

// Fields flattens the gateway back into a single document.
func (g Gateway) Fields() map[string]any {
	out := make(map[string]any, len(g.Extra)+2)
	for k, v := range g.Extra {
		out[k] = v
	}

	devices := make([]any, len(g.Devices))
	for i, d := range g.Devices {
		devices[i] = map[string]any(d)
	}

	out[FieldGatewayID] = g.ID
	if key, ok := gatewayKey(g.idValue); ok && key == g.ID {
		out[FieldGatewayID] = g.idValue
	}
	out[FieldDevices] = devices
	return out
}

func (g Gateway) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.Fields())
}

func (g *Gateway) UnmarshalJSON(data []byte) error {
	var doc map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return err
	}

	if err := Validate(doc); err != nil {
		return fmt.Errorf("invalid gateway document: %w", err)
	}

	parsed, err := fromDocument(doc)
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// fromDocument builds a Gateway from a document that already passed Validate.
func fromDocument(doc map[string]any) (Gateway, error) {
	rawID := doc[FieldGatewayID]
	id, ok := gatewayKey(rawID)
	if !ok {
		return Gateway{}, &ValidationError{Kind: InvalidGatewayID}
	}
	var idValue any
	if _, isString := rawID.(string); !isString {
		idValue = rawID
	}

	list := deviceList(doc[FieldDevices])
	devices := make([]Device, 0, len(list))
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return Gateway{}, &ValidationError{Kind: DeviceMissingField, Index: i, Field: FieldName}
		}
		devices = append(devices, Device(m))
	}

	extra := make(map[string]any, len(doc))
	for k, v := range doc {
		if k == FieldGatewayID || k == FieldDevices {
			continue
		}
		extra[k] = v
	}

	return Gateway{ID: id, Devices: devices, Extra: extra, idValue: idValue}, nil
}

// gatewayKey renders a gatewayID value as a store key. Only non-empty
// scalars qualify.
func gatewayKey(v any) (string, bool) {
	var key string
	switch t := v.(type) {
	case string:
		key = t
	case json.Number:
		key = t.String()
	case float64, int, int64:
		key = fmt.Sprint(t)
	default:
		return "", false
	}
	return key, key != ""
}
