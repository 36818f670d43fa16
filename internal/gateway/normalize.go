package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/clbanning/mxj/v2"
)

const (
	// deviceTag is the repeated child element of a devices wrapper.
	deviceTag = "device"
	// itemTag is the root element some XML clients wrap the gateway in.
	itemTag = "item"
)

// DecodeError reports a body that is not well-formed in its declared format.
type DecodeError struct {
	Format Format
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("malformed %s payload: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Body is a decoded request body together with the format it came in.
// Value is a generic tree of map[string]any, []any and scalars.
type Body struct {
	Format Format
	Value  any
}

// Decode parses raw into a generic tree. XML elements repeated under the
// same parent become a []any, a lone element becomes a bare value.
func Decode(raw []byte, format Format) (Body, error) {
	switch format {
	case FormatXML:
		m, err := mxj.NewMapXml(raw)
		if err != nil {
			return Body{}, &DecodeError{Format: format, Err: err}
		}
		return Body{Format: format, Value: map[string]any(m)}, nil
	default:
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()

		var v any
		if err := dec.Decode(&v); err != nil {
			return Body{}, &DecodeError{Format: format, Err: err}
		}
		if _, err := dec.Token(); !errors.Is(err, io.EOF) {
			return Body{}, &DecodeError{Format: format, Err: errors.New("unexpected data after top-level value")}
		}
		return Body{Format: format, Value: v}, nil
	}
}

// Normalize removes format-specific structure from a decoded body: the XML
// root wrapper and the devices/device wrapper, and it turns a lone device
// into a one-element list. Non-object bodies are returned as they are.
// The input is not modified.
func Normalize(body Body) any {
	doc, ok := body.Value.(map[string]any)
	if !ok {
		return body.Value
	}

	if body.Format == FormatXML {
		doc = unwrapRoot(doc)
	}

	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	if devices, ok := out[FieldDevices]; ok {
		if body.Format == FormatXML && devices == "" {
			// <devices/> is an empty list.
			out[FieldDevices] = []any{}
		} else {
			out[FieldDevices] = deviceList(devices)
		}
	}
	return out
}

// Parse decodes, normalizes and validates a request body. The body's
// gatewayID must be a non-empty scalar.
func Parse(raw []byte, format Format) (Gateway, error) {
	doc, err := parseDocument(raw, format)
	if err != nil {
		return Gateway{}, err
	}
	return fromDocument(doc)
}

// ParseReplacement is Parse for a body whose gatewayID is replaced by id.
// The body only has to carry a gatewayID key, its value is discarded.
func ParseReplacement(raw []byte, format Format, id string) (Gateway, error) {
	doc, err := parseDocument(raw, format)
	if err != nil {
		return Gateway{}, err
	}
	doc[FieldGatewayID] = id
	return fromDocument(doc)
}

func parseDocument(raw []byte, format Format) (map[string]any, error) {
	body, err := Decode(raw, format)
	if err != nil {
		return nil, err
	}

	payload := Normalize(body)
	if err := Validate(payload); err != nil {
		return nil, err
	}
	return payload.(map[string]any), nil
}

// unwrapRoot drops the single root element of an XML document when it
// holds the gateway fields.
func unwrapRoot(doc map[string]any) map[string]any {
	if len(doc) != 1 {
		return doc
	}
	for tag, v := range doc {
		inner, ok := v.(map[string]any)
		if !ok {
			return doc
		}
		_, hasID := inner[FieldGatewayID]
		_, hasDevices := inner[FieldDevices]
		if tag == itemTag || hasID || hasDevices {
			return inner
		}
	}
	return doc
}

// deviceList resolves the shapes a devices value can take on the wire into
// an ordered list.
func deviceList(v any) []any {
	if wrapper, ok := v.(map[string]any); ok {
		if inner, ok := wrapper[deviceTag]; ok {
			v = inner
		}
	}
	if list, ok := v.([]any); ok {
		return list
	}
	return []any{v}
}
