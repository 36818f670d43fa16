package gateway

import "strings"

// Format is a wire representation of a gateway document.
type Format int

const (
	FormatJSON Format = iota
	FormatXML
)

const (
	MIMEJSON = "application/json"
	MIMEXML  = "application/xml"
)

func (f Format) String() string {
	if f == FormatXML {
		return "XML"
	}
	return "JSON"
}

// MIME returns the response content type for the format.
func (f Format) MIME() string {
	if f == FormatXML {
		return MIMEXML + "; charset=utf-8"
	}
	return MIMEJSON + "; charset=utf-8"
}

// FormatFromContentType selects the request body format. contentType must
// already have its parameters stripped; anything but application/xml is JSON.
func FormatFromContentType(contentType string) Format {
	if strings.EqualFold(strings.TrimSpace(contentType), MIMEXML) {
		return FormatXML
	}
	return FormatJSON
}

// FormatFromAccept selects the response format from an Accept header.
func FormatFromAccept(accept string) Format {
	if strings.Contains(accept, MIMEXML) {
		return FormatXML
	}
	return FormatJSON
}
