package gateway

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"io"
	"sort"
	"testing"

	"github.com/clbanning/mxj/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGateway() Gateway {
	return Gateway{
		ID: "GW1",
		Devices: []Device{
			{"name": "temp", "voltage": json.Number("3.3")},
			{"name": "hum", "voltage": "5"},
		},
		Extra: map[string]any{"location": "roofA"},
	}
}

func TestEncode_JSON(t *testing.T) {
	out, err := Encode(sampleGateway(), FormatJSON)
	require.NoError(t, err)

	assert.JSONEq(t, `{"gatewayID":"GW1","location":"roofA","devices":[{"name":"temp","voltage":3.3},{"name":"hum","voltage":"5"}]}`, string(out))
}

func TestEncode_XMLWrapsDevices(t *testing.T) {
	out, err := Encode(sampleGateway(), FormatXML)
	require.NoError(t, err)

	assert.Contains(t, string(out), "<response>")
	assert.Contains(t, string(out), "<devices><device>")
	assert.Contains(t, string(out), "<location>roofA</location>")
	assert.NotContains(t, string(out), `type="`)

	m, err := mxj.NewMapXml(out)
	require.NoError(t, err)
	devices, err := m.ValueForPath("response.devices.device")
	require.NoError(t, err)
	require.Len(t, devices, 2)
	assert.Equal(t, map[string]any{"name": "temp", "voltage": "3.3"}, devices.([]any)[0])
}

func TestEncode_XMLCollection(t *testing.T) {
	second := sampleGateway()
	second.ID = "GW2"

	out, err := Encode([]Gateway{sampleGateway(), second}, FormatXML)
	require.NoError(t, err)

	m, err := mxj.NewMapXml(out)
	require.NoError(t, err)
	gateways, err := m.ValueForPath("response.gateways.gateway")
	require.NoError(t, err)
	require.Len(t, gateways, 2)
	assert.Equal(t, "GW2", gateways.([]any)[1].(map[string]any)["gatewayID"])
}

func TestEncode_XMLResponseEnvelope(t *testing.T) {
	out, err := Encode(map[string]any{"message": "Gateway added", "data": sampleGateway()}, FormatXML)
	require.NoError(t, err)

	m, err := mxj.NewMapXml(out)
	require.NoError(t, err)
	msg, err := m.ValueForPath("response.message")
	require.NoError(t, err)
	assert.Equal(t, "Gateway added", msg)

	devices, err := m.ValueForPath("response.data.devices.device")
	require.NoError(t, err)
	assert.Len(t, devices, 2)
}

func TestEncode_XMLEscapesText(t *testing.T) {
	g := sampleGateway()
	g.Extra["note"] = "a < b & c"

	out, err := Encode(g, FormatXML)
	require.NoError(t, err)

	back, err := Parse(out, FormatXML)
	require.NoError(t, err)
	assert.Equal(t, "a < b & c", back.Extra["note"])
}

// requireWellFormed fails unless every token of doc parses.
func requireWellFormed(t *testing.T, doc []byte) {
	t.Helper()
	dec := xml.NewDecoder(bytes.NewReader(doc))
	for {
		_, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return
		}
		require.NoError(t, err)
	}
}

func TestEncode_XMLFieldNames(t *testing.T) {
	g := sampleGateway()
	g.Extra = map[string]any{
		"install site": "roofA",
		"123":          "digits",
		"2nd":          "x",
		"-attr":        "y",
		"#text":        "z",
		"meta":         map[string]any{"a b": "1", "-c": map[string]any{"d": "2"}},
		"site ids":     []any{"s1", "s2"},
	}

	out, err := Encode(g, FormatXML)
	require.NoError(t, err)
	requireWellFormed(t, out)

	m, err := mxj.NewMapXml(out)
	require.NoError(t, err)

	site, err := m.ValueForPath("response.install_site")
	require.NoError(t, err)
	assert.Equal(t, "roofA", site)

	digits, err := m.ValueForPath("response.n123")
	require.NoError(t, err)
	assert.Equal(t, "digits", digits)

	ids, err := m.ValueForPath("response.site_ids.site_id")
	require.NoError(t, err)
	assert.Equal(t, []any{"s1", "s2"}, ids)

	nested, err := m.ValueForPath("response.meta.a_b")
	require.NoError(t, err)
	assert.Equal(t, "1", nested)

	inner, err := m.ValueForPath("response.meta.key")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"-name": "-c", "d": "2"}, inner)

	keys, err := m.ValueForPath("response.key")
	require.NoError(t, err)
	require.Len(t, keys, 3)

	texts := map[string]any{}
	var names []string
	for _, k := range keys.([]any) {
		el := k.(map[string]any)
		name := el["-name"].(string)
		names = append(names, name)
		texts[name] = el["#text"]
	}
	sort.Strings(names)
	assert.Equal(t, []string{"#text", "-attr", "2nd"}, names)
	assert.Equal(t, map[string]any{"#text": "z", "-attr": "y", "2nd": "x"}, texts)
}

func TestEncode_XMLEmptyList(t *testing.T) {
	g := Gateway{ID: "GW1", Devices: []Device{}}

	out, err := Encode(g, FormatXML)
	require.NoError(t, err)
	requireWellFormed(t, out)
	assert.NotContains(t, string(out), "<device>")
	assert.NotContains(t, string(out), "<device/>")

	m, err := mxj.NewMapXml(out)
	require.NoError(t, err)
	devices, err := m.ValueForPath("response.devices")
	require.NoError(t, err)
	assert.Equal(t, "", devices)

	back, err := Parse(out, FormatXML)
	require.NoError(t, err)
	assert.Equal(t, "GW1", back.ID)
	assert.Empty(t, back.Devices)
}

func TestEncode_XMLEmptyCollection(t *testing.T) {
	out, err := Encode([]Gateway{}, FormatXML)
	require.NoError(t, err)
	requireWellFormed(t, out)
	assert.NotContains(t, string(out), "<gateway>")
}

func TestRoundTrip_XML(t *testing.T) {
	testCases := []struct {
		name    string
		devices []Device
	}{
		{name: "single device", devices: []Device{{"name": "a", "voltage": "1"}}},
		{name: "three devices", devices: []Device{
			{"name": "a", "voltage": "1"},
			{"name": "b", "voltage": "2"},
			{"name": "c", "voltage": "3", "unit": "mV"},
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			in := Gateway{ID: "GW9", Devices: tc.devices, Extra: map[string]any{"location": "roofA"}}

			out, err := Encode(in, FormatXML)
			require.NoError(t, err)

			back, err := Parse(out, FormatXML)
			require.NoError(t, err)
			assert.Equal(t, in, back)
		})
	}
}

func TestGateway_JSONRoundTrip(t *testing.T) {
	in := sampleGateway()

	raw, err := json.Marshal(in)
	require.NoError(t, err)

	var out Gateway
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, in, out)
}

func TestFormatSelection(t *testing.T) {
	assert.Equal(t, FormatXML, FormatFromAccept("text/html, application/xml;q=0.9"))
	assert.Equal(t, FormatJSON, FormatFromAccept(""))
	assert.Equal(t, FormatXML, FormatFromContentType("application/xml"))
	assert.Equal(t, FormatJSON, FormatFromContentType("text/xml"))
	assert.Equal(t, FormatJSON, FormatFromContentType(""))
}
