package gateway

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/clbanning/mxj/v2"
)

// xmlRoot is the root element of every XML response.
const xmlRoot = "response"

// collectionTag wraps a top-level list of gateways in XML.
const collectionTag = "gateways"

// keyTag replaces a field name that is not a valid XML name. The original
// name goes in its name attribute.
const keyTag = "key"

func init() {
	mxj.XMLEscapeChars(true)
}

// Encode serializes v, a Gateway, a list of them or any JSON-marshalable
// response object, in the given format.
func Encode(v any, format Format) ([]byte, error) {
	if format != FormatXML {
		return json.Marshal(v)
	}

	tree, err := toTree(v)
	if err != nil {
		return nil, err
	}

	var doc map[string]any
	switch t := tree.(type) {
	case map[string]any:
		doc = reshape(t, "").(map[string]any)
	case []any:
		doc = map[string]any{collectionTag: reshape(t, collectionTag)}
	default:
		doc = map[string]any{"value": reshape(t, "")}
	}

	out, err := mxj.Map(doc).Xml(xmlRoot)
	if err != nil {
		return nil, fmt.Errorf("encode xml: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

// toTree converts v into the generic map/slice/scalar tree that JSON would
// decode it to.
func toTree(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// reshape replaces every list with a wrapper object whose single key is the
// repeated element tag, so mxj writes <devices><device/>...</devices>. An
// empty list becomes an empty element. Field names are made into valid XML
// names and scalars become their text form.
func reshape(v any, key string) any {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		out := make(map[string]any, len(t))
		for _, k := range keys {
			value := reshape(t[k], k)
			name, ok := xmlName(k)
			if !ok {
				name, value = keyTag, withNameAttr(value, k)
			}
			addElement(out, name, value)
		}
		return out
	case []any:
		if len(t) == 0 {
			return ""
		}
		items := make([]any, len(t))
		for i, child := range t {
			items[i] = reshape(child, "")
		}
		return map[string]any{elementTag(key): items}
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		return t
	}
}

// addElement sets doc[name], turning repeated names into a list.
func addElement(doc map[string]any, name string, v any) {
	prev, ok := doc[name]
	switch {
	case !ok:
		doc[name] = v
	case isList(prev):
		doc[name] = append(prev.([]any), v)
	default:
		doc[name] = []any{prev, v}
	}
}

func isList(v any) bool {
	_, ok := v.([]any)
	return ok
}

// withNameAttr attaches a name attribute to an element value.
func withNameAttr(v any, name string) map[string]any {
	if m, ok := v.(map[string]any); ok {
		out := make(map[string]any, len(m)+1)
		for k, child := range m {
			out[k] = child
		}
		out["-name"] = name
		return out
	}
	return map[string]any{"-name": name, "#text": v}
}

// xmlName turns key into an element name: all-digit keys get an "n"
// prefix and spaces become underscores. It reports false when the result is
// still not a valid name.
func xmlName(key string) (string, bool) {
	if validXMLName(key) {
		return key, true
	}
	if isDigits(key) {
		return "n" + key, true
	}
	if fixed := strings.ReplaceAll(key, " ", "_"); validXMLName(fixed) {
		return fixed, true
	}
	return "", false
}

func validXMLName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (r == '-' || r == '.' || unicode.IsDigit(r)):
		default:
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// elementTag names the repeated child element of a list stored under key.
func elementTag(key string) string {
	switch key {
	case FieldDevices:
		return deviceTag
	case collectionTag:
		return "gateway"
	}
	if len(key) > 1 && strings.HasSuffix(key, "s") {
		if name, ok := xmlName(strings.TrimSuffix(key, "s")); ok {
			return name
		}
	}
	return itemTag
}
