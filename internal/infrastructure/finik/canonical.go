package finik

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// buildCanonicalString reproduces Finik's request canonicalization. The
// components, their order and their encodings are the provider's contract;
// any deviation makes every signature verification fail.
//
//	lower-cased method
//	URI absolute path
//	signed headers: host plus every x-api-* header, sorted by name, k:v joined by &
//	query parameters sorted by key then value, percent-encoded (omitted when empty)
//	JSON body re-serialized with object keys recursively sorted
//
// joined by newlines.
func buildCanonicalString(req SignedRequest) (string, error) {
	jsonPayload, err := sortedJSON(req.Body)
	if err != nil {
		return "", fmt.Errorf("canonicalize body: %w", err)
	}

	parts := []string{
		strings.ToLower(req.Method),
		req.Path,
		signedHeadersPart(req),
	}

	if queryString := sortedQueryString(req.Query); queryString != "" {
		parts = append(parts, queryString)
	}

	parts = append(parts, jsonPayload)
	return strings.Join(parts, "\n"), nil
}

func signedHeadersPart(req SignedRequest) string {
	pairs := [][2]string{{"host", req.Host}}

	for name, values := range req.Header {
		lowered := strings.ToLower(name)
		if strings.HasPrefix(lowered, "x-api-") {
			pairs = append(pairs, [2]string{lowered, strings.Join(values, ",")})
		}
	}

	sort.Slice(pairs, func(i, j int) bool { return pairs[i][0] < pairs[j][0] })

	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = p[0] + ":" + p[1]
	}
	return strings.Join(parts, "&")
}

func sortedQueryString(query url.Values) string {
	if len(query) == 0 {
		return ""
	}

	type pair struct{ key, value string }
	var pairs []pair
	for key, values := range query {
		for _, value := range values {
			pairs = append(pairs, pair{key, value})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].key != pairs[j].key {
			return pairs[i].key < pairs[j].key
		}
		return pairs[i].value < pairs[j].value
	})

	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = encodeURIComponent(p.key) + "=" + encodeURIComponent(p.value)
	}
	return strings.Join(parts, "&")
}

const uriComponentUnreserved = "-_.!~*'()"

// encodeURIComponent matches the JavaScript function of the same name, which
// the provider uses when signing query parameters. It differs from
// url.QueryEscape in that space becomes %20 and !~*'() stay bare.
func encodeURIComponent(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9',
			strings.IndexByte(uriComponentUnreserved, c) >= 0:
			sb.WriteByte(c)
		default:
			sb.WriteString(fmt.Sprintf("%%%02X", c))
		}
	}
	return sb.String()
}

// sortedJSON re-serializes a JSON document with object keys recursively
// sorted, matching the provider's signing canonicalization.
func sortedJSON(body []byte) (string, error) {
	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		return "", err
	}

	var sb strings.Builder
	if err := writeSortedValue(&sb, value); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func writeSortedValue(sb *strings.Builder, value any) error {
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				sb.WriteByte(',')
			}
			keyJSON, err := encodeJSON(k)
			if err != nil {
				return err
			}
			sb.Write(keyJSON)
			sb.WriteByte(':')
			if err := writeSortedValue(sb, v[k]); err != nil {
				return err
			}
		}
		sb.WriteByte('}')
		return nil
	case []any:
		sb.WriteByte('[')
		for i, item := range v {
			if i > 0 {
				sb.WriteByte(',')
			}
			if err := writeSortedValue(sb, item); err != nil {
				return err
			}
		}
		sb.WriteByte(']')
		return nil
	default:
		encoded, err := encodeJSON(v)
		if err != nil {
			return err
		}
		sb.Write(encoded)
		return nil
	}
}

// encodeJSON serializes like JSON.stringify: json.Marshal would HTML-escape
// & < > to & etc. and break signature verification for payloads that
// contain them.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
