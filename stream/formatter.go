package stream

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/vmihailenco/msgpack/v5"
)

// Formatter writes responses as JSON, or MessagePack when the request asks
// for it with format=msgpack.
type Formatter struct{}

// NewFormatter creates a new response formatter.
func NewFormatter() *Formatter {
	return &Formatter{}
}

// WriteResponse writes data with the given status in the requested format.
func (f *Formatter) WriteResponse(w http.ResponseWriter, req *http.Request, status int, data any) error {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	if req.URL.Query().Get("format") == "msgpack" {
		body, err := EncodeMsgPack(data)
		if err != nil {
			return err
		}
		w.Header().Set("Content-Type", "application/x-msgpack")
		w.WriteHeader(status)
		_, err = w.Write(body)
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes a {"error": msg} body.
func (f *Formatter) WriteError(w http.ResponseWriter, req *http.Request, status int, msg string) {
	_ = f.WriteResponse(w, req, status, map[string]string{"error": msg})
}

// EncodeMsgPack encodes v as MessagePack using its json struct tags.
func EncodeMsgPack(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeMsgPack decodes MessagePack produced by EncodeMsgPack into v.
func DecodeMsgPack(data []byte, v any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	return dec.Decode(v)
}
