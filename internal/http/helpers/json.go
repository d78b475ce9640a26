// Package helpers agrupa utilidades compartidas de la capa HTTP.
package helpers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	httperrors "github.com/dropDatabas3/hellocard/internal/http/errors"
)

const (
	contentTypeJSON = "application/json; charset=utf-8"

	// MaxBodySize acota los cuerpos JSON de toda la API.
	MaxBodySize = 64 * 1024 // 64KB
)

// WriteJSON responde un valor como JSON con el status dado.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// DecodeJSON parsea el body JSON en dst con límite de tamaño y campos
// estrictos. Responde el error y retorna false si el body es inválido.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON.WithDetail(err.Error()))
		return false
	}
	return true
}

// DecodeJSONLenient parsea el body si hay uno; un body vacío o inválido no
// es error (endpoints donde el cuerpo es opcional, ej. logout).
func DecodeJSONLenient(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodySize))
	if err := dec.Decode(dst); err != nil && err != io.EOF {
		return err
	}
	return nil
}

// QueryInt lee un query param entero con default.
func QueryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
