package devserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

type objectBody struct {
	Name *string        `json:"name"`
	Data map[string]any `json:"data"`
}

func (r *Router) decodeBody(w http.ResponseWriter, req *http.Request) (string, map[string]any, bool) {
	req.Body = http.MaxBytesReader(w, req.Body, r.maxRequestBytes)

	var body objectBody
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request entity too large")
			return "", nil, false
		}
		writeError(w, http.StatusBadRequest, "invalid json")
		return "", nil, false
	}
	if body.Name == nil || strings.TrimSpace(*body.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return "", nil, false
	}
	if body.Data == nil {
		body.Data = map[string]any{}
	}
	return *body.Name, body.Data, true
}

func (r *Router) handleList(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, r.store.list())
}

func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) {
	o, err := r.store.get(chi.URLParam(req, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (r *Router) handleCreate(w http.ResponseWriter, req *http.Request) {
	name, data, ok := r.decodeBody(w, req)
	if !ok {
		return
	}
	o := r.store.create(name, data)
	r.log.Info(req.Context(), "object created", "id", o.ID)
	writeJSON(w, http.StatusOK, o)
}

func (r *Router) handleUpdate(w http.ResponseWriter, req *http.Request) {
	id := chi.URLParam(req, "id")
	name, data, ok := r.decodeBody(w, req)
	if !ok {
		return
	}
	o, err := r.store.update(id, name, data)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (r *Router) handleDelete(w http.ResponseWriter, req *http.Request) {
	id := chi.URLParam(req, "id")
	if err := r.store.delete(id); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	r.log.Info(req.Context(), "object deleted", "id", id)
	writeJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("Object with id = %s has been deleted.", id)})
}
