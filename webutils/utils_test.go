package webutils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestWriteErrorStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteErrorStatus(rec, http.StatusNotFound, errors.New("no such mesh"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"no such mesh"}`, rec.Body.String())
}

func TestWriteJson(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJson(rec, map[string]int{"count": 3})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"count":3}`, rec.Body.String())
}

func TestWriteFile(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteFile(rec, strings.NewReader("fbx"), "out.fbx")
	assert.Equal(t, `attachment; filename="out.fbx"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "fbx", rec.Body.String())
}
