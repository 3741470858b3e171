package teacher

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/school-api/internal/storage"
	"github.com/aanand-mishra/school-api/internal/types"
	"github.com/aanand-mishra/school-api/internal/validation"
)

// memTeachers keeps a single teacher and records the last patch.
type memTeachers struct {
	storage.TeacherStorage

	teacher   *types.Teacher
	patch     types.TeacherPatch
	updateErr error
}

func (m *memTeachers) GetTeacherByID(_ context.Context, id int64) (types.Teacher, bool, error) {
	if m.teacher == nil || m.teacher.ID != id {
		return types.Teacher{}, false, nil
	}
	return *m.teacher, true, nil
}

func (m *memTeachers) UpdateTeacherByID(_ context.Context, id int64, patch types.TeacherPatch) (types.Teacher, error) {
	m.patch = patch
	if m.updateErr != nil {
		return types.Teacher{}, m.updateErr
	}
	m.teacher.Name, m.teacher.Age = *patch.Name, *patch.Age
	return *m.teacher, nil
}

func call(h http.HandlerFunc, method, id, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/teachers/"+id, strings.NewReader(body))
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestUpdate(t *testing.T) {
	m := &memTeachers{teacher: &types.Teacher{ID: 3, Name: "Marta", Age: 41}}

	rec := call(Update(m), http.MethodPut, "3", `{"name":"Marta L","age":0}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, MsgUpdated, body.Message)
	assert.Equal(t, "Marta L", body.Teacher.Name)
	assert.Equal(t, 0, body.Teacher.Age)
}

func TestUpdateChecksExistenceBeforeBody(t *testing.T) {
	m := &memTeachers{}

	rec := call(Update(m), http.MethodPut, "3", `garbage`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Nil(t, m.patch.Name, "update is never attempted")
}

func TestUpdateErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"constraint", validation.Required("name"), http.StatusBadRequest},
		{"gone", storage.ErrNotFound, http.StatusNotFound},
		{"infrastructure", errors.New("broken pipe"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &memTeachers{teacher: &types.Teacher{ID: 1}, updateErr: tt.err}
			rec := call(Update(m), http.MethodPut, "1", `{"name":"X","age":30}`)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}
