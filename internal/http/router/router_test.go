package router_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/school-api/internal/http/router"
	"github.com/aanand-mishra/school-api/internal/storage"
	"github.com/aanand-mishra/school-api/internal/storage/sqlite"
	"github.com/aanand-mishra/school-api/internal/types"
)

func newServer(t *testing.T) (http.Handler, storage.Storage) {
	t.Helper()
	store, err := sqlite.New(context.Background(), filepath.Join(t.TempDir(), "school.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return router.New(store), store
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

type message struct {
	Message string `json:"message"`
}

type studentEnvelope struct {
	Message string        `json:"message"`
	Student types.Student `json:"student"`
}

type teacherEnvelope struct {
	Message string        `json:"message"`
	Teacher types.Teacher `json:"teacher"`
}

func TestSignupTwice(t *testing.T) {
	h, store := newServer(t)

	rec := do(t, h, http.MethodPost, "/signup", `{"username":"ana","password":"secret"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "User created successfully", decode[message](t, rec).Message)

	rec = do(t, h, http.MethodPost, "/signup", `{"username":"ana","password":"other"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User already exists", decode[message](t, rec).Message)

	users, err := store.GetUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestSignupValidation(t *testing.T) {
	h, _ := newServer(t)

	rec := do(t, h, http.MethodPost, "/signup", `{"username":"ana"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "field password is required", decode[message](t, rec).Message)

	rec = do(t, h, http.MethodPost, "/signup", ``)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConcurrentSignupsCreateOneUser(t *testing.T) {
	h, store := newServer(t)

	const n = 8
	codes := make([]int, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			codes[i] = do(t, h, http.MethodPost, "/signup", `{"username":"race","password":"x"}`).Code
		}()
	}
	wg.Wait()

	created := 0
	for _, code := range codes {
		switch code {
		case http.StatusCreated:
			created++
		case http.StatusBadRequest:
		default:
			t.Fatalf("unexpected status %d", code)
		}
	}
	assert.Equal(t, 1, created)

	users, err := store.GetUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestLogin(t *testing.T) {
	h, _ := newServer(t)
	require.Equal(t, http.StatusCreated,
		do(t, h, http.MethodPost, "/signup", `{"username":"ana","password":"secret"}`).Code)

	rec := do(t, h, http.MethodPost, "/login", `{"username":"ana","password":"secret"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Login successful", decode[message](t, rec).Message)

	wrongPassword := do(t, h, http.MethodPost, "/login", `{"username":"ana","password":"nope"}`)
	unknownUser := do(t, h, http.MethodPost, "/login", `{"username":"bob","password":"secret"}`)
	missingField := do(t, h, http.MethodPost, "/login", `{"username":"ana"}`)
	wrongCasePassword := do(t, h, http.MethodPost, "/login", `{"username":"ana","password":"SECRET"}`)
	wrongCaseUsername := do(t, h, http.MethodPost, "/login", `{"username":"Ana","password":"secret"}`)

	for _, rec := range []*httptest.ResponseRecorder{
		wrongPassword, unknownUser, missingField, wrongCasePassword, wrongCaseUsername,
	} {
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid username or password", decode[message](t, rec).Message)
	}
}

func TestLogout(t *testing.T) {
	h, _ := newServer(t)

	rec := do(t, h, http.MethodPost, "/logout", ``)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Logout Successful", decode[message](t, rec).Message)
}

func TestStudentScenario(t *testing.T) {
	h, _ := newServer(t)

	rec := do(t, h, http.MethodPost, "/students", `{"name":"Ana","age":20,"grade":3.5,"semester":2}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[studentEnvelope](t, rec)
	assert.Equal(t, "Student created successfully", created.Message)
	assert.Equal(t, int64(1), created.Student.ID)

	rec = do(t, h, http.MethodGet, "/students/1", ``)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[types.Student](t, rec)
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, "Ana", got.Name)
	assert.Equal(t, 20, got.Age)
	assert.Equal(t, 3.5, got.Grade)
	assert.Equal(t, 2, got.Semester)

	rec = do(t, h, http.MethodDelete, "/students/1", ``)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Student deleted successfully", decode[message](t, rec).Message)

	rec = do(t, h, http.MethodGet, "/students/1", ``)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Student not found", decode[message](t, rec).Message)

	rec = do(t, h, http.MethodDelete, "/students/1", ``)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStudentUpdateKeepsSemester(t *testing.T) {
	h, _ := newServer(t)
	require.Equal(t, http.StatusCreated,
		do(t, h, http.MethodPost, "/students", `{"name":"Ana","age":20,"grade":3.5,"semester":2}`).Code)

	rec := do(t, h, http.MethodPut, "/students/1", `{"name":"Ana B","age":21,"grade":3.8,"semester":9}`)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[studentEnvelope](t, rec)
	assert.Equal(t, "Student updated successfully", updated.Message)
	assert.Equal(t, "Ana B", updated.Student.Name)
	assert.Equal(t, 21, updated.Student.Age)
	assert.Equal(t, 3.8, updated.Student.Grade)
	assert.Equal(t, 2, updated.Student.Semester)
}

func TestStudentUpdateMissing(t *testing.T) {
	h, store := newServer(t)

	rec := do(t, h, http.MethodPut, "/students/5", `{"name":"Ghost","age":1,"grade":1}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Student not found", decode[message](t, rec).Message)

	students, err := store.GetStudents(context.Background())
	require.NoError(t, err)
	assert.Empty(t, students)
}

func TestStudentValidation(t *testing.T) {
	h, _ := newServer(t)

	rec := do(t, h, http.MethodPost, "/students", `{"name":"Ana","age":20,"grade":3.5}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "field semester is required", decode[message](t, rec).Message)

	rec = do(t, h, http.MethodPost, "/students", `{"name":"Ana","age":"old","grade":3.5,"semester":1}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "field age is invalid", decode[message](t, rec).Message)

	require.Equal(t, http.StatusCreated,
		do(t, h, http.MethodPost, "/students", `{"name":"Ana","age":20,"grade":3.5,"semester":2}`).Code)
	rec = do(t, h, http.MethodPut, "/students/1", `{"name":"Ana"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPut, "/students/1", `{"name":"Ana","age":3000000000,"grade":3.5}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "field age is invalid", decode[message](t, rec).Message)

	rec = do(t, h, http.MethodPost, "/students", `{"name":"Ana","age":20,"grade":3.5,"semester":-2147483649}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "field semester is invalid", decode[message](t, rec).Message)
}

func TestBodyMustBeOneJSONValue(t *testing.T) {
	h, store := newServer(t)

	rec := do(t, h, http.MethodPost, "/teachers", `{"name":"x","age":1} trailing`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "field body is invalid", decode[message](t, rec).Message)

	big := `{"name":"` + strings.Repeat("x", 2<<20) + `","age":1}`
	rec = do(t, h, http.MethodPost, "/teachers", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = do(t, h, http.MethodPost, "/signup", `{"username":"`+strings.Repeat("u", 2<<20)+`","password":"p"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	teachers, err := store.GetTeachers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, teachers)
}

func TestNonNumericIDIsNotFound(t *testing.T) {
	h, _ := newServer(t)

	rec := do(t, h, http.MethodGet, "/students/abc", ``)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodDelete, "/teachers/abc", ``)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Teacher not found", decode[message](t, rec).Message)
}

func TestListsReturnLiveRecords(t *testing.T) {
	h, _ := newServer(t)

	rec := do(t, h, http.MethodGet, "/students", ``)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	for i := 1; i <= 3; i++ {
		require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/students",
			fmt.Sprintf(`{"name":"S%d","age":20,"grade":3,"semester":1}`, i)).Code)
		require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/teachers",
			fmt.Sprintf(`{"name":"T%d","age":40}`, i)).Code)
	}
	require.Equal(t, http.StatusOK, do(t, h, http.MethodDelete, "/students/2", ``).Code)

	students := decode[[]types.Student](t, do(t, h, http.MethodGet, "/students", ``))
	require.Len(t, students, 2)
	assert.Equal(t, "S1", students[0].Name)
	assert.Equal(t, "S3", students[1].Name)

	teachers := decode[[]types.Teacher](t, do(t, h, http.MethodGet, "/teachers", ``))
	assert.Len(t, teachers, 3)
}

func TestTeacherCRUD(t *testing.T) {
	h, _ := newServer(t)

	rec := do(t, h, http.MethodPost, "/teachers", `{"name":"Marta","age":41}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[teacherEnvelope](t, rec)
	assert.Equal(t, "Teacher created successfully", created.Message)
	assert.Equal(t, "Marta", created.Teacher.Name)

	path := fmt.Sprintf("/teachers/%d", created.Teacher.ID)

	rec = do(t, h, http.MethodPut, path, `{"name":"Marta L","age":42}`)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[teacherEnvelope](t, rec)
	assert.Equal(t, "Teacher updated successfully", updated.Message)
	assert.Equal(t, "Marta L", updated.Teacher.Name)
	assert.Equal(t, 42, updated.Teacher.Age)

	rec = do(t, h, http.MethodGet, path, ``)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 42, decode[types.Teacher](t, rec).Age)

	rec = do(t, h, http.MethodDelete, path, ``)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Teacher deleted successfully", decode[message](t, rec).Message)

	rec = do(t, h, http.MethodPut, path, `{"name":"Marta","age":41}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/teachers", `{"age":41}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownMethod(t *testing.T) {
	h, _ := newServer(t)

	rec := do(t, h, http.MethodPatch, "/students/1", ``)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestResponsesCarryRequestID(t *testing.T) {
	h, _ := newServer(t)

	rec := do(t, h, http.MethodGet, "/teachers", ``)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}
