package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasktracker/backend/internal/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	binding.Validator = validation.Default()
}

type form struct {
	Title string `json:"title" binding:"required"`
}

func run(t *testing.T, body string, h gin.HandlerFunc) (*httptest.ResponseRecorder, ErrorBody) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	h(c)
	var out ErrorBody
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func TestBindJSON(t *testing.T) {
	var f form
	w, _ := run(t, `{"title":"x"}`, func(c *gin.Context) { assert.True(t, BindJSON(c, &f)) })
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "x", f.Title)

	w, body := run(t, `{}`, func(c *gin.Context) { assert.False(t, BindJSON(c, &form{})) })
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, MsgValidationFailed, body.Error)
	assert.Equal(t, []string{"Title is required"}, body.Details["title"])

	w, body = run(t, `{bad`, func(c *gin.Context) { assert.False(t, BindJSON(c, &form{})) })
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, body.Details["body"])
}

func TestInternal(t *testing.T) {
	w, body := run(t, ``, func(c *gin.Context) { Internal(c, nil, "boom", errors.New("db password leaked")) })
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, MsgInternal, body.Error)
	assert.NotContains(t, w.Body.String(), "leaked")
}

func TestWriteValidation(t *testing.T) {
	verr := validation.NewError()
	verr.Add("title", "Title is required")
	w, body := run(t, ``, func(c *gin.Context) { assert.True(t, WriteValidation(c, verr)) })
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"Title is required"}, body.Details["title"])

	_, _ = run(t, ``, func(c *gin.Context) { assert.False(t, WriteValidation(c, errors.New("x"))) })
}
