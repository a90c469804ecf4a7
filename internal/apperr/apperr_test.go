package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsFollowsWrapChain(t *testing.T) {
	base := NotFound("project", "p1")
	wrapped := fmt.Errorf("update: %w", base)

	assert.True(t, Is(wrapped, CodeNotFound))
	assert.False(t, Is(wrapped, CodeStore))
	assert.False(t, Is(errors.New("plain"), CodeNotFound))
}

func TestMessageKeepsStoreCause(t *testing.T) {
	err := Store("insert project", errors.New("duplicate key"))
	assert.Equal(t, "insert project: duplicate key", Message(err))
	assert.Equal(t, "title is required", Message(Validation("title is required")))
	assert.Equal(t, "boom", Message(errors.New("boom")))
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("x"), http.StatusUnprocessableEntity},
		{NotFound("article", "a"), http.StatusNotFound},
		{New(CodeAuth, "nope"), http.StatusUnauthorized},
		{Store("x", errors.New("y")), http.StatusBadGateway},
		{errors.New("foreign"), http.StatusBadGateway},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(tc.err), tc.err.Error())
	}
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "[NOT_FOUND] section hero not found", NotFound("section", "hero").Error())
	assert.Equal(t, "[STORE_ERROR] list: timeout", Store("list", errors.New("timeout")).Error())
}
