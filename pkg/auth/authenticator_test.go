package auth

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_TokenAuthenticator_addsBearerHeader(t *testing.T) {
	authenticator := NewTokenAuthenticator(func() string { return "aToken" })

	request, err := http.NewRequest(http.MethodGet, "http://localhost:8081/findings", nil)
	assert.Nil(t, err)

	err = authenticator.AddAuthenticationHeader(request)
	assert.Nil(t, err)
	assert.Equal(t, "Bearer aToken", request.Header.Get("Authorization"))
}

func Test_TokenAuthenticator_emptyTokenLeavesRequestUntouched(t *testing.T) {
	authenticator := NewTokenAuthenticator(func() string { return "" })

	request, err := http.NewRequest(http.MethodGet, "http://localhost:8081/findings", nil)
	assert.Nil(t, err)

	err = authenticator.AddAuthenticationHeader(request)
	assert.Nil(t, err)
	assert.Empty(t, request.Header.Get("Authorization"))
	assert.False(t, authenticator.IsSupported())
}

func Test_TokenAuthenticator_nilRequest(t *testing.T) {
	authenticator := NewTokenAuthenticator(func() string { return "aToken" })
	assert.Error(t, authenticator.AddAuthenticationHeader(nil))
}

func Test_TokenAuthenticator_picksUpTokenChange(t *testing.T) {
	token := "before"
	authenticator := NewTokenAuthenticator(func() string { return token })

	request, _ := http.NewRequest(http.MethodGet, "http://localhost:8081/findings", nil)
	assert.Nil(t, authenticator.AddAuthenticationHeader(request))
	assert.Equal(t, "Bearer before", request.Header.Get("Authorization"))

	token = "after"
	request, _ = http.NewRequest(http.MethodGet, "http://localhost:8081/findings", nil)
	assert.Nil(t, authenticator.AddAuthenticationHeader(request))
	assert.Equal(t, "Bearer after", request.Header.Get("Authorization"))
}
