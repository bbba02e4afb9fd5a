package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestRegisterEndpoint(t *testing.T) {
	r, _ := newTestRouter()

	w, env := doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"name":     "Alice",
		"email":    "Alice@Example.com",
		"password": "secret-pass",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.True(t, env.Success)

	var data struct {
		Token string   `json:"token"`
		User  userView `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	require.Equal(t, "alice@example.com", data.User.Email)
	require.Equal(t, "Alice", data.User.Name)
}

func TestRegisterEndpointDuplicateEmail(t *testing.T) {
	r, _ := newTestRouter()
	register(t, r, "alice@example.com")

	w, env := doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"name":     "Other Alice",
		"email":    "alice@example.com",
		"password": "other-pass",
	})
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "email already registered", env.Message)
}

func TestRegisterEndpointValidation(t *testing.T) {
	r, _ := newTestRouter()

	w, env := doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"name":     "A",
		"email":    "not-an-email",
		"password": "short",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.False(t, env.Success)
	require.Contains(t, env.Error, "email")
	require.Contains(t, env.Error, "password")
	require.Contains(t, env.Error, "name")
}

func TestLoginEndpoint(t *testing.T) {
	r, _ := newTestRouter()
	register(t, r, "alice@example.com")

	w, env := doJSON(t, r, http.MethodPost, "/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "secret-pass",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
}

func TestLoginEndpointBadCredentials(t *testing.T) {
	r, _ := newTestRouter()
	register(t, r, "alice@example.com")

	// wrong password and unknown email answer identically
	w1, env1 := doJSON(t, r, http.MethodPost, "/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "wrong-pass",
	})
	w2, env2 := doJSON(t, r, http.MethodPost, "/auth/login", "", gin.H{
		"email":    "nobody@example.com",
		"password": "secret-pass",
	})
	require.Equal(t, http.StatusUnauthorized, w1.Code)
	require.Equal(t, http.StatusUnauthorized, w2.Code)
	require.Equal(t, "invalid credentials", env1.Message)
	require.Equal(t, env1.Message, env2.Message)
}
