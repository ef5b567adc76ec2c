package helpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"

	"craftlink_backend/internal/models"

	"github.com/stretchr/testify/require"
)

var userCounter atomic.Int64

// AuthUser is a registered account with its access token.
type AuthUser struct {
	ID       string
	Email    string
	Username string
	Token    string
	Refresh  string
}

// RegisterUser creates an account through the public API and returns its
// tokens. Passwords are fixed; tests care about identity, not credentials.
func RegisterUser(t *testing.T, ts *TestServer, role models.UserRole) *AuthUser {
	t.Helper()

	n := userCounter.Add(1)
	email := fmt.Sprintf("%s%d@test.local", role, n)
	username := fmt.Sprintf("%s%d", role, n)

	body := map[string]interface{}{
		"email":    email,
		"password": "password123",
		"role":     string(role),
		"username": username,
	}
	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", "", body)
	require.Equal(t, http.StatusCreated, res.StatusCode, "registration should succeed: "+bodyStr)

	var resp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		User         struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &resp))
	require.NotEmpty(t, resp.AccessToken)

	return &AuthUser{
		ID:       resp.User.ID,
		Email:    email,
		Username: username,
		Token:    resp.AccessToken,
		Refresh:  resp.RefreshToken,
	}
}

// CreateOpenJob posts and publishes a job through the API.
func CreateOpenJob(t *testing.T, ts *TestServer, client *AuthUser, title string) string {
	t.Helper()

	body := map[string]interface{}{
		"title":       title,
		"description": "Integration test job description",
		"category":    "design",
		"budget":      500,
		"publish":     true,
	}
	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/jobs", client.Token, body)
	require.Equal(t, http.StatusCreated, res.StatusCode, "job creation should succeed: "+bodyStr)

	var resp struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &resp))
	require.NotEmpty(t, resp.ID)
	return resp.ID
}

// SubmitProposal sends a proposal from the creator and returns its id.
func SubmitProposal(t *testing.T, ts *TestServer, creator *AuthUser, jobID string) string {
	t.Helper()

	body := map[string]interface{}{
		"job_id":       jobID,
		"cover_letter": "I am a great fit for this project",
		"price":        400,
	}
	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/proposals", creator.Token, body)
	require.Equal(t, http.StatusCreated, res.StatusCode, "proposal should succeed: "+bodyStr)

	var resp struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &resp))
	return resp.ID
}
