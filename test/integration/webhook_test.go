package integration_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"craftlink_backend/internal/models"
	"craftlink_backend/internal/webhook"
	"craftlink_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clerkUserCreatedBody(t *testing.T, clerkID, email, username string) []byte {
	t.Helper()

	event := map[string]interface{}{
		"type": "user.created",
		"data": map[string]interface{}{
			"id":       clerkID,
			"username": username,
			"email_addresses": []map[string]string{
				{"id": "idn_1", "email_address": email},
			},
			"primary_email_address_id": "idn_1",
		},
	}
	body, err := json.Marshal(event)
	require.NoError(t, err)
	return body
}

func signedHeaders(t *testing.T, msgID string, body []byte) map[string]string {
	t.Helper()

	verifier, err := webhook.NewVerifier(helpers.TestWebhookSecret)
	require.NoError(t, err)

	timestamp := fmt.Sprint(time.Now().Unix())
	return map[string]string{
		"Content-Type":   "application/json",
		"svix-id":        msgID,
		"svix-timestamp": timestamp,
		"svix-signature": verifier.Sign(msgID, timestamp, body),
	}
}

func TestWebhook_UserCreated(t *testing.T) {
	ts := helpers.NewTestServer(t)

	body := clerkUserCreatedBody(t, "user_2abc", "henry@example.com", "henry")
	headers := signedHeaders(t, "msg_1", body)

	res, respBody := ts.SendRaw(t, http.MethodPost, "/api/v1/webhooks/clerk", body, headers)
	require.Equal(t, http.StatusOK, res.StatusCode, respBody)

	var user models.User
	require.NoError(t, ts.DB.Where("email = ?", "henry@example.com").First(&user).Error)
	require.NotNil(t, user.ExternalID)
	assert.Equal(t, "user_2abc", *user.ExternalID)
	assert.Equal(t, models.UserStatusActive, user.Status)

	// Clerk retries deliver the same event again; provisioning is idempotent.
	res, _ = ts.SendRaw(t, http.MethodPost, "/api/v1/webhooks/clerk", body, signedHeaders(t, "msg_2", body))
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var count int64
	require.NoError(t, ts.DB.Model(&models.User{}).Where("email = ?", "henry@example.com").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestWebhook_TamperedBodyRejected(t *testing.T) {
	ts := helpers.NewTestServer(t)

	body := clerkUserCreatedBody(t, "user_2def", "mallory@example.com", "mallory")
	headers := signedHeaders(t, "msg_3", body)

	tampered := clerkUserCreatedBody(t, "user_2def", "attacker@example.com", "mallory")
	res, _ := ts.SendRaw(t, http.MethodPost, "/api/v1/webhooks/clerk", tampered, headers)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	var count int64
	require.NoError(t, ts.DB.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestWebhook_MissingSignatureRejected(t *testing.T) {
	ts := helpers.NewTestServer(t)

	body := clerkUserCreatedBody(t, "user_2ghi", "nosig@example.com", "nosig")
	res, _ := ts.SendRaw(t, http.MethodPost, "/api/v1/webhooks/clerk", body, map[string]string{
		"Content-Type": "application/json",
	})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestWebhook_UnknownEventIgnored(t *testing.T) {
	ts := helpers.NewTestServer(t)

	body := []byte(`{"type":"session.created","data":{"id":"sess_1"}}`)
	res, respBody := ts.SendRaw(t, http.MethodPost, "/api/v1/webhooks/clerk", body, signedHeaders(t, "msg_4", body))
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, respBody, "ignored")
}
