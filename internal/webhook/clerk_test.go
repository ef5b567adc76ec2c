package webhook

import (
	"encoding/base64"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSecret() string {
	return "whsec_" + base64.StdEncoding.EncodeToString([]byte("test-signing-key-123456"))
}

func TestVerifier_ValidSignature(t *testing.T) {
	v, err := NewVerifier(testSecret())
	require.NoError(t, err)

	body := []byte(`{"type":"user.created","data":{"id":"user_abc"}}`)
	msgID := "msg_123"
	ts := fmt.Sprintf("%d", time.Now().Unix())

	sig := v.Sign(msgID, ts, body)
	assert.NoError(t, v.Verify(msgID, ts, sig, body))
}

func TestVerifier_TamperedBody(t *testing.T) {
	v, err := NewVerifier(testSecret())
	require.NoError(t, err)

	msgID := "msg_123"
	ts := fmt.Sprintf("%d", time.Now().Unix())
	sig := v.Sign(msgID, ts, []byte(`{"a":1}`))

	err = v.Verify(msgID, ts, sig, []byte(`{"a":2}`))
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifier_WrongSecret(t *testing.T) {
	v1, err := NewVerifier(testSecret())
	require.NoError(t, err)
	v2, err := NewVerifier("whsec_" + base64.StdEncoding.EncodeToString([]byte("another-key")))
	require.NoError(t, err)

	body := []byte(`{}`)
	msgID := "msg_x"
	ts := fmt.Sprintf("%d", time.Now().Unix())

	sig := v2.Sign(msgID, ts, body)
	assert.ErrorIs(t, v1.Verify(msgID, ts, sig, body), ErrInvalidSignature)
}

func TestVerifier_StaleTimestamp(t *testing.T) {
	v, err := NewVerifier(testSecret())
	require.NoError(t, err)

	body := []byte(`{}`)
	msgID := "msg_old"
	ts := fmt.Sprintf("%d", time.Now().Add(-10*time.Minute).Unix())

	sig := v.Sign(msgID, ts, body)
	assert.ErrorIs(t, v.Verify(msgID, ts, sig, body), ErrTimestampSkew)
}

func TestVerifier_MissingHeaders(t *testing.T) {
	v, err := NewVerifier(testSecret())
	require.NoError(t, err)

	assert.ErrorIs(t, v.Verify("", "123", "v1,abc", []byte(`{}`)), ErrMissingHeaders)
	assert.ErrorIs(t, v.Verify("msg", "", "v1,abc", []byte(`{}`)), ErrMissingHeaders)
	assert.ErrorIs(t, v.Verify("msg", "123", "", []byte(`{}`)), ErrMissingHeaders)
}

func TestVerifier_MultipleSignatureEntries(t *testing.T) {
	v, err := NewVerifier(testSecret())
	require.NoError(t, err)

	body := []byte(`{"ok":true}`)
	msgID := "msg_multi"
	ts := fmt.Sprintf("%d", time.Now().Unix())

	good := v.Sign(msgID, ts, body)
	header := "v1,Zm9vYmFy " + good

	assert.NoError(t, v.Verify(msgID, ts, header, body))
}

func TestClerkUser_PrimaryEmail(t *testing.T) {
	u := &ClerkUser{
		PrimaryEmailAddressID: "em_2",
	}
	u.EmailAddresses = []struct {
		ID           string `json:"id"`
		EmailAddress string `json:"email_address"`
	}{
		{ID: "em_1", EmailAddress: "first@example.com"},
		{ID: "em_2", EmailAddress: "primary@example.com"},
	}

	assert.Equal(t, "primary@example.com", u.PrimaryEmail())

	u.PrimaryEmailAddressID = "em_missing"
	assert.Equal(t, "first@example.com", u.PrimaryEmail())
}
