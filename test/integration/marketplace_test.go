package integration_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"craftlink_backend/internal/models"
	"craftlink_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHiringFlow walks the main path: a client publishes a job, two
// creators propose, one is accepted, the job completes and gets rated.
func TestHiringFlow(t *testing.T) {
	ts := helpers.NewTestServer(t)

	client := helpers.RegisterUser(t, ts, models.UserRoleClient)
	winner := helpers.RegisterUser(t, ts, models.UserRoleCreator)
	loser := helpers.RegisterUser(t, ts, models.UserRoleCreator)

	jobID := helpers.CreateOpenJob(t, ts, client, "Brand identity package")
	winnerProposal := helpers.SubmitProposal(t, ts, winner, jobID)
	helpers.SubmitProposal(t, ts, loser, jobID)

	// Accept one proposal; the cascade rejects the other.
	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/proposals/"+winnerProposal+"/accept", client.Token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/jobs/"+jobID, client.Token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var job struct {
		Status    string  `json:"status"`
		CreatorID *string `json:"creator_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &job))
	assert.Equal(t, "in_progress", job.Status)
	require.NotNil(t, job.CreatorID)
	assert.Equal(t, winner.ID, *job.CreatorID)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/jobs/"+jobID+"/proposals", client.Token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var list struct {
		Proposals []struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"proposals"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &list))
	require.Len(t, list.Proposals, 2)
	statuses := map[string]string{}
	for _, p := range list.Proposals {
		statuses[p.ID] = p.Status
	}
	assert.Equal(t, "accepted", statuses[winnerProposal])

	// Both creators got notified.
	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/notifications", winner.Token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var inbox struct {
		UnreadCount int64 `json:"unread_count"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &inbox))
	assert.GreaterOrEqual(t, inbox.UnreadCount, int64(1))

	// Complete and rate.
	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/jobs/"+jobID+"/complete", client.Token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/ratings", client.Token, map[string]interface{}{
		"job_id":  jobID,
		"score":   5,
		"comment": "Delivered exactly what we asked for",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/ratings/user/"+winner.ID, "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "Delivered exactly what we asked for")
}

func TestJobs_RoleEnforcement(t *testing.T) {
	ts := helpers.NewTestServer(t)
	creator := helpers.RegisterUser(t, ts, models.UserRoleCreator)

	res, _ := ts.SendRequest(t, http.MethodPost, "/api/v1/jobs", creator.Token, map[string]interface{}{
		"title":       "Creators cannot post jobs",
		"description": "Should be rejected by role middleware",
		"category":    "design",
		"budget":      100,
	})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

func TestProposals_OnlyJobOwnerAccepts(t *testing.T) {
	ts := helpers.NewTestServer(t)
	client := helpers.RegisterUser(t, ts, models.UserRoleClient)
	creator := helpers.RegisterUser(t, ts, models.UserRoleCreator)
	stranger := helpers.RegisterUser(t, ts, models.UserRoleClient)

	jobID := helpers.CreateOpenJob(t, ts, client, "Podcast intro jingle")
	proposalID := helpers.SubmitProposal(t, ts, creator, jobID)

	res, _ := ts.SendRequest(t, http.MethodPost, "/api/v1/proposals/"+proposalID+"/accept", stranger.Token, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	// Still pending for the real owner.
	res, body := ts.SendRequest(t, http.MethodGet, "/api/v1/proposals/"+proposalID, client.Token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "pending")
}

func TestProposals_DuplicateConflict(t *testing.T) {
	ts := helpers.NewTestServer(t)
	client := helpers.RegisterUser(t, ts, models.UserRoleClient)
	creator := helpers.RegisterUser(t, ts, models.UserRoleCreator)

	jobID := helpers.CreateOpenJob(t, ts, client, "Landing page illustration")
	helpers.SubmitProposal(t, ts, creator, jobID)

	res, _ := ts.SendRequest(t, http.MethodPost, "/api/v1/proposals", creator.Token, map[string]interface{}{
		"job_id":       jobID,
		"cover_letter": "Second attempt at the same job",
		"price":        350,
	})
	assert.Equal(t, http.StatusConflict, res.StatusCode)
}

func TestHealthEndpoint(t *testing.T) {
	ts := helpers.NewTestServer(t)

	res, body := ts.SendRequest(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "ok")
}
