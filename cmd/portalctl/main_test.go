package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestParseFeatures(t *testing.T) {
	fs, err := parseFeatures([]string{"esgdd=true", "ghg-accounting=false"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"esgdd": true, "ghg-accounting": false}, fs)

	_, err = parseFeatures([]string{"esgdd"})
	assert.Error(t, err)
	_, err = parseFeatures([]string{"esgdd=maybe"})
	assert.Error(t, err)
}

func TestPermGrant_TogglesThenSaves(t *testing.T) {
	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet:
			_, _ = w.Write([]byte(`{"code":0,"data":{"userId":5,"state":{}}}`))
		case r.Method == http.MethodPost:
			var body struct {
				ItemID string          `json:"itemId"`
				State  map[string]bool `json:"state"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body.State == nil {
				body.State = map[string]bool{}
			}
			body.State[body.ItemID] = true
			_ = json.NewEncoder(w).Encode(map[string]any{"code": 0, "data": map[string]any{"userId": 5, "state": body.State}})
		case r.Method == http.MethodPut:
			var body struct {
				State map[string]bool `json:"state"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			assert.Equal(t, map[string]bool{"dashboard": true, "reports": true}, body.State)
			_ = json.NewEncoder(w).Encode(map[string]any{"code": 0, "data": map[string]any{"userId": 5, "state": body.State, "granted": []string{"dashboard", "reports"}}})
		}
	}))
	defer srv.Close()

	out, err := execute(t, "--team", srv.URL, "--token", "x", "perm", "grant", "5", "dashboard", "reports")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"GET /subuser/5/permissions",
		"POST /subuser/5/permissions/toggle",
		"POST /subuser/5/permissions/toggle",
		"PUT /subuser/5/permissions",
	}, calls)
	assert.Contains(t, out, `"reports"`)
}

func TestPermShow_InvalidID(t *testing.T) {
	_, err := execute(t, "perm", "show", "abc")
	assert.ErrorContains(t, err, "invalid user id")
}
