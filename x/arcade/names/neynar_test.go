package names_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"dinorun/x/arcade/names"
	"dinorun/x/arcade/types"
)

func neynarServer(t *testing.T, status int, body string) (*httptest.Server, *int) {
	t.Helper()
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		require.Equal(t, "/v2/farcaster/user/bulk-by-address", r.URL.Path)
		require.Equal(t, "0x1234567890abcdef1234567890abcdef12345678", r.URL.Query().Get("addresses"))
		require.Equal(t, "secret", r.Header.Get("api_key"))
		require.Equal(t, "application/json", r.Header.Get("accept"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestNeynarLookup(t *testing.T) {
	testCases := []struct {
		name    string
		status  int
		body    string
		expName string
		expErr  bool
	}{
		{
			name:    "first username",
			status:  http.StatusOK,
			body:    `{"0x1234567890abcdef1234567890abcdef12345678":[{"fid":3,"username":"dino"},{"username":"other"}]}`,
			expName: "dino",
		},
		{
			name:   "no users",
			status: http.StatusOK,
			body:   `{"0x1234567890abcdef1234567890abcdef12345678":[]}`,
		},
		{
			name:   "address missing",
			status: http.StatusOK,
			body:   `{}`,
		},
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			body:   `{"message":"boom"}`,
			expErr: true,
		},
		{
			name:   "invalid json",
			status: http.StatusOK,
			body:   `{"0x1234`,
			expErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv, hits := neynarServer(t, tc.status, tc.body)
			client := names.NewNeynarClient(names.NeynarConfig{BaseURL: srv.URL, APIKey: "secret"})

			// mixed case input is looked up lower cased
			name, err := client.Lookup(context.Background(), types.Address("0x1234567890ABCDEF1234567890abcdef12345678"))
			if tc.expErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				require.Equal(t, tc.expName, name)
			}
			require.Equal(t, 1, *hits)
		})
	}
}

func TestNeynarWithoutKey(t *testing.T) {
	srv, hits := neynarServer(t, http.StatusOK, `{}`)
	client := names.NewNeynarClient(names.NeynarConfig{BaseURL: srv.URL})

	name, err := client.Lookup(context.Background(), player)
	require.NoError(t, err)
	require.Empty(t, name)
	require.Zero(t, *hits)
}

func TestNeynarAddressIsLiteralKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"0x1234567890abcdef1234567890abcdef12345678":[{"username":"dino"}],"0x12":{"0":{"username":"nested"}}}`))
	}))
	t.Cleanup(srv.Close)
	client := names.NewNeynarClient(names.NeynarConfig{BaseURL: srv.URL, APIKey: "secret"})

	for _, addr := range []types.Address{"*", "0x12*", "0x1?34567890abcdef1234567890abcdef12345678", "0x12|0x12", "#"} {
		t.Run(string(addr), func(t *testing.T) {
			name, err := client.Lookup(context.Background(), addr)
			require.NoError(t, err)
			require.Empty(t, name)
		})
	}
}
