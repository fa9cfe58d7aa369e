package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

var keysToIgnore = map[string]struct{}{
	"timestamp": {},
	"requestId": {},
	"createdAt": {},
	"startsAt":  {},
	"expiresAt": {},
	"holdId":    {},
}

func prepareRequest(method, path string, body io.Reader, headers map[string]string, cookies []http.Cookie) (*http.Request, error) {
	req := httptest.NewRequest(method, path, body)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	for _, c := range cookies {
		req.AddCookie(&c)
	}

	return req, nil
}

func compareResponse(t *testing.T, body io.Reader, expectedResponse string) {
	var actual map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&actual))

	cleanMap(actual)

	var expected map[string]any
	require.NoError(t, json.Unmarshal([]byte(expectedResponse), &expected))

	// ignore indetermistic fields while comparing
	opts := cmpopts.IgnoreMapEntries(func(k string, _ any) bool {
		_, ok := keysToIgnore[k]
		return ok
	})

	if diff := cmp.Diff(expected, actual, opts); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func cleanMap(m map[string]any) {
	for k := range m {
		if _, ok := keysToIgnore[k]; ok {
			delete(m, k)
			continue
		}
		switch v := m[k].(type) {
		case map[string]any:
			cleanMap(v)
		case []any:
			for _, item := range v {
				if nested, ok := item.(map[string]any); ok {
					cleanMap(nested)
				}
			}
		}
	}
}

// seedCatalog inserts one movie, one hall with a 2x3 seat grid, and one
// showtime. Identity columns restart at 1 on every SetupTest, so the fixture
// IDs in constants_test.go stay valid.
func seedCatalog(t testing.TB, app *TestApp) {
	ctx := context.Background()

	_, err := app.DB.Exec(ctx, `
		INSERT INTO movies (title, description, duration)
		VALUES ($1, 'A voyage through a wormhole.', 169)
	`, TestMovieTitle)
	require.NoError(t, err)

	_, err = app.DB.Exec(ctx, `INSERT INTO halls (name) VALUES ($1)`, TestHallName)
	require.NoError(t, err)

	_, err = app.DB.Exec(ctx, `
		INSERT INTO seats (hall_id, seat_row, seat_col, seat_type, price) VALUES
			(1, 1, 1, 'Standard', 100.00),
			(1, 1, 2, 'Standard', 100.00),
			(1, 1, 3, 'Standard', 100.00),
			(1, 2, 1, 'VIP', 150.00),
			(1, 2, 2, 'VIP', 150.00),
			(1, 2, 3, 'VIP', 150.00)
	`)
	require.NoError(t, err)

	starts := time.Now().Add(24 * time.Hour).Truncate(time.Second)

	_, err = app.DB.Exec(ctx, `
		INSERT INTO showtimes (movie_id, hall_id, starts_at, ends_at)
		VALUES (1, 1, $1, $2)
	`, starts, starts.Add(169*time.Minute))
	require.NoError(t, err)
}

// newBrowser returns an HTTP client with its own cookie jar, standing in for
// one distinct guest. Two browsers racing for the same seats therefore carry
// two different session tokens.
func newBrowser(t testing.TB) *http.Client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &http.Client{Jar: jar, Timeout: 10 * time.Second}
}

func doJSON(t testing.TB, client *http.Client, method, url string, body any) *http.Response {
	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := client.Do(req)
	require.NoError(t, err)

	return res
}

func decodeJSON[T any](t testing.TB, res *http.Response) T {
	t.Helper()

	defer res.Body.Close()

	var out T
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))

	return out
}
