package server

import (
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cheru-app/cheru/internal/config"
	"github.com/cheru-app/cheru/internal/engine"
	"github.com/cheru-app/cheru/internal/index"
	"github.com/cheru-app/cheru/internal/security"
)

// dialTestServer stands up an engine over fixed buckets, serves it, and
// returns a connected client.
func dialTestServer(t *testing.T, home string, apps, folders []index.Entry) *websocket.Conn {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)
	store := index.NewStore(home, apps, folders, nil)
	eng, err := engine.New(store, security.NewWithRoots(home, nil), config.Default(), log)
	require.NoError(t, err)
	t.Cleanup(eng.Close)

	srv := httptest.NewServer(New(eng, 50*time.Millisecond, log).Handler())
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })
	return ws
}

func roundTrip(t *testing.T, ws *websocket.Conn, req Request) Response {
	t.Helper()
	require.NoError(t, ws.WriteJSON(req))
	var resp Response
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, ws.ReadJSON(&resp))
	return resp
}

func TestServer_SearchApps(t *testing.T) {
	apps := []index.Entry{
		{Name: "Firefox", Exec: "/usr/bin/firefox", Kind: index.KindApp},
		{Name: "Files", Exec: "/usr/bin/files", Kind: index.KindApp},
	}
	ws := dialTestServer(t, t.TempDir(), apps, nil)

	resp := roundTrip(t, ws, Request{Op: "search_apps", Seq: 1, Query: "fire"})
	assert.True(t, resp.OK)
	assert.Equal(t, uint64(1), resp.Seq)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Firefox", resp.Results[0].Name)
}

func TestServer_QueryIsDebounced(t *testing.T) {
	apps := []index.Entry{{Name: "Firefox", Exec: "/usr/bin/firefox", Kind: index.KindApp}}
	ws := dialTestServer(t, t.TempDir(), apps, nil)

	// Two keystrokes inside the window; only the second one answers.
	require.NoError(t, ws.WriteJSON(Request{Op: "query", Seq: 1, Query: "f"}))
	require.NoError(t, ws.WriteJSON(Request{Op: "query", Seq: 2, Query: "firef"}))

	var resp Response
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, ws.ReadJSON(&resp))
	assert.Equal(t, "query", resp.Op)
	assert.Equal(t, uint64(2), resp.Seq)
	assert.Equal(t, "firef", resp.Query)
	assert.NotZero(t, resp.Generation)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Firefox", resp.Results[0].Name)
}

func TestServer_QueryFramePairsSeqWithItsQuery(t *testing.T) {
	apps := []index.Entry{
		{Name: "Firefox", Exec: "/usr/bin/firefox", Kind: index.KindApp},
		{Name: "Files", Exec: "/usr/bin/files", Kind: index.KindApp},
	}
	ws := dialTestServer(t, t.TempDir(), apps, nil)

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))

	require.NoError(t, ws.WriteJSON(Request{Op: "query", Seq: 4, Query: "firefox"}))
	var first Response
	require.NoError(t, ws.ReadJSON(&first))
	assert.Equal(t, uint64(4), first.Seq)
	assert.Equal(t, "firefox", first.Query)

	require.NoError(t, ws.WriteJSON(Request{Op: "query", Seq: 5, Query: "files"}))
	var second Response
	require.NoError(t, ws.ReadJSON(&second))
	assert.Equal(t, uint64(5), second.Seq)
	assert.Equal(t, "files", second.Query)
	assert.Greater(t, second.Generation, first.Generation)
}

func TestSeqTracker_PairsEachQueryWithItsOwnSeq(t *testing.T) {
	seqs := newSeqTracker()

	// A newer keystroke recorded while the older query is still in flight
	// must not steal the older query's seq.
	seqs.record("fire", 4)
	seqs.record("firef", 5)

	assert.Equal(t, uint64(4), seqs.take("fire"))
	assert.Equal(t, uint64(5), seqs.take("firef"))
}

func TestSeqTracker_ForgetsTakenEntries(t *testing.T) {
	seqs := newSeqTracker()
	seqs.record("fire", 4)

	assert.Equal(t, uint64(4), seqs.take("fire"))
	assert.Zero(t, seqs.take("fire"))
}

func TestServer_EvalExpression(t *testing.T) {
	ws := dialTestServer(t, t.TempDir(), nil, nil)

	resp := roundTrip(t, ws, Request{Op: "eval_expression", Seq: 3, Query: "2^10"})
	assert.True(t, resp.OK)
	assert.Equal(t, "1024", resp.Value)

	resp = roundTrip(t, ws, Request{Op: "eval_expression", Seq: 4, Query: "hello"})
	assert.False(t, resp.OK)
}

func TestServer_BrowseDirectoryDeniedOutsideHome(t *testing.T) {
	ws := dialTestServer(t, t.TempDir(), nil, nil)

	resp := roundTrip(t, ws, Request{Op: "browse_directory", Seq: 5, Path: "/etc"})
	assert.False(t, resp.OK)
	assert.True(t, resp.Denied)
	assert.NotEmpty(t, resp.Error)
}

func TestServer_BrowseDirectoryInsideHome(t *testing.T) {
	home, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.Mkdir(filepath.Join(home, "Downloads"), 0o755))

	ws := dialTestServer(t, home, nil, nil)

	resp := roundTrip(t, ws, Request{Op: "browse_directory", Seq: 6, Path: home})
	assert.True(t, resp.OK)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Downloads", resp.Results[0].Name)
}

func TestServer_LaunchDeniedOutsideAllowlist(t *testing.T) {
	ws := dialTestServer(t, t.TempDir(), nil, nil)

	resp := roundTrip(t, ws, Request{Op: "launch_app", Seq: 7, Exec: "/tmp/evil"})
	assert.False(t, resp.OK)
	assert.True(t, resp.Denied)
}

func TestServer_GetIndexSize(t *testing.T) {
	apps := []index.Entry{
		{Name: "A", Exec: "/usr/bin/a", Kind: index.KindApp},
		{Name: "B", Exec: "/usr/bin/b", Kind: index.KindApp},
	}
	ws := dialTestServer(t, t.TempDir(), apps, nil)

	resp := roundTrip(t, ws, Request{Op: "get_index_size", Seq: 8})
	assert.True(t, resp.OK)
	assert.Equal(t, 2, resp.Count)
}

func TestServer_UnknownOp(t *testing.T) {
	ws := dialTestServer(t, t.TempDir(), nil, nil)

	resp := roundTrip(t, ws, Request{Op: "bogus", Seq: 9})
	assert.False(t, resp.OK)
	assert.Contains(t, resp.Error, "unknown op")
}
