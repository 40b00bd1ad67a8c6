package gitclient_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wanders/git-sleipnir/gitclient"
	"github.com/wanders/git-sleipnir/pktline"
	"github.com/wanders/git-sleipnir/shallow"
)

func TestLsRefsParsesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/repo/git-upload-pack", r.URL.Path)
		require.Equal(t, "version=2", r.Header.Get("Git-Protocol"))

		body, err := pktline.NewWriter().
			AddString("deadbeef refs/heads/main\n").
			AddString("cafef00d refs/tags/v1.0.0 peeled:aaaa1111\n").
			Flush().
			Take()
		require.NoError(t, err)
		w.Write(body)
	}))
	defer srv.Close()

	c, err := gitclient.New(srv.URL + "/repo")
	require.NoError(t, err)

	got, err := c.LsRefs(context.Background(), []string{"refs/heads/", "refs/tags/"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "deadbeef", got[0].SHA)
	require.Equal(t, "refs/heads/main", got[0].Name)
	require.False(t, got[0].IsPeeled)
	require.Equal(t, "aaaa1111", got[1].TargetSHA())
}

func TestLsRefsReturnsUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("nope"))
	}))
	defer srv.Close()

	c, err := gitclient.New(srv.URL)
	require.NoError(t, err)

	_, err = c.LsRefs(context.Background(), []string{"refs/heads/"})
	require.ErrorIs(t, err, gitclient.ErrUnauthorized)
}

func TestNewSplitsUserinfoIntoBasicAuth(t *testing.T) {
	var gotUser, gotPass string
	var ok bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, ok = r.BasicAuth()
		body, _ := pktline.NewWriter().Flush().Take()
		w.Write(body)
	}))
	defer srv.Close()

	c, err := gitclient.New("http://alice:s3cret@" + srv.Listener.Addr().String())
	require.NoError(t, err)

	_, err = c.LsRefs(context.Background(), nil)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "alice", gotUser)
	require.Equal(t, "s3cret", gotPass)

	require.Contains(t, c.MaskedURL(), "XXXXXXXX")
	require.NotContains(t, c.MaskedURL(), "s3cret")
}

func TestFetchStreamsPackAndCollectsShallowDeltas(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := pktline.NewWriter().
			AddString("shallow-info\n").
			AddString("shallow newsha\n").
			AddString("unshallow oldsha\n").
			Delimit().
			AddString("packfile\n").
			Add(append([]byte{1}, []byte("PACKDATA")...)).
			Add(append([]byte{2}, []byte("progress\n")...)).
			Flush().
			Take()
		require.NoError(t, err)
		w.Write(body)
	}))
	defer srv.Close()

	c, err := gitclient.New(srv.URL)
	require.NoError(t, err)

	var pack bytes.Buffer
	result, err := c.Fetch(context.Background(), "deadbeef", []string{"oldsha"}, 51, &pack)
	require.NoError(t, err)
	require.Equal(t, "PACKDATA", pack.String())
	require.Equal(t, []shallow.Delta{
		{Kind: shallow.BecameShallow, SHA: "newsha"},
		{Kind: shallow.BecameUnshallow, SHA: "oldsha"},
	}, result.ShallowDeltas)
}
