package client_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darhlilove/streambase"
	"github.com/darhlilove/streambase/client"
	"github.com/darhlilove/streambase/mockapi"
)

// startMock wires a client against an in-process mock service.
func startMock(t *testing.T) (*mockapi.Server, *client.Client) {
	t.Helper()

	mock := mockapi.New("integration-test-key")
	srv := httptest.NewServer(mock.Handler())
	t.Cleanup(srv.Close)

	return mock, client.New(srv.URL)
}

func TestIntegration_UserSessionFlow(t *testing.T) {
	mock, c := startMock(t)
	ctx := context.Background()

	userID := mock.SeedUser("Jane Doe", "jane@example.com", "watchlists4ever")
	mock.SeedNotification(userID, "welcome to streambase")

	res, err := c.Login(ctx, "jane@example.com", "watchlists4ever")
	require.NoError(t, err)
	require.True(t, res.Principal.IsUser())
	assert.Equal(t, userID, res.Principal.ID)
	assert.NotEmpty(t, res.Token)
	require.NotNil(t, res.ExpiresAt)

	// All further calls authenticate with the minted token.
	c.WithTokenSource(func() string { return res.Token })

	batch, err := c.Fetch(ctx, userID)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, "welcome to streambase", batch[0].Message)
	assert.False(t, batch[0].Read)

	require.NoError(t, c.MarkRead(ctx, batch[0].ID))

	batch, err = c.Fetch(ctx, userID)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.True(t, batch[0].Read)
}

func TestIntegration_WrongPasswordRejected(t *testing.T) {
	mock, c := startMock(t)
	mock.SeedUser("Jane Doe", "jane@example.com", "watchlists4ever")

	_, err := c.Login(context.Background(), "jane@example.com", "nope")

	require.Error(t, err)
	assert.True(t, streambase.IsCredentialError(err))
}

func TestIntegration_AdminLoginRequiresPIN(t *testing.T) {
	mock, c := startMock(t)
	ctx := context.Background()

	mock.SeedAdmin("Root", "root@example.com", "host-the-show", "4242", 2)

	_, err := c.LoginAdmin(ctx, "root@example.com", "host-the-show", "0000")
	require.Error(t, err)
	assert.True(t, streambase.IsCredentialError(err))

	res, err := c.LoginAdmin(ctx, "root@example.com", "host-the-show", "4242")
	require.NoError(t, err)
	assert.True(t, res.Principal.IsAdmin())
	assert.Equal(t, 2, res.Principal.PrivilegeLevel)
}

func TestIntegration_RegisterThenSignIn(t *testing.T) {
	_, c := startMock(t)
	ctx := context.Background()

	reg := streambase.Registration{
		FirstName: "New",
		LastName:  "Member",
		Email:     "new@example.com",
		Password:  "brand-new-pass",
		Confirm:   "brand-new-pass",
	}
	require.NoError(t, c.Register(ctx, reg))

	// Duplicate registration conflicts.
	err := c.Register(ctx, reg)
	require.Error(t, err)
	assert.False(t, streambase.IsCredentialError(err))

	res, err := c.Login(ctx, "new@example.com", "brand-new-pass")
	require.NoError(t, err)
	assert.True(t, res.Principal.IsUser())
}

func TestIntegration_ListsRoundTrip(t *testing.T) {
	mock, c := startMock(t)
	ctx := context.Background()

	mock.SeedUser("Jane Doe", "jane@example.com", "watchlists4ever")
	res, err := c.Login(ctx, "jane@example.com", "watchlists4ever")
	require.NoError(t, err)
	c.WithTokenSource(func() string { return res.Token })

	movie := client.Movie{ID: "m-1001", Title: "The Long Orbit"}
	require.NoError(t, c.AddToList(ctx, client.ListWatchlist, movie))
	require.NoError(t, c.AddToList(ctx, client.ListWatchlist, movie), "duplicate add is a no-op")

	entries, err := c.ListEntries(ctx, client.ListWatchlist)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "m-1001", entries[0].MovieID)

	require.NoError(t, c.RemoveFromList(ctx, client.ListWatchlist, "m-1001"))

	entries, err = c.ListEntries(ctx, client.ListWatchlist)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestIntegration_RequestLifecycle(t *testing.T) {
	mock, c := startMock(t)
	ctx := context.Background()

	userID := mock.SeedUser("Jane Doe", "jane@example.com", "watchlists4ever")
	mock.SeedAdmin("Root", "root@example.com", "host-the-show", "4242", 2)

	userSession, err := c.Login(ctx, "jane@example.com", "watchlists4ever")
	require.NoError(t, err)
	c.WithTokenSource(func() string { return userSession.Token })

	submitted, err := c.SubmitRequest(ctx, "The Lost Season", "tv", "please add this")
	require.NoError(t, err)
	assert.Equal(t, client.RequestPending, submitted.Status)
	assert.Equal(t, userID, submitted.UserID)

	// Regular users cannot see the review queue.
	_, err = c.AllRequests(ctx)
	require.Error(t, err)

	adminSession, err := c.LoginAdmin(ctx, "root@example.com", "host-the-show", "4242")
	require.NoError(t, err)
	adminCtx := streambase.WithToken(ctx, adminSession.Token)

	queue, err := c.AllRequests(adminCtx)
	require.NoError(t, err)
	require.Len(t, queue, 1)

	require.NoError(t, c.ResolveRequest(adminCtx, submitted.ID, client.RequestApproved))

	mine, err := c.MyRequests(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, client.RequestApproved, mine[0].Status)

	// Resolution notifies the requester.
	batch, err := c.Fetch(ctx, userID)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Contains(t, batch[0].Message, "The Lost Season")
}

func TestIntegration_CatalogSearchAndSimilar(t *testing.T) {
	mock, c := startMock(t)
	ctx := context.Background()

	mock.SeedUser("Jane Doe", "jane@example.com", "watchlists4ever")
	res, err := c.Login(ctx, "jane@example.com", "watchlists4ever")
	require.NoError(t, err)
	c.WithTokenSource(func() string { return res.Token })

	page, err := c.SearchMovies(ctx, "orbit", 1)
	require.NoError(t, err)
	require.NotEmpty(t, page.Results)
	assert.Equal(t, "The Long Orbit", page.Results[0].Title)

	details, err := c.MovieDetails(ctx, page.Results[0].ID)
	require.NoError(t, err)
	assert.Equal(t, page.Results[0].ID, details.ID)

	similar, err := c.SimilarMovies(ctx, details.ID)
	require.NoError(t, err)
	for _, m := range similar {
		assert.NotEqual(t, details.ID, m.ID, "a title is not similar to itself")
	}
}

func TestIntegration_DeleteProfile(t *testing.T) {
	mock, c := startMock(t)
	ctx := context.Background()

	mock.SeedUser("Jane Doe", "jane@example.com", "watchlists4ever")
	res, err := c.Login(ctx, "jane@example.com", "watchlists4ever")
	require.NoError(t, err)

	err = c.DeleteProfile(ctx, res.Token, "wrong-password")
	require.Error(t, err)

	require.NoError(t, c.DeleteProfile(ctx, res.Token, "watchlists4ever"))

	_, err = c.Login(ctx, "jane@example.com", "watchlists4ever")
	require.Error(t, err, "deleted accounts cannot sign in")
}
