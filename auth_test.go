package streambase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darhlilove/streambase"
)

func TestAuther_LoginSuccess(t *testing.T) {
	api := &fakeAuthAPI{loginResult: userResult("42", "Jane", "jane@example.com", "tok-1")}
	tokens := streambase.NewMemoryTokenStore()
	auther := streambase.NewAuther(api, streambase.NewSessionStore(), tokens)

	err := auther.Login(context.Background(), streambase.LoginPayload{
		Email:      "jane@example.com",
		Password:   "secret",
		RememberMe: true,
	})
	require.NoError(t, err)

	assert.True(t, auther.IsLoggedIn())
	assert.False(t, auther.IsAdminLoggedIn())
	assert.Equal(t, streambase.StateUser, auther.State())
	assert.Equal(t, "tok-1", auther.Token())

	principal := auther.Sessions().Principal()
	assert.True(t, principal.IsUser())
	assert.Equal(t, "42", principal.ID)

	persisted := tokens.Load()
	require.NotNil(t, persisted)
	assert.Equal(t, streambase.KindUser, persisted.Kind)
}

func TestAuther_LoginWithoutRememberMeIsSessionOnly(t *testing.T) {
	api := &fakeAuthAPI{loginResult: userResult("42", "Jane", "jane@example.com", "tok-1")}
	tokens := streambase.NewMemoryTokenStore()
	auther := streambase.NewAuther(api, streambase.NewSessionStore(), tokens)

	require.NoError(t, auther.Login(context.Background(), streambase.LoginPayload{
		Email:    "jane@example.com",
		Password: "secret",
	}))

	assert.True(t, auther.IsLoggedIn())
	assert.Nil(t, tokens.Load())
}

func TestAuther_LoginFailureStaysLoggedOut(t *testing.T) {
	api := &fakeAuthAPI{loginErr: streambase.ErrInvalidCredentials}
	auther := streambase.NewAuther(api, streambase.NewSessionStore(), streambase.NewMemoryTokenStore())

	err := auther.Login(context.Background(), streambase.LoginPayload{
		Email:    "jane@example.com",
		Password: "wrong",
	})

	require.Error(t, err)
	assert.True(t, streambase.IsCredentialError(err))
	assert.False(t, auther.IsLoggedIn())
	assert.Equal(t, streambase.StateLoggedOut, auther.State())
	assert.True(t, auther.Sessions().Principal().IsNone())
}

func TestAuther_LoginValidatesPayload(t *testing.T) {
	api := &fakeAuthAPI{}
	auther := streambase.NewAuther(api, streambase.NewSessionStore(), streambase.NewMemoryTokenStore())

	err := auther.Login(context.Background(), streambase.LoginPayload{Email: "not-an-email", Password: "x"})
	require.Error(t, err)
	assert.Equal(t, 0, api.loginCalls, "invalid form never reaches the network")
}

func TestAuther_LoginWrapsUntypedErrors(t *testing.T) {
	api := &fakeAuthAPI{loginErr: errors.New("connection refused")}
	auther := streambase.NewAuther(api, streambase.NewSessionStore(), streambase.NewMemoryTokenStore())

	err := auther.Login(context.Background(), streambase.LoginPayload{
		Email:    "jane@example.com",
		Password: "secret",
	})

	require.Error(t, err)
	assert.True(t, streambase.IsNetworkError(err))
}

func TestAuther_AdminLoginSuccess(t *testing.T) {
	api := &fakeAuthAPI{adminLoginResult: adminResult("7", "Root", "root@example.com", "tok-a", 2)}
	auther := streambase.NewAuther(api, streambase.NewSessionStore(), streambase.NewMemoryTokenStore())

	err := auther.LoginAdmin(context.Background(), streambase.AdminLoginPayload{
		Email:    "root@example.com",
		Password: "secret",
		PIN:      "4242",
	})
	require.NoError(t, err)

	assert.True(t, auther.IsAdminLoggedIn())
	assert.False(t, auther.IsLoggedIn(), "admin and user sessions are mutually exclusive")
	assert.Equal(t, "4242", api.lastPIN)
}

func TestAuther_PredicatesNeverBothTrue(t *testing.T) {
	api := &fakeAuthAPI{
		loginResult:      userResult("42", "Jane", "jane@example.com", "tok-u"),
		adminLoginResult: adminResult("7", "Root", "root@example.com", "tok-a", 2),
	}
	auther := streambase.NewAuther(api, streambase.NewSessionStore(), streambase.NewMemoryTokenStore())
	ctx := context.Background()

	require.NoError(t, auther.Login(ctx, streambase.LoginPayload{Email: "jane@example.com", Password: "pw"}))
	assert.False(t, auther.IsLoggedIn() && auther.IsAdminLoggedIn())

	require.NoError(t, auther.LoginAdmin(ctx, streambase.AdminLoginPayload{Email: "root@example.com", Password: "pw", PIN: "4242"}))
	assert.False(t, auther.IsLoggedIn() && auther.IsAdminLoggedIn())
	assert.True(t, auther.IsAdminLoggedIn())
}

func TestAuther_LogoutClearsEverything(t *testing.T) {
	api := &fakeAuthAPI{loginResult: userResult("42", "Jane", "jane@example.com", "tok-1")}
	tokens := streambase.NewMemoryTokenStore()
	sink := &recordingSink{}
	auther := streambase.NewAuther(api, streambase.NewSessionStore(), tokens).
		WithActivitySink(sink)

	require.NoError(t, auther.Login(context.Background(), streambase.LoginPayload{
		Email:      "jane@example.com",
		Password:   "secret",
		RememberMe: true,
	}))

	auther.Logout(context.Background())

	assert.False(t, auther.IsLoggedIn())
	assert.Equal(t, "", auther.Token())
	assert.True(t, auther.Sessions().Principal().IsNone())
	assert.Nil(t, tokens.Load())
	assert.Contains(t, sink.types(), streambase.ActivityEventLogout)

	// Idempotent: a second logout emits nothing new.
	before := len(sink.types())
	auther.Logout(context.Background())
	assert.Equal(t, before, len(sink.types()))
}

func TestAuther_UserLoginStartsPollingAndLogoutStopsIt(t *testing.T) {
	api := &fakeAuthAPI{loginResult: userResult("42", "Jane", "jane@example.com", "tok-1")}
	notifications := newFakeNotificationAPI()
	poller := streambase.NewPoller(notifications, nil).WithInterval(10 * time.Millisecond)

	auther := streambase.NewAuther(api, streambase.NewSessionStore(), streambase.NewMemoryTokenStore()).
		WithPoller(poller)

	require.NoError(t, auther.Login(context.Background(), streambase.LoginPayload{
		Email:    "jane@example.com",
		Password: "secret",
	}))

	select {
	case userID := <-notifications.fetchSignal:
		assert.Equal(t, "42", userID)
	case <-time.After(time.Second):
		t.Fatal("poller never fetched after user login")
	}
	assert.True(t, poller.Active())

	auther.Logout(context.Background())
	assert.False(t, poller.Active())

	// No further fetches after logout returns.
	settled := notifications.calls()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, notifications.calls())
}

func TestAuther_AdminLoginDoesNotStartPolling(t *testing.T) {
	api := &fakeAuthAPI{adminLoginResult: adminResult("7", "Root", "root@example.com", "tok-a", 2)}
	notifications := newFakeNotificationAPI()
	poller := streambase.NewPoller(notifications, nil).WithInterval(10 * time.Millisecond)

	auther := streambase.NewAuther(api, streambase.NewSessionStore(), streambase.NewMemoryTokenStore()).
		WithPoller(poller)

	require.NoError(t, auther.LoginAdmin(context.Background(), streambase.AdminLoginPayload{
		Email:    "root@example.com",
		Password: "secret",
		PIN:      "4242",
	}))

	assert.False(t, poller.Active())
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 0, notifications.calls())
}

func TestAuther_RegisterLeavesSessionUntouched(t *testing.T) {
	api := &fakeAuthAPI{}
	sink := &recordingSink{}
	auther := streambase.NewAuther(api, streambase.NewSessionStore(), streambase.NewMemoryTokenStore()).
		WithActivitySink(sink)

	err := auther.Register(context.Background(), streambase.Registration{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Password:  "long-password",
		Confirm:   "long-password",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, api.registerCalls)
	assert.False(t, auther.IsLoggedIn(), "registration never signs the caller in")
	assert.Equal(t, streambase.StateLoggedOut, auther.State())
	assert.Contains(t, sink.types(), streambase.ActivityEventRegister)
}

func TestAuther_DeleteProfile(t *testing.T) {
	api := &fakeAuthAPI{loginResult: userResult("42", "Jane", "jane@example.com", "tok-1")}
	tokens := streambase.NewMemoryTokenStore()
	auther := streambase.NewAuther(api, streambase.NewSessionStore(), tokens)
	ctx := context.Background()

	require.NoError(t, auther.Login(ctx, streambase.LoginPayload{
		Email:      "jane@example.com",
		Password:   "secret",
		RememberMe: true,
	}))

	require.NoError(t, auther.DeleteProfile(ctx, "secret"))

	assert.False(t, auther.IsLoggedIn())
	assert.Nil(t, tokens.Load())
	assert.Equal(t, "tok-1", api.lastToken, "deletion authenticates with the session token")
}

func TestAuther_DeleteProfileFailureKeepsSession(t *testing.T) {
	api := &fakeAuthAPI{
		loginResult: userResult("42", "Jane", "jane@example.com", "tok-1"),
		deleteErr:   streambase.ErrInvalidCredentials,
	}
	auther := streambase.NewAuther(api, streambase.NewSessionStore(), streambase.NewMemoryTokenStore())
	ctx := context.Background()

	require.NoError(t, auther.Login(ctx, streambase.LoginPayload{Email: "jane@example.com", Password: "pw"}))

	err := auther.DeleteProfile(ctx, "wrong")
	require.Error(t, err)
	assert.True(t, auther.IsLoggedIn(), "failed deletion leaves the session unchanged")
}

func TestAuther_DeleteProfileRequiresSession(t *testing.T) {
	auther := streambase.NewAuther(&fakeAuthAPI{}, streambase.NewSessionStore(), streambase.NewMemoryTokenStore())

	err := auther.DeleteProfile(context.Background(), "pw")
	assert.ErrorIs(t, err, streambase.ErrNotSignedIn)
}

func TestAuther_RestoreSeedsSessionBeforeGuards(t *testing.T) {
	tokens := streambase.NewMemoryTokenStore()
	tokens.Save(streambase.PersistedToken{
		Token:     "tok-persisted",
		Kind:      streambase.KindUser,
		Principal: streambase.NewUserPrincipal("42", "Jane", "jane@example.com", []string{"member"}),
	}, true)

	auther := streambase.NewAuther(&fakeAuthAPI{}, streambase.NewSessionStore(), tokens)
	principal := auther.Restore(context.Background())

	assert.True(t, principal.IsUser())
	assert.True(t, auther.IsLoggedIn())
	assert.Equal(t, "tok-persisted", auther.Token())

	decision := streambase.UserGuard(auther, "/profile")
	assert.True(t, decision.Allowed, "a valid persisted token must be visible to the first guard")
}

func TestAuther_RestoreAdminToken(t *testing.T) {
	tokens := streambase.NewMemoryTokenStore()
	tokens.Save(streambase.PersistedToken{
		Token:     "tok-admin",
		Kind:      streambase.KindAdmin,
		Principal: streambase.NewAdminPrincipal("7", "Root", "root@example.com", 2),
	}, true)

	auther := streambase.NewAuther(&fakeAuthAPI{}, streambase.NewSessionStore(), tokens)
	auther.Restore(context.Background())

	assert.True(t, auther.IsAdminLoggedIn())
	assert.False(t, auther.IsLoggedIn())
}

func TestAuther_RestoreKindMismatchDiscardsToken(t *testing.T) {
	tokens := streambase.NewMemoryTokenStore()
	tokens.Save(streambase.PersistedToken{
		Token:     "tok-weird",
		Kind:      streambase.KindAdmin,
		Principal: streambase.NewUserPrincipal("42", "Jane", "jane@example.com", nil),
	}, true)

	auther := streambase.NewAuther(&fakeAuthAPI{}, streambase.NewSessionStore(), tokens)

	assert.NotPanics(t, func() {
		principal := auther.Restore(context.Background())
		assert.True(t, principal.IsNone())
	})
	assert.False(t, auther.IsLoggedIn())
	assert.False(t, auther.IsAdminLoggedIn())
	assert.Nil(t, tokens.Load(), "mismatched token is purged")
}

func TestAuther_RestoreWithEmptyStore(t *testing.T) {
	auther := streambase.NewAuther(&fakeAuthAPI{}, streambase.NewSessionStore(), streambase.NewMemoryTokenStore())

	principal := auther.Restore(context.Background())

	assert.True(t, principal.IsNone())
	assert.Equal(t, streambase.StateLoggedOut, auther.State())
}

func TestAuther_UserLoginReplacesPersistedAdminToken(t *testing.T) {
	tokens := streambase.NewMemoryTokenStore()
	tokens.Save(streambase.PersistedToken{
		Token:     "tok-admin",
		Kind:      streambase.KindAdmin,
		Principal: streambase.NewAdminPrincipal("7", "Root", "root@example.com", 2),
	}, true)

	api := &fakeAuthAPI{loginResult: userResult("42", "Jane", "jane@example.com", "tok-user")}
	auther := streambase.NewAuther(api, streambase.NewSessionStore(), tokens)

	require.NoError(t, auther.Login(context.Background(), streambase.LoginPayload{
		Email:      "jane@example.com",
		Password:   "pw",
		RememberMe: true,
	}))

	persisted := tokens.Load()
	require.NotNil(t, persisted)
	assert.Equal(t, streambase.KindUser, persisted.Kind, "single storage slot: user login replaces admin token")
	assert.Equal(t, "tok-user", persisted.Token)
}
