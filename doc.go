// Package streambase is the client-side session and authorization core for
// the Streambase movie/TV catalog service.
//
// Session model:
//   - A Principal is either None, a User, or an Admin; never more than one at
//     a time. The SessionStore owns the current Principal and notifies
//     subscribers synchronously, in subscription order, on every change.
//   - A TokenStore persists the auth token between runs. Persistence is
//     best-effort: storage failures degrade to a session-only login, and
//     malformed or expired persisted tokens are treated as absent. The
//     SessionStore is the single source of truth at runtime; the TokenStore
//     is only consulted by Auther.Restore at startup.
//   - User and Admin sessions share a single storage slot. Logging in as one
//     kind replaces any persisted token of the other kind. The upstream
//     service never defined concurrent user+admin sessions, so this package
//     enforces single-active-session semantics.
//
// Route guards:
//   - Guards are pure decision functions over the Auther predicates. They
//     never suspend, never touch the network, and fail closed: an internal
//     error while evaluating a guard denies navigation and redirects to the
//     sign-in page.
//
// Notification polling:
//   - Poller runs a cancellable recurring fetch bound to a user id. At most
//     one handle is active per session; starting a new poll cancels the
//     previous handle, and logout stops polling synchronously.
package streambase
