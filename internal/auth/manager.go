package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
)

// State is the session manager's lifecycle position. Denied is transient:
// a role-gate rejection passes through it on the way back to Unauthenticated.
type State int

const (
	StateUnauthenticated State = iota
	StateResolvingRoles
	StateAuthenticated
	StateDenied
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateResolvingRoles:
		return "resolving_roles"
	case StateAuthenticated:
		return "authenticated"
	case StateDenied:
		return "denied"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// RequestedRole names the login surface being used.
type RequestedRole string

const (
	RoleAdmin  RequestedRole = "admin"
	RoleViewer RequestedRole = "viewer"
)

var (
	ErrNotAuthorizedAdmin  = errors.New("Not authorized as admin")
	ErrNotAuthorizedViewer = errors.New("Not authorized as viewer")
	ErrUnknownRole         = errors.New("unknown requested role")
)

// Landing and login paths per role surface.
const (
	adminLandingPath  = "/admin/dashboard"
	viewerLandingPath = "/viewer/contacts"
	adminLoginPath    = "/admin/login"
	viewerLoginPath   = "/viewer/login"
	homePath          = "/"
)

// LoginResult is handed back to the HTTP layer on successful login.
type LoginResult struct {
	SessionID string
	User      UserInfo
	Flags     RoleFlags
	Redirect  string
}

// Snapshot is a read-only projection of the manager's current state.
type Snapshot struct {
	State State
	User  UserInfo
	Flags RoleFlags
}

// Manager owns the process-wide authentication state: the current session,
// its user, and the derived role flags. It is the single writer; everything
// else reads through Snapshot. Session-change notifications are queued and
// handled on the Run loop so the notifying callback never re-enters the
// auth service synchronously.
type Manager struct {
	creds CredentialService
	roles RoleChecker
	prov  Provisioner

	mu             sync.Mutex
	state          State
	sessionID      string
	user           UserInfo
	flags          RoleFlags
	provisionedFor string

	events chan string // session IDs pending role resolution
	wg     sync.WaitGroup
}

// NewManager starts in ResolvingRoles: callers are expected to run
// RestoreSession (directly or via Run) to settle the initial state.
func NewManager(creds CredentialService, roles RoleChecker, prov Provisioner) *Manager {
	return &Manager{
		creds:  creds,
		roles:  roles,
		prov:   prov,
		state:  StateResolvingRoles,
		events: make(chan string, 16),
	}
}

// Run consumes queued session-change events until ctx is done. The initial
// startup check (no stored session) settles the manager to Unauthenticated.
func (m *Manager) Run(ctx context.Context) {
	m.RestoreSession(ctx, m.currentSessionID())

	for {
		select {
		case <-ctx.Done():
			return
		case sessionID := <-m.events:
			m.RestoreSession(ctx, sessionID)
		}
	}
}

// NotifySessionChange enqueues a deferred role re-resolution for the given
// session. It never resolves inline, so it is safe to call from an auth
// change callback.
func (m *Manager) NotifySessionChange(sessionID string) {
	select {
	case m.events <- sessionID:
	default:
		// Queue full: the pending resolutions will already observe the
		// latest session state, so dropping is safe.
		log.Println("auth: session-change queue full, dropping notification")
	}
}

// RestoreSession re-resolves identity and roles for sessionID. An empty or
// invalid session settles to Unauthenticated; a valid one to Authenticated
// with freshly computed flags.
func (m *Manager) RestoreSession(ctx context.Context, sessionID string) {
	m.setState(StateResolvingRoles)

	if sessionID == "" {
		m.clear()
		return
	}

	user, err := m.creds.Restore(ctx, sessionID)
	if err != nil {
		m.clear()
		return
	}

	flags := ResolveRoles(ctx, m.roles, user.ID)
	m.commit(sessionID, user, flags)
}

// Login performs the credential exchange and role gate for one login surface.
// Valid credentials with the wrong role force an immediate sign-out: the
// session must not outlive a login the UI won't honor.
func (m *Manager) Login(ctx context.Context, email, password string, requested RequestedRole) (LoginResult, error) {
	if requested != RoleAdmin && requested != RoleViewer {
		return LoginResult{}, ErrUnknownRole
	}

	sessionID, user, err := m.creds.SignIn(ctx, email, password)
	if err != nil {
		return LoginResult{}, err
	}

	m.setState(StateResolvingRoles)
	flags := ResolveRoles(ctx, m.roles, user.ID)

	var denied error
	switch {
	case requested == RoleAdmin && !flags.IsAdmin:
		denied = ErrNotAuthorizedAdmin
	case requested == RoleViewer && !flags.IsViewer:
		denied = ErrNotAuthorizedViewer
	}

	if denied != nil {
		m.setState(StateDenied)
		if err := m.creds.SignOut(ctx, sessionID); err != nil {
			log.Println("auth: forced sign-out failed:", err)
		}
		m.clear()
		return LoginResult{}, denied
	}

	m.commit(sessionID, user, flags)

	redirect := viewerLandingPath
	if requested == RoleAdmin {
		redirect = adminLandingPath
	}
	return LoginResult{SessionID: sessionID, User: user, Flags: flags, Redirect: redirect}, nil
}

// Logout signs out the given session and reports the login surface the
// caller should land on: the one matching the roles that session held. The
// manager clears its own state only when it was tracking that session, so
// one client's logout never disturbs another's.
func (m *Manager) Logout(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return homePath, nil
	}

	var flags RoleFlags
	if user, err := m.creds.Restore(ctx, sessionID); err == nil {
		flags = ResolveRoles(ctx, m.roles, user.ID)
	}

	if err := m.creds.SignOut(ctx, sessionID); err != nil {
		return "", err
	}

	m.mu.Lock()
	owned := m.sessionID == sessionID
	m.mu.Unlock()
	if owned {
		m.clear()
	}

	switch {
	case flags.IsAdmin:
		return adminLoginPath, nil
	case flags.IsViewer:
		return viewerLoginPath, nil
	default:
		return homePath, nil
	}
}

// Snapshot returns the current state for read-only consumers.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{State: m.state, User: m.user, Flags: m.flags}
}

// Wait blocks until in-flight fire-and-forget work (provisioning) finishes.
// Test hook; production callers never need it.
func (m *Manager) Wait() {
	m.wg.Wait()
}

func (m *Manager) currentSessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionID
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

func (m *Manager) clear() {
	m.mu.Lock()
	m.state = StateUnauthenticated
	m.sessionID = ""
	m.user = UserInfo{}
	m.flags = RoleFlags{}
	m.mu.Unlock()
}

// commit publishes an authenticated session and, on the first super-admin
// sighting for that session, fires the one-time provisioning call.
func (m *Manager) commit(sessionID string, user UserInfo, flags RoleFlags) {
	m.mu.Lock()
	m.state = StateAuthenticated
	m.sessionID = sessionID
	m.user = user
	m.flags = flags

	provision := flags.IsSuperAdmin && m.provisionedFor != sessionID
	if provision {
		m.provisionedFor = sessionID
	}
	m.mu.Unlock()

	if provision {
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			// Fire and forget: outcome never blocks or surfaces to the user.
			if err := m.prov.SetupUsersView(context.Background()); err != nil {
				log.Println("auth: setup-users-view failed:", err)
			}
		}()
	}
}
