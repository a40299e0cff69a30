package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-ldap/ldap/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/teamcal/teamcal-api/internal/models"
	"github.com/teamcal/teamcal-api/pkg/config"
	appErrors "github.com/teamcal/teamcal-api/pkg/errors"
)

type fakeDirectoryConn struct {
	entries    []*ldap.Entry
	searchErr  error
	bindErr    error
	lastFilter string
	boundDN    string
	closed     bool
}

func (f *fakeDirectoryConn) Bind(username, password string) error {
	f.boundDN = username
	return f.bindErr
}

func (f *fakeDirectoryConn) Search(req *ldap.SearchRequest) (*ldap.SearchResult, error) {
	f.lastFilter = req.Filter
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return &ldap.SearchResult{Entries: f.entries}, nil
}

func (f *fakeDirectoryConn) Close() error {
	f.closed = true
	return nil
}

func directoryTestConfig() config.LDAPConfig {
	return config.LDAPConfig{
		Enabled:    true,
		BaseDN:     "ou=people,dc=example,dc=org",
		UserFilter: "(uid=%s)",
		RoleAttr:   "employeeType",
		TeamAttr:   "departmentNumber",
		AdminRole:  "admin",
	}
}

func directoryEntry(dn string, attrs map[string]string) *ldap.Entry {
	entry := &ldap.Entry{DN: dn}
	for name, value := range attrs {
		entry.Attributes = append(entry.Attributes, &ldap.EntryAttribute{Name: name, Values: []string{value}})
	}
	return entry
}

func newTestDirectory(cfg config.LDAPConfig, conn *fakeDirectoryConn) *DirectoryService {
	svc := NewDirectoryService(cfg, zap.NewNop())
	svc.dial = func(ctx context.Context) (directoryConn, error) {
		return conn, nil
	}
	return svc
}

func TestDirectoryAuthenticate(t *testing.T) {
	conn := &fakeDirectoryConn{entries: []*ldap.Entry{
		directoryEntry("uid=dana,ou=people,dc=example,dc=org", map[string]string{
			"employeeType":     "staff",
			"departmentNumber": "Engineering",
		}),
	}}
	svc := newTestDirectory(directoryTestConfig(), conn)

	identity, err := svc.Authenticate(context.Background(), "dana", "secret")
	require.NoError(t, err)
	assert.Equal(t, "dana", identity.Username)
	assert.Equal(t, models.RoleUser, identity.Role)
	assert.Equal(t, "Engineering", identity.TeamName)
	assert.Equal(t, "(uid=dana)", conn.lastFilter)
	assert.Equal(t, "uid=dana,ou=people,dc=example,dc=org", conn.boundDN)
	assert.True(t, conn.closed)
}

func TestDirectoryAuthenticateAdminRole(t *testing.T) {
	conn := &fakeDirectoryConn{entries: []*ldap.Entry{
		directoryEntry("uid=root,ou=people,dc=example,dc=org", map[string]string{
			"employeeType": "admin",
		}),
	}}
	svc := newTestDirectory(directoryTestConfig(), conn)

	identity, err := svc.Authenticate(context.Background(), "root", "secret")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, identity.Role)
}

func TestDirectoryAuthenticateUnknownUser(t *testing.T) {
	conn := &fakeDirectoryConn{}
	svc := newTestDirectory(directoryTestConfig(), conn)

	_, err := svc.Authenticate(context.Background(), "ghost", "secret")
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestDirectoryAuthenticateBadPassword(t *testing.T) {
	conn := &fakeDirectoryConn{
		entries: []*ldap.Entry{directoryEntry("uid=dana,ou=people,dc=example,dc=org", nil)},
		bindErr: errors.New("invalid credentials"),
	}
	svc := newTestDirectory(directoryTestConfig(), conn)

	_, err := svc.Authenticate(context.Background(), "dana", "wrong")
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestDirectoryAuthenticateEmptyPassword(t *testing.T) {
	conn := &fakeDirectoryConn{
		entries: []*ldap.Entry{directoryEntry("uid=dana,ou=people,dc=example,dc=org", nil)},
	}
	svc := newTestDirectory(directoryTestConfig(), conn)

	_, err := svc.Authenticate(context.Background(), "dana", "")
	require.Error(t, err)
	assert.Empty(t, conn.boundDN, "an empty password must never reach the directory")
}

func TestDirectoryAuthenticateDisabled(t *testing.T) {
	cfg := directoryTestConfig()
	cfg.Enabled = false
	svc := newTestDirectory(cfg, &fakeDirectoryConn{})

	_, err := svc.Authenticate(context.Background(), "dana", "secret")
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestDirectoryDialHonorsContextDeadline(t *testing.T) {
	cfg := directoryTestConfig()
	cfg.URL = "ldap://203.0.113.1:389"
	cfg.DialTimeout = time.Minute
	svc := NewDirectoryService(cfg, zap.NewNop())

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	start := time.Now()
	_, err := svc.dial(ctx)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second, "an expired deadline must fail the dial immediately")
}

func TestDirectoryAuthenticateEscapesFilterInput(t *testing.T) {
	conn := &fakeDirectoryConn{}
	svc := newTestDirectory(directoryTestConfig(), conn)

	_, _ = svc.Authenticate(context.Background(), "dana)(uid=*", "secret")
	assert.NotContains(t, conn.lastFilter, ")(", "filter metacharacters must be escaped")
}
