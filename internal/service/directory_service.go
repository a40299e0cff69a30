package service

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/go-ldap/ldap/v3"
	"go.uber.org/zap"

	"github.com/teamcal/teamcal-api/internal/models"
	"github.com/teamcal/teamcal-api/pkg/config"
	appErrors "github.com/teamcal/teamcal-api/pkg/errors"
)

// DirectoryIdentity is the attribute set read from the directory after a
// successful bind. TeamName is the directory's team label, resolved to a
// local team record during shadow provisioning.
type DirectoryIdentity struct {
	Username string
	Role     models.UserRole
	TeamName string
}

// directoryConn is the slice of *ldap.Conn the service uses; tests
// substitute a fake.
type directoryConn interface {
	Bind(username, password string) error
	Search(req *ldap.SearchRequest) (*ldap.SearchResult, error)
	Close() error
}

// DirectoryService authenticates credentials against an LDAP directory.
type DirectoryService struct {
	cfg    config.LDAPConfig
	logger *zap.Logger
	dial   func(ctx context.Context) (directoryConn, error)
}

// NewDirectoryService constructs a DirectoryService dialing the
// configured LDAP URL.
func NewDirectoryService(cfg config.LDAPConfig, logger *zap.Logger) *DirectoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &DirectoryService{cfg: cfg, logger: logger}
	svc.dial = func(ctx context.Context) (directoryConn, error) {
		dialer := &net.Dialer{Timeout: cfg.DialTimeout}
		if deadline, ok := ctx.Deadline(); ok {
			dialer.Deadline = deadline
		}
		conn, err := ldap.DialURL(cfg.URL, ldap.DialWithDialer(dialer))
		if err != nil {
			return nil, err
		}
		return conn, nil
	}
	return svc
}

// Authenticate performs a search-then-bind against the directory and
// returns the identity attributes on success. Unknown users and bad
// passwords both collapse into the generic credentials error.
func (s *DirectoryService) Authenticate(ctx context.Context, username, password string) (*DirectoryIdentity, error) {
	if !s.cfg.Enabled {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid username or password")
	}
	if password == "" {
		// An empty password would be an unauthenticated (anonymous)
		// bind, which some servers accept.
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid username or password")
	}

	conn, err := s.dial(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "directory unavailable")
	}
	defer conn.Close()

	filter := fmt.Sprintf(s.cfg.UserFilter, ldap.EscapeFilter(username))
	searchReq := ldap.NewSearchRequest(
		s.cfg.BaseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		1, int(s.cfg.DialTimeout/time.Second), false,
		filter,
		[]string{"dn", s.cfg.RoleAttr, s.cfg.TeamAttr},
		nil,
	)

	result, err := conn.Search(searchReq)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "directory search failed")
	}
	if len(result.Entries) != 1 {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid username or password")
	}

	entry := result.Entries[0]
	if err := conn.Bind(entry.DN, password); err != nil {
		s.logger.Debug("directory bind rejected", zap.String("username", username))
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid username or password")
	}

	role := models.RoleUser
	if entry.GetAttributeValue(s.cfg.RoleAttr) == s.cfg.AdminRole {
		role = models.RoleAdmin
	}

	return &DirectoryIdentity{
		Username: username,
		Role:     role,
		TeamName: entry.GetAttributeValue(s.cfg.TeamAttr),
	}, nil
}
