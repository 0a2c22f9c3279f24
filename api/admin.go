package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/darasalabs/darasa/core/session"
	"github.com/darasalabs/darasa/transport"
)

// AdminAPI covers the admin screens: user management, audit logs, analytics.
type AdminAPI struct {
	client *transport.Client
}

func NewAdminAPI(client *transport.Client) *AdminAPI {
	return &AdminAPI{client: client}
}

func (a *AdminAPI) QueryUsers(ctx context.Context) ([]session.User, error) {
	var users []session.User
	if err := a.client.Get(ctx, "/admin/users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (a *AdminAPI) GetUser(ctx context.Context, id string) (session.User, error) {
	var usr session.User
	if err := a.client.Get(ctx, "/admin/users/"+url.PathEscape(id), &usr); err != nil {
		return session.User{}, err
	}
	return usr, nil
}

// UpdateUser applies a partial update and returns the fresh record; the
// caller is expected to merge it into the session if it is the current user.
func (a *AdminAPI) UpdateUser(ctx context.Context, id string, update map[string]interface{}) (session.User, error) {
	var usr session.User
	if err := a.client.Patch(ctx, "/admin/users/"+url.PathEscape(id), update, &usr); err != nil {
		return session.User{}, err
	}
	return usr, nil
}

func (a *AdminAPI) DeleteUser(ctx context.Context, id string) error {
	return a.client.Delete(ctx, "/admin/users/"+url.PathEscape(id))
}

// QueryAudit pages through the audit log, newest first.
func (a *AdminAPI) QueryAudit(ctx context.Context, limit int) ([]AuditEntry, error) {
	path := "/admin/audit"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var entries []AuditEntry
	if err := a.client.Get(ctx, path, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (a *AdminAPI) Analytics(ctx context.Context) (AnalyticsSummary, error) {
	var summary AnalyticsSummary
	if err := a.client.Get(ctx, "/admin/analytics", &summary); err != nil {
		return AnalyticsSummary{}, err
	}
	return summary, nil
}
