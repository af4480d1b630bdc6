package restapi

import (
	"context"
	"fmt"
	"net/http"
)

func (c *Client) Users(ctx context.Context, token string) ([]User, error) {
	var users []User
	err := c.do(ctx, token, http.MethodGet, "/api/users", nil, &users)
	return users, err
}

func (c *Client) CreateUser(ctx context.Context, token string, nu NewUser) error {
	return c.do(ctx, token, http.MethodPost, "/api/users", nu, nil)
}

func (c *Client) UpdateUser(ctx context.Context, token string, id int, patch UserPatch) error {
	return c.do(ctx, token, http.MethodPatch, fmt.Sprintf("/api/users/%d", id), patch, nil)
}

func (c *Client) DeleteUser(ctx context.Context, token string, id int) error {
	return c.do(ctx, token, http.MethodDelete, fmt.Sprintf("/api/users/%d", id), nil, nil)
}

func (c *Client) Roles(ctx context.Context, token string) ([]Role, error) {
	var roles []Role
	err := c.do(ctx, token, http.MethodGet, "/api/roles", nil, &roles)
	return roles, err
}

func (c *Client) Permissions(ctx context.Context, token string) ([]Permission, error) {
	var perms []Permission
	err := c.do(ctx, token, http.MethodGet, "/api/permissions", nil, &perms)
	return perms, err
}

func (c *Client) AssignRolePermission(ctx context.Context, token string, rp RolePermission) error {
	return c.do(ctx, token, http.MethodPost, "/api/role_permissions", rp, nil)
}

func (c *Client) AssignUserRole(ctx context.Context, token string, ur UserRole) error {
	return c.do(ctx, token, http.MethodPost, "/api/user_roles", ur, nil)
}
