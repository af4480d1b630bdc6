package web

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"schoolhub/restapi"
)

type usersView struct {
	Users       []restapi.User
	Roles       []restapi.Role
	Permissions []restapi.Permission
	Editing     *restapi.User
}

func (s *server) renderUsers(c echo.Context, d *pageData) error {
	ctx := c.Request().Context()
	sess := CurrentSession(c)
	st := s.states.get(sess.Token)
	st.mu.Lock()
	defer st.mu.Unlock()

	if !st.users.Fresh() {
		if users, err := s.opts.Sessions.Users(ctx, sess.Token); err != nil {
			s.logReadError(c, "users", err)
			d.LoadError = "Could not load users."
		} else {
			st.users.Load(users)
		}
	}

	roles, err := s.opts.API.Roles(ctx, sess.Token)
	if err != nil {
		s.logReadError(c, "roles", err)
	}
	perms, err := s.opts.API.Permissions(ctx, sess.Token)
	if err != nil {
		s.logReadError(c, "permissions", err)
	}

	view := usersView{
		Users:       st.users.Filter(d.Search),
		Roles:       roles,
		Permissions: perms,
	}
	if id, _ := strconv.Atoi(c.QueryParam("edit")); id != 0 {
		items := st.users.Items()
		for i := range items {
			if items[i].UserID == id {
				view.Editing = &items[i]
				break
			}
		}
	}

	d.Data = view
	return c.Render(http.StatusOK, "users", d)
}

// saveUser creates an account or patches an existing one. A hidden user_id
// selects the patch path; blank patch fields are left untouched server-side.
func (s *server) saveUser(c echo.Context) error {
	d := s.newPageData(c, usersTab, 1)
	ctx := c.Request().Context()
	sess := CurrentSession(c)
	st := s.states.get(sess.Token)

	if id := formInt(c, "user_id"); id != 0 {
		patch := restapi.UserPatch{
			Username: c.FormValue("username"),
			Password: c.FormValue("password"),
			Role:     c.FormValue("role"),
			Email:    c.FormValue("email"),
			IsActive: c.FormValue("is_active") == "on" || c.FormValue("is_active") == "1",
		}
		if err := s.opts.Sessions.UpdateUser(ctx, sess.Token, id, patch); err != nil {
			s.flashWriteError(c, err, "Failed to update user")
			return s.redirectTab(c, usersTab)
		}
		st.mu.Lock()
		st.users.Invalidate()
		st.mu.Unlock()
		s.cookies.Flash(c, "success", "User updated successfully!")
		return s.redirectTab(c, usersTab)
	}

	if !requireFields(c, d, "username", "role", "password") {
		return s.renderUsers(c, d)
	}
	nu := restapi.NewUser{
		Username: c.FormValue("username"),
		Password: c.FormValue("password"),
		Role:     c.FormValue("role"),
		Email:    c.FormValue("email"),
		IsActive: true,
	}
	if err := s.opts.API.CreateUser(ctx, sess.Token, nu); err != nil {
		s.flashWriteError(c, err, "Failed to create user")
		return s.redirectTab(c, usersTab)
	}
	st.mu.Lock()
	st.users.Invalidate()
	st.mu.Unlock()
	s.cookies.Flash(c, "success", "User created successfully!")
	return s.redirectTab(c, usersTab)
}

// assignUserRole grants an additional role to an account.
func (s *server) assignUserRole(c echo.Context) error {
	link := restapi.UserRole{
		UserID: formInt(c, "user_id"),
		RoleID: formInt(c, "role_id"),
	}
	if link.UserID == 0 || link.RoleID == 0 {
		s.cookies.Flash(c, "error", "Select a user and a role")
		return s.redirectTab(c, usersTab)
	}

	sess := CurrentSession(c)
	if err := s.opts.API.AssignUserRole(c.Request().Context(), sess.Token, link); err != nil {
		s.flashWriteError(c, err, "Failed to assign role")
		return s.redirectTab(c, usersTab)
	}
	st := s.states.get(sess.Token)
	st.mu.Lock()
	st.users.Invalidate()
	st.mu.Unlock()
	s.cookies.Flash(c, "success", "Role assigned successfully!")
	return s.redirectTab(c, usersTab)
}

// assignRolePermission grants a permission to a role.
func (s *server) assignRolePermission(c echo.Context) error {
	link := restapi.RolePermission{
		RoleID:       formInt(c, "role_id"),
		PermissionID: formInt(c, "permission_id"),
	}
	if link.RoleID == 0 || link.PermissionID == 0 {
		s.cookies.Flash(c, "error", "Select a role and a permission")
		return s.redirectTab(c, usersTab)
	}

	sess := CurrentSession(c)
	if err := s.opts.API.AssignRolePermission(c.Request().Context(), sess.Token, link); err != nil {
		s.flashWriteError(c, err, "Failed to grant permission")
		return s.redirectTab(c, usersTab)
	}
	s.cookies.Flash(c, "success", "Permission granted successfully!")
	return s.redirectTab(c, usersTab)
}

func (s *server) deleteUser(c echo.Context) error {
	id := formInt(c, "user_id")
	if id == 0 {
		return s.redirectTab(c, usersTab)
	}
	if !confirmed(c) {
		return s.renderConfirm(c, "/dashboard/users/delete",
			"Are you sure you want to delete this user?",
			map[string]string{"user_id": strconv.Itoa(id)})
	}

	sess := CurrentSession(c)
	if id == sess.User.UserID {
		s.cookies.Flash(c, "error", "You cannot delete your own account")
		return s.redirectTab(c, usersTab)
	}
	if err := s.opts.Sessions.DeleteUser(c.Request().Context(), sess.Token, id); err != nil {
		s.flashWriteError(c, err, "Failed to delete user")
		return s.redirectTab(c, usersTab)
	}
	st := s.states.get(sess.Token)
	st.mu.Lock()
	st.users.Deleted(id)
	st.mu.Unlock()
	s.cookies.Flash(c, "success", "User deleted successfully!")
	return s.redirectTab(c, usersTab)
}
