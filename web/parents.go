package web

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/volatiletech/null/v8"

	"schoolhub/restapi"
)

type parentsView struct {
	Parents  []restapi.Parent
	Users    []restapi.User
	Students []restapi.Student
}

func (s *server) renderParents(c echo.Context, d *pageData) error {
	ctx := c.Request().Context()
	sess := CurrentSession(c)
	st := s.states.get(sess.Token)
	st.mu.Lock()
	defer st.mu.Unlock()

	if !st.parents.Fresh() {
		if parents, err := s.opts.API.Parents(ctx, sess.Token); err != nil {
			s.logReadError(c, "parents", err)
			d.LoadError = "Could not load parents."
		} else {
			st.parents.Load(parents)
		}
	}

	users, err := s.opts.API.Users(ctx, sess.Token)
	if err != nil {
		s.logReadError(c, "users", err)
	}
	students, err := s.opts.API.Students(ctx, sess.Token)
	if err != nil {
		s.logReadError(c, "students", err)
	}

	d.Data = parentsView{
		Parents:  st.parents.Filter(d.Search),
		Users:    users,
		Students: students,
	}
	return c.Render(http.StatusOK, "parents", d)
}

func (s *server) saveParent(c echo.Context) error {
	d := s.newPageData(c, parentsTab, 1)
	if !requireFields(c, d, "user_id", "first_name", "last_name") {
		return s.renderParents(c, d)
	}

	parent := restapi.Parent{
		UserID:    formInt(c, "user_id"),
		FirstName: c.FormValue("first_name"),
		LastName:  c.FormValue("last_name"),
	}
	if v := c.FormValue("phone_number"); v != "" {
		parent.PhoneNumber = null.StringFrom(v)
	}

	sess := CurrentSession(c)
	created, err := s.opts.API.CreateParent(c.Request().Context(), sess.Token, parent)
	if err != nil {
		s.flashWriteError(c, err, "Failed to save parent")
		return s.redirectTab(c, parentsTab)
	}
	st := s.states.get(sess.Token)
	st.mu.Lock()
	st.parents.Created(created)
	st.mu.Unlock()
	s.cookies.Flash(c, "success", "Parent added successfully!")
	return s.redirectTab(c, parentsTab)
}

// linkParentStudent attaches a parent to one of their children.
func (s *server) linkParentStudent(c echo.Context) error {
	link := restapi.ParentStudent{
		ParentID:  formInt(c, "parent_id"),
		StudentID: formInt(c, "student_id"),
	}
	if link.ParentID == 0 || link.StudentID == 0 {
		s.cookies.Flash(c, "error", "Select a parent and a student")
		return s.redirectTab(c, parentsTab)
	}

	sess := CurrentSession(c)
	if err := s.opts.API.LinkParentStudent(c.Request().Context(), sess.Token, link); err != nil {
		s.flashWriteError(c, err, "Failed to link parent to student")
		return s.redirectTab(c, parentsTab)
	}
	s.cookies.Flash(c, "success", "Parent linked to student!")
	return s.redirectTab(c, parentsTab)
}

func (s *server) deleteParent(c echo.Context) error {
	id := formInt(c, "parent_id")
	if id == 0 {
		return s.redirectTab(c, parentsTab)
	}
	if !confirmed(c) {
		return s.renderConfirm(c, "/dashboard/parents/delete",
			"Are you sure you want to delete this parent?",
			map[string]string{"parent_id": strconv.Itoa(id)})
	}

	sess := CurrentSession(c)
	if err := s.opts.API.DeleteParent(c.Request().Context(), sess.Token, id); err != nil {
		s.flashWriteError(c, err, "Failed to delete parent")
		return s.redirectTab(c, parentsTab)
	}
	st := s.states.get(sess.Token)
	st.mu.Lock()
	st.parents.Deleted(id)
	st.mu.Unlock()
	s.cookies.Flash(c, "success", "Parent deleted successfully!")
	return s.redirectTab(c, parentsTab)
}
