package web

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/volatiletech/null/v8"

	"schoolhub/restapi"
)

type teachersView struct {
	Teachers []restapi.Teacher
	Users    []restapi.User
	Classes  []restapi.Class
}

func (s *server) renderTeachers(c echo.Context, d *pageData) error {
	ctx := c.Request().Context()
	sess := CurrentSession(c)
	st := s.states.get(sess.Token)
	st.mu.Lock()
	defer st.mu.Unlock()

	if !st.teachers.Fresh() {
		if teachers, err := s.opts.API.Teachers(ctx, sess.Token); err != nil {
			s.logReadError(c, "teachers", err)
			d.LoadError = "Could not load teachers."
		} else {
			st.teachers.Load(teachers)
		}
	}

	users, err := s.opts.API.Users(ctx, sess.Token)
	if err != nil {
		s.logReadError(c, "users", err)
	}
	classes, err := s.opts.API.Classes(ctx, sess.Token)
	if err != nil {
		s.logReadError(c, "classes", err)
	}

	d.Data = teachersView{
		Teachers: st.teachers.Filter(d.Search),
		Users:    users,
		Classes:  classes,
	}
	return c.Render(http.StatusOK, "teachers", d)
}

func (s *server) saveTeacher(c echo.Context) error {
	d := s.newPageData(c, teachersTab, 1)
	if !requireFields(c, d, "user_id", "first_name", "last_name", "gender") {
		return s.renderTeachers(c, d)
	}

	teacher := restapi.Teacher{
		TeacherID: formInt(c, "teacher_id"),
		UserID:    formInt(c, "user_id"),
		FirstName: c.FormValue("first_name"),
		LastName:  c.FormValue("last_name"),
		Gender:    c.FormValue("gender"),
	}
	if id := formInt(c, "class_id"); id != 0 {
		teacher.ClassID = null.IntFrom(id)
	}
	if v := c.FormValue("phone_number"); v != "" {
		teacher.PhoneNumber = null.StringFrom(v)
	}
	if v := c.FormValue("date_of_birth"); v != "" {
		teacher.DateOfBirth = null.StringFrom(v)
	}

	ctx := c.Request().Context()
	sess := CurrentSession(c)
	st := s.states.get(sess.Token)

	if teacher.TeacherID != 0 {
		updated, err := s.opts.API.UpdateTeacher(ctx, sess.Token, teacher.TeacherID, teacher)
		if err != nil {
			s.flashWriteError(c, err, "Failed to update teacher")
			return s.redirectTab(c, teachersTab)
		}
		st.mu.Lock()
		st.teachers.Updated(updated)
		st.mu.Unlock()
		s.cookies.Flash(c, "success", "Teacher updated successfully!")
	} else {
		created, err := s.opts.API.CreateTeacher(ctx, sess.Token, teacher)
		if err != nil {
			s.flashWriteError(c, err, "Failed to save teacher")
			return s.redirectTab(c, teachersTab)
		}
		st.mu.Lock()
		st.teachers.Created(created)
		st.mu.Unlock()
		s.cookies.Flash(c, "success", "Teacher added successfully!")
	}
	return s.redirectTab(c, teachersTab)
}

func (s *server) deleteTeacher(c echo.Context) error {
	id := formInt(c, "teacher_id")
	if id == 0 {
		return s.redirectTab(c, teachersTab)
	}
	if !confirmed(c) {
		return s.renderConfirm(c, "/dashboard/teachers/delete",
			"Are you sure you want to delete this teacher?",
			map[string]string{"teacher_id": strconv.Itoa(id)})
	}

	sess := CurrentSession(c)
	if err := s.opts.API.DeleteTeacher(c.Request().Context(), sess.Token, id); err != nil {
		s.flashWriteError(c, err, "Failed to delete teacher")
		return s.redirectTab(c, teachersTab)
	}
	st := s.states.get(sess.Token)
	st.mu.Lock()
	st.teachers.Deleted(id)
	st.mu.Unlock()
	s.cookies.Flash(c, "success", "Teacher deleted successfully!")
	return s.redirectTab(c, teachersTab)
}
