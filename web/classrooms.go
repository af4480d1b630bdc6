package web

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/volatiletech/null/v8"

	"schoolhub/restapi"
)

type classroomsView struct {
	Classes  []restapi.Class
	Teachers []restapi.Teacher
	Subjects []restapi.Subject
}

func (s *server) renderClassrooms(c echo.Context, d *pageData) error {
	ctx := c.Request().Context()
	sess := CurrentSession(c)
	st := s.states.get(sess.Token)
	st.mu.Lock()
	defer st.mu.Unlock()

	if !st.classes.Fresh() {
		if classes, err := s.opts.API.Classes(ctx, sess.Token); err != nil {
			s.logReadError(c, "classes", err)
			d.LoadError = "Could not load classrooms."
		} else {
			st.classes.Load(classes)
		}
	}

	teachers, err := s.opts.API.Teachers(ctx, sess.Token)
	if err != nil {
		s.logReadError(c, "teachers", err)
	}
	subjects, err := s.opts.API.Subjects(ctx, sess.Token)
	if err != nil {
		s.logReadError(c, "subjects", err)
	}

	d.Data = classroomsView{
		Classes:  st.classes.Filter(d.Search),
		Teachers: teachers,
		Subjects: subjects,
	}
	return c.Render(http.StatusOK, "classrooms", d)
}

func (s *server) saveClassroom(c echo.Context) error {
	d := s.newPageData(c, classroomsTab, 1)
	if !requireFields(c, d, "name") {
		return s.renderClassrooms(c, d)
	}

	class := restapi.Class{
		ID:   formInt(c, "id"),
		Name: c.FormValue("name"),
	}
	if id := formInt(c, "subject_id"); id != 0 {
		class.SubjectID = null.IntFrom(id)
	}
	if id := formInt(c, "teacher_id"); id != 0 {
		class.TeacherID = null.IntFrom(id)
	}
	if v := c.FormValue("schedule_time"); v != "" {
		class.ScheduleTime = null.StringFrom(v)
	}

	ctx := c.Request().Context()
	sess := CurrentSession(c)
	st := s.states.get(sess.Token)

	if class.ID != 0 {
		updated, err := s.opts.API.UpdateClass(ctx, sess.Token, class.ID, class)
		if err != nil {
			s.flashWriteError(c, err, "Failed to update classroom")
			return s.redirectTab(c, classroomsTab)
		}
		st.mu.Lock()
		st.classes.Updated(updated)
		st.mu.Unlock()
		s.cookies.Flash(c, "success", "Classroom updated successfully!")
	} else {
		created, err := s.opts.API.CreateClass(ctx, sess.Token, class)
		if err != nil {
			s.flashWriteError(c, err, "Failed to save classroom")
			return s.redirectTab(c, classroomsTab)
		}
		st.mu.Lock()
		st.classes.Created(created)
		st.mu.Unlock()
		s.cookies.Flash(c, "success", "Classroom added successfully!")
	}
	return s.redirectTab(c, classroomsTab)
}

func (s *server) deleteClassroom(c echo.Context) error {
	id := formInt(c, "id")
	if id == 0 {
		return s.redirectTab(c, classroomsTab)
	}
	if !confirmed(c) {
		return s.renderConfirm(c, "/dashboard/classrooms/delete",
			"Are you sure you want to delete this classroom?",
			map[string]string{"id": strconv.Itoa(id)})
	}

	sess := CurrentSession(c)
	if err := s.opts.API.DeleteClass(c.Request().Context(), sess.Token, id); err != nil {
		s.flashWriteError(c, err, "Failed to delete classroom")
		return s.redirectTab(c, classroomsTab)
	}
	st := s.states.get(sess.Token)
	st.mu.Lock()
	st.classes.Deleted(id)
	st.mu.Unlock()
	s.cookies.Flash(c, "success", "Classroom deleted successfully!")
	return s.redirectTab(c, classroomsTab)
}
