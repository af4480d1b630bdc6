package web

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/volatiletech/null/v8"

	"schoolhub/restapi"
)

type subjectsView struct {
	Subjects []restapi.Subject
	Teachers []restapi.Teacher
}

func (s *server) renderSubjects(c echo.Context, d *pageData) error {
	ctx := c.Request().Context()
	sess := CurrentSession(c)
	st := s.states.get(sess.Token)
	st.mu.Lock()
	defer st.mu.Unlock()

	if !st.subjects.Fresh() {
		if subjects, err := s.opts.API.Subjects(ctx, sess.Token); err != nil {
			s.logReadError(c, "subjects", err)
			d.LoadError = "Could not load subjects."
		} else {
			st.subjects.Load(subjects)
		}
	}

	teachers, err := s.opts.API.Teachers(ctx, sess.Token)
	if err != nil {
		s.logReadError(c, "teachers", err)
	}

	d.Data = subjectsView{
		Subjects: st.subjects.Filter(d.Search),
		Teachers: teachers,
	}
	return c.Render(http.StatusOK, "subjects", d)
}

func (s *server) saveSubject(c echo.Context) error {
	d := s.newPageData(c, subjectsTab, 1)
	if !requireFields(c, d, "name", "grade_level") {
		return s.renderSubjects(c, d)
	}

	subject := restapi.Subject{
		SubjectID:  formInt(c, "subject_id"),
		Name:       c.FormValue("name"),
		GradeLevel: c.FormValue("grade_level"),
	}

	ctx := c.Request().Context()
	sess := CurrentSession(c)
	st := s.states.get(sess.Token)

	if subject.SubjectID != 0 {
		updated, err := s.opts.API.UpdateSubject(ctx, sess.Token, subject.SubjectID, subject)
		if err != nil {
			s.flashWriteError(c, err, "Failed to update subject")
			return s.redirectTab(c, subjectsTab)
		}
		st.mu.Lock()
		st.subjects.Updated(updated)
		st.mu.Unlock()
		s.cookies.Flash(c, "success", "Subject updated successfully!")
	} else {
		created, err := s.opts.API.CreateSubject(ctx, sess.Token, subject)
		if err != nil {
			s.flashWriteError(c, err, "Failed to save subject")
			return s.redirectTab(c, subjectsTab)
		}
		st.mu.Lock()
		st.subjects.Created(created)
		st.mu.Unlock()
		s.cookies.Flash(c, "success", "Subject added successfully!")
	}
	return s.redirectTab(c, subjectsTab)
}

// assignSubjectTeacher sets the teacher shown against a subject.
func (s *server) assignSubjectTeacher(c echo.Context) error {
	subjectID := formInt(c, "subject_id")
	teacher := c.FormValue("teacher")
	if subjectID == 0 || teacher == "" {
		s.cookies.Flash(c, "error", "Select a subject and a teacher")
		return s.redirectTab(c, subjectsTab)
	}

	sess := CurrentSession(c)
	st := s.states.get(sess.Token)
	st.mu.Lock()
	var subject restapi.Subject
	for _, sub := range st.subjects.Items() {
		if sub.SubjectID == subjectID {
			subject = sub
			break
		}
	}
	st.mu.Unlock()
	if subject.SubjectID == 0 {
		s.cookies.Flash(c, "error", "Unknown subject")
		return s.redirectTab(c, subjectsTab)
	}
	subject.Teacher = null.StringFrom(teacher)

	updated, err := s.opts.API.UpdateSubject(c.Request().Context(), sess.Token, subjectID, subject)
	if err != nil {
		s.flashWriteError(c, err, "Failed to assign teacher")
		return s.redirectTab(c, subjectsTab)
	}
	st.mu.Lock()
	st.subjects.Updated(updated)
	st.mu.Unlock()
	s.cookies.Flash(c, "success", "Teacher assigned successfully!")
	return s.redirectTab(c, subjectsTab)
}

func (s *server) deleteSubject(c echo.Context) error {
	id := formInt(c, "subject_id")
	if id == 0 {
		return s.redirectTab(c, subjectsTab)
	}
	if !confirmed(c) {
		return s.renderConfirm(c, "/dashboard/subjects/delete",
			"Are you sure you want to delete this subject?",
			map[string]string{"subject_id": strconv.Itoa(id)})
	}

	sess := CurrentSession(c)
	if err := s.opts.API.DeleteSubject(c.Request().Context(), sess.Token, id); err != nil {
		s.flashWriteError(c, err, "Failed to delete subject")
		return s.redirectTab(c, subjectsTab)
	}
	st := s.states.get(sess.Token)
	st.mu.Lock()
	st.subjects.Deleted(id)
	st.mu.Unlock()
	s.cookies.Flash(c, "success", "Subject deleted successfully!")
	return s.redirectTab(c, subjectsTab)
}
