package web

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"schoolhub/restapi"
)

type studentsView struct {
	Students []restapi.Student
	Users    []restapi.User
	Classes  []restapi.Class
	Editing  *restapi.Student
}

func (s *server) renderStudents(c echo.Context, d *pageData) error {
	ctx := c.Request().Context()
	sess := CurrentSession(c)
	st := s.states.get(sess.Token)
	st.mu.Lock()
	defer st.mu.Unlock()

	if !st.students.Fresh() {
		// only a successful read refreshes the snapshot; a failed one stays
		// stale so the next render retries
		if students, err := s.opts.API.Students(ctx, sess.Token); err != nil {
			s.logReadError(c, "students", err)
			d.LoadError = "Could not load students."
		} else {
			st.students.Load(students)
		}
	}

	// reference collections for the user and class selects
	users, err := s.opts.API.Users(ctx, sess.Token)
	if err != nil {
		s.logReadError(c, "users", err)
	}
	classes, err := s.opts.API.Classes(ctx, sess.Token)
	if err != nil {
		s.logReadError(c, "classes", err)
	}

	view := studentsView{
		Students: st.students.Filter(d.Search),
		Users:    users,
		Classes:  classes,
	}
	if id, _ := strconv.Atoi(c.QueryParam("edit")); id != 0 {
		items := st.students.Items()
		for i := range items {
			if items[i].StudentID == id {
				view.Editing = &items[i]
				break
			}
		}
	}

	d.Data = view
	return c.Render(http.StatusOK, "students", d)
}

// saveStudent creates or updates a student record; a hidden student_id
// selects the update path.
func (s *server) saveStudent(c echo.Context) error {
	d := s.newPageData(c, studentsTab, 1)
	if !requireFields(c, d, "user_id", "first_name", "last_name", "date_of_birth", "enrollment_year", "grade_level", "class_id") {
		return s.renderStudents(c, d)
	}

	student := restapi.Student{
		StudentID:      formInt(c, "student_id"),
		UserID:         formInt(c, "user_id"),
		FirstName:      c.FormValue("first_name"),
		LastName:       c.FormValue("last_name"),
		DateOfBirth:    c.FormValue("date_of_birth"),
		EnrollmentYear: c.FormValue("enrollment_year"),
		GradeLevel:     c.FormValue("grade_level"),
		ClassID:        formInt(c, "class_id"),
	}

	ctx := c.Request().Context()
	sess := CurrentSession(c)
	st := s.states.get(sess.Token)

	if student.StudentID != 0 {
		updated, err := s.opts.API.UpdateStudent(ctx, sess.Token, student.StudentID, student)
		if err != nil {
			s.flashWriteError(c, err, "Failed to update student")
			return s.redirectTab(c, studentsTab)
		}
		st.mu.Lock()
		st.students.Updated(updated)
		st.mu.Unlock()
		s.cookies.Flash(c, "success", "Student updated successfully!")
	} else {
		created, err := s.opts.API.CreateStudent(ctx, sess.Token, student)
		if err != nil {
			s.flashWriteError(c, err, "Failed to save student")
			return s.redirectTab(c, studentsTab)
		}
		st.mu.Lock()
		st.students.Created(created)
		st.mu.Unlock()
		s.cookies.Flash(c, "success", "Student added successfully!")
	}
	return s.redirectTab(c, studentsTab)
}

func (s *server) deleteStudent(c echo.Context) error {
	id := formInt(c, "student_id")
	if id == 0 {
		return s.redirectTab(c, studentsTab)
	}
	if !confirmed(c) {
		return s.renderConfirm(c, "/dashboard/students/delete",
			"Are you sure you want to delete this student?",
			map[string]string{"student_id": strconv.Itoa(id)})
	}

	sess := CurrentSession(c)
	if err := s.opts.API.DeleteStudent(c.Request().Context(), sess.Token, id); err != nil {
		s.flashWriteError(c, err, "Failed to delete student")
		return s.redirectTab(c, studentsTab)
	}
	st := s.states.get(sess.Token)
	st.mu.Lock()
	st.students.Deleted(id)
	st.mu.Unlock()
	s.cookies.Flash(c, "success", "Student deleted successfully!")
	return s.redirectTab(c, studentsTab)
}
