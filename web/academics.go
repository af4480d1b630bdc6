package web

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"schoolhub/restapi"
)

type academicsView struct {
	Grades     []restapi.Grade
	Subjects   []restapi.Subject
	Students   []restapi.Student
	Results    []restapi.Result
	Attendance []restapi.Attendance
}

func (s *server) renderAcademics(c echo.Context, d *pageData) error {
	ctx := c.Request().Context()
	sess := CurrentSession(c)
	st := s.states.get(sess.Token)
	st.mu.Lock()
	defer st.mu.Unlock()

	if !st.grades.Fresh() {
		if grades, err := s.opts.API.Grades(ctx, sess.Token); err != nil {
			s.logReadError(c, "grades", err)
			d.LoadError = "Could not load grades."
		} else {
			st.grades.Load(grades)
		}
	}

	view := academicsView{Grades: st.grades.Filter(d.Search)}

	var err error
	if view.Subjects, err = s.opts.API.Subjects(ctx, sess.Token); err != nil {
		s.logReadError(c, "subjects", err)
	}
	if view.Students, err = s.opts.API.Students(ctx, sess.Token); err != nil {
		s.logReadError(c, "students", err)
	}
	if view.Results, err = s.opts.API.Results(ctx, sess.Token); err != nil {
		s.logReadError(c, "results", err)
	}
	if view.Attendance, err = s.opts.API.Attendance(ctx, sess.Token); err != nil {
		s.logReadError(c, "attendance", err)
	}

	d.Data = view
	return c.Render(http.StatusOK, "academics", d)
}

// importGrades parses an uploaded CSV of grade rows and submits the batch.
// Header: student_id,subject_id,term,exam_type,score,max_score[,remarks[,exam_date]]
func (s *server) importGrades(c echo.Context) error {
	fh, err := c.FormFile("grades")
	if err != nil {
		s.cookies.Flash(c, "error", "Choose a CSV file to import")
		return s.redirectTab(c, academicsTab)
	}
	file, err := fh.Open()
	if err != nil {
		s.flashWriteError(c, err, "Failed to read import file")
		return s.redirectTab(c, academicsTab)
	}
	defer file.Close()

	rows, err := parseGradeCSV(file)
	if err != nil {
		s.flashWriteError(c, err, "Import file is not valid")
		return s.redirectTab(c, academicsTab)
	}
	if len(rows) == 0 {
		s.cookies.Flash(c, "error", "Import file has no grade rows")
		return s.redirectTab(c, academicsTab)
	}

	sess := CurrentSession(c)
	res, err := s.opts.API.ImportGrades(c.Request().Context(), sess.Token, rows)
	if err != nil {
		s.flashWriteError(c, err, "Failed to import grades")
		return s.redirectTab(c, academicsTab)
	}

	st := s.states.get(sess.Token)
	st.mu.Lock()
	st.grades.Invalidate()
	st.mu.Unlock()

	msg := fmt.Sprintf("Imported %d grades", len(res.ImportedEntries))
	if len(res.Errors) > 0 {
		msg += fmt.Sprintf(" (%d rows rejected)", len(res.Errors))
	}
	s.cookies.Flash(c, "success", msg)
	return s.redirectTab(c, academicsTab)
}

func parseGradeCSV(r io.Reader) ([]restapi.GradeImport, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var rows []restapi.GradeImport
	for line := 0; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading csv")
		}
		// skip the header row
		if line == 0 && strings.EqualFold(strings.TrimSpace(record[0]), "student_id") {
			continue
		}
		if len(record) < 6 {
			return nil, errors.Errorf("row %d: expected at least 6 columns, got %d", line+1, len(record))
		}

		var row restapi.GradeImport
		if row.StudentID, err = strconv.Atoi(strings.TrimSpace(record[0])); err != nil {
			return nil, errors.Wrapf(err, "row %d: student_id", line+1)
		}
		if row.SubjectID, err = strconv.Atoi(strings.TrimSpace(record[1])); err != nil {
			return nil, errors.Wrapf(err, "row %d: subject_id", line+1)
		}
		row.Term = strings.TrimSpace(record[2])
		row.ExamType = strings.TrimSpace(record[3])
		if row.Score, err = strconv.ParseFloat(strings.TrimSpace(record[4]), 64); err != nil {
			return nil, errors.Wrapf(err, "row %d: score", line+1)
		}
		if row.MaxScore, err = strconv.ParseFloat(strings.TrimSpace(record[5]), 64); err != nil {
			return nil, errors.Wrapf(err, "row %d: max_score", line+1)
		}
		if len(record) > 6 {
			row.Remarks = strings.TrimSpace(record[6])
		}
		if len(record) > 7 {
			row.ExamDate = strings.TrimSpace(record[7])
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// exportGrades proxies the backend's per-subject spreadsheet to the browser.
func (s *server) exportGrades(c echo.Context) error {
	subjectID, err := strconv.Atoi(c.Param("subject"))
	if err != nil || subjectID == 0 {
		s.cookies.Flash(c, "error", "Select a subject to export")
		return s.redirectTab(c, academicsTab)
	}

	sess := CurrentSession(c)

	var buf bytes.Buffer
	contentType, err := s.opts.API.ExportGrades(c.Request().Context(), sess.Token, subjectID, &buf)
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="grades-subject-%d.xlsx"`, subjectID))
	return c.Blob(http.StatusOK, contentType, buf.Bytes())
}

func (s *server) deleteGrade(c echo.Context) error {
	id := formInt(c, "grade_id")
	if id == 0 {
		return s.redirectTab(c, academicsTab)
	}
	if !confirmed(c) {
		return s.renderConfirm(c, "/dashboard/grades/delete",
			"Are you sure you want to delete this grade?",
			map[string]string{"grade_id": strconv.Itoa(id)})
	}

	sess := CurrentSession(c)
	if err := s.opts.API.DeleteGrade(c.Request().Context(), sess.Token, id); err != nil {
		s.flashWriteError(c, err, "Failed to delete grade")
		return s.redirectTab(c, academicsTab)
	}
	st := s.states.get(sess.Token)
	st.mu.Lock()
	st.grades.Deleted(id)
	st.mu.Unlock()
	s.cookies.Flash(c, "success", "Grade deleted successfully!")
	return s.redirectTab(c, academicsTab)
}
