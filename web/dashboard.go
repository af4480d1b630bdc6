package web

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"schoolhub/restapi"
)

// Dashboard tabs, in sidebar order. The routing surface carries the tab and a
// page index: /dashboard/:tab/:page.
const (
	overviewTab = 1 + iota
	studentsTab
	teachersTab
	parentsTab
	classroomsTab
	subjectsTab
	accountsTab
	academicsTab
	usersTab

	defaultTab = overviewTab
	lastTab    = usersTab
)

func (s *server) home(c echo.Context) error {
	if CurrentSession(c).Authenticated() {
		return s.redirectTab(c, ActiveTab(c))
	}
	return c.Redirect(http.StatusSeeOther, "/login")
}

func (s *server) dashboard(c echo.Context) error {
	tab, err := strconv.Atoi(c.Param("tab"))
	if err != nil || tab < 1 || tab > lastTab {
		return s.redirectTab(c, ActiveTab(c))
	}
	page, err := strconv.Atoi(c.Param("page"))
	if err != nil || page < 1 {
		page = 1
	}
	SaveActiveTab(c, tab)

	d := s.newPageData(c, tab, page)
	switch tab {
	case studentsTab:
		return s.renderStudents(c, d)
	case teachersTab:
		return s.renderTeachers(c, d)
	case parentsTab:
		return s.renderParents(c, d)
	case classroomsTab:
		return s.renderClassrooms(c, d)
	case subjectsTab:
		return s.renderSubjects(c, d)
	case accountsTab:
		return s.renderAccounts(c, d)
	case academicsTab:
		return s.renderAcademics(c, d)
	case usersTab:
		return s.renderUsers(c, d)
	default:
		return s.renderOverview(c, d)
	}
}

// renderOverview summarizes the school at a glance. Failed reads degrade to
// zero counts; the dashboard never blocks on them.
func (s *server) renderOverview(c echo.Context, d *pageData) error {
	ctx := c.Request().Context()
	sess := CurrentSession(c)

	var view struct {
		StudentCount int
		TeacherCount int
		ClassCount   int
		FeesTotal    float64
		ExpenseTotal float64
	}

	if students, err := s.opts.API.Students(ctx, sess.Token); err != nil {
		s.logReadError(c, "students", err)
	} else {
		view.StudentCount = len(students)
	}
	if teachers, err := s.opts.API.Teachers(ctx, sess.Token); err != nil {
		s.logReadError(c, "teachers", err)
	} else {
		view.TeacherCount = len(teachers)
	}
	if classes, err := s.opts.API.Classes(ctx, sess.Token); err != nil {
		s.logReadError(c, "classes", err)
	} else {
		view.ClassCount = len(classes)
	}
	if fees, err := s.opts.API.Fees(ctx, sess.Token, restapi.FeeFilter{}); err != nil {
		s.logReadError(c, "fees", err)
	} else {
		for _, f := range fees {
			view.FeesTotal += f.AmountPaid
		}
	}
	if expenses, err := s.opts.API.Expenses(ctx, sess.Token); err != nil {
		s.logReadError(c, "expenses", err)
	} else {
		for _, e := range expenses {
			view.ExpenseTotal += e.Amount
		}
	}

	d.Data = view
	return c.Render(http.StatusOK, "overview", d)
}
