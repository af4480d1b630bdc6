package web

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/volatiletech/null/v8"

	"schoolhub/core"
	"schoolhub/restapi"
)

type accountsView struct {
	Fees       []restapi.Fee
	YearlyFees []restapi.YearlyFee
	Expenses   []restapi.Expense
	Students   []restapi.Student
	Filter     restapi.FeeFilter
}

func feeFilterFromQuery(c echo.Context) restapi.FeeFilter {
	return restapi.FeeFilter{
		AcademicYear: core.CleanString(c.QueryParam("academic_year")),
		FirstName:    core.CleanString(c.QueryParam("first_name")),
		LastName:     core.CleanString(c.QueryParam("last_name")),
	}
}

func (s *server) renderAccounts(c echo.Context, d *pageData) error {
	ctx := c.Request().Context()
	sess := CurrentSession(c)
	st := s.states.get(sess.Token)
	st.mu.Lock()
	defer st.mu.Unlock()

	filter := feeFilterFromQuery(c)
	view := accountsView{Filter: filter}

	if filter != (restapi.FeeFilter{}) {
		// a server-side filter always bypasses the cached snapshot
		fees, err := s.opts.API.Fees(ctx, sess.Token, filter)
		if err != nil {
			s.logReadError(c, "fees", err)
			d.LoadError = "Could not load fees."
		}
		st.fees.Invalidate()
		view.Fees = fees
	} else {
		if !st.fees.Fresh() {
			if fees, err := s.opts.API.Fees(ctx, sess.Token, filter); err != nil {
				s.logReadError(c, "fees", err)
				d.LoadError = "Could not load fees."
			} else {
				st.fees.Load(fees)
			}
		}
		view.Fees = st.fees.Filter(d.Search)
	}

	var err error
	if view.YearlyFees, err = s.opts.API.YearlyFees(ctx, sess.Token); err != nil {
		s.logReadError(c, "yearly fees", err)
	}
	if !st.expenses.Fresh() {
		if expenses, err := s.opts.API.Expenses(ctx, sess.Token); err != nil {
			s.logReadError(c, "expenses", err)
		} else {
			st.expenses.Load(expenses)
		}
	}
	view.Expenses = st.expenses.Filter(d.Search)
	if view.Students, err = s.opts.API.Students(ctx, sess.Token); err != nil {
		s.logReadError(c, "students", err)
	}

	d.Data = view
	return c.Render(http.StatusOK, "accounts", d)
}

// saveFee records a fee payment. A blank reference number gets a generated
// one so receipts stay traceable.
func (s *server) saveFee(c echo.Context) error {
	d := s.newPageData(c, accountsTab, 1)
	if !requireFields(c, d, "student_id", "amount_paid", "payment_date", "payment_method", "academic_year") {
		return s.renderAccounts(c, d)
	}

	fee := restapi.Fee{
		FeeID:           formInt(c, "fee_id"),
		StudentID:       formInt(c, "student_id"),
		Status:          c.FormValue("status"),
		ReferenceNumber: core.CleanString(c.FormValue("reference_number")),
		AmountPaid:      formFloat(c, "amount_paid"),
		PaymentDate:     c.FormValue("payment_date"),
		PaymentMethod:   c.FormValue("payment_method"),
		AcademicYear:    c.FormValue("academic_year"),
	}
	if fee.ReferenceNumber == "" {
		fee.ReferenceNumber = "FEE-" + uuid.NewString()
	}
	if fee.Status == "" {
		fee.Status = "paid"
	}

	ctx := c.Request().Context()
	sess := CurrentSession(c)
	st := s.states.get(sess.Token)

	if fee.FeeID != 0 {
		updated, err := s.opts.API.UpdateFee(ctx, sess.Token, fee.FeeID, fee)
		if err != nil {
			s.flashWriteError(c, err, "Failed to update fee")
			return s.redirectTab(c, accountsTab)
		}
		st.mu.Lock()
		st.fees.Updated(updated)
		st.mu.Unlock()
		s.cookies.Flash(c, "success", "Fee updated successfully!")
	} else {
		created, err := s.opts.API.CreateFee(ctx, sess.Token, fee)
		if err != nil {
			s.flashWriteError(c, err, "Failed to record fee")
			return s.redirectTab(c, accountsTab)
		}
		st.mu.Lock()
		st.fees.Created(created)
		st.mu.Unlock()
		s.cookies.Flash(c, "success", "Fee recorded successfully!")
	}
	return s.redirectTab(c, accountsTab)
}

func (s *server) deleteFee(c echo.Context) error {
	id := formInt(c, "fee_id")
	if id == 0 {
		return s.redirectTab(c, accountsTab)
	}
	if !confirmed(c) {
		return s.renderConfirm(c, "/dashboard/fees/delete",
			"Are you sure you want to delete this fee record?",
			map[string]string{"fee_id": strconv.Itoa(id)})
	}

	sess := CurrentSession(c)
	if err := s.opts.API.DeleteFee(c.Request().Context(), sess.Token, id); err != nil {
		s.flashWriteError(c, err, "Failed to delete fee")
		return s.redirectTab(c, accountsTab)
	}
	st := s.states.get(sess.Token)
	st.mu.Lock()
	st.fees.Deleted(id)
	st.mu.Unlock()
	s.cookies.Flash(c, "success", "Fee deleted successfully!")
	return s.redirectTab(c, accountsTab)
}

func (s *server) saveYearlyFee(c echo.Context) error {
	d := s.newPageData(c, accountsTab, 1)
	if !requireFields(c, d, "academic_year", "grade_level", "amount") {
		return s.renderAccounts(c, d)
	}

	fee := restapi.YearlyFee{
		AcademicYear: c.FormValue("academic_year"),
		GradeLevel:   c.FormValue("grade_level"),
		Amount:       formFloat(c, "amount"),
	}

	sess := CurrentSession(c)
	if _, err := s.opts.API.CreateYearlyFee(c.Request().Context(), sess.Token, fee); err != nil {
		s.flashWriteError(c, err, "Failed to save yearly fee")
		return s.redirectTab(c, accountsTab)
	}
	s.cookies.Flash(c, "success", "Yearly fee saved successfully!")
	return s.redirectTab(c, accountsTab)
}

// exportFees proxies the backend's fees spreadsheet to the browser.
func (s *server) exportFees(c echo.Context) error {
	sess := CurrentSession(c)

	var buf bytes.Buffer
	contentType, err := s.opts.API.ExportFees(c.Request().Context(), sess.Token, &buf)
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="fees.xlsx"`)
	return c.Blob(http.StatusOK, contentType, buf.Bytes())
}

func (s *server) saveExpense(c echo.Context) error {
	d := s.newPageData(c, accountsTab, 1)
	if !requireFields(c, d, "expense_type", "amount", "expense_date") {
		return s.renderAccounts(c, d)
	}

	expense := restapi.Expense{
		ExpenseID:   formInt(c, "expense_id"),
		ExpenseType: c.FormValue("expense_type"),
		Amount:      formFloat(c, "amount"),
		ExpenseDate: c.FormValue("expense_date"),
	}
	if v := c.FormValue("description"); v != "" {
		expense.Description = null.StringFrom(v)
	}

	ctx := c.Request().Context()
	sess := CurrentSession(c)
	st := s.states.get(sess.Token)

	if expense.ExpenseID != 0 {
		updated, err := s.opts.API.UpdateExpense(ctx, sess.Token, expense.ExpenseID, expense)
		if err != nil {
			s.flashWriteError(c, err, "Failed to update expense")
			return s.redirectTab(c, accountsTab)
		}
		st.mu.Lock()
		st.expenses.Updated(updated)
		st.mu.Unlock()
		s.cookies.Flash(c, "success", "Expense updated successfully!")
	} else {
		created, err := s.opts.API.CreateExpense(ctx, sess.Token, expense)
		if err != nil {
			s.flashWriteError(c, err, "Failed to record expense")
			return s.redirectTab(c, accountsTab)
		}
		st.mu.Lock()
		st.expenses.Created(created)
		st.mu.Unlock()
		s.cookies.Flash(c, "success", "Expense recorded successfully!")
	}
	return s.redirectTab(c, accountsTab)
}

func (s *server) deleteExpense(c echo.Context) error {
	id := formInt(c, "expense_id")
	if id == 0 {
		return s.redirectTab(c, accountsTab)
	}
	if !confirmed(c) {
		return s.renderConfirm(c, "/dashboard/expenses/delete",
			"Are you sure you want to delete this expense?",
			map[string]string{"expense_id": strconv.Itoa(id)})
	}

	sess := CurrentSession(c)
	if err := s.opts.API.DeleteExpense(c.Request().Context(), sess.Token, id); err != nil {
		s.flashWriteError(c, err, "Failed to delete expense")
		return s.redirectTab(c, accountsTab)
	}
	st := s.states.get(sess.Token)
	st.mu.Lock()
	st.expenses.Deleted(id)
	st.mu.Unlock()
	s.cookies.Flash(c, "success", "Expense deleted successfully!")
	return s.redirectTab(c, accountsTab)
}

// uploadExpenseAttachment forwards a receipt file to the backend. The cached
// list is invalidated since the attachment path comes back on the next read.
func (s *server) uploadExpenseAttachment(c echo.Context) error {
	expenseID := formInt(c, "expense_id")
	if expenseID == 0 {
		s.cookies.Flash(c, "error", "Select an expense first")
		return s.redirectTab(c, accountsTab)
	}
	fh, err := c.FormFile("attachment")
	if err != nil {
		s.cookies.Flash(c, "error", "Choose a file to upload")
		return s.redirectTab(c, accountsTab)
	}
	file, err := fh.Open()
	if err != nil {
		s.flashWriteError(c, err, "Failed to read attachment")
		return s.redirectTab(c, accountsTab)
	}
	defer file.Close()

	sess := CurrentSession(c)
	if err := s.opts.API.UploadExpenseAttachment(c.Request().Context(), sess.Token, expenseID, fh.Filename, file); err != nil {
		s.flashWriteError(c, err, "Failed to upload attachment")
		return s.redirectTab(c, accountsTab)
	}
	st := s.states.get(sess.Token)
	st.mu.Lock()
	st.expenses.Invalidate()
	st.mu.Unlock()
	s.cookies.Flash(c, "success", "Attachment uploaded successfully!")
	return s.redirectTab(c, accountsTab)
}
