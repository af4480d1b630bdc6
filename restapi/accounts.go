package restapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// FeeFilter narrows the fees listing; zero fields are omitted from the query.
type FeeFilter struct {
	AcademicYear string
	FirstName    string
	LastName     string
}

func (f FeeFilter) query() string {
	v := make(url.Values)
	if f.AcademicYear != "" {
		v.Set("academic_year", f.AcademicYear)
	}
	if f.FirstName != "" {
		v.Set("first_name", f.FirstName)
	}
	if f.LastName != "" {
		v.Set("last_name", f.LastName)
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

func (c *Client) Fees(ctx context.Context, token string, filter FeeFilter) ([]Fee, error) {
	var fees []Fee
	err := c.do(ctx, token, http.MethodGet, "/api/fees"+filter.query(), nil, &fees)
	return fees, err
}

func (c *Client) CreateFee(ctx context.Context, token string, f Fee) (Fee, error) {
	var created Fee
	err := c.do(ctx, token, http.MethodPost, "/api/fees", f, &created)
	return created, err
}

func (c *Client) UpdateFee(ctx context.Context, token string, id int, f Fee) (Fee, error) {
	var updated Fee
	err := c.do(ctx, token, http.MethodPut, fmt.Sprintf("/api/fees/%d", id), f, &updated)
	return updated, err
}

func (c *Client) DeleteFee(ctx context.Context, token string, id int) error {
	return c.do(ctx, token, http.MethodDelete, fmt.Sprintf("/api/fees/%d", id), nil, nil)
}

// YearlyFee is a per-year fee schedule entry.
type YearlyFee struct {
	YearlyFeeID  int     `json:"yearly_fee_id"`
	AcademicYear string  `json:"academic_year"`
	GradeLevel   string  `json:"grade_level"`
	Amount       float64 `json:"amount"`
}

func (c *Client) YearlyFees(ctx context.Context, token string) ([]YearlyFee, error) {
	var fees []YearlyFee
	err := c.do(ctx, token, http.MethodGet, "/api/yearly-fees", nil, &fees)
	return fees, err
}

func (c *Client) CreateYearlyFee(ctx context.Context, token string, f YearlyFee) (YearlyFee, error) {
	var created YearlyFee
	err := c.do(ctx, token, http.MethodPost, "/api/yearly-fees", f, &created)
	return created, err
}

func (c *Client) Expenses(ctx context.Context, token string) ([]Expense, error) {
	var expenses []Expense
	err := c.do(ctx, token, http.MethodGet, "/api/expenses", nil, &expenses)
	return expenses, err
}

func (c *Client) CreateExpense(ctx context.Context, token string, e Expense) (Expense, error) {
	var created Expense
	err := c.do(ctx, token, http.MethodPost, "/api/expenses", e, &created)
	return created, err
}

func (c *Client) UpdateExpense(ctx context.Context, token string, id int, e Expense) (Expense, error) {
	var updated Expense
	err := c.do(ctx, token, http.MethodPut, fmt.Sprintf("/api/expenses/%d", id), e, &updated)
	return updated, err
}

func (c *Client) DeleteExpense(ctx context.Context, token string, id int) error {
	return c.do(ctx, token, http.MethodDelete, fmt.Sprintf("/api/expenses/%d", id), nil, nil)
}
