package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/pkg/errors"
)

func (c *Client) Grades(ctx context.Context, token string) ([]Grade, error) {
	var grades []Grade
	err := c.do(ctx, token, http.MethodGet, "/api/grades", nil, &grades)
	return grades, err
}

func (c *Client) DeleteGrade(ctx context.Context, token string, id int) error {
	return c.do(ctx, token, http.MethodDelete, fmt.Sprintf("/api/grades/%d", id), nil, nil)
}

// ImportResult is the backend's summary of a bulk grade import.
type ImportResult struct {
	Message         string        `json:"message"`
	ImportedEntries []GradeImport `json:"imported_entries"`
	Errors          []string      `json:"errors"`
}

// ImportGrades submits a batched array of grade rows.
func (c *Client) ImportGrades(ctx context.Context, token string, rows []GradeImport) (ImportResult, error) {
	var res ImportResult
	err := c.do(ctx, token, http.MethodPost, "/api/grades/import", rows, &res)
	return res, err
}

// ExportGrades streams the backend's spreadsheet export for a subject into w
// and returns the content type it advertised.
func (c *Client) ExportGrades(ctx context.Context, token string, subjectID int, w io.Writer) (string, error) {
	return c.download(ctx, token, fmt.Sprintf("/api/grades/export/%d", subjectID), w)
}

// ExportFees streams the fees spreadsheet (the `export` query flag switches
// the endpoint from JSON to binary).
func (c *Client) ExportFees(ctx context.Context, token string, w io.Writer) (string, error) {
	return c.download(ctx, token, "/api/fees?export=true", w)
}

// UploadExpenseAttachment posts a receipt file as a multipart form.
func (c *Client) UploadExpenseAttachment(ctx context.Context, token string, expenseID int, filename string, file io.Reader) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("attachment", filename)
	if err != nil {
		return errors.Wrap(err, "creating form file")
	}
	if _, err := io.Copy(part, file); err != nil {
		return errors.Wrap(err, "copying attachment")
	}
	if err := mw.Close(); err != nil {
		return errors.Wrap(err, "finalizing form")
	}

	path := fmt.Sprintf("/api/expenses/%d/attachment", expenseID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "POST %s", path)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		data, _ := io.ReadAll(res.Body)
		var msg messageBody
		_ = json.Unmarshal(data, &msg)
		return &APIError{StatusCode: res.StatusCode, Message: msg.text()}
	}
	return nil
}

func (c *Client) Results(ctx context.Context, token string) ([]Result, error) {
	var results []Result
	err := c.do(ctx, token, http.MethodGet, "/api/results", nil, &results)
	return results, err
}

func (c *Client) Attendance(ctx context.Context, token string) ([]Attendance, error) {
	var records []Attendance
	err := c.do(ctx, token, http.MethodGet, "/api/attendance", nil, &records)
	return records, err
}
