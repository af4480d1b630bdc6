package restapi

import (
	"context"
	"fmt"
	"net/http"
)

// Students

func (c *Client) Students(ctx context.Context, token string) ([]Student, error) {
	var students []Student
	err := c.do(ctx, token, http.MethodGet, "/api/students", nil, &students)
	return students, err
}

func (c *Client) CreateStudent(ctx context.Context, token string, s Student) (Student, error) {
	var created Student
	err := c.do(ctx, token, http.MethodPost, "/api/students", s, &created)
	return created, err
}

func (c *Client) UpdateStudent(ctx context.Context, token string, id int, s Student) (Student, error) {
	var updated Student
	err := c.do(ctx, token, http.MethodPut, fmt.Sprintf("/api/students/%d", id), s, &updated)
	return updated, err
}

func (c *Client) DeleteStudent(ctx context.Context, token string, id int) error {
	return c.do(ctx, token, http.MethodDelete, fmt.Sprintf("/api/students/%d", id), nil, nil)
}

// Teachers

func (c *Client) Teachers(ctx context.Context, token string) ([]Teacher, error) {
	var teachers []Teacher
	err := c.do(ctx, token, http.MethodGet, "/api/teachers", nil, &teachers)
	return teachers, err
}

func (c *Client) CreateTeacher(ctx context.Context, token string, t Teacher) (Teacher, error) {
	var created Teacher
	err := c.do(ctx, token, http.MethodPost, "/api/teachers", t, &created)
	return created, err
}

func (c *Client) UpdateTeacher(ctx context.Context, token string, id int, t Teacher) (Teacher, error) {
	var updated Teacher
	err := c.do(ctx, token, http.MethodPut, fmt.Sprintf("/api/teachers/%d", id), t, &updated)
	return updated, err
}

func (c *Client) DeleteTeacher(ctx context.Context, token string, id int) error {
	return c.do(ctx, token, http.MethodDelete, fmt.Sprintf("/api/teachers/%d", id), nil, nil)
}

// Parents

func (c *Client) Parents(ctx context.Context, token string) ([]Parent, error) {
	var parents []Parent
	err := c.do(ctx, token, http.MethodGet, "/api/parents", nil, &parents)
	return parents, err
}

func (c *Client) CreateParent(ctx context.Context, token string, p Parent) (Parent, error) {
	var created Parent
	err := c.do(ctx, token, http.MethodPost, "/api/parents", p, &created)
	return created, err
}

func (c *Client) DeleteParent(ctx context.Context, token string, id int) error {
	return c.do(ctx, token, http.MethodDelete, fmt.Sprintf("/api/parents/%d", id), nil, nil)
}

// LinkParentStudent associates a parent with a student.
func (c *Client) LinkParentStudent(ctx context.Context, token string, link ParentStudent) error {
	return c.do(ctx, token, http.MethodPost, "/api/parent-student", link, nil)
}

// Classes

func (c *Client) Classes(ctx context.Context, token string) ([]Class, error) {
	var classes []Class
	err := c.do(ctx, token, http.MethodGet, "/api/classes", nil, &classes)
	return classes, err
}

func (c *Client) CreateClass(ctx context.Context, token string, cl Class) (Class, error) {
	var created Class
	err := c.do(ctx, token, http.MethodPost, "/api/classes", cl, &created)
	return created, err
}

func (c *Client) UpdateClass(ctx context.Context, token string, id int, cl Class) (Class, error) {
	var updated Class
	err := c.do(ctx, token, http.MethodPut, fmt.Sprintf("/api/classes/%d", id), cl, &updated)
	return updated, err
}

func (c *Client) DeleteClass(ctx context.Context, token string, id int) error {
	return c.do(ctx, token, http.MethodDelete, fmt.Sprintf("/api/classes/%d", id), nil, nil)
}

// Subjects

func (c *Client) Subjects(ctx context.Context, token string) ([]Subject, error) {
	var subjects []Subject
	err := c.do(ctx, token, http.MethodGet, "/api/subjects", nil, &subjects)
	return subjects, err
}

func (c *Client) CreateSubject(ctx context.Context, token string, s Subject) (Subject, error) {
	var created Subject
	err := c.do(ctx, token, http.MethodPost, "/api/subjects", s, &created)
	return created, err
}

func (c *Client) UpdateSubject(ctx context.Context, token string, id int, s Subject) (Subject, error) {
	var updated Subject
	err := c.do(ctx, token, http.MethodPut, fmt.Sprintf("/api/subjects/%d", id), s, &updated)
	return updated, err
}

func (c *Client) DeleteSubject(ctx context.Context, token string, id int) error {
	return c.do(ctx, token, http.MethodDelete, fmt.Sprintf("/api/subjects/%d", id), nil, nil)
}
