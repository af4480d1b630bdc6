package restapi

import (
	"encoding/json"

	"github.com/volatiletech/null/v8"
)

// Entity rows mirror the backend's JSON verbatim; the backend owns their
// correctness. Optional columns are typed null rather than guessed at.

type User struct {
	UserID    int         `json:"user_id"`
	Username  string      `json:"username"`
	Role      string      `json:"role"`
	Email     null.String `json:"email"`
	IsActive  bool        `json:"isActive"`
	CreatedAt string      `json:"created_at"`
}

// NewUser is the registration / user creation payload.
type NewUser struct {
	Username string `json:"username" validate:"required,min=3,alphanum_"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
	IsActive bool   `json:"isActive"`
}

// UserPatch carries a partial user update; zero fields are omitted.
type UserPatch struct {
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	Role     string `json:"role,omitempty"`
	Email    string `json:"email,omitempty"`
	IsActive bool   `json:"isActive"`
}

// UserInfo is the login payload. The backend has shipped both `user_id` and
// `userId` for the identifier across revisions; both are accepted.
type UserInfo struct {
	UserID       int         `json:"user_id"`
	Username     string      `json:"username"`
	Roles        []string    `json:"roles"`
	Permissions  []string    `json:"permissions"`
	Email        null.String `json:"email"`
	IsActive     bool        `json:"isActive"`
	CreatedAt    string      `json:"created_at"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
}

func (ui *UserInfo) UnmarshalJSON(data []byte) error {
	type alias UserInfo
	aux := struct {
		*alias
		AltUserID int `json:"userId"`
	}{alias: (*alias)(ui)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if ui.UserID == 0 {
		ui.UserID = aux.AltUserID
	}
	return nil
}

type Student struct {
	StudentID      int    `json:"student_id"`
	UserID         int    `json:"user_id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	DateOfBirth    string `json:"date_of_birth"`
	EnrollmentYear string `json:"enrollment_year"`
	GradeLevel     string `json:"grade_level"`
	ClassID        int    `json:"class_id"`
}

type Teacher struct {
	TeacherID   int         `json:"teacher_id"`
	UserID      int         `json:"user_id"`
	ClassID     null.Int    `json:"class_id"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	Gender      string      `json:"gender"`
	PhoneNumber null.String `json:"phone_number"`
	DateOfBirth null.String `json:"date_of_birth"`
}

type Parent struct {
	ParentID    int         `json:"parent_id"`
	UserID      int         `json:"user_id"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	PhoneNumber null.String `json:"phone_number"`
}

type ParentStudent struct {
	ParentID  int `json:"parent_id"`
	StudentID int `json:"student_id"`
}

type Class struct {
	ID           int         `json:"id"`
	Name         string      `json:"name"`
	SubjectID    null.Int    `json:"subject_id"`
	TeacherID    null.Int    `json:"teacher_id"`
	ScheduleTime null.String `json:"schedule_time"`
}

type Subject struct {
	SubjectID  int         `json:"subject_id"`
	Name       string      `json:"name"`
	GradeLevel string      `json:"grade_level"`
	Teacher    null.String `json:"teacher"`
}

type Fee struct {
	FeeID           int         `json:"fee_id"`
	StudentID       int         `json:"student_id"`
	StudentName     null.String `json:"student_name"`
	Status          string      `json:"status"`
	ReferenceNumber string      `json:"reference_number"`
	AmountPaid      float64     `json:"amount_paid"`
	PaymentDate     string      `json:"payment_date"`
	PaymentMethod   string      `json:"payment_method"`
	AcademicYear    string      `json:"academic_year"`
}

type Expense struct {
	ExpenseID   int         `json:"expense_id"`
	ExpenseType string      `json:"expense_type"`
	Amount      float64     `json:"amount"`
	Description null.String `json:"description"`
	ExpenseDate string      `json:"expense_date"`
	Attachment  null.String `json:"attachment"`
	CreatedAt   string      `json:"created_at"`
}

type GradeStudent struct {
	StudentID int    `json:"student_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	ClassID   int    `json:"class_id"`
}

type GradeSubject struct {
	SubjectID int    `json:"subject_id"`
	Name      string `json:"name"`
}

type Grade struct {
	GradeID     int          `json:"grade_id"`
	Student     GradeStudent `json:"student"`
	Subject     GradeSubject `json:"subject"`
	Term        string       `json:"term"`
	ExamType    string       `json:"exam_type"`
	Score       float64      `json:"score"`
	MaxScore    float64      `json:"max_score"`
	Percentage  float64      `json:"percentage"`
	GradeLetter string       `json:"grade_letter"`
	Remarks     null.String  `json:"remarks"`
	ExamDate    null.String  `json:"exam_date"`
}

// GradeImport is one row of a bulk grade import.
type GradeImport struct {
	StudentID int     `json:"student_id"`
	SubjectID int     `json:"subject_id"`
	Term      string  `json:"term"`
	ExamType  string  `json:"exam_type"`
	Score     float64 `json:"score"`
	MaxScore  float64 `json:"max_score"`
	Remarks   string  `json:"remarks,omitempty"`
	ExamDate  string  `json:"exam_date,omitempty"`
}

type Result struct {
	ResultID  int         `json:"result_id"`
	StudentID int         `json:"student_id"`
	SubjectID int         `json:"subject_id"`
	Term      string      `json:"term"`
	Grade     string      `json:"grade"`
	ExamDate  string      `json:"exam_date"`
	Remarks   null.String `json:"remarks"`
}

type Attendance struct {
	AttendanceID   int    `json:"attendance_id"`
	StudentID      int    `json:"student_id"`
	ClassID        int    `json:"class_id"`
	AttendanceDate string `json:"attendance_date"`
	Status         string `json:"status"`
}

type Role struct {
	RoleID      int         `json:"role_id"`
	Name        string      `json:"name"`
	Description null.String `json:"description"`
}

type Permission struct {
	PermissionID int         `json:"permission_id"`
	Name         string      `json:"name"`
	Description  null.String `json:"description"`
}

type RolePermission struct {
	RoleID       int `json:"role_id"`
	PermissionID int `json:"permission_id"`
}

type UserRole struct {
	UserID int `json:"user_id"`
	RoleID int `json:"role_id"`
}
