package web

import (
	"context"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"schoolhub/core"
	"schoolhub/core/session"
	"schoolhub/restapi"
)

type (
	Options struct {
		Conf           *core.Config
		Logger         core.Logger
		API            *restapi.Client
		Sessions       *session.Service
		Validate       *validator.Validate
		Translator     ut.Translator
		DisableReqLogs bool
		// Shutdown is signalled when an unrecoverable error surfaces.
		Shutdown func()
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts    *Options
		app     *echo.Echo
		cookies *CookieStore
		states  *stateRegistry
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts:    opts,
		app:     echo.New(),
		cookies: NewCookieStore(opts.Conf.SecretKey, opts.Conf.Session.RememberMaxAge),
		states:  newStateRegistry(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.signalShutdown)
	s.app.Debug = conf.Debug
	s.app.Renderer = newRenderer()

	s.app.Use(s.sessionMiddleware)

	s.app.GET("/", s.home)
	s.app.GET("/login", s.loginForm)
	s.app.POST("/login", s.login)
	s.app.GET("/register", s.registerForm)
	s.app.POST("/register", s.register)
	s.app.POST("/logout", s.logout)

	d := s.app.Group("/dashboard", s.requireSession)
	d.GET("/:tab/:page", s.dashboard)

	d.POST("/students", s.saveStudent)
	d.POST("/students/delete", s.deleteStudent)

	d.POST("/teachers", s.saveTeacher)
	d.POST("/teachers/delete", s.deleteTeacher)

	d.POST("/parents", s.saveParent)
	d.POST("/parents/link", s.linkParentStudent)
	d.POST("/parents/delete", s.deleteParent)

	d.POST("/classrooms", s.saveClassroom)
	d.POST("/classrooms/delete", s.deleteClassroom)

	d.POST("/subjects", s.saveSubject)
	d.POST("/subjects/assign", s.assignSubjectTeacher)
	d.POST("/subjects/delete", s.deleteSubject)

	d.POST("/fees", s.saveFee)
	d.POST("/fees/delete", s.deleteFee)
	d.POST("/fees/yearly", s.saveYearlyFee)
	d.GET("/fees/export", s.exportFees)
	d.POST("/expenses", s.saveExpense)
	d.POST("/expenses/delete", s.deleteExpense)
	d.POST("/expenses/attachment", s.uploadExpenseAttachment)

	d.POST("/grades/import", s.importGrades)
	d.GET("/grades/export/:subject", s.exportGrades)
	d.POST("/grades/delete", s.deleteGrade)

	d.POST("/users", s.saveUser)
	d.POST("/users/roles", s.assignUserRole)
	d.POST("/users/permissions", s.assignRolePermission)
	d.POST("/users/delete", s.deleteUser)
}

func (s *server) Start() error {
	return s.app.Start(s.opts.Conf.Server.Addr)
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *server) signalShutdown() {
	if s.opts.Shutdown != nil {
		s.opts.Shutdown()
	}
}
