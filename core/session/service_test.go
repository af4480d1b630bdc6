package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolhub/core"
	"schoolhub/restapi"
)

func newTestService(t *testing.T, handler http.Handler) (*Service, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	validate, translator := core.NewValidator()
	api := restapi.NewClient(srv.URL, 5*time.Second)
	return NewService(api, validate, translator), srv
}

func loginHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/login", r.URL.Path)

		var creds struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))

		if creds.Username != "admin" || creds.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Invalid credentials"}`))
			return
		}
		w.Write([]byte(`{"message":"Login successful","user_info":{
			"user_id":7,"username":"admin","roles":["admin"],"permissions":["manage_users"],
			"email":"admin@school.test","isActive":true,"created_at":"2026-01-01",
			"access_token":"T1","refresh_token":"R1"}}`))
	})
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService(t, loginHandler(t))
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		sess, err := svc.Login(ctx, Credentials{Username: "admin", Password: "secret"})
		require.NoError(t, err)
		assert.True(t, sess.Authenticated())
		assert.Equal(t, "T1", sess.Token)
		assert.Equal(t, "R1", sess.RefreshToken)
		assert.Equal(t, 7, sess.User.UserID)
		assert.Equal(t, "admin", sess.User.Username)
		assert.True(t, sess.HasRole("admin"))
		assert.False(t, sess.HasRole("teacher"))
	})

	t.Run("username is normalized", func(t *testing.T) {
		sess, err := svc.Login(ctx, Credentials{Username: "  ADMIN ", Password: "secret"})
		require.NoError(t, err)
		assert.True(t, sess.Authenticated())
	})

	t.Run("bad credentials leave session zero", func(t *testing.T) {
		sess, err := svc.Login(ctx, Credentials{Username: "admin", Password: "wrong"})
		require.Error(t, err)
		assert.Equal(t, Session{}, sess)
		assert.False(t, sess.Authenticated())
	})

	t.Run("missing fields never reach the backend", func(t *testing.T) {
		svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("unexpected backend call")
		}))
		sess, err := svc.Login(ctx, Credentials{})
		require.Error(t, err)
		assert.Equal(t, Session{}, sess)

		var vErr *core.ValidationError
		assert.ErrorAs(t, err, &vErr)
	})
}

func TestSessionRecordJSON(t *testing.T) {
	svc, _ := newTestService(t, loginHandler(t))

	sess, err := svc.Login(context.Background(), Credentials{Username: "admin", Password: "secret"})
	require.NoError(t, err)

	data, err := json.Marshal(sess)
	require.NoError(t, err)

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &record))
	assert.Equal(t, "T1", record["accessToken"])

	usr, ok := record["user"].(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 7, usr["userId"])
}

func TestRegister(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var created restapi.NewUser
		svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/users", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&created))
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"message":"User created"}`))
		}))

		reg := Registration{
			Username:        "Jane_Doe",
			Email:           "jane@school.test",
			Role:            "teacher",
			Password:        "hunter22",
			PasswordConfirm: "hunter22",
		}
		require.NoError(t, svc.Register(context.Background(), reg))
		assert.Equal(t, "jane_doe", created.Username)
		assert.True(t, created.IsActive)
	})

	t.Run("password mismatch", func(t *testing.T) {
		svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("unexpected backend call")
		}))
		err := svc.Register(context.Background(), Registration{
			Username:        "jane",
			Role:            "teacher",
			Password:        "hunter22",
			PasswordConfirm: "hunter23",
		})
		var vErr *core.ValidationError
		assert.ErrorAs(t, err, &vErr)
	})
}

func TestRenew(t *testing.T) {
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/refresh-token", r.URL.Path)
		assert.Equal(t, "Bearer R1", r.Header.Get("Authorization"))
		w.Write([]byte(`{"message":"ok","access_token":"T2"}`))
	}))

	sess := Session{Token: "T1", RefreshToken: "R1", User: User{UserID: 7, Username: "admin"}}
	renewed, err := svc.Renew(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, "T2", renewed.Token)
	assert.Equal(t, 7, renewed.User.UserID)

	_, err = svc.Renew(context.Background(), Session{Token: "T1"})
	assert.Error(t, err)
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{ExpiresAt: exp.Unix()})
	s, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()

	assert.False(t, TokenExpired(signedToken(t, now.Add(time.Hour)), now))
	assert.True(t, TokenExpired(signedToken(t, now.Add(-time.Hour)), now))

	// opaque tokens never expire client-side
	assert.False(t, TokenExpired("T1", now))
	assert.False(t, TokenExpired("", now))
}
