package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"schoolhub/core"
	"schoolhub/core/session"
	"schoolhub/restapi"
)

func setup(t *testing.T, handler http.HandlerFunc) *commandLine {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	validate, translator := core.NewValidator()
	api := restapi.NewClient(srv.URL, 5*time.Second)
	return &commandLine{
		api:     api,
		sessSvc: session.NewService(api, validate, translator),
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	pwd        string
	wantErr    error
	wantErrStr string
}

func Test_commandLine_run(t *testing.T) {
	var created []string
	cli := setup(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/users":
			var nu struct {
				Username string `json:"username"`
			}
			json.NewDecoder(r.Body).Decode(&nu)
			created = append(created, nu.Username)
			w.Write([]byte(`{"message":"User created"}`))
		case r.Method == http.MethodGet && r.URL.Path == "/api/users":
			w.Write([]byte(`[]`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"not found"}`))
		}
	})

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "adduser: no username", args: []string{"adduser"}, wantErr: errHelp},
		{name: "adduser: empty password", args: []string{"adduser", "-username", "awe"}, wantErr: errHelp},
		{name: "adduser: short password", args: []string{"adduser", "-username", "awe"}, pwd: "mdr", wantErrStr: "failed on the 'min' tag"},
		{name: "adduser", args: []string{"adduser", "-username", "awe", "-role", "teacher", "-email", "awe@test.cd"}, pwd: "hunter22"},
		{name: "ping", args: []string{"ping"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			return []byte(tt.pwd), nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			switch {
			case tt.wantErr != nil:
				if err != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
			case tt.wantErrStr != "":
				if err == nil || !strings.Contains(err.Error(), tt.wantErrStr) {
					t.Errorf("cli.run() error = %v, wantErrStr %s", err, tt.wantErrStr)
				}
			case err != nil:
				t.Errorf("cli.run() unexpected error = %v", err)
			}
		})
	}

	if len(created) != 1 || created[0] != "awe" {
		t.Errorf("backend received created users %v, want [awe]", created)
	}
}
