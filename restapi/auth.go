package restapi

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
)

var errMalformedLogin = errors.New("malformed login response")

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message  string    `json:"message"`
	UserInfo *UserInfo `json:"user_info"`
}

// Login exchanges credentials for the signed-in user's profile and tokens.
// A 2xx response missing either the access token or the user identifier is
// rejected rather than half-decoded.
func (c *Client) Login(ctx context.Context, username, password string) (UserInfo, error) {
	var res loginResponse
	err := c.do(ctx, "", http.MethodPost, "/api/login", loginRequest{Username: username, Password: password}, &res)
	if err != nil {
		return UserInfo{}, err
	}
	if res.UserInfo == nil || res.UserInfo.AccessToken == "" || res.UserInfo.UserID == 0 {
		return UserInfo{}, errMalformedLogin
	}
	return *res.UserInfo, nil
}

type refreshResponse struct {
	Message     string `json:"message"`
	AccessToken string `json:"access_token"`
}

// RefreshToken trades a refresh token for a new access token.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	var res refreshResponse
	err := c.do(ctx, refreshToken, http.MethodPost, "/api/refresh-token", nil, &res)
	if err != nil {
		return "", err
	}
	if res.AccessToken == "" {
		return "", errMalformedLogin
	}
	return res.AccessToken, nil
}
