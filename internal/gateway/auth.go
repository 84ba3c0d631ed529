// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/jeranaias/copilot-tui/internal/model"
)

// LoginResult is a successful login.
type LoginResult struct {
	Token string
	User  model.User
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string     `json:"access_token"`
	User        model.User `json:"user"`
}

// Login exchanges credentials for a token. On success the token is written
// to the session store before returning.
func (c *Client) Login(ctx context.Context, username, password string) (LoginResult, error) {
	resp, err := c.do(ctx, http.MethodPost, PathLogin, "", loginRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		log.Printf("LOGIN_FAILED | user=%s error=%v", username, err)
		return LoginResult{}, c.unreachable(err)
	}

	if !resp.ok() {
		msg := resp.errorField()
		if msg == "" {
			msg = DefaultLoginError
		}
		log.Printf("LOGIN_FAILED | user=%s status=%d error=%s", username, resp.status, msg)
		return LoginResult{}, &AuthError{Kind: InvalidCredentials, Message: msg, Status: resp.status}
	}

	var lr loginResponse
	if err := json.Unmarshal(resp.body, &lr); err != nil {
		log.Printf("LOGIN_FAILED | user=%s status=%d error=%v", username, resp.status, err)
		return LoginResult{}, c.unreachable(fmt.Errorf("failed to decode login response: %w", err))
	}
	if lr.AccessToken == "" {
		log.Printf("LOGIN_FAILED | user=%s status=%d error=missing token", username, resp.status)
		return LoginResult{}, &AuthError{Kind: InvalidCredentials, Message: DefaultLoginError, Status: resp.status}
	}

	if c.store != nil {
		if err := c.store.Set(lr.AccessToken); err != nil {
			return LoginResult{}, fmt.Errorf("failed to store session token: %w", err)
		}
	}

	log.Printf("LOGIN_SUCCESS | user=%s role=%s", lr.User.Username, lr.User.EffectiveRole())
	return LoginResult{Token: lr.AccessToken, User: lr.User}, nil
}

// Verify fetches the profile for token. Any failure means the token is no
// longer usable.
func (c *Client) Verify(ctx context.Context, token string) (model.User, error) {
	resp, err := c.do(ctx, http.MethodGet, PathProfile, token, nil)
	if err != nil {
		log.Printf("VERIFY_FAILED | error=%v", err)
		return model.User{}, c.unreachable(err)
	}

	if !resp.ok() {
		msg := resp.errorField()
		if msg == "" {
			msg = http.StatusText(resp.status)
		}
		log.Printf("VERIFY_FAILED | status=%d error=%s", resp.status, msg)
		return model.User{}, &AuthError{Kind: InvalidCredentials, Message: msg, Status: resp.status}
	}

	var user model.User
	if err := json.Unmarshal(resp.body, &user); err != nil {
		log.Printf("VERIFY_FAILED | status=%d error=%v", resp.status, err)
		return model.User{}, c.unreachable(fmt.Errorf("failed to decode profile: %w", err))
	}
	return user, nil
}

// unreachable builds the ServiceUnreachable error naming the base URL.
func (c *Client) unreachable(err error) *AuthError {
	return &AuthError{
		Kind:    ServiceUnreachable,
		Message: "Network error. Please make sure the backend server is running on " + c.baseURL,
		Err:     err,
	}
}
