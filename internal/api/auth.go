// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"

	"github.com/isbguide/isbguide-go/internal/model"
)

// LoginResult is the (user, token) pair issued by the auth backend.
// The token is opaque to the client; validity is the backend's concern.
type LoginResult struct {
	User  model.User `json:"user"`
	Token string     `json:"token"`
}

// Login exchanges credentials for a session pair. On failure the backend's
// message is carried in the returned *Error and no session state changes.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := map[string]string{"email": email, "password": password}

	var result LoginResult
	if err := c.do(ctx, http.MethodPost, "/v1/auth/login", "", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Register creates an account and returns the session pair for it.
func (c *Client) Register(ctx context.Context, name, email, password string) (*LoginResult, error) {
	body := map[string]string{"name": name, "email": email, "password": password}

	var result LoginResult
	if err := c.do(ctx, http.MethodPost, "/v1/auth/register", "", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
