package api

import (
	"context"
	"net/http"
	"net/url"
)

// RegisterRequest is the payload for account creation.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer credential issued on login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register creates a new account. It does not issue a credential; callers
// log in afterwards.
func (c *Client) Register(ctx context.Context, email, password string) (*User, error) {
	var user User
	err := c.doJSON(ctx, http.MethodPost, "/register", RegisterRequest{Email: email, Password: password}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Login exchanges credentials for a bearer token. The backend expects a
// form-encoded body with the email in the username field.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var resp LoginResponse
	if err := c.doForm(ctx, "/login", form.Encode(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Me returns the account owning the current credential.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.doJSON(ctx, http.MethodGet, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
