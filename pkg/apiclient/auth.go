package apiclient

import (
	"context"
	"encoding/json"
)

type LoginResult struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user"`
}

// Login signs in and stores the session for later requests.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var out LoginResult
	err := c.Post(ctx, "/account/login", map[string]string{"email": email, "password": password}, &out)
	if err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, NewError(KindServer, 200, "login response carried no token")
	}
	if err := c.Session.Save(Session{Token: out.Token, User: out.User}); err != nil {
		return nil, NewError(KindServer, 0, "save session: "+err.Error())
	}
	return &out, nil
}

// Logout tells the server and always drops the local session.
func (c *Client) Logout(ctx context.Context) error {
	err := c.Post(ctx, "/account/logout", nil, nil)
	if cerr := c.Session.Clear(); cerr != nil && err == nil {
		err = NewError(KindServer, 0, "clear session: "+cerr.Error())
	}
	return err
}
