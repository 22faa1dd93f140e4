package proxy

import (
	"context"
	"errors"
	"net/http"
)

// ErrUnknownAuthAction is returned for actions the auth proxy does not expose.
var ErrUnknownAuthAction = errors.New("unknown auth action")

// authPaths maps browser-facing actions to the provider's REST endpoints.
var authPaths = map[string]string{
	"signup":  "/auth/v1/signup",
	"signin":  "/auth/v1/token?grant_type=password",
	"refresh": "/auth/v1/token?grant_type=refresh_token",
	"signout": "/auth/v1/logout",
	"recover": "/auth/v1/recover",
}

// AuthActions lists the supported actions.
func AuthActions() []string {
	return []string{"signup", "signin", "refresh", "signout", "recover"}
}

// AuthProxy forwards auth calls to the provider with its public api key.
type AuthProxy struct {
	forwarder *Forwarder
}

// NewAuthProxy creates an auth proxy. The forwarder should already carry the
// provider's apikey header.
func NewAuthProxy(forwarder *Forwarder) *AuthProxy {
	return &AuthProxy{forwarder: forwarder}
}

// Do forwards one auth action. bearer is the caller's access token, if any,
// and is passed through unchanged.
func (p *AuthProxy) Do(ctx context.Context, action string, body []byte, bearer string) (*Response, error) {
	path, ok := authPaths[action]
	if !ok {
		return nil, ErrUnknownAuthAction
	}
	header := http.Header{}
	if bearer != "" {
		header.Set("Authorization", "Bearer "+bearer)
	}
	return p.forwarder.Forward(ctx, Request{Path: path, Body: body, Header: header})
}
