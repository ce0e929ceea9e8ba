package v1

import (
	"context"
	"fmt"
)

type AuthEndpoint struct {
	transport *Transport
}

func (a *AuthEndpoint) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	resp, err := a.transport.Post(ctx, "/auth/login/", LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	var result LoginResponse
	if err := decode(resp.Data, "", "/auth/login", &result); err != nil {
		return nil, err
	}
	if result.Token == "" {
		return nil, fmt.Errorf("%w: /auth/login: missing token", ErrUnexpectedShape)
	}
	return &result, nil
}

func (a *AuthEndpoint) Logout(ctx context.Context) error {
	_, err := a.transport.Post(ctx, "/auth/logout/", struct{}{})
	return err
}

func (a *AuthEndpoint) UpdateProfile(ctx context.Context, in ProfileInput) (*ProfileDTO, error) {
	resp, err := a.transport.Patch(ctx, "/auth/profile/update/", in)
	if err != nil {
		return nil, err
	}
	var result ProfileDTO
	if err := decode(resp.Data, "", "/auth/profile", &result); err != nil {
		return nil, err
	}
	return &result, nil
}
