package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ariefcatur/go-sales-orders/internal/apperr"
	"github.com/ariefcatur/go-sales-orders/internal/party"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newProvider() *Provider {
	p := NewProvider(party.NewMemStore(), "test-secret", time.Hour)
	p.Cost = bcrypt.MinCost
	return p
}

func register(t *testing.T, p *Provider) party.Seller {
	t.Helper()
	s, err := p.Register(context.Background(), RegisterInput{
		Name: "Ana", Surname: "Lopez", Email: "Ana@Shop.test", Password: "secret123",
	})
	require.NoError(t, err)
	return s
}

func TestRegister(t *testing.T) {
	p := newProvider()
	s := register(t, p)

	assert.Equal(t, "ana@shop.test", s.Email)
	assert.NotEqual(t, "secret123", s.PasswordHash)

	_, err := p.Register(context.Background(), RegisterInput{
		Name: "X", Surname: "Y", Email: "ana@shop.test", Password: "secret123",
	})
	assert.True(t, errors.Is(err, apperr.ErrConflict))
}

func TestAuthenticateAndVerify(t *testing.T) {
	p := newProvider()
	s := register(t, p)
	ctx := context.Background()

	token, err := p.Authenticate(ctx, LoginInput{Email: "ana@shop.test", Password: "secret123"})
	require.NoError(t, err)

	actor, err := p.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, s.ID, actor.ID)
	assert.Equal(t, "Ana", actor.Name)
	assert.Equal(t, "Lopez", actor.Surname)

	_, err = p.Authenticate(ctx, LoginInput{Email: "ana@shop.test", Password: "wrong"})
	assert.True(t, errors.Is(err, apperr.ErrUnauthenticated))

	_, err = p.Authenticate(ctx, LoginInput{Email: "nobody@shop.test", Password: "x"})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestVerify_Rejects(t *testing.T) {
	p := newProvider()
	s := register(t, p)

	token, err := p.Issue(s)
	require.NoError(t, err)

	other := newProvider()
	other.Secret = []byte("other")
	_, err = other.Verify(token)
	assert.True(t, errors.Is(err, apperr.ErrUnauthenticated))

	p.Now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = p.Verify(token)
	assert.True(t, errors.Is(err, apperr.ErrUnauthenticated))

	_, err = p.Verify("garbage")
	assert.True(t, errors.Is(err, apperr.ErrUnauthenticated))
}

func TestBearerToken(t *testing.T) {
	tok, ok := BearerToken("Bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)

	_, ok = BearerToken("abc")
	assert.False(t, ok)
	_, ok = BearerToken("Bearer ")
	assert.False(t, ok)
}
