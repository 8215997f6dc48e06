package service

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailPolicyCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("accepts a work address with mail exchangers", func(t *testing.T) {
		policy := newEmailPolicy(resolverWithMX())

		require.NoError(t, policy.Check(ctx, "jane@acme-corp.com"))
	})

	t.Run("rejects malformed addresses", func(t *testing.T) {
		policy := newEmailPolicy(resolverWithMX())

		assert.ErrorIs(t, policy.Check(ctx, "not-an-address"), ErrInvalidEmailDomain)
		assert.ErrorIs(t, policy.Check(ctx, "trailing@"), ErrInvalidEmailDomain)
	})

	t.Run("rejects free email providers", func(t *testing.T) {
		policy := newEmailPolicy(resolverWithMX())

		assert.ErrorIs(t, policy.Check(ctx, "jane@gmail.com"), ErrInvalidEmailDomain)
		assert.ErrorIs(t, policy.Check(ctx, "jane@protonmail.com"), ErrInvalidEmailDomain)
	})

	t.Run("rejects disposable providers by list and by naming pattern", func(t *testing.T) {
		policy := newEmailPolicy(resolverWithMX())

		assert.ErrorIs(t, policy.Check(ctx, "jane@mailinator.com"), ErrInvalidEmailDomain)
		assert.ErrorIs(t, policy.Check(ctx, "jane@tempbox.io"), ErrInvalidEmailDomain)
		assert.ErrorIs(t, policy.Check(ctx, "jane@my-throwaway.net"), ErrInvalidEmailDomain)
	})

	t.Run("rejects domains without mail exchangers", func(t *testing.T) {
		policy := newEmailPolicy(&fakeResolver{err: &net.DNSError{IsNotFound: true}})

		assert.ErrorIs(t, policy.Check(ctx, "jane@no-such-domain.example"), ErrUnreachableDomain)
	})

	t.Run("rejects domains with an empty MX set", func(t *testing.T) {
		policy := newEmailPolicy(&fakeResolver{records: []*net.MX{}})

		assert.ErrorIs(t, policy.Check(ctx, "jane@quiet.example"), ErrUnreachableDomain)
	})

	t.Run("tolerates transient resolver failures", func(t *testing.T) {
		policy := newEmailPolicy(&fakeResolver{err: &net.DNSError{IsTimeout: true}})

		assert.NoError(t, policy.Check(ctx, "jane@acme-corp.com"))
	})
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "jane@acme.com", normalizeEmail("  Jane@ACME.com "))
}

func TestIsDisposableDomainIgnoresLaterLabels(t *testing.T) {
	// Only the first label is matched against the naming patterns.
	assert.False(t, isDisposableDomain("mail.temporary-art.com"))
	assert.True(t, isDisposableDomain("tempmail.example.org"))
}
