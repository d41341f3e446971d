package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	. "github.com/onsi/gomega"
	goredis "github.com/redis/go-redis/v9"
)

func newTestRevoker(t *testing.T) (*miniredis.Miniredis, *TokenRevoker) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})

	return mr, NewTokenRevokerWithClient(client).(*TokenRevoker)
}

func TestRevokeAndCheck(t *testing.T) {
	RegisterTestingT(t)

	ctx := context.Background()
	_, revoker := newTestRevoker(t)

	err := revoker.Revoke(ctx, "some.jwt.token", time.Hour)
	Expect(err).ToNot(HaveOccurred())

	revoked, err := revoker.IsRevoked(ctx, "some.jwt.token")
	Expect(err).ToNot(HaveOccurred())
	Expect(revoked).To(BeTrue())
}

func TestUnknownTokenIsNotRevoked(t *testing.T) {
	RegisterTestingT(t)

	ctx := context.Background()
	_, revoker := newTestRevoker(t)

	revoked, err := revoker.IsRevoked(ctx, "never-seen")
	Expect(err).ToNot(HaveOccurred())
	Expect(revoked).To(BeFalse())
}

func TestRevocationExpiresWithToken(t *testing.T) {
	RegisterTestingT(t)

	ctx := context.Background()
	mr, revoker := newTestRevoker(t)

	err := revoker.Revoke(ctx, "short-lived", time.Minute)
	Expect(err).ToNot(HaveOccurred())

	mr.FastForward(2 * time.Minute)

	revoked, err := revoker.IsRevoked(ctx, "short-lived")
	Expect(err).ToNot(HaveOccurred())
	Expect(revoked).To(BeFalse())
}

func TestRevokeExpiredTokenIsNoOp(t *testing.T) {
	RegisterTestingT(t)

	ctx := context.Background()
	_, revoker := newTestRevoker(t)

	err := revoker.Revoke(ctx, "already-expired", 0)
	Expect(err).ToNot(HaveOccurred())

	revoked, err := revoker.IsRevoked(ctx, "already-expired")
	Expect(err).ToNot(HaveOccurred())
	Expect(revoked).To(BeFalse())
}
