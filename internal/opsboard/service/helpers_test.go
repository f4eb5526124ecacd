package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/opsboard/internal/opsboard/access"
	"github.com/aussiebroadwan/opsboard/internal/opsboard/domain"
	"github.com/aussiebroadwan/opsboard/internal/opsboard/service"
	"github.com/aussiebroadwan/opsboard/internal/opsboard/store"
	"github.com/aussiebroadwan/opsboard/internal/opsboard/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

var (
	superAdmin = domain.Principal{ID: "sa-1", Role: string(access.SuperAdmin)}
	admin      = domain.Principal{ID: "admin-1", Role: string(access.Admin)}
	manager    = domain.Principal{ID: "mgr-1", Role: string(access.Manager)}
	manager2   = domain.Principal{ID: "mgr-2", Role: string(access.Manager)}
	employee   = domain.Principal{ID: "emp-1", Role: string(access.Employee)}
)

// clock is a settable time source shared by a service and its test.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock(t time.Time) *clock { return &clock{now: t} }

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newStore(t *testing.T) store.Store {
	t.Helper()
	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())
	return s
}

type fixture struct {
	store store.Store
	clock *clock
	svc   *service.InvitationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := newStore(t)
	c := newClock(t0)
	return &fixture{
		store: st,
		clock: c,
		svc: &service.InvitationService{
			Store:  st,
			Access: access.NewResolver(access.DefaultMatrix()),
			Provisioner: &service.Provisioner{
				Identities: st.Identities(),
				Profiles:   st.Profiles(),
				Now:        c.Now,
			},
			Now: c.Now,
		},
	}
}

func (f *fixture) issue(t *testing.T, email, role string, inviter domain.Principal) service.IssuedInvitation {
	t.Helper()
	issued, err := f.svc.Issue(context.Background(), service.IssueRequest{Email: email, Role: role}, inviter)
	require.NoError(t, err)
	return issued
}

func acceptReq(token string) service.AcceptRequest {
	return service.AcceptRequest{
		Token:    token,
		Password: "correct-horse",
		Profile:  domain.ProfileFields{FullName: "Jo Bloggs", Phone: "0400 000 000"},
	}
}
