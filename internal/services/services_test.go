package services

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resq-relief/resq/internal/auth"
	"resq-relief/resq/internal/common"
	"resq-relief/resq/internal/config"
	"resq-relief/resq/internal/constants"
	"resq-relief/resq/internal/db/repositories"
	"resq-relief/resq/internal/metrics"
	"resq-relief/resq/internal/models"
	"resq-relief/resq/internal/models/dtos"
	"resq-relief/resq/internal/testdb"
)

type fixture struct {
	m         *metrics.MetricsRegistry
	users     *repositories.UserRepositoryGORM
	auth      *AuthService
	userSvc   *UserService
	disasters *DisasterService
	aid       *AidRequestService
	donations *DonationService
	shelters  *ShelterService
	tasks     *TaskService
	stats     *StatsService
	tokens    *auth.TokenService
	cache     common.CacheInterface
}

func newFixture(t *testing.T, limits config.AidLimits) *fixture {
	t.Helper()
	gdb, sqlxDB := testdb.New(t)

	users := repositories.NewUserRepositoryGORM(gdb)
	disasterRepo := repositories.NewDisasterRepository(gdb)
	m := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	cache := common.NewCacheService(time.Minute, time.Minute)
	tokens := auth.NewTokenService("services-test-secret", time.Hour)

	return &fixture{
		m:         m,
		users:     users,
		auth:      NewAuthService(users, tokens, cache),
		userSvc:   NewUserService(users),
		disasters: NewDisasterService(disasterRepo),
		aid:       NewAidRequestService(repositories.NewAidRequestRepository(gdb), disasterRepo, limits, m),
		donations: NewDonationService(repositories.NewDonationRepository(gdb), disasterRepo, m),
		shelters:  NewShelterService(repositories.NewShelterRepository(gdb), disasterRepo, m),
		tasks:     NewTaskService(repositories.NewTaskRepository(gdb), users, disasterRepo, m),
		stats:     NewStatsService(repositories.NewStatsRepository(sqlxDB), cache, time.Minute, m),
		tokens:    tokens,
		cache:     cache,
	}
}

func (f *fixture) signup(t *testing.T, email string, role constants.Role, volunteerRole string) Actor {
	t.Helper()
	resp, err := f.auth.Register(context.Background(), dtos.RegisterRequest{
		Name:          "Test User",
		Email:         email,
		Password:      "secret123",
		Phone:         "+8801700000000",
		Role:          string(role),
		VolunteerRole: volunteerRole,
	})
	require.NoError(t, err)
	return Actor{ID: resp.User.ID, Role: resp.User.Role}
}

func (f *fixture) admin(t *testing.T) Actor {
	t.Helper()
	u := &models.User{Name: "Admin", Email: "admin@resq.test", Password: "x", Role: constants.RoleAdmin, IsActive: true}
	require.NoError(t, f.users.Create(context.Background(), u))
	return Actor{ID: u.ID, Role: constants.RoleAdmin}
}

func (f *fixture) disaster(t *testing.T, admin Actor, name, location, city string) *models.Disaster {
	t.Helper()
	d, err := f.disasters.Add(context.Background(), admin, dtos.DisasterRequest{
		Name:        name,
		Type:        "flood",
		Description: "test",
		Location:    location,
		City:        city,
	})
	require.NoError(t, err)
	return d
}

func assertKind(t *testing.T, err error, kind common.ErrorKind) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, common.IsKind(err, kind), "got %v", err)
}

func TestAidRequestLimitFlagging(t *testing.T) {
	f := newFixture(t, config.AidLimits{Food: 5, Clothes: 30, Shelter: 10, Medical: 20})
	ctx := context.Background()
	victim := f.signup(t, "victim@resq.test", constants.RoleVictim, "")

	tests := []struct {
		name    string
		aidType string
		amount  int
		exceeds bool
		limit   int
	}{
		{"custom food cap breached", "FOOD", 6, true, 5},
		{"custom food cap exact", "food", 5, false, 5},
		{"default medical untouched", "MEDICAL", 20, false, 20},
		{"shelter over default", "SHELTER", 11, true, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ar, err := f.aid.Create(ctx, victim, dtos.AidRequestCreate{AidType: tt.aidType, Amount: tt.amount})
			require.NoError(t, err)
			assert.Equal(t, tt.exceeds, ar.ExceedsLimit)
			assert.Equal(t, tt.limit, ar.SystemLimit)
			assert.Equal(t, constants.AidStatusPending, ar.Status)
			assert.Equal(t, 1, ar.FamilySize)
		})
	}

	_, err := f.aid.Create(ctx, victim, dtos.AidRequestCreate{AidType: "WATER", Amount: 1})
	assertKind(t, err, common.KindValidation)

	missing := "00000000-0000-0000-0000-000000000000"
	_, err = f.aid.Create(ctx, victim, dtos.AidRequestCreate{AidType: "FOOD", Amount: 1, DisasterID: &missing})
	assertKind(t, err, common.KindValidation)

	over := true
	pending, err := f.aid.Pending(ctx, &over)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

func TestAidRequestReviewAndOwnership(t *testing.T) {
	f := newFixture(t, config.DefaultAidLimits())
	ctx := context.Background()
	admin := f.admin(t)
	victim := f.signup(t, "victim@resq.test", constants.RoleVictim, "")
	other := f.signup(t, "other@resq.test", constants.RoleVictim, "")

	ar, err := f.aid.Create(ctx, victim, dtos.AidRequestCreate{AidType: "CLOTHES", Amount: 3})
	require.NoError(t, err)

	_, err = f.aid.Get(ctx, other, ar.ID)
	assertKind(t, err, common.KindForbidden)

	got, err := f.aid.Get(ctx, admin, ar.ID)
	require.NoError(t, err)
	assert.Equal(t, victim.ID, got.VictimID)

	_, err = f.aid.Reject(ctx, admin, ar.ID, "   ")
	assertKind(t, err, common.KindValidation)

	rejected, err := f.aid.Reject(ctx, admin, ar.ID, "Duplicate")
	require.NoError(t, err)
	assert.Equal(t, constants.AidStatusRejected, rejected.Status)
	assert.Equal(t, "Duplicate", rejected.RejectionReason)
	require.NotNil(t, rejected.ReviewedByID)
	assert.Equal(t, admin.ID, *rejected.ReviewedByID)

	delivered, err := f.aid.UpdateStatus(ctx, admin, ar.ID, "delivered")
	require.NoError(t, err)
	assert.Equal(t, constants.AidStatusDelivered, delivered.Status)
	assert.NotNil(t, delivered.DeliveredAt)
	assert.Nil(t, delivered.ReceivedAt)

	_, err = f.aid.UpdateStatus(ctx, admin, ar.ID, "LOST")
	assertKind(t, err, common.KindValidation)

	_, err = f.aid.Approve(ctx, admin, "00000000-0000-0000-0000-000000000000")
	assertKind(t, err, common.KindNotFound)
}

func TestDonationReview(t *testing.T) {
	f := newFixture(t, config.DefaultAidLimits())
	ctx := context.Background()
	admin := f.admin(t)
	donor := f.signup(t, "donor@resq.test", constants.RoleDonor, "")

	money, err := f.donations.CreateMoney(ctx, donor, dtos.MoneyDonationRequest{Amount: 250, PaymentMethod: "card", TransactionID: "TX-1"})
	require.NoError(t, err)
	assert.Equal(t, constants.DonationStatusVerified, money.Status)

	_, err = f.donations.Verify(ctx, admin, money.ID)
	assertKind(t, err, common.KindValidation)

	items, err := f.donations.CreateItems(ctx, donor, dtos.ItemDonationRequest{ItemType: "Rice", Quantity: 10, Description: "10kg bags"})
	require.NoError(t, err)
	assert.Equal(t, constants.DonationStatusPending, items.Status)

	_, err = f.donations.Reject(ctx, admin, items.ID, "")
	assertKind(t, err, common.KindValidation)

	rejected, err := f.donations.Reject(ctx, admin, items.ID, "Expired goods")
	require.NoError(t, err)
	assert.Equal(t, constants.DonationStatusRejected, rejected.Status)

	list, stats, err := f.donations.MyDonations(ctx, donor, repositories.DonationFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, 250.0, stats.TotalMoney)
	assert.Equal(t, 1, stats.TotalItems)
	assert.Equal(t, 2, stats.TotalDonations)
}

func TestSummarizeDonations(t *testing.T) {
	stats := SummarizeDonations([]models.Donation{
		{Type: constants.DonationTypeMoney, Amount: 10.5},
		{Type: constants.DonationTypeMoney, Amount: 4.5},
		{Type: constants.DonationTypeItems, Quantity: 3},
	})
	assert.Equal(t, 15.0, stats.TotalMoney)
	assert.Equal(t, 1, stats.TotalItems)
	assert.Equal(t, 3, stats.TotalDonations)
}

func TestShelterRules(t *testing.T) {
	f := newFixture(t, config.DefaultAidLimits())
	ctx := context.Background()
	admin := f.admin(t)
	owner := f.signup(t, "owner@resq.test", constants.RoleDonor, "")
	other := f.signup(t, "other@resq.test", constants.RoleDonor, "")

	_, err := f.shelters.Offer(ctx, owner, dtos.ShelterRequest{Name: "Bad", Address: "a", City: "c", BedsAvailable: 2, BedsOccupied: 3})
	assertKind(t, err, common.KindValidation)

	shelter, err := f.shelters.Offer(ctx, owner, dtos.ShelterRequest{Name: "Hall", Address: "1 Rd", City: "Barisal", BedsAvailable: 4})
	require.NoError(t, err)
	assert.Equal(t, constants.ShelterStatusAvailable, shelter.Status)

	name := "Hijacked"
	_, err = f.shelters.Update(ctx, other, shelter.ID, dtos.ShelterUpdateRequest{Name: &name})
	assertKind(t, err, common.KindForbidden)
	assertKind(t, f.shelters.Delete(ctx, other, shelter.ID), common.KindForbidden)

	inactive := "inactive"
	updated, err := f.shelters.Update(ctx, owner, shelter.ID, dtos.ShelterUpdateRequest{Status: &inactive})
	require.NoError(t, err)
	assert.Equal(t, constants.ShelterStatusInactive, updated.Status)

	partial, err := f.shelters.UpdateOccupancy(ctx, admin, shelter.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, constants.ShelterStatusInactive, partial.Status)

	full, err := f.shelters.UpdateOccupancy(ctx, admin, shelter.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, constants.ShelterStatusFull, full.Status)

	reopened, err := f.shelters.UpdateOccupancy(ctx, admin, shelter.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, constants.ShelterStatusAvailable, reopened.Status)

	_, err = f.shelters.UpdateOccupancy(ctx, admin, shelter.ID, 5)
	assertKind(t, err, common.KindValidation)

	avail, err := f.shelters.Available(ctx, "barisal", "")
	require.NoError(t, err)
	require.Len(t, avail, 1)
	assert.Equal(t, shelter.ID, avail[0].ID)

	require.NoError(t, f.shelters.Delete(ctx, admin, shelter.ID))
	_, err = f.shelters.Get(ctx, admin, shelter.ID)
	assertKind(t, err, common.KindNotFound)
}

func TestTaskMembershipAndRoleChange(t *testing.T) {
	f := newFixture(t, config.DefaultAidLimits())
	ctx := context.Background()
	admin := f.admin(t)
	d := f.disaster(t, admin, "Cyclone", "Coast", "Cox's Bazar")
	member := f.signup(t, "member@resq.test", constants.RoleVolunteer, "ON_FIELD")
	outsider := f.signup(t, "outsider@resq.test", constants.RoleVolunteer, "OFF_FIELD")

	task, err := f.tasks.Create(ctx, admin, dtos.TaskRequest{
		Title:              "Evacuate ward 3",
		Description:        "Boats at the jetty",
		TaskType:           "rescue",
		FieldType:          "on_field",
		DisasterID:         d.ID,
		VolunteersRequired: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, constants.PriorityMedium, task.Priority)

	_, err = f.tasks.Create(ctx, admin, dtos.TaskRequest{Title: "x", Description: "x", TaskType: "RESCUE", FieldType: "ON_FIELD", VolunteersRequired: 1})
	assertKind(t, err, common.KindValidation)

	onField, err := f.tasks.Available(ctx, member, "")
	require.NoError(t, err)
	assert.Len(t, onField, 1)
	offField, err := f.tasks.Available(ctx, outsider, "")
	require.NoError(t, err)
	assert.Empty(t, offField)

	assigned, err := f.tasks.Assign(ctx, member, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, assigned.VolunteersAssigned)
	assert.Equal(t, constants.TaskStatusAssigned, assigned.Status)

	_, err = f.tasks.UpdateStatus(ctx, outsider, task.ID, dtos.StatusUpdateRequest{Status: "COMPLETED"})
	assertKind(t, err, common.KindForbidden)

	switchRole := "OFF_FIELD"
	_, err = f.tasks.UpdateVolunteerProfile(ctx, member, dtos.VolunteerProfileRequest{VolunteerRole: &switchRole})
	assertKind(t, err, common.KindValidation)
	appErr, ok := common.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, dtos.RoleChangeBlocked{ActiveTasks: 1}, appErr.Data)

	sameRole := "ON_FIELD"
	hours := "weekends"
	user, err := f.tasks.UpdateVolunteerProfile(ctx, member, dtos.VolunteerProfileRequest{VolunteerRole: &sameRole, WorkingHours: &hours})
	require.NoError(t, err)
	assert.Equal(t, "weekends", user.VolunteerProfile.WorkingHours)

	done, err := f.tasks.UpdateStatus(ctx, member, task.ID, dtos.StatusUpdateRequest{Status: "COMPLETED", Notes: "All out"})
	require.NoError(t, err)
	assert.Equal(t, constants.TaskStatusCompleted, done.Status)
	assert.NotNil(t, done.CompletedAt)
	assert.Equal(t, "All out", done.Notes)

	user, err = f.tasks.UpdateVolunteerProfile(ctx, member, dtos.VolunteerProfileRequest{VolunteerRole: &switchRole})
	require.NoError(t, err)
	assert.Equal(t, constants.FieldTypeOffField, user.VolunteerProfile.VolunteerRole)
}

func TestDisasterLifecycleAndSearch(t *testing.T) {
	f := newFixture(t, config.DefaultAidLimits())
	ctx := context.Background()
	admin := f.admin(t)
	victim := f.signup(t, "victim@resq.test", constants.RoleVictim, "")

	cityOnly := f.disaster(t, admin, "Fire", "Old town", "Dhaka")
	nameAndCity := f.disaster(t, admin, "Dhaka flood", "Riverside", "Dhaka")
	f.disaster(t, admin, "Storm", "Harbour", "Chittagong")

	found, err := f.disasters.Search(ctx, "dhaka", repositories.DisasterFilter{})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, nameAndCity.ID, found[0].ID)
	assert.Equal(t, cityOnly.ID, found[1].ID)

	reported, err := f.disasters.Report(ctx, victim, dtos.DisasterRequest{
		Name: "Quake", Type: "EARTHQUAKE", Description: "tremor", Location: "Hill", City: "Sylhet",
	})
	require.NoError(t, err)
	assert.Equal(t, constants.DisasterStatusPending, reported.Status)
	assert.Nil(t, reported.VerifiedByID)

	verified, err := f.disasters.Verify(ctx, admin, reported.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.DisasterStatusActive, verified.Status)
	require.NotNil(t, verified.VerifiedByID)
	assert.Equal(t, admin.ID, *verified.VerifiedByID)

	resolved, err := f.disasters.Resolve(ctx, reported.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.DisasterStatusResolved, resolved.Status)

	_, err = f.disasters.Report(ctx, victim, dtos.DisasterRequest{
		Name: "Meteor", Type: "METEOR", Description: "x", Location: "x", City: "x",
	})
	assertKind(t, err, common.KindValidation)

	active, err := f.disasters.List(ctx, repositories.DisasterFilter{Status: constants.DisasterStatusActive})
	require.NoError(t, err)
	assert.Len(t, active, 3)
}

func TestPublicStatsFallbackAndCache(t *testing.T) {
	f := newFixture(t, config.DefaultAidLimits())
	ctx := context.Background()
	admin := f.admin(t)
	f.signup(t, "v1@resq.test", constants.RoleVictim, "")
	f.signup(t, "v2@resq.test", constants.RoleVictim, "")
	donor := f.signup(t, "donor@resq.test", constants.RoleDonor, "")
	f.disaster(t, admin, "Flood", "Bank", "Dhaka")

	_, err := f.donations.CreateMoney(ctx, donor, dtos.MoneyDonationRequest{Amount: 40, PaymentMethod: "cash", TransactionID: "T1"})
	require.NoError(t, err)

	stats, err := f.stats.Public(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.PeopleHelped)
	assert.Equal(t, int64(1), stats.ActiveDisasters)
	assert.Equal(t, int64(1), stats.Donors)
	assert.Equal(t, 40.0, stats.MoneyRaised)

	f.signup(t, "v3@resq.test", constants.RoleVictim, "")
	cached, err := f.stats.Public(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), cached.PeopleHelped)

	key := string(constants.CachePrefixPublicStats)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.m.CacheMissesTotal.WithLabelValues(key)))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.m.CacheHitsTotal.WithLabelValues(key)))

	dash, err := f.stats.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), dash.Users.ByRole[string(constants.RoleVictim)])
}

func TestAuthFlow(t *testing.T) {
	f := newFixture(t, config.DefaultAidLimits())
	ctx := context.Background()

	_, err := f.auth.Register(ctx, dtos.RegisterRequest{Name: "Root", Email: "root@resq.test", Password: "secret123", Phone: "1", Role: "ADMIN"})
	assertKind(t, err, common.KindValidation)

	_, err = f.auth.Register(ctx, dtos.RegisterRequest{Name: "Vic", Email: "vic@resq.test", Password: "secret123", Phone: "1", Role: "VICTIM", DonorType: "NGO"})
	assertKind(t, err, common.KindValidation)

	resp, err := f.auth.Register(ctx, dtos.RegisterRequest{Name: "Donor", Email: "Donor@ResQ.test", Password: "secret123", Phone: "1", Role: "donor"})
	require.NoError(t, err)
	assert.Equal(t, "donor@resq.test", resp.User.Email)
	require.NotNil(t, resp.User.DonorProfile)
	assert.Equal(t, constants.DonorTypeIndividual, resp.User.DonorProfile.DonorType)

	_, err = f.auth.Register(ctx, dtos.RegisterRequest{Name: "Again", Email: "donor@resq.test", Password: "secret123", Phone: "1", Role: "DONOR"})
	assertKind(t, err, common.KindValidation)

	_, err = f.auth.Login(ctx, dtos.LoginRequest{Email: "donor@resq.test", Password: "wrong"})
	assertKind(t, err, common.KindUnauthorized)

	login, err := f.auth.Login(ctx, dtos.LoginRequest{Email: "donor@resq.test", Password: "secret123"})
	require.NoError(t, err)
	assert.NotNil(t, login.User.LastLogin)

	claims, err := f.tokens.Parse(login.Token)
	require.NoError(t, err)
	assert.False(t, f.auth.IsRevoked(claims.TokenID()))
	f.auth.Logout(claims)
	assert.True(t, f.auth.IsRevoked(claims.TokenID()))

	actor := Actor{ID: resp.User.ID, Role: constants.RoleDonor}
	err = f.auth.ChangePassword(ctx, actor, dtos.ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "another1"})
	assertKind(t, err, common.KindValidation)
	require.NoError(t, f.auth.ChangePassword(ctx, actor, dtos.ChangePasswordRequest{CurrentPassword: "secret123", NewPassword: "another1"}))
	_, err = f.auth.Login(ctx, dtos.LoginRequest{Email: "donor@resq.test", Password: "another1"})
	assert.NoError(t, err)
}

func TestAdminUserManagement(t *testing.T) {
	f := newFixture(t, config.DefaultAidLimits())
	ctx := context.Background()
	admin := f.admin(t)

	created, err := f.userSvc.Create(ctx, dtos.CreateUserRequest{
		RegisterRequest: dtos.RegisterRequest{Name: "Field Lead", Email: "lead@resq.test", Password: "secret123", Phone: "1", Role: "VOLUNTEER"},
		IsVerified:      true,
	})
	require.NoError(t, err)
	assert.True(t, created.IsVerified)
	assert.True(t, created.IsActive)

	_, err = f.userSvc.SetActive(ctx, admin, admin.ID, false)
	assertKind(t, err, common.KindValidation)
	assertKind(t, f.userSvc.Delete(ctx, admin, admin.ID), common.KindValidation)

	off, err := f.userSvc.SetActive(ctx, admin, created.ID, false)
	require.NoError(t, err)
	assert.False(t, off.IsActive)

	_, err = f.auth.Login(ctx, dtos.LoginRequest{Email: "lead@resq.test", Password: "secret123"})
	assertKind(t, err, common.KindForbidden)

	inactive := false
	list, err := f.userSvc.List(ctx, repositories.UserFilter{IsActive: &inactive})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	require.NoError(t, f.userSvc.Delete(ctx, admin, created.ID))
	_, err = f.userSvc.Get(ctx, created.ID)
	assertKind(t, err, common.KindNotFound)
}
