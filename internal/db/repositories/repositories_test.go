package repositories

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"resq-relief/resq/internal/constants"
	"resq-relief/resq/internal/models"
	"resq-relief/resq/internal/testdb"
)

func seedUser(t *testing.T, gdb *gorm.DB, email string, role constants.Role) *models.User {
	t.Helper()
	u := &models.User{Name: email, Email: email, Password: "x", Role: role, IsActive: true}
	require.NoError(t, NewUserRepositoryGORM(gdb).Create(context.Background(), u))
	return u
}

func seedDisaster(t *testing.T, gdb *gorm.DB, name, location, city string) *models.Disaster {
	t.Helper()
	d := &models.Disaster{
		Name:     name,
		Type:     constants.DisasterTypeFlood,
		Location: location,
		City:     city,
		Severity: constants.SeverityHigh,
		Status:   constants.DisasterStatusActive,
	}
	require.NoError(t, NewDisasterRepository(gdb).Create(context.Background(), d))
	return d
}

func seedTask(t *testing.T, gdb *gorm.DB, disasterID string, required int) *models.Task {
	t.Helper()
	task := &models.Task{
		Title:              "Distribute water",
		TaskType:           constants.TaskTypeFoodDistribution,
		FieldType:          constants.FieldTypeOnField,
		DisasterID:         disasterID,
		VolunteersRequired: required,
		Status:             constants.TaskStatusAvailable,
		Priority:           constants.PriorityMedium,
	}
	require.NoError(t, NewTaskRepository(gdb).Create(context.Background(), task))
	return task
}

func TestTaskAssign(t *testing.T) {
	gdb, _ := testdb.New(t)
	ctx := context.Background()
	repo := NewTaskRepository(gdb)

	d := seedDisaster(t, gdb, "River flood", "North bank", "Dhaka")
	task := seedTask(t, gdb, d.ID, 2)
	v1 := seedUser(t, gdb, "v1@example.com", constants.RoleVolunteer)
	v2 := seedUser(t, gdb, "v2@example.com", constants.RoleVolunteer)
	v3 := seedUser(t, gdb, "v3@example.com", constants.RoleVolunteer)

	require.NoError(t, repo.Assign(ctx, task.ID, v1.ID))

	got, err := repo.FindByID(ctx, task.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 1, got.VolunteersAssigned)
	assert.Equal(t, constants.TaskStatusAssigned, got.Status)
	require.NotNil(t, got.AssignedAt)
	firstAssigned := *got.AssignedAt
	assert.True(t, got.HasVolunteer(v1.ID))

	assert.ErrorIs(t, repo.Assign(ctx, task.ID, v1.ID), ErrAlreadyAssigned)

	require.NoError(t, repo.Assign(ctx, task.ID, v2.ID))
	assert.ErrorIs(t, repo.Assign(ctx, task.ID, v3.ID), ErrTaskFull)

	got, err = repo.FindByID(ctx, task.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 2, got.VolunteersAssigned)
	assert.Len(t, got.AssignedVolunteers, 2)
	assert.True(t, got.AssignedAt.Equal(firstAssigned), "assigned_at is set once")
	require.NotNil(t, got.AssignedVolunteers[0].Volunteer)

	assert.ErrorIs(t, repo.Assign(ctx, "missing", v3.ID), ErrNotFound)
}

func TestTaskAssignRejectsClosedTask(t *testing.T) {
	gdb, _ := testdb.New(t)
	ctx := context.Background()
	repo := NewTaskRepository(gdb)

	d := seedDisaster(t, gdb, "Quake", "Old town", "Sylhet")
	task := seedTask(t, gdb, d.ID, 3)
	v := seedUser(t, gdb, "v@example.com", constants.RoleVolunteer)

	require.NoError(t, repo.UpdateColumns(ctx, task.ID, map[string]any{"status": constants.TaskStatusCompleted}))
	assert.ErrorIs(t, repo.Assign(ctx, task.ID, v.ID), ErrTaskNotOpen)
}

func TestTaskAssignConcurrentNeverOverfills(t *testing.T) {
	gdb, _ := testdb.New(t)
	ctx := context.Background()
	repo := NewTaskRepository(gdb)

	d := seedDisaster(t, gdb, "Cyclone", "Coast", "Khulna")
	task := seedTask(t, gdb, d.ID, 3)

	volunteers := make([]*models.User, 8)
	for i := range volunteers {
		volunteers[i] = seedUser(t, gdb, string(rune('a'+i))+"@example.com", constants.RoleVolunteer)
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		ok   int
		full int
	)
	for _, v := range volunteers {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			err := repo.Assign(ctx, task.ID, id)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrTaskFull):
				full++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(v.ID)
	}
	wg.Wait()

	assert.Equal(t, 3, ok)
	assert.Equal(t, 5, full)

	got, err := repo.FindByID(ctx, task.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 3, got.VolunteersAssigned)
	assert.Len(t, got.AssignedVolunteers, 3)
}

func TestTaskListFilters(t *testing.T) {
	gdb, _ := testdb.New(t)
	ctx := context.Background()
	repo := NewTaskRepository(gdb)

	d := seedDisaster(t, gdb, "Flood", "Delta", "Barisal")
	open := seedTask(t, gdb, d.ID, 2)
	single := seedTask(t, gdb, d.ID, 1)
	v := seedUser(t, gdb, "v@example.com", constants.RoleVolunteer)
	require.NoError(t, repo.Assign(ctx, single.ID, v.ID))

	withCapacity, err := repo.List(ctx, TaskFilter{
		Statuses:     constants.OpenTaskStatuses,
		WithCapacity: true,
	})
	require.NoError(t, err)
	require.Len(t, withCapacity, 1)
	assert.Equal(t, open.ID, withCapacity[0].ID)

	mine, err := repo.List(ctx, TaskFilter{VolunteerID: v.ID})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, single.ID, mine[0].ID)

	active, err := repo.CountActiveForVolunteer(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), active)
}

func TestShelterCompareAndSetOccupancy(t *testing.T) {
	gdb, _ := testdb.New(t)
	ctx := context.Background()
	repo := NewShelterRepository(gdb)
	donor := seedUser(t, gdb, "donor@example.com", constants.RoleDonor)

	s := &models.Shelter{DonorID: donor.ID, Name: "Hall", Address: "1 Road", City: "Dhaka", BedsAvailable: 10}
	require.NoError(t, repo.Create(ctx, s))
	assert.Equal(t, constants.ShelterStatusAvailable, s.Status)

	current, err := repo.FindByID(ctx, s.ID, false)
	require.NoError(t, err)

	status, err := repo.CompareAndSetOccupancy(ctx, current, 10)
	require.NoError(t, err)
	assert.Equal(t, constants.ShelterStatusFull, status)

	// current is now stale
	_, err = repo.CompareAndSetOccupancy(ctx, current, 3)
	assert.ErrorIs(t, err, ErrStaleWrite)

	current, err = repo.FindByID(ctx, s.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 10, current.BedsOccupied)

	status, err = repo.CompareAndSetOccupancy(ctx, current, 3)
	require.NoError(t, err)
	assert.Equal(t, constants.ShelterStatusAvailable, status)
}

func TestShelterUpdateGuarded(t *testing.T) {
	gdb, _ := testdb.New(t)
	ctx := context.Background()
	repo := NewShelterRepository(gdb)
	donor := seedUser(t, gdb, "donor@example.com", constants.RoleDonor)

	s := &models.Shelter{DonorID: donor.ID, Name: "Hall", Address: "1 Road", City: "Dhaka", BedsAvailable: 5, BedsOccupied: 2}
	require.NoError(t, repo.Create(ctx, s))

	loaded, err := repo.FindByID(ctx, s.ID, false)
	require.NoError(t, err)

	loaded.BedsAvailable = 2
	require.NoError(t, repo.UpdateGuarded(ctx, loaded, 5, 2))

	got, err := repo.FindByID(ctx, s.ID, true)
	require.NoError(t, err)
	assert.Equal(t, constants.ShelterStatusFull, got.Status)
	require.NotNil(t, got.Donor)
	assert.Equal(t, donor.ID, got.Donor.ID)

	got.Name = "Renamed"
	assert.ErrorIs(t, repo.UpdateGuarded(ctx, got, 5, 2), ErrStaleWrite)
}

func TestShelterListByFreeBeds(t *testing.T) {
	gdb, _ := testdb.New(t)
	ctx := context.Background()
	repo := NewShelterRepository(gdb)
	donor := seedUser(t, gdb, "donor@example.com", constants.RoleDonor)

	for _, beds := range []int{3, 9, 5} {
		require.NoError(t, repo.Create(ctx, &models.Shelter{
			DonorID: donor.ID, Name: "S", Address: "A", City: "Chittagong", BedsAvailable: beds,
		}))
	}

	list, err := repo.List(ctx, ShelterFilter{City: "chitta", ByFreeBeds: true})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, 9, list[0].FreeBeds())
	assert.Equal(t, 5, list[1].FreeBeds())
	assert.Equal(t, 3, list[2].FreeBeds())
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	gdb, _ := testdb.New(t)
	ctx := context.Background()
	repo := NewUserRepositoryGORM(gdb)

	seedUser(t, gdb, "dup@example.com", constants.RoleDonor)
	err := repo.Create(ctx, &models.User{Name: "Again", Email: "dup@example.com", Password: "x", Role: constants.RoleVictim})
	assert.ErrorIs(t, err, ErrDuplicate)

	taken, err := repo.EmailTaken(ctx, "dup@example.com", "")
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestUserDeleteReleasesTaskSlots(t *testing.T) {
	gdb, _ := testdb.New(t)
	ctx := context.Background()
	users := NewUserRepositoryGORM(gdb)
	tasks := NewTaskRepository(gdb)

	d := seedDisaster(t, gdb, "Fire", "Hills", "Rangamati")
	task := seedTask(t, gdb, d.ID, 2)
	shared := seedTask(t, gdb, d.ID, 2)
	v := seedUser(t, gdb, "v@example.com", constants.RoleVolunteer)
	other := seedUser(t, gdb, "other@example.com", constants.RoleVolunteer)
	require.NoError(t, tasks.Assign(ctx, task.ID, v.ID))
	require.NoError(t, tasks.Assign(ctx, shared.ID, v.ID))
	require.NoError(t, tasks.Assign(ctx, shared.ID, other.ID))

	require.NoError(t, users.Delete(ctx, v.ID))

	got, err := tasks.FindByID(ctx, task.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 0, got.VolunteersAssigned)
	assert.Empty(t, got.AssignedVolunteers)
	assert.Equal(t, constants.TaskStatusAvailable, got.Status)

	got, err = tasks.FindByID(ctx, shared.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 1, got.VolunteersAssigned)
	assert.Equal(t, constants.TaskStatusAssigned, got.Status)

	_, err = users.FindByID(ctx, v.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, users.Delete(ctx, v.ID), ErrNotFound)
}

func TestDisasterSearchCandidates(t *testing.T) {
	gdb, _ := testdb.New(t)
	ctx := context.Background()
	repo := NewDisasterRepository(gdb)

	seedDisaster(t, gdb, "Sylhet flash flood", "Sunamganj", "Sylhet")
	seedDisaster(t, gdb, "Earthquake", "Old Dhaka", "Dhaka")
	seedDisaster(t, gdb, "Landslide", "Hill tracts", "Rangamati")

	out, err := repo.SearchCandidates(ctx, []string{"flood", "dhaka"}, DisasterFilter{}, 10)
	require.NoError(t, err)
	assert.Len(t, out, 2)

	out, err = repo.SearchCandidates(ctx, []string{"dhaka"}, DisasterFilter{City: "rangamati"}, 10)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSearchTreatsWildcardsLiterally(t *testing.T) {
	gdb, _ := testdb.New(t)
	ctx := context.Background()
	disasters := NewDisasterRepository(gdb)
	users := NewUserRepositoryGORM(gdb)

	seedDisaster(t, gdb, "River flood", "Char area", "Kurigram")
	seedDisaster(t, gdb, "100% flooded_zone", "Haor", "Kishoreganj")
	seedUser(t, gdb, "victim@example.com", constants.RoleVictim)

	for _, term := range []string{"%", "_", `\`} {
		out, err := disasters.SearchCandidates(ctx, []string{term}, DisasterFilter{}, 10)
		require.NoError(t, err)
		if term == `\` {
			assert.Empty(t, out, term)
			continue
		}
		require.Len(t, out, 1, term)
		assert.Equal(t, "100% flooded_zone", out[0].Name)
	}

	list, err := users.List(ctx, UserFilter{Query: "%"})
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = users.List(ctx, UserFilter{Query: "victim@"})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestStatsRepository(t *testing.T) {
	gdb, sqlxDB := testdb.New(t)
	ctx := context.Background()
	stats := NewStatsRepository(sqlxDB)

	victim := seedUser(t, gdb, "victim@example.com", constants.RoleVictim)
	donor := seedUser(t, gdb, "donor@example.com", constants.RoleDonor)
	seedUser(t, gdb, "donor2@example.com", constants.RoleDonor)

	aid := NewAidRequestRepository(gdb)
	require.NoError(t, aid.Create(ctx, &models.AidRequest{
		VictimID: victim.ID, AidType: constants.AidTypeFood, Amount: 80,
		Status: constants.AidStatusPending, ExceedsLimit: true, SystemLimit: 50,
	}))
	require.NoError(t, aid.Create(ctx, &models.AidRequest{
		VictimID: victim.ID, AidType: constants.AidTypeMedical, Amount: 5,
		Status: constants.AidStatusDelivered,
	}))

	donations := NewDonationRepository(gdb)
	require.NoError(t, donations.Create(ctx, &models.Donation{
		DonorID: donor.ID, Type: constants.DonationTypeMoney, Amount: 250.5, Status: constants.DonationStatusVerified,
	}))
	require.NoError(t, donations.Create(ctx, &models.Donation{
		DonorID: donor.ID, Type: constants.DonationTypeMoney, Amount: 99, Status: constants.DonationStatusRejected,
	}))

	byRole, err := stats.Grouped(ctx, constants.CountUsersByRole)
	require.NoError(t, err)
	assert.Equal(t, int64(2), byRole[string(constants.RoleDonor)])
	assert.Equal(t, int64(1), byRole[string(constants.RoleVictim)])

	over, err := stats.PendingOverLimit(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), over)

	helped, err := stats.PeopleHelped(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), helped)

	money, err := stats.VerifiedMoney(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 250.5, money, 0.001)

	capacity, err := stats.OpenShelterCapacity(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), capacity.Shelters)

	assert.NoError(t, stats.Ping(ctx))
}
