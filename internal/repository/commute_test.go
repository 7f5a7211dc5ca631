package repository_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/commutelog/api/internal/model"
	"github.com/commutelog/api/internal/repository"
	"github.com/commutelog/api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type commuteFixture struct {
	users    repository.UserRepository
	commutes repository.CommuteRepository
	owner    *model.User
	other    *model.User
}

func newCommuteFixture(t *testing.T) *commuteFixture {
	t.Helper()

	database := testutil.NewDB(t)
	f := &commuteFixture{
		users:    repository.NewUserRepository(database),
		commutes: repository.NewCommuteRepository(database),
	}
	f.owner = newUser(t, f.users, "owner@example.com")
	f.other = newUser(t, f.users, "other@example.com")
	return f
}

func (f *commuteFixture) create(t *testing.T, userID int64, start string) *model.Commute {
	t.Helper()

	commute := &model.Commute{
		UserID:    userID,
		FromLabel: testutil.Ptr("Home"),
		ToLabel:   testutil.Ptr("Office"),
		Mode:      testutil.Ptr("bike"),
		StartTime: testutil.Ptr(start),
	}
	require.NoError(t, f.commutes.Create(context.Background(), commute))
	require.NotZero(t, commute.ID)
	return commute
}

func TestCommuteRepository_ListOrderedByStartDesc(t *testing.T) {
	f := newCommuteFixture(t)

	f.create(t, f.owner.ID, "2024-03-02T08:00:00Z")
	f.create(t, f.owner.ID, "2024-03-04T08:00:00Z")
	f.create(t, f.owner.ID, "2024-03-01T08:00:00Z")
	f.create(t, f.other.ID, "2024-03-05T08:00:00Z")

	commutes, err := f.commutes.Commutes(context.Background(), f.owner.ID)
	require.NoError(t, err)
	require.Len(t, commutes, 3)

	var starts []string
	for _, c := range commutes {
		starts = append(starts, *c.StartTime)
	}
	assert.Equal(t, []string{
		"2024-03-04T08:00:00Z",
		"2024-03-02T08:00:00Z",
		"2024-03-01T08:00:00Z",
	}, starts)
}

func TestCommuteRepository_OwnershipScoping(t *testing.T) {
	ctx := context.Background()
	f := newCommuteFixture(t)
	commute := f.create(t, f.owner.ID, "2024-03-02T08:00:00Z")

	got, err := f.commutes.ByID(ctx, f.owner.ID, commute.ID)
	require.NoError(t, err)
	assert.Equal(t, "Home", *got.FromLabel)

	_, err = f.commutes.ByID(ctx, f.other.ID, commute.ID)
	assert.ErrorIs(t, err, repository.ErrCommuteNotFound)

	stolen := *commute
	stolen.UserID = f.other.ID
	stolen.Notes = testutil.Ptr("mine now")
	assert.ErrorIs(t, f.commutes.Update(ctx, &stolen), repository.ErrCommuteNotFound)

	_, err = f.commutes.SetImage(ctx, f.other.ID, commute.ID, "x.png")
	assert.ErrorIs(t, err, repository.ErrCommuteNotFound)

	_, err = f.commutes.Delete(ctx, f.other.ID, commute.ID)
	assert.ErrorIs(t, err, repository.ErrCommuteNotFound)

	got, err = f.commutes.ByID(ctx, f.owner.ID, commute.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Notes)
	assert.Nil(t, got.Image)
}

func TestCommuteRepository_UpdateOverwritesAllFields(t *testing.T) {
	ctx := context.Background()
	f := newCommuteFixture(t)
	commute := f.create(t, f.owner.ID, "2024-03-02T08:00:00Z")

	update := &model.Commute{
		ID:         commute.ID,
		UserID:     f.owner.ID,
		Mode:       testutil.Ptr("train"),
		DistanceKm: testutil.Ptr(12.5),
	}
	require.NoError(t, f.commutes.Update(ctx, update))

	got, err := f.commutes.ByID(ctx, f.owner.ID, commute.ID)
	require.NoError(t, err)
	assert.Equal(t, "train", *got.Mode)
	assert.InDelta(t, 12.5, *got.DistanceKm, 0.0001)
	assert.Nil(t, got.FromLabel)
	assert.Nil(t, got.StartTime)

	// Same values again still counts as a match.
	require.NoError(t, f.commutes.Update(ctx, update))

	update.ID = 9999
	assert.ErrorIs(t, f.commutes.Update(ctx, update), repository.ErrCommuteNotFound)
}

func TestCommuteRepository_ImageLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newCommuteFixture(t)
	commute := f.create(t, f.owner.ID, "2024-03-02T08:00:00Z")

	previous, err := f.commutes.SetImage(ctx, f.owner.ID, commute.ID, "first.png")
	require.NoError(t, err)
	assert.Nil(t, previous)

	previous, err = f.commutes.SetImage(ctx, f.owner.ID, commute.ID, "second.png")
	require.NoError(t, err)
	require.NotNil(t, previous)
	assert.Equal(t, "first.png", *previous)

	image, err := f.commutes.Delete(ctx, f.owner.ID, commute.ID)
	require.NoError(t, err)
	require.NotNil(t, image)
	assert.Equal(t, "second.png", *image)

	_, err = f.commutes.Delete(ctx, f.owner.ID, commute.ID)
	assert.ErrorIs(t, err, repository.ErrCommuteNotFound)
}

func TestCommuteRepository_DeletingUserCascades(t *testing.T) {
	ctx := context.Background()
	f := newCommuteFixture(t)
	commute := f.create(t, f.owner.ID, "2024-03-02T08:00:00Z")

	_, err := f.commutes.SetImage(ctx, f.owner.ID, commute.ID, "trip.png")
	require.NoError(t, err)
	f.create(t, f.owner.ID, "2024-03-03T08:00:00Z")
	avatar := "me.png"
	_, err = f.users.SetImage(ctx, f.owner.ID, &avatar)
	require.NoError(t, err)

	images, err := f.users.Delete(ctx, f.owner.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"me.png", "trip.png"}, images)

	_, err = f.commutes.ByID(ctx, f.owner.ID, commute.ID)
	assert.ErrorIs(t, err, repository.ErrCommuteNotFound)
}

func TestCommuteRepository_ConcurrentCreate(t *testing.T) {
	f := newCommuteFixture(t)

	var wg sync.WaitGroup
	ids := make([]int64, 2)
	errs := make([]error, 2)
	for i := range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := &model.Commute{UserID: f.owner.ID, StartTime: testutil.Ptr("2024-03-02T08:00:00Z")}
			errs[i] = f.commutes.Create(context.Background(), c)
			ids[i] = c.ID
		}()
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.NotEqual(t, ids[0], ids[1])

	commutes, err := f.commutes.Commutes(context.Background(), f.owner.ID)
	require.NoError(t, err)
	assert.Len(t, commutes, 2)
}

func TestCommuteRepository_ConcurrentImageAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newCommuteFixture(t)

	const n = 40
	commutes := make([]*model.Commute, n)
	for i := range n {
		commutes[i] = f.create(t, f.owner.ID, "2024-03-02T08:00:00Z")
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i, c := range commutes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				_, errs[i] = f.commutes.Delete(ctx, f.owner.ID, c.ID)
				return
			}
			_, errs[i] = f.commutes.SetImage(ctx, f.owner.ID, c.ID, fmt.Sprintf("%d.png", c.ID))
		}()
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "commute %d", commutes[i].ID)
	}

	remaining, err := f.commutes.Commutes(ctx, f.owner.ID)
	require.NoError(t, err)
	assert.Len(t, remaining, n/2)
	for _, c := range remaining {
		require.NotNil(t, c.Image)
		assert.Equal(t, fmt.Sprintf("%d.png", c.ID), *c.Image)
	}
}

func TestCommuteRepository_ImageAttachRacingUserDelete(t *testing.T) {
	ctx := context.Background()
	f := newCommuteFixture(t)
	commute := f.create(t, f.owner.ID, "2024-03-02T08:00:00Z")

	var (
		wg        sync.WaitGroup
		images    []string
		deleteErr error
		attachErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		images, deleteErr = f.users.Delete(ctx, f.owner.ID)
	}()
	go func() {
		defer wg.Done()
		_, attachErr = f.commutes.SetImage(ctx, f.owner.ID, commute.ID, "late.png")
	}()
	wg.Wait()

	require.NoError(t, deleteErr)
	// Either the attach committed first and the delete reports its file,
	// or it ran after the delete and found nothing to attach to.
	if attachErr == nil {
		assert.Equal(t, []string{"late.png"}, images)
	} else {
		assert.ErrorIs(t, attachErr, repository.ErrCommuteNotFound)
		assert.Empty(t, images)
	}
}
