package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnhub/backend/models"
)

func sampleJourney() JourneyInput {
	return JourneyInput{
		Name:        "Backend path",
		Description: "From zero to services",
		Resources: []ResourceInput{
			{URL: "https://go.dev/tour", Type: "tutorial", Completed: true},
			{URL: "https://gorm.io/docs", Type: "docs"},
		},
		Tasks: []JourneyTaskInput{
			{Text: "Finish the tour", Completed: true},
			{Text: "Build an API"},
		},
		Steps: []string{"basics", "http", "db"},
		Notes: "weekends only",
	}
}

type shareFixture struct {
	env     *testEnv
	owner   models.User
	friend  models.User
	journey *models.LearningJourney
	share   *models.SharedJourney
}

func newShareFixture(t *testing.T) *shareFixture {
	t.Helper()
	env := newTestEnv(t)
	owner := createUser(t, env.db, "owner")
	friend := createUser(t, env.db, "friend")
	ctx := context.Background()

	journey, err := env.svc.Journeys.Create(ctx, owner.ID, sampleJourney())
	require.NoError(t, err)
	share, err := env.svc.Journeys.Share(ctx, owner.ID, journey.ID, "FRIEND@example.com")
	require.NoError(t, err)
	env.svc.Mail.Wait()

	return &shareFixture{env: env, owner: owner, friend: friend, journey: journey, share: share}
}

func TestJourneyService_CRUD(t *testing.T) {
	env := newTestEnv(t)
	user := createUser(t, env.db, "alice")
	other := createUser(t, env.db, "bob")
	ctx := context.Background()

	_, err := env.svc.Journeys.Create(ctx, user.ID, JourneyInput{})
	_, ok := IsValidation(err)
	assert.True(t, ok)

	journey, err := env.svc.Journeys.Create(ctx, user.ID, sampleJourney())
	require.NoError(t, err)

	got, err := env.svc.Journeys.Get(ctx, user.ID, journey.ID)
	require.NoError(t, err)
	require.Len(t, got.Resources, 2)
	assert.Equal(t, "https://go.dev/tour", got.Resources[0].URL)
	assert.Equal(t, []string{"basics", "http", "db"}, []string(got.Steps))

	_, err = env.svc.Journeys.Get(ctx, other.ID, journey.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	in := sampleJourney()
	in.Name = "Backend path v2"
	in.Tasks = in.Tasks[:1]
	updated, err := env.svc.Journeys.Update(ctx, user.ID, journey.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Backend path v2", updated.Name)

	got, err = env.svc.Journeys.Get(ctx, user.ID, journey.ID)
	require.NoError(t, err)
	require.Len(t, got.Tasks, 1)

	require.NoError(t, env.svc.Journeys.DeleteResource(ctx, user.ID, journey.ID, got.Resources[0].ID))
	assert.ErrorIs(t, env.svc.Journeys.DeleteResource(ctx, user.ID, journey.ID, got.Resources[0].ID), ErrNotFound)
	assert.ErrorIs(t, env.svc.Journeys.DeleteTask(ctx, other.ID, journey.ID, got.Tasks[0].ID), ErrNotFound)
	require.NoError(t, env.svc.Journeys.DeleteTask(ctx, user.ID, journey.ID, got.Tasks[0].ID))

	got, err = env.svc.Journeys.Get(ctx, user.ID, journey.ID)
	require.NoError(t, err)
	assert.Len(t, got.Resources, 1)
	assert.Empty(t, got.Tasks)

	require.NoError(t, env.svc.Journeys.Delete(ctx, user.ID, journey.ID))
	journeys, err := env.svc.Journeys.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, journeys)
}

func TestJourneyService_Share(t *testing.T) {
	f := newShareFixture(t)
	ctx := context.Background()

	assert.Equal(t, models.SharePending, f.share.Status)
	assert.NotEmpty(t, f.share.Token)
	assert.Equal(t, f.friend.ID, f.share.SharedWithID)

	inbox, err := f.env.svc.Notifications.List(ctx, f.friend.ID)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, models.NotificationJourneyShared, inbox[0].Type)
	require.NotNil(t, inbox[0].SharedJourneyID)
	assert.Equal(t, f.share.ID, *inbox[0].SharedJourneyID)

	mails := f.env.mailer.Messages()
	require.Len(t, mails, 1)
	assert.Equal(t, "friend@example.com", mails[0].To)

	again, err := f.env.svc.Journeys.Share(ctx, f.owner.ID, f.journey.ID, "friend@example.com")
	require.NoError(t, err)
	assert.Equal(t, f.share.ID, again.ID, "a pending share is reused")

	pending, err := f.env.svc.Journeys.ListShared(ctx, f.friend.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.NotNil(t, pending[0].Journey)
	assert.Equal(t, "Backend path", pending[0].Journey.Name)
	assert.Len(t, pending[0].Journey.Resources, 2)
	require.NotNil(t, pending[0].SharedBy)
	assert.Equal(t, "owner", pending[0].SharedBy.Username)
}

func TestJourneyService_ShareErrors(t *testing.T) {
	env := newTestEnv(t)
	owner := createUser(t, env.db, "owner")
	other := createUser(t, env.db, "other")
	ctx := context.Background()

	journey, err := env.svc.Journeys.Create(ctx, owner.ID, sampleJourney())
	require.NoError(t, err)

	_, err = env.svc.Journeys.Share(ctx, owner.ID, journey.ID, "")
	_, ok := IsValidation(err)
	assert.True(t, ok)

	_, err = env.svc.Journeys.Share(ctx, owner.ID, journey.ID, "owner@example.com")
	_, ok = IsValidation(err)
	assert.True(t, ok, "sharing with yourself is rejected")

	_, err = env.svc.Journeys.Share(ctx, owner.ID, journey.ID, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.svc.Journeys.Share(ctx, other.ID, journey.ID, "owner@example.com")
	assert.ErrorIs(t, err, ErrNotFound, "only the owner can share")
}

func TestJourneyService_Accept(t *testing.T) {
	f := newShareFixture(t)
	ctx := context.Background()

	res, err := f.env.svc.Journeys.Respond(ctx, f.friend.ID, f.share.ID, ShareAccept)
	require.NoError(t, err)
	require.NotNil(t, res.Journey)

	clone := res.Journey
	assert.Equal(t, f.friend.ID, clone.UserID)
	assert.Equal(t, "Backend path", clone.Name)
	require.NotNil(t, clone.SharedFromID)
	assert.Equal(t, f.journey.ID, *clone.SharedFromID)
	require.Len(t, clone.Resources, 2)
	require.Len(t, clone.Tasks, 2)
	for _, r := range clone.Resources {
		assert.False(t, r.Completed)
	}
	for _, task := range clone.Tasks {
		assert.False(t, task.Completed)
	}
	assert.Equal(t, models.ShareAccepted, res.Share.Status)

	original, err := f.env.svc.Journeys.Get(ctx, f.owner.ID, f.journey.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{f.friend.ID}, []uint(original.SharedWith))
	assert.True(t, original.Resources[0].Completed, "the original keeps its progress")

	inbox, err := f.env.svc.Notifications.List(ctx, f.friend.ID)
	require.NoError(t, err)
	assert.Empty(t, inbox, "share notification is retracted")

	sharerInbox, err := f.env.svc.Notifications.List(ctx, f.owner.ID)
	require.NoError(t, err)
	require.Len(t, sharerInbox, 1)
	assert.Equal(t, models.NotificationShareResponse, sharerInbox[0].Type)
	assert.Contains(t, sharerInbox[0].Message, "accepted")

	journeys, err := f.env.svc.Journeys.List(ctx, f.friend.ID)
	require.NoError(t, err)
	assert.Len(t, journeys, 1)
}

func TestJourneyService_AcceptRetryDoesNotCloneTwice(t *testing.T) {
	f := newShareFixture(t)
	ctx := context.Background()

	first, err := f.env.svc.Journeys.Respond(ctx, f.friend.ID, f.share.ID, ShareAccept)
	require.NoError(t, err)
	second, err := f.env.svc.Journeys.Respond(ctx, f.friend.ID, f.share.ID, ShareAccept)
	require.NoError(t, err)
	assert.Equal(t, first.Journey.ID, second.Journey.ID)

	journeys, err := f.env.svc.Journeys.List(ctx, f.friend.ID)
	require.NoError(t, err)
	assert.Len(t, journeys, 1)

	sharerInbox, err := f.env.svc.Notifications.List(ctx, f.owner.ID)
	require.NoError(t, err)
	assert.Len(t, sharerInbox, 1, "the sharer is told once")

	_, err = f.env.svc.Journeys.Respond(ctx, f.friend.ID, f.share.ID, ShareReject)
	_, ok := IsValidation(err)
	assert.True(t, ok, "an accepted share cannot be rejected")
}

func TestJourneyService_Reject(t *testing.T) {
	f := newShareFixture(t)
	ctx := context.Background()

	res, err := f.env.svc.Journeys.Respond(ctx, f.friend.ID, f.share.ID, ShareReject)
	require.NoError(t, err)
	assert.Nil(t, res.Journey)

	var count int64
	require.NoError(t, f.env.db.Unscoped().Model(&models.SharedJourney{}).Where("id = ?", f.share.ID).Count(&count).Error)
	assert.Zero(t, count, "rejected shares are removed")

	journeys, err := f.env.svc.Journeys.List(ctx, f.friend.ID)
	require.NoError(t, err)
	assert.Empty(t, journeys, "nothing is cloned")

	inbox, err := f.env.svc.Notifications.List(ctx, f.friend.ID)
	require.NoError(t, err)
	assert.Empty(t, inbox)

	sharerInbox, err := f.env.svc.Notifications.List(ctx, f.owner.ID)
	require.NoError(t, err)
	require.Len(t, sharerInbox, 1)
	assert.Contains(t, sharerInbox[0].Message, "rejected")

	_, err = f.env.svc.Journeys.Respond(ctx, f.friend.ID, f.share.ID, ShareReject)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestJourneyService_RespondScopedToRecipient(t *testing.T) {
	f := newShareFixture(t)

	_, err := f.env.svc.Journeys.Respond(context.Background(), f.owner.ID, f.share.ID, ShareAccept)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.env.svc.Journeys.Respond(context.Background(), f.friend.ID, f.share.ID, ShareResponse("maybe"))
	_, ok := IsValidation(err)
	assert.True(t, ok)
}

func TestParseShareResponse(t *testing.T) {
	for raw, want := range map[string]ShareResponse{
		"accept":   ShareAccept,
		"Accepted": ShareAccept,
		"reject":   ShareReject,
		"rejected": ShareReject,
	} {
		got, err := ParseShareResponse(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got)
	}
	_, err := ParseShareResponse("later")
	assert.Error(t, err)
}

func TestCloneJourney(t *testing.T) {
	original := &models.LearningJourney{
		Name:      "Original",
		Resources: []models.JourneyResource{{ID: 7, JourneyID: 3, URL: "u", Completed: true}},
		Tasks:     []models.JourneyTask{{ID: 8, JourneyID: 3, Text: "t", Completed: true}},
		Steps:     []string{"one"},
	}
	original.ID = 3

	clone := CloneJourney(original, 9)
	assert.Equal(t, uint(9), clone.UserID)
	assert.Zero(t, clone.ID)
	assert.Zero(t, clone.Resources[0].ID)
	assert.False(t, clone.Resources[0].Completed)
	assert.False(t, clone.Tasks[0].Completed)
	assert.Equal(t, uint(3), *clone.SharedFromID)

	clone.Steps[0] = "changed"
	assert.Equal(t, "one", original.Steps[0])
}
