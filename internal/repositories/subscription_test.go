package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubscriptionRepository_Toggle(t *testing.T) {
	db, teardown := setupPostgresContainer(t)
	defer teardown()

	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	subscriber := seedUser(t, db, "watcher")
	channel := seedUser(t, db, "channel")

	t.Run("absent before create", func(t *testing.T) {
		got, err := repo.Get(ctx, subscriber.UserID, channel.UserID)
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	sub, err := repo.Create(ctx, subscriber.UserID, channel.UserID)
	assert.NoError(t, err)
	assert.Equal(t, subscriber.UserID, sub.SubscriberID)
	assert.Equal(t, channel.UserID, sub.ChannelID)

	t.Run("duplicate create", func(t *testing.T) {
		_, err := repo.Create(ctx, subscriber.UserID, channel.UserID)
		assert.ErrorIs(t, err, ErrDuplicateRelation)
	})

	t.Run("absent after delete", func(t *testing.T) {
		assert.NoError(t, repo.Delete(ctx, sub.SubscriptionID))

		got, err := repo.Get(ctx, subscriber.UserID, channel.UserID)
		assert.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestSubscriptionRepository_Counts(t *testing.T) {
	db, teardown := setupPostgresContainer(t)
	defer teardown()

	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	channel := seedUser(t, db, "star")
	fan1 := seedUser(t, db, "fan1")
	fan2 := seedUser(t, db, "fan2")

	_, err := repo.Create(ctx, fan1.UserID, channel.UserID)
	assert.NoError(t, err)
	_, err = repo.Create(ctx, fan2.UserID, channel.UserID)
	assert.NoError(t, err)
	_, err = repo.Create(ctx, channel.UserID, fan1.UserID)
	assert.NoError(t, err)

	subs, err := repo.CountForChannel(ctx, channel.UserID)
	assert.NoError(t, err)
	assert.EqualValues(t, 2, subs)

	subbed, err := repo.CountForSubscriber(ctx, channel.UserID)
	assert.NoError(t, err)
	assert.EqualValues(t, 1, subbed)
}

func TestSubscriptionRepository_Listings(t *testing.T) {
	db, teardown := setupPostgresContainer(t)
	defer teardown()

	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	channel := seedUser(t, db, "host")
	fan := seedUser(t, db, "guest")

	_, err := repo.Create(ctx, fan.UserID, channel.UserID)
	assert.NoError(t, err)

	subscribers, err := repo.ListSubscribers(ctx, channel.UserID)
	assert.NoError(t, err)
	assert.Len(t, subscribers, 1)
	assert.Equal(t, "guest", subscribers[0].Username)

	channels, err := repo.ListChannels(ctx, fan.UserID)
	assert.NoError(t, err)
	assert.Len(t, channels, 1)
	assert.Equal(t, "host", channels[0].Username)
}
