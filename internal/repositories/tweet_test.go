package repositories

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/vidtube/vidtube-api/internal/models"
)

func newTweetMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return sqlx.NewDb(db, "sqlmock"), mock
}

func tweetRows(tweets ...models.TweetDB) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"tweet_id", "owner_id", "content", "created_at", "updated_at"})
	for _, tw := range tweets {
		rows.AddRow(tw.TweetID, tw.OwnerID, tw.Content, tw.CreatedAt, tw.UpdatedAt)
	}
	return rows
}

func TestTweetWriteRepository_Save(t *testing.T) {
	db, mock := newTweetMockDB(t)
	repo := NewTweetWriteRepository(db)

	tweet := models.TweetDB{
		TweetID: uuid.New(),
		OwnerID: uuid.New(),
		Content: "first tweet",
	}
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO tweets`).
		WithArgs(tweet.TweetID, tweet.OwnerID, tweet.Content).
		WillReturnRows(tweetRows(models.TweetDB{
			TweetID:   tweet.TweetID,
			OwnerID:   tweet.OwnerID,
			Content:   tweet.Content,
			CreatedAt: now,
			UpdatedAt: now,
		}))

	saved, err := repo.Save(context.Background(), tweet)
	assert.NoError(t, err)
	assert.Equal(t, tweet.TweetID, saved.TweetID)
	assert.Equal(t, "first tweet", saved.Content)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTweetReadRepository_GetByID(t *testing.T) {
	db, mock := newTweetMockDB(t)
	repo := NewTweetReadRepository(db)

	tweetID := uuid.New()
	ownerID := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM tweets WHERE tweet_id`).
		WithArgs(tweetID).
		WillReturnRows(tweetRows(models.TweetDB{
			TweetID:   tweetID,
			OwnerID:   ownerID,
			Content:   "hello",
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}))

	tweet, err := repo.GetByID(context.Background(), tweetID)
	assert.NoError(t, err)
	assert.NotNil(t, tweet)
	assert.Equal(t, ownerID, tweet.OwnerID)
	assert.Equal(t, "hello", tweet.Content)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTweetReadRepository_GetByID_NotFound(t *testing.T) {
	db, mock := newTweetMockDB(t)
	repo := NewTweetReadRepository(db)

	tweetID := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM tweets WHERE tweet_id`).
		WithArgs(tweetID).
		WillReturnError(sql.ErrNoRows)

	tweet, err := repo.GetByID(context.Background(), tweetID)
	assert.NoError(t, err)
	assert.Nil(t, tweet)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTweetReadRepository_ListByOwner(t *testing.T) {
	db, mock := newTweetMockDB(t)
	repo := NewTweetReadRepository(db)

	ownerID := uuid.New()
	newer := models.TweetDB{TweetID: uuid.New(), OwnerID: ownerID, Content: "second", CreatedAt: time.Now()}
	older := models.TweetDB{TweetID: uuid.New(), OwnerID: ownerID, Content: "first", CreatedAt: time.Now().Add(-time.Hour)}

	mock.ExpectQuery(`SELECT .+ FROM tweets WHERE owner_id`).
		WithArgs(ownerID).
		WillReturnRows(tweetRows(newer, older))

	tweets, err := repo.ListByOwner(context.Background(), ownerID)
	assert.NoError(t, err)
	assert.Len(t, tweets, 2)
	assert.Equal(t, "second", tweets[0].Content)
	assert.Equal(t, "first", tweets[1].Content)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTweetWriteRepository_Update(t *testing.T) {
	db, mock := newTweetMockDB(t)
	repo := NewTweetWriteRepository(db)

	tweetID := uuid.New()

	mock.ExpectQuery(`UPDATE tweets SET content`).
		WithArgs(tweetID, "edited").
		WillReturnRows(tweetRows(models.TweetDB{
			TweetID:   tweetID,
			OwnerID:   uuid.New(),
			Content:   "edited",
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}))

	updated, err := repo.Update(context.Background(), tweetID, "edited")
	assert.NoError(t, err)
	assert.NotNil(t, updated)
	assert.Equal(t, "edited", updated.Content)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTweetWriteRepository_Update_NotFound(t *testing.T) {
	db, mock := newTweetMockDB(t)
	repo := NewTweetWriteRepository(db)

	tweetID := uuid.New()

	mock.ExpectQuery(`UPDATE tweets SET content`).
		WithArgs(tweetID, "edited").
		WillReturnError(sql.ErrNoRows)

	updated, err := repo.Update(context.Background(), tweetID, "edited")
	assert.NoError(t, err)
	assert.Nil(t, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTweetWriteRepository_Delete(t *testing.T) {
	db, mock := newTweetMockDB(t)
	repo := NewTweetWriteRepository(db)

	tweetID := uuid.New()

	mock.ExpectExec(`DELETE FROM tweets WHERE tweet_id`).
		WithArgs(tweetID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(context.Background(), tweetID)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
