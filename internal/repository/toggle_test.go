package repository

import (
	"context"
	"regexp"
	"sync"
	"testing"

	"socialfeed/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	deleteLikeSQL = regexp.QuoteMeta(`DELETE FROM "likes" WHERE "likes"."user_id" = $1 AND "likes"."post_id" = $2`)
	insertLikeSQL = regexp.QuoteMeta(`INSERT INTO "likes"`) + `.*ON CONFLICT DO NOTHING`
)

func expectDelete(mock sqlmock.Sqlmock, affected int64) {
	mock.ExpectBegin()
	mock.ExpectExec(deleteLikeSQL).
		WithArgs(1, 2).
		WillReturnResult(sqlmock.NewResult(0, affected))
	mock.ExpectCommit()
}

func expectInsert(mock sqlmock.Sqlmock, inserted bool) {
	rows := sqlmock.NewRows([]string{"id"})
	if inserted {
		rows.AddRow(9)
	}
	mock.ExpectBegin()
	mock.ExpectQuery(insertLikeSQL).WillReturnRows(rows)
	mock.ExpectCommit()
}

func TestToggle_SQLShape(t *testing.T) {
	tests := []struct {
		name     string
		behavior func(mock sqlmock.Sqlmock)
		expected ToggleResult
		wantErr  bool
	}{
		{
			name: "Existing row is deleted",
			behavior: func(mock sqlmock.Sqlmock) {
				expectDelete(mock, 1)
			},
			expected: Removed,
		},
		{
			name: "Absent row is inserted",
			behavior: func(mock sqlmock.Sqlmock) {
				expectDelete(mock, 0)
				expectInsert(mock, true)
			},
			expected: Added,
		},
		{
			name: "Lost race retries and removes",
			behavior: func(mock sqlmock.Sqlmock) {
				expectDelete(mock, 0)
				expectInsert(mock, false)
				expectDelete(mock, 1)
			},
			expected: Removed,
		},
		{
			name: "Gives up after bounded attempts",
			behavior: func(mock sqlmock.Sqlmock) {
				for i := 0; i < maxToggleAttempts; i++ {
					expectDelete(mock, 0)
					expectInsert(mock, false)
				}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			tt.behavior(mock)

			res, err := Toggle(context.Background(), db, "like", models.Like{UserID: 1, PostID: 2})
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, models.CodeConflict, models.ErrorCode(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, res)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestToggle_Parity(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	u := createUser(t, db, "parity")
	p := createPost(t, db, u.ID, "hello")
	key := models.Like{UserID: u.ID, PostID: p.ID}

	for n := 1; n <= 5; n++ {
		res, err := Toggle(ctx, db, "like", key)
		require.NoError(t, err)
		assert.Equal(t, n%2 == 1, res == Added, "toggle %d", n)

		var count int64
		require.NoError(t, db.Model(&models.Like{}).Where(&key).Count(&count).Error)
		assert.Equal(t, int64(n%2), count)
	}
}

func TestToggle_ConcurrentPairConverges(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	a := createUser(t, db, "alpha")
	b := createUser(t, db, "beta")
	key := models.Follow{FollowerID: a.ID, FolloweeID: b.ID}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = Toggle(ctx, db, "follow", key)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	var count int64
	require.NoError(t, db.Model(&models.Follow{}).Where(&key).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestToggleResult_String(t *testing.T) {
	assert.Equal(t, "added", Added.String())
	assert.Equal(t, "removed", Removed.String())
}
