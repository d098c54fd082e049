package postgresql_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	mock_database "gitlab.ozon.dev/pupkingeorgij/orders/internal/db/mocks"
	"gitlab.ozon.dev/pupkingeorgij/orders/internal/repository"
	"gitlab.ozon.dev/pupkingeorgij/orders/internal/repository/postgresql"
)

func TestOutboxTaskRepo_CreateTx(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns id when missing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewOutboxTaskRepo()

		task := &repository.OutboxTask{
			Payload: []byte(`{"event":"order.created","order_id":1}`),
			Topic:   "order_events",
		}

		mockTx.EXPECT().Exec(
			gomock.Any(),
			gomock.Any(),
			gomock.Any(),
			gomock.Eq(repository.TaskStatusCreated),
			gomock.Eq(task.Payload),
			gomock.Eq(task.Topic),
			gomock.Any(),
			gomock.Any(),
		).Return(pgconn.CommandTag("INSERT 0 1"), nil)

		err := repo.CreateTx(ctx, mockTx, task)
		assert.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, task.ID)
	})

	t.Run("database error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewOutboxTaskRepo()

		expectedErr := errors.New("database error")
		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(pgconn.CommandTag(nil), expectedErr)

		err := repo.CreateTx(ctx, mockTx, &repository.OutboxTask{Topic: "order_events"})
		assert.ErrorIs(t, err, expectedErr)
	})
}

func TestOutboxTaskRepo_UpdateTaskStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewOutboxTaskRepo()

		id := uuid.New()
		mockDB.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Eq(id), gomock.Eq(repository.TaskStatusDone), gomock.Eq(0), gomock.Nil(), gomock.Any(), gomock.Any()).
			Return(pgconn.CommandTag("UPDATE 1"), nil)

		err := repo.UpdateTaskStatus(ctx, mockDB, id, repository.TaskStatusDone, 0, nil, nil)
		assert.NoError(t, err)
	})

	t.Run("task not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewOutboxTaskRepo()

		mockDB.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(pgconn.CommandTag("UPDATE 0"), nil)

		err := repo.UpdateTaskStatus(ctx, mockDB, uuid.New(), repository.TaskStatusDone, 0, nil, nil)
		assert.ErrorIs(t, err, repository.ErrObjectNotFound)
	})
}
