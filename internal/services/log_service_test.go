package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/debtdesk/api/internal/logger"
	"github.com/stwalsh4118/debtdesk/api/internal/models"
	"github.com/stwalsh4118/debtdesk/api/internal/pagination"
	"github.com/stwalsh4118/debtdesk/api/internal/repository"
)

func newLogService() (*MockLogRepository, LogService) {
	repo := new(MockLogRepository)
	return repo, NewLogService(repo, logger.New("test"))
}

func TestLogList(t *testing.T) {
	repo, service := newLogService()
	next := int64(11)
	f := repository.CursorFilter{Cursor: pagination.NewCursor(nil, "desc", 5)}
	repo.On("List", mock.Anything, f).Return(models.CursorPage[models.LogEntry]{
		Data: []models.LogEntry{{ID: 15}, {ID: 14}},
		Next: &next,
	}, nil)

	page, err := service.List(context.Background(), f)

	require.NoError(t, err)
	assert.Len(t, page.Data, 2)
	assert.Equal(t, &next, page.Next)
	assert.Nil(t, page.Prev)
}

func TestLogGet_NotFound(t *testing.T) {
	repo, service := newLogService()
	repo.On("FindByID", mock.Anything, int64(1)).Return(nil, nil)

	_, err := service.Get(context.Background(), 1)

	requireKind(t, err, KindNotFound)
}

func TestAddBlacklist_Success(t *testing.T) {
	repo, service := newLogService()
	repo.On("AddBlacklist", mock.Anything, int64(2), "10.0.0.5", "scanner").Return(int64(8), nil)

	id, err := service.AddBlacklist(context.Background(), 2, "192.168.1.1", " 10.0.0.5 ", " scanner ")

	require.NoError(t, err)
	assert.Equal(t, int64(8), id)
	repo.AssertExpectations(t)
}

func TestAddBlacklist_InvalidAddress(t *testing.T) {
	repo, service := newLogService()

	_, err := service.AddBlacklist(context.Background(), 2, "192.168.1.1", "10.0.0", "")

	requireKind(t, err, KindValidation)
	repo.AssertNotCalled(t, "AddBlacklist", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAddBlacklist_OwnAddress(t *testing.T) {
	repo, service := newLogService()

	_, err := service.AddBlacklist(context.Background(), 2, "::ffff:10.0.0.5", "10.0.0.5", "")

	requireKind(t, err, KindForbidden)
	repo.AssertNotCalled(t, "AddBlacklist", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAddBlacklist_Duplicate(t *testing.T) {
	repo, service := newLogService()
	repo.On("AddBlacklist", mock.Anything, int64(2), "10.0.0.5", "").Return(int64(0), repository.ErrDuplicate)

	_, err := service.AddBlacklist(context.Background(), 2, "", "10.0.0.5", "")

	e := requireKind(t, err, KindValidation)
	assert.Contains(t, e.Message, "10.0.0.5")
}

func TestDeleteBlacklist(t *testing.T) {
	repo, service := newLogService()
	ctx := context.Background()
	repo.On("DeleteBlacklist", ctx, int64(2), int64(8)).Return(true, nil)
	repo.On("DeleteBlacklist", ctx, int64(2), int64(9)).Return(false, nil)
	repo.On("DeleteBlacklist", ctx, int64(2), int64(10)).Return(false, errors.New("boom"))

	require.NoError(t, service.DeleteBlacklist(ctx, 2, 8))
	requireKind(t, service.DeleteBlacklist(ctx, 2, 9), KindNotFound)
	requireKind(t, service.DeleteBlacklist(ctx, 2, 10), KindPersistence)
}

func TestIsBlacklisted(t *testing.T) {
	repo, service := newLogService()
	repo.On("IsBlacklisted", mock.Anything, "10.0.0.5").Return(true, nil)

	denied, err := service.IsBlacklisted(context.Background(), "10.0.0.5")

	require.NoError(t, err)
	assert.True(t, denied)
}
