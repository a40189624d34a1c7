package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Dan9191/users-service/internal/models"
	"github.com/Dan9191/users-service/internal/repository"
	"github.com/Dan9191/users-service/internal/service"
	"github.com/Dan9191/users-service/internal/test"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(connector *test.Connector) (*service.Service, *logtest.Hook) {
	log, hook := logtest.NewNullLogger()
	repo := repository.NewRepository(connector, repository.Postgres)
	return service.NewService(repo, log), hook
}

func TestService_CreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("stores user", func(t *testing.T) {
		connector := &test.Connector{}
		svc, hook := newService(connector)

		err := svc.CreateUser(ctx, models.UserInput{Name: models.Some("Ana"), Email: models.Some("ana@example.com")})
		require.NoError(t, err)
		assert.Len(t, connector.Statements(), 1)
		require.NotNil(t, hook.LastEntry())
		assert.Equal(t, "User created: ana@example.com", hook.LastEntry().Message)
	})

	t.Run("empty strings are accepted", func(t *testing.T) {
		connector := &test.Connector{}
		svc, _ := newService(connector)

		err := svc.CreateUser(ctx, models.UserInput{Name: models.Some(""), Email: models.Some("")})
		require.NoError(t, err)
		assert.Len(t, connector.Statements(), 1)
	})

	t.Run("explicit null is stored as NULL", func(t *testing.T) {
		connector := &test.Connector{}
		svc, hook := newService(connector)

		err := svc.CreateUser(ctx, models.UserInput{Name: models.Null(), Email: models.Null()})
		require.NoError(t, err)
		stmts := connector.Statements()
		require.Len(t, stmts, 1)
		assert.Nil(t, stmts[0].Args[0])
		assert.Nil(t, stmts[0].Args[1])
		assert.Equal(t, "User created: <null>", hook.LastEntry().Message)
	})

	for _, tc := range []struct {
		name  string
		input models.UserInput
		field string
	}{
		{name: "missing name", input: models.UserInput{Email: models.Some("ana@example.com")}, field: "name"},
		{name: "missing email", input: models.UserInput{Name: models.Some("Ana")}, field: "email"},
		{name: "missing both", input: models.UserInput{}, field: "name"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			connector := &test.Connector{}
			svc, _ := newService(connector)

			err := svc.CreateUser(ctx, tc.input)
			assert.ErrorIs(t, err, service.ErrMissingField)
			assert.EqualError(t, err, "missing required field: "+tc.field)
			assert.Equal(t, 0, connector.Opened())
		})
	}

	t.Run("repository failure", func(t *testing.T) {
		connector := &test.Connector{ExecErr: errors.New("boom")}
		svc, hook := newService(connector)

		err := svc.CreateUser(ctx, models.UserInput{Name: models.Some("Ana"), Email: models.Some("ana@example.com")})
		assert.Error(t, err)
		assert.Empty(t, hook.AllEntries())
	})
}

func TestService_UpdateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("no matching row is success", func(t *testing.T) {
		connector := &test.Connector{RowsAffected: 0}
		svc, hook := newService(connector)

		err := svc.UpdateUser(ctx, 1, models.UserInput{Name: models.Some("Novo Nome"), Email: models.Some("novo@example.com")})
		require.NoError(t, err)
		entry := hook.LastEntry()
		require.NotNil(t, entry)
		assert.Equal(t, logrus.InfoLevel, entry.Level)
		assert.Equal(t, int64(1), entry.Data["user_id"])
		assert.Equal(t, int64(0), entry.Data["rows_affected"])
	})

	t.Run("missing field", func(t *testing.T) {
		connector := &test.Connector{}
		svc, _ := newService(connector)

		err := svc.UpdateUser(ctx, 1, models.UserInput{Name: models.Some("Novo Nome")})
		assert.ErrorIs(t, err, service.ErrMissingField)
		assert.Equal(t, 0, connector.Opened())
	})
}

func TestService_DeleteUser(t *testing.T) {
	connector := &test.Connector{RowsAffected: 1}
	svc, hook := newService(connector)

	require.NoError(t, svc.DeleteUser(context.Background(), 3))
	assert.Equal(t, "User deleted", hook.LastEntry().Message)
	assert.Equal(t, int64(1), hook.LastEntry().Data["rows_affected"])
}

func TestService_Health(t *testing.T) {
	svc, _ := newService(&test.Connector{})
	assert.NoError(t, svc.Health(context.Background()))

	svc, _ = newService(&test.Connector{ConnectErr: errors.New("refused")})
	assert.EqualError(t, svc.Health(context.Background()), "refused")
}
