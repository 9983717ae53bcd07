package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/usecase"
	"github.com/iho/creditledger/internal/usecase/mocks"
)

type accountFixture struct {
	minter   *mocks.MockAccountMinter
	registry *mocks.MockOwnershipRegistry
	config   *mocks.MockConfigReader
	outbox   *mocks.MockOutboxRepository
	audit    *mocks.MockAuditRepository
	tx       *mocks.MockTransaction
	uc       *usecase.AccountUseCase
}

func newAccountFixture(t *testing.T) *accountFixture {
	ctrl := gomock.NewController(t)
	f := &accountFixture{
		minter:   mocks.NewMockAccountMinter(ctrl),
		registry: mocks.NewMockOwnershipRegistry(ctrl),
		config:   mocks.NewMockConfigReader(ctrl),
		outbox:   mocks.NewMockOutboxRepository(),
		audit:    mocks.NewMockAuditRepository(),
		tx:       &mocks.MockTransaction{},
	}
	txManager := mocks.NewMockTransactionManager()
	txManager.BeginFunc = func(ctx context.Context) (usecase.Transaction, error) {
		return f.tx, nil
	}
	f.uc = usecase.NewAccountUseCase("credit-manager", txManager, f.minter, f.registry, f.config,
		f.outbox, f.audit, mocks.NewMockIDGenerator(), nil)
	return f
}

func TestAccountUseCase_CreateAccount(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()
	f.config.EXPECT().IsProtocolPrincipal(gomock.Any(), "alice").Return(false, nil)
	f.minter.EXPECT().Mint(gomock.Any(), "alice").Return("1", nil)

	id, err := f.uc.CreateAccount(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "1", id)
	assert.True(t, f.tx.Committed)

	require.Len(t, f.outbox.Events, 1)
	assert.Equal(t, domain.EventTypeAccountCreated, f.outbox.Events[0].EventType)
	assert.Equal(t, "1", f.outbox.Events[0].AggregateID)

	require.Len(t, f.audit.Logs, 1)
	assert.Equal(t, string(domain.AuditStatusSuccess), f.audit.Logs[0].Status)
	assert.Equal(t, "1", f.audit.Logs[0].ResourceID)
}

func TestAccountUseCase_CreateAccountRejectsDisallowedOwners(t *testing.T) {
	tests := []struct {
		name     string
		owner    string
		protocol bool
		want     error
	}{
		{name: "empty owner", owner: "", want: domain.ErrUnauthorized},
		{name: "credit manager itself", owner: "credit-manager", want: domain.ErrDisallowedPrincipal},
		{name: "protocol principal", owner: "oracle", protocol: true, want: domain.ErrDisallowedPrincipal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAccountFixture(t)
			if tt.protocol {
				f.config.EXPECT().IsProtocolPrincipal(gomock.Any(), tt.owner).Return(true, nil)
			}

			_, err := f.uc.CreateAccount(context.Background(), tt.owner)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Empty(t, f.outbox.Events)
			require.Len(t, f.audit.Logs, 1)
			assert.Equal(t, string(domain.AuditStatusFailure), f.audit.Logs[0].Status)
			assert.Equal(t, string(domain.ClassAuthorization), f.audit.Logs[0].ErrorClass)
		})
	}
}

func TestAccountUseCase_CreateAccountWrapsMintFailure(t *testing.T) {
	f := newAccountFixture(t)
	f.config.EXPECT().IsProtocolPrincipal(gomock.Any(), "alice").Return(false, nil)
	f.minter.EXPECT().Mint(gomock.Any(), "alice").Return("", errors.New("nft contract down"))

	_, err := f.uc.CreateAccount(context.Background(), "alice")
	require.Error(t, err)
	assert.Equal(t, domain.ClassExternalCall, domain.ClassOf(err))
	assert.False(t, f.tx.Committed)
}

func TestAccountUseCase_TransferAccount(t *testing.T) {
	f := newAccountFixture(t)
	f.registry.EXPECT().OwnerOf(gomock.Any(), "1").Return("alice", nil)
	f.config.EXPECT().IsProtocolPrincipal(gomock.Any(), "bob").Return(false, nil)
	f.minter.EXPECT().Transfer(gomock.Any(), "1", "alice", "bob").Return(nil)

	require.NoError(t, f.uc.TransferAccount(context.Background(), "1", "alice", "bob"))
	assert.True(t, f.tx.Committed)
	require.Len(t, f.audit.Logs, 1)
	assert.Equal(t, string(domain.AuditActionTransfer), f.audit.Logs[0].Action)
}

func TestAccountUseCase_TransferAccountRequiresOwner(t *testing.T) {
	f := newAccountFixture(t)
	f.registry.EXPECT().OwnerOf(gomock.Any(), "1").Return("alice", nil)

	err := f.uc.TransferAccount(context.Background(), "1", "mallory", "bob")
	assert.True(t, errors.Is(err, domain.ErrNotTokenOwner))
	assert.False(t, f.tx.Committed)
	require.Len(t, f.audit.Logs, 1)
	assert.Equal(t, string(domain.AuditStatusFailure), f.audit.Logs[0].Status)
}

func TestAccountUseCase_OwnerOf(t *testing.T) {
	f := newAccountFixture(t)
	f.registry.EXPECT().OwnerOf(gomock.Any(), "1").Return("alice", nil)
	f.registry.EXPECT().OwnerOf(gomock.Any(), "2").Return("", errors.New("no such token"))

	owner, err := f.uc.OwnerOf(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "alice", owner)

	_, err = f.uc.OwnerOf(context.Background(), "2")
	assert.Equal(t, domain.ClassExternalCall, domain.ClassOf(err))
}
