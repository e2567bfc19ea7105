package service

import (
	"context"
	"testing"

	"barpos/internal/dto"
	"barpos/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func creditFixture(limit, used int64) (CreditService, *fakeCreditRepo, *model.CreditCustomer) {
	customer := &model.CreditCustomer{
		Name:        "Doña Marta",
		CreditLimit: dec(limit),
		CurrentUsed: dec(used),
		Active:      true,
	}
	repo := newFakeCreditRepo(customer)
	return NewCreditService(repo), repo, customer
}

func TestRegisterDebt_UpdatesBalance(t *testing.T) {
	svc, repo, customer := creditFixture(20000, 0)

	resp, err := svc.Register(context.Background(), testActor(false), customer.ID, dto.RegisterTransactionRequest{
		Type:   model.TxDebt,
		Amount: dec(5000),
	})
	require.NoError(t, err)
	assert.Equal(t, model.TxDebt, resp.Type)

	stored := repo.customers[customer.ID]
	assert.True(t, stored.CurrentUsed.Equal(dec(5000)))
	require.Len(t, repo.txs, 1)
}

func TestRegisterDebt_OverLimitRejected(t *testing.T) {
	svc, repo, customer := creditFixture(20000, 18000)

	_, err := svc.Register(context.Background(), testActor(false), customer.ID, dto.RegisterTransactionRequest{
		Type:   model.TxDebt,
		Amount: dec(5000), // available is only 2000
	})
	require.Error(t, err)
	assert.Empty(t, repo.txs)
	assert.True(t, repo.customers[customer.ID].CurrentUsed.Equal(dec(18000)))
}

func TestRegisterPayment_RequiresMethod(t *testing.T) {
	svc, _, customer := creditFixture(20000, 5000)

	_, err := svc.Register(context.Background(), testActor(false), customer.ID, dto.RegisterTransactionRequest{
		Type:   model.TxPayment,
		Amount: dec(1000),
	})
	require.Error(t, err)
}

func TestRegisterPayment_CannotExceedDebt(t *testing.T) {
	svc, _, customer := creditFixture(20000, 3000)
	cash := model.MethodCash

	_, err := svc.Register(context.Background(), testActor(false), customer.ID, dto.RegisterTransactionRequest{
		Type:   model.TxPayment,
		Method: &cash,
		Amount: dec(5000),
	})
	require.Error(t, err)
}

func TestRegisterPayment_ReducesBalance(t *testing.T) {
	svc, repo, customer := creditFixture(20000, 5000)
	transfer := model.MethodTransfer

	resp, err := svc.Register(context.Background(), testActor(false), customer.ID, dto.RegisterTransactionRequest{
		Type:   model.TxPayment,
		Method: &transfer,
		Amount: dec(2000),
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Method)
	assert.Equal(t, model.MethodTransfer, *resp.Method)
	assert.True(t, repo.customers[customer.ID].CurrentUsed.Equal(dec(3000)))
}

func TestRegister_InactiveCustomerRejected(t *testing.T) {
	svc, repo, customer := creditFixture(20000, 0)
	repo.customers[customer.ID].Active = false

	_, err := svc.Register(context.Background(), testActor(false), customer.ID, dto.RegisterTransactionRequest{
		Type:   model.TxDebt,
		Amount: dec(1000),
	})
	require.Error(t, err)
}

func TestRegister_LedgerFailureLeavesBalanceUntouched(t *testing.T) {
	svc, repo, customer := creditFixture(20000, 0)
	repo.failTx = assert.AnError

	_, err := svc.Register(context.Background(), testActor(false), customer.ID, dto.RegisterTransactionRequest{
		Type:   model.TxDebt,
		Amount: dec(1000),
	})
	require.Error(t, err)
	assert.True(t, repo.customers[customer.ID].CurrentUsed.IsZero())
	assert.Empty(t, repo.txs)
}

func TestHistory_ReturnsCustomerEntriesOnly(t *testing.T) {
	svc, repo, customer := creditFixture(20000, 0)
	other := &model.CreditCustomer{Name: "Otro", CreditLimit: dec(10000), Active: true}
	require.NoError(t, repo.CreateCustomer(context.Background(), other))

	ctx := context.Background()
	_, err := svc.Register(ctx, testActor(false), customer.ID, dto.RegisterTransactionRequest{Type: model.TxDebt, Amount: dec(1000)})
	require.NoError(t, err)
	_, err = svc.Register(ctx, testActor(false), other.ID, dto.RegisterTransactionRequest{Type: model.TxDebt, Amount: dec(2000)})
	require.NoError(t, err)

	history, err := svc.History(ctx, customer.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].Amount.Equal(dec(1000)))
}
