package database

import (
	"github.com/stretchr/testify/mock"
)

type MockWatchPartyRepository struct {
	mock.Mock
}

func (m *MockWatchPartyRepository) Ping() error {
	args := m.Called()
	return args.Error(0)
}
func (m *MockWatchPartyRepository) CreateAccount(accountParams CreateAccountParams) (User, error) {
	args := m.Called(accountParams)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockWatchPartyRepository) UpdateAccount(params UpdateAccountParams) (User, error) {
	args := m.Called(params)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockWatchPartyRepository) GetAccountById(userId int) (User, error) {
	args := m.Called(userId)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockWatchPartyRepository) GetAccountByEmail(email string) (User, error) {
	args := m.Called(email)
	return args.Get(0).(User), args.Error(1)
}
