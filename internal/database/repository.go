package database

type WatchPartyRepository interface {
	Ping() error
	CreateAccount(accountParams CreateAccountParams) (User, error)
	UpdateAccount(params UpdateAccountParams) (User, error)
	GetAccountById(accountId int) (User, error)
	GetAccountByEmail(email string) (User, error)
}
