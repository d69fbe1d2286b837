package ledger

import (
	"testing"
	"time"

	"budgetown/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return NewStore(gormDB), mock, func() { sqlDB.Close() }
}

func walletRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "name", "icon", "color", "base_balance",
		"created_at", "updated_at", "deleted_at",
	})
}

func TestStore_ListWallets_SeedsDefaults(t *testing.T) {
	store, mock, cleanup := newMockStore(t)
	defer cleanup()

	// 无钱包时初始化默认集合
	mock.ExpectQuery("SELECT .* FROM `wallets`").
		WithArgs(uint(1)).
		WillReturnRows(walletRows())
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `wallets`").
		WillReturnResult(sqlmock.NewResult(1, 3))
	mock.ExpectCommit()

	wallets, err := store.ListWallets(1)
	require.NoError(t, err)
	require.Len(t, wallets, 3)
	assert.Equal(t, "Tunai", wallets[0].Name)
	for _, w := range wallets {
		assert.True(t, w.BaseBalance.IsZero())
		assert.Equal(t, uint(1), w.UserID)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_ListWallets_Existing(t *testing.T) {
	store, mock, cleanup := newMockStore(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `wallets`").
		WithArgs(uint(1)).
		WillReturnRows(walletRows().
			AddRow(1, 1, "Tunai", "💵", "#22c55e", "100.50", time.Now(), time.Now(), nil))

	wallets, err := store.ListWallets(1)
	require.NoError(t, err)
	require.Len(t, wallets, 1)
	assert.True(t, wallets[0].BaseBalance.Equal(dec(t, "100.50")))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_DeleteWallet_LastWalletProtected(t *testing.T) {
	store, mock, cleanup := newMockStore(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `wallets`").
		WithArgs(uint(7), uint(1)).
		WillReturnRows(walletRows().
			AddRow(7, 1, "Tunai", "💵", "#22c55e", "0", time.Now(), time.Now(), nil))
	mock.ExpectQuery("SELECT count.* FROM `wallets`").
		WithArgs(uint(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	err := store.DeleteWallet(1, 7)
	assert.ErrorIs(t, err, ErrPreconditionFailed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_DeleteWallet_DetachesTransactions(t *testing.T) {
	store, mock, cleanup := newMockStore(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `wallets`").
		WithArgs(uint(7), uint(1)).
		WillReturnRows(walletRows().
			AddRow(7, 1, "BCA", "🏦", "#004B93", "0", time.Now(), time.Now(), nil))
	mock.ExpectQuery("SELECT count.* FROM `wallets`").
		WithArgs(uint(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	// 交易转未归属
	mock.ExpectExec("UPDATE `transactions`").
		WillReturnResult(sqlmock.NewResult(0, 3))
	// 软删除钱包
	mock.ExpectExec("UPDATE `wallets`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.DeleteWallet(1, 7)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_DeleteWallet_NotFound(t *testing.T) {
	store, mock, cleanup := newMockStore(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `wallets`").
		WithArgs(uint(99), uint(1)).
		WillReturnRows(walletRows())
	mock.ExpectRollback()

	err := store.DeleteWallet(1, 99)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_AddTransaction_InvalidAmount(t *testing.T) {
	store, _, cleanup := newMockStore(t)
	defer cleanup()

	// 零和负数金额直接拒绝，不触碰数据库
	for _, amount := range []string{"0", "-1", "-99.99"} {
		_, err := store.AddTransaction(1, TransactionDraft{
			Type:   models.TypeExpense,
			Amount: dec(t, amount),
		})
		assert.ErrorIs(t, err, ErrInvalidAmount, "amount=%s", amount)
	}
}

func TestStore_AddTransaction_UnknownType(t *testing.T) {
	store, _, cleanup := newMockStore(t)
	defer cleanup()

	_, err := store.AddTransaction(1, TransactionDraft{
		Type:   "transfer",
		Amount: dec(t, "100"),
	})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestStore_AddTransaction_UnknownCategoryFallsBack(t *testing.T) {
	store, mock, cleanup := newMockStore(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `transactions`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tx, err := store.AddTransaction(1, TransactionDraft{
		Type:       models.TypeExpense,
		Amount:     dec(t, "100"),
		CategoryID: "stale-category-from-import",
		Date:       time.Now(),
	})
	require.NoError(t, err)
	// 未知类别回落到"其他"
	assert.Equal(t, models.CategoryOther, tx.CategoryID)
	assert.Equal(t, models.SourceManual, tx.Source)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_AddTransaction_DanglingWalletBecomesUnattributed(t *testing.T) {
	store, mock, cleanup := newMockStore(t)
	defer cleanup()

	// 引用的钱包不属于该用户
	mock.ExpectQuery("SELECT count.* FROM `wallets`").
		WithArgs(uint(42), uint(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `transactions`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tx, err := store.AddTransaction(1, TransactionDraft{
		Type:       models.TypeIncome,
		Amount:     dec(t, "100"),
		CategoryID: "salary",
		WalletID:   ptr(42),
		Date:       time.Now(),
	})
	require.NoError(t, err)
	assert.Nil(t, tx.WalletID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_GetTransaction(t *testing.T) {
	store, mock, cleanup := newMockStore(t)
	defer cleanup()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "type", "amount", "category_id", "wallet_id",
		"date", "description", "source", "created_at", "updated_at", "deleted_at",
	}).AddRow(5, 1, "expense", "45000", "food", nil, now, "lunch", "manual", now, now, nil)

	mock.ExpectQuery("SELECT .* FROM `transactions`").
		WithArgs(uint(5), uint(1)).
		WillReturnRows(rows)

	tx, err := store.GetTransaction(1, 5)
	require.NoError(t, err)
	assert.Equal(t, uint(5), tx.ID)
	assert.Equal(t, "45000", tx.Amount.String())

	// 记录不存在
	mock.ExpectQuery("SELECT .* FROM `transactions`").
		WithArgs(uint(6), uint(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = store.GetTransaction(1, 6)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_DeleteTransaction_Idempotent(t *testing.T) {
	store, mock, cleanup := newMockStore(t)
	defer cleanup()

	// 第一次删除命中一行
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `transactions`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	require.NoError(t, store.DeleteTransaction(1, 5))

	// 第二次删除无命中，同样成功
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `transactions`").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	require.NoError(t, store.DeleteTransaction(1, 5))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_SetBudget_NegativeRejected(t *testing.T) {
	store, _, cleanup := newMockStore(t)
	defer cleanup()

	_, err := store.SetBudget(1, "food", dec(t, "-100"))
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestStore_SetBudget_ZeroDeletes(t *testing.T) {
	store, mock, cleanup := newMockStore(t)
	defer cleanup()

	// 设为 0 等同于取消预算
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `budgets`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	budget, err := store.SetBudget(1, "food", dec(t, "0"))
	require.NoError(t, err)
	assert.Nil(t, budget)
	require.NoError(t, mock.ExpectationsWereMet())
}
