package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"budgetown/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Store 钱包与交易的权威持有者
// 所有写入校验集中在这里，派生计算（余额/预算/趋势）只读它的输出
type Store struct {
	db *gorm.DB
}

// NewStore 创建 Store
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func wrapDBErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

// escapeLike 转义 LIKE 查询中的通配符 % 和 _，防止用户输入改变匹配语义
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// ---------- 钱包 ----------

// ListWallets 返回用户的全部钱包
// 新用户首次读取时初始化默认钱包集合，保证任何时刻至少有一个钱包
func (s *Store) ListWallets(userID uint) ([]models.Wallet, error) {
	var wallets []models.Wallet
	if err := s.db.Where("user_id = ?", userID).Order("id ASC").Find(&wallets).Error; err != nil {
		return nil, wrapDBErr(err)
	}
	if len(wallets) > 0 {
		return wallets, nil
	}

	// 默认钱包只在这一处构造，读路径不再散落兜底逻辑
	for _, seed := range models.DefaultWallets() {
		wallets = append(wallets, models.Wallet{
			UserID:      userID,
			Name:        seed.Name,
			Icon:        seed.Icon,
			Color:       seed.Color,
			BaseBalance: decimal.Zero,
		})
	}
	if err := s.db.Create(&wallets).Error; err != nil {
		return nil, wrapDBErr(err)
	}
	return wallets, nil
}

// WalletPatch 钱包创建/更新载荷，nil 字段表示不修改
type WalletPatch struct {
	Name        *string
	Icon        *string
	Color       *string
	BaseBalance *decimal.Decimal
}

// UpsertWallet 创建或更新钱包
// id 为 0 或不属于该用户时创建新钱包；更新时只改提供的字段，
// 起始余额只有显式携带时才会变化
func (s *Store) UpsertWallet(userID uint, id uint, patch WalletPatch) (*models.Wallet, error) {
	var wallet models.Wallet
	if id != 0 {
		err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&wallet).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, wrapDBErr(err)
		}
	}

	if wallet.ID == 0 {
		wallet = models.Wallet{
			UserID:      userID,
			Name:        "新钱包",
			Icon:        "💵",
			Color:       "#22c55e",
			BaseBalance: decimal.Zero,
		}
	}

	if patch.Name != nil && strings.TrimSpace(*patch.Name) != "" {
		wallet.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Icon != nil && *patch.Icon != "" {
		wallet.Icon = *patch.Icon
	}
	if patch.Color != nil && *patch.Color != "" {
		wallet.Color = *patch.Color
	}
	if patch.BaseBalance != nil {
		wallet.BaseBalance = *patch.BaseBalance
	}

	if err := s.db.Save(&wallet).Error; err != nil {
		return nil, wrapDBErr(err)
	}
	return &wallet, nil
}

// DeleteWallet 删除钱包
// 最后一个钱包不可删除（ErrPreconditionFailed）；
// 原先归属该钱包的交易改为未归属，不做级联删除
func (s *Store) DeleteWallet(userID uint, walletID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var wallet models.Wallet
		if err := tx.Where("id = ? AND user_id = ?", walletID, userID).First(&wallet).Error; err != nil {
			return wrapDBErr(err)
		}

		var count int64
		if err := tx.Model(&models.Wallet{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return wrapDBErr(err)
		}
		if count <= 1 {
			return fmt.Errorf("%w: 至少保留一个钱包", ErrPreconditionFailed)
		}

		// 交易转为未归属，金额仍计入总余额
		if err := tx.Model(&models.Transaction{}).
			Where("user_id = ? AND wallet_id = ?", userID, walletID).
			Update("wallet_id", nil).Error; err != nil {
			return wrapDBErr(err)
		}

		if err := tx.Delete(&wallet).Error; err != nil {
			return wrapDBErr(err)
		}
		return nil
	})
}

// ---------- 交易 ----------

// TxFilter 交易列表筛选条件，零值字段不生效
type TxFilter struct {
	Type       string     // income / expense
	CategoryID string     //
	WalletID   *uint      //
	Search     string     // 对描述和类别名称做模糊匹配
	From       *time.Time // 起始日期（含）
	To         *time.Time // 结束日期（含）
}

// ListTransactions 按条件返回用户的交易记录，默认按日期倒序
func (s *Store) ListTransactions(userID uint, filter TxFilter) ([]models.Transaction, error) {
	query := s.db.Where("user_id = ?", userID)

	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.CategoryID != "" {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.WalletID != nil {
		query = query.Where("wallet_id = ?", *filter.WalletID)
	}
	if filter.Search != "" {
		// 类别名称不落库，先在注册表里找出名称匹配的类别 ID
		term := strings.TrimSpace(filter.Search)
		var matchedIDs []string
		for _, cat := range append(append([]models.Category{}, models.ExpenseCategories...), models.IncomeCategories...) {
			if strings.Contains(strings.ToLower(cat.Name), strings.ToLower(term)) ||
				strings.Contains(strings.ToLower(cat.ID), strings.ToLower(term)) {
				matchedIDs = append(matchedIDs, cat.ID)
			}
		}
		like := "%" + escapeLike(term) + "%"
		if len(matchedIDs) > 0 {
			query = query.Where("description LIKE ? OR category_id IN ?", like, matchedIDs)
		} else {
			query = query.Where("description LIKE ?", like)
		}
	}
	if filter.From != nil {
		query = query.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("date <= ?", *filter.To)
	}

	var txs []models.Transaction
	if err := query.Order("date DESC, id DESC").Find(&txs).Error; err != nil {
		return nil, wrapDBErr(err)
	}
	return txs, nil
}

// TransactionDraft 新交易载荷
type TransactionDraft struct {
	Type        string
	Amount      decimal.Decimal
	CategoryID  string
	WalletID    *uint
	Date        time.Time
	Description string
	Source      string
}

// AddTransaction 新增交易
// 金额必须为正（ErrInvalidAmount）；未知类别回落到"其他"而不报错，
// 以容忍导入路径带入的过期类别 ID
func (s *Store) AddTransaction(userID uint, draft TransactionDraft) (*models.Transaction, error) {
	if !draft.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if draft.Type != models.TypeIncome && draft.Type != models.TypeExpense {
		return nil, fmt.Errorf("%w: 未知交易类型 %q", ErrInvalidAmount, draft.Type)
	}

	categoryID := draft.CategoryID
	if !models.KnownCategory(categoryID) {
		categoryID = models.ResolveCategory(categoryID).ID
	}

	walletID, err := s.resolveWalletRef(userID, draft.WalletID)
	if err != nil {
		return nil, err
	}

	source := draft.Source
	if source == "" {
		source = models.SourceManual
	}

	tx := models.Transaction{
		UserID:      userID,
		Type:        draft.Type,
		Amount:      draft.Amount,
		CategoryID:  categoryID,
		WalletID:    walletID,
		Date:        draft.Date,
		Description: draft.Description,
		Source:      source,
	}
	if err := s.db.Create(&tx).Error; err != nil {
		return nil, wrapDBErr(err)
	}
	return &tx, nil
}

// resolveWalletRef 校验钱包引用归属；引用不存在时按未归属处理
func (s *Store) resolveWalletRef(userID uint, walletID *uint) (*uint, error) {
	if walletID == nil {
		return nil, nil
	}
	var count int64
	err := s.db.Model(&models.Wallet{}).
		Where("id = ? AND user_id = ?", *walletID, userID).
		Count(&count).Error
	if err != nil {
		return nil, wrapDBErr(err)
	}
	if count == 0 {
		return nil, nil
	}
	return walletID, nil
}

// TransactionPatch 交易部分更新载荷，nil 字段表示不修改
type TransactionPatch struct {
	Type         *string
	Amount       *decimal.Decimal
	CategoryID   *string
	WalletID     *uint
	DetachWallet bool // 为 true 时清除钱包归属
	Date         *time.Time
	Description  *string
}

// GetTransaction 查询单笔交易
// 记录不存在或不属于该用户时返回 ErrNotFound
func (s *Store) GetTransaction(userID uint, id uint) (*models.Transaction, error) {
	var tx models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&tx).Error; err != nil {
		return nil, wrapDBErr(err)
	}
	return &tx, nil
}

// UpdateTransaction 部分更新交易，校验规则与新增一致
// 记录不存在或不属于该用户时返回 ErrNotFound
func (s *Store) UpdateTransaction(userID uint, id uint, patch TransactionPatch) (*models.Transaction, error) {
	var tx models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&tx).Error; err != nil {
		return nil, wrapDBErr(err)
	}

	if patch.Amount != nil {
		if !patch.Amount.IsPositive() {
			return nil, ErrInvalidAmount
		}
		tx.Amount = *patch.Amount
	}
	if patch.Type != nil {
		if *patch.Type != models.TypeIncome && *patch.Type != models.TypeExpense {
			return nil, fmt.Errorf("%w: 未知交易类型 %q", ErrInvalidAmount, *patch.Type)
		}
		tx.Type = *patch.Type
	}
	if patch.CategoryID != nil {
		tx.CategoryID = models.ResolveCategory(*patch.CategoryID).ID
	}
	if patch.DetachWallet {
		tx.WalletID = nil
	} else if patch.WalletID != nil {
		walletID, err := s.resolveWalletRef(userID, patch.WalletID)
		if err != nil {
			return nil, err
		}
		tx.WalletID = walletID
	}
	if patch.Date != nil {
		tx.Date = *patch.Date
	}
	if patch.Description != nil {
		tx.Description = *patch.Description
	}

	if err := s.db.Save(&tx).Error; err != nil {
		return nil, wrapDBErr(err)
	}
	return &tx, nil
}

// DeleteTransaction 删除交易，幂等：记录不存在时同样视为成功
func (s *Store) DeleteTransaction(userID uint, id uint) error {
	result := s.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Transaction{})
	if result.Error != nil {
		return wrapDBErr(result.Error)
	}
	return nil
}

// ---------- 预算 ----------

// ListBudgets 返回用户的全部预算设置
func (s *Store) ListBudgets(userID uint) ([]models.Budget, error) {
	var budgets []models.Budget
	if err := s.db.Where("user_id = ?", userID).Find(&budgets).Error; err != nil {
		return nil, wrapDBErr(err)
	}
	return budgets, nil
}

// SetBudget 设置某类别的月度预算（upsert 语义）
// limit 为负返回 ErrInvalidAmount；为零表示取消预算，删除对应记录
func (s *Store) SetBudget(userID uint, categoryID string, limit decimal.Decimal) (*models.Budget, error) {
	if limit.IsNegative() {
		return nil, fmt.Errorf("%w: 预算上限不能为负", ErrInvalidAmount)
	}
	categoryID = models.ResolveCategory(categoryID).ID

	if limit.IsZero() {
		err := s.db.Where("user_id = ? AND category_id = ?", userID, categoryID).
			Delete(&models.Budget{}).Error
		if err != nil {
			return nil, wrapDBErr(err)
		}
		return nil, nil
	}

	var budget models.Budget
	err := s.db.Where("user_id = ? AND category_id = ?", userID, categoryID).First(&budget).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, wrapDBErr(err)
	}

	budget.UserID = userID
	budget.CategoryID = categoryID
	budget.MonthlyLimit = limit
	if err := s.db.Save(&budget).Error; err != nil {
		return nil, wrapDBErr(err)
	}
	return &budget, nil
}
