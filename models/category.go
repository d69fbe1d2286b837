package models

// Category 类别元数据（静态注册表，不落库）
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"` // 颜色代码，如 #f97316
}

// 常用类别 ID 常量
const (
	CategoryOther       = "other"
	CategoryOtherIncome = "other_income"
	CategoryOtherFixed  = "other_fixed"
)

// ExpenseCategories 支出类别
var ExpenseCategories = []Category{
	{ID: "food", Name: "餐饮", Icon: "🍔", Color: "#f97316"},
	{ID: "transport", Name: "交通", Icon: "🚗", Color: "#3b82f6"},
	{ID: "parking", Name: "停车", Icon: "🅿️", Color: "#8b5cf6"},
	{ID: "shopping", Name: "购物", Icon: "🛍️", Color: "#ec4899"},
	{ID: "bills", Name: "账单", Icon: "💡", Color: "#eab308"},
	{ID: "entertainment", Name: "娱乐", Icon: "🎬", Color: "#a855f7"},
	{ID: "healthcare", Name: "医疗", Icon: "🏥", Color: "#ef4444"},
	{ID: "education", Name: "教育", Icon: "📚", Color: "#14b8a6"},
	{ID: "travel", Name: "旅行", Icon: "✈️", Color: "#06b6d4"},
	{ID: "groceries", Name: "日用采购", Icon: "🛒", Color: "#22c55e"},
	{ID: "other", Name: "其他", Icon: "📦", Color: "#6b7280"},
}

// IncomeCategories 收入类别
var IncomeCategories = []Category{
	{ID: "salary", Name: "工资", Icon: "💰", Color: "#22c55e"},
	{ID: "freelance", Name: "兼职", Icon: "💻", Color: "#3b82f6"},
	{ID: "investment", Name: "理财", Icon: "📈", Color: "#a855f7"},
	{ID: "gift", Name: "礼金", Icon: "🎁", Color: "#ec4899"},
	{ID: "refund", Name: "退款", Icon: "↩️", Color: "#f97316"},
	{ID: "other_income", Name: "其他收入", Icon: "💵", Color: "#6b7280"},
}

// FixedCostCategories 固定支出类别
var FixedCostCategories = []Category{
	{ID: "rent", Name: "房租", Icon: "🏠", Color: "#3b82f6"},
	{ID: "utilities", Name: "水电", Icon: "⚡", Color: "#eab308"},
	{ID: "insurance", Name: "保险", Icon: "🛡️", Color: "#22c55e"},
	{ID: "subscription", Name: "订阅", Icon: "📅", Color: "#a855f7"},
	{ID: "loan", Name: "贷款", Icon: "💳", Color: "#ef4444"},
	{ID: "other_fixed", Name: "其他", Icon: "📦", Color: "#6b7280"},
}

var categoryIndex = buildCategoryIndex()

func buildCategoryIndex() map[string]Category {
	idx := make(map[string]Category)
	for _, c := range ExpenseCategories {
		idx[c.ID] = c
	}
	for _, c := range IncomeCategories {
		idx[c.ID] = c
	}
	return idx
}

// ResolveCategory 按 ID 查找类别元数据
// 未知 ID 统一回落到"其他"，保证查找永不失败（导入路径可能带入过期类别）
func ResolveCategory(id string) Category {
	if c, ok := categoryIndex[id]; ok {
		return c
	}
	return categoryIndex[CategoryOther]
}

// KnownCategory 类别 ID 是否已注册
func KnownCategory(id string) bool {
	_, ok := categoryIndex[id]
	return ok
}

// CategoriesByType 按交易类型返回类别列表
func CategoriesByType(txType string) []Category {
	if txType == TypeIncome {
		return IncomeCategories
	}
	return ExpenseCategories
}
