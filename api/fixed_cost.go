package api

import (
	"strconv"

	"budgetown/database"
	"budgetown/middleware"
	"budgetown/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// FixedCostRequest 创建/更新固定支出请求
type FixedCostRequest struct {
	Name     string          `json:"name" binding:"required" example:"房租"`
	Amount   decimal.Decimal `json:"amount" binding:"required" example:"2500000"`
	Category string          `json:"category" example:"rent"`
	DueDate  string          `json:"due_date" example:"每月5号"`
	Notes    string          `json:"notes" example:""`
}

// FixedCostListResponse 固定支出列表响应
type FixedCostListResponse struct {
	Items        []models.FixedCost `json:"items"`
	MonthlyTotal decimal.Decimal    `json:"monthly_total"`
}

// GetFixedCosts 获取固定支出列表
// @Summary 获取固定支出列表
// @Description 返回所有固定支出项及每月合计
// @Tags 固定支出
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=FixedCostListResponse} "获取成功"
// @Router /api/v1/fixed-costs [get]
func GetFixedCosts(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var items []models.FixedCost
	if err := database.DB.Where("user_id = ?", userID).Order("amount DESC").Find(&items).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "获取固定支出失败"))
		return
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount)
	}

	Success(c, FixedCostListResponse{
		Items:        items,
		MonthlyTotal: total,
	})
}

// CreateFixedCost 创建固定支出
// @Summary 创建固定支出
// @Tags 固定支出
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body FixedCostRequest true "固定支出信息"
// @Success 200 {object} Response{data=models.FixedCost} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/fixed-costs [post]
func CreateFixedCost(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req FixedCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	if !req.Amount.IsPositive() {
		BadRequest(c, "金额必须为正数")
		return
	}

	category := req.Category
	if !models.KnownCategory(category) {
		category = models.CategoryOtherFixed
	}

	item := models.FixedCost{
		UserID:   userID,
		Name:     req.Name,
		Amount:   req.Amount,
		Category: category,
		DueDate:  req.DueDate,
		Notes:    req.Notes,
	}

	if err := database.DB.Create(&item).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建固定支出失败"))
		return
	}

	SuccessWithMessage(c, "创建成功", item)
}

// UpdateFixedCost 更新固定支出
// @Summary 更新固定支出
// @Tags 固定支出
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "固定支出ID"
// @Param request body FixedCostRequest true "固定支出信息"
// @Success 200 {object} Response{data=models.FixedCost} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/fixed-costs/{id} [put]
func UpdateFixedCost(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var req FixedCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	if !req.Amount.IsPositive() {
		BadRequest(c, "金额必须为正数")
		return
	}

	var item models.FixedCost
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&item).Error; err != nil {
		NotFound(c, "记录不存在")
		return
	}

	item.Name = req.Name
	item.Amount = req.Amount
	if models.KnownCategory(req.Category) {
		item.Category = req.Category
	}
	item.DueDate = req.DueDate
	item.Notes = req.Notes

	if err := database.DB.Save(&item).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新固定支出失败"))
		return
	}

	SuccessWithMessage(c, "更新成功", item)
}

// DeleteFixedCost 删除固定支出
// @Summary 删除固定支出
// @Tags 固定支出
// @Produce json
// @Security BearerAuth
// @Param id path int true "固定支出ID"
// @Success 200 {object} Response "删除成功"
// @Failure 400 {object} Response "无效的ID"
// @Router /api/v1/fixed-costs/{id} [delete]
func DeleteFixedCost(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&models.FixedCost{}).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "删除固定支出失败"))
		return
	}

	SuccessWithMessage(c, "删除成功", nil)
}
