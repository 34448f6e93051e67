package handler

import (
	"errors"
	"fmt"
	"time"

	"storage-server/internal/config"
	"storage-server/internal/middleware"
	"storage-server/internal/model"
	"storage-server/internal/pkg/crypto"
	"storage-server/internal/pkg/response"
	"storage-server/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// RegisterRequest 注册请求（凭邀请码加入组织）
type RegisterRequest struct {
	Code      string `json:"code" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest 刷新令牌请求
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// redeemError 校验邀请能否被该邮箱兑换
func redeemError(invitation *model.Invitation, email string) error {
	if invitation.Status == model.InvitationStatusActive && invitation.Expired() {
		return errInvitationExpired
	}
	if !invitation.Redeemable() {
		return errInvalidInvitation
	}
	if invitation.Email != "" && invitation.Email != email {
		return errInvalidInvitation
	}
	return nil
}

// Register 兑换邀请码注册。邀请码一次性使用，
// 校验和标记已用放在同一个事务里，标记带状态条件，
// 并发兑换同一邀请码时只有一个事务能成功
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "参数错误", []string{err.Error()})
		return
	}

	// 检查邮箱是否已存在
	var existing model.User
	if err := model.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		response.BadRequest(c, "邮箱已被注册")
		return
	}

	var user model.User
	err := model.DB.Transaction(func(tx *gorm.DB) error {
		var invitation model.Invitation
		if err := tx.Where("code = ?", req.Code).First(&invitation).Error; err != nil {
			return errInvalidInvitation
		}
		if err := redeemError(&invitation, req.Email); err != nil {
			return err
		}

		// 兑换后授予邀请绑定的组织和角色
		user = model.User{
			Email:     req.Email,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Role:      invitation.Role,
			OrgID:     invitation.OrgID,
			Status:    model.UserStatusActive,
		}
		if err := user.SetPassword(req.Password); err != nil {
			return err
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		// 状态条件防止并发兑换：另一个事务已经用掉邀请码时这里更新不到行
		now := time.Now()
		result := tx.Model(&invitation).
			Where("status = ?", model.InvitationStatusActive).
			Updates(map[string]interface{}{
				"status":  model.InvitationStatusUsed,
				"used_by": user.ID,
				"used_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errInvalidInvitation
		}
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, errInvalidInvitation):
			response.BadRequest(c, "邀请码无效")
		case errors.Is(err, errInvitationExpired):
			response.BadRequest(c, "邀请码已过期")
		default:
			response.ServerError(c, "注册失败")
		}
		return
	}

	token, refreshToken, err := issueTokens(&user)
	if err != nil {
		response.ServerError(c, "生成令牌失败")
		return
	}

	// 注册时上下文还没有认证信息，手动补充
	c.Set("user_id", user.ID)
	c.Set("org_id", user.OrgID)
	c.Set("email", user.Email)
	service.RecordAudit(c, model.ActionRedeem, model.ResourceInvitation, "", gin.H{"code": req.Code})

	response.Created(c, gin.H{
		"token":         token,
		"refresh_token": refreshToken,
		"user":          userPayload(&user),
	})
}

var (
	errInvalidInvitation = errors.New("邀请码无效")
	errInvitationExpired = errors.New("邀请码已过期")
)

// Login 登录
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	clientIP := c.ClientIP()
	loginLimiter := service.GetLoginLimiter()
	ipLimiter := service.GetIPLoginLimiter()

	// 检查 IP 是否被锁定
	if locked, remaining := ipLimiter.IsLocked(clientIP); locked {
		response.Error(c, 429, fmt.Sprintf("IP 已被临时锁定，请 %d 分钟后再试", int(remaining.Minutes())+1))
		return
	}

	// 检查账号是否被锁定
	if locked, remaining := loginLimiter.IsLocked(req.Email); locked {
		response.Error(c, 429, fmt.Sprintf("账号已被临时锁定，请 %d 分钟后再试", int(remaining.Minutes())+1))
		return
	}

	var user model.User
	if err := model.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		loginLimiter.RecordFailure(req.Email)
		ipLimiter.RecordFailure(clientIP)
		response.Unauthorized(c, "邮箱或密码错误")
		return
	}

	if !user.CheckPassword(req.Password) {
		locked, lockDuration := loginLimiter.RecordFailure(req.Email)
		ipLimiter.RecordFailure(clientIP)
		if locked {
			response.Error(c, 429, fmt.Sprintf("登录失败次数过多，账号已被锁定 %d 分钟", int(lockDuration.Minutes())))
			return
		}
		// 快到上限时提示剩余次数
		if remaining := loginLimiter.GetRemainingAttempts(req.Email); remaining <= 2 {
			response.Unauthorized(c, fmt.Sprintf("邮箱或密码错误，再失败 %d 次账号将被锁定", remaining))
		} else {
			response.Unauthorized(c, "邮箱或密码错误")
		}
		return
	}

	if user.Status != model.UserStatusActive {
		response.Forbidden(c, "账号已被禁用")
		return
	}

	// 登录成功，清除失败记录
	loginLimiter.RecordSuccess(req.Email)
	ipLimiter.RecordSuccess(clientIP)

	// 更新最后登录时间
	now := time.Now()
	model.DB.Model(&user).Update("last_login_at", now)

	token, refreshToken, err := issueTokens(&user)
	if err != nil {
		response.ServerError(c, "生成令牌失败")
		return
	}

	c.Set("user_id", user.ID)
	c.Set("org_id", user.OrgID)
	c.Set("email", user.Email)
	service.RecordAudit(c, model.ActionLogin, model.ResourceUser, user.ID, nil)

	response.Success(c, gin.H{
		"token":         token,
		"refresh_token": refreshToken,
		"user":          userPayload(&user),
	})
}

// Refresh 刷新访问令牌。重新取库校验用户状态
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	claims, err := crypto.ParseRefreshToken(req.RefreshToken, config.Get().JWT.Secret)
	if err != nil {
		if errors.Is(err, crypto.ErrTokenExpired) {
			response.Unauthorized(c, "认证信息已过期")
		} else {
			response.Unauthorized(c, "无效的认证信息")
		}
		return
	}

	var user model.User
	if err := model.DB.First(&user, "id = ?", claims.UserID).Error; err != nil {
		response.Unauthorized(c, "无效的认证信息")
		return
	}
	if user.Status != model.UserStatusActive {
		response.Unauthorized(c, "无效的认证信息")
		return
	}

	token, refreshToken, err := issueTokens(&user)
	if err != nil {
		response.ServerError(c, "生成令牌失败")
		return
	}

	response.Success(c, gin.H{
		"token":         token,
		"refresh_token": refreshToken,
	})
}

// Logout 登出。令牌无状态，仅记录审计
func (h *AuthHandler) Logout(c *gin.Context) {
	service.RecordAudit(c, model.ActionLogout, model.ResourceUser, middleware.GetUserID(c), nil)
	response.SuccessWithMessage(c, "已登出", nil)
}

// GetProfile 获取当前用户信息
func (h *AuthHandler) GetProfile(c *gin.Context) {
	var user model.User
	if err := model.DB.Preload("Organization").First(&user, "id = ?", middleware.GetUserID(c)).Error; err != nil {
		response.NotFound(c, "用户不存在")
		return
	}

	payload := gin.H{"user": userPayload(&user)}
	if user.Organization != nil {
		payload["organization"] = gin.H{
			"id":            user.Organization.ID,
			"name":          user.Organization.Name,
			"storage_quota": user.Organization.StorageQuota,
		}
	}
	response.Success(c, payload)
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// ChangePassword 修改密码
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	var user model.User
	if err := model.DB.First(&user, "id = ?", middleware.GetUserID(c)).Error; err != nil {
		response.NotFound(c, "用户不存在")
		return
	}

	if !user.CheckPassword(req.OldPassword) {
		response.BadRequest(c, "原密码错误")
		return
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		response.ServerError(c, "密码加密失败")
		return
	}

	if err := model.DB.Save(&user).Error; err != nil {
		response.ServerError(c, "修改密码失败")
		return
	}

	service.RecordAudit(c, model.ActionUpdate, model.ResourceUser, user.ID, gin.H{"field": "password"})
	response.SuccessWithMessage(c, "密码修改成功", nil)
}

func issueTokens(user *model.User) (token, refreshToken string, err error) {
	cfg := config.Get()
	token, err = crypto.GenerateToken(user.ID, user.OrgID, user.Email, string(user.Role), cfg.JWT.Secret, cfg.JWT.ExpireHours)
	if err != nil {
		return "", "", err
	}
	refreshToken, err = crypto.GenerateRefreshToken(user.ID, cfg.JWT.Secret, cfg.JWT.RefreshExpireHours)
	if err != nil {
		return "", "", err
	}
	return token, refreshToken, nil
}

func userPayload(user *model.User) gin.H {
	return gin.H{
		"id":            user.ID,
		"email":         user.Email,
		"first_name":    user.FirstName,
		"last_name":     user.LastName,
		"role":          user.Role,
		"org_id":        user.OrgID,
		"status":        user.Status,
		"last_login_at": user.LastLoginAt,
		"created_at":    user.CreatedAt,
	}
}
