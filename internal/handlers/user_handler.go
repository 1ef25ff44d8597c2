package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/navarro-barbers/agenda-api/internal/domain/schedule"
	"github.com/navarro-barbers/agenda-api/internal/httperr"
	"github.com/navarro-barbers/agenda-api/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

// UserHandler is the admin surface for managing accounts and the barber
// profiles attached to them.
type UserHandler struct {
	db *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

// ======================================================
// REQUESTS
// ======================================================

type BarberProfileRequest struct {
	Name        string   `json:"name"`
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time"`
	SlotMinutes int      `json:"slot_minutes"`
	WorkingDays []string `json:"working_days"`
}

type CreateUserRequest struct {
	Username string                `json:"username" binding:"required"`
	Password string                `json:"password" binding:"required"`
	Phone    string                `json:"phone"`
	Role     string                `json:"role" binding:"required"`
	Profile  *BarberProfileRequest `json:"profile"`
}

type UpdateUserRequest struct {
	Username *string               `json:"username"`
	Password *string               `json:"password"`
	Phone    *string               `json:"phone"`
	Profile  *BarberProfileRequest `json:"profile"`
}

// validateProfile applies the write-time calendar invariants the engine
// relies on: start before end, positive granularity, at least one valid
// working day.
func validateProfile(req *BarberProfileRequest) ([]schedule.Weekday, int, int, error) {
	if req.Name == "" {
		return nil, 0, 0, httperr.ErrBusiness("profile_name_required")
	}

	start, err := schedule.ToMinutes(req.StartTime)
	if err != nil {
		return nil, 0, 0, httperr.ErrBusiness(httperr.CodeInvalidTime)
	}

	end, err := schedule.ToMinutes(req.EndTime)
	if err != nil {
		return nil, 0, 0, httperr.ErrBusiness(httperr.CodeInvalidTime)
	}

	if start >= end {
		return nil, 0, 0, httperr.ErrBusiness("profile_hours_invalid")
	}

	if req.SlotMinutes <= 0 {
		return nil, 0, 0, httperr.ErrBusiness("profile_slot_invalid")
	}

	seen := make(map[schedule.Weekday]bool)
	var days []schedule.Weekday
	for _, raw := range req.WorkingDays {
		d := schedule.Weekday(raw)
		if !schedule.IsValidWeekday(d) || seen[d] {
			continue
		}
		seen[d] = true
		days = append(days, d)
	}
	if len(days) == 0 {
		return nil, 0, 0, httperr.ErrBusiness("profile_days_required")
	}

	return days, start, end, nil
}

// ======================================================
// CRUD
// ======================================================

func (h *UserHandler) List(c *gin.Context) {
	var users []models.User
	if err := h.db.Order("id ASC").Find(&users).Error; err != nil {
		httperr.Internal(c, "failed_to_list_users", "Could not list users.")
		return
	}

	type userView struct {
		models.User
		Barber *models.Barber `json:"barber,omitempty"`
	}

	out := make([]userView, 0, len(users))
	for _, u := range users {
		view := userView{User: u}
		var barber models.Barber
		if err := h.db.Where("user_id = ?", u.ID).First(&barber).Error; err == nil {
			view.Barber = &barber
		}
		out = append(out, view)
	}

	c.JSON(http.StatusOK, out)
}

func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid user payload.")
		return
	}

	if req.Role != models.RoleAdmin && req.Role != models.RoleBarber {
		httperr.BadRequest(c, "invalid_role", "Role must be admin or barber.")
		return
	}

	var days []schedule.Weekday
	var start, end int
	if req.Role == models.RoleBarber {
		if req.Profile == nil {
			httperr.BadRequest(c, "profile_required", "Barber accounts need a profile.")
			return
		}
		var err error
		if days, start, end, err = validateProfile(req.Profile); err != nil {
			httperr.BadRequest(c, err.Error(), "Invalid barber profile.")
			return
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "hash_error", "Could not create user.")
		return
	}

	user := models.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		Phone:        req.Phone,
		Role:         req.Role,
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		if req.Role == models.RoleBarber {
			barber := models.Barber{
				UserID:      &user.ID,
				Name:        req.Profile.Name,
				StartTime:   schedule.ToTimeString(start),
				EndTime:     schedule.ToTimeString(end),
				SlotMinutes: req.Profile.SlotMinutes,
				WorkingDays: schedule.EncodeWorkingDays(days),
			}
			return tx.Create(&barber).Error
		}
		return nil
	})
	if err != nil {
		httperr.BadRequest(c, "user_create_failed", "Could not create user. Username may be taken.")
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid user id.")
		return
	}

	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		httperr.NotFound(c, "user_not_found", "User not found.")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid user payload.")
		return
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			httperr.Internal(c, "hash_error", "Could not update user.")
			return
		}
		user.PasswordHash = string(hash)
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&user).Error; err != nil {
			return err
		}

		if req.Profile != nil && user.Role == models.RoleBarber {
			days, start, end, err := validateProfile(req.Profile)
			if err != nil {
				return err
			}

			var barber models.Barber
			if err := tx.Where("user_id = ?", user.ID).First(&barber).Error; err != nil {
				return err
			}

			barber.Name = req.Profile.Name
			barber.StartTime = schedule.ToTimeString(start)
			barber.EndTime = schedule.ToTimeString(end)
			barber.SlotMinutes = req.Profile.SlotMinutes
			barber.WorkingDays = schedule.EncodeWorkingDays(days)
			return tx.Save(&barber).Error
		}
		return nil
	})
	if err != nil {
		var be httperr.BusinessError
		if errors.As(err, &be) {
			httperr.BadRequest(c, be.Code, "Invalid barber profile.")
			return
		}
		httperr.Internal(c, "user_update_failed", "Could not update user.")
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid user id.")
		return
	}

	if err := h.db.Delete(&models.User{}, id).Error; err != nil {
		httperr.Internal(c, "user_delete_failed", "Could not delete user.")
		return
	}

	c.Status(http.StatusNoContent)
}
