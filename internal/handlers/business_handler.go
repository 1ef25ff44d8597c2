package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/navarro-barbers/agenda-api/internal/httperr"
	"github.com/navarro-barbers/agenda-api/internal/models"
	"github.com/navarro-barbers/agenda-api/internal/notify"
)

// BusinessHandler manages the key-value settings panel. Updates push
// the WhatsApp gateway values straight into the injected notify config,
// so there is no stale process-wide cache to wait out.
type BusinessHandler struct {
	db        *gorm.DB
	notifyCfg *notify.Config
}

func NewBusinessHandler(db *gorm.DB, notifyCfg *notify.Config) *BusinessHandler {
	return &BusinessHandler{db: db, notifyCfg: notifyCfg}
}

func (h *BusinessHandler) List(c *gin.Context) {
	var settings []models.BusinessSetting
	if err := h.db.Order("key ASC").Find(&settings).Error; err != nil {
		httperr.Internal(c, "failed_to_list_settings", "Could not list settings.")
		return
	}

	c.JSON(http.StatusOK, settings)
}

func (h *BusinessHandler) Update(c *gin.Context) {
	var body map[string]string
	if err := c.ShouldBindJSON(&body); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid settings payload.")
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		for key, value := range body {
			setting := models.BusinessSetting{Key: key, Value: value}
			if err := tx.
				Where("key = ?", key).
				Assign(models.BusinessSetting{Value: value}).
				FirstOrCreate(&setting).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		httperr.Internal(c, "settings_update_failed", "Could not update settings.")
		return
	}

	ReloadNotifyConfig(h.db, h.notifyCfg)

	c.JSON(http.StatusOK, gin.H{"updated": len(body)})
}

// ReloadNotifyConfig pulls the WhatsApp gateway settings from the
// database into the notify config. Called at boot and after updates.
func ReloadNotifyConfig(db *gorm.DB, cfg *notify.Config) {
	var settings []models.BusinessSetting
	if err := db.
		Where("key IN ?", []string{
			models.SettingWhatsAppAPIURL,
			models.SettingWhatsAppToken,
		}).
		Find(&settings).Error; err != nil {
		return
	}

	var url, key string
	for _, s := range settings {
		switch s.Key {
		case models.SettingWhatsAppAPIURL:
			url = s.Value
		case models.SettingWhatsAppToken:
			key = s.Value
		}
	}

	cfg.Set(url, key)
}
