package controllers

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"member-portal-api/config"
	"member-portal-api/models"
	"member-portal-api/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxUploadBytes = 10 << 20 // 10 MB

func uploadDir() string {
	if dir := os.Getenv("UPLOAD_DIR"); dir != "" {
		return dir
	}
	return "./uploads"
}

var attachableEntities = map[string]bool{
	services.EntityMemberRegistration: true,
	services.EntityProjectApplication: true,
	services.EntityPerformanceRecord:  true,
}

// entityOwnedBy checks that the target entity exists and belongs to userID.
func entityOwnedBy(entityType string, entityID uint, userID int) (bool, error) {
	var count int64
	var err error
	switch entityType {
	case services.EntityMemberRegistration:
		err = config.DB.Model(&models.MemberRegistration{}).
			Where("registration_id = ? AND user_id = ? AND delete_at IS NULL", entityID, userID).
			Count(&count).Error
	case services.EntityProjectApplication:
		err = config.DB.Model(&models.ProjectApplication{}).
			Where("application_id = ? AND user_id = ? AND delete_at IS NULL", entityID, userID).
			Count(&count).Error
	case services.EntityPerformanceRecord:
		err = config.DB.Model(&models.PerformanceRecord{}).
			Where("record_id = ? AND user_id = ? AND delete_at IS NULL", entityID, userID).
			Count(&count).Error
	}
	return count > 0, err
}

// UploadDocument stores a supporting document for a reviewable entity. Files
// land under a per-entity directory with a uuid name; the original name only
// survives in the database.
// POST /api/v1/documents  multipart {file, entity_type, entity_id}
func UploadDocument(c *gin.Context) {
	entityType := c.PostForm("entity_type")
	if !attachableEntities[entityType] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported entity type", "code": codeValidation})
		return
	}

	entityID, ok := parseFormID(c, "entity_id")
	if !ok {
		return
	}

	userID, _ := getCurrentUserID(c)
	roleID, _ := getCurrentRoleID(c)

	if roleID != models.RoleAdmin {
		owned, err := entityOwnedBy(entityType, entityID, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check entity", "code": codeInternal})
			return
		}
		if !owned {
			c.JSON(http.StatusNotFound, gin.H{"error": "Record not found", "code": codeNotFound})
			return
		}
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided", "code": codeValidation})
		return
	}
	if file.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds the 10 MB limit", "code": codeValidation})
		return
	}

	upload := models.FileUpload{
		EntityType:   entityType,
		EntityID:     entityID,
		OriginalName: filepath.Base(file.Filename),
		FileSize:     file.Size,
		MimeType:     file.Header.Get("Content-Type"),
		UploadedBy:   userID,
	}
	if !upload.IsValidDocumentType() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file type", "code": codeValidation})
		return
	}

	dir := filepath.Join(uploadDir(), entityType)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to prepare storage", "code": codeInternal})
		return
	}

	storedName := uuid.New().String() + filepath.Ext(file.Filename)
	storedPath := filepath.Join(dir, storedName)
	if err := c.SaveUploadedFile(file, storedPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file", "code": codeInternal})
		return
	}

	now := time.Now()
	upload.StoredPath = storedPath
	upload.UploadedAt = now
	upload.CreateAt = now
	upload.UpdateAt = now

	if err := config.DB.Create(&upload).Error; err != nil {
		os.Remove(storedPath)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record upload", "code": codeInternal})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "File uploaded",
		"file":    upload,
	})
}

// GetDocuments lists uploads attached to an entity.
// GET /api/v1/documents?entity_type=&entity_id=
func GetDocuments(c *gin.Context) {
	entityType := c.Query("entity_type")
	if !attachableEntities[entityType] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported entity type", "code": codeValidation})
		return
	}
	entityID, ok := parseQueryID(c, "entity_id")
	if !ok {
		return
	}

	userID, _ := getCurrentUserID(c)
	roleID, _ := getCurrentRoleID(c)
	if roleID != models.RoleAdmin {
		owned, err := entityOwnedBy(entityType, entityID, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check entity", "code": codeInternal})
			return
		}
		if !owned {
			c.JSON(http.StatusNotFound, gin.H{"error": "Record not found", "code": codeNotFound})
			return
		}
	}

	var files []models.FileUpload
	if err := config.DB.Where("entity_type = ? AND entity_id = ? AND delete_at IS NULL", entityType, entityID).
		Order("uploaded_at DESC").Find(&files).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch files", "code": codeInternal})
		return
	}

	c.JSON(http.StatusOK, gin.H{"files": files, "total": len(files)})
}

// DownloadDocument streams a stored file with its original name.
func DownloadDocument(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, _ := getCurrentUserID(c)
	roleID, _ := getCurrentRoleID(c)

	var upload models.FileUpload
	if err := config.DB.Where("file_id = ? AND delete_at IS NULL", id).First(&upload).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found", "code": codeNotFound})
		return
	}

	if roleID != models.RoleAdmin && upload.UploadedBy != userID {
		owned, err := entityOwnedBy(upload.EntityType, upload.EntityID, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check entity", "code": codeInternal})
			return
		}
		if !owned {
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found", "code": codeNotFound})
			return
		}
	}

	if _, err := os.Stat(upload.StoredPath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File missing from storage", "code": codeNotFound})
		return
	}

	c.FileAttachment(upload.StoredPath, upload.OriginalName)
}

// DeleteDocument soft deletes an upload. Only the uploader or an admin can
// remove a file; the bytes stay on disk for audit until cleanup.
func DeleteDocument(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, _ := getCurrentUserID(c)
	roleID, _ := getCurrentRoleID(c)

	var upload models.FileUpload
	if err := config.DB.Where("file_id = ? AND delete_at IS NULL", id).First(&upload).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found", "code": codeNotFound})
		return
	}
	if roleID != models.RoleAdmin && upload.UploadedBy != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found", "code": codeNotFound})
		return
	}

	now := time.Now()
	upload.DeleteAt = &now
	upload.UpdateAt = now

	if err := config.DB.Save(&upload).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete file", "code": codeInternal})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "File deleted"})
}

func parseFormID(c *gin.Context, name string) (uint, bool) {
	return parseIDString(c, name, c.PostForm(name))
}

func parseQueryID(c *gin.Context, name string) (uint, bool) {
	return parseIDString(c, name, c.Query(name))
}
