package models

import (
	"path/filepath"
	"strconv"
	"strings"
)

const (
	AttachmentTypePhoto    = "PHOTO"
	AttachmentTypeVideo    = "VIDEO"
	AttachmentTypeAudio    = "AUDIO"
	AttachmentTypeDocument = "DOCUMENT"

	// A media item carries at most ten files (primary + attachments)
	// and never fewer than one.
	MaxMediaFiles = 10
)

type MediaAttachment struct {
	ID           uint64 `gorm:"primaryKey"`
	CreatedAt    int64
	MediaItemID  uint64    `gorm:"not null;index"`
	MediaItem    MediaItem `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	VaultID      uint64    `gorm:"not null"`
	FileSize     int64
	MimeType     string `gorm:"type:varchar(120)"`
	FileType     string `gorm:"type:varchar(20);not null;default:DOCUMENT"`
	OriginalName string `gorm:"type:varchar(255)"`
	ContentHash  string `gorm:"type:varchar(64)"`
}

func (a *MediaAttachment) GetPath() string {
	return "vault/" + strconv.FormatUint(a.VaultID, 10) + "/" +
		strconv.FormatUint(a.MediaItemID, 10) + "_att_" + strconv.FormatUint(a.ID, 10) +
		strings.ToLower(filepath.Ext(a.OriginalName))
}

func AttachmentTypeFrom(mimeType string) string {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return AttachmentTypePhoto
	case strings.HasPrefix(mimeType, "video/"):
		return AttachmentTypeVideo
	case strings.HasPrefix(mimeType, "audio/"):
		return AttachmentTypeAudio
	}
	return AttachmentTypeDocument
}
