package models

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"legacykeeper/db"
	"legacykeeper/storage"

	"github.com/zsefvlol/timezonemapper"
	"gorm.io/gorm"
)

const (
	MediaTypePhoto    = "PHOTO"
	MediaTypeDocument = "DOCUMENT"
	MediaTypeVideo    = "VIDEO"

	AIStatusPending    = "PENDING"
	AIStatusProcessing = "PROCESSING"
	AIStatusCompleted  = "COMPLETED"
	AIStatusFailed     = "FAILED"
)

type MediaItem struct {
	ID         uint64 `gorm:"primaryKey"`
	CreatedAt  int64  `gorm:"index:vault_media_created,priority:2"`
	UpdatedAt  int64
	VaultID    uint64 `gorm:"not null;index:vault_media_created,priority:1"`
	Vault      Vault  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	UploaderID *uint64
	Uploader   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	BucketID   uint64
	Bucket     storage.Bucket `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`

	Name      string `gorm:"type:varchar(300)"` // original file name, sanitized
	MimeType  string `gorm:"type:varchar(120)"`
	MediaType string `gorm:"type:varchar(20);not null;default:PHOTO"`
	FileSize  int64
	ThumbSize int64
	// SHA-256 of the primary file bytes, hex encoded; computed lazily and
	// cached. Items sharing a hash within one vault are duplicates.
	ContentHash string `gorm:"type:varchar(64);index"`

	Title       string `gorm:"type:varchar(255)"`
	Description string `gorm:"type:text"`
	DateTaken   *int64
	Location    string `gorm:"type:varchar(255)"`
	Visibility  string `gorm:"type:varchar(20);not null;default:FAMILY"`
	TagsJSON    string `gorm:"type:text"`
	Metadata    string `gorm:"type:text"` // raw JSON blob (EXIF etc.)
	GpsLat      *float64
	GpsLong     *float64
	AIStatus    string `gorm:"type:varchar(20);not null;default:PENDING"`

	Attachments []MediaAttachment
}

// GetPath returns the storage path of the primary file, e.g. vault/3/15.jpg
func (m *MediaItem) GetPath() string {
	return m.GetPathOrThumb(false)
}

func (m *MediaItem) GetThumbPath() string {
	return m.GetPathOrThumb(true)
}

func (m *MediaItem) GetPathOrThumb(thumb bool) string {
	path := "vault/" + strconv.FormatUint(m.VaultID, 10) + "/" + strconv.FormatUint(m.ID, 10)
	if thumb {
		// Thumbs are always JPEG
		path += "_thumb.jpg"
	} else {
		path += strings.ToLower(filepath.Ext(m.Name))
	}
	return path
}

func (m *MediaItem) BeforeSave(tx *gorm.DB) (err error) {
	// Restrict the characters in Name
	var name strings.Builder
	for i, c := range m.Name {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') ||
			(c == '.' && i > 0) || (c == '-') || (c == '_') {

			name.WriteRune(c)
		} else {
			name.WriteString("_")
		}
	}
	m.Name = name.String()
	return
}

func (m *MediaItem) Tags() []string {
	if m.TagsJSON == "" {
		return nil
	}
	var tags []string
	if json.Unmarshal([]byte(m.TagsJSON), &tags) != nil {
		return nil
	}
	return tags
}

func (m *MediaItem) SetTags(tags []string) {
	if len(tags) == 0 {
		m.TagsJSON = ""
		return
	}
	buf, err := json.Marshal(tags)
	if err != nil {
		return
	}
	m.TagsJSON = string(buf)
}

// EnsureContentHash computes and caches the SHA-256 of the primary file.
// Unreadable files yield an empty hash so a dedup scan can skip the item
// instead of failing.
func (m *MediaItem) EnsureContentHash(persist bool) string {
	if m.ContentHash != "" {
		return m.ContentHash
	}
	if m.Bucket.ID != m.BucketID {
		if db.Instance.Preload("Bucket").First(m).Error != nil {
			return ""
		}
	}
	store := storage.StorageFrom(&m.Bucket)
	if store == nil {
		return ""
	}
	path := m.GetPath()
	if err := store.EnsureLocalFile(path); err != nil {
		return ""
	}
	defer store.ReleaseLocalFile(path)
	hash := sha256.New()
	if _, err := store.Load(path, hash); err != nil {
		return ""
	}
	m.ContentHash = hex.EncodeToString(hash.Sum(nil))
	if persist && m.ID > 0 {
		db.Instance.Model(m).Update("content_hash", m.ContentHash)
	}
	return m.ContentHash
}

// GetTakenTimeInLocation localizes the taken-time using the item's GPS
// coordinates when available.
func (m *MediaItem) GetTakenTimeInLocation() time.Time {
	taken := m.CreatedAt
	if m.DateTaken != nil {
		taken = *m.DateTaken
	}
	result := time.Unix(taken, 0)
	if m.GpsLat == nil || m.GpsLong == nil {
		return result
	}
	location, err := time.LoadLocation(timezonemapper.LatLngToTimezoneString(*m.GpsLat, *m.GpsLong))
	if err != nil {
		return result
	}
	return result.In(location)
}

func GetMediaTypeFrom(mimeType string) string {
	if strings.HasPrefix(mimeType, "image/") {
		return MediaTypePhoto
	}
	if strings.HasPrefix(mimeType, "video/") {
		return MediaTypeVideo
	}
	return MediaTypeDocument
}
