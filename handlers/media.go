package handlers

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"legacykeeper/access"
	"legacykeeper/config"
	"legacykeeper/db"
	"legacykeeper/events"
	"legacykeeper/models"
	"legacykeeper/storage"
	"legacykeeper/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const thumbSize = 1280

type MediaItemInfo struct {
	ID          uint64               `json:"id"`
	Name        string               `json:"name"`
	MimeType    string               `json:"mime_type"`
	MediaType   string               `json:"media_type"`
	FileSize    int64                `json:"file_size"`
	HasThumb    bool                 `json:"has_thumb"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	DateTaken   *int64               `json:"date_taken"`
	Location    string               `json:"location"`
	Visibility  string               `json:"visibility"`
	Tags        []string             `json:"tags"`
	UploaderID  *uint64              `json:"uploader_id"`
	CreatedAt   int64                `json:"created_at"`
	Favorite    bool                 `json:"favorite"`
	Attachments []MediaAttachmentRef `json:"attachments"`
}

type MediaAttachmentRef struct {
	ID           uint64 `json:"id"`
	OriginalName string `json:"original_name"`
	MimeType     string `json:"mime_type"`
	FileType     string `json:"file_type"`
	FileSize     int64  `json:"file_size"`
}

func mediaItemInfo(item *models.MediaItem, favorite bool) MediaItemInfo {
	title := item.Title
	if title == "" {
		title = "Untitled memory"
	}
	info := MediaItemInfo{
		ID:          item.ID,
		Name:        item.Name,
		MimeType:    item.MimeType,
		MediaType:   item.MediaType,
		FileSize:    item.FileSize,
		HasThumb:    item.ThumbSize > 0,
		Title:       title,
		Description: item.Description,
		DateTaken:   item.DateTaken,
		Location:    item.Location,
		Visibility:  item.Visibility,
		Tags:        item.Tags(),
		UploaderID:  item.UploaderID,
		CreatedAt:   item.CreatedAt,
		Favorite:    favorite,
		Attachments: []MediaAttachmentRef{},
	}
	if info.Tags == nil {
		info.Tags = []string{}
	}
	for i := range item.Attachments {
		a := &item.Attachments[i]
		info.Attachments = append(info.Attachments, MediaAttachmentRef{
			ID:           a.ID,
			OriginalName: a.OriginalName,
			MimeType:     a.MimeType,
			FileType:     a.FileType,
			FileSize:     a.FileSize,
		})
	}
	return info
}

// saveUploadedFile streams the file into storage, hashing it on the way.
func saveUploadedFile(store storage.StorageAPI, path string, file *multipart.FileHeader) (size int64, hash string, err error) {
	reader, err := file.Open()
	if err != nil {
		return 0, "", err
	}
	defer reader.Close()
	hasher := sha256.New()
	size, err = store.Save(path, io.TeeReader(reader, hasher))
	if err != nil {
		return 0, "", err
	}
	return size, hex.EncodeToString(hasher.Sum(nil)), nil
}

func createThumbFor(store storage.StorageAPI, item *models.MediaItem) {
	var buf, thumb bytes.Buffer
	if _, err := store.Load(item.GetPath(), &buf); err != nil {
		log.Printf("thumb: missing file: %v", err)
		return
	}
	if _, err := utils.CreateThumb(thumbSize, &buf, &thumb); err != nil {
		log.Printf("CreateThumb error: %v", err)
		return
	}
	size, err := store.Save(item.GetThumbPath(), &thumb)
	if err != nil {
		log.Printf("thumb save error: %v", err)
		return
	}
	item.ThumbSize = size
	db.Instance.Model(item).Update("thumb_size", size)
	if err := store.UpdateRemoteFile(item.GetThumbPath(), "image/jpeg"); err != nil {
		log.Printf("thumb remote update error: %v", err)
	}
}

// MediaUpload ingests 1..10 files in one multipart request. The first file
// (or the one at primary_index) becomes the media item; the rest are stored
// as attachments.
func MediaUpload(c *gin.Context, user *models.User) {
	vault, ok := vaultAsMember(c, user)
	if !ok {
		return
	}
	membership := access.ActiveMembership(user, access.FromVault(&vault))
	if membership.Role == models.RoleViewer {
		Error(c, models.NewPermissionError("", "viewers cannot upload media"))
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		BadRequest(c, "at least one file is required")
		return
	}
	if len(files) > models.MaxMediaFiles {
		BadRequest(c, "a memory can hold at most "+strconv.Itoa(models.MaxMediaFiles)+" files")
		return
	}
	maxBytes := int64(config.MAX_UPLOAD_MB) * 1024 * 1024
	for _, file := range files {
		if file.Size > maxBytes {
			BadRequest(c, "file "+file.Filename+" exceeds the upload limit")
			return
		}
	}
	primaryIndex := 0
	if v := c.PostForm("primary_index"); v != "" {
		primaryIndex, err = strconv.Atoi(v)
		if err != nil || primaryIndex < 0 || primaryIndex >= len(files) {
			BadRequest(c, "invalid primary_index")
			return
		}
	}

	visibility := c.PostForm("visibility")
	if visibility == "" {
		visibility = vault.DefaultVisibility
	}
	if !models.ValidVisibility(visibility) {
		BadRequest(c, "invalid visibility")
		return
	}

	store := storage.GetDefaultStorage()
	if store == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no storage configured"})
		return
	}

	primary := files[primaryIndex]
	item := models.MediaItem{
		VaultID:     vault.ID,
		UploaderID:  &user.ID,
		BucketID:    store.GetBucket().ID,
		Name:        primary.Filename,
		MimeType:    primary.Header.Get("Content-Type"),
		MediaType:   models.GetMediaTypeFrom(primary.Header.Get("Content-Type")),
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Location:    c.PostForm("location"),
		Visibility:  visibility,
	}
	if v := c.PostForm("date_taken"); v != "" {
		taken, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			BadRequest(c, "invalid date_taken")
			return
		}
		item.DateTaken = &taken
	}
	if v := c.PostFormArray("tags"); len(v) > 0 {
		item.SetTags(v)
	}
	if err := db.Instance.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}

	size, hash, err := saveUploadedFile(store, item.GetPath(), primary)
	if err != nil {
		db.Instance.Delete(&item)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store file"})
		return
	}
	item.FileSize = size
	item.ContentHash = hash
	db.Instance.Model(&item).Updates(map[string]interface{}{"file_size": size, "content_hash": hash})
	if err := store.UpdateRemoteFile(item.GetPath(), item.MimeType); err != nil {
		log.Printf("remote update error: %v", err)
	}
	if item.MediaType == models.MediaTypePhoto {
		createThumbFor(store, &item)
	}

	for i, file := range files {
		if i == primaryIndex {
			continue
		}
		mimeType := file.Header.Get("Content-Type")
		attachment := models.MediaAttachment{
			MediaItemID:  item.ID,
			VaultID:      vault.ID,
			MimeType:     mimeType,
			FileType:     models.AttachmentTypeFrom(mimeType),
			OriginalName: file.Filename,
		}
		if err := db.Instance.Create(&attachment).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
			return
		}
		size, hash, err := saveUploadedFile(store, attachment.GetPath(), file)
		if err != nil {
			db.Instance.Delete(&attachment)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store file"})
			return
		}
		db.Instance.Model(&attachment).Updates(map[string]interface{}{"file_size": size, "content_hash": hash})
		if err := store.UpdateRemoteFile(attachment.GetPath(), mimeType); err != nil {
			log.Printf("remote update error: %v", err)
		}
	}

	db.Instance.Preload("Attachments").First(&item)
	events.Emit(events.Event{Name: events.MediaAdded, VaultID: vault.ID, ActorID: user.ID, Count: 1})
	c.JSON(http.StatusOK, mediaItemInfo(&item, false))
}

// MediaFilter is the parsed form of the list query parameters.
type MediaFilter struct {
	MediaType  string `form:"type"`
	UploaderID uint64 `form:"uploader"`
	TakenFrom  int64  `form:"taken_from"`
	TakenTo    int64  `form:"taken_to"`
	Search     string `form:"search"`
	Favorites  bool   `form:"favorites"`
}

func (f *MediaFilter) apply(query *gorm.DB, userID uint64) *gorm.DB {
	if f.MediaType != "" {
		query = query.Where("media_type = ?", f.MediaType)
	}
	if f.UploaderID > 0 {
		query = query.Where("uploader_id = ?", f.UploaderID)
	}
	if f.TakenFrom > 0 {
		query = query.Where("ifnull(date_taken, created_at) >= ?", f.TakenFrom)
	}
	if f.TakenTo > 0 {
		query = query.Where("ifnull(date_taken, created_at) <= ?", f.TakenTo)
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		query = query.Where("title like ? OR description like ? OR location like ?", pattern, pattern, pattern)
	}
	if f.Favorites {
		query = query.Where("id in (select media_item_id from media_favorites where user_id = ?)", userID)
	}
	return query
}

// MediaList returns the vault's media newest-first. PRIVATE items are
// visible only to their uploader and to admins.
func MediaList(c *gin.Context, user *models.User) {
	vault, ok := vaultAsMember(c, user)
	if !ok {
		return
	}
	filter := MediaFilter{}
	if err := c.ShouldBindQuery(&filter); err != nil {
		BadRequest(c, err.Error())
		return
	}
	query := db.Instance.Preload("Attachments").Where("vault_id = ?", vault.ID)
	if !access.IsActiveAdmin(user, access.FromVault(&vault)) {
		query = query.Where("visibility <> ? OR uploader_id = ?", models.VisibilityPrivate, user.ID)
	}
	query = filter.apply(query, user.ID)
	var items []models.MediaItem
	if err := query.Order("created_at DESC, id DESC").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}

	var favoriteIDs []uint64
	db.Instance.Model(&models.MediaFavorite{}).
		Where("user_id = ?", user.ID).
		Pluck("media_item_id", &favoriteIDs)
	favorites := map[uint64]bool{}
	for _, id := range favoriteIDs {
		favorites[id] = true
	}

	result := []MediaItemInfo{}
	for i := range items {
		result = append(result, mediaItemInfo(&items[i], favorites[items[i].ID]))
	}
	c.JSON(http.StatusOK, result)
}

// mediaItemForUser loads the item from :mid inside the :id vault and applies
// the visibility rule.
func mediaItemForUser(c *gin.Context, user *models.User, vault *models.Vault) (item models.MediaItem, ok bool) {
	mid, ok := paramUint64(c, "mid")
	if !ok {
		return item, false
	}
	err := db.Instance.Preload("Attachments").Preload("Bucket").
		Where("id = ? AND vault_id = ?", mid, vault.ID).
		First(&item).Error
	if err != nil {
		Error(c, models.NewNotFoundError("media item not found"))
		return item, false
	}
	if item.Visibility == models.VisibilityPrivate &&
		(item.UploaderID == nil || *item.UploaderID != user.ID) &&
		!access.IsActiveAdmin(user, access.FromVault(vault)) {
		Error(c, models.NewNotFoundError("media item not found"))
		return item, false
	}
	return item, true
}

func MediaGet(c *gin.Context, user *models.User) {
	vault, ok := vaultAsMember(c, user)
	if !ok {
		return
	}
	item, ok := mediaItemForUser(c, user, &vault)
	if !ok {
		return
	}
	var favorite models.MediaFavorite
	hasFavorite := db.Instance.
		Where("user_id = ? AND media_item_id = ?", user.ID, item.ID).
		First(&favorite).Error == nil
	c.JSON(http.StatusOK, mediaItemInfo(&item, hasFavorite))
}

// MediaFetch serves the primary file (or its thumb). S3-backed buckets
// redirect to a presigned URL instead of proxying the bytes.
func MediaFetch(c *gin.Context, user *models.User) {
	vault, ok := vaultAsMember(c, user)
	if !ok {
		return
	}
	item, ok := mediaItemForUser(c, user, &vault)
	if !ok {
		return
	}
	store := storage.StorageFrom(&item.Bucket)
	if store == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no storage configured"})
		return
	}
	wantThumb := c.Query("thumb") == "1" && item.ThumbSize > 0
	path := item.GetPathOrThumb(wantThumb)
	if item.Bucket.IsS3() {
		url := item.Bucket.CreateS3DownloadURI(path, 15*time.Minute)
		c.Header("cache-control", "private, max-age=600")
		c.Redirect(http.StatusFound, url)
		return
	}
	c.Header("cache-control", "private, max-age=604800")
	if wantThumb {
		c.Header("content-type", "image/jpeg")
	} else {
		c.Header("content-type", item.MimeType)
	}
	store.Serve(path, c.Request, c.Writer)
}

type MediaSaveRequest struct {
	Title               *string  `json:"title"`
	Description         *string  `json:"description"`
	Location            *string  `json:"location"`
	DateTaken           *int64   `json:"date_taken"`
	Visibility          *string  `json:"visibility"`
	Tags                []string `json:"tags"`
	RemoveAttachmentIDs []uint64 `json:"remove_attachment_ids"`
	RemovePrimary       bool     `json:"remove_primary"`
}

// MediaSave edits metadata and removes files. At least one file must remain;
// removing the primary promotes the oldest attachment in its place.
func MediaSave(c *gin.Context, user *models.User) {
	vault, ok := vaultAsMember(c, user)
	if !ok {
		return
	}
	item, ok := mediaItemForUser(c, user, &vault)
	if !ok {
		return
	}
	if err := access.CanMutateMedia(user, &item, &vault, "edit"); err != nil {
		Error(c, err)
		return
	}
	postReq := MediaSaveRequest{}
	if err := c.ShouldBindJSON(&postReq); err != nil {
		BadRequest(c, err.Error())
		return
	}

	updates := map[string]interface{}{}
	if postReq.Title != nil {
		updates["title"] = *postReq.Title
	}
	if postReq.Description != nil {
		updates["description"] = *postReq.Description
	}
	if postReq.Location != nil {
		updates["location"] = *postReq.Location
	}
	if postReq.DateTaken != nil {
		updates["date_taken"] = *postReq.DateTaken
	}
	if postReq.Visibility != nil {
		if !models.ValidVisibility(*postReq.Visibility) {
			BadRequest(c, "invalid visibility")
			return
		}
		updates["visibility"] = *postReq.Visibility
	}
	if postReq.Tags != nil {
		item.SetTags(postReq.Tags)
		updates["tags_json"] = item.TagsJSON
	}
	if len(updates) > 0 {
		if err := db.Instance.Model(&item).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
			return
		}
	}

	requested := map[uint64]bool{}
	for _, id := range postReq.RemoveAttachmentIDs {
		requested[id] = true
	}
	// Only IDs actually attached to this item count towards removal
	removing := map[uint64]bool{}
	for i := range item.Attachments {
		if requested[item.Attachments[i].ID] {
			removing[item.Attachments[i].ID] = true
		}
	}
	remaining := 1 + len(item.Attachments) - len(removing)
	if postReq.RemovePrimary {
		remaining--
	}
	if remaining < 1 {
		Error(c, models.NewInvariantError("", "a memory must keep at least one file"))
		return
	}

	store := storage.StorageFrom(&item.Bucket)
	var orphanPaths []string
	for i := range item.Attachments {
		attachment := item.Attachments[i]
		if !removing[attachment.ID] {
			continue
		}
		if err := db.Instance.Delete(&attachment).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
			return
		}
		orphanPaths = append(orphanPaths, attachment.GetPath())
	}

	if postReq.RemovePrimary {
		if err := promoteOldestAttachment(&item, store); err != nil {
			Error(c, err)
			return
		}
	}

	if store != nil {
		for _, path := range orphanPaths {
			if err := store.Delete(path); err != nil {
				log.Printf("could not remove %s: %v", path, err)
			}
		}
	}

	db.Instance.Preload("Attachments").Preload("Bucket").First(&item)
	c.JSON(http.StatusOK, mediaItemInfo(&item, false))
}

// promoteOldestAttachment turns the oldest surviving attachment into the
// item's primary file.
func promoteOldestAttachment(item *models.MediaItem, store storage.StorageAPI) error {
	var replacement models.MediaAttachment
	query := db.Instance.Where("media_item_id = ?", item.ID).Order("created_at, id")
	if err := query.First(&replacement).Error; err != nil {
		return models.NewInvariantError("", "a memory must keep at least one file")
	}
	if store == nil {
		return models.NewValidationError("", "no storage configured")
	}
	oldPath := item.GetPath()
	oldThumb := ""
	if item.ThumbSize > 0 {
		oldThumb = item.GetThumbPath()
	}

	// Copy the attachment bytes over as the new primary file
	var buf bytes.Buffer
	if err := store.EnsureLocalFile(replacement.GetPath()); err != nil {
		return models.NewValidationError("", "attachment file unavailable")
	}
	if _, err := store.Load(replacement.GetPath(), &buf); err != nil {
		store.ReleaseLocalFile(replacement.GetPath())
		return models.NewValidationError("", "attachment file unavailable")
	}
	store.ReleaseLocalFile(replacement.GetPath())

	item.Name = replacement.OriginalName
	item.MimeType = replacement.MimeType
	item.MediaType = models.GetMediaTypeFrom(replacement.MimeType)
	item.FileSize = replacement.FileSize
	item.ContentHash = replacement.ContentHash
	item.ThumbSize = 0
	if err := db.Instance.Model(item).Updates(map[string]interface{}{
		"name":         item.Name,
		"mime_type":    item.MimeType,
		"media_type":   item.MediaType,
		"file_size":    item.FileSize,
		"content_hash": item.ContentHash,
		"thumb_size":   0,
	}).Error; err != nil {
		return err
	}
	// Name changed, so GetPath now points at the new primary location
	if _, err := store.Save(item.GetPath(), &buf); err != nil {
		return models.NewValidationError("", "could not store the promoted file")
	}
	if err := store.UpdateRemoteFile(item.GetPath(), item.MimeType); err != nil {
		log.Printf("remote update error: %v", err)
	}
	if err := db.Instance.Delete(&replacement).Error; err != nil {
		return err
	}

	for _, path := range []string{replacement.GetPath(), oldPath, oldThumb} {
		if path == "" || path == item.GetPath() {
			continue
		}
		if err := store.Delete(path); err != nil {
			log.Printf("could not remove %s: %v", path, err)
		}
	}
	if item.MediaType == models.MediaTypePhoto {
		createThumbFor(store, item)
	}
	return nil
}

// MediaAttachmentAdd appends files to an existing memory (multipart).
func MediaAttachmentAdd(c *gin.Context, user *models.User) {
	vault, ok := vaultAsMember(c, user)
	if !ok {
		return
	}
	item, ok := mediaItemForUser(c, user, &vault)
	if !ok {
		return
	}
	if err := access.CanMutateMedia(user, &item, &vault, "edit"); err != nil {
		Error(c, err)
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		BadRequest(c, "at least one file is required")
		return
	}
	if 1+len(item.Attachments)+len(files) > models.MaxMediaFiles {
		Error(c, models.NewInvariantError("", "a memory can hold at most "+
			strconv.Itoa(models.MaxMediaFiles)+" files"))
		return
	}
	maxBytes := int64(config.MAX_UPLOAD_MB) * 1024 * 1024
	for _, file := range files {
		if file.Size > maxBytes {
			BadRequest(c, "file "+file.Filename+" exceeds the upload limit")
			return
		}
	}
	store := storage.StorageFrom(&item.Bucket)
	if store == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no storage configured"})
		return
	}
	for _, file := range files {
		mimeType := file.Header.Get("Content-Type")
		attachment := models.MediaAttachment{
			MediaItemID:  item.ID,
			VaultID:      vault.ID,
			MimeType:     mimeType,
			FileType:     models.AttachmentTypeFrom(mimeType),
			OriginalName: file.Filename,
		}
		if err := db.Instance.Create(&attachment).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
			return
		}
		size, hash, err := saveUploadedFile(store, attachment.GetPath(), file)
		if err != nil {
			db.Instance.Delete(&attachment)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store file"})
			return
		}
		db.Instance.Model(&attachment).Updates(map[string]interface{}{"file_size": size, "content_hash": hash})
		if err := store.UpdateRemoteFile(attachment.GetPath(), mimeType); err != nil {
			log.Printf("remote update error: %v", err)
		}
	}
	db.Instance.Preload("Attachments").Preload("Bucket").First(&item)
	c.JSON(http.StatusOK, mediaItemInfo(&item, false))
}

// MediaDelete removes the memory and all its files.
func MediaDelete(c *gin.Context, user *models.User) {
	vault, ok := vaultAsMember(c, user)
	if !ok {
		return
	}
	item, ok := mediaItemForUser(c, user, &vault)
	if !ok {
		return
	}
	if err := access.CanMutateMedia(user, &item, &vault, "delete"); err != nil {
		Error(c, err)
		return
	}
	paths := []string{item.GetPath()}
	if item.ThumbSize > 0 {
		paths = append(paths, item.GetThumbPath())
	}
	for i := range item.Attachments {
		paths = append(paths, item.Attachments[i].GetPath())
	}
	err := db.Instance.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("media_item_id = ?", item.ID).Delete(&models.MediaAttachment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("media_item_id = ?", item.ID).Delete(&models.MediaFavorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("media_item_id = ?", item.ID).Delete(&models.MediaTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&item).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete"})
		return
	}
	if store := storage.StorageFrom(&item.Bucket); store != nil {
		for _, path := range paths {
			if err := store.Delete(path); err != nil {
				log.Printf("could not remove %s: %v", path, err)
			}
		}
	}
	events.Emit(events.Event{Name: events.MediaDeleted, VaultID: vault.ID, ActorID: user.ID, Count: 1})
	c.JSON(http.StatusOK, gin.H{"error": ""})
}

// MediaFavorite marks the memory as a favorite of the calling user.
// Favoriting twice is not an error.
func MediaFavorite(c *gin.Context, user *models.User) {
	vault, ok := vaultAsMember(c, user)
	if !ok {
		return
	}
	item, ok := mediaItemForUser(c, user, &vault)
	if !ok {
		return
	}
	favorite := models.MediaFavorite{UserID: user.ID, MediaItemID: item.ID}
	if err := db.Instance.Create(&favorite).Error; err != nil && !db.IsDuplicateKey(err) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": ""})
}

func MediaUnfavorite(c *gin.Context, user *models.User) {
	vault, ok := vaultAsMember(c, user)
	if !ok {
		return
	}
	item, ok := mediaItemForUser(c, user, &vault)
	if !ok {
		return
	}
	err := db.Instance.
		Where("user_id = ? AND media_item_id = ?", user.ID, item.ID).
		Delete(&models.MediaFavorite{}).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": ""})
}
