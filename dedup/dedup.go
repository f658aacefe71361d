// Package dedup finds media items with colliding content hashes inside one
// vault, reports the reclaimable storage and can merge-and-delete the
// duplicates. The oldest item of a group is always the primary, so repeated
// scans over an unchanged vault produce identical groups.
package dedup

import (
	"log"
	"sort"
	"strings"
	"time"

	"legacykeeper/db"
	"legacykeeper/models"
	"legacykeeper/storage"

	"gorm.io/gorm"
)

// MaxReportGroups caps the groups included in a report payload.
const MaxReportGroups = 100

type ItemSummary struct {
	ID        uint64 `json:"id"`
	Title     string `json:"title"`
	FileSize  int64  `json:"file_size"`
	CreatedAt int64  `json:"created_at"`
}

type Group struct {
	Hash             string        `json:"hash"`
	ReclaimableBytes int64         `json:"reclaimable_bytes"`
	DuplicateCount   int           `json:"duplicate_count"`
	Primary          ItemSummary   `json:"primary"`
	Duplicates       []ItemSummary `json:"duplicates"`
}

type Report struct {
	VaultID              uint64  `json:"vault_id"`
	GeneratedAt          int64   `json:"generated_at"`
	TotalItems           int     `json:"total_items"`
	DuplicateGroupsCount int     `json:"duplicate_groups_count"`
	DuplicateItemsCount  int     `json:"duplicate_items_count"`
	ReclaimableBytes     int64   `json:"reclaimable_bytes"`
	Groups               []Group `json:"groups"`
}

type CleanupResult struct {
	DryRun          bool    `json:"dry_run"`
	GroupsProcessed int     `json:"groups_processed"`
	DeletedItems    int     `json:"deleted_items_count"`
	RecoveredBytes  int64   `json:"recovered_bytes"`
	RemainingGroups int     `json:"remaining_duplicate_groups"`
	Groups          []Group `json:"groups,omitempty"`
}

type group struct {
	hash  string
	items []models.MediaItem // ordered by (created_at, id); items[0] is primary
}

func (g *group) reclaimableBytes() int64 {
	total := int64(0)
	for _, item := range g.items[1:] {
		total += item.FileSize
	}
	return total
}

// resolveGroups loads the vault's items oldest-first, fills in any missing
// content hashes (persisting them) and buckets by hash. Items whose file
// cannot be read keep an empty hash and are left out rather than failing
// the scan.
func resolveGroups(vaultID uint64, selected map[string]bool) (groups []group, totalItems int, err error) {
	var items []models.MediaItem
	err = db.Instance.
		Preload("Bucket").
		Where("vault_id = ?", vaultID).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	totalItems = len(items)

	grouped := map[string][]models.MediaItem{}
	order := []string{}
	for _, item := range items {
		hash := item.EnsureContentHash(true)
		if hash == "" {
			continue
		}
		if len(selected) > 0 && !selected[hash] {
			continue
		}
		if _, seen := grouped[hash]; !seen {
			order = append(order, hash)
		}
		grouped[hash] = append(grouped[hash], item)
	}

	for _, hash := range order {
		if len(grouped[hash]) < 2 {
			continue
		}
		groups = append(groups, group{hash: hash, items: grouped[hash]})
	}
	// Biggest savings first; ties keep first-seen (oldest primary) order
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].reclaimableBytes() > groups[j].reclaimableBytes()
	})
	return groups, totalItems, nil
}

func summarize(item *models.MediaItem) ItemSummary {
	title := item.Title
	if title == "" {
		title = "Untitled memory"
	}
	return ItemSummary{
		ID:        item.ID,
		Title:     title,
		FileSize:  item.FileSize,
		CreatedAt: item.CreatedAt,
	}
}

func (g *group) serialize() Group {
	result := Group{
		Hash:             g.hash,
		ReclaimableBytes: g.reclaimableBytes(),
		DuplicateCount:   len(g.items) - 1,
		Primary:          summarize(&g.items[0]),
		Duplicates:       []ItemSummary{},
	}
	for i := range g.items[1:] {
		result.Duplicates = append(result.Duplicates, summarize(&g.items[i+1]))
	}
	return result
}

func serializeGroups(groups []group) []Group {
	result := []Group{}
	for i := range groups {
		if i >= MaxReportGroups {
			break
		}
		result = append(result, groups[i].serialize())
	}
	return result
}

// Analyze is the read-only duplicate report ("health analysis").
func Analyze(vaultID uint64, selectedHashes []string) (report Report, err error) {
	groups, totalItems, err := resolveGroups(vaultID, toSet(selectedHashes))
	if err != nil {
		return report, err
	}
	report = Report{
		VaultID:     vaultID,
		GeneratedAt: time.Now().Unix(),
		TotalItems:  totalItems,
		Groups:      serializeGroups(groups),
	}
	for i := range groups {
		report.DuplicateGroupsCount++
		report.DuplicateItemsCount += len(groups[i].items) - 1
		report.ReclaimableBytes += groups[i].reclaimableBytes()
	}
	return report, nil
}

// Cleanup merges every duplicate into its group's primary and deletes the
// duplicate records, all inside one transaction. With dryRun the same shape
// is returned without touching anything. Underlying files are removed only
// after the transaction commits.
func Cleanup(vaultID uint64, selectedHashes []string, dryRun bool) (result CleanupResult, err error) {
	groups, _, err := resolveGroups(vaultID, toSet(selectedHashes))
	if err != nil {
		return result, err
	}

	if dryRun {
		result.DryRun = true
		result.GroupsProcessed = len(groups)
		result.Groups = serializeGroups(groups)
		for i := range groups {
			result.DeletedItems += len(groups[i].items) - 1
			result.RecoveredBytes += groups[i].reclaimableBytes()
		}
		return result, nil
	}

	type orphanFile struct {
		bucket storage.Bucket
		path   string
	}
	var orphans []orphanFile

	err = db.Instance.Transaction(func(tx *gorm.DB) error {
		for gi := range groups {
			primary := &groups[gi].items[0]
			for di := range groups[gi].items[1:] {
				duplicate := &groups[gi].items[di+1]
				if err := mergeDuplicateIntoPrimary(tx, primary, duplicate); err != nil {
					return err
				}
				paths, err := deleteDuplicate(tx, duplicate)
				if err != nil {
					return err
				}
				for _, p := range paths {
					orphans = append(orphans, orphanFile{bucket: duplicate.Bucket, path: p})
				}
				result.DeletedItems++
				result.RecoveredBytes += duplicate.FileSize
			}
		}
		result.GroupsProcessed = len(groups)
		return nil
	})
	if err != nil {
		return result, err
	}

	// Post-commit file cleanup; a failure here leaves an orphan file, never
	// a dangling record.
	for _, orphan := range orphans {
		bucket := orphan.bucket
		store := storage.StorageFrom(&bucket)
		if store == nil {
			continue
		}
		if err := store.Delete(orphan.path); err != nil {
			log.Printf("dedup: could not remove %s: %v", orphan.path, err)
		}
	}

	remaining, _, err := resolveGroups(vaultID, nil)
	if err != nil {
		return result, err
	}
	result.RemainingGroups = len(remaining)
	return result, nil
}

// mergeDuplicateIntoPrimary folds the duplicate's metadata into the primary:
// tag lists are unioned, empty or placeholder fields are backfilled, and
// person-tags are reparented unless the primary already has one for that
// person.
func mergeDuplicateIntoPrimary(tx *gorm.DB, primary, duplicate *models.MediaItem) error {
	updates := map[string]interface{}{}

	mergedTags := unionTags(primary.Tags(), duplicate.Tags())
	if len(mergedTags) > 0 && !equalTags(mergedTags, primary.Tags()) {
		primary.SetTags(mergedTags)
		updates["tags_json"] = primary.TagsJSON
	}
	if strings.TrimSpace(primary.Location) == "" && strings.TrimSpace(duplicate.Location) != "" {
		primary.Location = duplicate.Location
		updates["location"] = duplicate.Location
	}
	if isPlaceholderTitle(primary.Title) && duplicate.Title != "" {
		primary.Title = duplicate.Title
		updates["title"] = duplicate.Title
	}
	if primary.Description == "" && duplicate.Description != "" {
		primary.Description = duplicate.Description
		updates["description"] = duplicate.Description
	}
	if primary.DateTaken == nil && duplicate.DateTaken != nil {
		primary.DateTaken = duplicate.DateTaken
		updates["date_taken"] = *duplicate.DateTaken
	}
	if len(updates) > 0 {
		if err := tx.Model(primary).Updates(updates).Error; err != nil {
			return err
		}
	}

	var tags []models.MediaTag
	if err := tx.Where("media_item_id = ?", duplicate.ID).Find(&tags).Error; err != nil {
		return err
	}
	for i := range tags {
		var count int64
		tx.Model(&models.MediaTag{}).
			Where("media_item_id = ? AND person_id = ?", primary.ID, tags[i].PersonID).
			Count(&count)
		if count > 0 {
			if err := tx.Delete(&tags[i]).Error; err != nil {
				return err
			}
			continue
		}
		err := tx.Model(&tags[i]).Update("media_item_id", primary.ID).Error
		if err != nil {
			if !db.IsDuplicateKey(err) {
				return err
			}
			// The primary got a tag for this person concurrently; the
			// duplicate's tag loses.
			if err := tx.Delete(&tags[i]).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func deleteDuplicate(tx *gorm.DB, duplicate *models.MediaItem) (paths []string, err error) {
	paths = append(paths, duplicate.GetPath())
	if duplicate.ThumbSize > 0 {
		paths = append(paths, duplicate.GetThumbPath())
	}
	var attachments []models.MediaAttachment
	if err = tx.Where("media_item_id = ?", duplicate.ID).Find(&attachments).Error; err != nil {
		return nil, err
	}
	for i := range attachments {
		paths = append(paths, attachments[i].GetPath())
	}
	if err = tx.Where("media_item_id = ?", duplicate.ID).Delete(&models.MediaAttachment{}).Error; err != nil {
		return nil, err
	}
	if err = tx.Where("media_item_id = ?", duplicate.ID).Delete(&models.MediaFavorite{}).Error; err != nil {
		return nil, err
	}
	return paths, tx.Delete(duplicate).Error
}

func toSet(hashes []string) map[string]bool {
	if len(hashes) == 0 {
		return nil
	}
	set := make(map[string]bool, len(hashes))
	for _, h := range hashes {
		h = strings.TrimSpace(h)
		if h != "" {
			set[h] = true
		}
	}
	return set
}

func unionTags(a, b []string) []string {
	set := map[string]bool{}
	for _, t := range a {
		if t = strings.TrimSpace(t); t != "" {
			set[t] = true
		}
	}
	for _, t := range b {
		if t = strings.TrimSpace(t); t != "" {
			set[t] = true
		}
	}
	result := make([]string, 0, len(set))
	for t := range set {
		result = append(result, t)
	}
	sort.Strings(result)
	return result
}

func equalTags(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func isPlaceholderTitle(title string) bool {
	return title == "" || strings.HasPrefix(strings.ToLower(title), "untitled")
}
