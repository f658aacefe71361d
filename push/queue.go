package push

import (
	"strconv"
	"time"

	"legacykeeper/config"
	"legacykeeper/models"

	cmap "github.com/orcaman/concurrent-map/v2"
)

const flushInterval = 30 * time.Second

type pendingUploads struct {
	vault *models.Vault
	actor *models.User
	count int
}

// Uploads are batched per uploader and vault so a burst of files produces
// one notification instead of one per file.
var uploadQueue = cmap.New[*pendingUploads]()

func QueueMediaAdded(vault *models.Vault, actor *models.User, count int) {
	if config.PUSH_SERVER == "" || count <= 0 {
		return
	}
	key := strconv.FormatUint(vault.ID, 10) + ":" + strconv.FormatUint(actor.ID, 10)
	uploadQueue.Upsert(key, &pendingUploads{vault: vault, actor: actor, count: count},
		func(exist bool, valueInMap, newValue *pendingUploads) *pendingUploads {
			if exist {
				valueInMap.count += count
				return valueInMap
			}
			return newValue
		})
}

func StartDigest() {
	go func() {
		for range time.Tick(flushInterval) {
			FlushPending()
		}
	}()
}

func FlushPending() {
	for _, key := range uploadQueue.Keys() {
		pending, ok := uploadQueue.Pop(key)
		if !ok {
			continue
		}
		what := strconv.Itoa(pending.count) + " new memory"
		if pending.count > 1 {
			what = strconv.Itoa(pending.count) + " new memories"
		}
		notification := Notification{
			Type:  NotificationTypeNewMemories,
			Title: "Vault \"" + pending.vault.Name + "\"",
			Body:  pending.actor.FullName + " added " + what,
			Data:  vaultData(NotificationTypeNewMemories, pending.vault.ID),
		}
		notification.SendTo(vaultMemberTokens(pending.vault.ID, pending.actor.ID))
	}
}
