package models

import (
	"reflect"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
)

func TestMediaItem_GetTakenTimeInLocation(t *testing.T) {
	CST, _ := time.LoadLocation("Asia/Shanghai")
	taken := int64(1696258800)
	tests := []struct {
		name string
		item MediaItem
		want time.Time
	}{
		{
			name: "Asia/Shanghai", // CST
			item: MediaItem{
				DateTaken: aws.Int64(taken),
				GpsLat:    aws.Float64(39.9254474),
				GpsLong:   aws.Float64(116.3870752),
			},
			want: time.Unix(taken, 0).Local().In(CST),
		},
		{
			name: "Local", // when no GPS coords
			item: MediaItem{DateTaken: aws.Int64(taken)},
			want: time.Unix(taken, 0),
		},
		{
			name: "Falls back to upload time",
			item: MediaItem{CreatedAt: taken},
			want: time.Unix(taken, 0),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.GetTakenTimeInLocation(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MediaItem.GetTakenTimeInLocation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMediaItem_GetPath(t *testing.T) {
	item := MediaItem{ID: 15, VaultID: 3, Name: "holiday.JPG"}
	if got := item.GetPath(); got != "vault/3/15.jpg" {
		t.Errorf("GetPath() = %v", got)
	}
	if got := item.GetThumbPath(); got != "vault/3/15_thumb.jpg" {
		t.Errorf("GetThumbPath() = %v", got)
	}
}

func TestMediaItem_NameSanitized(t *testing.T) {
	item := MediaItem{Name: "../etc/passwd photo.jpg"}
	if err := item.BeforeSave(nil); err != nil {
		t.Fatal(err)
	}
	if item.Name != "_.etc_passwd_photo.jpg" {
		t.Errorf("sanitized name = %q", item.Name)
	}
}

func TestMediaItem_Tags(t *testing.T) {
	item := MediaItem{}
	if tags := item.Tags(); tags != nil {
		t.Errorf("empty item should have no tags, got %v", tags)
	}
	item.SetTags([]string{"wedding", "1970s"})
	if got := item.Tags(); !reflect.DeepEqual(got, []string{"wedding", "1970s"}) {
		t.Errorf("Tags() = %v", got)
	}
	item.SetTags(nil)
	if item.TagsJSON != "" {
		t.Errorf("clearing tags should empty TagsJSON, got %q", item.TagsJSON)
	}
}
