// Package entity 定义领域实体
package entity

import "time"

// AccessPolicy 存储对象的访问策略
type AccessPolicy string

const (
	AccessPublic  AccessPolicy = "public"
	AccessPrivate AccessPolicy = "private"
)

// StoredAsset 已持久化的二进制对象，创建后不可变；
// 视觉修订产生新的 StoredAsset，而非原地覆盖
type StoredAsset struct {
	Key          string       `json:"key"`
	URL          string       `json:"url"`
	ContentType  string       `json:"content_type"`
	SizeBytes    int64        `json:"size_bytes"`
	AccessPolicy AccessPolicy `json:"access_policy"`
	UploadedAt   time.Time    `json:"uploaded_at"`
}
