package db

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/kodik/postcard/internal/models"
)

func int64Ptr(v int64) *int64 {
	return &v
}

// SeedSellers returns the demo sellers
func SeedSellers() []models.Seller {
	return []models.Seller{
		{ID: 1, Name: "Toko Kopi Nusantara", ImageURL: "https://images.kodik.id/sellers/kopi-nusantara.jpg"},
		{ID: 2, Name: "Batik Sekar Jagad"},
		{ID: 3, Name: "Dapur Bu Ratna", ImageURL: "https://images.kodik.id/sellers/dapur-bu-ratna.jpg"},
	}
}

// SeedPosts returns the demo posts, timestamped relative to now
func SeedPosts(now time.Time) []models.Post {
	return []models.Post{
		{
			ID:        1,
			SellerID:  1,
			Content:   "Biji kopi Gayo panen terbaru sudah datang! Stok terbatas.",
			MediaURL:  "https://images.kodik.id/posts/gayo.jpg",
			MediaType: models.MediaImage,
			Timestamp: now.Add(-2 * time.Hour),
			Likes:     24,
			Comments: []models.Comment{
				{ID: 1, PostID: 1, UserName: "andi", UserEmail: "andi@example.com", Text: "Masih ada yang 250 gram?"},
				{ID: 2, PostID: 1, ParentID: int64Ptr(1), UserName: "kopinusantara", UserEmail: "kopinusantara@example.com", Text: "Masih kak, silakan dipesan."},
			},
		},
		{
			ID:        2,
			SellerID:  2,
			Content:   "Proses membatik motif Sekar Jagad, dari canting sampai pewarnaan.",
			MediaURL:  "https://images.kodik.id/posts/membatik.mp4",
			MediaType: models.MediaVideo,
			Timestamp: now.Add(-5 * 24 * time.Hour),
			Likes:     58,
		},
		{
			ID:        3,
			SellerID:  3,
			Content:   "Menu spesial hari ini: rendang dan gulai nangka.",
			Timestamp: now.Add(-40 * 24 * time.Hour),
			Likes:     7,
			Comments: []models.Comment{
				{ID: 3, PostID: 3, UserName: "sari", UserEmail: "sari@example.com", Text: "Bisa kirim ke Depok?"},
			},
		},
	}
}

// NewSeededMemoryStore creates a memory store holding the demo data
func NewSeededMemoryStore(now time.Time) *MemoryStore {
	return NewMemoryStore(SeedSellers(), SeedPosts(now))
}

// Seed inserts the demo data in one transaction. Existing rows are kept.
func (d *DB) Seed(ctx context.Context, now time.Time) error {
	return d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Post{}).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count posts: %w", err)
		}
		if count > 0 {
			return nil
		}

		sellers := SeedSellers()
		if err := tx.Create(&sellers).Error; err != nil {
			return fmt.Errorf("failed to seed sellers: %w", err)
		}

		// Posts are created with their comments; the preset ids keep reply
		// parent references valid.
		posts := SeedPosts(now)
		if err := tx.Create(&posts).Error; err != nil {
			return fmt.Errorf("failed to seed posts: %w", err)
		}

		for _, table := range []string{"sellers", "posts", "comments"} {
			err := tx.Exec(fmt.Sprintf(
				"SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), (SELECT MAX(id) FROM %[1]s))", table,
			)).Error
			if err != nil {
				return fmt.Errorf("failed to advance %s id sequence: %w", table, err)
			}
		}

		return nil
	})
}
