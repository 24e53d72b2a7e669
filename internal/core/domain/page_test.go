package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/mirror/internal/core/domain"
)

func TestPaginate(t *testing.T) {
	set := []int{1, 2, 3, 4, 5}

	tests := []struct {
		name     string
		page     int
		size     int
		want     []int
		hasMore  bool
		wantPage int
	}{
		{"first", 1, 2, []int{1, 2}, true, 1},
		{"last partial", 3, 2, []int{5}, false, 3},
		{"past the end", 4, 2, []int{}, false, 4},
		{"exact fit", 1, 5, []int{1, 2, 3, 4, 5}, false, 1},
		{"clamped", 0, 0, []int{1}, true, 1},
		{"huge page", 1 << 62, 4, []int{}, false, 1 << 62},
		{"huge page size", 2, 1 << 62, []int{}, false, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.Paginate(set, tt.page, tt.size)
			assert.Equal(t, tt.want, got.Items)
			assert.Equal(t, 5, got.Total)
			assert.Equal(t, tt.hasMore, got.HasMore)
			assert.Equal(t, tt.wantPage, got.Page)
		})
	}
}

func TestPaginate_CopiesItems(t *testing.T) {
	set := []int{1, 2, 3}
	got := domain.Paginate(set, 1, 2)
	got.Items[0] = 99
	assert.Equal(t, 1, set[0])
}

func TestRecord_Expired(t *testing.T) {
	now := time.Date(2026, time.March, 2, 9, 30, 0, 0, time.UTC)

	assert.False(t, domain.Record{}.Expired(now), "no expiry")
	assert.True(t, domain.Record{ExpiresAt: now}.Expired(now))
	assert.False(t, domain.Record{ExpiresAt: now.Add(time.Millisecond)}.Expired(now))
	assert.Equal(t, now, domain.FromMillis(domain.ToMillis(now)))
	assert.Zero(t, domain.ToMillis(time.Time{}))
}
