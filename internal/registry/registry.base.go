// Package registry quản lý các instance dùng chung (collections, databases) theo tên, an toàn khi truy cập đồng thời.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"story_studio/internal/common"
)

// Registry là kho generic, khóa bằng tên, bảo vệ bởi RWMutex.
//
// Example:
//
//	cols := NewRegistry[*mongo.Collection]()
//	cols.Register("parts", db.Collection("parts"))
//	col, ok := cols.Get("parts")
type Registry[T any] struct {
	items map[string]T
	mu    sync.RWMutex
}

// NewRegistry tạo registry rỗng
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{items: make(map[string]T)}
}

// ====================================
// CÁC PHƯƠNG THỨC CỦA REGISTRY
// ====================================

// Register đăng ký (hoặc ghi đè) một item. isNew = false khi đã ghi đè item cũ.
func (r *Registry[T]) Register(name string, item T) (isNew bool, err error) {
	if name == "" {
		return false, fmt.Errorf("registry: name cannot be empty: %w", common.ErrInvalidInput)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, exists := r.items[name]
	r.items[name] = item
	return !exists, nil
}

// Get lấy item theo tên
func (r *Registry[T]) Get(name string) (item T, exists bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, exists = r.items[name]
	return item, exists
}

// MustGet lấy item hoặc trả về ErrNotFound
func (r *Registry[T]) MustGet(name string) (T, error) {
	item, ok := r.Get(name)
	if !ok {
		return item, fmt.Errorf("registry: item %q not registered: %w", name, common.ErrNotFound)
	}
	return item, nil
}

// GetOrCreate trả về item sẵn có, hoặc tạo mới bằng creator trong cùng critical section
func (r *Registry[T]) GetOrCreate(name string, creator func() (T, error)) (item T, err error) {
	if name == "" {
		return item, fmt.Errorf("registry: name cannot be empty: %w", common.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.items[name]; ok {
		return existing, nil
	}

	created, err := creator()
	if err != nil {
		return item, fmt.Errorf("registry: failed to create %q: %w", name, err)
	}
	r.items[name] = created
	return created, nil
}

// Keys trả về danh sách tên đã đăng ký, sắp xếp tăng dần
func (r *Registry[T]) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.items))
	for k := range r.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clear xóa một item, gọi cleanup trước nếu có
func (r *Registry[T]) Clear(name string, cleanup func(T) error) (deleted bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[name]
	if !ok {
		return false, nil
	}
	if cleanup != nil {
		if err := cleanup(item); err != nil {
			return false, fmt.Errorf("registry: cleanup %q: %w", name, err)
		}
	}
	delete(r.items, name)
	return true, nil
}

// ClearAll xóa toàn bộ items. Nếu cleanup lỗi, registry giữ nguyên.
func (r *Registry[T]) ClearAll(cleanup func(T) error) (count int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cleanup != nil {
		for name, item := range r.items {
			if err := cleanup(item); err != nil {
				return 0, fmt.Errorf("registry: cleanup %q: %w", name, err)
			}
		}
	}
	count = len(r.items)
	r.items = make(map[string]T)
	return count, nil
}
