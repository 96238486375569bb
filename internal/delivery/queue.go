// Package delivery gửi thông báo bất đồng bộ: request chỉ enqueue, worker nền gửi qua channel.
package delivery

import (
	"context"
	"sync"
	"time"

	"story_studio/internal/delivery/channels"
	"story_studio/internal/logger"
)

// Item là một thông báo chờ gửi
type Item struct {
	EventType string
	Recipient string
	Template  channels.RenderedTemplate
}

// SendFunc gửi một thông báo tới người nhận
type SendFunc func(ctx context.Context, recipient string, template *channels.RenderedTemplate) error

// Queue là hàng đợi trong tiến trình, một worker gửi tuần tự
type Queue struct {
	items   chan Item
	send    SendFunc
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewQueue tạo Queue và khởi động worker
func NewQueue(size int, send SendFunc) *Queue {
	if size <= 0 {
		size = 100
	}
	q := &Queue{
		items:   make(chan Item, size),
		send:    send,
		timeout: 30 * time.Second,
	}
	q.wg.Add(1)
	go q.run()
	return q
}

// NewEmailQueue tạo Queue gửi qua SMTP
func NewEmailQueue(size int, sender channels.EmailSender) *Queue {
	return NewQueue(size, func(ctx context.Context, recipient string, template *channels.RenderedTemplate) error {
		return channels.SendEmail(ctx, sender, recipient, template)
	})
}

// Enqueue thêm item vào hàng đợi, không chặn. Trả về false khi hàng đợi đầy hoặc đã đóng.
func (q *Queue) Enqueue(item Item) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return false
	}

	select {
	case q.items <- item:
		return true
	default:
		logger.GetAppLogger().WithFields(map[string]interface{}{
			"eventType": item.EventType,
			"recipient": item.Recipient,
		}).Warn("[DELIVERY] Hàng đợi đầy, bỏ qua thông báo")
		return false
	}
}

// Close dừng nhận item mới và chờ worker gửi hết phần còn lại
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.items)
	q.mu.Unlock()
	q.wg.Wait()
}

func (q *Queue) run() {
	defer q.wg.Done()
	log := logger.GetAppLogger()

	for item := range q.items {
		ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
		err := q.send(ctx, item.Recipient, &item.Template)
		cancel()

		fields := map[string]interface{}{
			"eventType": item.EventType,
			"recipient": item.Recipient,
		}
		if err != nil {
			log.WithError(err).WithFields(fields).Warn("[DELIVERY] Gửi thông báo thất bại")
			continue
		}
		log.WithFields(fields).Info("[DELIVERY] Đã gửi thông báo")
	}
}
