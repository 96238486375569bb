// Package worker chứa các tác vụ nền chạy theo chu kỳ cùng server.
package worker

import (
	"context"
	"time"

	"story_studio/internal/logger"
)

// OrphanSweeper dọn dữ liệu con không còn part cha, trả về số document đã xóa
type OrphanSweeper interface {
	SweepOrphans(ctx context.Context) (int64, error)
}

// OrphanSweepWorker định kỳ xóa nội dung và media mồ côi.
// Dữ liệu mồ côi xuất hiện khi nội dung được tạo đúng lúc part cha bị xóa.
type OrphanSweepWorker struct {
	sweeper  OrphanSweeper
	interval time.Duration
}

// NewOrphanSweepWorker tạo worker; interval dưới 1 phút được nâng lên 1 phút
func NewOrphanSweepWorker(sweeper OrphanSweeper, interval time.Duration) *OrphanSweepWorker {
	if interval < time.Minute {
		interval = time.Minute
	}
	return &OrphanSweepWorker{sweeper: sweeper, interval: interval}
}

// Start chạy vòng lặp cho tới khi ctx bị hủy
func (w *OrphanSweepWorker) Start(ctx context.Context) {
	log := logger.WithModule("orphan_sweep")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.WithField("interval", w.interval.String()).Info("🧹 [ORPHAN_SWEEP] Starting Orphan Sweep Worker...")

	for {
		select {
		case <-ctx.Done():
			log.Info("🧹 [ORPHAN_SWEEP] Orphan Sweep Worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce chạy một lượt dọn; panic được nuốt để lượt sau vẫn chạy
func (w *OrphanSweepWorker) RunOnce(ctx context.Context) int64 {
	log := logger.WithModule("orphan_sweep")
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("🧹 [ORPHAN_SWEEP] Panic khi dọn dữ liệu, sẽ thử lại ở lượt sau")
		}
	}()

	n, err := w.sweeper.SweepOrphans(ctx)
	if err != nil {
		log.WithError(err).WithField("deleted", n).Error("🧹 [ORPHAN_SWEEP] Lỗi khi dọn dữ liệu mồ côi")
		return n
	}
	if n > 0 {
		log.WithField("deleted", n).Info("🧹 [ORPHAN_SWEEP] Đã dọn dữ liệu mồ côi")
	}
	return n
}
