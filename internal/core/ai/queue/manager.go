package queue

import (
	"context"
	"sync"
	"sync/atomic"

	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"go.uber.org/zap"
)

// Request 隊列請求
type Request struct {
	Context context.Context
	Image   string
	Result  chan Result
}

// Result 處理結果
type Result struct {
	Outcome *recipe.RecognitionOutcome
	Error   error
}

// Status 隊列狀態
type Status struct {
	QueueLength    int `json:"queue_length"`
	ProcessedCount int `json:"processed_count"`
	MaxQueueSize   int `json:"max_queue_size"`
	Workers        int `json:"workers"`
}

// Manager 識別請求隊列管理器，以固定數量的 worker 限制對識別服務的並發呼叫
type Manager struct {
	config     *config.QueueConfig
	recognizer recipe.Recognizer
	queue      chan *Request
	done       chan struct{}
	processed  int64
	wg         sync.WaitGroup
	mu         sync.RWMutex
	closed     bool
}

var _ recipe.Recognizer = (*Manager)(nil)

// NewManager 創建新的隊列管理器並啟動 worker
func NewManager(cfg *config.QueueConfig, recognizer recipe.Recognizer) *Manager {
	m := &Manager{
		config:     cfg,
		recognizer: recognizer,
		queue:      make(chan *Request, cfg.MaxSize),
		done:       make(chan struct{}),
	}

	for i := 0; i < cfg.Workers; i++ {
		m.wg.Add(1)
		go m.worker()
	}

	common.LogInfo("識別隊列已啟動",
		zap.Int("workers", cfg.Workers),
		zap.Int("max_queue_size", cfg.MaxSize),
	)

	return m
}

// worker 處理隊列中的請求
func (m *Manager) worker() {
	defer m.wg.Done()
	for {
		select {
		case req := <-m.queue:
			m.process(req)
		case <-m.done:
			return
		}
	}
}

// process 執行單一請求，已取消的請求直接略過
func (m *Manager) process(req *Request) {
	defer atomic.AddInt64(&m.processed, 1)

	if err := req.Context.Err(); err != nil {
		req.Result <- Result{Error: err}
		return
	}

	outcome, err := m.recognizer.Recognize(req.Context, req.Image)
	req.Result <- Result{Outcome: outcome, Error: err}
}

// Enqueue 將請求加入隊列，隊列已滿時立即失敗
func (m *Manager) Enqueue(ctx context.Context, image string) (<-chan Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, common.ErrQueueClosed
	}

	req := &Request{
		Context: ctx,
		Image:   image,
		Result:  make(chan Result, 1),
	}

	select {
	case m.queue <- req:
		common.LogDebug("Request enqueued",
			zap.Int("queue_length", len(m.queue)),
			zap.Int("max_queue_size", m.config.MaxSize),
		)
		return req.Result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
		common.LogWarn("識別隊列已滿", zap.Int("max_queue_size", m.config.MaxSize))
		return nil, common.ErrQueueFull
	}
}

// Recognize 經由隊列呼叫識別服務並等待結果
func (m *Manager) Recognize(ctx context.Context, image string) (*recipe.RecognitionOutcome, error) {
	result, err := m.Enqueue(ctx, image)
	if err != nil {
		return nil, err
	}

	select {
	case r := <-result:
		return r.Outcome, r.Error
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// GetQueueStatus 獲取隊列狀態
func (m *Manager) GetQueueStatus() *Status {
	return &Status{
		QueueLength:    len(m.queue),
		ProcessedCount: int(atomic.LoadInt64(&m.processed)),
		MaxQueueSize:   m.config.MaxSize,
		Workers:        m.config.Workers,
	}
}

// Close 停止接收新請求並等待 worker 結束
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	close(m.done)
	m.mu.Unlock()

	m.wg.Wait()

	// 尚未處理的請求回報隊列已關閉
	for {
		select {
		case req := <-m.queue:
			req.Result <- Result{Error: common.ErrQueueClosed}
		default:
			return
		}
	}
}
