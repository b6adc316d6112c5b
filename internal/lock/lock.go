// Package lock защищает слот от параллельной записи между инстансами сервиса.
package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrLocked — слот уже захвачен другим запросом.
var ErrLocked = errors.New("slot is locked")

// Release снимает блокировку. Повторный вызов безопасен.
type Release func(ctx context.Context) error

// SlotLocker захватывает ключ на время ttl.
type SlotLocker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (Release, error)
}

// SlotKey: ключ блокировки специальности на дату.
// Блокируется весь день специальности: пересечение интервалов с разными
// стартами ключом по старту не поймать.
func SlotKey(specialtyID uuid.UUID, date time.Time) string {
	return fmt.Sprintf("clinic:slot-lock:%s:%s", specialtyID, date.Format("2006-01-02"))
}

// Noop: блокировка выключена, защиту даёт только транзакция в БД.
type Noop struct{}

func (Noop) Acquire(context.Context, string, time.Duration) (Release, error) {
	return func(context.Context) error { return nil }, nil
}

// Local: блокировка в памяти процесса (один инстанс, тесты).
type Local struct {
	mu    sync.Mutex
	held  map[string]time.Time
	nowFn func() time.Time
}

func NewLocal() *Local {
	return &Local{held: make(map[string]time.Time), nowFn: time.Now}
}

func (l *Local) Acquire(_ context.Context, key string, ttl time.Duration) (Release, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.nowFn()
	if exp, ok := l.held[key]; ok && now.Before(exp) {
		return nil, ErrLocked
	}
	exp := now.Add(ttl)
	l.held[key] = exp

	var once sync.Once
	return func(context.Context) error {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			// Не снимаем чужую блокировку, если наша уже истекла и ключ перехвачен.
			if cur, ok := l.held[key]; ok && cur.Equal(exp) {
				delete(l.held, key)
			}
		})
		return nil
	}, nil
}
