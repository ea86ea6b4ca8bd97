// Package hub реализует широковещательный канал событий для одного
// запуска: много публикующих (task driver'ы), много подписчиков (SSE
// клиенты). Публикация никогда не блокируется на медленном подписчике —
// вместо этого такой подписчик получает сигнал Lagged и досоздаётся
// заново, а пропущенные события замещаются свежим снимком состояния
// (это делает уже internal/boss, hub только сигнализирует о разрыве).
package hub

import (
	"context"
	"errors"
	"sync"
)

// DefaultCapacity — размер буфера на одного подписчика по умолчанию.
const DefaultCapacity = 256

// ErrLagged возвращается Recv, когда подписчик не успевал вычитывать
// события и часть из них была отброшена. После этого сигнала доставка
// продолжается с самого нового доступного события — более старые для
// этого подписчика потеряны безвозвратно.
var ErrLagged = errors.New("hub: subscriber lagged, events were dropped")

// ErrClosed возвращается Recv после того, как Hub был закрыт и все
// накопленные в канале подписчика события вычитаны.
var ErrClosed = errors.New("hub: hub is closed")

// Event — событие, пересылаемое через Hub. Kind соответствует имени SSE
// события ("stage_started", "task_output", "task_result", "run_done"),
// Data — уже сериализованное тело (JSON), публикующая сторона готовит
// его заранее, чтобы Hub не делал ничего, кроме пересылки байт.
type Event struct {
	Kind string
	Data string
}

// Hub — широковещательный канал событий одного запуска.
type Hub struct {
	mu          sync.Mutex
	capacity    int
	subscribers map[*subscriberState]struct{}
	closed      bool
}

// New создаёт Hub с указанной ёмкостью буфера на подписчика. capacity<=0
// значит DefaultCapacity.
func New(capacity int) *Hub {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Hub{
		capacity:    capacity,
		subscribers: make(map[*subscriberState]struct{}),
	}
}

type subscriberState struct {
	mu     sync.Mutex
	ch     chan Event
	lagged bool
}

// Subscription — хэндл одного подписчика. Не потокобезопасен для
// одновременных вызовов Recv из нескольких горутин — как и обычный Go
// channel, он рассчитан на одного читателя.
type Subscription struct {
	hub   *Hub
	state *subscriberState
}

// Subscribe регистрирует нового подписчика. Он увидит только события,
// опубликованные после этого вызова — прошлые события не воспроизводятся
// (в отличие от состояния, которое поставляется отдельным снимком самим
// вызывающим кодом — см. internal/boss, где сначала вызывается Subscribe,
// а только потом снимается снимок state, чтобы не потерять события между
// ними).
func (h *Hub) Subscribe() *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	st := &subscriberState{ch: make(chan Event, h.capacity)}
	if h.closed {
		close(st.ch)
	} else {
		h.subscribers[st] = struct{}{}
	}
	return &Subscription{hub: h, state: st}
}

// Publish рассылает событие всем текущим подписчикам. Никогда не
// блокируется: подписчик, чей буфер переполнен, получает сигнал Lagged
// на следующем Recv и пересоздаётся с чистым буфером.
func (h *Hub) Publish(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}

	for st := range h.subscribers {
		st.mu.Lock()
		select {
		case st.ch <- ev:
		default:
			// Буфер переполнен: закрываем старый канал (разбудит Recv с
			// ErrLagged через закрытие), открываем новый и помечаем
			// подписчика lagged.
			close(st.ch)
			st.ch = make(chan Event, h.capacity)
			st.lagged = true
		}
		st.mu.Unlock()
	}
}

// Close закрывает Hub: все подписчики после вычитывания оставшихся в их
// буфере событий получат ErrClosed от Recv. Идемпотентен.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for st := range h.subscribers {
		st.mu.Lock()
		close(st.ch)
		st.mu.Unlock()
	}
	h.subscribers = make(map[*subscriberState]struct{})
}

// Unsubscribe отписывает подписчика; вызывается, когда SSE клиент
// отключается. Безопасен для повторного вызова.
func (s *Subscription) Unsubscribe() {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()
	delete(s.hub.subscribers, s.state)
}

// Recv блокируется до следующего события, до Lagged-восстановления, до
// закрытия Hub либо до отмены ctx.
//
//   - (ev, nil): обычное событие, доставляется в порядке публикации.
//   - (Event{}, ErrLagged): подписчик отстал, буфер был переполнен и
//     пересоздан; вызывающая сторона должна снять свежий снимок
//     состояния и продолжить читать — последующие Recv снова вернут
//     обычные события.
//   - (Event{}, ErrClosed): Hub закрыт и очередь пуста, поток завершён.
//   - (Event{}, ctx.Err()): ctx отменён; select идёт прямо по каналу
//     подписчика, без вспомогательной горутины, так что отменённый
//     Recv не оставляет после себя ничего висящего.
func (s *Subscription) Recv(ctx context.Context) (Event, error) {
	s.state.mu.Lock()
	ch := s.state.ch
	wasLagged := s.state.lagged
	s.state.lagged = false
	if wasLagged {
		// События, успевшие лечь в новый канал после переполнения, тоже
		// отбрасываются: после ErrLagged доставка идёт с публикаций,
		// сделанных уже после него.
	drain:
		for {
			select {
			case _, ok := <-ch:
				if !ok {
					break drain
				}
			default:
				break drain
			}
		}
	}
	s.state.mu.Unlock()

	if wasLagged {
		return Event{}, ErrLagged
	}

	var ev Event
	var ok bool
	select {
	case <-ctx.Done():
		return Event{}, ctx.Err()
	case ev, ok = <-ch:
	}
	if !ok {
		// Канал закрыт — либо Hub закрылся целиком, либо этот подписчик
		// был вытеснен Publish из-за переполнения (новый канал уже на
		// его месте). Различаем их через текущее состояние.
		s.state.mu.Lock()
		same := s.state.ch == ch
		lagged := s.state.lagged
		s.state.lagged = false
		s.state.mu.Unlock()

		if same {
			// Тот же канал всё ещё закрыт и пуст — значит Close() закрыл
			// именно его, и переоткрытия не было.
			return Event{}, ErrClosed
		}
		if lagged {
			return Event{}, ErrLagged
		}
		// Канал был заменён, но lagged уже снят другим Recv — читаем из
		// актуального канала.
		return s.Recv(ctx)
	}
	return ev, nil
}
