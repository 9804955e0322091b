package services

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"robosim-backend/models"
	"robosim-backend/simulation"
)

// Announcer turns engine events into short viewer-facing announcements.
// Low-priority kinds share a cooldown so a robot grinding against a wall does
// not flood the feed.
type Announcer struct {
	broadcastFunc func(models.WebSocketMessage)

	cooldown    time.Duration
	enabled     bool
	now         func() time.Time
	lastLowPrio time.Time
	mu          sync.Mutex

	queue    chan announceRequest
	stopChan chan struct{}
	wg       sync.WaitGroup
}

type announceRequest struct {
	event     simulation.Event
	challenge *models.Challenge
}

// 이벤트 우선순위 (0 = 안내하지 않음)
var announcePriority = map[simulation.EventKind]int{
	simulation.EventSolved:         100,
	simulation.EventPushedOut:      80,
	simulation.EventCollected:      70,
	simulation.EventCompleted:      50,
	simulation.EventPaused:         40,
	simulation.EventCollision:      20,
	simulation.EventUnknownCommand: 10,
}

// priorities below this share the cooldown
const urgentPriority = 50

// NewAnnouncer - 안내 서비스 생성
func NewAnnouncer(cooldown time.Duration, broadcastFunc func(models.WebSocketMessage)) *Announcer {
	return &Announcer{
		broadcastFunc: broadcastFunc,
		cooldown:      cooldown,
		enabled:       true,
		now:           time.Now,
		queue:         make(chan announceRequest, 64),
		stopChan:      make(chan struct{}),
	}
}

// Start - 큐 처리 고루틴 시작
func (a *Announcer) Start() {
	slog.Info("🎙️ 안내 서비스 시작", "cooldown", a.cooldown)
	a.wg.Add(1)
	go a.processEvents()
}

// Stop drains nothing; pending announcements are dropped.
func (a *Announcer) Stop() {
	close(a.stopChan)
	a.wg.Wait()
	slog.Info("🎙️ 안내 서비스 중지")
}

// SetEnabled - 안내 활성화/비활성화
func (a *Announcer) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

func (a *Announcer) processEvents() {
	defer a.wg.Done()
	for {
		select {
		case req := <-a.queue:
			a.Announce(req.event, req.challenge)
		case <-a.stopChan:
			return
		}
	}
}

// QueueEvent hands an event to the background worker without blocking the
// caller. Events are dropped when the queue is full.
func (a *Announcer) QueueEvent(ev simulation.Event, ch *models.Challenge) {
	if announcePriority[ev.Kind] == 0 {
		return
	}
	select {
	case a.queue <- announceRequest{event: ev, challenge: ch}:
	default:
		slog.Warn("⚠️ 안내 큐 가득 참, 이벤트 무시", "kind", ev.Kind)
	}
}

// Announce formats and broadcasts ev. The bool is false when the event was
// filtered by kind, the enabled switch or the cooldown.
func (a *Announcer) Announce(ev simulation.Event, ch *models.Challenge) (models.Announcement, bool) {
	priority := announcePriority[ev.Kind]
	if priority == 0 {
		return models.Announcement{}, false
	}

	a.mu.Lock()
	if !a.enabled {
		a.mu.Unlock()
		return models.Announcement{}, false
	}
	now := a.now()
	if priority < urgentPriority {
		if !a.lastLowPrio.IsZero() && now.Sub(a.lastLowPrio) < a.cooldown {
			a.mu.Unlock()
			return models.Announcement{}, false
		}
		a.lastLowPrio = now
	}
	a.mu.Unlock()

	ann := models.Announcement{
		Kind:      string(ev.Kind),
		Text:      announcementText(ev, ch),
		Priority:  priority,
		Tick:      ev.Tick,
		Timestamp: now.UnixMilli(),
	}
	if a.broadcastFunc != nil {
		a.broadcastFunc(models.WebSocketMessage{
			Type:      models.MessageTypeAnnouncement,
			Data:      ann,
			Timestamp: ann.Timestamp,
		})
	}
	return ann, true
}

// announcementText - 이벤트별 문구
func announcementText(ev simulation.Event, ch *models.Challenge) string {
	name := "el reto"
	if ch != nil && ch.Name != "" {
		name = ch.Name
	}

	switch ev.Kind {
	case simulation.EventSolved:
		return fmt.Sprintf("¡%s superado en el tick %d!", name, ev.Tick)
	case simulation.EventPushedOut:
		return fmt.Sprintf("¡%s fuera del ring!", ev.Subject)
	case simulation.EventCollected:
		return fmt.Sprintf("Recogido: %s", ev.Subject)
	case simulation.EventCompleted:
		if ev.Subject == string(simulation.EventSolved) {
			return "Programa detenido: reto superado"
		}
		return "Programa terminado"
	case simulation.EventPaused:
		return fmt.Sprintf("Pausa en el comando %d", ev.Index+1)
	case simulation.EventCollision:
		return "¡Choque! El robot no puede avanzar"
	case simulation.EventUnknownCommand:
		return fmt.Sprintf("Comando desconocido: %s", ev.Subject)
	}
	return string(ev.Kind)
}
