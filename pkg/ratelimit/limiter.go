package ratelimit

import (
	"time"

	"golang.org/x/time/rate"

	"wallet_tracer_back/pkg/metrics"
)

const DefaultRate = 5.0

// Limiter общий на весь процесс ограничитель запросов к эксплорерам.
// Burst равен 1: между двумя выданными разрешениями проходит не меньше 1/R секунды.
type Limiter struct {
	limiter *rate.Limiter
}

func NewLimiter(perSecond float64) *Limiter {
	if perSecond <= 0 {
		perSecond = DefaultRate
	}
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

// Acquire блокирует вызывающего до получения разрешения. Ошибок не бывает, только ожидание.
func (l *Limiter) Acquire() {
	r := l.limiter.Reserve()
	if delay := r.Delay(); delay > 0 {
		metrics.RateLimitWaits.Inc()
		time.Sleep(delay)
	}
}

func (l *Limiter) Interval() time.Duration {
	return time.Duration(float64(time.Second) / float64(l.limiter.Limit()))
}
