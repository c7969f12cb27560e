package ports

import (
	"time"

	"github.com/Gunvolt24/ad_renderer/internal/domain"
	"github.com/Gunvolt24/ad_renderer/pkg/future"
)

// ContextFuture - отложенный контекст инстанса (значение записи кэша).
type ContextFuture = future.Future[*domain.InstanceContext]

// InstanceContextCache - кэш отложенных контекстов с TTL.
// Требования к реализации: потокобезопасность; не более одной живой записи на ключ;
// устаревание проверяется лениво при обращении.
type InstanceContextCache interface {
	// Get - живая запись по ключу; (nil, false) при промахе или истечении TTL. Сборку не запускает.
	Get(key domain.CreativeID) (*ContextFuture, bool)

	// Put - безусловно заменить запись для ключа, отметив текущее время и ttl.
	Put(key domain.CreativeID, f *ContextFuture, ttl time.Duration)

	// Load - атомарно: если живой записи нет или refresh=true, вызвать start и установить
	// результат; иначе вернуть существующую запись. start вызывается под блокировкой
	// и обязан только запустить вычисление, не дожидаясь его.
	Load(key domain.CreativeID, refresh bool, ttl time.Duration, start func() *ContextFuture) *ContextFuture
}
