// Package boss — оркестратор: управление жизненным циклом запуска,
// параллельный драйвер стадий/задач и HTTP+SSE сервис поверх них.
//
// # Обзор
//
// boss держит не более одного ActiveRun одновременно. POST /api/run
// выделяет новый run_id, собирает свежий ActiveRun (дерево состояния +
// широковещательный hub), заменяет им текущий запуск и стартует run
// driver в фоновой горутине. Предыдущий запуск при этом не отменяется —
// он дорабатывает до конца, но с момента замены перестаёт быть достижим
// через HTTP-поверхность (см. run.go и запись об open question в
// DESIGN.md).
//
// # Run driver
//
// runDriver выполняет Pipeline.Stages строго по порядку. Внутри стадии
// все задачи гонятся параллельно через errgroup.Group, и стадия не
// продвигается, пока каждая её задача не достигла терминального
// состояния. Каждый task driver добавляет строки вывода и переключает
// состояние под мьютексом ActiveRun, а соответствующее событие
// публикует через hub запуска уже после отпускания мьютекса — точное
// чередование, которое обязаны сохранять события, описано в driver.go.
//
// # HTTP + SSE
//
// Service выставляет GET /api/state, POST /api/run и
// GET /api/run/{id}/events. Хэндлер событий подписывается на hub до
// снятия снимка состояния (см. handlers.go), поэтому в зазоре между
// ними не может потеряться ни одно событие; сигнал Lagged от hub'а
// конвертируется обратно в свежий снимок состояния, а не отдаётся
// клиенту как ошибка.
package boss
